package services

import (
	"math"

	"trust-monitor/models"
)

// Konstanten der Korrektur-Schicht.
const (
	aiSplitWeight        = 30.0
	ratingSpreadWeight   = 15.0
	ratingSpreadCap      = 30.0
	reportSplitWeight    = 40.0
	controversyPenaltyAt = 15.0 // Penalty bei Controversy 100
	verificationBonusMax = 5.0
	consistencyBonusMax  = 5.0
	outlierMinRatings    = 5
	outlierDistance      = 2.0
	outlierRateThreshold = 0.3
	outlierPenaltyScale  = 3.0

	aiShare        = 0.55
	communityShare = 0.45
)

// Adjustments fasst alle Korrekturterme eines Aggregationslaufs zusammen.
type Adjustments struct {
	Controversy        float64 `json:"controversy"`
	ControversyPenalty float64 `json:"controversy_penalty"`
	VerificationBonus  float64 `json:"verification_bonus"`
	ConsistencyBonus   float64 `json:"consistency_bonus"`
	OutlierAdjustment  float64 `json:"outlier_adjustment"`
}

// ComputeAdjustments berechnet Kontroversen-Level, Straf- und Bonusterme
// aus beiden Evidenzströmen.
func ComputeAdjustments(ai MentionScore, mentions []models.Mention, signals []models.CommunitySignal) Adjustments {
	adj := Adjustments{}

	verifiedRatings := verifiedRatingValues(signals)
	verifiedDrama, verifiedPositive := verifiedReportCounts(signals)

	// Kontroversen-Level: gegensätzliche Evidenz in jedem Strom.
	controversy := 0.0
	if ai.DramaCount > 0 && ai.PositiveCount > 0 {
		controversy += ratioOfExtremes(ai.DramaCount, ai.PositiveCount) * aiSplitWeight
	}
	if len(verifiedRatings) >= 3 {
		spread := sampleStdDev(verifiedRatings) * ratingSpreadWeight
		controversy += math.Min(spread, ratingSpreadCap)
	}
	if verifiedDrama > 0 && verifiedPositive > 0 {
		controversy += ratioOfExtremes(verifiedDrama, verifiedPositive) * reportSplitWeight
	}
	adj.Controversy = math.Min(controversy, 100.0)
	adj.ControversyPenalty = -(adj.Controversy / 100.0) * controversyPenaltyAt

	// Verifikationsrate der Community-Signale.
	if len(signals) > 0 {
		verified := 0
		for _, s := range signals {
			if s.Status == models.StatusVerified {
				verified++
			}
		}
		adj.VerificationBonus = float64(verified) / float64(len(signals)) * verificationBonusMax
	}

	// Konsistenz zwischen AI-Sentiment und Community-Ratings.
	if len(mentions) > 0 && len(verifiedRatings) > 0 {
		aiSentiment := meanSentiment(mentions)
		ratingSentiment := (mean(verifiedRatings) - neutralRating) / 2.0
		agreement := 1.0 - math.Abs(aiSentiment-ratingSentiment)
		adj.ConsistencyBonus = agreement * consistencyBonusMax
	}

	// Ausreißer-Erkennung, erst ab fünf verifizierten Ratings belastbar.
	if len(verifiedRatings) >= outlierMinRatings {
		m := mean(verifiedRatings)
		outliers := 0
		for _, r := range verifiedRatings {
			if math.Abs(r-m) > outlierDistance {
				outliers++
			}
		}
		outlierRate := float64(outliers) / float64(len(verifiedRatings))
		if outlierRate > outlierRateThreshold {
			adj.OutlierAdjustment = -outlierRate * outlierPenaltyScale
		}
	}

	return adj
}

// CombineScores gewichtet AI- gegen Community-Score (55/45).
func CombineScores(aiScore, communityScore float64) float64 {
	return aiScore*aiShare + communityScore*communityShare
}

// FinalScore wendet alle Korrekturterme auf den kombinierten Score an.
func FinalScore(combined float64, adj Adjustments) float64 {
	return clampScore(combined + adj.ControversyPenalty + adj.VerificationBonus + adj.ConsistencyBonus + adj.OutlierAdjustment)
}

func verifiedRatingValues(signals []models.CommunitySignal) []float64 {
	var ratings []float64
	for _, s := range signals {
		if s.Type == models.SignalRating && s.Status == models.StatusVerified && s.Rating != nil {
			ratings = append(ratings, *s.Rating)
		}
	}
	return ratings
}

func verifiedReportCounts(signals []models.CommunitySignal) (drama, positive int) {
	for _, s := range signals {
		if s.Status != models.StatusVerified {
			continue
		}
		switch s.Type {
		case models.SignalDramaReport:
			drama++
		case models.SignalPositiveAction:
			positive++
		}
	}
	return drama, positive
}

// ratioOfExtremes misst, wie ausgeglichen zwei gegensätzliche Zähler sind (0..1).
func ratioOfExtremes(a, b int) float64 {
	minV, maxV := float64(a), float64(b)
	if minV > maxV {
		minV, maxV = maxV, minV
	}
	if maxV == 0 {
		return 0
	}
	return minV / maxV
}

func meanSentiment(mentions []models.Mention) float64 {
	if len(mentions) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range mentions {
		sum += m.SentimentScore
	}
	return sum / float64(len(mentions))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev ist die Stichproben-Standardabweichung (n-1) der Rating-Streuung.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// populationStdDev wird für die Volatilitäts-Heuristik verwendet.
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
