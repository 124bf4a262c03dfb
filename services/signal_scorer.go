package services

import (
	"time"

	"trust-monitor/models"
)

// Gewichtungskonstanten des Community-Scorings.
const (
	ratingImpactScale  = 10.0 // (avgRating - 3) * 10 → -20..+20
	dramaReportPenalty = 8.0
	positiveActionGain = 6.0
	dramaImpactFloor   = -40.0
	positiveImpactCap  = 30.0
	neutralRating      = 3.0
)

// SignalScore ist das Teilergebnis des Community-Evidenz-Scorings.
type SignalScore struct {
	Score          float64 `json:"score"`
	RatingImpact   float64 `json:"rating_impact"`
	DramaImpact    float64 `json:"drama_impact"`
	PositiveImpact float64 `json:"positive_impact"`

	AvgRating   float64 `json:"avg_rating"`
	RatingCount int     `json:"rating_count"`
}

// ScoreSignals berechnet den 0-100 Sub-Score aus Community-Signalen.
// Ratings gehen mit Recency-, Verifikations- und Reputationsgewicht ein
// (abgelehnte zählen null, schwebende mit 0.3); Drama- und
// Positiv-Reports zählen nur verifiziert. Eine leere Liste ergibt den
// neutralen Basiswert 50.
func ScoreSignals(now time.Time, signals []models.CommunitySignal) SignalScore {
	if len(signals) == 0 {
		return SignalScore{Score: baseScore, AvgRating: neutralRating}
	}

	var (
		ratingWeightSum float64
		ratingSum       float64
		dramaImpact     float64
		positiveImpact  float64
	)

	result := SignalScore{}

	for _, s := range signals {
		daysOld := now.Sub(s.CreatedAt).Hours() / 24
		recency := RecencyWeight(daysOld)
		reputation := ReputationWeight(s.Contributor)

		switch s.Type {
		case models.SignalRating:
			if s.Rating == nil {
				continue
			}
			result.RatingCount++
			w := recency * verificationWeight(s.Status) * reputation
			ratingSum += *s.Rating * w
			ratingWeightSum += w
		case models.SignalDramaReport:
			if s.Status == models.StatusVerified {
				dramaImpact -= dramaReportPenalty * recency * reputation
			}
		case models.SignalPositiveAction:
			if s.Status == models.StatusVerified {
				positiveImpact += positiveActionGain * recency * reputation
			}
		}
	}

	avgRating := neutralRating
	if ratingWeightSum > 0 {
		avgRating = ratingSum / ratingWeightSum
	}

	if dramaImpact < dramaImpactFloor {
		dramaImpact = dramaImpactFloor
	}
	if positiveImpact > positiveImpactCap {
		positiveImpact = positiveImpactCap
	}

	result.AvgRating = avgRating
	result.RatingImpact = (avgRating - neutralRating) * ratingImpactScale
	result.DramaImpact = dramaImpact
	result.PositiveImpact = positiveImpact
	result.Score = clampScore(baseScore + result.RatingImpact + dramaImpact + positiveImpact)

	return result
}
