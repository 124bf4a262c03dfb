package services

import (
	"time"

	"trust-monitor/models"
)

// Konstanten der Trend-Analyse.
const (
	trendRecentDays       = 30
	trendPriorDays        = 60
	volatilityThreshold   = 20.0
	momentumRiseThreshold = 10.0
	momentumFallThreshold = -10.0
)

// TrendResult beschreibt Richtung und Stabilität des Scores.
type TrendResult struct {
	Trend      string  `json:"trend"`
	Momentum   float64 `json:"momentum"` // recentScore - priorScore, Konvention -100..100
	Volatility float64 `json:"volatility"`
}

// AnalyzeTrend vergleicht die letzten 30 Tage mit dem Fenster 31-60 Tage:
// für beide Fenster wird der volle kombinierte Score neu berechnet
// (leeres Fenster = neutral 50). Die Volatilität ist die Populations-
// Standardabweichung aller Evidenz, item-weise grob auf 0-100 abgebildet
// (Sentiment*50+50 bzw. Rating*20, sonst 50) — eine Heuristik, bewusst
// nicht symmetrisch zu den primären Score-Formeln.
func AnalyzeTrend(now time.Time, mentions []models.Mention, signals []models.CommunitySignal) TrendResult {
	recentScore := windowScore(now, mentions, signals, 0, trendRecentDays)
	priorScore := windowScore(now, mentions, signals, trendRecentDays, trendPriorDays)

	momentum := recentScore - priorScore
	volatility := populationStdDev(evidenceOnScale(mentions, signals))

	trend := models.TrendStable
	switch {
	case volatility > volatilityThreshold:
		trend = models.TrendVolatile
	case momentum > momentumRiseThreshold:
		trend = models.TrendRising
	case momentum < momentumFallThreshold:
		trend = models.TrendFalling
	}

	return TrendResult{
		Trend:      trend,
		Momentum:   momentum,
		Volatility: volatility,
	}
}

// windowScore berechnet den kombinierten Score über das Evidenz-Fenster
// (fromDays, toDays] relativ zu now.
func windowScore(now time.Time, mentions []models.Mention, signals []models.CommunitySignal, fromDays, toDays int) float64 {
	var windowMentions []models.Mention
	for _, m := range mentions {
		if inWindow(now, m.ScrapedAt, fromDays, toDays) {
			windowMentions = append(windowMentions, m)
		}
	}

	var windowSignals []models.CommunitySignal
	for _, s := range signals {
		if inWindow(now, s.CreatedAt, fromDays, toDays) {
			windowSignals = append(windowSignals, s)
		}
	}

	ai := ScoreMentions(now, windowMentions)
	community := ScoreSignals(now, windowSignals)
	return CombineScores(ai.Score, community.Score)
}

func inWindow(now, ts time.Time, fromDays, toDays int) bool {
	age := now.Sub(ts).Hours() / 24
	if fromDays == 0 {
		// Zukunfts-Zeitstempel zählen ins aktuelle Fenster
		return age <= float64(toDays)
	}
	return age > float64(fromDays) && age <= float64(toDays)
}

// evidenceOnScale bildet jedes Evidenz-Item einzeln auf 0-100 ab.
func evidenceOnScale(mentions []models.Mention, signals []models.CommunitySignal) []float64 {
	values := make([]float64, 0, len(mentions)+len(signals))
	for _, m := range mentions {
		values = append(values, m.SentimentScore*50.0+50.0)
	}
	for _, s := range signals {
		if s.Type == models.SignalRating && s.Rating != nil {
			values = append(values, *s.Rating*20.0)
		} else {
			values = append(values, 50.0)
		}
	}
	return values
}
