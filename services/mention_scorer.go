package services

import (
	"time"

	"trust-monitor/models"
)

// Gewichtungskonstanten des AI-Mention-Scorings.
const (
	dramaWeight     = -15.0
	positiveWeight  = 10.0
	sentimentWeight = 20.0
	maxLabelCount   = 10 // Drama/Positiv-Zähler werden gedeckelt
)

// MentionScore ist das Teilergebnis des AI-Evidenz-Scorings.
type MentionScore struct {
	Score           float64 `json:"score"`
	DramaImpact     float64 `json:"drama_impact"`
	PositiveImpact  float64 `json:"positive_impact"`
	SentimentImpact float64 `json:"sentiment_impact"`

	DramaCount    int     `json:"drama_count"`
	PositiveCount int     `json:"positive_count"`
	NeutralCount  int     `json:"neutral_count"`
	AvgSentiment  float64 `json:"avg_sentiment"`
	RecencyFactor float64 `json:"recency_factor"`
}

// ScoreMentions berechnet den 0-100 Sub-Score aus den automatischen
// Mentions. Eine leere Liste ergibt den neutralen Basiswert 50 ohne
// Impact-Terme.
func ScoreMentions(now time.Time, mentions []models.Mention) MentionScore {
	if len(mentions) == 0 {
		return MentionScore{Score: baseScore}
	}

	var (
		weightedDrama     float64
		weightedPositive  float64
		weightedSentiment float64
		totalWeight       float64
		sentimentSum      float64
	)

	result := MentionScore{}

	for _, m := range mentions {
		daysOld := now.Sub(m.ScrapedAt).Hours() / 24
		recency := RecencyWeight(daysOld)

		switch m.Label {
		case models.LabelDrama:
			result.DramaCount++
			weightedDrama += recency
		case models.LabelPositive:
			result.PositiveCount++
			weightedPositive += recency
		default:
			result.NeutralCount++
		}

		sentimentSum += m.SentimentScore
		weightedSentiment += m.SentimentScore * recency
		totalWeight += recency
	}

	result.AvgSentiment = sentimentSum / float64(len(mentions))

	if totalWeight > 0 {
		weightedDrama /= totalWeight
		weightedPositive /= totalWeight
		weightedSentiment /= totalWeight
	}

	dramaCount := result.DramaCount
	if dramaCount > maxLabelCount {
		dramaCount = maxLabelCount
	}
	positiveCount := result.PositiveCount
	if positiveCount > maxLabelCount {
		positiveCount = maxLabelCount
	}

	result.DramaImpact = weightedDrama * dramaWeight * float64(dramaCount)
	result.PositiveImpact = weightedPositive * positiveWeight * float64(positiveCount)
	result.SentimentImpact = weightedSentiment * sentimentWeight

	result.Score = clampScore(baseScore + result.DramaImpact + result.PositiveImpact + result.SentimentImpact)
	result.RecencyFactor = totalWeight / float64(len(mentions))

	return result
}
