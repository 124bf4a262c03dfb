package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trust-monitor/models"
)

func mention(label string, sentiment float64, age time.Duration, now time.Time) models.Mention {
	return models.Mention{
		Source:         "news",
		Label:          label,
		SentimentScore: sentiment,
		ScrapedAt:      now.Add(-age),
	}
}

func TestScoreMentionsEmpty(t *testing.T) {
	result := ScoreMentions(time.Now(), nil)

	assert.Equal(t, 50.0, result.Score)
	assert.Zero(t, result.DramaImpact)
	assert.Zero(t, result.PositiveImpact)
	assert.Zero(t, result.SentimentImpact)
	assert.Zero(t, result.DramaCount)
}

func TestScoreMentionsSingleFreshDrama(t *testing.T) {
	now := time.Now()
	result := ScoreMentions(now, []models.Mention{
		mention(models.LabelDrama, -0.8, 0, now),
	})

	// -15 Drama + (-0.8 * 20) Sentiment auf Basis 50
	assert.InDelta(t, -15.0, result.DramaImpact, 1e-6)
	assert.InDelta(t, -16.0, result.SentimentImpact, 1e-6)
	assert.InDelta(t, 19.0, result.Score, 1e-6)
	assert.Equal(t, 1, result.DramaCount)
	assert.InDelta(t, -0.8, result.AvgSentiment, 1e-9)
}

func TestScoreMentionsSingleFreshPositive(t *testing.T) {
	now := time.Now()
	result := ScoreMentions(now, []models.Mention{
		mention(models.LabelPositive, 0.5, 0, now),
	})

	assert.InDelta(t, 10.0, result.PositiveImpact, 1e-6)
	assert.InDelta(t, 10.0, result.SentimentImpact, 1e-6)
	assert.InDelta(t, 70.0, result.Score, 1e-6)
}

func TestScoreMentionsOldDramaWeighsLess(t *testing.T) {
	now := time.Now()
	fresh := ScoreMentions(now, []models.Mention{
		mention(models.LabelNeutral, 0, 0, now),
		mention(models.LabelDrama, 0, 0, now),
	})
	aged := ScoreMentions(now, []models.Mention{
		mention(models.LabelNeutral, 0, 0, now),
		mention(models.LabelDrama, 0, 360*24*time.Hour, now),
	})

	// Das gealterte Drama hat weniger anteiliges Gewicht im Mix
	assert.Less(t, fresh.DramaImpact, aged.DramaImpact)
	assert.Greater(t, aged.Score, fresh.Score)
	assert.Less(t, aged.RecencyFactor, fresh.RecencyFactor)
}

func TestScoreMentionsLabelCountCapAndClamp(t *testing.T) {
	now := time.Now()
	mentions := make([]models.Mention, 0, 15)
	for i := 0; i < 15; i++ {
		mentions = append(mentions, mention(models.LabelDrama, -1, 0, now))
	}
	result := ScoreMentions(now, mentions)

	// Zähler wird bei 10 gedeckelt: 1.0 * -15 * 10
	assert.InDelta(t, -150.0, result.DramaImpact, 1e-6)
	assert.Equal(t, 15, result.DramaCount)
	assert.Equal(t, 0.0, result.Score)
}

func TestScoreMentionsScoreStaysInRange(t *testing.T) {
	now := time.Now()
	mentions := make([]models.Mention, 0, 15)
	for i := 0; i < 15; i++ {
		mentions = append(mentions, mention(models.LabelPositive, 1, 0, now))
	}
	result := ScoreMentions(now, mentions)

	assert.Equal(t, 100.0, result.Score)
}
