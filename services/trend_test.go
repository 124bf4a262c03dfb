package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trust-monitor/models"
)

func TestAnalyzeTrendNoEvidence(t *testing.T) {
	result := AnalyzeTrend(time.Now(), nil, nil)

	assert.Equal(t, models.TrendStable, result.Trend)
	assert.Zero(t, result.Momentum)
	assert.Zero(t, result.Volatility)
}

func TestAnalyzeTrendRising(t *testing.T) {
	now := time.Now()
	mentions := []models.Mention{
		mention(models.LabelPositive, 0.2, 5*24*time.Hour, now),
		mention(models.LabelPositive, 0.2, 6*24*time.Hour, now),
		mention(models.LabelDrama, -0.2, 45*24*time.Hour, now),
		mention(models.LabelDrama, -0.2, 46*24*time.Hour, now),
	}

	result := AnalyzeTrend(now, mentions, nil)

	assert.Equal(t, models.TrendRising, result.Trend)
	assert.Greater(t, result.Momentum, momentumRiseThreshold)
	assert.LessOrEqual(t, result.Volatility, volatilityThreshold)
}

func TestAnalyzeTrendFalling(t *testing.T) {
	now := time.Now()
	mentions := []models.Mention{
		mention(models.LabelDrama, -0.2, 5*24*time.Hour, now),
		mention(models.LabelDrama, -0.2, 6*24*time.Hour, now),
		mention(models.LabelPositive, 0.2, 45*24*time.Hour, now),
		mention(models.LabelPositive, 0.2, 46*24*time.Hour, now),
	}

	result := AnalyzeTrend(now, mentions, nil)

	assert.Equal(t, models.TrendFalling, result.Trend)
	assert.Less(t, result.Momentum, momentumFallThreshold)
}

func TestAnalyzeTrendVolatileWinsOverMomentum(t *testing.T) {
	now := time.Now()
	mentions := []models.Mention{
		mention(models.LabelPositive, 1.0, 5*24*time.Hour, now),
		mention(models.LabelDrama, -1.0, 45*24*time.Hour, now),
	}

	result := AnalyzeTrend(now, mentions, nil)

	// Sentiment-Spanne [-1, 1] → Streuung 50, Volatilität schlägt Momentum
	assert.Equal(t, models.TrendVolatile, result.Trend)
	assert.InDelta(t, 50.0, result.Volatility, 1e-6)
}

func TestAnalyzeTrendSingleItemIsStable(t *testing.T) {
	now := time.Now()
	mentions := []models.Mention{
		mention(models.LabelNeutral, 0, 2*24*time.Hour, now),
	}

	result := AnalyzeTrend(now, mentions, nil)

	assert.Equal(t, models.TrendStable, result.Trend)
	assert.Zero(t, result.Volatility)
}

func TestWindowScoreBoundaries(t *testing.T) {
	now := time.Now()

	// genau Tag 30 gehört noch ins aktuelle Fenster
	edge := mention(models.LabelDrama, -1, 30*24*time.Hour, now)
	recent := windowScore(now, []models.Mention{edge}, nil, 0, trendRecentDays)
	prior := windowScore(now, []models.Mention{edge}, nil, trendRecentDays, trendPriorDays)
	assert.Less(t, recent, 50.0)
	assert.InDelta(t, 50.0, prior, 1e-6)

	// Tag 31 fällt ins Vorfenster
	older := mention(models.LabelDrama, -1, 31*24*time.Hour, now)
	recent = windowScore(now, []models.Mention{older}, nil, 0, trendRecentDays)
	prior = windowScore(now, []models.Mention{older}, nil, trendRecentDays, trendPriorDays)
	assert.InDelta(t, 50.0, recent, 1e-6)
	assert.Less(t, prior, 50.0)
}

func TestInWindowFutureTimestamps(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)

	assert.True(t, inWindow(now, future, 0, trendRecentDays))
	assert.False(t, inWindow(now, future, trendRecentDays, trendPriorDays))
}

func TestEvidenceOnScale(t *testing.T) {
	now := time.Now()
	rating := ratingSignal(4, models.StatusVerified, 0, now)
	comment := models.CommunitySignal{Type: models.SignalComment, Status: models.StatusVerified, CreatedAt: now}
	mentions := []models.Mention{mention(models.LabelNeutral, -0.5, 0, now)}

	values := evidenceOnScale(mentions, []models.CommunitySignal{rating, comment})

	assert.Equal(t, []float64{25, 80, 50}, values)
}
