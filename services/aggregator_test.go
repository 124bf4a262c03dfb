package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trust-monitor/models"
)

func TestComputeScoreNoEvidence(t *testing.T) {
	now := time.Now()
	score, err := ComputeScore(now, 1, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 50.0, score.FinalScore)
	assert.Equal(t, 50.0, score.AIScore)
	assert.Equal(t, 50.0, score.CommunityScore)
	assert.Equal(t, models.TrendStable, score.Trend)
	assert.Zero(t, score.MentionCount)
	assert.Zero(t, score.SignalCount)
	assert.Zero(t, score.DataSpanDays)
}

func TestComputeScoreDeterministic(t *testing.T) {
	now := time.Now()
	mentions := []models.Mention{
		mention(models.LabelDrama, -0.6, 3*24*time.Hour, now),
		mention(models.LabelPositive, 0.4, 10*24*time.Hour, now),
		mention(models.LabelNeutral, 0.1, 40*24*time.Hour, now),
	}
	signals := []models.CommunitySignal{
		ratingSignal(4, models.StatusVerified, 2*24*time.Hour, now),
		ratingSignal(2, models.StatusPending, 8*24*time.Hour, now),
		reportSignal(models.SignalDramaReport, models.StatusVerified, 5*24*time.Hour, now),
	}

	first, err := ComputeScore(now, 7, mentions, signals)
	require.NoError(t, err)
	second, err := ComputeScore(now, 7, mentions, signals)
	require.NoError(t, err)

	// Gleicher Schnappschuss, bitidentisches Ergebnis
	assert.Equal(t, first, second)
}

func TestComputeScoreRanges(t *testing.T) {
	now := time.Now()
	mentions := []models.Mention{
		mention(models.LabelDrama, -1, 0, now),
		mention(models.LabelDrama, -0.9, 24*time.Hour, now),
		mention(models.LabelPositive, 0.8, 2*24*time.Hour, now),
	}
	signals := []models.CommunitySignal{
		ratingSignal(1, models.StatusVerified, 0, now),
		ratingSignal(5, models.StatusVerified, 24*time.Hour, now),
		reportSignal(models.SignalDramaReport, models.StatusVerified, 0, now),
		reportSignal(models.SignalPositiveAction, models.StatusVerified, 0, now),
	}

	score, err := ComputeScore(now, 1, mentions, signals)
	require.NoError(t, err)

	for name, v := range map[string]float64{
		"final":        score.FinalScore,
		"ai":           score.AIScore,
		"community":    score.CommunityScore,
		"combined":     score.CombinedScore,
		"confidence":   score.Confidence,
		"data_quality": score.DataQuality,
		"controversy":  score.Controversy,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 100.0, name)
	}

	assert.Equal(t, 3, score.MentionCount)
	assert.Equal(t, 4, score.SignalCount)
	assert.Equal(t, 4, score.VerifiedSignalCount)
	assert.Equal(t, 1, score.UniqueContributors)
}

func TestComputeScoreBreakdown(t *testing.T) {
	now := time.Now()
	mentions := []models.Mention{mention(models.LabelDrama, -0.8, 0, now)}

	score, err := ComputeScore(now, 1, mentions, nil)
	require.NoError(t, err)

	var breakdown Breakdown
	require.NoError(t, json.Unmarshal(score.Breakdown, &breakdown))

	assert.Equal(t, 50.0, breakdown.Base)
	assert.Equal(t, -15.0, breakdown.DramaImpact)
	assert.Equal(t, -16.0, breakdown.SentimentImpact)
	assert.Equal(t, -0.8, breakdown.AvgSentiment)
}

func TestComputeScoreCombinedWeighting(t *testing.T) {
	now := time.Now()
	// Nur AI-Evidenz: Community bleibt neutral 50
	mentions := []models.Mention{mention(models.LabelPositive, 1, 0, now)}

	score, err := ComputeScore(now, 1, mentions, nil)
	require.NoError(t, err)

	assert.InDelta(t, 80.0, score.AIScore, 1e-6)
	assert.InDelta(t, 50.0, score.CommunityScore, 1e-6)
	assert.InDelta(t, 80*0.55+50*0.45, score.CombinedScore, 1e-6)
}

func TestDataSpanDays(t *testing.T) {
	now := time.Now()
	mentions := []models.Mention{
		mention(models.LabelNeutral, 0, 0, now),
		mention(models.LabelNeutral, 0, 14*24*time.Hour, now),
	}
	signals := []models.CommunitySignal{
		ratingSignal(3, models.StatusVerified, 30*24*time.Hour, now),
	}

	assert.InDelta(t, 30.0, dataSpanDays(mentions, signals), 1e-6)
	assert.Zero(t, dataSpanDays(nil, nil))
}
