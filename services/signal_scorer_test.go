package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trust-monitor/models"
)

func ratingSignal(value float64, status string, age time.Duration, now time.Time) models.CommunitySignal {
	return models.CommunitySignal{
		Type:      models.SignalRating,
		Rating:    &value,
		Status:    status,
		CreatedAt: now.Add(-age),
	}
}

func reportSignal(signalType, status string, age time.Duration, now time.Time) models.CommunitySignal {
	return models.CommunitySignal{
		Type:      signalType,
		Status:    status,
		CreatedAt: now.Add(-age),
	}
}

func TestScoreSignalsEmpty(t *testing.T) {
	result := ScoreSignals(time.Now(), nil)

	assert.Equal(t, 50.0, result.Score)
	assert.Equal(t, 3.0, result.AvgRating)
	assert.Zero(t, result.RatingImpact)
}

func TestScoreSignalsSingleVerifiedRating(t *testing.T) {
	now := time.Now()

	top := ScoreSignals(now, []models.CommunitySignal{
		ratingSignal(5, models.StatusVerified, 0, now),
	})
	assert.InDelta(t, 5.0, top.AvgRating, 1e-6)
	assert.InDelta(t, 20.0, top.RatingImpact, 1e-6)
	assert.InDelta(t, 70.0, top.Score, 1e-6)
	assert.Equal(t, 1, top.RatingCount)

	bottom := ScoreSignals(now, []models.CommunitySignal{
		ratingSignal(1, models.StatusVerified, 0, now),
	})
	assert.InDelta(t, -20.0, bottom.RatingImpact, 1e-6)
	assert.InDelta(t, 30.0, bottom.Score, 1e-6)
}

func TestScoreSignalsRejectedRatingCountsZero(t *testing.T) {
	now := time.Now()
	result := ScoreSignals(now, []models.CommunitySignal{
		ratingSignal(5, models.StatusVerified, 0, now),
		ratingSignal(1, models.StatusRejected, 0, now),
	})

	// Das abgelehnte 1er-Rating darf den Schnitt nicht berühren
	assert.InDelta(t, 5.0, result.AvgRating, 1e-6)
	assert.Equal(t, 2, result.RatingCount)
}

func TestScoreSignalsPendingRatingDiscounted(t *testing.T) {
	now := time.Now()
	result := ScoreSignals(now, []models.CommunitySignal{
		ratingSignal(5, models.StatusVerified, 0, now),
		ratingSignal(1, models.StatusPending, 0, now),
	})

	// (5*1.0 + 1*0.3) / 1.3
	assert.InDelta(t, 5.3/1.3, result.AvgRating, 1e-6)
}

func TestScoreSignalsReputationWeightsVotes(t *testing.T) {
	now := time.Now()
	admin := &models.Contributor{Role: models.RoleAdmin, ReputationScore: 100, Level: 50}

	adminFive := ratingSignal(5, models.StatusVerified, 0, now)
	adminFive.Contributor = admin
	communityOne := ratingSignal(1, models.StatusVerified, 0, now)

	result := ScoreSignals(now, []models.CommunitySignal{adminFive, communityOne})

	// Admin-Gewicht 5.625 gegen 1.0: Schnitt liegt deutlich über der Mitte
	assert.Greater(t, result.AvgRating, 4.0)
}

func TestScoreSignalsDramaReportsFloor(t *testing.T) {
	now := time.Now()
	signals := make([]models.CommunitySignal, 0, 6)
	for i := 0; i < 6; i++ {
		signals = append(signals, reportSignal(models.SignalDramaReport, models.StatusVerified, 0, now))
	}
	result := ScoreSignals(now, signals)

	// 6 * -8 = -48 → Untergrenze -40
	assert.Equal(t, -40.0, result.DramaImpact)
	assert.InDelta(t, 10.0, result.Score, 1e-6)
}

func TestScoreSignalsPositiveActionsCap(t *testing.T) {
	now := time.Now()
	signals := make([]models.CommunitySignal, 0, 6)
	for i := 0; i < 6; i++ {
		signals = append(signals, reportSignal(models.SignalPositiveAction, models.StatusVerified, 0, now))
	}
	result := ScoreSignals(now, signals)

	// 6 * 6 = 36 → Obergrenze 30
	assert.Equal(t, 30.0, result.PositiveImpact)
	assert.InDelta(t, 80.0, result.Score, 1e-6)
}

func TestScoreSignalsUnverifiedReportsIgnored(t *testing.T) {
	now := time.Now()
	result := ScoreSignals(now, []models.CommunitySignal{
		reportSignal(models.SignalDramaReport, models.StatusPending, 0, now),
		reportSignal(models.SignalDramaReport, models.StatusRejected, 0, now),
		reportSignal(models.SignalPositiveAction, models.StatusPending, 0, now),
	})

	assert.Zero(t, result.DramaImpact)
	assert.Zero(t, result.PositiveImpact)
	assert.Equal(t, 50.0, result.Score)
}
