package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trust-monitor/models"
)

func TestRecencyWeight(t *testing.T) {
	assert.Equal(t, 1.0, RecencyWeight(0))
	assert.InDelta(t, math.Exp(-1), RecencyWeight(180), 1e-9)

	// Zukunfts-Zeitstempel zählen wie heute
	assert.Equal(t, 1.0, RecencyWeight(-5))

	// Untergrenze: alte Evidenz verschwindet nie komplett
	assert.Equal(t, MinRecencyWeight, RecencyWeight(10000))
}

func TestRecencyWeightMonotonic(t *testing.T) {
	prev := RecencyWeight(0)
	for days := 1.0; days <= 1000; days += 7 {
		w := RecencyWeight(days)
		require.LessOrEqual(t, w, prev, "weight must not increase with age (days=%v)", days)
		require.GreaterOrEqual(t, w, MinRecencyWeight)
		prev = w
	}
}

func TestReputationWeight(t *testing.T) {
	tests := []struct {
		name        string
		contributor *models.Contributor
		expected    float64
	}{
		{
			name:        "nil contributor counts as unknown community member",
			contributor: nil,
			expected:    1.0,
		},
		{
			name:        "baseline community member",
			contributor: &models.Contributor{Role: models.RoleCommunity, ReputationScore: 50, Level: 0},
			expected:    1.0,
		},
		{
			name:        "community member with level bonus",
			contributor: &models.Contributor{Role: models.RoleCommunity, ReputationScore: 50, Level: 10},
			expected:    1.1,
		},
		{
			name:        "admin at maximum everything",
			contributor: &models.Contributor{Role: models.RoleAdmin, ReputationScore: 100, Level: 50},
			expected:    2.5 * 1.5 * 1.5,
		},
		{
			name:        "professional with default reputation",
			contributor: &models.Contributor{Role: models.RoleProfessional, ReputationScore: 50, Level: 0},
			expected:    1.8,
		},
		{
			name:        "level bonus is capped at 50",
			contributor: &models.Contributor{Role: models.RoleCommunity, ReputationScore: 50, Level: 200},
			expected:    1.5,
		},
		{
			name:        "unknown role falls back to community weight",
			contributor: &models.Contributor{Role: "MODERATOR", ReputationScore: 50, Level: 0},
			expected:    1.0,
		},
		{
			name:        "zero reputation halves the vote",
			contributor: &models.Contributor{Role: models.RoleCommunity, ReputationScore: 0, Level: 0},
			expected:    0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ReputationWeight(tt.contributor), 1e-9)
		})
	}
}

func TestVerificationWeight(t *testing.T) {
	assert.Equal(t, 1.0, verificationWeight(models.StatusVerified))
	assert.Equal(t, 0.3, verificationWeight(models.StatusPending))
	assert.Equal(t, 0.0, verificationWeight(models.StatusRejected))
	assert.Equal(t, 0.0, verificationWeight("GARBAGE"))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(-12.5))
	assert.Equal(t, 100.0, clampScore(140))
	assert.Equal(t, 73.2, clampScore(73.2))
}

func TestTrustLevels(t *testing.T) {
	tests := []struct {
		score float64
		level string
		color string
	}{
		{95, "Très fiable", "#10b981"},
		{80, "Très fiable", "#10b981"},
		{79.99, "Fiable", "#3b82f6"},
		{60, "Fiable", "#3b82f6"},
		{45, "Neutre", "#f59e0b"},
		{25, "Peu fiable", "#ef4444"},
		{10, "Non fiable", "#991b1b"},
		{0, "Non fiable", "#991b1b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, TrustLevel(tt.score), "score %v", tt.score)
		assert.Equal(t, tt.color, TrustColor(tt.score), "score %v", tt.score)
	}
}
