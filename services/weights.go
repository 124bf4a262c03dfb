package services

import (
	"math"

	"trust-monitor/models"
)

const (
	// RecencyDecayDays ist die Halbwertszeit-Konstante des Zeitverfalls (~6 Monate).
	RecencyDecayDays = 180.0

	// MinRecencyWeight garantiert, dass alte Evidenz nie komplett verschwindet.
	MinRecencyWeight = 0.1

	baseScore = 50.0
)

// Verifikationsgewichte: abgelehnte Signale zählen exakt null.
const (
	weightVerified = 1.0
	weightPending  = 0.3
	weightRejected = 0.0
)

// RecencyWeight berechnet das exponentielle Zeitverfalls-Gewicht für
// Evidenz mit dem gegebenen Alter in Tagen. Zukunfts-Zeitstempel
// (negatives Alter) zählen wie heute.
func RecencyWeight(daysOld float64) float64 {
	if daysOld < 0 {
		daysOld = 0
	}
	weight := math.Exp(-daysOld / RecencyDecayDays)
	return math.Max(MinRecencyWeight, weight)
}

// ReputationWeight berechnet den Stimm-Multiplikator eines Contributors:
// Rollenfaktor × Reputationsfaktor (0.5-1.5) × Levelbonus (max +50%).
// Ein nil-Contributor zählt als unbekanntes Community-Mitglied.
func ReputationWeight(contributor *models.Contributor) float64 {
	if contributor == nil {
		return roleWeight("") * (0.5 + 50.0/100.0)
	}

	level := contributor.Level
	if level > 50 {
		level = 50
	}
	if level < 0 {
		level = 0
	}

	return roleWeight(contributor.Role) *
		(0.5 + contributor.ReputationScore/100.0) *
		(1.0 + float64(level)*0.01)
}

// roleWeight ist total über alle bekannten Rollen; unbekannte Rollen
// fallen auf das Community-Gewicht zurück.
func roleWeight(role string) float64 {
	switch role {
	case models.RoleAdmin:
		return 2.5
	case models.RoleProfessional:
		return 1.8
	case models.RoleCommunity:
		return 1.0
	default:
		return 1.0
	}
}

// verificationWeight bildet den Signal-Status auf sein Scoring-Gewicht ab.
func verificationWeight(status string) float64 {
	switch status {
	case models.StatusVerified:
		return weightVerified
	case models.StatusPending:
		return weightPending
	case models.StatusRejected:
		return weightRejected
	default:
		return weightRejected
	}
}

// clampScore begrenzt einen Score auf den dokumentierten 0-100 Bereich.
func clampScore(score float64) float64 {
	return math.Max(0.0, math.Min(100.0, score))
}

// round2 rundet auf zwei Nachkommastellen.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
