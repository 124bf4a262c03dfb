package services

import (
	"math"
	"time"

	"trust-monitor/models"
)

// Konstanten der Zuverlässigkeits-Schätzung.
const (
	recentWindowDays = 30

	volumePointsPerItem  = 2.0
	volumePointsCap      = 40.0
	verifiedRatioPoints  = 30.0
	freshnessPerItem     = 2.0
	freshnessCap         = 20.0
	diversityCap         = 10.0
	sourcePointsPerKind  = 5.0
	sourcePointsCap      = 30.0
	qualityVerifiedScale = 40.0
	qualityRepScale      = 30.0
	defaultReputation    = 50.0
)

// Reliability bündelt Konfidenz und Datenqualität eines Laufs.
type Reliability struct {
	Confidence  float64 `json:"confidence"`
	DataQuality float64 `json:"data_quality"`
}

// EstimateReliability berechnet zwei unabhängige 0-100 Metriken:
// Konfidenz (Volumen, Verifikationsrate, Frische, Contributor-Diversität)
// und Datenqualität (Quellen-Diversität, Verifikationsrate, Reputation).
func EstimateReliability(now time.Time, mentions []models.Mention, signals []models.CommunitySignal) Reliability {
	totalEvidence := len(mentions) + len(signals)

	verifiedRatio := 0.0
	if len(signals) > 0 {
		verified := 0
		for _, s := range signals {
			if s.Status == models.StatusVerified {
				verified++
			}
		}
		verifiedRatio = float64(verified) / float64(len(signals))
	}

	recent := 0
	for _, m := range mentions {
		if now.Sub(m.ScrapedAt).Hours()/24 <= recentWindowDays {
			recent++
		}
	}
	for _, s := range signals {
		if now.Sub(s.CreatedAt).Hours()/24 <= recentWindowDays {
			recent++
		}
	}

	contributors := make(map[uint]struct{})
	for _, s := range signals {
		contributors[s.ContributorID] = struct{}{}
	}

	confidence := math.Min(float64(totalEvidence)*volumePointsPerItem, volumePointsCap)
	confidence += verifiedRatio * verifiedRatioPoints
	confidence += math.Min(float64(recent)*freshnessPerItem, freshnessCap)
	confidence += math.Min(float64(len(contributors)), diversityCap)

	sources := make(map[string]struct{})
	for _, m := range mentions {
		sources[m.Source] = struct{}{}
	}

	repSum := 0.0
	repCount := 0
	for _, s := range signals {
		if s.Contributor != nil {
			repSum += s.Contributor.ReputationScore
			repCount++
		}
	}
	meanReputation := defaultReputation
	if repCount > 0 {
		meanReputation = repSum / float64(repCount)
	}

	quality := math.Min(float64(len(sources))*sourcePointsPerKind, sourcePointsCap)
	quality += verifiedRatio * qualityVerifiedScale
	quality += (meanReputation / 100.0) * qualityRepScale

	return Reliability{
		Confidence:  math.Min(confidence, 100.0),
		DataQuality: math.Min(quality, 100.0),
	}
}
