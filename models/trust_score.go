package models

import (
	"time"

	"gorm.io/datatypes"
)

// Trend-Klassifikation eines Scores.
const (
	TrendRising   = "RISING"
	TrendFalling  = "FALLING"
	TrendStable   = "STABLE"
	TrendVolatile = "VOLATILE"
)

// TrustScore ist das persistierte Ergebnis eines Aggregationslaufs.
// Pro Influencer existiert genau eine Zeile; jeder Lauf ersetzt sie
// vollständig, damit der Score immer rein aus dem aktuellen
// Evidenz-Schnappschuss ableitbar bleibt.
type TrustScore struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InfluencerID uint `json:"influencer_id" gorm:"uniqueIndex;not null"`

	FinalScore     float64 `json:"final_score"`
	AIScore        float64 `json:"ai_score"`
	CommunityScore float64 `json:"community_score"`
	CombinedScore  float64 `json:"combined_score"`

	Confidence  float64 `json:"confidence"`
	DataQuality float64 `json:"data_quality"`
	Controversy float64 `json:"controversy"`

	Trend      string  `json:"trend" gorm:"default:'STABLE'"`
	Momentum   float64 `json:"momentum"`
	Volatility float64 `json:"volatility"`

	// Breakdown enthält jeden additiven Term des Scores als JSON.
	Breakdown datatypes.JSON `json:"breakdown" gorm:"type:jsonb"`

	// Evidenz-Metriken
	MentionCount        int     `json:"mention_count"`
	SignalCount         int     `json:"signal_count"`
	VerifiedSignalCount int     `json:"verified_signal_count"`
	AvgRating           float64 `json:"avg_rating"`
	UniqueContributors  int     `json:"unique_contributors"`
	DataSpanDays        float64 `json:"data_span_days"`

	CalculatedAt time.Time `json:"calculated_at"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (TrustScore) TableName() string {
	return "trust_scores"
}
