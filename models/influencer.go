package models

import (
	"time"
)

// Influencer repräsentiert eine beobachtete Person des öffentlichen Lebens.
type Influencer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name   string `json:"name" gorm:"uniqueIndex;not null"`
	Handle string `json:"handle,omitempty" gorm:"index"`

	// Cache-Spalten des letzten Scoring-Laufs (maßgeblich ist trust_scores)
	TrustScore     float64    `json:"trust_score" gorm:"default:50"`
	DramaCount     int        `json:"drama_count" gorm:"default:0"`
	PositiveCount  int        `json:"positive_count" gorm:"default:0"`
	LastAnalyzedAt *time.Time `json:"last_analyzed_at,omitempty"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Influencer) TableName() string {
	return "influencers"
}
