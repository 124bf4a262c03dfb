package models

import (
	"time"
)

// ScoreHistory ist das append-only Protokoll aller Aggregationsläufe.
type ScoreHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	InfluencerID  uint    `json:"influencer_id" gorm:"index;not null"`
	FinalScore    float64 `json:"final_score"`
	DramaCount    int     `json:"drama_count"`
	PositiveCount int     `json:"positive_count"`
	SignalCount   int     `json:"signal_count"`

	AnalyzedAt time.Time `json:"analyzed_at" gorm:"index"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ScoreHistory) TableName() string {
	return "score_history"
}
