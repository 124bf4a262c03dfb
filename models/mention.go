package models

import (
	"time"
)

// Label-Werte, die die vorgelagerte Klassifikation an Mentions vergibt.
const (
	LabelDrama    = "drama"
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
)

// Mention ist ein unveränderlicher, sentiment-bewerteter Treffer aus der
// automatischen Recherche. Beim Re-Research wird der komplette Bestand
// eines Influencers ersetzt, nie einzeln mutiert.
type Mention struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	InfluencerID uint   `json:"influencer_id" gorm:"index;not null"`
	Source       string `json:"source" gorm:"not null"` // news, youtube, twitter, reddit, forum
	URL          string `json:"url,omitempty" gorm:"type:text"`
	TextExcerpt  string `json:"text_excerpt" gorm:"type:text"`

	SentimentScore float64   `json:"sentiment_score"` // -1 bis 1
	Label          string    `json:"label" gorm:"index;not null;default:'neutral'"`
	ScrapedAt      time.Time `json:"scraped_at" gorm:"index"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Mention) TableName() string {
	return "mentions"
}
