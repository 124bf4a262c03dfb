package models

import (
	"time"
)

// Signal-Typen.
const (
	SignalRating         = "RATING"
	SignalDramaReport    = "DRAMA_REPORT"
	SignalPositiveAction = "POSITIVE_ACTION"
	SignalComment        = "COMMENT"
)

// Verifikationsstatus eines Signals.
const (
	StatusPending  = "PENDING"
	StatusVerified = "VERIFIED"
	StatusRejected = "REJECTED"
)

// VerifiedByAI kennzeichnet automatische Verifikations-Verdikte.
const VerifiedByAI = "AI"

// CommunitySignal ist eine Community-Einreichung zu einem Influencer.
// Pro (Contributor, Influencer, Typ) existiert genau ein Signal;
// erneutes Einreichen aktualisiert in-place und setzt den Status zurück.
type CommunitySignal struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InfluencerID  uint `json:"influencer_id" gorm:"index:idx_signal_unique,unique;not null"`
	ContributorID uint `json:"contributor_id" gorm:"index:idx_signal_unique,unique;not null"`

	Type    string   `json:"type" gorm:"index:idx_signal_unique,unique;not null"`
	Rating  *float64 `json:"rating,omitempty"` // 1-5, nur für RATING
	Comment string   `json:"comment,omitempty" gorm:"type:text"`

	Status             string     `json:"status" gorm:"index;not null;default:'PENDING'"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	VerifiedBy         string     `json:"verified_by,omitempty"` // "AI" oder Admin-Kennung
	VerificationReason string     `json:"verification_reason,omitempty" gorm:"type:text"`

	Hidden bool `json:"hidden" gorm:"default:false"`

	Contributor *Contributor `json:"contributor,omitempty" gorm:"foreignKey:ContributorID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (CommunitySignal) TableName() string {
	return "community_signals"
}
