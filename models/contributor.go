package models

import (
	"time"
)

// Rollen eines Contributors. Die Rolle bestimmt das Stimmgewicht beim Scoring.
const (
	RoleCommunity    = "COMMUNITY"
	RoleProfessional = "PROFESSIONAL"
	RoleAdmin        = "ADMIN"
)

// Contributor ist ein Community-Mitglied, das Signale einreicht.
// Reputation und Level werden von der Gamification-Komponente gepflegt
// und hier nur gelesen.
type Contributor struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username        string  `json:"username" gorm:"uniqueIndex;not null"`
	Role            string  `json:"role" gorm:"not null;default:'COMMUNITY'"`
	ReputationScore float64 `json:"reputation_score" gorm:"default:50"` // 0-100
	Level           int     `json:"level" gorm:"default:1"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Contributor) TableName() string {
	return "contributors"
}
