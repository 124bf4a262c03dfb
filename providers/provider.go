package providers

import "context"

// Oracle ist das Interface für die externe Faktenprüfung von
// Community-Behauptungen. Verify liefert die rohe Textantwort des
// Dienstes; das Parsen des Verdikts übernimmt der Aufrufer.
type Oracle interface {
	Verify(ctx context.Context, prompt string) (string, error)

	// Name gibt den eindeutigen Namen des Oracles zurück (z.B. "openai").
	Name() string
}

// VerificationEvent beschreibt eine abgeschlossene Signal-Verifikation
// für nachgelagerte Kollaborateure (E-Mail-Versand, Gamification).
type VerificationEvent struct {
	ContributorID  uint   `json:"contributor_id"`
	InfluencerName string `json:"influencer_name"`
	SignalType     string `json:"signal_type"`
	Verified       bool   `json:"verified"`
	Reason         string `json:"reason"`
}

// Notifier wird einmal pro abgeschlossener Verifikation aufgerufen.
// Die eigentliche Zustellung (z.B. E-Mail) ist Sache des Empfängers.
type Notifier interface {
	NotifyVerification(ctx context.Context, event VerificationEvent) error
}

// ReputationSink empfängt Reputations-relevante Ereignisse. Die
// Mutation der Contributor-Reputation liegt bei der externen
// Gamification-Komponente; das Scoring liest Reputation nur.
type ReputationSink interface {
	RecordVerification(ctx context.Context, contributorID uint, verified bool) error
}
