package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpamReason(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		reason string
	}{
		{"clean text", "Hat letzte Woche ein Interview zur Spendenaktion gegeben.", ""},
		{"clean with two emoji", "Starkes Comeback 🔥🔥", ""},
		{"repeated characters", "neeeeeeeeeein das glaube ich nicht", "spam detected: repeated characters"},
		{"shortened url", "alle infos auf bit.ly/abc123", "spam detected: shortened URL"},
		{"shortened url uppercase", "Siehe TINYURL.COM/xyz", "spam detected: shortened URL"},
		{"promo phrase english", "Buy now before it's gone", "spam detected: promotional content"},
		{"promo phrase french", "Utilisez mon code promo SCAM20", "spam detected: promotional content"},
		{"emoji flood", "💰💵🤑 schnell reich werden", "spam detected: excessive emoji"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reason, SpamReason(tt.text))
			assert.Equal(t, tt.reason != "", IsSpam(tt.text))
		})
	}
}
