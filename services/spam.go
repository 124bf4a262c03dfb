package services

import (
	"regexp"
	"strings"
)

// Spam-Heuristiken für Community-Texte. Bewusst konservativ: ein
// Treffer reicht für die Ablehnung, geprüft wird vor jedem Oracle-Call.
var (
	repeatedCharsPattern = regexp.MustCompile(`(.)\1{9,}`)

	shortenedURLDomains = []string{
		"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly", "is.gd", "buff.ly",
	}

	promoPhrases = []string{
		"click here", "buy now", "limited offer", "promo code",
		"subscribe to", "check out my", "follow me", "dm me",
		"cliquez ici", "achetez maintenant", "code promo", "abonnez-vous",
	}

	moneyFireEmoji = []string{"💰", "💵", "🤑", "🔥"}
)

const maxEmojiOccurrences = 2

// SpamReason beschreibt, welche Heuristik angeschlagen hat; leer = kein Spam.
func SpamReason(text string) string {
	if repeatedCharsPattern.MatchString(text) {
		return "spam detected: repeated characters"
	}

	lower := strings.ToLower(text)
	for _, domain := range shortenedURLDomains {
		if strings.Contains(lower, domain) {
			return "spam detected: shortened URL"
		}
	}
	for _, phrase := range promoPhrases {
		if strings.Contains(lower, phrase) {
			return "spam detected: promotional content"
		}
	}

	emojiCount := 0
	for _, emoji := range moneyFireEmoji {
		emojiCount += strings.Count(text, emoji)
	}
	if emojiCount > maxEmojiOccurrences {
		return "spam detected: excessive emoji"
	}

	return ""
}

// IsSpam prüft, ob der Text eine der Heuristiken verletzt.
func IsSpam(text string) bool {
	return SpamReason(text) != ""
}
