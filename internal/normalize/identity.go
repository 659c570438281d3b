package normalize

import "strings"

// IdentityResponse is the canned introduction returned for identity
// questions without contacting any upstream service.
const IdentityResponse = "I'm an AI assistant made by AuraAi. I'm here to help you with any questions or tasks you might have!"

// identityKeywords are matched as case-insensitive substrings. The check
// is a deliberate heuristic and will false-positive on innocuous
// messages containing phrases like "what are you doing today".
var identityKeywords = []string{
	"who are you",
	"your name",
	"who made you",
	"who created you",
	"what are you",
	"tell me about yourself",
	"what's your name",
	"your identity",
	"who developed you",
}

// IsIdentityQuestion reports whether the message asks about the
// assistant's identity and should bypass upstream dispatch.
func IsIdentityQuestion(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range identityKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
