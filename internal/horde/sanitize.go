package horde

import (
	"regexp"
	"strings"
)

var (
	doubleNewlinePattern = regexp.MustCompile(`(?s)\n\n.*$`)
	bulletPattern        = regexp.MustCompile(`^\s*[-*•]\s*`)
	hinglishPattern      = regexp.MustCompile(`(?i)baby|jaan|pyaar|kya|hai|hun|kar|main|tum|mere|tumhe|dekh|baat`)
	emojiPattern         = regexp.MustCompile(`[\x{1F600}-\x{1F64F}]|[\x{1F300}-\x{1F5FF}]|[\x{1F680}-\x{1F6FF}]|[\x{1F1E0}-\x{1F1FF}]|[\x{2600}-\x{26FF}]|[\x{2700}-\x{27BF}]`)

	disclaimers = []string{"as an ai", "i cannot", "i'm sorry", "i don't understand"}
)

// sanitizeReply strips prompt artifacts from a raw model generation and
// rejects output that reads robotic or off-persona. ok is false when the
// reply should be discarded and the next model tried.
func sanitizeReply(raw, botName string) (cleaned string, ok bool) {
	cleaned = strings.TrimSpace(raw)

	for _, prefix := range []string{botName + ":", "User:", "Human:", "Assistant:"} {
		if len(cleaned) >= len(prefix) && strings.EqualFold(cleaned[:len(prefix)], prefix) {
			cleaned = cleaned[len(prefix):]
			break
		}
	}
	cleaned = doubleNewlinePattern.ReplaceAllString(cleaned, "")
	cleaned = bulletPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) < 10 {
		return "", false
	}
	lower := strings.ToLower(cleaned)
	for _, phrase := range disclaimers {
		if strings.Contains(lower, phrase) {
			return "", false
		}
	}
	if len(strings.Fields(cleaned)) < 3 {
		return "", false
	}

	// Persona check: a usable reply carries Hinglish vocabulary or at least
	// an emoji.
	if !hinglishPattern.MatchString(cleaned) && !emojiPattern.MatchString(cleaned) {
		return "", false
	}
	if len(cleaned) <= 15 {
		return "", false
	}
	return cleaned, true
}
