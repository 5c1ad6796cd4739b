package cli

import (
	"github.com/yildizm/constellog/internal/emoji"
	"github.com/yildizm/constellog/internal/parser"
)

// GetEmoji is a wrapper for the shared emoji package
func GetEmoji(key string) string {
	return emoji.GetEmoji(key)
}

// GetKindEmoji returns the symbol for a search event with fallback support
func GetKindEmoji(kind parser.EventKind) string {
	switch kind {
	case parser.EventAnalyzing:
		return GetEmoji("analyzing")
	case parser.EventDiscarded:
		return GetEmoji("discarded")
	case parser.EventSolution:
		return GetEmoji("solution")
	default:
		return GetEmoji("info")
	}
}
