package perflog

import "strings"

// Campaign tags are derived only for LONG_TERM trades by matching the
// combined notes/reason text against a finite vocabulary. Order matters:
// the first label found wins. No match means no tag — the matching rules
// below ARE the behavior, wording changes upstream must be reflected here.
var campaignTags = []string{
	"dca",
	"earnings",
	"dividend",
	"breakout",
	"turnaround",
}

// addOnMarker marks averaging add-ons to an existing position. Such trades
// are sub-positions of a trade already logged and must not produce a row.
const addOnMarker = "[add-on]"

// DeriveTag returns the campaign tag for a LONG_TERM trade, nil otherwise
func DeriveTag(strategy Strategy, notes, reason string) *string {
	if strategy != StrategyLongTerm {
		return nil
	}

	text := strings.ToLower(notes + " " + reason)
	for _, tag := range campaignTags {
		if strings.Contains(text, tag) {
			t := tag
			return &t
		}
	}

	return nil
}

// IsAveragingAddOn reports whether the notes flag the trade as an averaging
// add-on to an existing position
func IsAveragingAddOn(notes string) bool {
	text := strings.ToLower(strings.TrimSpace(notes))
	if strings.HasPrefix(text, addOnMarker) {
		return true
	}
	return strings.Contains(text, "averaging in")
}
