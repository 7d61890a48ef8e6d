// Package notifier renders a Violation into alert text. It is
// transport-agnostic: internal/dispatcher calls Format and hands the
// result to whatever AlertSink the host supplies.
package notifier

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/MacMoment/ac/internal/models"
)

// DefaultFormat matches spec.md §6's token list.
const DefaultFormat = "{player} flagged for {category} (confidence {confidence}, severity {severity}) {explanation}"

// Format renders template's tokens against v. Recognized tokens:
// {player} {category} {confidence} {severity} {explanation}. Unknown
// tokens pass through unchanged.
func Format(template string, v models.Violation) string {
	replacer := strings.NewReplacer(
		"{player}", v.PlayerName,
		"{category}", v.Category,
		"{confidence}", strconv.FormatFloat(v.Confidence, 'f', 4, 64),
		"{severity}", strconv.FormatFloat(v.Severity, 'f', 4, 64),
		"{explanation}", formatExplanation(v.Explanation),
	)
	return replacer.Replace(template)
}

// formatExplanation renders a violation's merged explanation map as a
// stable, human-readable "key=value, key=value" fragment.
func formatExplanation(explanation map[string]any) string {
	if len(explanation) == 0 {
		return ""
	}
	keys := make([]string, 0, len(explanation))
	for k := range explanation {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, explanation[k]))
	}
	return strings.Join(parts, ", ")
}
