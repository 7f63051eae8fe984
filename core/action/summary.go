package action

import (
	"fmt"
	"strings"
)

// Summarize describes a batch for the user: a fixed sentence when the batch
// replaces the whole tree, otherwise per-kind counts in order of first appearance.
func Summarize(actions []Action) string {
	var (
		order  []Kind
		counts = map[Kind]int{}
	)
	for _, a := range actions {
		if a == nil {
			continue
		}
		k := a.Kind()
		if k == KindReplace {
			return "Created a complete marketing email template."
		}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	if len(order) == 0 {
		return "No changes."
	}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
	}
	return "Applied: " + strings.Join(parts, ", ") + "."
}
