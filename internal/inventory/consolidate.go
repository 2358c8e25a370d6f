package inventory

import (
	"fmt"
	"strings"
)

// MergeSeparator separates the main license from its aliases in a merge rule.
const MergeSeparator = "|"

// MergeRule folds every alias bucket into the Main bucket.
type MergeRule struct {
	Main    string
	Aliases []string
}

// ParseMergeRules parses rules of the form "Main|alias|alias".
// Empty entries are ignored. A license may appear in only one rule.
func ParseMergeRules(rules []string) ([]MergeRule, error) {
	seen := make(map[string]int)
	var out []MergeRule

	for i, raw := range rules {
		var names []string
		for _, part := range strings.Split(raw, MergeSeparator) {
			if name := strings.TrimSpace(part); name != "" {
				names = append(names, name)
			}
		}
		if len(names) < 2 {
			continue
		}
		for _, name := range names {
			if prev, ok := seen[name]; ok && prev != i {
				return nil, fmt.Errorf("license %q appears in merge rules %d and %d", name, prev, i)
			}
			seen[name] = i
		}
		out = append(out, MergeRule{Main: names[0], Aliases: names[1:]})
	}
	return out, nil
}

// Consolidate applies rules to inv, moving alias members under the main name and
// dropping the alias buckets. It returns the number of alias buckets folded.
func (inv *Inventory) Consolidate(rules []MergeRule) int {
	folded := 0
	for _, rule := range rules {
		for _, alias := range rule.Aliases {
			if alias == rule.Main {
				continue
			}
			bucket, ok := inv.buckets[alias]
			if !ok {
				continue
			}
			inv.Add(rule.Main)
			for id := range bucket {
				inv.buckets[rule.Main][id] = struct{}{}
			}
			delete(inv.buckets, alias)
			folded++
		}
	}
	return folded
}
