package models

import "strings"

// RenameRule maps a directory in the new layout back to where it used to
// live. Both sides are slash-separated and relative to the source root.
type RenameRule struct {
	New string `yaml:"new"`
	Old string `yaml:"old"`
}

// NewSegments returns the path segments of the new directory.
func (r RenameRule) NewSegments() []string {
	return splitSegments(r.New)
}

// OldSegments returns the path segments of the old directory.
func (r RenameRule) OldSegments() []string {
	return splitSegments(r.Old)
}

// RenameTable is an ordered, read-only set of rename rules together with the
// inverse old -> new lookup.
type RenameTable struct {
	rules    []RenameRule
	oldToNew map[string]string
}

// NewRenameTable copies rules into a table. When two rules share the same
// old directory the later one wins the inverse lookup.
func NewRenameTable(rules []RenameRule) *RenameTable {
	table := &RenameTable{
		rules:    make([]RenameRule, len(rules)),
		oldToNew: make(map[string]string, len(rules)),
	}
	copy(table.rules, rules)
	for _, rule := range rules {
		table.oldToNew[rule.Old] = rule.New
	}
	return table
}

// Rules returns the rules in table order.
func (t *RenameTable) Rules() []RenameRule {
	out := make([]RenameRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// NewFor returns the new directory for an old one.
func (t *RenameTable) NewFor(old string) (string, bool) {
	newDir, ok := t.oldToNew[old]
	return newDir, ok
}

// Len returns the number of rules.
func (t *RenameTable) Len() int {
	return len(t.rules)
}

// DuplicateOlds lists old directories claimed by more than one rule.
func (t *RenameTable) DuplicateOlds() []string {
	seen := make(map[string]int, len(t.rules))
	var dups []string
	for _, rule := range t.rules {
		seen[rule.Old]++
		if seen[rule.Old] == 2 {
			dups = append(dups, rule.Old)
		}
	}
	return dups
}

func splitSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
