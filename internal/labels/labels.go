// Package labels defines the closed set of digest section labels and the
// translation between the submission service's vocabulary and the internal
// one. Both are built once at startup from configuration and passed around as
// values; nothing here is process-wide mutable state.
package labels

import "strings"

// Label describes one internal section label.
type Label struct {
	Name        string
	Display     string
	Description string
}

// Set is the fixed, ordered label enum. Order matters: the renderer walks
// sections in this order, and the overflow groups are tried in this order.
type Set struct {
	labels   []Label
	index    map[string]int
	priority string
	catchAll string
}

// NewSet builds the enum. The priority label carries the hard capacity cap;
// the catch-all label absorbs everything unclassifiable.
func NewSet(ordered []Label, priority, catchAll string) Set {
	index := make(map[string]int, len(ordered))
	for i, l := range ordered {
		index[l.Name] = i
	}
	return Set{labels: ordered, index: index, priority: priority, catchAll: catchAll}
}

// Ordered returns the labels in render order.
func (s Set) Ordered() []Label { return s.labels }

// Names returns just the label names in render order.
func (s Set) Names() []string {
	names := make([]string, len(s.labels))
	for i, l := range s.labels {
		names[i] = l.Name
	}
	return names
}

// Has reports whether name belongs to the enum.
func (s Set) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Priority returns the single capped section label.
func (s Set) Priority() string { return s.priority }

// CatchAll returns the default bucket for unclassifiable stories.
func (s Set) CatchAll() string { return s.catchAll }

// Display resolves a label name to its human-readable heading.
// Unknown names are returned as-is so feedback-created buckets still render.
func (s Set) Display(name string) string {
	if i, ok := s.index[name]; ok {
		return s.labels[i].Display
	}
	return name
}

// Table translates between the submission service's section vocabulary and
// the internal label enum. Unmapped external labels resolve to the catch-all.
type Table struct {
	toInternal map[string]string
	toExternal map[string]string
	fallback   string
}

// NewTable builds the bidirectional lookup from external->internal pairs.
func NewTable(externalToInternal map[string]string, fallback string) Table {
	toInternal := make(map[string]string, len(externalToInternal))
	toExternal := make(map[string]string, len(externalToInternal))
	for ext, name := range externalToInternal {
		toInternal[ext] = name
		toExternal[name] = ext
	}
	return Table{toInternal: toInternal, toExternal: toExternal, fallback: fallback}
}

// ToInternal maps an external label into the enum, defaulting to the
// catch-all for anything unknown.
func (t Table) ToInternal(external string) string {
	if internal, ok := t.toInternal[strings.TrimSpace(external)]; ok {
		return internal
	}
	return t.fallback
}

// ToExternal maps an internal label back to the submission vocabulary.
// Labels without a mapping (e.g. buckets created by feedback) pass through.
func (t Table) ToExternal(internal string) string {
	if external, ok := t.toExternal[internal]; ok {
		return external
	}
	return internal
}

// KeywordGroup names an ordered list of substrings tied to a target section.
// Used for the priority-overflow second-chance categorizer.
type KeywordGroup struct {
	Section  string
	Keywords []string
}

// MatchKeywords reports whether text contains any keyword, case-insensitively.
func MatchKeywords(text string, keywords []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return kw, true
		}
	}
	return "", false
}
