package domain

// SectionMap buckets stories by section label, preserving within-section
// arrival order. It is owned by the loop driver once the organizer builds it;
// only validated feedback actions may mutate it afterwards.
type SectionMap map[string][]Story

// Counts reports how many stories sit in each non-empty section.
func (m SectionMap) Counts() map[string]int {
	counts := make(map[string]int, len(m))
	for name, stories := range m {
		if len(stories) > 0 {
			counts[name] = len(stories)
		}
	}
	return counts
}

// Total sums the story count across all sections.
func (m SectionMap) Total() int {
	total := 0
	for _, stories := range m {
		total += len(stories)
	}
	return total
}
