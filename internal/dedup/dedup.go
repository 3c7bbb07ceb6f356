// Package dedup removes stories that share an identity key.
//
// A duplicate means exact URL string equality, nothing more. Cross-outlet
// grouping of the same event is deliberately out of scope.
package dedup

import "NewsRoundup/internal/domain"

// ByURL returns the subsequence of stories with first-seen order preserved
// and no two entries sharing a URL. Stories with an empty URL are never
// deduplicated against anything and pass through unchanged.
func ByURL(stories []domain.Story) []domain.Story {
	seen := make(map[string]struct{}, len(stories))
	unique := make([]domain.Story, 0, len(stories))

	for _, story := range stories {
		if story.URL == "" {
			unique = append(unique, story)
			continue
		}
		if _, ok := seen[story.URL]; ok {
			continue
		}
		seen[story.URL] = struct{}{}
		unique = append(unique, story)
	}

	return unique
}
