// Package sections buckets classified stories into the final section map and
// enforces the priority-section capacity cap.
package sections

import (
	"log/slog"

	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/labels"
)

// Organizer groups stories by resolved label. Labels outside the enum route
// to the catch-all section. The priority section holds at most maxPriority
// stories; overflow gets a second chance through ordered keyword groups.
type Organizer struct {
	set         labels.Set
	groups      []labels.KeywordGroup
	maxPriority int
	logger      *slog.Logger
}

// New builds the organizer from the label enum and the overflow keyword
// groups. Group order is the match priority.
func New(set labels.Set, groups []labels.KeywordGroup, maxPriority int, logger *slog.Logger) *Organizer {
	if maxPriority <= 0 {
		maxPriority = 6
	}
	return &Organizer{set: set, groups: groups, maxPriority: maxPriority, logger: logger}
}

// Organize builds the section map from deduplicated, classified stories.
// Within-section order is arrival order. Purely deterministic: no external
// service is consulted, including for overflow redistribution.
func (o *Organizer) Organize(stories []domain.Story) domain.SectionMap {
	result := make(domain.SectionMap, len(o.set.Names()))
	for _, name := range o.set.Names() {
		result[name] = nil
	}

	for _, story := range stories {
		section := story.Section
		if !o.set.Has(section) {
			section = o.set.CatchAll()
		}
		result[section] = append(result[section], story)
	}

	o.redistributeOverflow(result)
	return result
}

// redistributeOverflow demotes priority stories beyond position maxPriority
// (arrival order) into the first keyword group whose keywords match the
// headline, or the catch-all when nothing matches.
func (o *Organizer) redistributeOverflow(result domain.SectionMap) {
	priority := o.set.Priority()
	if len(result[priority]) <= o.maxPriority {
		return
	}

	overflow := result[priority][o.maxPriority:]
	result[priority] = result[priority][:o.maxPriority:o.maxPriority]

	for _, story := range overflow {
		target := o.secondChance(story.Headline)
		result[target] = append(result[target], story)
		o.debug("demoted overflow story", "headline", story.Headline, "to", target)
	}
}

func (o *Organizer) secondChance(headline string) string {
	for _, group := range o.groups {
		if _, ok := labels.MatchKeywords(headline, group.Keywords); ok {
			return group.Section
		}
	}
	return o.set.CatchAll()
}

func (o *Organizer) debug(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Debug(msg, args...)
	}
}
