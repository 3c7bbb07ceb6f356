package labels

import "testing"

func testSet() Set {
	return NewSet([]Label{
		{Name: "top_stories", Display: "Top stories"},
		{Name: "politics", Display: "Politics + government"},
		{Name: "lastly", Display: "Lastly"},
	}, "top_stories", "lastly")
}

func TestSetMembership(t *testing.T) {
	t.Parallel()

	set := testSet()

	if !set.Has("politics") {
		t.Fatal("expected politics in the enum")
	}
	if set.Has("sports") {
		t.Fatal("sports should not be in the enum")
	}
	if set.Priority() != "top_stories" || set.CatchAll() != "lastly" {
		t.Fatalf("unexpected priority/catch-all: %s/%s", set.Priority(), set.CatchAll())
	}
}

func TestSetDisplayFallsBackToName(t *testing.T) {
	t.Parallel()

	set := testSet()

	if got := set.Display("politics"); got != "Politics + government" {
		t.Fatalf("unexpected display: %s", got)
	}
	if got := set.Display("breaking"); got != "breaking" {
		t.Fatalf("unknown label should render as-is, got %s", got)
	}
}

func TestTableRoundTrip(t *testing.T) {
	t.Parallel()

	table := NewTable(map[string]string{
		"Top stories":           "top_stories",
		"Politics + government": "politics",
	}, "lastly")

	if got := table.ToInternal("Politics + government"); got != "politics" {
		t.Fatalf("unexpected internal label: %s", got)
	}
	if got := table.ToExternal("politics"); got != "Politics + government" {
		t.Fatalf("unexpected external label: %s", got)
	}
}

func TestTableUnmappedResolvesToFallback(t *testing.T) {
	t.Parallel()

	table := NewTable(map[string]string{"Top stories": "top_stories"}, "lastly")

	if got := table.ToInternal("Opinion"); got != "lastly" {
		t.Fatalf("unmapped external label should fall back, got %s", got)
	}
	// Internal->external passes unknown names through so feedback-created
	// buckets keep their name.
	if got := table.ToExternal("breaking"); got != "breaking" {
		t.Fatalf("unexpected external passthrough: %s", got)
	}
}

func TestMatchKeywords(t *testing.T) {
	t.Parallel()

	keywords := []string{"school board", "university"}

	if kw, ok := MatchKeywords("Newark School Board approves budget", keywords); !ok || kw != "school board" {
		t.Fatalf("expected school board match, got %q (%v)", kw, ok)
	}
	if _, ok := MatchKeywords("Governor signs bill", keywords); ok {
		t.Fatal("expected no match")
	}
}
