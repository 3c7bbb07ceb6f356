package feedback

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsRoundup/internal/domain"
)

type stubRenderer struct {
	renders int
}

func (r *stubRenderer) Render(sects domain.SectionMap) (string, error) {
	r.renders++
	return "<html>edition</html>", nil
}

func TestTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line string
		want State
	}{
		{"", StateDone},
		{"   ", StateDone},
		{"done", StateDone},
		{"DONE", StateDone},
		{"refresh", StateRefreshing},
		{"Refresh", StateRefreshing},
		{"move the transit story to politics", StateApplying},
		{"done with the transit story", StateApplying},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Transition(tc.line), "line %q", tc.line)
	}
}

func TestLoopAppliesInstructionThenFinishes(t *testing.T) {
	t.Parallel()

	oracle := &stubFeedbackOracle{actions: []domain.Action{
		{Type: domain.ActionMove, HeadlineContains: "Senate", FromSection: "politics", ToSection: "top_stories"},
	}}
	interp := NewInterpreter(oracle, []string{"top_stories", "politics", "lastly"}, nil)
	renderer := &stubRenderer{}

	var out strings.Builder
	in := strings.NewReader("move the senate story up\ndone\n")

	var previews []string
	loop := NewLoop(interp, renderer, in, &out, func(html string) { previews = append(previews, html) }, nil)

	sects, html, err := loop.Run(context.Background(), sampleSections(), nil)
	require.NoError(t, err)
	assert.Equal(t, "<html>edition</html>", html)

	require.Len(t, sects["top_stories"], 3)
	assert.Empty(t, sects["politics"])

	// One refresh after the applied change plus the final commit render.
	assert.Equal(t, 2, renderer.renders)
	assert.Len(t, previews, 2)
	assert.Contains(t, out.String(), "* moved")
}

func TestLoopEmptyLineEndsSession(t *testing.T) {
	t.Parallel()

	interp := NewInterpreter(&stubFeedbackOracle{}, nil, nil)
	renderer := &stubRenderer{}
	var out strings.Builder

	loop := NewLoop(interp, renderer, strings.NewReader("\n"), &out, nil, nil)

	sects, _, err := loop.Run(context.Background(), sampleSections(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, sects.Total(), "nothing changed")
	assert.Equal(t, 1, renderer.renders, "only the final render runs")
}

func TestLoopEOFEndsSession(t *testing.T) {
	t.Parallel()

	interp := NewInterpreter(&stubFeedbackOracle{}, nil, nil)
	renderer := &stubRenderer{}
	var out strings.Builder

	loop := NewLoop(interp, renderer, strings.NewReader(""), &out, nil, nil)

	_, html, err := loop.Run(context.Background(), sampleSections(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, html)
}

func TestLoopRefreshRerendersWithoutMutating(t *testing.T) {
	t.Parallel()

	oracle := &stubFeedbackOracle{}
	interp := NewInterpreter(oracle, nil, nil)
	renderer := &stubRenderer{}
	var out strings.Builder

	loop := NewLoop(interp, renderer, strings.NewReader("refresh\ndone\n"), &out, nil, nil)

	sects, _, err := loop.Run(context.Background(), sampleSections(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, sects.Total())
	assert.Empty(t, oracle.prompts, "refresh never reaches the oracle")
	assert.Equal(t, 2, renderer.renders)
	assert.Contains(t, out.String(), "Preview refreshed.")
}

func TestLoopOracleFailureKeepsSessionAlive(t *testing.T) {
	t.Parallel()

	oracle := &stubFeedbackOracle{err: assert.AnError}
	interp := NewInterpreter(oracle, nil, nil)
	renderer := &stubRenderer{}
	var out strings.Builder

	loop := NewLoop(interp, renderer, strings.NewReader("do something\ndone\n"), &out, nil, nil)

	sects, _, err := loop.Run(context.Background(), sampleSections(), nil)
	require.NoError(t, err, "a failed oracle call must not end the session with an error")
	assert.Equal(t, 3, sects.Total())
	assert.Contains(t, out.String(), "note: feedback not applied")
}
