// Package render builds the HTML newsletter from the final section map.
package render

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/labels"
	"NewsRoundup/internal/ports"
)

const newsletterTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Daily News Roundup - {{.Date}}</title>
  </head>
  <body>
    <h1>Daily News Roundup</h1>
    <p>{{.Date}}</p>
{{- range .Sections}}
    <h2>{{.Display}}</h2>
    <ul>
{{- range .Stories}}
      <li>{{.Headline}} (<a href="{{.URL}}">{{.Source}}</a>)</li>
{{- end}}
    </ul>
{{- end}}
  </body>
</html>
`

type storyView struct {
	Headline string
	URL      string
	Source   string
}

type sectionView struct {
	Display string
	Stories []storyView
}

type newsletterView struct {
	Date     string
	Sections []sectionView
}

// HTMLRenderer implements the Renderer port with a fixed newsletter layout.
type HTMLRenderer struct {
	set           labels.Set
	maxPerSection int
	tmpl          *template.Template
	now           func() time.Time
}

var _ ports.Renderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer builds the renderer; maxPerSection caps how many stories a
// single section shows.
func NewHTMLRenderer(set labels.Set, maxPerSection int) *HTMLRenderer {
	if maxPerSection <= 0 {
		maxPerSection = 20
	}
	return &HTMLRenderer{
		set:           set,
		maxPerSection: maxPerSection,
		tmpl:          template.Must(template.New("newsletter").Parse(newsletterTemplate)),
		now:           time.Now,
	}
}

// Render walks sections in configured order (feedback-created buckets come
// last, alphabetically), skipping empty ones and stories without attribution.
func (r *HTMLRenderer) Render(sects domain.SectionMap) (string, error) {
	view := newsletterView{
		Date: r.now().Format("Monday, January 2, 2006"),
	}

	for _, name := range r.sectionOrder(sects) {
		stories := sects[name]
		section := sectionView{Display: r.set.Display(name)}
		for _, story := range stories {
			if len(section.Stories) >= r.maxPerSection {
				break
			}
			if story.Source == "" {
				continue
			}
			section.Stories = append(section.Stories, storyView{
				Headline: strings.TrimSpace(story.Headline),
				URL:      story.URL,
				Source:   story.Source,
			})
		}
		if len(section.Stories) == 0 {
			continue
		}
		view.Sections = append(view.Sections, section)
	}

	var b strings.Builder
	if err := r.tmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("execute newsletter template: %w", err)
	}
	return b.String(), nil
}

func (r *HTMLRenderer) sectionOrder(sects domain.SectionMap) []string {
	order := r.set.Names()
	known := make(map[string]bool, len(order))
	for _, name := range order {
		known[name] = true
	}

	var extra []string
	for name := range sects {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	return append(order, extra...)
}

// WritePreview saves the rendered HTML into dir and returns the file path.
// The preview is a throwaway review artifact, not pipeline state.
func WritePreview(html, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create preview dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("roundup-%s.html", now.Format("2006-01-02")))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("write preview: %w", err)
	}

	return path, nil
}
