package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/namecardai/namecard/pkg/domain"
)

// SlideMarkdown formats one pitch slide.
func SlideMarkdown(s domain.Slide, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	if s.Subtitle != "" {
		fmt.Fprintf(&b, "_%s_\n\n", s.Subtitle)
	}
	if s.Content != "" {
		b.WriteString(strings.TrimSpace(s.Content))
		b.WriteString("\n\n")
	}
	if len(s.Stats) > 0 {
		b.WriteString("| Metric | Value |\n|---|---|\n")
		for _, st := range s.Stats {
			fmt.Fprintf(&b, "| %s | %s |\n", st.Label, st.Value)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Slide %d of %d\n", s.ID, total)
	return b.String()
}

// PitchMarkdown formats the whole deck, slides separated by rules.
func PitchMarkdown(slides []domain.Slide) string {
	parts := make([]string, 0, len(slides))
	for _, s := range slides {
		parts = append(parts, SlideMarkdown(s, len(slides)))
	}
	return strings.Join(parts, "\n---\n\n")
}

var statusMark = map[domain.FeatureStatus]string{
	domain.StatusCompleted:  "[x]",
	domain.StatusInProgress: "[~]",
	domain.StatusPlanned:    "[ ]",
	domain.StatusResearch:   "[?]",
	domain.StatusFuture:     "[>]",
}

// RoadmapMarkdown formats the roadmap. When selected names a quarter only
// that milestone is listed in detail.
func RoadmapMarkdown(quarters []domain.Quarter, selected string) string {
	var b strings.Builder
	b.WriteString("# Product Roadmap\n\n| Quarter | Theme | Status | Progress |\n|---|---|---|---|\n")
	for _, q := range quarters {
		fmt.Fprintf(&b, "| %s | %s | %s | %d%% |\n", q.ID, q.Title, q.Status, q.Progress)
	}
	for _, q := range quarters {
		if selected != "" && q.ID != selected {
			continue
		}
		fmt.Fprintf(&b, "\n## %s: %s\n\n", q.ID, q.Title)
		for _, f := range q.Features {
			mark, ok := statusMark[f.Status]
			if !ok {
				mark = "[ ]"
			}
			fmt.Fprintf(&b, "- %s **%s** %s\n", mark, f.Name, f.Description)
		}
		for _, k := range slices.Sorted(maps.Keys(q.Metrics)) {
			fmt.Fprintf(&b, "- %s: %s\n", k, q.Metrics[k])
		}
	}
	return b.String()
}
