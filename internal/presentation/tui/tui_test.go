package tui

import (
	"bytes"
	"testing"

	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlideMarkdown(t *testing.T) {
	s := domain.Slide{
		ID:       2,
		Title:    "The Problem",
		Subtitle: "Paper cards are dead",
		Content:  "88% are thrown away.",
		Stats:    []domain.Stat{{Label: "Wasted", Value: "7B"}},
	}

	md := SlideMarkdown(s, 10)

	assert.Contains(t, md, "# The Problem")
	assert.Contains(t, md, "_Paper cards are dead_")
	assert.Contains(t, md, "| Wasted | 7B |")
	assert.Contains(t, md, "Slide 2 of 10")
}

func TestPitchMarkdown_AllSlides(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)

	md := PitchMarkdown(cat.Slides)

	for _, s := range cat.Slides {
		assert.Contains(t, md, "# "+s.Title)
	}
}

func TestRoadmapMarkdown(t *testing.T) {
	quarters := []domain.Quarter{
		{ID: "Q1-2024", Title: "Launch", Status: domain.StatusCompleted, Progress: 100,
			Features: []domain.RoadmapFeature{{Name: "AR Cards", Status: domain.StatusCompleted}},
			Metrics:  map[string]string{"users": "10K"}},
		{ID: "Q2-2024", Title: "Scale", Status: domain.StatusInProgress, Progress: 40,
			Features: []domain.RoadmapFeature{{Name: "Teams", Status: domain.StatusInProgress}}},
	}

	all := RoadmapMarkdown(quarters, "")
	assert.Contains(t, all, "| Q1-2024 | Launch | completed | 100% |")
	assert.Contains(t, all, "- [x] **AR Cards**")
	assert.Contains(t, all, "- [~] **Teams**")
	assert.Contains(t, all, "- users: 10K")

	one := RoadmapMarkdown(quarters, "Q2-2024")
	assert.NotContains(t, one, "**AR Cards**")
	assert.Contains(t, one, "## Q2-2024: Scale")
}

func TestNewRenderer_Plain(t *testing.T) {
	render, err := NewRenderer(DefaultWidth, false)
	require.NoError(t, err)

	out, err := render("# Hello\n\nWorld")

	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "World")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_| \\_|")
}
