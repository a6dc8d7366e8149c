package content

import (
	"context"
	"strings"
	"testing"

	"github.com/namecardai/namecard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Levels, 5)
	assert.Len(t, c.Steps, 4)
	assert.Len(t, c.Slides, 10)
	assert.Len(t, c.Testimonials, 3)
	assert.Len(t, c.Benefits, 6)
	assert.Len(t, c.Industries, 14)
	assert.Equal(t, "Q1-2024", c.DefaultQuarter)

	pro, ok := c.Plan(domain.DefaultPlan)
	require.True(t, ok)
	assert.True(t, pro.Popular)
	assert.Equal(t, "$9.99", pro.Price)

	assert.True(t, c.HasIndustry("Real Estate"))
	assert.False(t, c.HasIndustry("Space Mining"))

	step, ok := c.Step(2)
	require.True(t, ok)
	assert.Equal(t, "Create Password", step.Title)
	_, ok = c.Step(5)
	assert.False(t, ok)
}

func TestPage(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Live Demo - NameCardAI", c.Page("/demo").Title)
	assert.Equal(t, "/", c.Page("/missing").Path, "unknown paths fall back to home")
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("bogus: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse catalog")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	c := &Catalog{
		Levels:         []domain.Level{{ID: 2}},
		Steps:          []domain.Step{{ID: 1, Fields: []domain.Field{{Name: "a"}, {Name: "a"}}}},
		DefaultQuarter: "Q9-2099",
	}

	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidSequence)
	msg := err.Error()
	for _, want := range []string{"no plans", "no slides", "Q9-2099", `field "a" declared twice`} {
		assert.Contains(t, msg, want)
	}
}

func TestWithSlides_DoesNotMutateOriginal(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	cp := c.WithSlides([]domain.Slide{{ID: 1, Title: "Only"}})
	assert.Len(t, cp.Slides, 1)
	assert.Len(t, c.Slides, 10)
}

func TestEmbedded_Load(t *testing.T) {
	c, err := Embedded{}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "NameCardAI", c.Site.Name)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Embedded{}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("# Traction\n\n**45%** monthly growth\n\n<script>alert(1)</script>")
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<h1 id="traction">Traction</h1>`)
	assert.Contains(t, html, "<strong>45%</strong>")
	assert.False(t, strings.Contains(html, "<script>"), "raw html must be dropped")
}
