package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/namecardai/namecard/internal/testutils"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(t *testing.T, files map[string]string) *Source {
	t.Helper()
	_, repo := testutils.SetupContentRepo(t, files, loam.WithStrict(true))
	return New(loam.NewTypedRepository[DocMetadata](repo), content.Embedded{})
}

func TestSource_OverlaysSlidesAndQuarters(t *testing.T) {
	src := newSource(t, map[string]string{
		"traction.md": `---
slide: 5
title: Traction, Updated
subtitle: Numbers as of this week
visual: growth
stats:
  - label: Users
    value: 50K+
    tone: green
---
## We keep growing

Every week.`,
		"q2-2025.md": `---
quarter: Q2-2025
title: Global Scale
status: planned
progress: 0
features:
  - name: Offline mode
    status: planned
    description: Cards without a network
metrics:
  users: 1M+
---
`,
		"README.md": `---
title: notes for editors
---
Ignored.`,
	})

	cat, err := src.Load(context.Background())
	require.NoError(t, err)

	base, err := content.Default()
	require.NoError(t, err)
	require.Len(t, cat.Slides, len(base.Slides))

	traction := cat.Slides[4]
	assert.Equal(t, 5, traction.ID)
	assert.Equal(t, "Traction, Updated", traction.Title)
	assert.Contains(t, traction.Content, "## We keep growing")
	assert.Equal(t, []domain.Stat{{Label: "Users", Value: "50K+", Tone: "green"}}, traction.Stats)

	require.Len(t, cat.Roadmap, len(base.Roadmap)+1)
	q, ok := cat.Quarter("Q2-2025")
	require.True(t, ok)
	assert.Equal(t, domain.StatusPlanned, q.Status)
	assert.Equal(t, "1M+", q.Metrics["users"])

	// The embedded catalog is untouched.
	assert.NotEqual(t, "Traction, Updated", base.Slides[4].Title)
}

func TestSource_ReadsEverySlideBody(t *testing.T) {
	_, repo := testutils.SetupContentRepo(t, map[string]string{
		"problem.md":  "---\nslide: 2\ntitle: The Problem\n---\nPaper cards get **lost**.",
		"solution.md": "---\nslide: 3\ntitle: The Solution\n---\nOne tap, one scan.",
	}, loam.WithStrict(true))
	src := New(loam.NewTypedRepository[DocMetadata](repo), content.Embedded{})

	cat, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Paper cards get **lost**.", cat.Slides[1].Content)
	assert.Equal(t, "One tap, one scan.", cat.Slides[2].Content)
	assert.Equal(t, "The Solution", cat.Slides[2].Title)
}

func TestSource_RejectsGaps(t *testing.T) {
	src := newSource(t, map[string]string{
		"extra.md": `---
slide: 12
title: Skips eleven
---
`,
	})

	_, err := src.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidSequence)
}

func TestSource_DetectsCollisions(t *testing.T) {
	src := newSource(t, map[string]string{
		"a.md": "---\nslide: 2\ntitle: A\n---\n",
		"b.md": "---\nslide: 2\ntitle: B\n---\n",
	})

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestSource_CanceledContext(t *testing.T) {
	src := newSource(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
