// Package loam overlays the embedded content catalog with markdown documents
// kept in a Loam repository, so the pitch deck and roadmap can be edited
// without a rebuild.
package loam

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/ports"
)

// Source implements ports.ContentSource and ports.Watchable.
type Source struct {
	Repo *loam.TypedRepository[DocMetadata]
	base ports.ContentSource
}

// New wraps a typed repository. base supplies everything the documents do
// not override.
func New(repo *loam.TypedRepository[DocMetadata], base ports.ContentSource) *Source {
	return &Source{Repo: repo, base: base}
}

// Open initializes a read-only Loam repository at dir over the embedded catalog.
func Open(dir string) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// Strict mode keeps numbers as json.Number; read-only avoids Loam's dev sandbox.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[DocMetadata](repo), content.Embedded{}), nil
}

// Load returns the base catalog with every slide and quarter document applied.
func (s *Source) Load(ctx context.Context) (*content.Catalog, error) {
	cat, err := s.base.Load(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	slides := slices.Clone(cat.Slides)
	roadmap := slices.Clone(cat.Roadmap)
	seen := make(map[string]string)

	for _, doc := range docs {
		meta := doc.Data
		var key string
		switch {
		case meta.Slide > 0:
			key = fmt.Sprintf("slide %d", meta.Slide)
			// List returns metadata only; the markdown body needs a Get.
			full, err := s.Repo.Get(ctx, doc.ID)
			if err != nil {
				return nil, fmt.Errorf("loam get failed for %s: %w", doc.ID, err)
			}
			meta = full.Data
			body := strings.TrimSpace(full.Content)
			slides = upsert(slides, meta.slide(body), func(s domain.Slide) bool { return s.ID == meta.Slide })
		case meta.Quarter != "":
			key = "quarter " + meta.Quarter
			roadmap = upsert(roadmap, meta.quarter(), func(q domain.Quarter) bool { return q.ID == meta.Quarter })
		default:
			continue
		}
		// Collision Detection
		if existing, ok := seen[key]; ok {
			return nil, fmt.Errorf("collision detected: %s is defined in both '%s' and '%s'", key, existing, doc.ID)
		}
		seen[key] = doc.ID
	}

	slices.SortStableFunc(slides, func(a, b domain.Slide) int { return cmp.Compare(a.ID, b.ID) })

	out := cat.WithSlides(slides).WithRoadmap(roadmap)
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("content overlay is invalid: %w", err)
	}
	return out, nil
}

func upsert[T any](items []T, item T, match func(T) bool) []T {
	if i := slices.IndexFunc(items, match); i >= 0 {
		items[i] = item
		return items
	}
	return append(items, item)
}

// Watch implements ports.Watchable.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	events, err := s.Repo.Watch(ctx, "**/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
