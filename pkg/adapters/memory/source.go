package memory

import (
	"context"
	"sync"

	"github.com/namecardai/namecard/pkg/content"
)

// Source implements ports.ContentSource and ports.Watchable over a catalog
// held in memory. Replace publishes a new catalog to every watcher, which
// makes it the test double for file-backed sources.
type Source struct {
	mu       sync.Mutex
	catalog  *content.Catalog
	watchers []chan string
}

// NewSource serves cat until Replace is called.
func NewSource(cat *content.Catalog) *Source {
	return &Source{catalog: cat}
}

func (s *Source) Load(ctx context.Context) (*content.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog, nil
}

// Replace validates cat and swaps it in, notifying watchers with id.
func (s *Source) Replace(id string, cat *content.Catalog) error {
	if err := cat.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = cat
	// Sends never block; a slow watcher only misses duplicate notifications.
	for _, ch := range s.watchers {
		select {
		case ch <- id:
		default:
		}
	}
	return nil
}

// Watch emits ids passed to Replace until ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 8)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}
