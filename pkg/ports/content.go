package ports

import (
	"context"

	"github.com/namecardai/namecard/pkg/content"
)

// ContentSource loads the static content catalog.
type ContentSource interface {
	Load(ctx context.Context) (*content.Catalog, error)
}

// Watchable is implemented by sources that can report content changes.
// The channel emits the id of the changed document and closes when ctx ends.
type Watchable interface {
	Watch(ctx context.Context) (<-chan string, error)
}
