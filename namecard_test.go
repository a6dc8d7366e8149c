package namecard_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/namecardai/namecard"
	"github.com/namecardai/namecard/pkg/adapters/memory"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, namecard.Version)
	assert.NotContains(t, namecard.Version, "\n")
}

func TestNew_Defaults(t *testing.T) {
	ctx := context.Background()
	app, err := namecard.New(ctx)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	assert.Nil(t, app.Metrics)
	assert.Equal(t, "NameCardAI", app.Sessions.Catalog().Site.Name)

	rec := httptest.NewRecorder()
	app.Handler(ctx).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Handler(ctx).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNew_WithMetrics(t *testing.T) {
	ctx := context.Background()
	app, err := namecard.New(ctx, namecard.WithMetrics(true))
	require.NoError(t, err)
	t.Cleanup(app.Close)
	require.NotNil(t, app.Metrics)

	_, err = app.Sessions.Create(ctx)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.Handler(ctx).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "namecard_sessions_active 1")
}

func TestReload_SwapsCatalogForNewSessions(t *testing.T) {
	ctx := context.Background()
	cat, err := content.Default()
	require.NoError(t, err)
	src := memory.NewSource(cat)

	app, err := namecard.New(ctx, namecard.WithContentSource(src))
	require.NoError(t, err)
	t.Cleanup(app.Close)

	before, err := app.Sessions.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, src.Replace("slides", cat.WithSlides(cat.Slides[:3])))
	require.NoError(t, app.Reload(ctx, "slides"))

	after, err := app.Sessions.Create(ctx)
	require.NoError(t, err)
	assert.Len(t, after.Pitch.Snapshot().Slides, 3)
	assert.Len(t, before.Pitch.Snapshot().Slides, len(cat.Slides))
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestRun_ServesAndFollowsContent(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)
	src := memory.NewSource(cat)

	ctx, cancel := context.WithCancel(context.Background())
	app, err := namecard.New(ctx, namecard.WithContentSource(src))
	require.NoError(t, err)

	addr := freeAddr(t)
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, src.Replace("slides", cat.WithSlides(cat.Slides[:2])))
	assert.Eventually(t, func() bool {
		return len(app.Sessions.Catalog().Slides) == 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
