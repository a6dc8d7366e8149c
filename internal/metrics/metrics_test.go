package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/namecardai/namecard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHooks(t *testing.T) {
	m := New()
	h := m.Hooks()
	ctx := context.Background()

	h.EmitLevel(ctx, &domain.LevelEvent{EventBase: domain.EventBase{Type: domain.EventLevelCompleted}, LevelID: 1})
	h.EmitLevel(ctx, &domain.LevelEvent{EventBase: domain.EventBase{Type: domain.EventLevelCompleted}, LevelID: 1})
	h.EmitStep(ctx, &domain.StepEvent{EventBase: domain.EventBase{Type: domain.EventStepRejected}, From: 1, To: 1, Errors: 3})
	h.EmitSubmit(ctx, &domain.SubmitEvent{EventBase: domain.EventBase{Type: domain.EventSubmitStarted}})
	h.EmitSubmit(ctx, &domain.SubmitEvent{EventBase: domain.EventBase{Type: domain.EventSubmitFailed}, Duration: time.Second, Err: errors.New("x")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LevelEvents.WithLabelValues("level_completed", "1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepEvents.WithLabelValues("step_rejected", "1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Submissions.WithLabelValues("success")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.PageViews.WithLabelValues("/demo").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `namecard_page_views_total{path="/demo"} 1`)
}

func TestNew_Isolated(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
