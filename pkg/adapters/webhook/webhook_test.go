package webhook_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/namecardai/namecard/pkg/adapters/webhook"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream is a fake registration API that rejects duplicate emails.
func upstream(t *testing.T) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var mu sync.Mutex
	seen := map[string]bool{}
	var bodies []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		email, _ := body["email"].(string)
		if strings.Contains(email, "explode") {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}

		mu.Lock()
		defer mu.Unlock()
		bodies = append(bodies, body)
		if seen[email] {
			w.WriteHeader(http.StatusConflict)
			return
		}
		seen[email] = true
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func TestWebhook_Contract(t *testing.T) {
	srv, _ := upstream(t)
	ports.RunAccountCreatorContract(t, webhook.New(srv.URL))
}

func TestWebhook_Payload(t *testing.T) {
	var gotToken string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	creator := webhook.New(srv.URL, webhook.WithHeader("Authorization", "Bearer t0ken"))
	err := creator.CreateAccount(t.Context(), domain.Registration{
		FirstName:       "Jane",
		Email:           "Jane@Example.com",
		Password:        "abcdefgh",
		ConfirmPassword: "abcdefgh",
		Plan:            "pro",
		AgreeToTerms:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer t0ken", gotToken)
	assert.Equal(t, "jane@example.com", body["email"])
	assert.Equal(t, "pro", body["plan"])
	assert.Equal(t, true, body["agreeToTerms"])
	assert.NotContains(t, body, "confirmPassword")
}

func TestWebhook_UpstreamFailure(t *testing.T) {
	srv, _ := upstream(t)
	err := webhook.New(srv.URL).CreateAccount(t.Context(), domain.Registration{Email: "explode@x.io"})
	assert.ErrorIs(t, err, webhook.ErrUpstream)
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestWebhook_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := webhook.New(url).CreateAccount(t.Context(), domain.Registration{Email: "a@b.co"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmailTaken)
}
