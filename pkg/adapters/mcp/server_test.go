package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/namecardai/namecard/internal/pitch"
	"github.com/namecardai/namecard/internal/testutils"
	"github.com/namecardai/namecard/internal/tutorial"
	"github.com/namecardai/namecard/internal/wizard"
	"github.com/namecardai/namecard/pkg/adapters/memory"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	client   *client.Client
	accounts *memory.Accounts
	clock    *testutils.ManualClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cat, err := content.Default()
	require.NoError(t, err)

	accounts := memory.NewAccounts()
	clk := testutils.NewManualClock()
	mgr := session.NewManager(cat, session.Deps{
		Creator:      accounts,
		Clock:        clk,
		AdvanceDelay: time.Second,
	})
	t.Cleanup(mgr.Close)

	srv := NewServer(mgr, "test")
	c, err := client.NewInProcessClient(srv.MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	init := mcp.InitializeRequest{}
	init.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	init.Params.ClientInfo = mcp.Implementation{Name: "namecard-test", Version: "1.0.0"}
	_, err = c.Initialize(ctx, init)
	require.NoError(t, err)

	return &harness{client: c, accounts: accounts, clock: clk}
}

func (h *harness) call(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := h.client.CallTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

// structured decodes the structured content of a successful call.
func structured[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, "tool failed: %+v", res.Content)
	var data []byte
	if res.StructuredContent != nil {
		var err error
		data, err = json.Marshal(res.StructuredContent)
		require.NoError(t, err)
	} else {
		require.NotEmpty(t, res.Content)
		text, ok := mcp.AsTextContent(res.Content[0])
		require.True(t, ok)
		data = []byte(text.Text)
	}
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func (h *harness) newSession(t *testing.T) string {
	t.Helper()
	resp := structured[SessionResponse](t, h.call(t, "create_session", nil))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func TestListTools(t *testing.T) {
	h := newHarness(t)

	res, err := h.client.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.Subset(t, names, []string{
		"create_session", "tutorial_state", "tutorial_select_level", "tutorial_complete_level",
		"tutorial_interact", "signup_state", "signup_update_field", "signup_advance",
		"signup_retreat", "signup_submit", "signup_reset", "pitch_navigate",
	})
}

func TestTutorialTools(t *testing.T) {
	h := newHarness(t)
	id := h.newSession(t)

	snap := structured[tutorial.Snapshot](t, h.call(t, "tutorial_complete_level", map[string]any{"session_id": id, "level": 1}))
	assert.Equal(t, []int{1}, snap.Completed)
	assert.True(t, snap.AdvancePending)

	h.clock.Advance(time.Second)
	snap = structured[tutorial.Snapshot](t, h.call(t, "tutorial_state", map[string]any{"session_id": id}))
	assert.Equal(t, 2, snap.Current)

	snap = structured[tutorial.Snapshot](t, h.call(t, "tutorial_interact", map[string]any{"session_id": id, "kind": "scan"}))
	assert.Equal(t, 1, snap.Card.ScanCount)
	assert.Contains(t, snap.Completed, 2)

	snap = structured[tutorial.Snapshot](t, h.call(t, "tutorial_select_level", map[string]any{"session_id": id, "level": 4}))
	assert.Equal(t, 4, snap.Current)
	assert.False(t, snap.AdvancePending)

	assert.True(t, h.call(t, "tutorial_select_level", map[string]any{"session_id": id, "level": 8}).IsError)
	assert.True(t, h.call(t, "tutorial_state", map[string]any{"session_id": "missing"}).IsError)
}

func TestSignupTools(t *testing.T) {
	h := newHarness(t)
	id := h.newSession(t)

	set := func(field, value string) {
		structured[wizard.Snapshot](t, h.call(t, "signup_update_field", map[string]any{"session_id": id, "field": field, "value": value}))
	}
	advance := func() wizard.Snapshot {
		return structured[wizard.Snapshot](t, h.call(t, "signup_advance", map[string]any{"session_id": id}))
	}

	snap := advance()
	assert.Equal(t, 1, snap.Current)
	assert.Equal(t, wizard.MsgFirstNameRequired, snap.Errors[domain.FieldFirstName])

	set(domain.FieldFirstName, "Alex")
	set(domain.FieldLastName, "Lee")
	set(domain.FieldEmail, "alex@example.com")
	assert.Equal(t, 2, advance().Current)

	set(domain.FieldPassword, "abcdefgh")
	set(domain.FieldConfirmPassword, "abcdefgh")
	assert.Equal(t, 3, advance().Current)
	assert.Equal(t, 4, advance().Current)

	snap = structured[wizard.Snapshot](t, h.call(t, "signup_submit", map[string]any{"session_id": id}))
	assert.Equal(t, wizard.MsgTermsRequired, snap.Errors[domain.FieldAgreeToTerms])

	set(domain.FieldAgreeToTerms, "true")
	snap = structured[wizard.Snapshot](t, h.call(t, "signup_submit", map[string]any{"session_id": id}))
	assert.Equal(t, domain.SubmissionSucceeded, snap.Submission)
	require.NotNil(t, snap.Registered)
	assert.Equal(t, domain.DefaultPlan, snap.Registered.Plan)
	assert.Equal(t, 1, h.accounts.Len())

	assert.True(t, h.call(t, "signup_retreat", map[string]any{"session_id": id}).IsError)

	snap = structured[wizard.Snapshot](t, h.call(t, "signup_reset", map[string]any{"session_id": id}))
	assert.Equal(t, 1, snap.Current)
	assert.Equal(t, domain.SubmissionIdle, snap.Submission)
}

func TestSignupSubmit_DuplicateEmail(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.accounts.CreateAccount(context.Background(), domain.Registration{Email: "alex@example.com"}))
	id := h.newSession(t)

	for field, value := range map[string]string{
		domain.FieldFirstName: "Alex", domain.FieldLastName: "Lee", domain.FieldEmail: "alex@example.com",
	} {
		h.call(t, "signup_update_field", map[string]any{"session_id": id, "field": field, "value": value})
	}
	h.call(t, "signup_advance", map[string]any{"session_id": id})
	h.call(t, "signup_update_field", map[string]any{"session_id": id, "field": domain.FieldPassword, "value": "abcdefgh"})
	h.call(t, "signup_update_field", map[string]any{"session_id": id, "field": domain.FieldConfirmPassword, "value": "abcdefgh"})
	h.call(t, "signup_advance", map[string]any{"session_id": id})
	h.call(t, "signup_advance", map[string]any{"session_id": id})
	h.call(t, "signup_update_field", map[string]any{"session_id": id, "field": domain.FieldAgreeToTerms, "value": "on"})

	snap := structured[wizard.Snapshot](t, h.call(t, "signup_submit", map[string]any{"session_id": id}))

	assert.Equal(t, domain.SubmissionIdle, snap.Submission)
	assert.Equal(t, wizard.MsgEmailTaken, snap.SubmitError)
	assert.Equal(t, "alex@example.com", snap.Text(domain.FieldEmail))
}

func TestPitchTool(t *testing.T) {
	h := newHarness(t)
	id := h.newSession(t)

	snap := structured[pitch.Snapshot](t, h.call(t, "pitch_navigate", map[string]any{"session_id": id, "action": "prev"}))
	assert.Equal(t, len(snap.Slides), snap.Current, "prev from the first slide wraps")

	snap = structured[pitch.Snapshot](t, h.call(t, "pitch_navigate", map[string]any{"session_id": id, "action": "goto", "slide": 3}))
	assert.Equal(t, 3, snap.Current)

	assert.True(t, h.call(t, "pitch_navigate", map[string]any{"session_id": id, "action": "goto", "slide": 40}).IsError)
}

func TestContentResource(t *testing.T) {
	h := newHarness(t)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = ContentURI
	res, err := h.client.ReadResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	text, ok := res.Contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)

	var cat content.Catalog
	require.NoError(t, json.Unmarshal([]byte(text.Text), &cat))
	assert.Equal(t, "NameCardAI", cat.Site.Name)
	assert.Len(t, cat.Levels, 5)
}
