/*
Package namecard runs the NameCardAI marketing site: a server-rendered website
whose interactive pieces are per-visitor controllers.

# Concept

Every browser session owns three controllers:

  - a guided demo (tutorial) of five levels that auto-advances a moment after
    the current level is completed,
  - a four-step sign-up wizard that validates each step before moving on and
    submits the registration to an account backend at most once at a time,
  - an investor pitch deck with optional autoplay.

Controllers are safe for concurrent use, publish immutable snapshots to
subscribers and cancel their timers on navigation and teardown.

# Usage

	app, err := namecard.New(ctx,
		namecard.WithLogger(logger),
		namecard.WithAccounts(memory.NewAccounts()),
	)
	if err != nil {
		log.Fatal(err)
	}
	log.Fatal(app.Run(ctx, ":8080"))

The same sessions can be driven over the JSON API documented in
/openapi.yaml, the SSE stream at /api/sessions/{id}/events, or the MCP
server in pkg/adapters/mcp.
*/
package namecard
