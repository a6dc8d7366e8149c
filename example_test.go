package namecard_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/namecardai/namecard"
)

// Example serves the site in-process and checks it is healthy.
func Example() {
	ctx := context.Background()
	app, err := namecard.New(ctx)
	if err != nil {
		panic(err)
	}
	defer app.Close()

	rec := httptest.NewRecorder()
	app.Handler(ctx).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	fmt.Println(rec.Code)
	// Output: 200
}

// Example_session drives the demo of one session without HTTP.
func Example_session() {
	ctx := context.Background()
	app, err := namecard.New(ctx)
	if err != nil {
		panic(err)
	}
	defer app.Close()

	sess, err := app.Sessions.Create(ctx)
	if err != nil {
		panic(err)
	}
	if err := sess.Tutorial.SelectLevel(3); err != nil {
		panic(err)
	}
	snap := sess.Tutorial.Snapshot()
	fmt.Println(snap.Current, snap.Level().Title != "")
	// Output: 3 true
}
