package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/namecardai/namecard/internal/sanitize"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/session"
)

// SessionCookie carries the session id of page visitors.
const SessionCookie = "namecard_session"

func (s *Server) mountPages(r chi.Router) {
	r.Get("/", s.page("home", nil))
	r.Get("/landing", s.page("landing", landingBody))
	r.Get("/demo", s.page("demo", func(sess *session.Session, _ *http.Request) any { return sess.Tutorial.Snapshot() }))
	r.Get("/signup", s.page("signup", func(sess *session.Session, _ *http.Request) any { return sess.Wizard.Snapshot() }))
	r.Get("/pitch", s.page("pitch", func(sess *session.Session, _ *http.Request) any { return sess.Pitch.Snapshot() }))
	r.Get("/roadmap", s.page("roadmap", roadmapBody))
	r.Get("/why-us", s.page("whyus", nil))

	r.Post("/demo/{action}", s.form("/demo", "demo", demoAction))
	r.Post("/signup/{action}", s.form("/signup", "signup", signupAction))
	r.Post("/pitch/{action}", s.form("/pitch", "pitch", pitchFormAction))
	r.Post("/landing/subscribe", s.Subscribe)
}

// pageSession returns the visitor's session, starting one (and setting the
// cookie) when the cookie is missing or stale.
func (s *Server) pageSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess, err := s.Sessions.GetOrCreate(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess, nil
}

type bodyFunc func(*session.Session, *http.Request) any

func (s *Server) page(name string, body bodyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.pageSession(w, r)
		if err != nil {
			s.logger.Error("Session unavailable", "error", err)
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
		var b any
		if body != nil {
			b = body(sess, r)
		}
		s.renderPage(w, r, http.StatusOK, name, sess, b)
	}
}

// form runs action and redirects back to the page (post/redirect/get).
// Rejected input re-renders the page with the error and its status.
func (s *Server) form(back, name string, action func(context.Context, *session.Session, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.pageSession(w, r)
		if err != nil {
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			s.failForm(w, r, name, sess, errBadRequest)
			return
		}
		if err := action(r.Context(), sess, r); err != nil {
			s.failForm(w, r, name, sess, err)
			return
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

func (s *Server) failForm(w http.ResponseWriter, r *http.Request, name string, sess *session.Session, err error) {
	s.logger.Debug("Form rejected", "path", r.URL.Path, "error", err)
	var body any
	switch name {
	case "demo":
		body = sess.Tutorial.Snapshot()
	case "signup":
		body = sess.Wizard.Snapshot()
	case "pitch":
		body = sess.Pitch.Snapshot()
	}
	s.renderFlash(w, r, statusFor(err), name, sess, err.Error(), body)
}

func formInt(r *http.Request, key string) (int, error) {
	n, err := strconv.Atoi(r.PostForm.Get(key))
	if err != nil {
		return 0, errBadRequest
	}
	return n, nil
}

func demoAction(_ context.Context, sess *session.Session, r *http.Request) error {
	t := sess.Tutorial
	switch chi.URLParam(r, "action") {
	case "select":
		level, err := formInt(r, "level")
		if err != nil {
			return err
		}
		return t.SelectLevel(level)
	case "complete":
		level, err := formInt(r, "level")
		if err != nil {
			return err
		}
		return t.CompleteLevel(level)
	case "interact":
		kind, err := domain.ParseInteraction(r.PostForm.Get("kind"))
		if err != nil {
			return err
		}
		return t.Interact(kind, r.PostForm.Get("value"))
	case "profile":
		value, err := sanitize.Line(r.PostForm.Get("value"))
		if err != nil {
			return err
		}
		return t.UpdateProfile(r.PostForm.Get("field"), value)
	case "dismiss":
		return t.DismissInstructions()
	case "reset":
		return t.Reset()
	default:
		return errBadRequest
	}
}

// signupAction stores the posted fields of the current step, then navigates.
// Checkboxes absent from the post are unchecked.
func signupAction(ctx context.Context, sess *session.Session, r *http.Request) error {
	wiz := sess.Wizard
	action := chi.URLParam(r, "action")
	if action == "reset" {
		return wiz.Reset()
	}

	snap := wiz.Snapshot()
	if snap.Submission == domain.SubmissionIdle {
		for _, f := range snap.Step().Fields {
			_, posted := r.PostForm[f.Name]
			switch {
			case f.Kind == domain.FieldKindCheckbox:
				if err := wiz.UpdateField(f.Name, r.PostForm.Get(f.Name)); err != nil {
					return err
				}
			case posted:
				if err := wiz.UpdateField(f.Name, r.PostForm.Get(f.Name)); err != nil {
					return err
				}
			}
		}
	}

	switch action {
	case "save":
		return nil
	case "next":
		_, err := wiz.Advance()
		return err
	case "back":
		return wiz.Retreat()
	case "submit":
		err := wiz.Submit(ctx)
		var verrs domain.ValidationErrors
		// Field errors and the creator's failure message live in the snapshot.
		if errors.As(err, &verrs) || (err != nil && wiz.Snapshot().SubmitError != "") {
			return nil
		}
		return err
	default:
		return errBadRequest
	}
}

func pitchFormAction(_ context.Context, sess *session.Session, r *http.Request) error {
	d := sess.Pitch
	switch chi.URLParam(r, "action") {
	case "next":
		return d.Next()
	case "prev":
		return d.Prev()
	case "goto":
		slide, err := formInt(r, "slide")
		if err != nil {
			return err
		}
		return d.GoTo(slide)
	case "play":
		return d.SetAutoplay(true)
	case "pause":
		return d.SetAutoplay(false)
	default:
		return errBadRequest
	}
}

// Waitlist outcomes shown on the landing page.
const (
	waitlistJoined  = "joined"
	waitlistExists  = "exists"
	waitlistInvalid = "invalid"
	waitlistFailed  = "failed"
)

// Subscribe handles POST /landing/subscribe.
func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	outcome := waitlistInvalid
	if err := r.ParseForm(); err == nil {
		added, err := s.joinWaitlist(r, r.PostForm.Get("email"))
		var verrs domain.ValidationErrors
		switch {
		case err == nil && added:
			outcome = waitlistJoined
		case err == nil:
			outcome = waitlistExists
		case errors.As(err, &verrs), statusFor(err) == http.StatusBadRequest:
			outcome = waitlistInvalid
		default:
			s.logger.Error("Waitlist join failed", "error", err)
			outcome = waitlistFailed
		}
	}
	http.Redirect(w, r, "/landing?waitlist="+outcome+"#waitlist", http.StatusSeeOther)
}

// LandingView is the body of the landing page.
type LandingView struct {
	Outcome string
}

func landingBody(_ *session.Session, r *http.Request) any {
	return LandingView{Outcome: r.URL.Query().Get("waitlist")}
}

// RoadmapView is the body of the roadmap page.
type RoadmapView struct {
	Quarters []domain.Quarter
	Selected domain.Quarter
}

// roadmapBody applies ?quarter= and returns the selected milestone.
// Unknown quarters keep the previous selection.
func roadmapBody(sess *session.Session, r *http.Request) any {
	if q := r.URL.Query().Get("quarter"); q != "" {
		_ = sess.SelectQuarter(q)
	}
	selected, _ := sess.Catalog().Quarter(sess.Quarter.Get())
	return RoadmapView{Quarters: sess.Catalog().Roadmap, Selected: selected}
}
