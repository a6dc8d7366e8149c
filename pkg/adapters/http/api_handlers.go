package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/namecardai/namecard/internal/sanitize"
	"github.com/namecardai/namecard/internal/wizard"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/session"
)

func (s *Server) mountAPI(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/content", s.GetContent)
		r.Post("/waitlist", s.JoinWaitlist)
		r.Post("/sessions", s.CreateSession)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Delete("/", s.DeleteSession)
			r.Get("/events", s.SubscribeEvents)
			r.Post("/viewport", s.ReportViewport)
			r.Post("/roadmap/{quarter}", s.SelectQuarter)

			r.Get("/tutorial", s.tutorialOp(nil))
			r.Post("/tutorial/levels/{level}", s.tutorialOp(selectLevel))
			r.Post("/tutorial/levels/{level}/complete", s.tutorialOp(completeLevel))
			r.Post("/tutorial/interactions", s.tutorialOp(interact))
			r.Post("/tutorial/profile", s.tutorialOp(updateProfile))
			r.Post("/tutorial/dismiss", s.tutorialOp(func(sess *session.Session, _ *http.Request) error {
				return sess.Tutorial.DismissInstructions()
			}))
			r.Post("/tutorial/reset", s.tutorialOp(func(sess *session.Session, _ *http.Request) error {
				return sess.Tutorial.Reset()
			}))

			r.Get("/signup", s.signupOp(nil))
			r.Put("/signup/fields/{field}", s.signupOp(updateField))
			r.Post("/signup/advance", s.signupOp(advance))
			r.Post("/signup/retreat", s.signupOp(func(sess *session.Session, _ *http.Request) error {
				return sess.Wizard.Retreat()
			}))
			r.Post("/signup/submit", s.SubmitSignup)
			r.Post("/signup/reset", s.signupOp(func(sess *session.Session, _ *http.Request) error {
				return sess.Wizard.Reset()
			}))

			r.Get("/pitch", s.pitchOp(nil))
			r.Post("/pitch/slides/{slide}", s.pitchOp(goToSlide))
			r.Post("/pitch/{action}", s.pitchOp(pitchAction))
		})
	})
}

// apiSession resolves the {id} path parameter. It writes the error response
// itself when the session is unknown.
func (s *Server) apiSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

type sessionOp func(*session.Session, *http.Request) error

func (s *Server) tutorialOp(op sessionOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.apiSession(w, r)
		if !ok {
			return
		}
		if op != nil {
			if err := op(sess, r); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, sess.Tutorial.Snapshot())
	}
}

func (s *Server) signupOp(op sessionOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.apiSession(w, r)
		if !ok {
			return
		}
		if op != nil {
			if err := op(sess, r); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, sess.Wizard.Snapshot())
	}
}

func (s *Server) pitchOp(op sessionOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.apiSession(w, r)
		if !ok {
			return
		}
		if op != nil {
			if err := op(sess, r); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, sess.Pitch.Snapshot())
	}
}

func selectLevel(sess *session.Session, r *http.Request) error {
	level, err := pathInt(r, "level")
	if err != nil {
		return err
	}
	return sess.Tutorial.SelectLevel(level)
}

func completeLevel(sess *session.Session, r *http.Request) error {
	level, err := pathInt(r, "level")
	if err != nil {
		return err
	}
	return sess.Tutorial.CompleteLevel(level)
}

// InteractRequest is the body of POST .../tutorial/interactions.
type InteractRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func interact(sess *session.Session, r *http.Request) error {
	var body InteractRequest
	if err := decodeBody(r, "/api/sessions/{id}/tutorial/interactions", http.MethodPost, &body); err != nil {
		return err
	}
	kind, err := domain.ParseInteraction(body.Kind)
	if err != nil {
		return err
	}
	return sess.Tutorial.Interact(kind, body.Value)
}

// ProfileRequest is the body of POST .../tutorial/profile.
type ProfileRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func updateProfile(sess *session.Session, r *http.Request) error {
	var body ProfileRequest
	if err := decodeBody(r, "/api/sessions/{id}/tutorial/profile", http.MethodPost, &body); err != nil {
		return err
	}
	value, err := sanitize.Line(body.Value)
	if err != nil {
		return err
	}
	return sess.Tutorial.UpdateProfile(body.Field, value)
}

// FieldRequest is the body of PUT .../signup/fields/{field}.
type FieldRequest struct {
	Value any `json:"value"`
}

func updateField(sess *session.Session, r *http.Request) error {
	var body FieldRequest
	if err := decodeBody(r, "/api/sessions/{id}/signup/fields/{field}", http.MethodPut, &body); err != nil {
		return err
	}
	return sess.Wizard.UpdateField(chi.URLParam(r, "field"), body.Value)
}

func advance(sess *session.Session, _ *http.Request) error {
	ok, err := sess.Wizard.Advance()
	if err != nil {
		return err
	}
	if !ok {
		return sess.Wizard.Snapshot().Errors
	}
	return nil
}

// SubmitSignup handles POST .../signup/submit. Creator failures answer 502
// with the message the wizard shows.
func (s *Server) SubmitSignup(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.apiSession(w, r)
	if !ok {
		return
	}
	err := sess.Wizard.Submit(r.Context())
	snap := sess.Wizard.Snapshot()
	var verrs domain.ValidationErrors
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, snap)
	case errors.As(err, &verrs), statusFor(err) != http.StatusInternalServerError:
		s.writeError(w, r, err)
	case snap.SubmitError != "":
		s.logger.Warn("Signup submission failed", "session_id", sess.ID, "error", err)
		writeJSON(w, http.StatusBadGateway, ErrorBody{Error: snap.SubmitError})
	default:
		s.writeError(w, r, err)
	}
}

func goToSlide(sess *session.Session, r *http.Request) error {
	slide, err := pathInt(r, "slide")
	if err != nil {
		return err
	}
	return sess.Pitch.GoTo(slide)
}

func pitchAction(sess *session.Session, r *http.Request) error {
	switch action := chi.URLParam(r, "action"); action {
	case "next":
		return sess.Pitch.Next()
	case "prev":
		return sess.Pitch.Prev()
	case "play":
		return sess.Pitch.SetAutoplay(true)
	case "pause":
		return sess.Pitch.SetAutoplay(false)
	default:
		return fmt.Errorf("%w: unknown pitch action %q", errBadRequest, action)
	}
}

// SelectQuarter handles POST .../roadmap/{quarter}.
func (s *Server) SelectQuarter(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.apiSession(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "quarter")
	if err := sess.SelectQuarter(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	q, _ := sess.Catalog().Quarter(id)
	writeJSON(w, http.StatusOK, q)
}

// ViewportRequest is the body of POST .../viewport.
type ViewportRequest struct {
	ScrollY int `json:"scroll_y"`
}

// ReportViewport handles POST .../viewport.
func (s *Server) ReportViewport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.apiSession(w, r)
	if !ok {
		return
	}
	var body ViewportRequest
	if err := decodeBody(r, "/api/sessions/{id}/viewport", http.MethodPost, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.ReportScroll(body.ScrollY)
	writeJSON(w, http.StatusOK, headerOf(sess))
}

// CreateSession handles POST /api/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Create(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

// DeleteSession handles DELETE /api/sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetContent handles GET /api/content.
func (s *Server) GetContent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sessions.Catalog())
}

// WaitlistRequest is the body of POST /api/waitlist.
type WaitlistRequest struct {
	Email string `json:"email"`
}

// JoinWaitlist handles POST /api/waitlist.
func (s *Server) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var body WaitlistRequest
	if err := decodeBody(r, "/api/waitlist", http.MethodPost, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	added, err := s.joinWaitlist(r, body.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]bool{"added": added})
}

// joinWaitlist applies the email shape rule shared with the wizard.
func (s *Server) joinWaitlist(r *http.Request, raw string) (bool, error) {
	email, err := sanitize.Line(raw)
	if err != nil {
		return false, err
	}
	if !domain.ValidEmail(email) {
		return false, domain.ValidationErrors{domain.FieldEmail: wizard.MsgEmailInvalid}
	}
	added, err := s.Waitlist.Join(r.Context(), email)
	if err != nil {
		return false, fmt.Errorf("waitlist: %w", err)
	}
	if added && s.metrics != nil {
		s.metrics.WaitlistJoins.Inc()
	}
	return added, nil
}
