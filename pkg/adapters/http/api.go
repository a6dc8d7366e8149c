package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"
	"github.com/namecardai/namecard/internal/sanitize"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var openapiSpec []byte

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

var loadSwagger = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
})

// GetSwagger returns the parsed API description.
func GetSwagger() (*openapi3.T, error) {
	return loadSwagger()
}

// rawSpec returns the embedded YAML document.
func rawSpec() []byte {
	return openapiSpec
}

// errBadRequest marks malformed requests (body, parameters).
var errBadRequest = errors.New("bad request")

// decodeBody reads a JSON body, checks it against the request schema of the
// documented operation and decodes it into dst using its json tags.
func decodeBody(r *http.Request, path, method string, dst any) error {
	var raw any
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}

	doc, err := GetSwagger()
	if err != nil {
		return err
	}
	if item := doc.Paths.Find(path); item != nil {
		if op := item.GetOperation(method); op != nil && op.RequestBody != nil && op.RequestBody.Value != nil {
			if mt := op.RequestBody.Value.Content.Get("application/json"); mt != nil && mt.Schema != nil {
				if err := mt.Schema.Value.VisitJSON(raw); err != nil {
					return fmt.Errorf("%w: %v", errBadRequest, err)
				}
			}
		}
	}

	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  dst,
	})
	if err != nil {
		return err
	}
	if err := d.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// pathInt binds an integer path parameter the way generated servers do.
func pathInt(r *http.Request, name string) (int, error) {
	var v int
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: invalid format for parameter %s: %v", errBadRequest, name, err)
	}
	return v, nil
}

// queryString binds an optional query parameter.
func queryString(r *http.Request, name string) (*string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, fmt.Errorf("%w: invalid format for parameter %s: %v", errBadRequest, name, err)
	}
	return v, nil
}

// ErrorBody is the JSON shape of every rejected request.
type ErrorBody struct {
	Error  string                  `json:"error"`
	Fields domain.ValidationErrors `json:"fields,omitempty"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrUnknownLevel),
		errors.Is(err, domain.ErrUnknownSlide),
		errors.Is(err, domain.ErrUnknownQuarter):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, domain.ErrUnknownInteraction),
		errors.Is(err, sanitize.ErrInputTooLarge),
		errors.Is(err, sanitize.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSubmissionInFlight),
		errors.Is(err, domain.ErrAlreadySubmitted),
		errors.Is(err, domain.ErrNotFinalStep):
		return http.StatusConflict
	case errors.Is(err, domain.ErrClosed):
		return http.StatusGone
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := ErrorBody{Error: err.Error()}
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		body.Error = "validation failed"
		body.Fields = verrs
	case errors.Is(err, domain.ErrSessionNotFound):
		// The id came from the client; it is not echoed back.
		body.Error = domain.ErrSessionNotFound.Error()
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, body)
}
