package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	htmx "github.com/angelofallars/htmx-go"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/descriptor"
	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/events"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/state"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.schema)
}

// handleLanding shows the welcome page. Leaving the form view unmounts it.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	sess := s.store.acquire(w, r)
	sess.mu.Lock()
	wasMounted := sess.form.Mounted()
	sess.form.Unmount()
	sess.mu.Unlock()
	if wasMounted {
		s.logger.Debug("form unmounted", zap.String("session", sess.id))
	}

	out, err := s.renderer.RenderLanding(r.Context(), s.title, s.renderOptions(nil, false))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeHTML(w, http.StatusOK, out)
}

// handleForm mounts the session form if needed and renders it.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	sess := s.store.acquire(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.form.Mounted() {
		if err := sess.mount(); err != nil {
			s.fail(w, r, err)
			return
		}
		s.logger.Debug("form mounted", zap.String("session", sess.id))
	}

	out, err := s.renderer.Render(r.Context(), sess.form.View(), s.renderOptions(sess, htmx.IsHTMX(r)))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeHTML(w, http.StatusOK, out)
}

func (s *Server) handleUnmount(w http.ResponseWriter, r *http.Request) {
	sess := s.store.acquire(w, r)
	sess.mu.Lock()
	sess.form.Unmount()
	sess.mu.Unlock()
	s.logger.Debug("form unmounted", zap.String("session", sess.id))

	if htmx.IsHTMX(r) {
		if err := htmx.NewResponse().Redirect(s.url("/")).Write(w); err != nil {
			s.logger.Warn("write htmx redirect", zap.Error(err))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleValue commits the primary value of a text, integer or date-time
// field.
func (s *Server) handleValue(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	value := r.FormValue("value")

	s.apply(w, r, "value", false, func(form *engine.Form) error {
		field, ok := form.Document().Field(id)
		if !ok {
			return fmt.Errorf("%w: %q", engine.ErrUnknownField, id)
		}
		switch field.Type {
		case descriptor.FieldTypeText:
			return form.SetText(id, value)
		case descriptor.FieldTypeInteger:
			return form.SetInteger(id, value)
		case descriptor.FieldTypeDateTime:
			return form.SetDateTimeInput(id, value)
		default:
			return fmt.Errorf("%w: field %q of type %s takes no typed value", engine.ErrNoWidget, id, field.Type)
		}
	})
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	value := r.FormValue("value")

	s.apply(w, r, "comment", false, func(form *engine.Form) error {
		return form.SetComment(id, value)
	})
}

// handlePhoto records the uploaded file's name. The content is discarded.
func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	var ref state.FileRef
	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		_ = file.Close()
		ref = state.FileRef{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		}
	case errors.Is(err, http.ErrMissingFile):
	default:
		http.Error(w, fmt.Sprintf("read upload: %v", err), http.StatusBadRequest)
		return
	}

	s.apply(w, r, "photo", true, func(form *engine.Form) error {
		return form.ChoosePhoto(id, ref)
	})
}

func (s *Server) handleDropdown(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	s.apply(w, r, "dropdown", true, func(form *engine.Form) error {
		return form.ToggleDropdown(id)
	})
}

func (s *Server) handleOption(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	key := pathParam(r, "key")
	s.apply(w, r, "option", true, func(form *engine.Form) error {
		return form.SelectOption(id, key)
	})
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	s.apply(w, r, "help", true, func(form *engine.Form) error {
		return form.ToggleHelp(id)
	})
}

func (s *Server) handleHelpKey(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	key := r.FormValue("key")
	s.apply(w, r, "help_key", true, func(form *engine.Form) error {
		return form.HelpKey(id, key)
	})
}

// handlePointerDown dispatches a page-level pointer event to the session's
// listeners. The container values name the dropdowns enclosing the target.
func (s *Server) handlePointerDown(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var containers []string
	for _, id := range r.Form["container"] {
		if id != "" {
			containers = append(containers, id)
		}
	}

	sess := s.store.acquire(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.page.DispatchPointerDown(events.PointerEvent{Containers: containers})
	s.metrics.FieldEvents.WithLabelValues("pointerdown").Inc()
	s.respondForm(w, r, sess)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.store.acquire(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	submission, err := sess.form.Submit()
	var missing *engine.MissingFieldsError
	switch {
	case err == nil:
		s.metrics.Submissions.WithLabelValues("accepted").Inc()
		s.logger.Info("form submitted",
			zap.String("session", sess.id),
			zap.Int("values", submission.State.Len()),
			zap.Int("bytes", len(submission.JSON)),
		)
	case errors.As(err, &missing):
		s.metrics.Submissions.WithLabelValues("incomplete").Inc()
		s.logger.Info("submission incomplete",
			zap.String("session", sess.id),
			zap.Strings("missing", missing.Titles),
		)
	default:
		s.fail(w, r, err)
		return
	}
	s.respondForm(w, r, sess)
}

// apply runs fn against the caller's form under the session lock, then
// answers with the form (structural changes) or the result panel (value
// edits).
func (s *Server) apply(w http.ResponseWriter, r *http.Request, event string, structural bool, fn func(*engine.Form) error) {
	sess := s.store.acquire(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(sess.form); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.FieldEvents.WithLabelValues(event).Inc()

	if structural {
		s.respondForm(w, r, sess)
		return
	}
	s.respondResult(w, r, sess)
}

func (s *Server) respondForm(w http.ResponseWriter, r *http.Request, sess *session) {
	if !htmx.IsHTMX(r) {
		http.Redirect(w, r, s.url("/form"), http.StatusSeeOther)
		return
	}
	out, err := s.renderer.Render(r.Context(), sess.form.View(), s.renderOptions(sess, true))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeHTML(w, http.StatusOK, out)
}

func (s *Server) respondResult(w http.ResponseWriter, r *http.Request, sess *session) {
	if !htmx.IsHTMX(r) {
		http.Redirect(w, r, s.url("/form"), http.StatusSeeOther)
		return
	}
	out, err := s.renderer.RenderResult(r.Context(), sess.form.View(), s.renderOptions(sess, true))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeHTML(w, http.StatusOK, out)
}

// renderOptions embeds the session id in the rendered form so htmx requests
// from clients that drop the cookie still reach their session.
func (s *Server) renderOptions(sess *session, fragment bool) render.RenderOptions {
	opts := render.RenderOptions{
		Fragment: fragment,
		BasePath: s.basePath,
	}
	if sess != nil {
		opts.HiddenFields = render.MergeHiddenFields(nil, render.SessionField(SessionCookie, sess.id))
	}
	return opts
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

// pathParam returns the decoded route parameter. Chi matches against the
// escaped path whenever the URL carries one, so its parameters keep the
// escapes of reserved characters such as "/" and ",".
func pathParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value
	}
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}
