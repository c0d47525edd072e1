package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stepwise/pkg/algo/dp"
	"github.com/matzehuels/stepwise/pkg/algo/kmeans"
	"github.com/matzehuels/stepwise/pkg/buildinfo"
	"github.com/matzehuels/stepwise/pkg/demo"
	"github.com/matzehuels/stepwise/pkg/errors"
	"github.com/matzehuels/stepwise/pkg/render"
	"github.com/matzehuels/stepwise/pkg/session"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, demo.List())
}

// createSessionRequest starts a session. An empty input uses the demo's
// sample input.
type createSessionRequest struct {
	Algorithm string `json:"algorithm"`
	Input     []int  `json:"input"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	info, err := demo.Lookup(req.Algorithm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	input := req.Input
	if input == nil {
		input = info.Sample
	}
	if err := errors.ValidateInput(input); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.sessions.Create(r.Context(), info.Name, input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/sessions/"+view.Session.ID)
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// stepFunc is one of Manager.Next, Manager.Prev or Manager.Reset.
type stepFunc func(ctx context.Context, id string) (*session.View, error)

func (s *Server) handleStep(fn stepFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := fn(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, cached, err := s.renderer.Render(r.Context(), render.SceneOf(view.Frame), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(opts.Format))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// renderOptions reads format, view and scale from the query, falling back
// to the server defaults.
func (s *Server) renderOptions(r *http.Request) (render.Options, error) {
	q := r.URL.Query()
	opts := s.defaults
	if f := q.Get("format"); f != "" {
		opts.Format = render.Format(f)
	}
	if v := q.Get("view"); v != "" {
		opts.View = render.View(v)
	}
	if sc := q.Get("scale"); sc != "" {
		scale, err := strconv.ParseFloat(sc, 64)
		if err != nil || scale <= 0 || scale > 10 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale must be a number in (0, 10]")
		}
		opts.Scale = scale
	}
	return opts.Validate()
}

type editDistanceRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type editDistanceResponse struct {
	Source   string        `json:"source"`
	Target   string        `json:"target"`
	Distance int           `json:"distance"`
	Ops      []dp.TextEdit `json:"ops"`
	Table    [][]int       `json:"table,omitempty"`
}

func (s *Server) handleEditDistance(w http.ResponseWriter, r *http.Request) {
	var req editDistanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, text := range []string{req.Source, req.Target} {
		if err := errors.ValidateText(text); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	table := dp.NewEditTable([]rune(req.Source), []rune(req.Target))
	resp := editDistanceResponse{
		Source:   req.Source,
		Target:   req.Target,
		Distance: table.Cost(),
		Ops:      dp.TextScript(table.Path()),
	}
	if r.URL.Query().Get("table") == "true" {
		resp.Table = table.Rows()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleKMeans(w http.ResponseWriter, r *http.Request) {
	var cfg kmeans.Config
	if err := decodeJSON(w, r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	if rc := cfg.Random; rc != nil && (rc.Count > maxKMeansValues || rc.Dimension > maxKMeansValues ||
		rc.Count*rc.Dimension > maxKMeansValues) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "random point set exceeds %d values", maxKMeansValues))
		return
	}
	if cfg.MaxIterations > maxKMeansIterations {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "max_iterations exceeds %d", maxKMeansIterations))
		return
	}
	res, err := kmeans.Run(cfg)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "kmeans"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Bounds on the work a single k-means request may ask for.
const (
	maxKMeansValues     = 100_000
	maxKMeansIterations = 1000
)

// decodeJSON decodes a bounded request body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
