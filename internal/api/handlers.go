package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/yangwenmai/herogen/internal/artifact"
	"github.com/yangwenmai/herogen/internal/model"
)

// ---------------------------------------------------------------------------
// GET /hero
// ---------------------------------------------------------------------------

func (s *Server) handleHero(w http.ResponseWriter, r *http.Request) {
	cur, err := artifact.Resolve(s.publicDir)
	if errors.Is(err, artifact.ErrNoArtifact) {
		s.metrics.observeHero("")
		writeError(w, http.StatusNotFound, "no hero artifact yet")
		return
	}
	if err != nil {
		slog.Error("resolve hero artifact", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve hero artifact")
		return
	}

	s.metrics.observeHero(cur.Name)
	w.Header().Set("Content-Type", cur.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, cur.Path)
}

// ---------------------------------------------------------------------------
// GET /api/hero
// ---------------------------------------------------------------------------

type heroResponse struct {
	Name       string        `json:"name"`
	Variant    model.Variant `json:"variant,omitempty"`
	Size       int64         `json:"size"`
	ModifiedAt time.Time     `json:"modified_at"`
}

func (s *Server) handleHeroInfo(w http.ResponseWriter, r *http.Request) {
	cur, err := artifact.Resolve(s.publicDir)
	if errors.Is(err, artifact.ErrNoArtifact) {
		writeError(w, http.StatusNotFound, "no hero artifact yet")
		return
	}
	if err != nil {
		slog.Error("resolve hero artifact", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve hero artifact")
		return
	}

	writeJSON(w, http.StatusOK, heroResponse{
		Name:       cur.Name,
		Variant:    s.variantOf(r.Context(), cur.Name),
		Size:       cur.Size,
		ModifiedAt: cur.ModifiedAt,
	})
}

// variantOf reports which branch produced the named file. A raster can only
// come from the remote branch; for the vector file the two placeholder
// variants are told apart through run history, if any.
func (s *Server) variantOf(ctx context.Context, name string) model.Variant {
	if name == model.RasterArtifactName {
		return model.VariantRemoteImage
	}
	if s.runs == nil {
		return ""
	}
	run, err := s.runs.LatestRun(ctx)
	if err != nil {
		return ""
	}
	if filepath.Base(run.ArtifactPath) != name {
		return ""
	}
	return run.Variant
}

// ---------------------------------------------------------------------------
// GET /api/runs
// ---------------------------------------------------------------------------

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	s.metrics.runsRequests.Inc()
	limit := s.runsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	if s.runs == nil {
		writeJSON(w, http.StatusOK, []model.Run{})
		return
	}

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		slog.Error("list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}
