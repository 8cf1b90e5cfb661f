package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewsense/crewsense-core/internal/telemetry"
)

// handleSubmitTelemetry accepts a partial reading from a unit, merges it into
// the store, and returns the resulting snapshot with derived status.
func (s *Server) handleSubmitTelemetry(w http.ResponseWriter, r *http.Request) {
	var update telemetry.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	reading, err := s.gateway.SubmitTelemetry(r.Context(), update)
	if err != nil {
		if errors.Is(err, telemetry.ErrMissingUnitID) {
			writeValidationError(w, "id is required")
			return
		}
		s.logger.Error("telemetry submission failed", "unit_id", update.ID, "error", err)
		writeInternalError(w, "failed to process telemetry")
		return
	}

	writeJSON(w, http.StatusOK, reading)
}

// handleListUnits returns the latest reading for every known unit.
func (s *Server) handleListUnits(w http.ResponseWriter, _ *http.Request) {
	units := s.units.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"units": units,
		"count": len(units),
	})
}

// handleGetUnit returns the latest reading for a single unit.
func (s *Server) handleGetUnit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reading, err := s.units.Get(id)
	if err != nil {
		if errors.Is(err, telemetry.ErrUnitNotFound) {
			writeNotFound(w, "unit not found")
			return
		}
		s.logger.Error("unit lookup failed", "unit_id", id, "error", err)
		writeInternalError(w, "failed to get unit")
		return
	}

	writeJSON(w, http.StatusOK, reading)
}
