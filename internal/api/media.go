package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/crewsense/crewsense-core/internal/media"
)

// defaultVideoExt is assumed when an upload carries no file extension.
const defaultVideoExt = ".mp4"

// CreateImageRequest is the JSON body for image capture submissions.
type CreateImageRequest struct {
	DeviceID string `json:"device_id"`
	Samples  []int  `json:"samples"`
}

// handleCreateImage reconstructs a PNG from a flat sample buffer and stores it.
func (s *Server) handleCreateImage(w http.ResponseWriter, r *http.Request) {
	var req CreateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writePayloadTooLarge(w, "sample buffer too large")
			return
		}
		writeBadRequest(w, "invalid JSON body")
		return
	}

	record, err := s.gateway.SubmitImage(r.Context(), req.DeviceID, req.Samples)
	if err != nil {
		s.writeMediaError(w, err, req.DeviceID)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// handleCreateVideo accepts a multipart video upload and stores it byte-for-byte.
//
// Form fields:
//   - video: the file part (required)
//   - device_id: the submitting unit (required)
func (s *Server) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("video")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writePayloadTooLarge(w, "video exceeds the upload limit")
			return
		}
		writeBadRequest(w, "video file part is required")
		return
	}
	defer file.Close() //nolint:errcheck

	deviceID := r.FormValue("device_id")

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = defaultVideoExt
	}

	record, err := s.gateway.SubmitVideo(r.Context(), deviceID, ext, file)
	if err != nil {
		s.writeMediaError(w, err, deviceID)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// handleListMedia returns indexed captures, newest first.
//
// Query parameters:
//   - device_id: filter by submitting unit
//   - kind: filter by capture kind (image, video)
func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	filter := media.Filter{
		DeviceID: r.URL.Query().Get("device_id"),
	}

	if kindStr := r.URL.Query().Get("kind"); kindStr != "" {
		kind := media.Kind(kindStr)
		if !kind.Valid() {
			writeBadRequest(w, "kind must be image or video")
			return
		}
		filter.Kind = kind
	}

	records, err := s.media.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("media listing failed", "error", err)
		writeInternalError(w, "failed to list media")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"media": records,
		"count": len(records),
	})
}

// handleDeleteMedia removes a capture's index entry and backing binary.
func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "id must be an integer")
		return
	}

	if err := s.media.Delete(r.Context(), id); err != nil {
		if errors.Is(err, media.ErrNotFound) {
			writeNotFound(w, "media not found")
			return
		}
		s.logger.Error("media delete failed", "id", id, "error", err)
		writeInternalError(w, "failed to delete media")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// writeMediaError maps media pipeline errors to HTTP responses.
func (s *Server) writeMediaError(w http.ResponseWriter, err error, deviceID string) {
	switch {
	case errors.Is(err, media.ErrMissingDeviceID):
		writeValidationError(w, "device_id is required")
	case errors.Is(err, media.ErrMissingPayload):
		writeValidationError(w, "payload is required")
	case errors.Is(err, media.ErrShortSampleBuffer):
		writeValidationError(w, "sample buffer shorter than frame size")
	case errors.Is(err, media.ErrVideoTooLarge):
		writePayloadTooLarge(w, "video exceeds the size limit")
	default:
		s.logger.Error("media ingestion failed", "device_id", deviceID, "error", err)
		writeInternalError(w, "failed to store media")
	}
}
