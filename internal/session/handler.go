package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"roomMakerAi/internal/intake"
	"roomMakerAi/internal/media"
	"roomMakerAi/internal/redesign"
	"roomMakerAi/internal/styles"
)

// Handler exposes the session over HTTP.
type Handler struct {
	Studio *Studio
	Logger *zap.Logger
}

func (h Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// Styles handles GET /api/styles.
func (h Handler) Styles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"styles": styles.All()})
}

// Get handles GET /api/session.
func (h Handler) Get(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, NewView(h.Studio.Snapshot()))
}

// UploadImage handles POST /api/session/image with a multipart image_file field.
func (h Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(intake.MaxImageBytes + (1 << 20)); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("could not parse form: %v", err))
		return
	}
	file, header, err := r.FormFile("image_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image_file is required")
		return
	}
	defer file.Close()

	state, err := h.Studio.Upload(file, header.Filename, header.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, ErrBusy):
		writeError(w, http.StatusConflict, "A redesign is already in progress.")
		return
	case err != nil:
		writeJSON(w, http.StatusBadRequest, NewView(state))
		return
	}
	writeJSON(w, http.StatusOK, NewView(state))
}

// GetImage handles GET /api/session/image.
func (h Handler) GetImage(w http.ResponseWriter, _ *http.Request) {
	state := h.Studio.Snapshot()
	if state.Image == nil {
		http.Error(w, "no image uploaded", http.StatusNotFound)
		return
	}
	writeBytes(w, state.Image.MIMEType, state.Image.Data)
}

// SelectStyle handles PUT /api/session/style.
func (h Handler) SelectStyle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Style string `json:"style"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	state, err := h.Studio.SelectStyle(req.Style)
	if errors.Is(err, ErrUnknownStyle) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown style %q", strings.TrimSpace(req.Style)))
		return
	}
	writeJSON(w, http.StatusOK, NewView(state))
}

// Generate handles POST /api/session/generate.
func (h Handler) Generate(w http.ResponseWriter, r *http.Request) {
	state, err := h.Studio.Generate(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, NewView(state))
	case errors.Is(err, ErrBusy):
		writeError(w, http.StatusConflict, "A redesign is already in progress.")
	case errors.Is(err, redesign.ErrPrecondition):
		writeJSON(w, http.StatusBadRequest, NewView(state))
	default:
		h.logger().Warn("generate request failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, NewView(state))
	}
}

// GetRender handles GET /api/session/render.
func (h Handler) GetRender(w http.ResponseWriter, _ *http.Request) {
	state := h.Studio.Snapshot()
	if state.Render == nil || len(state.Render.Data) == 0 {
		http.Error(w, "no render available", http.StatusNotFound)
		return
	}
	writeBytes(w, state.Render.MIMEType, state.Render.Data)
}

// Export handles POST /api/session/export.
func (h Handler) Export(w http.ResponseWriter, r *http.Request) {
	res, err := h.Studio.Export(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, res)
	case errors.Is(err, ErrNothingToExport):
		writeError(w, http.StatusConflict, "Generate a redesign before exporting.")
	case errors.Is(err, media.ErrUploaderDisabled):
		writeError(w, http.StatusServiceUnavailable, "Export is not configured.")
	default:
		h.logger().Error("export failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Export failed.")
	}
}

// StreamEvents handles GET /api/session/events as server-sent events.
func (h Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	broker := h.Studio.Broker()
	flusher, ok := w.(http.Flusher)
	if broker == nil || !ok {
		http.Error(w, "streaming unsupported", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := broker.Subscribe()
	defer broker.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", evt.Seq, evt.Type, payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeBytes(w http.ResponseWriter, mimeType string, data []byte) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}
