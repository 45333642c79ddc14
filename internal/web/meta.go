package web

import (
	"encoding/json"
	"net/http"
)

type metaResponse struct {
	Display struct {
		Width  uint32  `json:"width"`
		Height uint32  `json:"height"`
		FPS    float64 `json:"fps"`
	} `json:"display"`
}

// handleMeta reports the panel's fixed dimensions and target frame rate, so
// a producer can size its frames before submitting any.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	var resp metaResponse
	resp.Display.Width = s.control.DisplayWidth
	resp.Display.Height = s.control.DisplayHeight
	resp.Display.FPS = s.control.DisplayFPS

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		httpError(w, http.StatusInternalServerError, err)
	}
}
