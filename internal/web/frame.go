package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rasgbd/rasgbd/internal/frame"
)

// frameSubmitRequest is the POST /frame body shape.
type frameSubmitRequest struct {
	Frame struct {
		Width     uint32 `json:"width"`
		Height    uint32 `json:"height"`
		PixelsB64 string `json:"pixels_b64"`
	} `json:"frame"`
}

var errMalformedBase64 = errors.New("pixels_b64 is not valid base64")
var errPixelCountMismatch = errors.New("decoded pixel byte count does not match width*height*3")

// decodePixelsB64 accepts standard-alphabet base64 with or without
// padding, mirroring the Rust source's DecodePaddingMode::Indifferent.
func decodePixelsB64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, errMalformedBase64
	}
	return b, nil
}

func bytesToPixels(b []byte, width, height uint32) (frame.Frame, error) {
	if uint64(len(b)) != uint64(width)*uint64(height)*3 {
		return frame.Frame{}, errPixelCountMismatch
	}
	pixels := make([]frame.Pixel, width*height)
	for i := range pixels {
		pixels[i] = frame.Pixel{R: b[i*3], G: b[i*3+1], B: b[i*3+2]}
	}
	return frame.New(width, height, pixels)
}

func (s *Server) maxFrameBodyBytes() int64 {
	return int64(s.control.DisplayWidth)*int64(s.control.DisplayHeight)*5 + 1024
}

// handlePostFrame validates and enqueues a submitted frame. Matches the
// routes POST /frame/{unixMicros} and POST /frame/{unixMicros}/channel/{channel}.
func (s *Server) handlePostFrame(w http.ResponseWriter, r *http.Request) {
	channel, err := parseChannel(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	unixMicros, err := parseUnixMicros(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	body, err := decompressBody(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("decompressing body: %w", err))
		return
	}
	defer body.Close()

	limited := http.MaxBytesReader(w, body, s.maxFrameBodyBytes())
	raw, err := io.ReadAll(limited)
	if err != nil {
		httpError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body: %w", err))
		return
	}

	var req frameSubmitRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("malformed request body: %w", err))
		return
	}

	decoded, err := decodePixelsB64(req.Frame.PixelsB64)
	if err != nil {
		httpError(w, http.StatusUnprocessableEntity, err)
		return
	}

	f, err := bytesToPixels(decoded, req.Frame.Width, req.Frame.Height)
	if err != nil {
		httpError(w, http.StatusNotAcceptable, err)
		return
	}

	if req.Frame.Width > s.control.DisplayWidth || req.Frame.Height > s.control.DisplayHeight {
		httpError(w, http.StatusBadRequest, fmt.Errorf("frame %dx%d exceeds panel %dx%d",
			req.Frame.Width, req.Frame.Height, s.control.DisplayWidth, s.control.DisplayHeight))
		return
	}

	if err := s.control.OnFrameReceived(channel, unixMicros, f); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// handleHeadFrame answers a supersession probe. Matches the routes
// HEAD /frame/{unixMicros} and HEAD /frame/{unixMicros}/channel/{channel}.
func (s *Server) handleHeadFrame(w http.ResponseWriter, r *http.Request) {
	channel, err := parseChannel(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	unixMicros, err := parseUnixMicros(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	limited := http.MaxBytesReader(w, r.Body, 1024)
	if _, err := io.Copy(io.Discard, limited); err != nil {
		httpError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	s.writeDisplayHeaders(w)
	if s.control.OnFrameSupersededCheck(channel, unixMicros) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) writeDisplayHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Display-Width", fmt.Sprintf("%d", s.control.DisplayWidth))
	h.Set("Display-Height", fmt.Sprintf("%d", s.control.DisplayHeight))
	h.Set("Display-FPS", fmt.Sprintf("%g", s.control.DisplayFPS))
}
