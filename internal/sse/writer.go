package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Writer emits server-sent events to an HTTP response.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter sets the event-stream headers on w.
func NewWriter(w http.ResponseWriter) *Writer {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	f, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: f}
}

// Data writes one "data:" event holding v as JSON.
func (s *Writer) Data(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return s.raw(payload)
}

// Done writes the terminating sentinel event.
func (s *Writer) Done() error {
	return s.raw([]byte(DoneSentinel))
}

func (s *Writer) raw(payload []byte) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}
