package server

import (
	"fmt"
	"net/http"
	"time"
)

// streamInterval paces the MJPEG stream at roughly the active capture
// rate.
const streamInterval = 66 * time.Millisecond

// streamHandler serves the annotated camera view as MJPEG. It reads
// the pipeline's published snapshot rather than the camera itself, so
// any number of clients can watch without contending for frames.
type streamHandler struct {
	source Recognizer
}

func newStreamHandler(source Recognizer) *streamHandler {
	return &streamHandler{source: source}
}

func (h *streamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		jpeg := h.source.Snapshot()
		if len(jpeg) == 0 {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		w.Write(jpeg)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
