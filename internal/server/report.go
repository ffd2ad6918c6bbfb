package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// handleReport renders a bar chart of confirmed gestures per label,
// optionally scoped to one session with the session query parameter.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")

	counts, err := s.config.Store.Events().CountByLabel(sessionID)
	if err != nil {
		http.Error(w, "Failed to aggregate events", http.StatusInternalServerError)
		return
	}

	labels := make([]string, 0, len(counts))
	values := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		labels = append(labels, c.Label)
		values = append(values, opts.BarData{Value: c.Count})
	}

	subtitle := "all sessions"
	if sessionID != "" {
		subtitle = fmt.Sprintf("session %s", sessionID)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Mudra Gesture Report"}),
		charts.WithTitleOpts(opts.Title{Title: "Recognized Gestures", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("events", values)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
