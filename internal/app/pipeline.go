package app

import (
	"errors"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/preview"
)

// runPipeline is the frame loop. It paces capture with a ticker, uses
// motion only to switch between the idle and active frame rates, and
// classifies every frame regardless of motion so a held gesture keeps
// accumulating stability even in a still scene.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	var window *preview.Window
	if a.config.Display {
		window = preview.NewWindow()
		defer window.Close()
	}

	activeMode := false
	lastMotion := time.Now()

	interval := time.Second / time.Duration(capture.IdleFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			start := time.Now()

			frame, err := a.camera.ReadFrame()
			if err != nil {
				if errors.Is(err, capture.ErrNoMoreFrames) {
					a.log.Info("camera stream ended")
					return
				}
				a.log.WithError(err).Warn("error reading frame")
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)
			if motionDetected {
				lastMotion = start
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(capture.ActiveFPS)
					interval = time.Second / time.Duration(capture.ActiveFPS)
					ticker.Reset(interval)
					a.log.Debug("switched to active frame rate")
				}
			} else if activeMode && time.Since(lastMotion) > IdleTimeout {
				activeMode = false
				a.camera.SetFPS(capture.IdleFPS)
				interval = time.Second / time.Duration(capture.IdleFPS)
				ticker.Reset(interval)
				a.log.Debug("switched to idle frame rate")
			}

			if !a.IsEnabled() {
				frame.Close()
				continue
			}

			err = a.ProcessFrame(frame, start)
			a.observeFPS(time.Since(start))

			if err != nil {
				frame.Close()
				a.log.WithError(err).Error("event sink failed, stopping pipeline")
				return
			}

			if window != nil {
				if !window.Show(frame) {
					frame.Close()
					a.log.Info("preview window closed, stopping pipeline")
					return
				}
			}
			frame.Close()
		}
	}
}
