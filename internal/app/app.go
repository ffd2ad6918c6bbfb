// Package app orchestrates the Mudra recognition pipeline: camera
// capture, hand landmark detection, gesture classification, stability
// debouncing, and fan-out of confirmed events to the configured sinks.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/eventlog"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/preview"
	"github.com/ayusman/mudra/internal/store"
)

// IdleTimeout is how long after the last motion the capture loop drops
// back to the idle frame rate.
const IdleTimeout = 2 * time.Second

// fpsSmoothing is the EMA weight given to the previous FPS estimate.
const fpsSmoothing = 0.9

// Config holds the application's assembled dependencies and tunables.
type Config struct {
	CameraID        int
	MotionThreshold float64
	StableFrames    int
	Display         bool

	// Store persists sessions and events; nil disables persistence.
	Store *store.Store

	// PluginDir is scanned for action plugins; empty disables them.
	PluginDir string

	// Sinks receive every confirmed gesture event. A sink failure is
	// fatal to the pipeline: losing the event log is not acceptable.
	Sinks []eventlog.Sink

	Logger *logrus.Logger
}

// App runs the recognition pipeline and publishes its state.
type App struct {
	config Config
	log    logrus.FieldLogger

	camera     capture.Camera
	motion     *capture.MotionDetector
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	board statusBoard

	mu          sync.RWMutex
	detector    detector.Detector
	debouncer   *gesture.Debouncer
	enabled     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	sessionID   string
	frames      int
	events      int
	fps         float64
	onConfirmed func(gesture.Event)
}

// New creates an App. It prefers the MediaPipe detector and falls back
// to the mock detector when the sidecar is unavailable.
func New(config Config) (*App, error) {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.MotionThreshold <= 0 {
		config.MotionThreshold = 1.0
	}
	if config.StableFrames <= 0 {
		config.StableFrames = gesture.DefaultStableFrames
	}

	deb, err := gesture.NewDebouncer(config.StableFrames)
	if err != nil {
		return nil, err
	}

	log := config.Logger.WithField("component", "app")

	a := &App{
		config:     config,
		log:        log,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(config.MotionThreshold),
		pluginMgr:  plugin.NewManager(config.PluginDir, config.Logger),
		pluginExec: plugin.NewExecutor(plugin.DefaultTimeout),
		debouncer:  deb,
		enabled:    true,
	}

	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Info("using MediaPipe hand detection")
	} else {
		log.WithError(err).Warn("MediaPipe not available, using mock detector")
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// SetDetector replaces the hand detector. Only valid before Start.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera. Only valid before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetEnabled pauses or resumes classification. While disabled, frames
// are still captured but not classified, and the debouncer is reset so
// a half-accumulated gesture does not fire on resume.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled && !enabled {
		a.debouncer.Reset()
	}
	a.enabled = enabled
	a.board.update(func(s *Status) { s.Enabled = enabled })
}

// IsEnabled reports whether classification is active.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnConfirmed registers a callback invoked for every confirmed event,
// after the sinks have recorded it. Used by the tray.
func (a *App) OnConfirmed(fn func(gesture.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onConfirmed = fn
}

// DiscoverPlugins scans the plugin directory.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Status returns the current published status.
func (a *App) Status() Status {
	return a.board.get()
}

// Snapshot returns the latest annotated frame as JPEG bytes, or nil
// when no frame has been processed yet.
func (a *App) Snapshot() []byte {
	return a.board.getSnapshot()
}

// Start opens the camera, begins a session, and launches the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	a.sessionID = uuid.New().String()
	a.frames = 0
	a.events = 0
	a.fps = 0
	a.debouncer.Reset()

	if a.config.Store != nil {
		sess := &store.Session{ID: a.sessionID, StartedAt: time.Now()}
		if err := a.config.Store.Sessions().Create(sess); err != nil {
			a.camera.Close()
			return fmt.Errorf("create session: %w", err)
		}
	}

	a.board.update(func(s *Status) {
		*s = Status{Running: true, Enabled: a.enabled, SessionID: a.sessionID,
			Candidate: gesture.None, Confirmed: gesture.None, State: a.debouncer.State().String()}
	})

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.log.WithField("session", a.sessionID).Info("recognition pipeline started")
	return nil
}

// Stop halts the pipeline, finishes the session, and releases the
// camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config.Store != nil && a.sessionID != "" {
		if err := a.config.Store.Sessions().Finish(a.sessionID, time.Now(), a.frames, a.events); err != nil {
			a.log.WithError(err).Error("failed to finish session")
		}
	}

	if err := a.camera.Close(); err != nil {
		a.log.WithError(err).Error("error closing camera")
	}
	a.motion.Close()
	if err := a.detector.Close(); err != nil {
		a.log.WithError(err).Error("error closing detector")
	}

	a.board.update(func(s *Status) { s.Running = false })
	a.log.WithField("session", a.sessionID).Info("recognition pipeline stopped")
}

// ProcessFrame runs one frame through detection, classification and
// debouncing, firing the sinks on a confirmed event. frame may be nil
// when driven without a camera; at is the frame capture time. The
// returned error is fatal to the pipeline (a sink failed).
func (a *App) ProcessFrame(frame *gocv.Mat, at time.Time) error {
	a.mu.Lock()
	a.frames++
	frameNo := a.frames
	det := a.detector
	a.mu.Unlock()

	candidate := gesture.None
	var feats gesture.Features
	var hand *detector.HandLandmarks

	hands, err := det.Detect(frame)
	switch {
	case err != nil:
		// Recoverable per-frame failure: classify as no gesture.
		a.log.WithError(err).Debug("detector error")
		a.board.update(func(s *Status) { s.DetectorErrors++ })
	case len(hands) == 0:
		a.board.update(func(s *Status) { s.NoHandFrames++ })
	default:
		hand = &hands[0]
		var ok bool
		feats, ok = gesture.Extract(hand.Points[:], hand.Handedness)
		if !ok {
			a.board.update(func(s *Status) { s.DegradedFrames++ })
		} else {
			candidate = gesture.Classify(feats)
			if candidate == gesture.None {
				a.board.update(func(s *Status) { s.UnmatchedFrames++ })
			}
		}
	}

	a.mu.Lock()
	ev, confirmed := a.debouncer.Advance(candidate, at, frameNo)
	lastEmitted := a.debouncer.LastEmitted()
	streak := a.debouncer.Count()
	state := a.debouncer.State().String()
	a.mu.Unlock()

	if confirmed {
		if err := a.emit(ev); err != nil {
			return err
		}
	}

	a.board.update(func(s *Status) {
		s.Frame = frameNo
		s.Candidate = candidate
		s.Confirmed = lastEmitted
		s.Streak = streak
		s.State = state
		s.Features = feats
		s.HandSeen = hand != nil
	})

	if frame != nil && !frame.Empty() {
		a.annotate(frame, hand, feats, candidate, lastEmitted)
	}

	return nil
}

// emit fans a confirmed event out to the sinks, the store, bound
// plugins and the confirmed-event callback.
func (a *App) emit(ev gesture.Event) error {
	a.mu.Lock()
	a.events++
	sessionID := a.sessionID
	onConfirmed := a.onConfirmed
	a.mu.Unlock()

	a.log.WithFields(logrus.Fields{
		"gesture": ev.Label,
		"frame":   ev.Frame,
		"session": sessionID,
	}).Info("gesture confirmed")

	for _, sink := range a.config.Sinks {
		if err := sink.Record(ev); err != nil {
			return fmt.Errorf("record event: %w", err)
		}
	}

	if a.config.Store != nil && sessionID != "" {
		rec := &store.Event{SessionID: sessionID, Label: string(ev.Label), Frame: ev.Frame, At: ev.At}
		if err := a.config.Store.Events().Append(rec); err != nil {
			a.log.WithError(err).Error("failed to persist event")
		}
	}

	a.board.update(func(s *Status) { s.Events++ })

	a.runBindings(ev, sessionID)

	if onConfirmed != nil {
		onConfirmed(ev)
	}
	return nil
}

// runBindings executes every enabled plugin binding for the event's
// label. Plugins run in the background so a slow action cannot stall
// the frame loop.
func (a *App) runBindings(ev gesture.Event, sessionID string) {
	if a.config.Store == nil {
		return
	}

	bindings, err := a.config.Store.Bindings().ListByLabel(string(ev.Label))
	if err != nil {
		a.log.WithError(err).Error("failed to list bindings")
		return
	}

	for _, b := range bindings {
		b := b
		go func() {
			plug, err := a.pluginMgr.Get(b.PluginName)
			if err != nil {
				a.log.WithError(err).WithField("plugin", b.PluginName).Warn("bound plugin not found")
				return
			}

			req := &plugin.Request{
				Action:    b.ActionName,
				Gesture:   string(ev.Label),
				Frame:     ev.Frame,
				At:        ev.At,
				SessionID: sessionID,
				Config:    b.Config,
			}

			resp, err := a.pluginExec.Execute(context.Background(), plug, req)
			if err != nil {
				a.log.WithError(err).WithField("plugin", b.PluginName).Error("plugin execution failed")
				return
			}
			if !resp.Success {
				a.log.WithFields(logrus.Fields{
					"plugin": b.PluginName,
					"error":  resp.Error,
				}).Warn("plugin reported failure")
			}
		}()
	}
}

// annotate draws the overlay on the frame and publishes it as the
// latest JPEG snapshot for the monitor server.
func (a *App) annotate(frame *gocv.Mat, hand *detector.HandLandmarks, feats gesture.Features, candidate, confirmed gesture.Label) {
	a.mu.RLock()
	fps := a.fps
	a.mu.RUnlock()

	preview.Draw(frame, preview.Overlay{
		Hand:      hand,
		Features:  feats,
		Candidate: candidate,
		Confirmed: confirmed,
		FPS:       fps,
	})

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		a.log.WithError(err).Debug("failed to encode snapshot")
		return
	}
	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())
	buf.Close()
	a.board.setSnapshot(jpeg)
	a.board.update(func(s *Status) { s.FPS = fps })
}

// observeFPS folds one frame's processing time into the smoothed FPS
// estimate.
func (a *App) observeFPS(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	inst := 1.0 / elapsed.Seconds()

	a.mu.Lock()
	if a.fps == 0 {
		a.fps = inst
	} else {
		a.fps = fpsSmoothing*a.fps + (1-fpsSmoothing)*inst
	}
	a.mu.Unlock()
}
