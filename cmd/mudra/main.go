package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/eventlog"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFile)

	var st *store.Store
	if cfg.DBPath != "" {
		st, err = store.New(cfg.DBPath)
		if err != nil {
			log.WithError(err).Fatal("failed to open history database")
		}
		defer st.Close()
	}

	sink, err := eventlog.NewFileSink(cfg.OutputPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open gesture event log")
	}
	defer sink.Close()

	a, err := app.New(app.Config{
		CameraID:        cfg.CameraID,
		MotionThreshold: cfg.MotionThreshold,
		StableFrames:    cfg.StableFrames,
		Display:         cfg.Display,
		Store:           st,
		PluginDir:       cfg.PluginDir,
		Sinks:           []eventlog.Sink{sink},
		Logger:          log,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize recognizer")
	}

	if cfg.PluginDir != "" {
		if err := a.DiscoverPlugins(); err != nil {
			log.WithError(err).Warn("plugin discovery failed")
		} else {
			log.WithField("count", len(a.PluginManager().List())).Info("plugins discovered")
		}
	}

	if cfg.Addr != "" {
		srv := server.New(server.Config{
			Store:      st,
			Recognizer: a,
			StaticDir:  findWebDir(),
			Logger:     log,
		})
		go func() {
			if err := srv.ListenAndServe(cfg.Addr); err != nil {
				log.WithError(err).Error("monitor server stopped")
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	if err := a.Start(); err != nil {
		log.WithError(err).Fatal("failed to start recognition pipeline")
	}
	defer a.Stop()

	if cfg.Tray {
		runTray(a, cfg.Addr)
		return
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
}

// runTray blocks in the tray loop until the user quits.
func runTray(a *app.App, addr string) {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnQuit(func() {})

	if addr != "" {
		t.OnOpenMonitor(func() { openBrowser("http://localhost" + addr) })
	}

	a.OnConfirmed(func(ev gesture.Event) {
		t.SetLastGesture(string(ev.Label))
	})

	t.Run()
}

// openBrowser opens the URL with the platform launcher.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

// findWebDir searches for the monitor UI directory in common
// locations: relative to the working directory, then ~/.mudra/web.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	webDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(webDir); err == nil && info.IsDir() {
		return webDir
	}
	return ""
}
