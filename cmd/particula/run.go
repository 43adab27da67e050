package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/ayusman/particula/internal/app"
	"github.com/ayusman/particula/internal/capture"
	"github.com/ayusman/particula/internal/config"
	"github.com/ayusman/particula/internal/detector"
	"github.com/ayusman/particula/internal/logger"
	"github.com/ayusman/particula/internal/server"
	"github.com/ayusman/particula/internal/status"
	"github.com/ayusman/particula/internal/store"
	"github.com/ayusman/particula/internal/tray"
)

func runCommand(configPath string, overrides config.Overrides) error {
	cfg, err := config.Load(configPath, overrides)
	if err != nil {
		return err
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	defer logger.Sync()
	log := logger.Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st *store.Store
	if cfg.Journal.Enabled {
		st, err = store.New(cfg.JournalPath())
		if err != nil {
			log.Warn("journal disabled", zap.String("path", cfg.JournalPath()), zap.Error(err))
			st = nil
		} else {
			defer st.Close()
		}
	}

	appCfg := app.Config{Settings: cfg, Store: st}
	if cfg.Capture.Enabled {
		appCfg.Camera = capture.NewCamera(capture.Options{
			Device: cfg.Capture.Camera,
			Width:  cfg.Capture.Width,
			Height: cfg.Capture.Height,
			FPS:    cfg.Capture.DetectFPS,
		})
		d, err := detector.NewMediaPipeDetector(cfg.DetectorSettings())
		if err != nil {
			log.Warn("hand detector unavailable", zap.Error(err))
		} else {
			appCfg.Detector = d
		}
		appCfg.Preview = capture.NewPreview()
	}

	sinks := status.NewFanout(status.NewLogSink(logger.Named("status")))
	appCfg.Status = sinks

	var statusHub *server.StatusHub
	var frames *server.FrameHub
	if cfg.Server.Enabled {
		statusHub = server.NewStatusHub()
		frames = server.NewFrameHub()
		sinks.Add(status.NewChanges(statusHub))
		appCfg.Frames = frames
	}

	var tr *tray.Tray
	if cfg.Tray.Enabled {
		tr = tray.New()
		sinks.Add(tr)
	}

	a, err := app.New(appCfg)
	if err != nil {
		return err
	}

	serverDone := make(chan struct{})
	if cfg.Server.Enabled {
		srv := server.New(server.Config{
			StaticDir: findWebDir(),
			App:       a,
			Store:     st,
			Preview:   appCfg.Preview,
			Status:    statusHub,
			Frames:    frames,
		})
		go func() {
			defer close(serverDone)
			if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
				log.Error("server failed", zap.Error(err))
				stop()
			}
		}()
	} else {
		close(serverDone)
	}

	if err := a.Start(ctx); err != nil {
		return err
	}

	if tr != nil {
		tr.OnToggle(a.SetEnabled)
		tr.OnNext(func() { a.Advance() })
		if cfg.Server.Enabled {
			url := "http://" + browserAddr(cfg.Server.Addr)
			tr.OnOpen(func() {
				if err := openBrowser(url); err != nil {
					log.Warn("could not open browser", zap.String("url", url), zap.Error(err))
				}
			})
		}
		tr.OnQuit(stop)
		go func() {
			<-ctx.Done()
			tr.Quit()
		}()
		// systray needs the main goroutine.
		tr.Run()
		stop()
	} else {
		<-ctx.Done()
	}

	log.Info("shutting down")
	a.Stop()
	if statusHub != nil {
		statusHub.Close()
		frames.Close()
	}
	<-serverDone
	log.Info("stopped", zap.Int64("skipped_detections", a.Skipped()))
	return nil
}

// findWebDir searches for the viewer's static files in "web", "../web",
// "../../web" and ~/.particula/web. Returns "" if none exists.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeWebDir := filepath.Join(config.DataDir(), "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}

// browserAddr turns a listen address into one a browser can open.
func browserAddr(addr string) string {
	if strings.HasPrefix(addr, ":") || strings.HasPrefix(addr, "0.0.0.0:") {
		return "127.0.0.1:" + addr[strings.LastIndex(addr, ":")+1:]
	}
	return addr
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	return cmd.Process.Release()
}
