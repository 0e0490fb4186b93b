package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"fieldglobe/config"
	"fieldglobe/core"
	"fieldglobe/geometry"
	"fieldglobe/internal/logging"
	"fieldglobe/metrics"
	"fieldglobe/rendering/opengl"
	"fieldglobe/rendering/opengl/overlay"
	"fieldglobe/scene"
	"fieldglobe/telemetry"
)

const (
	streamRetryDelay = 5 * time.Second
	hoverMaxDegrees  = 4.0
)

// GLFW must run on the process main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	configDir := flag.String("config", ".", "Directory containing "+config.FileName)
	flag.Parse()

	settings, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fieldglobe: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(os.Stdout, settings.LogLevel, settings.LogPretty)

	if err := run(settings, logger); err != nil {
		logger.Fatal().Err(err).Msg("fieldglobe exited")
	}
}

func run(settings config.Settings, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	collectors, err := metrics.New(reg)
	if err != nil {
		return err
	}

	var servers []*http.Server
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, srv := range servers {
			_ = srv.Shutdown(shutdownCtx)
		}
	}()

	if settings.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		servers = append(servers, serve(settings.Metrics.Listen, mux, "metrics", logger))
	}

	var hub *telemetry.Hub
	if settings.Telemetry.Serve {
		hub = telemetry.NewHub(logger.With().Str("component", "hub").Logger())
		go hub.Run(ctx)
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		servers = append(servers, serve(settings.Telemetry.Listen, mux, "telemetry", logger))
	}

	window, err := opengl.NewWindow(settings.Window.Width, settings.Window.Height, settings.Window.Title, logger)
	if err != nil {
		return err
	}
	defer window.Terminate()

	sched := scene.NewFrameScheduler(logger)
	mgr := scene.NewManager(window.Device(), sched, scene.Options{
		GlobeImage: settings.Assets.GlobeImage,
		BumpImage:  settings.Assets.BumpImage,
		CloudImage: settings.Assets.CloudImage,
		NoClouds:   settings.Assets.CloudImage == "",
		Particles:  settings.Particles.Count,
		Logger:     logger,
		Metrics:    collectors,
	})
	// Scene resources must go before the GL context does.
	defer mgr.Unmount()

	boundary := scene.NewBoundary(mgr, logger)
	if err := mgr.Mount(scene.MountPoint{Width: settings.Window.Width, Height: settings.Window.Height}); err != nil {
		return err
	}

	var hoverLabel string
	window.OnHover = func(hit mgl32.Vec3, ok bool) {
		hoverLabel = describeHover(mgr.Current(), hit, ok)
	}

	snapshots := startTelemetry(ctx, settings.Telemetry, logger)

	fmt.Println("Controls:")
	fmt.Println("  Mouse: Click and drag to rotate")
	fmt.Println("  Scroll: Zoom in/out")
	fmt.Println("  S: Toggle status panel")
	fmt.Println("  R: Reset camera")
	fmt.Println("  ESC: Exit")

	var (
		latest      telemetry.Snapshot
		surface     scene.Surface
		fps         float64
		frameCount  int
		lastFPSTime = time.Now()
		lastTitle   string
	)

	// Main loop
	for !window.ShouldClose() && ctx.Err() == nil {
		window.PollEvents()

		select {
		case snap, ok := <-snapshots:
			if !ok {
				snapshots = nil
				break
			}
			latest = snap
			surface = boundary.Render(snap)
			if hub != nil {
				hub.Publish(snap)
			}
		default:
		}

		sched.RunFrame()
		window.Render(mgr.Scene(), overlay.Status{
			FPS:         fps,
			GlobalIndex: latest.GeomagneticActivity.GlobalIndex,
			KpIndex:     latest.SolarActivity.KpIndex,
			Coherence:   latest.CoherenceData.GlobalCoherence,
			Fallback:    surface.Fallback != nil,
		})

		title := hoverLabel
		if surface.Fallback != nil {
			title = surface.Fallback.Title + ": " + surface.Fallback.Message
		}
		if title != lastTitle {
			window.SetTitleSuffix(title)
			lastTitle = title
		}

		// FPS counter
		frameCount++
		now := time.Now()
		if elapsed := now.Sub(lastFPSTime).Seconds(); elapsed >= 1.0 {
			fps = float64(frameCount) / elapsed
			frameCount = 0
			lastFPSTime = now
		}
	}

	logger.Info().Str("state", mgr.State().String()).Msg("Shutting down")
	return nil
}

// startTelemetry starts the configured snapshot source. The channel closes
// when ctx is done.
func startTelemetry(ctx context.Context, cfg config.TelemetrySettings, logger zerolog.Logger) <-chan telemetry.Snapshot {
	logger = logger.With().Str("component", "telemetry").Str("source", cfg.Source).Logger()

	if cfg.Source == config.SourceWebSocket {
		src := telemetry.NewWebSocketSource(cfg.URL)
		go func() {
			<-ctx.Done()
			_ = src.Close()
		}()
		logger.Info().Str("url", cfg.URL).Msg("Following telemetry stream")
		return telemetry.Follow(ctx, src, streamRetryDelay, logger)
	}

	poller := telemetry.NewPoller(telemetry.NewMockSource(), cfg.Interval, logger)
	go poller.Run(ctx)
	logger.Info().Dur("interval", cfg.Interval).Msg("Polling mock telemetry")
	return poller.Snapshots()
}

func serve(addr string, handler http.Handler, name string, logger zerolog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn().Err(err).Str("server", name).Msg("HTTP server exited")
		}
	}()
	logger.Info().Str("server", name).Str("addr", addr).Msg("Serving")
	return srv
}

// describeHover names the station under the cursor, or the coordinates
// when no station is close.
func describeHover(inst *scene.Instance, hit mgl32.Vec3, ok bool) string {
	if !ok || inst == nil || inst.Globe() == nil {
		return ""
	}
	lat, lng, _ := core.GlobeProjector{Radius: scene.GlobeRadius}.Unproject(core.Cartesian{
		X: float64(hit.X()),
		Y: float64(hit.Y()),
		Z: float64(hit.Z()),
	})
	if p, found := geometry.NearestPoint(inst.Globe().Points(), lat, lng, hoverMaxDegrees); found {
		return fmt.Sprintf("%s: %.0f nT", p.Label, p.Value)
	}
	return fmt.Sprintf("%.1f°, %.1f°", lat, lng)
}
