// gazed - webcam gaze estimation service
//
// Runs the background tracking loop against the face-mesh sidecar and
// serves the calibration and gaze API over HTTP.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gazekit/go-gaze/internal/config"
	"github.com/gazekit/go-gaze/internal/log"
	"github.com/gazekit/go-gaze/pkg/gaze"
	"github.com/gazekit/go-gaze/pkg/landmarks"
	"github.com/gazekit/go-gaze/pkg/ocr"
	"github.com/gazekit/go-gaze/pkg/web"
)

func main() {
	port := flag.String("port", config.Port(), "HTTP listen port")
	camera := flag.Int("camera", config.CameraID(), "camera device index")
	meshURL := flag.String("mesh-url", config.MeshURL(), "face-mesh sidecar URL")
	ocrURL := flag.String("ocr-url", config.OCRURL(), "OCR engine URL")
	flag.Parse()

	log.Init(config.LogLevel())

	source := landmarks.NewMeshSource(*camera, *meshURL)
	tracker := gaze.NewTracker(gaze.DefaultConfig(), source)

	// A missing camera should not take the API down. The service keeps
	// answering with the fallback gaze until the source comes back.
	if err := tracker.Start(); err != nil {
		log.Warn("tracker not started, serving fallback gaze only",
			"camera", *camera, "error", err)
	}

	srv := web.NewServer(tracker, ocr.NewClient(*ocrURL))

	errCh := make(chan error, 1)
	go func() {
		log.Info("gazed listening", "port", *port, "mesh_url", *meshURL)
		errCh <- srv.Listen(*port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		log.Error("server stopped", "error", err)
	}

	tracker.Stop()
	if err := srv.Shutdown(); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
