// Package web exposes the gaze engine over HTTP for the calibration
// frontend: health, gaze query, calibration and text extraction, plus a
// live websocket gaze stream.
package web

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/gazekit/go-gaze/pkg/gaze"
	"github.com/gazekit/go-gaze/pkg/hub"
)

// Fallback gaze returned while no trained model exists: roughly where a
// reader looks on an idle page, slightly above the geometric center.
const (
	FallbackX = 0.5
	FallbackY = 0.4
)

// streamInterval is the publish rate of the live gaze stream.
const streamInterval = 100 * time.Millisecond

// GazeService is the tracker surface the transport needs.
type GazeService interface {
	ResetCalibration()
	AddCalibrationSample(target gaze.Point) error
	Gaze() (gaze.Point, bool)
	IsCalibrated() bool
	SampleCount() int
}

// TextExtractor runs OCR on an image.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte, lang string) (string, error)
}

// Server is the HTTP transport over the gaze engine.
type Server struct {
	app     *fiber.App
	tracker GazeService
	ocr     TextExtractor

	gazeHub *hub.Hub
	stop    chan struct{}
}

// NewServer creates the transport over the given tracker and extractor.
func NewServer(tracker GazeService, extractor TextExtractor) *Server {
	s := &Server{
		tracker: tracker,
		ocr:     extractor,
		gazeHub: hub.New("gaze"),
		stop:    make(chan struct{}),
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-gaze",
		DisableStartupMessage: true,
	})

	// The calibration frontend runs on a different origin.
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)
	app.Get("/gaze", s.handleGaze)
	app.Post("/calibrate/start", s.handleCalibrateStart)
	app.Post("/calibrate/point", s.handleCalibratePoint)
	app.Get("/calibrate/status", s.handleCalibrateStatus)
	app.Post("/ocr", s.handleOCR)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/gaze", websocket.New(s.handleGazeWS))

	s.app = app
	return s
}

// Listen starts the stream hub and serves on the given port, blocking
// until Shutdown.
func (s *Server) Listen(port string) error {
	go s.gazeHub.Run()
	go s.publishLoop()
	return s.app.Listen(":" + port)
}

// publishLoop pushes the current gaze payload to stream clients.
func (s *Server) publishLoop() {
	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.gazeHub.ClientCount() == 0 {
				continue
			}
			s.gazeHub.BroadcastJSON(s.gazePayload())
		}
	}
}

// Shutdown gracefully stops the server, the stream publisher and the
// hub loop.
func (s *Server) Shutdown() error {
	close(s.stop)
	s.gazeHub.Stop()
	return s.app.Shutdown()
}

// App returns the underlying fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}
