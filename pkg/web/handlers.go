package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/gazekit/go-gaze/internal/log"
	"github.com/gazekit/go-gaze/pkg/gaze"
	"github.com/gazekit/go-gaze/pkg/hub"
	"github.com/gazekit/go-gaze/pkg/ocr"
)

// gazeResponse is the /gaze payload, also streamed over /ws/gaze.
type gazeResponse struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Calibrated bool    `json:"calibrated"`
	Source     string  `json:"source"`
}

// calibratePointRequest uses pointers so missing fields are
// distinguishable from zero.
type calibratePointRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type ocrRequest struct {
	ImageBase64 string `json:"image_base64"`
	Lang        string `json:"lang"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// gazePayload builds the current gaze estimate, falling back to the
// neutral point when no model has been trained or no face was seen.
func (s *Server) gazePayload() gazeResponse {
	if p, ok := s.tracker.Gaze(); ok {
		return gazeResponse{X: p.X, Y: p.Y, Calibrated: s.tracker.IsCalibrated(), Source: "model"}
	}
	return gazeResponse{X: FallbackX, Y: FallbackY, Calibrated: s.tracker.IsCalibrated(), Source: "fallback"}
}

func (s *Server) handleGaze(c *fiber.Ctx) error {
	return c.JSON(s.gazePayload())
}

func (s *Server) handleCalibrateStart(c *fiber.Ctx) error {
	s.tracker.ResetCalibration()
	log.Info("calibration started")
	return c.JSON(fiber.Map{"status": "ready"})
}

func (s *Server) handleCalibratePoint(c *fiber.Ctx) error {
	var req calibratePointRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.X == nil || req.Y == nil || *req.X < 0 || *req.X > 1 || *req.Y < 0 || *req.Y > 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "x and y must be in [0,1]"})
	}

	if err := s.tracker.AddCalibrationSample(gaze.Point{X: *req.X, Y: *req.Y}); err != nil {
		if errors.Is(err, gaze.ErrNoFace) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error("calibration sample failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status":     "captured",
		"samples":    s.tracker.SampleCount(),
		"calibrated": s.tracker.IsCalibrated(),
	})
}

func (s *Server) handleCalibrateStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"samples":    s.tracker.SampleCount(),
		"calibrated": s.tracker.IsCalibrated(),
	})
}

func (s *Server) handleOCR(c *fiber.Ctx) error {
	var req ocrRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	image, err := ocr.DecodeImagePayload(req.ImageBase64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	text, err := s.ocr.ExtractText(c.UserContext(), image, req.Lang)
	if err != nil {
		log.Error("ocr failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"text": text})
}

// handleGazeWS attaches a websocket client to the gaze stream hub. The
// client receives the same payload as GET /gaze at the stream rate.
func (s *Server) handleGazeWS(conn *websocket.Conn) {
	hub.NewClient(s.gazeHub, conn).Run()
}
