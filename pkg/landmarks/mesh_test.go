package landmarks

import (
	"strings"
	"testing"
)

func TestParseMeshResponse_NoFace(t *testing.T) {
	frame, ok, err := parseMeshResponse(strings.NewReader(`{"faces":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no face for empty face list")
	}
	if frame != nil {
		t.Errorf("expected nil frame, got %d points", len(frame))
	}
}

func TestParseMeshResponse_PrimaryFace(t *testing.T) {
	body := `{"faces":[[{"x":0.1,"y":0.2,"z":-0.01},{"x":0.3,"y":0.4,"z":0}],[{"x":0.9,"y":0.9,"z":0}]]}`

	frame, ok, err := parseMeshResponse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a face")
	}
	if len(frame) != 2 {
		t.Fatalf("expected 2 points from the primary face, got %d", len(frame))
	}
	if frame[0].X != 0.1 || frame[0].Y != 0.2 {
		t.Errorf("unexpected first point: %+v", frame[0])
	}
}

func TestParseMeshResponse_Malformed(t *testing.T) {
	_, _, err := parseMeshResponse(strings.NewReader(`{"faces":`))
	if err == nil {
		t.Error("expected error for truncated response")
	}
}

func TestFrame_Complete(t *testing.T) {
	if Frame(make([]Point, MeshSize-1)).Complete() {
		t.Error("frame below mesh size should not be complete")
	}
	if !Frame(make([]Point, MeshSize)).Complete() {
		t.Error("full mesh should be complete")
	}
}

func TestMockSource_Lifecycle(t *testing.T) {
	src := NewMockSource()

	if err := src.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	if !src.Opened() {
		t.Error("expected Opened after Open")
	}

	_, ok, err := src.Next()
	if err != nil || ok {
		t.Errorf("default Next should report no face, got ok=%v err=%v", ok, err)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, _, err := src.Next(); err != ErrClosed {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
}
