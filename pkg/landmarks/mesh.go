package landmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gazekit/go-gaze/internal/httpc"
	"gocv.io/x/gocv"
)

// MeshSource captures webcam frames with OpenCV and runs them through a
// face-mesh detector sidecar speaking JSON over HTTP. The sidecar returns
// one refined landmark list per detected face, best face first.
type MeshSource struct {
	deviceID int
	url      string
	client   *http.Client

	cap *gocv.VideoCapture
	img gocv.Mat
}

// NewMeshSource creates a source reading from the given capture device
// and detecting landmarks via the sidecar at url.
func NewMeshSource(deviceID int, url string) *MeshSource {
	return &MeshSource{
		deviceID: deviceID,
		url:      url,
		// Short timeout: a stalled detector must look like a transient
		// read failure, not a hung sampling loop.
		client: httpc.NewClient(2 * time.Second),
	}
}

// Open acquires the capture device.
func (s *MeshSource) Open() error {
	cap, err := gocv.OpenVideoCapture(s.deviceID)
	if err != nil {
		return fmt.Errorf("landmarks: open camera %d: %w", s.deviceID, err)
	}
	s.cap = cap
	s.img = gocv.NewMat()
	return nil
}

// Next grabs a frame, encodes it as JPEG and asks the sidecar for the
// primary face's landmarks.
func (s *MeshSource) Next() (Frame, bool, error) {
	if s.cap == nil {
		return nil, false, ErrClosed
	}

	if ok := s.cap.Read(&s.img); !ok || s.img.Empty() {
		return nil, false, ErrReadFailed
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, s.img)
	if err != nil {
		return nil, false, fmt.Errorf("landmarks: encode frame: %w", err)
	}
	defer buf.Close()

	return s.detect(buf.GetBytes())
}

// detect posts a JPEG to the sidecar and parses its response.
func (s *MeshSource) detect(jpeg []byte) (Frame, bool, error) {
	resp, err := s.client.Post(s.url, "image/jpeg", bytes.NewReader(jpeg))
	if err != nil {
		return nil, false, fmt.Errorf("landmarks: mesh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("landmarks: mesh detector status %d", resp.StatusCode)
	}

	return parseMeshResponse(resp.Body)
}

// meshResponse is the sidecar wire format.
type meshResponse struct {
	Faces []Frame `json:"faces"`
}

// parseMeshResponse decodes a detector response. An empty face list is the
// explicit no-face signal, not an error.
func parseMeshResponse(r io.Reader) (Frame, bool, error) {
	var mr meshResponse
	if err := json.NewDecoder(r).Decode(&mr); err != nil {
		return nil, false, fmt.Errorf("landmarks: decode mesh response: %w", err)
	}

	if len(mr.Faces) == 0 {
		return nil, false, nil
	}

	// The sidecar orders faces by detection score; the first is primary.
	return mr.Faces[0], true, nil
}

// Close releases the capture device.
func (s *MeshSource) Close() error {
	if s.cap == nil {
		return nil
	}
	s.img.Close()
	err := s.cap.Close()
	s.cap = nil
	return err
}
