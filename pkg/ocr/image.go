package ocr

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeImagePayload decodes a base64 image as sent by browser clients.
// Data URLs ("data:image/png;base64,....") are accepted and stripped to
// their payload before decoding.
func DecodeImagePayload(b64 string) ([]byte, error) {
	if strings.HasPrefix(b64, "data:image") {
		if _, rest, ok := strings.Cut(b64, ","); ok {
			b64 = rest
		}
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	return data, nil
}
