package tools

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

// DetectImageType sniffs the media type from the payload itself.
func DetectImageType(data []byte) string {
	return mimetype.Detect(data).String()
}

// EnsurePNG returns PNG bytes. PNG input is returned untouched, anything the
// image decoders understand (jpeg, gif, webp, bmp, tiff) is re-encoded.
func EnsurePNG(data []byte) ([]byte, error) {
	if mimetype.Detect(data).Is("image/png") {
		return data, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
