package request

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/reusedev/render-relay/internal/consts"
	"github.com/reusedev/render-relay/internal/modules/ai/image"
	"github.com/reusedev/render-relay/internal/service/http/response"
)

// RenderImage is the multipart upload of POST /api/image-to-render.
type RenderImage struct {
	Prompt       string
	Image        []byte
	FileName     string // original file name, only used to infer the type
	DeclaredType string // Content-Type of the multipart file part

	MimeType consts.MimeType // set by Valid
}

// Valid checks presence first and format second, returning
// response.MissingInput or response.UnsupportedFormat.
func (r *RenderImage) Valid() error {
	if r.Prompt == "" || len(r.Image) == 0 || r.FileName == "" {
		return response.MissingInput
	}
	mimeType := ResolveMimeType(r.FileName, r.DeclaredType)
	if !mimeType.Supported() {
		return response.UnsupportedFormat
	}
	r.MimeType = mimeType
	return nil
}

func (r *RenderImage) ImageRequest() image.Request {
	return image.Request{
		Prompt:   r.Prompt,
		Image:    r.Image,
		MimeType: r.MimeType,
	}
}

// ResolveMimeType trusts the file extension when it maps to a known type and
// only falls back to the declared part type otherwise.
func ResolveMimeType(fileName, declared string) consts.MimeType {
	if ext := filepath.Ext(fileName); ext != "" {
		if t := mime.TypeByExtension(strings.ToLower(ext)); t != "" {
			return consts.MimeType(baseType(t))
		}
	}
	return consts.MimeType(baseType(declared))
}

func baseType(t string) string {
	if mediaType, _, err := mime.ParseMediaType(t); err == nil {
		return mediaType
	}
	return strings.ToLower(strings.TrimSpace(t))
}
