package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reusedev/render-relay/internal/consts"
	"github.com/reusedev/render-relay/internal/modules/ai/image"
	"github.com/reusedev/render-relay/internal/modules/logs"
	"github.com/reusedev/render-relay/internal/service/http/handler/request"
	"github.com/reusedev/render-relay/internal/service/http/response"
	"github.com/reusedev/render-relay/tools"
)

// multipartMemory is how much of the form is kept in memory before spilling to disk.
const multipartMemory = 32 << 20

type Render struct {
	Relay           *image.Relay
	MaxUploadSize   int64
	TranscodeOutput bool
}

func NewRender(relay *image.Relay, maxUploadSize int64, transcodeOutput bool) *Render {
	return &Render{
		Relay:           relay,
		MaxUploadSize:   maxUploadSize,
		TranscodeOutput: transcodeOutput,
	}
}

// ImageToRender relays prompt + image upstream and answers with the rendered PNG.
func (h *Render) ImageToRender(c *gin.Context) {
	form, errResp := h.bind(c)
	if errResp != nil {
		response.Abort(c, errResp)
		return
	}
	if err := form.Valid(); err != nil {
		var validErr *response.Error
		if !errors.As(err, &validErr) {
			validErr = response.MissingInput
		}
		response.Abort(c, validErr)
		return
	}

	ctx := c.Request.Context()
	data, err := h.Relay.Do(ctx, form.ImageRequest())
	if err != nil {
		var upstreamErr *image.UpstreamError
		switch {
		case errors.Is(err, image.ErrNoImage):
			response.Abort(c, response.EmptyUpstreamResult)
		case errors.As(err, &upstreamErr):
			response.Abort(c, response.UpstreamError(upstreamErr.Error()))
		default:
			response.Abort(c, response.UpstreamError(err.Error()))
		}
		return
	}

	if h.TranscodeOutput {
		png, err := tools.EnsurePNG(data)
		if err != nil {
			logs.FromContext(ctx).Warn().Err(err).Str("detected", tools.DetectImageType(data)).
				Msg("upstream image could not be converted to png, sending as is")
		} else {
			data = png
		}
	}

	c.Header("Content-Disposition", `inline; filename="`+consts.RenderFileName+`"`)
	c.Data(http.StatusOK, consts.MimePNG.String(), data)
}

// bind reads the multipart form. A body that is not multipart at all counts as missing input.
func (h *Render) bind(c *gin.Context) (*request.RenderImage, *response.Error) {
	err := c.Request.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) && !errors.Is(err, http.ErrMissingBoundary) {
		if tooLarge(err) {
			return nil, response.PayloadTooLarge
		}
		logs.FromContext(c.Request.Context()).Warn().Err(err).Msg("parse multipart form")
		return nil, response.MissingInput
	}
	form := &request.RenderImage{}
	if c.Request.MultipartForm == nil {
		return form, nil
	}
	if v := c.Request.MultipartForm.Value["prompt"]; len(v) > 0 {
		form.Prompt = v[0]
	}
	files := c.Request.MultipartForm.File["image"]
	if len(files) == 0 {
		return form, nil
	}
	header := files[0]
	if header.Size > h.MaxUploadSize {
		return nil, response.PayloadTooLarge
	}
	data, err := readFile(header)
	if err != nil {
		if tooLarge(err) {
			return nil, response.PayloadTooLarge
		}
		logs.FromContext(c.Request.Context()).Warn().Err(err).Msg("read uploaded image")
		return nil, response.MissingInput
	}
	form.Image = data
	form.FileName = header.Filename
	form.DeclaredType = header.Header.Get("Content-Type")
	return form, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
