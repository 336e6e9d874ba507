package gemini

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/reusedev/render-relay/internal/modules/ai/image"
)

// maxErrorBody caps how much of a failed upstream body ends up in error text.
const maxErrorBody = 512

type FlashImageParser struct{}

func NewFlashImageParser() *FlashImageParser {
	return &FlashImageParser{}
}

func (p *FlashImageParser) Parse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &image.UpstreamError{StatusCode: resp.StatusCode, Message: "read upstream response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &image.UpstreamError{StatusCode: resp.StatusCode, Message: statusMessage(resp.StatusCode, body)}
	}

	var ret FlashImageResponse
	if err := jsoniter.Unmarshal(body, &ret); err != nil {
		return nil, &image.UpstreamError{StatusCode: resp.StatusCode, Message: "malformed upstream response", Err: err}
	}
	b64, ok := ret.FirstImage()
	if !ok {
		return nil, image.ErrNoImage
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, &image.UpstreamError{StatusCode: resp.StatusCode, Message: "malformed image data", Err: err}
	}
	return data, nil
}

func statusMessage(statusCode int, body []byte) string {
	var e errorResponse
	if err := jsoniter.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		if e.Error.Status != "" {
			return fmt.Sprintf("upstream returned status %d (%s): %s", statusCode, e.Error.Status, e.Error.Message)
		}
		return fmt.Sprintf("upstream returned status %d: %s", statusCode, e.Error.Message)
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	if text == "" {
		return fmt.Sprintf("upstream returned status %d", statusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", statusCode, text)
}
