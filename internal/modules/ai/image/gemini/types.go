package gemini

import (
	"encoding/base64"
	"fmt"
)

const modalityImage = "IMAGE"

type FlashImageRequest struct {
	Model      string
	Prompt     string
	MimeType   string
	ImageBytes []byte
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

// Body is the generateContent payload: the prompt followed by the inline image.
func (f *FlashImageRequest) Body() generateContentRequest {
	return generateContentRequest{
		Contents: []content{
			{
				Role: "user",
				Parts: []part{
					{Text: f.Prompt},
					{InlineData: &inlineData{
						MimeType: f.MimeType,
						Data:     base64.StdEncoding.EncodeToString(f.ImageBytes),
					}},
				},
			},
		},
		GenerationConfig: generationConfig{ResponseModalities: []string{modalityImage}},
	}
}

func (f *FlashImageRequest) Path() string {
	return fmt.Sprintf("v1beta/models/%s:generateContent", f.Model)
}

// FlashImageResponse is the generateContent answer. Both the camelCase and the
// snake_case spelling of inline data are accepted.
type FlashImageResponse struct {
	Candidates []struct {
		Content struct {
			Parts []responsePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type responsePart struct {
	Text            string        `json:"text,omitempty"`
	InlineData      *responseBlob `json:"inlineData,omitempty"`
	InlineDataSnake *responseBlob `json:"inline_data,omitempty"`
}

type responseBlob struct {
	MimeType      string `json:"mimeType,omitempty"`
	MimeTypeSnake string `json:"mime_type,omitempty"`
	Data          string `json:"data"`
}

func (p responsePart) blob() *responseBlob {
	if p.InlineData != nil && p.InlineData.Data != "" {
		return p.InlineData
	}
	if p.InlineDataSnake != nil && p.InlineDataSnake.Data != "" {
		return p.InlineDataSnake
	}
	return nil
}

// FirstImage returns the base64 payload of the first inline image part of the
// first candidate.
func (r *FlashImageResponse) FirstImage() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if b := p.blob(); b != nil {
			return b.Data, true
		}
	}
	return "", false
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
