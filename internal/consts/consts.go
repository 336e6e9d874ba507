package consts

const (
	GeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel  = "gemini-2.0-flash-preview-image-generation"
)

type Transport string

const (
	TransportREST Transport = "rest"
	TransportSDK  Transport = "sdk"
)

func (t Transport) String() string {
	return string(t)
}

func (t Transport) Valid() bool {
	return t == TransportREST || t == TransportSDK
}

const (
	RenderPath       = "/api/image-to-render"
	PrivateKeyHeader = "x-api-key"
	RenderFileName   = "render.png"

	DefaultPort          = "3000"
	DefaultMaxUploadSize = 20 << 20
)

// MimeType is the media type of an uploaded image.
type MimeType string

const (
	MimePNG  MimeType = "image/png"
	MimeJPEG MimeType = "image/jpeg"
	MimeWEBP MimeType = "image/webp"
)

func (m MimeType) String() string {
	return string(m)
}

func (m MimeType) Supported() bool {
	return m == MimePNG || m == MimeJPEG || m == MimeWEBP
}

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeNoImage   Outcome = "no_image"
	OutcomeFailed    Outcome = "failed"
)

func (o Outcome) String() string {
	return string(o)
}
