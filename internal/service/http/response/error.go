package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is the JSON body of every failed request.
type Error struct {
	Kind    string `json:"-"`
	Status  int    `json:"-"`
	Message string `json:"error"`
	Detail  string `json:"detail,omitempty"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

var (
	Unauthorized        = &Error{Kind: "Unauthorized", Status: http.StatusForbidden, Message: "Unauthorized"}
	MissingInput        = &Error{Kind: "MissingInput", Status: http.StatusBadRequest, Message: "prompt or image not provided"}
	UnsupportedFormat   = &Error{Kind: "UnsupportedFormat", Status: http.StatusUnsupportedMediaType, Message: "unsupported image format"}
	PayloadTooLarge     = &Error{Kind: "PayloadTooLarge", Status: http.StatusRequestEntityTooLarge, Message: "image too large"}
	EmptyUpstreamResult = &Error{Kind: "EmptyUpstreamResult", Status: http.StatusInternalServerError, Message: "response received without image"}
	InvalidRoute        = &Error{Kind: "InvalidRoute", Status: http.StatusNotFound, Message: "invalid route"}
)

func UpstreamError(detail string) *Error {
	return &Error{Kind: "UpstreamError", Status: http.StatusInternalServerError, Message: "image generation failed", Detail: detail}
}

func Abort(c *gin.Context, err *Error) {
	c.AbortWithStatusJSON(err.Status, err)
}
