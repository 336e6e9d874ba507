package image

import (
	"errors"
	"fmt"
)

var ErrNoImage = errors.New("response received without image")

// UpstreamError is any failure of the upstream call itself: transport errors,
// non-2xx statuses and bodies that could not be decoded.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "upstream error"
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// classify folds an arbitrary sender error into ErrNoImage or *UpstreamError.
func classify(err error) error {
	if errors.Is(err, ErrNoImage) {
		return ErrNoImage
	}
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr
	}
	return &UpstreamError{Err: err}
}
