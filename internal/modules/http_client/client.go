package http_client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

type HttpClient struct {
	HttpClient *http.Client
}

type RequestOption func(options *RequestOptions)

type RequestOptions struct {
	body   any
	header http.Header
	ctx    context.Context
}

func WithBody(body any) RequestOption {
	return func(c *RequestOptions) {
		c.body = body
	}
}

func WithHeader(key, value string) RequestOption {
	return func(c *RequestOptions) {
		c.header.Set(key, value)
	}
}

func WithContext(ctx context.Context) RequestOption {
	return func(c *RequestOptions) {
		c.ctx = ctx
	}
}

// NewWithTimeout builds a client with its own http.Client. A zero timeout keeps
// the transport default, which never gives up on its own.
func NewWithTimeout(timeout time.Duration) *HttpClient {
	return &HttpClient{
		HttpClient: &http.Client{Timeout: timeout},
	}
}

// NewRequest builds a request. A body that is not an io.Reader is sent as JSON.
func (c *HttpClient) NewRequest(method string, url string, option ...RequestOption) (*http.Request, error) {
	options := &RequestOptions{header: http.Header{}, ctx: context.Background()}
	for _, opt := range option {
		opt(options)
	}
	var body io.Reader
	if options.body != nil {
		switch v := options.body.(type) {
		case io.Reader:
			body = v
		default:
			data, err := jsoniter.Marshal(v)
			if err != nil {
				return nil, err
			}
			body = bytes.NewBuffer(data)
			if options.header.Get("Content-Type") == "" {
				options.header.Set("Content-Type", "application/json")
			}
		}
	}
	req, err := http.NewRequestWithContext(options.ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if options.header != nil {
		req.Header = options.header
	}
	return req, nil
}

func (c *HttpClient) Do(req *http.Request) (*http.Response, error) {
	return c.HttpClient.Do(req)
}
