package httpx

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxConnsPerHost     = 64
	DefaultMaxIdleConnDuration = 30 * time.Second
	DefaultMaxResponseBodySize = 16 << 20
)

type clientSettings struct {
	timeout         time.Duration
	maxConnsPerHost int
	userAgent       string
}

type FastHTTPClientOption func(*clientSettings)

func WithTimeout(timeout time.Duration) FastHTTPClientOption {
	return func(s *clientSettings) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func WithMaxConnsPerHost(n int) FastHTTPClientOption {
	return func(s *clientSettings) {
		if n > 0 {
			s.maxConnsPerHost = n
		}
	}
}

// WithUserAgent sets the User-Agent sent when the request carries none.
func WithUserAgent(userAgent string) FastHTTPClientOption {
	return func(s *clientSettings) { s.userAgent = userAgent }
}

// FastHTTPClient serves the net/http shaped Client interface from a pooled
// fasthttp client. Response bodies come back already decompressed.
type FastHTTPClient struct {
	client   *fasthttp.Client
	settings clientSettings
}

func NewFastHTTPClient(opts ...FastHTTPClientOption) Client {
	s := clientSettings{timeout: DefaultTimeout, maxConnsPerHost: DefaultMaxConnsPerHost}
	for _, opt := range opts {
		opt(&s)
	}
	return &FastHTTPClient{
		settings: s,
		client: &fasthttp.Client{
			MaxConnsPerHost:     s.maxConnsPerHost,
			MaxIdleConnDuration: DefaultMaxIdleConnDuration,
			MaxResponseBodySize: DefaultMaxResponseBodySize,
			ReadTimeout:         s.timeout,
			WriteTimeout:        s.timeout,
		},
	}
}

func (c *FastHTTPClient) Do(req *http.Request) (*http.Response, error) {
	out := fasthttp.AcquireRequest()
	in := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(out)
	defer fasthttp.ReleaseResponse(in)

	if err := c.fill(out, req); err != nil {
		return nil, err
	}
	if err := c.client.DoDeadline(out, in, c.deadline(req)); err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	return toHTTPResponse(req, in)
}

func (c *FastHTTPClient) fill(out *fasthttp.Request, req *http.Request) error {
	out.SetRequestURI(req.URL.String())
	out.Header.SetMethod(req.Method)
	if req.Host != "" {
		out.Header.SetHost(req.Host)
	}
	for name, values := range req.Header {
		for _, v := range values {
			out.Header.Add(name, v)
		}
	}
	if len(out.Header.Peek(fasthttp.HeaderUserAgent)) == 0 && c.settings.userAgent != "" {
		out.Header.SetUserAgent(c.settings.userAgent)
	}
	if len(out.Header.Peek(fasthttp.HeaderAcceptEncoding)) == 0 {
		out.Header.Set(fasthttp.HeaderAcceptEncoding, AcceptEncoding)
	}

	if req.Body == nil {
		return nil
	}
	defer req.Body.Close()
	payload, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	out.SetBodyRaw(payload)
	return nil
}

// deadline is the earlier of the client timeout and the request context's.
func (c *FastHTTPClient) deadline(req *http.Request) time.Time {
	limit := time.Now().Add(c.settings.timeout)
	if ctxDeadline, ok := req.Context().Deadline(); ok && ctxDeadline.Before(limit) {
		return ctxDeadline
	}
	return limit
}

// toHTTPResponse copies everything it needs out of in, which goes back to
// the pool once Do returns.
func toHTTPResponse(req *http.Request, in *fasthttp.Response) (*http.Response, error) {
	encoding := string(in.Header.Peek(fasthttp.HeaderContentEncoding))
	body, decoded, err := DecodeBody(encoding, append([]byte(nil), in.Body()...))
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	in.Header.VisitAll(func(k, v []byte) {
		header.Add(string(k), string(v))
	})
	if decoded {
		header.Del(fasthttp.HeaderContentEncoding)
		header.Set(fasthttp.HeaderContentLength, strconv.Itoa(len(body)))
	}

	code := in.StatusCode()
	return &http.Response{
		Status:        strconv.Itoa(code) + " " + http.StatusText(code),
		StatusCode:    code,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
