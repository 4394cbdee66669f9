package thing

import (
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// Response is the fully formed result of one sent Request. It references
// the Request that produced it; the Request never references back. A
// Response is either complete or never handed to the caller at all.
type Response struct {
	// Request is the originating request.
	Request *Request

	// StatusCode is the numeric HTTP status.
	StatusCode int

	// Body holds the raw response bytes. Decoded views are derived
	// lazily and never mutate these bytes.
	Body []byte

	// Headers are the response headers.
	Headers http.Header

	// Cookies are the cookies set by the response.
	Cookies []*http.Cookie

	// Encoding is the declared or detected character set name.
	Encoding string

	enc  encoding.Encoding
	text string
}

// NewResponse builds a Response and detects its text encoding from the
// Content-Type header and a prefix of the body.
func NewResponse(req *Request, statusCode int, body []byte, headers http.Header, cookies []*http.Cookie) *Response {
	if headers == nil {
		headers = make(http.Header)
	}
	enc, name, _ := charset.DetermineEncoding(body, headers.Get("Content-Type"))
	return &Response{
		Request:    req,
		StatusCode: statusCode,
		Body:       body,
		Headers:    headers,
		Cookies:    cookies,
		Encoding:   name,
		enc:        enc,
	}
}

// Kind implements Thing.
func (r *Response) Kind() string { return KindResponse }

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the body decoded with the detected encoding. The decoded
// string is memoized; Body itself is left untouched.
func (r *Response) Text() (string, error) {
	if r.text != "" || len(r.Body) == 0 {
		return r.text, nil
	}
	if r.enc == nil {
		r.text = string(r.Body)
		return r.text, nil
	}
	decoded, err := r.enc.NewDecoder().Bytes(r.Body)
	if err != nil {
		return "", fmt.Errorf("decode body as %s: %w", r.Encoding, err)
	}
	r.text = string(decoded)
	return r.text, nil
}

// JSON unmarshals the raw body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode json body: %w", err)
	}
	return nil
}

// String returns a short description for logging.
func (r *Response) String() string {
	return fmt.Sprintf("%d <- %s", r.StatusCode, r.Request)
}
