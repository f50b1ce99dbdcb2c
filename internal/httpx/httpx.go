package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPError carries status/body for non-2xx responses so callers can log a
// useful snippet without re-reading the body.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, Snippet(e.Body, 900))
}

// Snippet trims a body to a loggable size.
func Snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// Do executes a single request attempt and returns the response together with
// its fully read body. There is deliberately no retry here: a failed fetch is
// fatal for the current run and the scheduler re-runs the whole process on
// its next tick.
//
// The body is always drained (even on error status) so the underlying TCP
// connection can be reused by http.Transport. Non-2xx responses come back as
// *HTTPError.
func Do(ctx context.Context, client *http.Client, buildReq func(context.Context) (*http.Request, error)) (*http.Response, []byte, error) {
	req, err := buildReq(ctx)
	if err != nil {
		return nil, nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}

	body, readErr := readAndClose(resp.Body)
	if readErr != nil {
		return resp, body, readErr
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, body, nil
	}

	return resp, body, &HTTPError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
}

func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}
