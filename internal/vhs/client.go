package vhs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"

	"kurswatch/internal/httpx"
)

// WebForms postback field for the "Trefferliste als PDF" export button.
const (
	pdfButtonField = "ctl00$Content$btnPDFTop"
	pdfButtonValue = "Trefferliste als PDF"
)

// ErrNotPDF is returned when the export postback answers with something other
// than a PDF (typically an HTML error page). The raw response is dumped for
// offline inspection before the error is returned.
var ErrNotPDF = errors.New("vhs: expected PDF response")

// Client talks to the VHS WebForms course search. A cookie jar keeps the
// ASP.NET session between the initial GET and the export POST; the identity
// headers are fixed at construction and reused for every request.
type Client struct {
	HTTP           *http.Client
	UserAgent      string
	AcceptLanguage string

	// DebugPath receives the raw body of a non-PDF export response.
	// Empty disables the dump.
	DebugPath string
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		HTTP: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		UserAgent:      "Mozilla/5.0 (compatible; kurswatch/1.0)",
		AcceptLanguage: "de-DE,de;q=0.9,en-US;q=0.8,en;q=0.7",
		DebugPath:      "debug_response.html",
	}
}

// FetchCatalogPDF runs the WebForms flow for one search:
//
//  1. GET the search URL (redirects land on the result list page),
//  2. scrape the hidden form fields out of the HTML,
//  3. POST them back with the PDF button field set, which answers with the
//     result list as a PDF.
//
// Each step is a single attempt; any failure is fatal for the search.
func (c *Client) FetchCatalogPDF(ctx context.Context, searchURL string) ([]byte, error) {
	resp, html, err := httpx.Do(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
		if err != nil {
			return nil, err
		}
		c.setIdentityHeaders(r)
		// Go's transport only transparently handles gzip; offering br means
		// decoding it ourselves below.
		r.Header.Set("Accept-Encoding", "br")
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("vhs: get search page: %w", err)
	}

	html, err = decodeBody(resp, html)
	if err != nil {
		return nil, fmt.Errorf("vhs: decode search page: %w", err)
	}

	// The redirect target (usually CourseList.aspx) is also the postback URL.
	postURL := resp.Request.URL.String()

	payload, err := ExtractHiddenFields(html)
	if err != nil {
		return nil, fmt.Errorf("vhs: parse search page: %w", err)
	}
	payload.Set(pdfButtonField, pdfButtonValue)
	if payload.Has("__EVENTTARGET") {
		payload.Set("__EVENTTARGET", pdfButtonField)
	}
	if payload.Has("__EVENTARGUMENT") {
		payload.Set("__EVENTARGUMENT", "")
	}

	resp, body, err := httpx.Do(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, strings.NewReader(payload.Encode()))
		if err != nil {
			return nil, err
		}
		c.setIdentityHeaders(r)
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.Header.Set("Referer", postURL)
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("vhs: export postback: %w", err)
	}

	ctype := strings.ToLower(resp.Header.Get("Content-Type"))
	disp := strings.ToLower(resp.Header.Get("Content-Disposition"))
	if !strings.Contains(ctype, "pdf") && !strings.Contains(disp, "attachment") {
		c.dumpDebugResponse(body)
		return nil, fmt.Errorf("%w, got content-type=%q content-disposition=%q snippet=%s",
			ErrNotPDF, ctype, disp, httpx.Snippet(body, 800))
	}

	return body, nil
}

// ExtractHiddenFields pulls every named hidden input out of a WebForms page.
// That covers __VIEWSTATE, __EVENTVALIDATION and friends, which must be
// echoed back verbatim for the postback to be accepted.
func ExtractHiddenFields(html []byte) (url.Values, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	fields := url.Values{}
	doc.Find(`input[type="hidden"][name]`).Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		value, _ := sel.Attr("value")
		fields.Set(name, value)
	})
	return fields, nil
}

func (c *Client) setIdentityHeaders(r *http.Request) {
	r.Header.Set("User-Agent", c.UserAgent)
	r.Header.Set("Accept-Language", c.AcceptLanguage)
}

func decodeBody(resp *http.Response, body []byte) ([]byte, error) {
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "br") {
		return body, nil
	}
	return io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
}

func (c *Client) dumpDebugResponse(body []byte) {
	if c.DebugPath == "" {
		return
	}
	// Best effort; the dump only exists to make CI logs debuggable.
	_ = os.WriteFile(c.DebugPath, body, 0o644)
}
