package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Config drives page fetch behaviour.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	MaxRedirects int
}

// Page is the outcome of a successful fetch. Any HTTP status counts as success.
type Page struct {
	Status    int
	Redirects int
	FinalURL  string
	// Text is the visible text for HTML documents and the raw body otherwise.
	Text string
}

// Fetcher retrieves a page in a single attempt.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (Page, error)
}

// ErrEmptyURL is returned when no target is supplied.
var ErrEmptyURL = errors.New("fetch: empty url")

const (
	defaultTimeout      = 6 * time.Second
	defaultUserAgent    = "Mozilla/5.0 (compatible; media-forensics/1.0)"
	defaultMaxBodyBytes = 2 << 20
	defaultMaxRedirects = 30
)

// Client fetches pages over HTTP without retries.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
}

// NewClient constructs a Client, applying defaults for zero values.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = defaultMaxRedirects
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent:    userAgent,
		maxBodyBytes: maxBody,
	}
}

// Fetch issues one GET request, following redirects, and extracts the page text.
func (c *Client) Fetch(ctx context.Context, target string) (Page, error) {
	if c == nil {
		return Page{}, errors.New("fetch client is nil")
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return Page{}, ErrEmptyURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return Page{}, fmt.Errorf("read body: %w", err)
	}

	page := Page{
		Status:    resp.StatusCode,
		Redirects: countRedirects(resp),
		FinalURL:  resp.Request.URL.String(),
		Text:      string(body),
	}
	if isHTML(resp.Header.Get("Content-Type"), body) {
		page.Text = renderText(string(body))
	}
	return page, nil
}

// countRedirects walks the chain of responses that led to resp.
func countRedirects(resp *http.Response) int {
	count := 0
	for req := resp.Request; req != nil && req.Response != nil; req = req.Response.Request {
		count++
	}
	return count
}

func isHTML(contentType string, body []byte) bool {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// renderText returns the visible text of an HTML document, skipping script and style content.
func renderText(document string) string {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return document
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return b.String()
}
