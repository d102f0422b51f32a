package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// maxPageOutput caps the markdown handed back to the assistant; tool
// outputs count against the run's context window.
const maxPageOutput = 8000

// FetchPageTool retrieves one result URL and returns its readable content
// as markdown.
type FetchPageTool struct {
	client    *http.Client
	converter *md.Converter
	logw      io.Writer
}

// NewFetchPageTool creates the fetch_page tool.
func NewFetchPageTool() *FetchPageTool {
	return &FetchPageTool{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		converter: md.NewConverter("", true, nil),
		logw:      os.Stderr,
	}
}

// SetLogWriter redirects diagnostic output. Used by tests.
func (t *FetchPageTool) SetLogWriter(w io.Writer) { t.logw = w }

func (t *FetchPageTool) Name() string { return "fetch_page" }

func (t *FetchPageTool) Description() string {
	return "Fetch a result URL and return its readable content when a single search hit needs to be read in full"
}

func (t *FetchPageTool) Schema() *Schema {
	return NewSchema(t.Name(), t.Description()).
		AddParam("url", "string", "The http(s) URL of the page to fetch", true).
		Build()
}

// Execute fetches the page, strips chrome, and converts the main content to
// markdown. Internal failures degrade to an empty output.
func (t *FetchPageTool) Execute(ctx context.Context, input map[string]any) (string, error) {
	pageURL, ok := input["url"].(string)
	if !ok || !strings.HasPrefix(pageURL, "http") {
		fmt.Fprintf(t.logw, "fetch_page tool: missing or non-http url argument\n")
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		fmt.Fprintf(t.logw, "fetch_page tool: building request: %v\n", err)
		return "", nil
	}

	resp, err := t.client.Do(req)
	if err != nil {
		fmt.Fprintf(t.logw, "fetch_page tool: request failed: %v\n", err)
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(t.logw, "fetch_page tool: unexpected status %d for %s\n", resp.StatusCode, pageURL)
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		fmt.Fprintf(t.logw, "fetch_page tool: parsing page: %v\n", err)
		return "", nil
	}

	doc.Find("script, style, nav, header, footer, aside, noscript").Remove()

	// Prefer the page's article/main region over the whole body.
	sel := doc.Find("article")
	if sel.Length() == 0 {
		sel = doc.Find("main")
	}
	if sel.Length() == 0 {
		sel = doc.Find("body")
	}
	if sel.Length() == 0 {
		return "", nil
	}

	markdown := strings.TrimSpace(t.converter.Convert(sel.First()))
	if len(markdown) > maxPageOutput {
		markdown = markdown[:maxPageOutput]
	}
	return markdown, nil
}
