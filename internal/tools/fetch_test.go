package tools

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPageExtractsArticleAsMarkdown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><script>evil()</script></head><body>
			<nav>menu</nav>
			<article><h1>Listing</h1><p>Two rooms, <strong>warm</strong> rent.</p></article>
			<footer>legal</footer>
		</body></html>`))
	}))
	defer server.Close()

	tool := NewFetchPageTool()
	tool.SetLogWriter(io.Discard)

	out, err := tool.Execute(context.Background(), map[string]any{"url": server.URL})
	require.NoError(t, err)
	assert.Contains(t, out, "# Listing")
	assert.Contains(t, out, "**warm**")
	assert.NotContains(t, out, "menu")
	assert.NotContains(t, out, "legal")
	assert.NotContains(t, out, "evil")
}

func TestFetchPageFallsBackToBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><p>plain page</p></body></html>`))
	}))
	defer server.Close()

	tool := NewFetchPageTool()
	tool.SetLogWriter(io.Discard)

	out, err := tool.Execute(context.Background(), map[string]any{"url": server.URL})
	require.NoError(t, err)
	assert.Contains(t, out, "plain page")
}

func TestFetchPageTruncatesLongPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><p>" + strings.Repeat("a", 2*maxPageOutput) + "</p></body></html>"))
	}))
	defer server.Close()

	tool := NewFetchPageTool()
	tool.SetLogWriter(io.Discard)

	out, err := tool.Execute(context.Background(), map[string]any{"url": server.URL})
	require.NoError(t, err)
	assert.Len(t, out, maxPageOutput)
}

func TestFetchPageNonOKStatusDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	tool := NewFetchPageTool()
	tool.SetLogWriter(io.Discard)

	out, err := tool.Execute(context.Background(), map[string]any{"url": server.URL})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestFetchPageRejectsNonHTTPURL(t *testing.T) {
	tool := NewFetchPageTool()
	tool.SetLogWriter(io.Discard)

	out, err := tool.Execute(context.Background(), map[string]any{"url": "file:///etc/passwd"})
	require.NoError(t, err)
	assert.Equal(t, "", out)

	out, err = tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
