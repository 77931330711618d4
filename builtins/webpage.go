// Package builtins provides ready-made functions that can be registered
// on a chat so the model can reach outside the conversation.
package builtins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/sashabaranov/go-openai/jsonschema"

	"chatlab/internal/logger"
	"chatlab/registry"
)

const (
	defaultMaxChars    = 20000
	defaultFetchSecs   = 10
	maxResponseBodyLen = 5 * 1024 * 1024
)

// WebPageArgs are the model-supplied arguments for fetchWebPage.
type WebPageArgs struct {
	URL          string `json:"url"`
	MaxCharCount int    `json:"maxCharCount,omitempty"`
	TimeoutSecs  int    `json:"timeoutSecs,omitempty"`
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// WebPage returns a function definition that fetches a URL and extracts
// its readable text for the model.
func WebPage() registry.FunctionDef {
	return registry.FunctionDef{
		Name:        "fetchWebPage",
		Description: "Fetch a web page and return its readable text content, stripped of markup and boilerplate",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"url": {
					Type:        jsonschema.String,
					Description: "URL of the page to fetch",
				},
				"maxCharCount": {
					Type:        jsonschema.Integer,
					Description: "Maximum number of characters to return (default: 20000)",
				},
				"timeoutSecs": {
					Type:        jsonschema.Integer,
					Description: "Timeout in seconds for the HTTP request (default: 10)",
				},
			},
			Required: []string{"url"},
		},
		Fn: fetchWebPage,
	}
}

func fetchWebPage(ctx context.Context, arguments string) (string, error) {
	var args WebPageArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if args.URL == "" {
		return "", fmt.Errorf("url is required")
	}
	if args.MaxCharCount <= 0 {
		args.MaxCharCount = defaultMaxChars
	}
	if args.TimeoutSecs <= 0 {
		args.TimeoutSecs = defaultFetchSecs
	}

	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(args.TimeoutSecs)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, args.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", args.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch of %s returned status %d", args.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyLen))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	text := extractCleanText(doc)
	if len(text) > args.MaxCharCount {
		logger.Debugf("Truncating page content from %d to %d characters", len(text), args.MaxCharCount)
		text = truncateOnRuneBoundary(text, args.MaxCharCount) + "..."
	}

	logger.Debugf("Fetched %s (%d chars)", args.URL, len(text))
	return text, nil
}

// truncateOnRuneBoundary cuts text to at most max bytes without splitting
// a multi-byte rune.
func truncateOnRuneBoundary(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// extractCleanText pulls the main readable content out of a parsed page.
func extractCleanText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, iframe, header, footer, nav").Remove()

	var mainContent string
	mainSelectors := []string{"main", "article", "#content", ".content", "#main", ".main", ".post", ".entry", "body"}

	for _, selector := range mainSelectors {
		found := false
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			if !found {
				mainContent = s.Text()
				found = true
			}
		})
		if found && len(mainContent) > 200 {
			break
		}
	}

	if len(mainContent) < 200 {
		mainContent = doc.Find("body").Text()
	}

	mainContent = strings.TrimSpace(mainContent)
	return whitespacePattern.ReplaceAllString(mainContent, " ")
}
