package keyword

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SERPSnapshot is the provider-neutral view of one search-results page. Any
// provider exposing organic results, related searches and an ad count can be
// mapped onto it.
type SERPSnapshot struct {
	Organic []OrganicResult
	Related []string
	AdCount int
}

// OrganicResult is one organic entry on the results page.
type OrganicResult struct {
	Title    string
	URL      string
	Snippet  string
	Featured bool // highlighted / featured-snippet marker
}

// SERPSearcher fetches a results-page snapshot for a keyword.
type SERPSearcher interface {
	Search(ctx context.Context, keyword string) (*SERPSnapshot, error)
}

// SERPClient talks to a serper-style search-results API. It is constructed
// once at startup and holds no per-call state.
type SERPClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	market     string
	language   string
}

const serpTimeout = 10 * time.Second

// NewSERPClient builds a client for the given endpoint and market. The
// underlying HTTP client pools connections and bounds every request to ten
// seconds; a timed-out request is abandoned, not retried.
func NewSERPClient(endpoint, apiKey, market, language string) *SERPClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &SERPClient{
		httpClient: &http.Client{
			Timeout:   serpTimeout,
			Transport: transport,
		},
		endpoint: endpoint,
		apiKey:   apiKey,
		market:   market,
		language: language,
	}
}

type serpRequest struct {
	Query    string `json:"q"`
	Market   string `json:"gl,omitempty"`
	Language string `json:"hl,omitempty"`
	Num      int    `json:"num"`
}

type serpPayload struct {
	Organic []struct {
		Title              string `json:"title"`
		Link               string `json:"link"`
		Snippet            string `json:"snippet"`
		SnippetHighlighted bool   `json:"snippetHighlighted"`
	} `json:"organic"`
	RelatedSearches []struct {
		Query string `json:"query"`
	} `json:"relatedSearches"`
	Ads []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"ads"`
}

// Search issues one bounded request for the keyword's results page. Every
// failure mode comes back as an error; callers treat them all as soft.
func (c *SERPClient) Search(ctx context.Context, kw string) (*SERPSnapshot, error) {
	body, err := json.Marshal(serpRequest{
		Query:    kw,
		Market:   c.market,
		Language: c.language,
		Num:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("search provider rejected credentials (misconfigured API key)")
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("search provider quota exhausted")
	case http.StatusForbidden:
		return nil, fmt.Errorf("search provider denied access")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	var payload serpPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	if len(payload.Organic) == 0 {
		return nil, fmt.Errorf("search response contained no organic results")
	}

	snap := &SERPSnapshot{AdCount: len(payload.Ads)}
	for _, o := range payload.Organic {
		snap.Organic = append(snap.Organic, OrganicResult{
			Title:    o.Title,
			URL:      o.Link,
			Snippet:  o.Snippet,
			Featured: o.SnippetHighlighted,
		})
	}
	for _, r := range payload.RelatedSearches {
		if r.Query != "" {
			snap.Related = append(snap.Related, r.Query)
		}
	}
	return snap, nil
}

// hostOf extracts a bare hostname for competitor display.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// isAuthorityHost reports whether a host belongs to a recognized
// high-authority domain.
func isAuthorityHost(host string) bool {
	host = strings.TrimPrefix(host, "www.")
	for _, d := range authorityDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
