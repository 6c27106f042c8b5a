// Package aladin wraps the Aladin ItemSearch API used to seed the
// catalog.
package aladin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.aladin.co.kr/ttb/api/ItemSearch.aspx"

// Item is one book from an ItemSearch response, already normalized:
// cover URL upgraded, category truncated to two levels, pub date
// parsed.
type Item struct {
	Title       string
	Author      string
	Publisher   string
	ISBN13      string
	Cover       string
	Description string
	Category    string
	ReviewRank  *float64
	PubDate     *time.Time
}

// Client calls the Aladin ItemSearch API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	ttbKey     string
}

// ClientOption is a functional option for Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = client }
}

// NewClient creates an Aladin client authenticated by the TTB key.
func NewClient(ttbKey string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		ttbKey:     ttbKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	Items []searchItem `json:"item"`
}

type searchItem struct {
	Title              string          `json:"title"`
	Author             string          `json:"author"`
	Publisher          string          `json:"publisher"`
	PubDate            string          `json:"pubDate"`
	ISBN13             string          `json:"isbn13"`
	Cover              string          `json:"cover"`
	Description        string          `json:"description"`
	CategoryName       string          `json:"categoryName"`
	CustomerReviewRank json.RawMessage `json:"customerReviewRank"`
}

// Search runs one title search page. Books without an ISBN-13 are
// dropped since they cannot be deduplicated. An empty result means the
// query is exhausted.
func (c *Client) Search(ctx context.Context, query string, maxResults, startIndex int) ([]Item, error) {
	params := url.Values{}
	params.Set("ttbkey", c.ttbKey)
	params.Set("Querytype", "Title")
	params.Set("Query", query)
	params.Set("MaxResults", strconv.Itoa(maxResults))
	params.Set("Start", strconv.Itoa(startIndex))
	params.Set("SearchTarget", "Book")
	params.Set("output", "JS")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("aladin: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aladin: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aladin: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("aladin: read response: %w", err)
	}

	var decoded searchResponse
	if err := json.Unmarshal(extractJSONObject(body), &decoded); err != nil {
		return nil, fmt.Errorf("aladin: decode response: %w", err)
	}

	items := make([]Item, 0, len(decoded.Items))
	for _, raw := range decoded.Items {
		if raw.ISBN13 == "" {
			continue
		}
		category := raw.CategoryName
		if category == "" {
			category = "기타"
		}
		items = append(items, Item{
			Title:       raw.Title,
			Author:      raw.Author,
			Publisher:   raw.Publisher,
			ISBN13:      raw.ISBN13,
			Cover:       UpgradeCoverURL(raw.Cover),
			Description: raw.Description,
			Category:    ShortCategoryName(category),
			ReviewRank:  parseReviewRank(raw.CustomerReviewRank),
			PubDate:     ParsePubDate(raw.PubDate),
		})
	}
	return items, nil
}

// extractJSONObject trims the response to the outermost JSON object.
// The endpoint sometimes pads the body with stray text around it.
func extractJSONObject(body []byte) []byte {
	start := strings.IndexByte(string(body), '{')
	end := strings.LastIndexByte(string(body), '}')
	if start < 0 || end < start {
		return body
	}
	return body[start : end+1]
}

var coverSizePattern = regexp.MustCompile(`/(coversum|cover200|cover)/`)

// UpgradeCoverURL rewrites Aladin thumbnail cover URLs to the 500px
// variant. Non-Aladin URLs pass through unchanged.
func UpgradeCoverURL(coverURL string) string {
	if coverURL == "" || !strings.Contains(coverURL, "image.aladin.co.kr") {
		return coverURL
	}
	if strings.Contains(coverURL, "/cover500/") {
		return coverURL
	}
	return coverSizePattern.ReplaceAllString(coverURL, "/cover500/")
}

// ShortCategoryName keeps at most the first two levels of a
// ">"-separated category path.
func ShortCategoryName(category string) string {
	parts := strings.Split(category, ">")
	if len(parts) < 2 {
		return category
	}
	return strings.TrimSpace(parts[0]) + " > " + strings.TrimSpace(parts[1])
}

var pubDateLayouts = []string{
	"Mon, 02 Jan 2006 15:04:05 GMT",
	"2006-01-02",
	"20060102",
}

// ParsePubDate tries the date layouts the endpoint is known to emit.
// Unparseable dates come back nil rather than failing the item.
func ParsePubDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// parseReviewRank tolerates the rank arriving as a number or a quoted
// string.
func parseReviewRank(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &n
		}
	}
	return nil
}
