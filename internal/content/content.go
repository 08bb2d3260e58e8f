// Package content fetches per-character metadata from the external
// content-lookup service, with an on-disk cache so practice can run offline.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CharInfo is the metadata the service returns for one graphic unit.
type CharInfo struct {
	Char    string `json:"char"`
	Pinyin  string `json:"pinyin"`
	Radical string `json:"radical"`
	Strokes int    `json:"strokes"`
}

type sentenceResponse struct {
	Pinyin []string `json:"pinyin"`
}

// Client talks to the content-lookup service. All methods are best-effort
// from the caller's point of view: a session degrades to plain text when a
// lookup fails, it never blocks on one.
type Client struct {
	baseURL  string
	cacheDir string
	client   *http.Client
}

// NewClient builds a client for the given endpoint. cacheDir may be empty
// to disable the on-disk cache.
func NewClient(baseURL, cacheDir string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Char returns metadata for a single graphic unit, from cache when present.
func (c *Client) Char(ctx context.Context, unit string) (CharInfo, error) {
	if unit == "" {
		return CharInfo{}, fmt.Errorf("unit is required")
	}
	if info, ok := c.cachedChar(unit); ok {
		return info, nil
	}
	var info CharInfo
	endpoint := fmt.Sprintf("%s/char/%s", c.baseURL, url.PathEscape(unit))
	if err := c.getJSON(ctx, endpoint, &info); err != nil {
		return CharInfo{}, err
	}
	if info.Char == "" {
		info.Char = unit
	}
	c.storeChar(unit, info)
	return info, nil
}

// Sentence returns per-unit phonetic strings aligned 1:1 with the
// sentence's graphic units.
func (c *Client) Sentence(ctx context.Context, sentence string) ([]string, error) {
	if strings.TrimSpace(sentence) == "" {
		return nil, fmt.Errorf("sentence is required")
	}
	var resp sentenceResponse
	endpoint := fmt.Sprintf("%s/sentence?text=%s", c.baseURL, url.QueryEscape(sentence))
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Pinyin, nil
}

// Phrase resolves the phonetic target for a display phrase: the aligned
// per-unit strings joined with single spaces.
func (c *Client) Phrase(ctx context.Context, phrase string) (string, error) {
	pinyin, err := c.Sentence(ctx, phrase)
	if err != nil {
		return "", err
	}
	if len(pinyin) == 0 {
		return "", fmt.Errorf("no pinyin for phrase")
	}
	return strings.Join(pinyin, " "), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("lookup request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected lookup status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode lookup response: %w", err)
	}
	return nil
}

func (c *Client) cachePath(unit string) string {
	runes := []rune(unit)
	if len(runes) == 0 {
		return ""
	}
	return filepath.Join(c.cacheDir, fmt.Sprintf("U+%04X.json", runes[0]))
}

func (c *Client) cachedChar(unit string) (CharInfo, bool) {
	if c.cacheDir == "" {
		return CharInfo{}, false
	}
	data, err := os.ReadFile(c.cachePath(unit))
	if err != nil {
		return CharInfo{}, false
	}
	var info CharInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return CharInfo{}, false
	}
	return info, true
}

func (c *Client) storeChar(unit string, info CharInfo) {
	if c.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return
	}
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	path := c.cachePath(unit)
	tmpFile, err := os.CreateTemp(c.cacheDir, "char-*.json")
	if err != nil {
		return
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return
	}
	if err := tmpFile.Close(); err != nil {
		return
	}
	_ = os.Rename(tmpPath, path)
}

// Prefetch warms the cache for every distinct unit, returning the units that
// could not be fetched.
func (c *Client) Prefetch(ctx context.Context, units []string) ([]string, error) {
	seen := make(map[string]struct{}, len(units))
	var failed []string
	for _, unit := range units {
		if _, ok := seen[unit]; ok {
			continue
		}
		seen[unit] = struct{}{}
		if _, err := c.Char(ctx, unit); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return failed, err
			}
			failed = append(failed, unit)
		}
	}
	return failed, nil
}
