package ingest

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"cloudcost/internal/errors"
)

// httpClient is shared across fetches so connections are pooled.
var httpClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Fetch retrieves the raw text of a source, which may be a local file
// path or an HTTP(S) URL. A non-success status or an unreadable file is
// a transport failure; the content itself is never inspected here.
func Fetch(ctx context.Context, pathOrURL string) (string, error) {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return fetchURL(ctx, pathOrURL)
	}

	data, err := os.ReadFile(pathOrURL)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFound("source file", pathOrURL)
		}
		return "", errors.Network("failed to read source file", err).
			WithContext("path", pathOrURL)
	}
	return string(data), nil
}

func fetchURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Network("failed to build source request", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", errors.Network("failed to fetch source", err).
			WithContext("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Newf(errors.TypeNetwork, "failed to fetch source: status %d", resp.StatusCode).
			WithContext("url", url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Network("failed to read source body", err)
	}
	return string(body), nil
}
