package epicycle

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	webTimeout = 10 * time.Second
)

type HTTPClient interface {
	Get(string) (*http.Response, error)
}

// Shared HTTP Client
var sharedHTTPClient = &http.Client{
	Timeout: webTimeout,
	Transport: otelhttp.NewTransport(&http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}),
}

// SingleFetchWithClient handles the messy business of the HTTP connection
// and is testable with dependency injection, called by SingleFetch
func SingleFetchWithClient(url string, c HTTPClient) (int, []byte, error) {
	resp, err := c.Get(url)
	if err != nil {
		slog.Error("Fetch Error", slog.Any("Error", err))
		return 0, nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("Close Error", slog.Any("Error", err))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Could not read body", slog.Any("Error", err))
		return 0, nil, err
	}

	return resp.StatusCode, body, nil
}

// SingleFetch returns the Response Code, raw byte stream body, and error
// using the Shared HTTP Client
func SingleFetch(url string) (int, []byte, error) {
	return SingleFetchWithClient(url, sharedHTTPClient)
}

// LoadConfigURL fetches a JSON config over HTTP
func LoadConfigURL(url string) (*ConfigFile, error) {
	return loadConfigURLWithClient(url, sharedHTTPClient)
}

func loadConfigURLWithClient(url string, c HTTPClient) (*ConfigFile, error) {
	status, body, err := SingleFetchWithClient(url, c)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		slog.Error("Config fetch failed", slog.String("URL", url), slog.Int("status", status))
		return nil, fmt.Errorf("config fetch from %s returned %d", url, status)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("config fetch from %s returned an empty body", url)
	}
	return LoadConfig(bytes.NewReader(body))
}

// LoadConfigLocation picks the loader by looking at /loc/:
// http(s) URLs are fetched, anything else is a local file
func LoadConfigLocation(loc string) (*ConfigFile, error) {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		slog.Info("Fetching config", slog.String("URL", loc))
		return LoadConfigURL(loc)
	}
	return LoadConfigFileName(loc)
}
