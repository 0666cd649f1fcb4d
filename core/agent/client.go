// Package agent is the client for the remote analysis service. The
// service's reasoning is a black box; this package only owns the wire
// contract and the extraction of the human-readable report from the
// response.
package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"cloudcost/internal/config"
	"cloudcost/internal/errors"
)

// Client calls the remote analysis service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the configured service. Analysis calls
// can run for minutes, so the timeout comes from config rather than a
// short transport default.
func NewClient(cfg config.AgentConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Request is the analysis request body.
type Request struct {
	ProjectID string `json:"project_id"`
	Days      int    `json:"days"`
}

// Result is the raw agent output plus the extracted report text.
type Result struct {
	Report      string          `json:"report"`
	AgentResult json.RawMessage `json:"agent_result,omitempty"`
}

// Run submits an analysis for one project and window. Concurrent runs
// are allowed; each call is independent and the caller's context is the
// only cancellation, so the last response wins.
func (c *Client) Run(ctx context.Context, projectID string, days int) (*Result, error) {
	payload, err := json.Marshal(Request{ProjectID: strings.TrimSpace(projectID), Days: days})
	if err != nil {
		return nil, errors.Internal("failed to encode analysis request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/run-agent", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Internal("failed to build analysis request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Network("analysis service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network("failed to read analysis response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return nil, errors.Upstream(fmt.Sprintf("HTTP %d - %s", resp.StatusCode, msg))
	}

	var envelope struct {
		AgentResult json.RawMessage `json:"agent_result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(errors.TypeParsing, "invalid analysis response", err)
	}

	return &Result{
		Report:      ExtractReport(envelope.AgentResult),
		AgentResult: envelope.AgentResult,
	}, nil
}

// ExtractReport concatenates every text part of the agent result with
// blank-line separators. Items without text parts contribute nothing;
// an unparseable result yields an empty report rather than an error.
func ExtractReport(agentResult []byte) string {
	if len(agentResult) == 0 {
		return ""
	}

	var items []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	}
	if err := json.Unmarshal(agentResult, &items); err != nil {
		return ""
	}

	var texts []string
	for _, item := range items {
		for _, part := range item.Content.Parts {
			if part.Text != "" {
				texts = append(texts, part.Text)
			}
		}
	}
	return strings.Join(texts, "\n\n")
}
