package mcpserver

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

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
)

// maxResponseBytes caps how much of an API reply is handed back to the agent.
const maxResponseBytes = 1 << 20

// apiCall is one REST request derived from a tool call.
type apiCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// ProxyHandler forwards tool calls to the certificate REST API.
type ProxyHandler struct {
	apiURL string
	client *http.Client
	logger zerolog.Logger
}

// NewProxyHandler creates a new proxy handler targeting the given API URL.
func NewProxyHandler(apiURL string, timeout time.Duration, logger zerolog.Logger) *ProxyHandler {
	return &ProxyHandler{
		apiURL: strings.TrimRight(apiURL, "/"),
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Do performs call with the bearer token from the MCP request, if any, and
// turns the reply into a tool result. Transport and HTTP errors become error
// results rather than Go errors so the agent sees them.
func (p *ProxyHandler) Do(ctx context.Context, req mcp.CallToolRequest, call apiCall) (*mcp.CallToolResult, error) {
	target := p.apiURL + call.Path
	if len(call.Query) > 0 {
		target += "?" + call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		data, err := json.Marshal(call.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode request: %s", err)), nil
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, call.Method, target, body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build request: %s", err)), nil
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	// Forward the caller's identity-provider token unchanged.
	if auth := req.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		httpReq.Header.Set("Authorization", auth)
	}

	p.logger.Debug().
		Str("method", call.Method).
		Str("path", call.Path).
		Str("tool", req.Params.Name).
		Msg("proxying MCP tool call")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API request failed: %s", err)), nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read response: %s", err)), nil
	}

	if resp.StatusCode >= 400 {
		return mcp.NewToolResultError(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))), nil
	}

	return mcp.NewToolResultText(strings.TrimSpace(string(respBody))), nil
}

// Ping checks that the certificate API answers its liveness probe.
func (p *ProxyHandler) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("build ping: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ping certificate API: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping certificate API: HTTP %d", resp.StatusCode)
	}
	return nil
}
