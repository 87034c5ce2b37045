package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolDef describes one tool and how its arguments map to an API call.
type toolDef struct {
	name        string
	description string
	readOnly    bool
	destructive bool
	params      []mcp.ToolOption
	build       func(args map[string]any) (apiCall, error)
}

var catalog = []toolDef{
	{
		name:        "lookup_credential",
		description: "Look up a certificate by UUID, 4-digit certificate code or slug. Revoked certificates are returned with is_revoked set. Requires a mentor or admin token.",
		readOnly:    true,
		params: []mcp.ToolOption{
			mcp.WithString("key", mcp.Required(), mcp.Description("Certificate UUID, code or slug")),
		},
		build: func(args map[string]any) (apiCall, error) {
			key, err := requireString(args, "key")
			if err != nil {
				return apiCall{}, err
			}
			return apiCall{Method: http.MethodGet, Path: "/api/v1/credentials/" + url.PathEscape(key)}, nil
		},
	},
	{
		name:        "verify_credential",
		description: "Check the public credential page for a slug. Revoked or unknown certificates report not found.",
		readOnly:    true,
		params: []mcp.ToolOption{
			mcp.WithString("slug", mcp.Required(), mcp.Description("Certificate slug, e.g. jane-doe-lca-foundations")),
		},
		build: func(args map[string]any) (apiCall, error) {
			slug, err := requireString(args, "slug")
			if err != nil {
				return apiCall{}, err
			}
			return apiCall{Method: http.MethodGet, Path: "/api/v1/verify/" + url.PathEscape(slug)}, nil
		},
	},
	{
		name:        "list_certificates",
		description: "List certificates, optionally filtered by holder or course. Results are paginated with limit and cursor.",
		readOnly:    true,
		params: []mcp.ToolOption{
			mcp.WithString("user_id", mcp.Description("Holder user ID")),
			mcp.WithString("course_id", mcp.Description("Course ID")),
			mcp.WithString("status", mcp.Description("Filter by standing"), mcp.Enum("active", "revoked")),
			mcp.WithString("search", mcp.Description("Match holder name, title or certificate code")),
			mcp.WithNumber("limit", mcp.Description("Page size, at most 200")),
			mcp.WithString("cursor", mcp.Description("next_cursor from the previous page")),
		},
		build: func(args map[string]any) (apiCall, error) {
			q := url.Values{}
			for _, name := range []string{"user_id", "course_id", "status", "search", "cursor"} {
				if v := optionalString(args, name); v != "" {
					q.Set(name, v)
				}
			}
			if limit, ok := optionalInt(args, "limit"); ok {
				q.Set("limit", strconv.Itoa(limit))
			}
			return apiCall{Method: http.MethodGet, Path: "/api/v1/certificates", Query: q}, nil
		},
	},
	{
		name:        "revoke_certificate",
		description: "Revoke a certificate so its public credential page stops resolving.",
		destructive: true,
		params: []mcp.ToolOption{
			mcp.WithString("id", mcp.Required(), mcp.Description("Certificate UUID")),
			mcp.WithString("reason", mcp.Description("Why the certificate is revoked")),
		},
		build: func(args map[string]any) (apiCall, error) {
			id, err := requireString(args, "id")
			if err != nil {
				return apiCall{}, err
			}
			body := map[string]any{"is_revoked": true}
			if reason := optionalString(args, "reason"); reason != "" {
				body["revoked_reason"] = reason
			}
			return apiCall{Method: http.MethodPatch, Path: "/api/v1/certificates/" + url.PathEscape(id), Body: body}, nil
		},
	},
	{
		name:        "restore_certificate",
		description: "Clear a certificate's revocation and its reason.",
		params: []mcp.ToolOption{
			mcp.WithString("id", mcp.Required(), mcp.Description("Certificate UUID")),
		},
		build: func(args map[string]any) (apiCall, error) {
			id, err := requireString(args, "id")
			if err != nil {
				return apiCall{}, err
			}
			return apiCall{
				Method: http.MethodPatch,
				Path:   "/api/v1/certificates/" + url.PathEscape(id),
				Body:   map[string]any{"is_revoked": false},
			}, nil
		},
	},
}

func knownTool(name string) bool {
	for _, def := range catalog {
		if def.name == name {
			return true
		}
	}
	return false
}

// BuildTools returns the enabled tools, each proxying through proxy.
func BuildTools(cfg *Config, proxy *ProxyHandler) []server.ServerTool {
	var tools []server.ServerTool
	for _, def := range catalog {
		override := cfg.Tools[def.name]
		if override.Disabled {
			continue
		}

		desc := def.description
		if override.Description != "" {
			desc = override.Description
		}

		opts := []mcp.ToolOption{
			mcp.WithDescription(desc),
			mcp.WithReadOnlyHintAnnotation(def.readOnly),
			mcp.WithDestructiveHintAnnotation(def.destructive),
			mcp.WithIdempotentHintAnnotation(true),
		}
		opts = append(opts, def.params...)

		tools = append(tools, server.ServerTool{
			Tool:    mcp.NewTool(def.name, opts...),
			Handler: toolHandler(def, proxy),
		})
	}
	return tools
}

func toolHandler(def toolDef, proxy *ProxyHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call, err := def.build(req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return proxy.Do(ctx, req, call)
	}
}

func requireString(args map[string]any, name string) (string, error) {
	v := optionalString(args, name)
	if v == "" {
		return "", fmt.Errorf("missing required parameter: %s", name)
	}
	return v, nil
}

func optionalString(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// optionalInt accepts JSON numbers and numeric strings.
func optionalInt(args map[string]any, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), v > 0
	case int:
		return v, v > 0
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil && n > 0
	}
	return 0, false
}
