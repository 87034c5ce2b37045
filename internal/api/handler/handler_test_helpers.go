package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/carbonjar/lms/internal/api/middleware"
	"github.com/carbonjar/lms/internal/asset"
)

const validID = "3f0c8f4e-5b7a-4a57-9d3c-1f2e3d4c5b6a"

// newRequest builds a test request. A string body is sent as is; anything
// else is JSON encoded.
func newRequest(method, target string, body any) *http.Request {
	var rd io.Reader
	switch b := body.(type) {
	case nil:
		rd = http.NoBody
	case string:
		rd = strings.NewReader(b)
	default:
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(b)
		rd = &buf
	}
	r := httptest.NewRequest(method, target, rd)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withURLParam sets a chi route parameter without going through a router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func errorBody(rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

func withIdentity(r *http.Request, userID, role string) *http.Request {
	return r.WithContext(mw.WithIdentity(r.Context(), &mw.Identity{UserID: userID, Role: role}))
}

// testPresenter resolves files.edgestore.dev through the proxy at a fixed clock.
func testPresenter() *Presenter {
	return &Presenter{
		Resolver:      asset.NewResolver("", []string{"files.edgestore.dev"}),
		PublicBaseURL: "https://carbonjar.com",
		Now:           func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}
