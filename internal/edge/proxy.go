package edge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/stratocrm/strato/internal/config"
)

const (
	loginPath = "/api/auth/login"
	apiPrefix = "/api/"
)

// routingHeaders are owned by the edge. Client-supplied values are dropped
// before the request's own classification is stamped, so a forged X-Tenant-ID
// or marker header can never reach the origin.
var routingHeaders = []string{
	HeaderForwardedHost,
	HeaderOriginalURL,
	HeaderTenantID,
	HeaderForceMarketing,
	HeaderAppRequest,
	HeaderShowApp,
	HeaderShowTenantField,
	HeaderAPIRequest,
}

// Proxy classifies each inbound request, stamps routing headers, and forwards
// it to the configured origin. It holds no per-request state; a single Proxy
// serves all requests concurrently.
type Proxy struct {
	cfg    config.EdgeConfig
	client *http.Client
}

// NewProxy creates a Proxy for the given edge configuration.
func NewProxy(cfg config.EdgeConfig) *Proxy {
	return &Proxy{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.OriginTimeout,
			// Redirects from the origin belong to the client, not the edge.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cls := Classify(r.Host, p.cfg)

	if cls.Kind == KindRedirect {
		target := "https://" + p.cfg.BaseDomain + r.URL.RequestURI()
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	// The request body can only be consumed once; buffer it up front so it
	// can be inspected, possibly rewritten, and still forwarded.
	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		r.Body.Close()
		if err == nil {
			body = b
		}
	}

	if r.Method == http.MethodPost && r.URL.Path == loginPath && cls.TenantSlug != "" {
		body = injectTenant(body, cls.TenantSlug)
	}

	originReq, err := p.buildOriginRequest(r, cls, body)
	if err != nil {
		p.originFailure(w, r, err)
		return
	}

	resp, err := p.client.Do(originReq)
	if err != nil {
		p.originFailure(w, r, err)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		p.originFailure(w, r, err)
		return
	}

	if p.cfg.SPAFallback && resp.StatusCode == http.StatusNotFound && isClientRoute(r.URL.Path) {
		if p.serveRoot(w, r) {
			return
		}
	}

	if strings.HasPrefix(r.URL.Path, apiPrefix) {
		p.writeAPIResponse(w, r, resp, respBody)
		return
	}

	writeResponse(w, resp, respBody, "")
}

// buildOriginRequest clones the inbound request toward the origin, preserving
// method, path, query, and headers, and adding the routing headers for the
// request's classification.
func (p *Proxy) buildOriginRequest(r *http.Request, cls Classification, body []byte) (*http.Request, error) {
	u := strings.TrimRight(p.cfg.OriginURL, "/") + r.URL.RequestURI()
	req, err := http.NewRequestWithContext(r.Context(), r.Method, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build origin request: %w", err)
	}

	for k, vs := range r.Header {
		if isHopByHop(k) {
			continue
		}
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	// Body may have been rewritten; the client derives the real length.
	req.Header.Del("Content-Length")
	for _, h := range routingHeaders {
		req.Header.Del(h)
	}

	host := stripPort(r.Host)
	req.Header.Set(HeaderForwardedHost, host)
	req.Header.Set(HeaderOriginalURL, originalURL(r, host))

	switch cls.Kind {
	case KindMarketing:
		req.Header.Set(HeaderForceMarketing, "true")
	case KindAppShell:
		req.Header.Set(HeaderAppRequest, "true")
		req.Header.Set(HeaderShowApp, "true")
		if p.cfg.ShowTenantField {
			req.Header.Set(HeaderShowTenantField, "true")
		}
	case KindAPI:
		req.Header.Set(HeaderAPIRequest, "true")
	case KindTenant:
		req.Header.Set(HeaderTenantID, cls.TenantSlug)
	}

	return req, nil
}

// writeAPIResponse re-emits an origin response for an /api/ path. Valid JSON
// is passed through with Content-Type forced to application/json, guarding
// against origins that emit JSON under a stale content type. A non-JSON body
// on the login path becomes a synthesized JSON 500: login callers must never
// see an HTML error page.
func (p *Proxy) writeAPIResponse(w http.ResponseWriter, r *http.Request, resp *http.Response, body []byte) {
	if len(bytes.TrimSpace(body)) > 0 && json.Valid(body) {
		writeResponse(w, resp, body, "application/json")
		return
	}

	if r.URL.Path == loginPath {
		slog.Warn("non-JSON origin response on login path",
			"status", resp.StatusCode, "host", r.Host)
		writeJSONError(w, http.StatusInternalServerError, "invalid_upstream_response",
			"Authentication service returned an invalid response",
			fmt.Sprintf("origin status %d", resp.StatusCode))
		return
	}

	writeResponse(w, resp, body, "")
}

// serveRoot re-requests the origin's root document so the single-page app's
// client-side router can handle the path. Returns false if the root fetch
// fails, in which case the original 404 is passed through.
func (p *Proxy) serveRoot(w http.ResponseWriter, r *http.Request) bool {
	u := strings.TrimRight(p.cfg.OriginURL, "/") + "/"
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, u, nil)
	if err != nil {
		return false
	}
	req.Header.Set(HeaderForwardedHost, stripPort(r.Host))

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return false
	}

	writeResponse(w, resp, body, "")
	return true
}

// originFailure reports an unreachable or failed origin. The login path gets
// a JSON envelope; everything else a minimal HTML page. No retries.
func (p *Proxy) originFailure(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("origin fetch failed", "path", r.URL.Path, "host", r.Host, "error", err)

	if r.URL.Path == loginPath {
		writeJSONError(w, http.StatusInternalServerError, "upstream_unavailable",
			"Authentication service is unavailable", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	io.WriteString(w, "<html><body><h1>500 Internal Server Error</h1><p>The service is temporarily unavailable.</p></body></html>")
}

// injectTenant adds a tenant field to a JSON login body if one is not already
// present. Best-effort: any parse or marshal failure returns the body
// unmodified rather than failing the request.
func injectTenant(body []byte, slug string) []byte {
	m := map[string]any{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &m); err != nil || m == nil {
			return body
		}
	}
	if _, ok := m["tenant"]; ok {
		return body
	}
	m["tenant"] = slug
	out, err := json.Marshal(m)
	if err != nil {
		return body
	}
	return out
}

// isClientRoute is the SPA heuristic: a 404 on an extensionless, non-API path
// is a client-side route, not a missing asset.
func isClientRoute(p string) bool {
	return !strings.HasPrefix(p, apiPrefix) && path.Ext(p) == ""
}

func originalURL(r *http.Request, host string) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + host + r.URL.RequestURI()
}

func writeResponse(w http.ResponseWriter, resp *http.Response, body []byte, forceContentType string) {
	for k, vs := range resp.Header {
		if isHopByHop(k) || k == "Content-Length" {
			continue
		}
		if forceContentType != "" && k == "Content-Type" {
			continue
		}
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if forceContentType != "" {
		w.Header().Set("Content-Type", forceContentType)
	}
	w.WriteHeader(resp.StatusCode)
	w.Write(body)
}

func writeJSONError(w http.ResponseWriter, status int, code, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
		"details": details,
	})
}

func isHopByHop(header string) bool {
	switch http.CanonicalHeaderKey(header) {
	case "Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
		"Te", "Trailer", "Transfer-Encoding", "Upgrade":
		return true
	}
	return false
}
