package gateway

import (
	"io"
	"net"
	"net/http"
	"slices"
	"strings"

	"cafe-tab/internal/platform/logger"

	"github.com/gorilla/mux"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	TabSvcURL       string
	ProjectorSvcURL string
}

type Gateway struct {
	config Config
	client HTTPClient
	log    *logger.Logger
}

func NewGateway(config Config, client HTTPClient, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		config: config,
		client: client,
		log:    log,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"service":"api-gateway","status":"healthy"}`))
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	g.log.Debug("proxy", "method", r.Method, "path", r.URL.Path, "target", targetURL)

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.log.Error("create proxy request", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	copyHeader(req.Header, r.Header)
	req.Header.Set("X-Forwarded-Host", r.Host)
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		req.Header.Set("X-Forwarded-For", host)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("proxy failed", "target", targetURL, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.log.Warn("copy response", "error", err)
	}
}

// Headers that apply to a single connection and are not forwarded.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

func copyHeader(dst, src http.Header) {
	for k, v := range src {
		dst[k] = slices.Clone(v)
	}
	for _, f := range src.Values("Connection") {
		for _, name := range strings.Split(f, ",") {
			dst.Del(strings.TrimSpace(name))
		}
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
}

// RouteHandler sends writes and tab reads to tab-svc and queue reads to
// projector-svc.
func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/api/tabs" || strings.HasPrefix(path, "/api/tabs/"):
		g.ProxyRequest(w, r, g.config.TabSvcURL)
	case strings.HasPrefix(path, "/api/kitchen/"),
		strings.HasPrefix(path, "/api/waiter/"),
		strings.HasPrefix(path, "/api/waiters/"),
		path == "/api/tables" || strings.HasPrefix(path, "/api/tables/"):
		g.ProxyRequest(w, r, g.config.ProjectorSvcURL)
	default:
		g.log.Warn("unmatched api route", "path", path)
		http.Error(w, "API route not found", http.StatusNotFound)
	}
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	return r
}
