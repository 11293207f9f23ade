package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	DashboardSvcURL string
	SalesSvcURL     string
	RateSvcURL      string
}

type Gateway struct {
	config Config
	client HTTPClient
	logger *zap.Logger
	feed   http.Handler
}

func NewGateway(config Config, client HTTPClient, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gateway{
		config: config,
		client: client,
		logger: logger,
	}
	if target, err := url.Parse(config.DashboardSvcURL); err == nil && target.Host != "" {
		g.feed = httputil.NewSingleHostReverseProxy(target)
	}
	return g
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// hopHeaders are connection-scoped and must not be forwarded.
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	target := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	g.logger.Debug("proxy", zap.String("method", r.Method), zap.String("target", target))

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		g.logger.Error("build upstream request", zap.String("target", target), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	req.ContentLength = r.ContentLength
	for k, v := range r.Header {
		req.Header[k] = v
	}
	for _, h := range hopHeaders {
		req.Header.Del(h)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("upstream unreachable", zap.String("upstream", targetURL), zap.Error(err))
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	for _, h := range hopHeaders {
		w.Header().Del(h)
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.logger.Warn("copy upstream response", zap.String("target", target), zap.Error(err))
	}
}

// Upstream picks the service owning path, or "" when none does.
func (g *Gateway) Upstream(path string) string {
	switch {
	case hasSegmentPrefix(path, "/api/sales"):
		return g.config.SalesSvcURL
	case hasSegmentPrefix(path, "/api/ratings"):
		return g.config.RateSvcURL
	case hasSegmentPrefix(path, "/api/auth"),
		hasSegmentPrefix(path, "/api/restaurant"),
		hasSegmentPrefix(path, "/api/menus"),
		hasSegmentPrefix(path, "/api/orders"),
		hasSegmentPrefix(path, "/uploads"):
		return g.config.DashboardSvcURL
	}
	return ""
}

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/api/orders/feed" && isUpgrade(r) {
		if g.feed == nil {
			http.Error(w, "order feed unavailable", http.StatusBadGateway)
			return
		}
		g.feed.ServeHTTP(w, r)
		return
	}

	upstream := g.Upstream(path)
	if upstream == "" {
		g.logger.Debug("unmatched route", zap.String("path", path))
		http.Error(w, "route not found", http.StatusNotFound)
		return
	}
	g.ProxyRequest(w, r, upstream)
}

func isUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
