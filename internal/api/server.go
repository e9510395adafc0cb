package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, pages PageService, prices PriceService, adminAPIKey string) *http.Server {
	handler := NewHandler(pages, prices)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/wallets/{address}/balances", handler.GetBalances)
	mux.HandleFunc("GET /api/v1/blockchains", handler.GetBlockchains)
	mux.HandleFunc("GET /api/v1/prices", handler.GetPrices)
	mux.HandleFunc("GET /api/v1/tokens", handler.GetTokens)
	mux.HandleFunc("GET /api/v1/swap/quote", handler.GetSwapQuote)
	mux.Handle("GET /metrics", promhttp.Handler())

	admin := adminOnly(adminAPIKey)
	mux.Handle("PUT /api/v1/wallets/{address}/balances", admin(handler.PutBalances))
	mux.Handle("POST /api/v1/prices/refresh", admin(handler.RefreshPrices))

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// adminOnly guards write routes with requireAuth. An empty key leaves them open.
func adminOnly(apiKey string) func(http.HandlerFunc) http.Handler {
	return func(h http.HandlerFunc) http.Handler {
		if apiKey == "" {
			return h
		}
		return requireAuth(apiKey, h)
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			slog.Warn("rejected admin request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the credentials of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
