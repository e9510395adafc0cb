package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samber/lo"

	"github.com/mtlprog/walletpage/internal/balance"
	"github.com/mtlprog/walletpage/internal/domain"
	"github.com/mtlprog/walletpage/internal/prices"
	"github.com/mtlprog/walletpage/internal/swap"
)

// maxBalancesBody caps the size of a PUT balances request.
const maxBalancesBody = 1 << 20

// PageService renders and stores wallet balances.
type PageService interface {
	Page(ctx context.Context, address string) (balance.Page, error)
	Save(ctx context.Context, address string, balances []domain.Balance) error
}

// PriceService serves and refreshes price snapshots.
type PriceService interface {
	Snapshot(ctx context.Context) (prices.Snapshot, error)
	Refresh(ctx context.Context) (prices.Snapshot, error)
}

// Handler provides HTTP endpoints for the wallet page API.
type Handler struct {
	pages  PageService
	prices PriceService
}

// NewHandler creates a new API handler.
func NewHandler(pages PageService, prices PriceService) *Handler {
	return &Handler{pages: pages, prices: prices}
}

// GetBalances handles GET /api/v1/wallets/{address}/balances.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	page, err := h.pages.Page(r.Context(), address)
	if err != nil {
		if errors.Is(err, balance.ErrNotFound) {
			writeError(w, http.StatusNotFound, "wallet not found")
			return
		}
		if errors.Is(err, balance.ErrPricesUnavailable) {
			slog.Error("failed to load prices for wallet", "wallet", address, "error", err)
			writeError(w, http.StatusBadGateway, "prices unavailable")
			return
		}
		slog.Error("failed to render wallet", "wallet", address, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// PutBalances handles PUT /api/v1/wallets/{address}/balances.
func (h *Handler) PutBalances(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	var balances []domain.Balance
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBalancesBody)).Decode(&balances); err != nil {
		writeError(w, http.StatusBadRequest, "invalid balances payload")
		return
	}
	for _, b := range balances {
		if b.Currency == "" || b.Blockchain == "" {
			writeError(w, http.StatusBadRequest, "currency and blockchain are required")
			return
		}
	}

	if err := h.pages.Save(r.Context(), address, balances); err != nil {
		slog.Error("failed to save balances", "wallet", address, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// blockchainPriority is one entry of the GET /api/v1/blockchains response.
type blockchainPriority struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

// GetBlockchains handles GET /api/v1/blockchains.
func (h *Handler) GetBlockchains(w http.ResponseWriter, _ *http.Request) {
	chains := lo.Map(domain.KnownBlockchains(), func(name string, _ int) blockchainPriority {
		return blockchainPriority{Name: name, Priority: domain.Priority(name)}
	})
	writeJSON(w, http.StatusOK, chains)
}

// GetPrices handles GET /api/v1/prices.
func (h *Handler) GetPrices(w http.ResponseWriter, r *http.Request) {
	snap, err := h.prices.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to load prices", "error", err)
		writeError(w, http.StatusBadGateway, "prices unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetTokens handles GET /api/v1/tokens.
func (h *Handler) GetTokens(w http.ResponseWriter, r *http.Request) {
	snap, err := h.prices.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to load tokens", "error", err)
		writeError(w, http.StatusBadGateway, "prices unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snap.Tokens)
}

// GetSwapQuote handles GET /api/v1/swap/quote?from=&to=&amount=.
func (h *Handler) GetSwapQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := swap.ParseAmount(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.prices.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to load prices for swap", "error", err)
		writeError(w, http.StatusBadGateway, "prices unavailable")
		return
	}

	quote, err := swap.Calculate(snap.Table, q.Get("from"), q.Get("to"), amount)
	if err != nil {
		switch {
		case errors.Is(err, swap.ErrMissingPrice):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// RefreshPrices handles POST /api/v1/prices/refresh.
func (h *Handler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	snap, err := h.prices.Refresh(r.Context())
	if err != nil {
		slog.Error("failed to refresh prices", "error", err)
		writeError(w, http.StatusBadGateway, "failed to refresh prices")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// writeJSON encodes v before touching w so an encoding failure can still
// become a 500. HTML escaping is off because token names and error messages
// are plain text for API clients.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
