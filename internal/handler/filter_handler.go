package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"vapeshop-be/internal/facet"
	"vapeshop-be/internal/logger"
	"vapeshop-be/internal/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type FilterHandler struct {
	svc facet.Service
}

func NewFilterHandler(svc facet.Service) *FilterHandler {
	return &FilterHandler{svc: svc}
}

func (h *FilterHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/filters", h.current)
	mux.HandleFunc("DELETE /api/filters", h.clear)
	mux.HandleFunc("POST /api/filters/toggle", h.toggle)
	mux.HandleFunc("PUT /api/filters/price", h.price)
	mux.HandleFunc("PUT /api/filters/stock", h.stock)
	mux.HandleFunc("GET /api/flavors/profiles", h.profiles)
	mux.HandleFunc("GET /debug/metrics", h.metrics)
	mux.HandleFunc("POST /debug/catalog/refresh", h.refreshCatalog)
}

type toggleRequest struct {
	Facet string `json:"facet"`
	Value string `json:"value"`
}

type priceRequest struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type stockRequest struct {
	InStock    bool `json:"in_stock"`
	OutOfStock bool `json:"out_of_stock"`
}

type refreshResponse struct {
	Refreshed bool `json:"refreshed"`
}

type profilesResponse struct {
	Flavor   string   `json:"flavor"`
	Profiles []string `json:"profiles"`
}

func (h *FilterHandler) current(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Current(r.Context(), utils.GetSessionIDFromContext(r.Context()))
	h.respond(w, r, res, err)
}

func (h *FilterHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, facet.Clear())
}

func (h *FilterHandler) toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := facet.ParseType(req.Facet)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.apply(w, r, facet.Toggle(t, strings.TrimSpace(req.Value)))
}

// price accepts either side alone (a slider handle moved) or both.
func (h *FilterHandler) price(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if !decode(w, r, &req) {
		return
	}

	var change facet.Change
	switch {
	case req.Min != nil && req.Max != nil:
		change = facet.Price(*req.Min, *req.Max)
	case req.Min != nil:
		change = facet.PriceMin(*req.Min)
	case req.Max != nil:
		change = facet.PriceMax(*req.Max)
	default:
		utils.WriteJSONError(w, "min or max is required", http.StatusBadRequest)
		return
	}
	h.apply(w, r, change)
}

func (h *FilterHandler) stock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, facet.Stock(req.InStock, req.OutOfStock))
}

func (h *FilterHandler) profiles(w http.ResponseWriter, r *http.Request) {
	flavor := strings.TrimSpace(r.URL.Query().Get("flavor"))
	if flavor == "" {
		utils.WriteJSONError(w, "flavor is required", http.StatusBadRequest)
		return
	}
	utils.WriteJSON(w, profilesResponse{Flavor: flavor, Profiles: h.svc.Classify(flavor)}, http.StatusOK)
}

func (h *FilterHandler) metrics(w http.ResponseWriter, r *http.Request) {
	if !utils.IsInternalRequest(r.Context()) {
		utils.WriteJSONError(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	utils.WriteJSON(w, h.svc.Metrics(), http.StatusOK)
}

func (h *FilterHandler) refreshCatalog(w http.ResponseWriter, r *http.Request) {
	if !utils.IsInternalRequest(r.Context()) {
		utils.WriteJSONError(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	refreshed := h.svc.RefreshCatalog()
	logger.FromCtx(r.Context()).Info("catalog refresh requested", zap.Bool("refreshed", refreshed))
	utils.WriteJSON(w, refreshResponse{Refreshed: refreshed}, http.StatusOK)
}

func (h *FilterHandler) apply(w http.ResponseWriter, r *http.Request, change facet.Change) {
	res, err := h.svc.Apply(r.Context(), utils.GetSessionIDFromContext(r.Context()), change)
	h.respond(w, r, res, err)
}

func (h *FilterHandler) respond(w http.ResponseWriter, r *http.Request, res *facet.Result, err error) {
	if err != nil {
		code := statusFor(err)
		if code >= http.StatusInternalServerError {
			logger.FromCtx(r.Context()).Error("filter request failed", zap.Error(err))
			utils.WriteJSONError(w, "failed to load catalog", code)
			return
		}
		utils.WriteJSONError(w, err.Error(), code)
		return
	}
	utils.WriteJSON(w, res, http.StatusOK)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, facet.ErrUnknownFacet),
		errors.Is(err, facet.ErrEmptyFacetValue),
		errors.Is(err, facet.ErrInvalidPrice),
		errors.Is(err, facet.ErrUnknownChange):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		utils.WriteJSONError(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}
