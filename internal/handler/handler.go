package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/laker77/PointsStoreService-main/internal/models"
	"github.com/laker77/PointsStoreService-main/internal/render"
	service "github.com/laker77/PointsStoreService-main/internal/services"
	pkgerrors "github.com/laker77/PointsStoreService-main/pkg/errors"
)

// Handler is the transport boundary for front ends. Responses carry both the
// structured result and a pre-formatted message so a front end can render
// without knowing the failure taxonomy. Raw error text never leaves here.
type Handler struct {
	service service.StoreService
}

func NewHandler(s service.StoreService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/balance/{handle}", h.GetBalance).Methods("GET")
	r.HandleFunc("/api/catalog", h.GetCatalog).Methods("GET")
	r.HandleFunc("/api/buy", h.Buy).Methods("POST")
	r.HandleFunc("/healthz", h.Health).Methods("GET")
}

type errorResponse struct {
	Message   string `json:"message"`
	Shortfall int    `json:"shortfall,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Message: message})
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["handle"]

	account, err := h.service.GetBalance(r.Context(), handle)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrAccountMissingHandle):
			h.writeError(w, http.StatusBadRequest, render.MissingHandleMessage())
		case errors.Is(err, pkgerrors.ErrAccountNotFound):
			h.writeError(w, http.StatusNotFound, render.AccountNotFoundMessage())
		default:
			slog.Error("get balance failed", "handle", handle, "error", err)
			h.writeError(w, http.StatusInternalServerError, render.GenericErrorMessage())
		}
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Account *models.UserAccount `json:"account"`
		Message string              `json:"message"`
	}{account, render.BalanceMessage(account)})
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	products := h.service.GetCatalog(r.Context())
	h.writeJSON(w, http.StatusOK, struct {
		Products []models.Product `json:"products"`
	}{products})
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Handle    string `json:"handle"`
		ProductID int    `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, render.GenericErrorMessage())
		return
	}

	result, err := h.service.Purchase(r.Context(), req.Handle, req.ProductID)
	if err != nil {
		var insufficient *pkgerrors.InsufficientFundsError
		switch {
		case errors.As(err, &insufficient):
			h.writeJSON(w, http.StatusBadRequest, errorResponse{
				Message:   render.InsufficientFundsMessage(insufficient.Balance, insufficient.Price),
				Shortfall: insufficient.Shortfall,
			})
		case errors.Is(err, pkgerrors.ErrProductNotFound):
			h.writeError(w, http.StatusNotFound, render.ProductNotFoundMessage())
		case errors.Is(err, pkgerrors.ErrAccountMissingHandle):
			h.writeError(w, http.StatusBadRequest, render.MissingHandleMessage())
		case errors.Is(err, pkgerrors.ErrAccountNotFound):
			h.writeError(w, http.StatusNotFound, render.AccountNotFoundMessage())
		case errors.Is(err, pkgerrors.ErrBalanceLocked):
			h.writeError(w, http.StatusConflict, render.GenericErrorMessage())
		case errors.Is(err, pkgerrors.ErrDebitFailed):
			h.writeError(w, http.StatusInternalServerError, render.DebitFailedMessage())
		default:
			slog.Error("purchase failed", "handle", req.Handle, "product_id", req.ProductID, "error", err)
			h.writeError(w, http.StatusInternalServerError, render.GenericErrorMessage())
		}
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Result  *models.PurchaseResult `json:"result"`
		Message string                 `json:"message"`
	}{result, render.PurchaseSuccessMessage(result)})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(strconv.Quote("ok")))
}
