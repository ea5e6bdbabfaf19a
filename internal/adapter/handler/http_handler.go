package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rl1809/shoe-cart/internal/adapter/notify"
	"github.com/rl1809/shoe-cart/internal/core/domain"
	"github.com/rl1809/shoe-cart/internal/core/service"
)

const requestIDHeader = "X-Request-ID"

type HTTPHandler struct {
	cartStore *service.CartStore
	recorder  *notify.Recorder
}

type AddProductHTTPRequest struct {
	ProductID int `json:"product_id"`
}

type UpdateAmountHTTPRequest struct {
	Amount int `json:"amount"`
}

type CartHTTPResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Cart    []domain.Product `json:"cart"`
	Total   string           `json:"total"`
}

type NotificationsHTTPResponse struct {
	Messages []string `json:"messages"`
}

func NewHTTPHandler(cartStore *service.CartStore, recorder *notify.Recorder) *HTTPHandler {
	return &HTTPHandler{cartStore: cartStore, recorder: recorder}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(requestID)

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/api/cart/products", h.AddProduct).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/products/{id:[0-9]+}", h.RemoveProduct).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/products/{id:[0-9]+}", h.UpdateProductAmount).Methods(http.MethodPut)
	r.HandleFunc("/api/notifications", h.Notifications).Methods(http.MethodGet)

	return r
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, http.StatusOK, nil)
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.cartStore.AddProduct(r.Context(), req.ProductID)
	h.writeCart(w, http.StatusOK, err)
}

func (h *HTTPHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r)
	if !ok {
		h.writeFailure(w, http.StatusBadRequest, "invalid product id")
		return
	}

	err := h.cartStore.RemoveProduct(r.Context(), productID)
	h.writeCart(w, http.StatusOK, err)
}

func (h *HTTPHandler) UpdateProductAmount(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r)
	if !ok {
		h.writeFailure(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateAmountHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.cartStore.UpdateProductAmount(r.Context(), service.UpdateProductAmount{
		ProductID: productID,
		Amount:    req.Amount,
	})
	h.writeCart(w, http.StatusOK, err)
}

func (h *HTTPHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	resp := NotificationsHTTPResponse{Messages: []string{}}
	if h.recorder != nil {
		resp.Messages = h.recorder.Messages()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeCart answers with the current cart; a failed operation still returns
// the (unchanged) cart alongside its message.
func (h *HTTPHandler) writeCart(w http.ResponseWriter, status int, err error) {
	cart := h.cartStore.GetCart()
	resp := CartHTTPResponse{
		Success: err == nil,
		Cart:    cart,
		Total:   cart.Total().StringFixed(2),
	}
	if err != nil {
		status = statusFor(err)
		resp.Message = service.UserMessage(err)
	}
	writeJSON(w, status, resp)
}

func (h *HTTPHandler) writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, CartHTTPResponse{
		Success: false,
		Message: message,
		Cart:    h.cartStore.GetCart(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrStockExceeded):
		return http.StatusConflict
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, false
	}
	return id, true
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		log.Printf("request %s: %s %s", id, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
