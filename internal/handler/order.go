package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ecomcore/order-service/internal/order"
)

type CreateOrderRequest struct {
	UserID      string        `json:"user_id" validate:"required"`
	Items       []ItemPayload `json:"items" validate:"required,min=1,dive"`
	TotalAmount float64       `json:"total_amount" validate:"required,gt=0"`
}

type ItemPayload struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	svc      order.Service
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders", h.handleListOrders)
	router.Get("/orders/stats", h.handleStatistics)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Put("/orders/{id}/status", h.handleUpdateStatus)
	router.Post("/orders/{id}/items", h.handleAddItem)
	router.Delete("/orders/{id}/items/{index}", h.handleRemoveItem)
	router.Put("/orders/{id}/cancel", h.handleCancelOrder)
	router.Get("/users/{userID}/orders", h.handleListOrdersByUser)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode create order request")
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.validatePayload(w, requestPayload) {
		return
	}

	items := make([]order.Item, 0, len(requestPayload.Items))
	for _, item := range requestPayload.Items {
		items = append(items, order.Item{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	created, err := h.svc.CreateOrder(r.Context(), &order.Order{
		UserID:      requestPayload.UserID,
		Items:       items,
		TotalAmount: requestPayload.TotalAmount,
	})
	if err != nil {
		h.respondServiceError(w, err, "Failed to create order")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "Failed to list orders")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleListOrdersByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user id is required")
		return
	}

	orders, err := h.svc.ListOrdersByUserID(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to list user orders")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.parseOrderID(w, r)
	if !ok {
		return
	}

	result, err := h.svc.GetOrderWithOwner(r.Context(), orderID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get order")
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.parseOrderID(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.validatePayload(w, requestPayload) {
		return
	}

	updated, err := h.svc.UpdateOrderStatus(r.Context(), orderID, order.Status(requestPayload.Status))
	if err != nil {
		h.respondServiceError(w, err, "Failed to update order status")
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *OrderHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.parseOrderID(w, r)
	if !ok {
		return
	}

	var requestPayload ItemPayload
	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.AddItem(r.Context(), orderID, order.Item{
		Name:     requestPayload.Name,
		Price:    requestPayload.Price,
		Quantity: requestPayload.Quantity,
	})
	if err != nil {
		h.respondServiceError(w, err, "Failed to add item")
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *OrderHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.parseOrderID(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, order.ErrInvalidIndex.Error())
		return
	}

	updated, err := h.svc.RemoveItem(r.Context(), orderID, index)
	if err != nil {
		h.respondServiceError(w, err, "Failed to remove item")
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *OrderHandler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.parseOrderID(w, r)
	if !ok {
		return
	}

	cancelled, err := h.svc.CancelOrder(r.Context(), orderID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to cancel order")
		return
	}
	respondWithJSON(w, http.StatusOK, cancelled)
}

func (h *OrderHandler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Statistics(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "Failed to compute statistics")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *OrderHandler) parseOrderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	orderID, err := uuid.FromString(idParam)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid order id")
		return uuid.Nil, false
	}
	return orderID, true
}

func (h *OrderHandler) validatePayload(w http.ResponseWriter, payload any) bool {
	err := h.validate.Struct(payload)
	if err == nil {
		return true
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
		respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		return false
	}

	respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:   "Validation failed",
		Details: formatValidationErrors(validationErrors),
	})
	return false
}

func (h *OrderHandler) respondServiceError(w http.ResponseWriter, err error, logMessage string) {
	statusCode := mapErrorToStatusCode(err)
	if statusCode == http.StatusInternalServerError {
		log.Error().Err(err).Msg(logMessage)
		respondWithError(w, statusCode, "internal server error")
		return
	}

	log.Warn().Err(err).Msg(logMessage)
	respondWithError(w, statusCode, err.Error())
}

// HealthProbe reports upstream liveness for the health endpoint.
type HealthProbe interface {
	Healthy(ctx context.Context) bool
}

func Health(probe HealthProbe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]any{
			"status":       "healthy",
			"service":      "order-service",
			"user_service": probe.Healthy(r.Context()),
		})
	}
}
