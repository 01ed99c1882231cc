package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"
	"github.com/SergeyBogomolovv/shop-service/internal/service"
	"github.com/SergeyBogomolovv/shop-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, in service.PlaceOrderInput) (entities.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	ListOrders(ctx context.Context) ([]entities.Order, error)
	ListOrdersBySession(ctx context.Context, sessionID string) ([]entities.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status string) (entities.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

type OrderHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      OrderService
}

func NewOrderHandler(logger *slog.Logger, svc OrderService) *OrderHandler {
	return &OrderHandler{
		logger:   logger.With(slog.String("handler", "order")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *OrderHandler) Init(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/my", h.ListMyOrders)
		r.Get("/{order_id}", h.GetOrderByID)
		r.Patch("/{order_id}/status", h.UpdateStatus)
		r.Delete("/{order_id}", h.DeleteOrder)
	})
}

func (h *OrderHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := r.Header.Get(SessionHeader)
	if err := h.validate.Var(sessionID, sessionIDRules); err != nil {
		utils.WriteValidationError(w, err)
		return "", false
	}
	return sessionID, true
}

func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (string, bool) {
	orderID := chi.URLParam(r, "order_id")
	if err := h.validate.Var(orderID, "required,uuid4"); err != nil {
		utils.WriteValidationError(w, err)
		return "", false
	}
	return orderID, true
}

// CreateOrder оформляет заказ из корзины сессии: цены фиксируются,
// корзина очищается в той же транзакции.
// @Summary      Оформить заказ
// @Tags         orders
// @Param        X-Session-ID  header  string  true  "Идентификатор сессии"
// @Param        body  body  CreateOrderRequest  true  "Контактные данные"
// @Success      201  {object}  Order
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации или пустая корзина"
// @Failure      404  {object}  utils.ErrorResponse "Позиция каталога исчезла"
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.PlaceOrder(ctx, service.PlaceOrderInput{
		SessionID: sessionID,
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		ordersFailed.Inc()
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	ordersPlaced.Inc()
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

// ListOrders возвращает все заказы, новые сверху.
// @Summary      Список заказов
// @Tags         orders
// @Success      200  {array}  Order
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.svc.ListOrders(ctx)
	if err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

// ListMyOrders возвращает историю заказов сессии, новые сверху.
// Заказы переживают корзину.
// @Summary      Заказы сессии
// @Tags         orders
// @Param        X-Session-ID  header  string  true  "Идентификатор сессии"
// @Success      200  {array}  Order
// @Router       /orders/my [get]
func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	orders, err := h.svc.ListOrdersBySession(ctx, sessionID)
	if err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

// GetOrderByID возвращает заказ по идентификатору.
// @Summary      Получить заказ
// @Tags         orders
// @Param        order_id  path  string  true  "Идентификатор заказа"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /orders/{order_id} [get]
func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.GetOrderByID(ctx, orderID)
	if err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// UpdateStatus переводит заказ в новый статус. Набор статусов фиксирован,
// граф переходов не ограничен.
// @Summary      Изменить статус заказа
// @Tags         orders
// @Param        order_id  path  string  true  "Идентификатор заказа"
// @Param        body  body  UpdateStatusRequest  true  "Новый статус"
// @Success      200  {object}  Order
// @Failure      400  {object}  utils.ErrorResponse "Значение вне набора статусов"
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /orders/{order_id}/status [patch]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// DeleteOrder безвозвратно удаляет заказ вместе со строками.
// @Summary      Удалить заказ
// @Tags         orders
// @Param        order_id  path  string  true  "Идентификатор заказа"
// @Success      204
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /orders/{order_id} [delete]
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteOrder(ctx, orderID); err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	utils.WriteNoContent(w)
}
