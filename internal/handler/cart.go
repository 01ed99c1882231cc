package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"
	"github.com/SergeyBogomolovv/shop-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// SessionHeader непрозрачный идентификатор сессии покупателя,
// практически UUID.
const SessionHeader = "X-Session-ID"

const sessionIDRules = "required,min=16"

type CartService interface {
	GetOrCreate(ctx context.Context, sessionID string) (entities.Cart, error)
	AddLine(ctx context.Context, sessionID string, ref entities.ItemRef, quantity int) (entities.CartLine, error)
	UpdateLine(ctx context.Context, sessionID, lineID string, quantity int) (entities.CartLine, bool, error)
	RemoveLine(ctx context.Context, sessionID, lineID string) error
	Clear(ctx context.Context, sessionID string) error
	Summarize(ctx context.Context, sessionID string) (entities.CartSummary, error)
}

type CartHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      CartService
}

func NewCartHandler(logger *slog.Logger, svc CartService) *CartHandler {
	return &CartHandler{
		logger:   logger.With(slog.String("handler", "cart")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *CartHandler) Init(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Get("/summary", h.GetSummary)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{line_id}", h.UpdateItem)
		r.Delete("/items/{line_id}", h.RemoveItem)
	})
}

func (h *CartHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := r.Header.Get(SessionHeader)
	if err := h.validate.Var(sessionID, sessionIDRules); err != nil {
		utils.WriteValidationError(w, err)
		return "", false
	}
	return sessionID, true
}

// GetCart возвращает корзину сессии, создавая пустую при первом обращении.
// @Summary      Получить корзину
// @Tags         cart
// @Param        X-Session-ID  header  string  true  "Идентификатор сессии"
// @Success      200  {object}  Cart
// @Router       /cart [get]
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	cart, err := h.svc.GetOrCreate(ctx, sessionID)
	if err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	utils.WriteJSON(w, CartEntityToJSON(cart), http.StatusOK)
}

// AddItem добавляет позицию в корзину. Повторное добавление той же
// позиции увеличивает количество.
// @Summary      Добавить позицию в корзину
// @Tags         cart
// @Param        X-Session-ID  header  string  true  "Идентификатор сессии"
// @Param        body  body  AddItemRequest  true  "Ровно один из product_id и package_id"
// @Success      201  {object}  CartLine
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      404  {object}  utils.ErrorResponse "Позиция каталога не найдена"
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	var ref entities.ItemRef
	if req.ProductID != nil {
		ref = entities.ProductRef(*req.ProductID)
	} else {
		ref = entities.PackageRef(*req.PackageID)
	}

	line, err := h.svc.AddLine(ctx, sessionID, ref, quantity)
	if err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	cartItemsAdded.Inc()
	utils.WriteJSON(w, CartLineEntityToJSON(line), http.StatusCreated)
}

// UpdateItem меняет количество строки. Количество 0 удаляет строку.
// @Summary      Изменить количество
// @Tags         cart
// @Param        X-Session-ID  header  string  true  "Идентификатор сессии"
// @Param        line_id  path  string  true  "Идентификатор строки"
// @Success      200  {object}  CartLine
// @Success      204  "Строка удалена (количество 0)"
// @Failure      404  {object}  utils.ErrorResponse "Строка не найдена или принадлежит другой сессии"
// @Router       /cart/items/{line_id} [patch]
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	lineID := chi.URLParam(r, "line_id")

	var req UpdateItemRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	line, removed, err := h.svc.UpdateLine(ctx, sessionID, lineID, *req.Quantity)
	if err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}
	if removed {
		utils.WriteNoContent(w)
		return
	}

	utils.WriteJSON(w, CartLineEntityToJSON(line), http.StatusOK)
}

// RemoveItem удаляет строку из корзины.
// @Summary      Удалить строку
// @Tags         cart
// @Param        X-Session-ID  header  string  true  "Идентификатор сессии"
// @Param        line_id  path  string  true  "Идентификатор строки"
// @Success      204
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /cart/items/{line_id} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	lineID := chi.URLParam(r, "line_id")

	if err := h.svc.RemoveLine(ctx, sessionID, lineID); err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	utils.WriteNoContent(w)
}

// ClearCart удаляет все строки корзины.
// @Summary      Очистить корзину
// @Tags         cart
// @Param        X-Session-ID  header  string  true  "Идентификатор сессии"
// @Success      204
// @Router       /cart [delete]
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Clear(ctx, sessionID); err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	utils.WriteNoContent(w)
}

// GetSummary считает итоги корзины по живым ценам каталога.
// Для сессии без корзины возвращает нули.
// @Summary      Итоги корзины
// @Tags         cart
// @Param        X-Session-ID  header  string  true  "Идентификатор сессии"
// @Success      200  {object}  CartSummary
// @Router       /cart/summary [get]
func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.Summarize(ctx, sessionID)
	if err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	utils.WriteJSON(w, CartSummaryEntityToJSON(summary), http.StatusOK)
}
