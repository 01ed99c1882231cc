package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"
	"github.com/SergeyBogomolovv/shop-service/internal/repo"
	"github.com/SergeyBogomolovv/shop-service/pkg/utils"
)

// writeServiceError переводит доменные ошибки в HTTP-ответы.
// Текст внутренних ошибок наружу не уходит, только в лог.
func writeServiceError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrCartLineNotFound):
		utils.WriteError(w, "cart line not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "product not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrPackageNotFound):
		utils.WriteError(w, "package not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrEmptyCart):
		utils.WriteError(w, "cart is empty or missing", http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidStatus):
		utils.WriteError(w, "invalid order status", http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidRef):
		utils.WriteError(w, "line must reference exactly one of product or package", http.StatusBadRequest)
	case repo.IsUniqueViolation(err):
		utils.WriteError(w, "conflict", http.StatusConflict)
	default:
		logger.ErrorContext(ctx, "internal error", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
