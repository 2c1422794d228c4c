// Package create реализует создание уведомления через API.
//
// Уведомление создается не более одного раза на тройку
// (получатель, тип, мероприятие): повторный запрос вернет ID существующего.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/eventmaster/internal/http/response"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

const msgFailed = "Ошибка при создании уведомления"

type Service interface {
	Ensure(ctx context.Context, n models.NewNotification) (int64, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: response.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Создать уведомление
// @Description Тип по умолчанию reminder. Повтор с тем же получателем, типом и мероприятием возвращает существующее уведомление.
// @Tags Notifications
// @Accept  json
// @Produce  json
// @Param request body models.CreateNotificationRequest true "Уведомление"
// @Success 200 {object} map[string]any "success, notificationId"
// @Failure 400 {object} response.ErrorResponse "Отсутствуют обязательные поля"
// @Failure 404 {object} response.ErrorResponse "Получатель или мероприятие не найдены"
// @Failure 500 {object} response.ErrorResponse "Ошибка при создании уведомления"
// @Router /notifications [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgBadRequest))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error(response.MsgBadRequest))
		return
	}

	id, err := h.service.Ensure(r.Context(), models.NewNotification{
		UserID:  req.UserID,
		Message: req.Message,
		Type:    req.Type,
		EventID: req.EventID,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("recipient or event not found", slog.Int64("user_id", req.UserID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Получатель или мероприятие не найдены"))
			return
		}
		log.Error("failed to ensure notification", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(msgFailed))
		return
	}

	render.JSON(w, r, response.OK(response.Fields{"notificationId": id}))
}
