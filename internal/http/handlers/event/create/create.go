// Package create реализует HTTP-обработчик создания мероприятия.
//
// Handler принимает JSON с данными мероприятия, проверяет обязательные поля,
// берет владельца из сессии и передает запрос сервису. Сервис сохраняет
// мероприятие и рассылает приглашения участникам. Итоги рассылки клиенту
// не возвращаются: ответ содержит только ID мероприятия.
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

	"github.com/magabrotheeeer/eventmaster/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eventmaster/internal/http/response"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/models"
	eventsvc "github.com/magabrotheeeer/eventmaster/internal/services/event"
)

const (
	msgMissingFields = "Отсутствуют обязательные поля"
	msgFailed        = "Ошибка сервера при создании мероприятия"
)

// Service описывает бизнес-логику создания мероприятия.
type Service interface {
	Create(ctx context.Context, owner models.Identity, req models.CreateEventRequest) (int64, *eventsvc.FanoutReport, error)
}

// Handler управляет запросами POST /api/events.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис мероприятий
	validate *validator.Validate // Валидатор тела запроса
}

// New создает Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: response.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Создать мероприятие
// @Description Создает мероприятие текущего пользователя и приглашает участников. Создатель в список участников не попадает.
// @Tags Events
// @Accept  json
// @Produce  json
// @Param request body models.CreateEventRequest true "Данные мероприятия"
// @Success 200 {object} map[string]any "success, eventId"
// @Failure 400 {object} response.ErrorResponse "Отсутствуют обязательные поля"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании мероприятия"
// @Router /events [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	s, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	}

	var req models.CreateEventRequest
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
		if !errors.As(err, &verrs) || missingRequired(verrs) {
			render.JSON(w, r, response.Error(msgMissingFields))
			return
		}
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	eventID, _, err := h.service.Create(r.Context(), models.Identity{ID: s.UserID, Login: s.Login}, req)
	if err != nil {
		log.Error("failed to create event", slog.Int64("user_id", s.UserID), sl.Err(err))
		response.Fail(w, r, err, msgFailed)
		return
	}

	log.Info("event created", slog.Int64("event_id", eventID))
	render.JSON(w, r, response.OK(response.Fields{"eventId": eventID}))
}

func missingRequired(errs validator.ValidationErrors) bool {
	for _, e := range errs {
		if e.ActualTag() == "required" {
			return true
		}
	}
	return false
}
