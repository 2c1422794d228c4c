// Package response формирует JSON-ответы HTTP-обработчиков.
//
// Успешный ответ: {"success": true, ...поля}. Ошибка: {"error": "<сообщение>"}.
// StatusFor сопоставляет доменные ошибки со статусами HTTP.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/eventmaster/internal/models"
)

// Fields поля успешного ответа.
type Fields map[string]any

// SuccessResponse успешный ответ без данных, для Swagger-документации.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// ErrorResponse ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error" example:"Не авторизован"`
}

// Сообщения, общие для нескольких обработчиков.
const (
	MsgUnauthorized = "Не авторизован"
	MsgForbidden    = "Доступ запрещен"
	MsgBadRequest   = "Некорректный запрос"
	MsgNotFound     = "Маршрут не найден"
)

// OK возвращает тело успешного ответа с полем success и переданными полями.
func OK(fields Fields) Fields {
	out := Fields{"success": true}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// Error возвращает тело ответа с ошибкой.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// StatusFor возвращает HTTP-статус для ошибки сервиса.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrAlreadyMember),
		errors.Is(err, models.ErrNotMember):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// MessageFor возвращает сообщение для клиента. Для неизвестных ошибок
// используется fallback, детали остаются только в логах.
func MessageFor(err error, fallback string) string {
	switch {
	case errors.Is(err, models.ErrValidation):
		return MsgBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return "Неверный логин или пароль"
	case errors.Is(err, models.ErrUnauthorized):
		return MsgUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return MsgForbidden
	case errors.Is(err, models.ErrNotFound):
		return "Не найдено"
	case errors.Is(err, models.ErrConflict):
		return "Пользователь с таким логином или почтой уже существует"
	case errors.Is(err, models.ErrAlreadyMember):
		return "Вы уже участвуете в этом мероприятии"
	case errors.Is(err, models.ErrNotMember):
		return "Вы не участвуете в этом мероприятии"
	default:
		return fallback
	}
}

// Fail пишет ответ с ошибкой, статус выбирается по err.
func Fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	render.Status(r, StatusFor(err))
	render.JSON(w, r, Error(MessageFor(err, fallback)))
}

// NewValidator возвращает валидатор с правилом datetime=<layout>,
// которого нет в validator v9. Пустая строка правилу не соответствует.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("datetime", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(fl.Param(), fl.Field().String())
		return err == nil
	})
	return v
}

// ValidationError формирует ответ на основе ошибок валидации.
// Каждое нарушение превращается в читаемый текст, тексты объединяются через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s обязательно", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s должно содержать адрес почты", err.Field()))
		case "datetime":
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s должно быть в формате %s", err.Field(), err.Param()))
		case "min", "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s имеет недопустимую длину", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s заполнено некорректно", err.Field()))
		}
	}
	return ErrorResponse{
		Error: strings.Join(errsMsgs, ", "),
	}
}
