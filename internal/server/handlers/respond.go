package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/blogapi/internal/apperror"
	"github.com/iudanet/blogapi/pkg/api"
)

// maxBodyBytes ограничивает размер читаемого тела запроса
const maxBodyBytes = 1 << 20

// WriteJSON отправляет JSON ответ
func WriteJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError отправляет JSON ответ с ошибкой {"error": "..."}.
// Причина внутренних ошибок логируется, но клиенту не отдаётся
func WriteError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	appErr := apperror.From(err)

	if appErr.Kind == apperror.KindInternal {
		logger.ErrorContext(ctx, "internal error", slog.Any("error", appErr.Err))
	}

	WriteJSON(w, logger, api.ErrorResponse{Error: appErr.Message}, appErr.Status())
}

// NotFound отвечает 404 на неизвестные маршруты
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(r.Context(), w, logger, apperror.NotFound("Not found"))
	}
}

// MethodNotAllowed отвечает 405 на известный маршрут с неподдерживаемым методом
func MethodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(r.Context(), w, logger, apperror.MethodNotAllowed())
	}
}

// decodeBody читает тело как JSON объект.
// Пустое, не-JSON или не-объектное тело считается пустым объектом
func decodeBody(r *http.Request) map[string]any {
	body := map[string]any{}
	if r.Body == nil {
		return body
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(raw) == 0 {
		return body
	}

	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{}
	}

	return body
}

// bodyString возвращает строковое поле тела; отсутствующие и нестроковые поля дают ""
func bodyString(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

// trimmedString возвращает строковое поле тела без пробелов по краям
func trimmedString(body map[string]any, key string) string {
	return strings.TrimSpace(bodyString(body, key))
}
