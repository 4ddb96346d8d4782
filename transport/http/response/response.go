package response

import (
	"encoding/json"
	"net/http"

	"gamasa/infras/otel"
	"gamasa/shared/constant"
	"gamasa/shared/failure"

	"github.com/rs/zerolog/log"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError maps err to its status code. Server side errors are logged and replaced with a
// generic message.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", code).Msg("request failed")
	}

	writeError(writer, code, err)
}

// WithTracedError records err on the handler scope and logs it under msg before responding.
// Client errors log at warn level.
func WithTracedError(writer http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)

	code := failure.GetCode(err)

	event := log.Warn()
	if code >= http.StatusInternalServerError {
		event = log.Error()
	}

	event.Err(err).Int("status", code).Msg(msg)

	writeError(writer, code, err)
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func writeError(writer http.ResponseWriter, code int, err error) {
	message := failure.PublicMessage(err)

	write(writer, code, Error{Error: &message})
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode response")
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}
