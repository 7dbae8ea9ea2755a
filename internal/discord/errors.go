package discord

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError — ответ REST API с кодом не 2xx. Достаётся через errors.As:
//
//	var apiErr *discord.APIError
//	if errors.As(err, &apiErr) && apiErr.Code == discord.CodeUnknownMessage { ... }
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord: %d (code %d): %s", e.StatusCode, e.Code, e.Message)
}

// JSON-коды ошибок Discord, которые нас интересуют.
const (
	CodeUnknownChannel    = 10003
	CodeUnknownMessage    = 10008
	CodeMissingAccess     = 50001
	CodeMissingPermission = 50013
)

// IsNotFound — ресурс (канал/сообщение) не существует.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound ||
			apiErr.Code == CodeUnknownMessage || apiErr.Code == CodeUnknownChannel
	}
	return false
}

// IsForbidden — у бота нет прав на действие.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusForbidden
	}
	return false
}
