package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/scriptdesk/internal/adapter"
	"github.com/rpggio/scriptdesk/internal/desk"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/rest"
)

var errUnauthorized = errors.New("unauthorized")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps desk errors to MCP error codes. Unknown errors pass through.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var upstream *rest.Error
	var fetch *adapter.FetchError
	switch {
	case errors.Is(err, adapter.ErrDeclined):
		return &APIError{Code: "CONFIRMATION_REQUIRED", Message: "action not confirmed", RecoveryHint: "repeat the call with confirm=true"}
	case errors.Is(err, adapter.ErrNotReady):
		return &APIError{Code: "NOT_READY", Message: "section not loaded", RecoveryHint: "call reload"}
	case errors.Is(err, adapter.ErrUnmounted):
		return &APIError{Code: "UNMOUNTED", Message: "section is shutting down"}
	case errors.Is(err, desk.ErrUnknownSection):
		return &APIError{Code: "UNKNOWN_SECTION", Message: err.Error(), RecoveryHint: "use listeners, scheduled, registry or rest"}
	case errors.Is(err, desk.ErrItemNotFound):
		return &APIError{Code: "ITEM_NOT_FOUND", Message: err.Error(), RecoveryHint: "call list_items"}
	case errors.Is(err, listener.ErrInvalidInput),
		errors.Is(err, scheduled.ErrInvalidInput),
		errors.Is(err, registry.ErrInvalidInput),
		errors.Is(err, restscript.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.As(err, &upstream):
		return &APIError{Code: "UPSTREAM_REJECTED", Message: upstream.Message}
	case errors.As(err, &fetch):
		return &APIError{Code: "UPSTREAM_UNAVAILABLE", Message: err.Error(), RecoveryHint: "retry later"}
	default:
		return err
	}
}
