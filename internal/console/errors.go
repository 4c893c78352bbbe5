package console

import (
	"errors"
	"net/http"

	"github.com/rpggio/scriptdesk/internal/adapter"
	"github.com/rpggio/scriptdesk/internal/desk"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/rest"
	"github.com/rpggio/scriptdesk/internal/transport"
)

// errConfirmationRequired is returned for directory deletes without ?confirm=true.
var errConfirmationRequired = errors.New("confirmation required")

// statusOf maps an action error to an HTTP status.
func statusOf(err error) int {
	var upstream *rest.Error
	switch {
	case errors.Is(err, listener.ErrInvalidInput),
		errors.Is(err, scheduled.ErrInvalidInput),
		errors.Is(err, registry.ErrInvalidInput),
		errors.Is(err, restscript.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, adapter.ErrDeclined), errors.Is(err, errConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, adapter.ErrNotReady), errors.Is(err, adapter.ErrUnmounted):
		return http.StatusServiceUnavailable
	case errors.Is(err, desk.ErrUnknownSection), errors.Is(err, desk.ErrItemNotFound):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		switch upstream.Status {
		case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
			return upstream.Status
		}
		return http.StatusBadGateway
	}
	var fetch *adapter.FetchError
	if errors.As(err, &fetch) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// messageOf prefers the upstream message so form errors reach the user intact.
func messageOf(err error) string {
	var upstream *rest.Error
	if errors.As(err, &upstream) && upstream.Message != "" {
		return upstream.Message
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, err error) {
	transport.WriteError(w, statusOf(err), messageOf(err))
}
