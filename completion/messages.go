package completion

import (
	"github.com/kbukum/inkflow/errors"
)

const (
	networkStreamHint = "Network error. Consider disabling Stream Mode in settings.\nError: "
	networkPrefix     = "Network error\nError: "
	unknownPrefix     = "Unknown error\nError: "
)

// FailureMessage returns the notice text for a failed session. streaming
// tells whether the failing request was a streamed one.
func FailureMessage(err error, streaming bool) string {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return err.Error()
	}

	switch appErr.Code {
	case errors.ErrCodeConnectionFailed, errors.ErrCodeTimeout:
		detail := appErr.Message
		if appErr.Cause != nil {
			detail = appErr.Cause.Error()
		}
		if streaming {
			return networkStreamHint + detail
		}
		return networkPrefix + detail
	case errors.ErrCodeInternal:
		if appErr.Cause != nil {
			return unknownPrefix + appErr.Cause.Error()
		}
		return appErr.Message
	default:
		// configuration, status and decode errors carry their user message
		return appErr.Message
	}
}
