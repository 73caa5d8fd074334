package tx

import "errors"

// ErrSessionClosed is returned when a closed session is used.
var ErrSessionClosed = errors.New("session is closed")
