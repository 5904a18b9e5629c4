package gatt

import (
	"errors"

	"github.com/godbus/dbus/v5"
)

// An Error is a GATT request error carrying the D-Bus error name that is
// reported across the bus. Handlers return (or wrap) one of the sentinel
// values below; anything else surfaces as ErrFailed.
type Error struct {
	Name    string // D-Bus error name
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	// ErrInvalidArgs is returned when a property query names an
	// interface the target object does not declare.
	ErrInvalidArgs = &Error{Name: "org.freedesktop.DBus.Error.InvalidArgs", Message: "invalid arguments"}

	// ErrNotSupported is returned by every operation a characteristic
	// or descriptor does not override.
	ErrNotSupported = &Error{Name: "org.bluez.Error.NotSupported", Message: "operation is not supported"}

	ErrNotPermitted = &Error{Name: "org.bluez.Error.NotPermitted", Message: "operation is not permitted"}

	ErrInvalidValueLength = &Error{Name: "org.bluez.Error.InvalidValueLength", Message: "invalid value length"}

	// ErrFailed is the generic failure, and the mapping for any error
	// that is not an *Error.
	ErrFailed = &Error{Name: "org.bluez.Error.Failed", Message: "operation failed"}
)

// dbusError converts err at the bus boundary. Exactly one error kind is
// reported per failure: a typed *Error keeps its name, everything else
// maps to ErrFailed.
func dbusError(err error) *dbus.Error {
	var ge *Error
	if errors.As(err, &ge) {
		return dbus.NewError(ge.Name, []interface{}{err.Error()})
	}
	return dbus.NewError(ErrFailed.Name, []interface{}{err.Error()})
}
