package glib

import "unsafe"

// MessagePtr exposes the borrowed message pointer so tests can check that
// the accessor hands back the same native string every time rather than a
// fresh copy.
func (e *Error) MessagePtr() unsafe.Pointer {
	return e.messagePtr()
}
