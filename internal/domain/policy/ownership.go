// Package policy holds the single-owner authorization rule shared by every
// resource handler.
package policy

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// Authorize allows callerID to act on resource only if it exists and ownerOf
// reports callerID as its owner. Existence is checked first so a caller
// probing an unknown id learns nothing beyond "not found".
func Authorize[T any](resource *T, callerID string, ownerOf func(*T) string) error {
	if resource == nil {
		return ErrNotFound
	}
	if callerID == "" || ownerOf(resource) != callerID {
		return ErrForbidden
	}
	return nil
}
