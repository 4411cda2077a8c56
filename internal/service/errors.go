package service

import (
	"errors"
	"sort"
	"strings"
)

// ErrVehicleAlreadySold guards the one-sale-per-vehicle rule on outbound create
var ErrVehicleAlreadySold = errors.New("vehicle already has an outbound record")

// FieldErrors carries per-field validation messages so handlers can return
// them alongside the joined human-readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// ErrIfAny returns the map as an error only when at least one field failed
func (e FieldErrors) ErrIfAny() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
