package storage

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/pixil98/go-errors"
)

// AssetVersion is the envelope version written by Save and the newest one
// this build reads.
const AssetVersion = 1

// Identifiers double as file names and as words players type, so they are
// kept lowercase.
var identifierPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidatingSpec is implemented by every asset payload.
type ValidatingSpec interface {
	Validate() error
}

// Asset is the on-disk envelope of a stored record.
type Asset[T ValidatingSpec] struct {
	Version    uint   `json:"version"`
	Identifier string `json:"id"`
	Spec       T      `json:"spec"`
}

func (a *Asset[T]) Id() string {
	return a.Identifier
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	switch {
	case a.Version == 0:
		el.Add(fmt.Errorf("version must be set"))
	case a.Version > AssetVersion:
		el.Add(fmt.Errorf("version %d is newer than the supported %d", a.Version, AssetVersion))
	}

	el.Add(validateIdentifier(a.Identifier))

	if isNil(a.Spec) {
		el.Add(fmt.Errorf("spec must be set"))
	} else if err := a.Spec.Validate(); err != nil {
		el.Add(fmt.Errorf("spec: %w", err))
	}

	return el.Err()
}

func validateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("id must be set")
	}
	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("id %q must be lowercase letters, digits and hyphens", id)
	}
	return nil
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
