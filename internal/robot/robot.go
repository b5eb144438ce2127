package robot

import (
	"errors"
	"fmt"
	"strings"
)

// ID identifies a robot configuration.
type ID string

const (
	PR2   ID = "pr2"
	Tiago ID = "tiago"
	HSR   ID = "hsr"
)

var ErrUnknown = errors.New("unknown robot")

// All returns the supported robots in a stable order.
func All() []ID {
	return []ID{PR2, Tiago, HSR}
}

func (id ID) String() string {
	return string(id)
}

func (id ID) Valid() bool {
	switch id {
	case PR2, Tiago, HSR:
		return true
	default:
		return false
	}
}

// Normalize lower-cases and trims value without checking it is known.
func Normalize(value string) ID {
	return ID(strings.ToLower(strings.TrimSpace(value)))
}

// Parse normalizes case and whitespace before matching.
func Parse(value string) (ID, error) {
	id := Normalize(value)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknown, value)
	}
	return id, nil
}

func Names() []string {
	ids := All()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}
