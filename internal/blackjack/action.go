package blackjack

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAction is returned when an action code is not H, ST, D or SP.
var ErrInvalidAction = errors.New("invalid action")

// Action is a player decision.
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
)

// Actions lists every action in display order.
var Actions = []Action{Hit, Stand, Double, Split}

// String returns the short action code used at the input boundary.
func (a Action) String() string {
	switch a {
	case Hit:
		return "H"
	case Stand:
		return "ST"
	case Double:
		return "D"
	case Split:
		return "SP"
	default:
		return "?"
	}
}

// Name returns the lowercase action name, e.g. "double".
func (a Action) Name() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	default:
		return "unknown"
	}
}

// ParseAction parses an action code (H, ST, D, SP) or name, case-insensitively.
func ParseAction(s string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "H", "HIT":
		return Hit, nil
	case "ST", "STAND":
		return Stand, nil
	case "D", "DOUBLE":
		return Double, nil
	case "SP", "SPLIT":
		return Split, nil
	}
	return 0, fmt.Errorf("%w: %q (use H, ST, D, SP)", ErrInvalidAction, s)
}

// MarshalText implements encoding.TextMarshaler so actions travel as codes.
func (a Action) MarshalText() ([]byte, error) {
	if a < Hit || a > Split {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAction, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
