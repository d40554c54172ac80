package domain

import (
	"fmt"
	"strings"
)

// Mode selects which precomputed backend scenario is displayed.
type Mode string

const (
	ModeNormal  Mode = "normal"
	ModeTraffic Mode = "traffic"
)

// Modes lists every valid mode in display order.
var Modes = []Mode{ModeNormal, ModeTraffic}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNormal, ModeTraffic:
		return m, nil
	default:
		return "", fmt.Errorf("parse mode: unknown mode %q", s)
	}
}

func (m Mode) String() string { return string(m) }
