package dispatch

import (
	"fmt"
	"strings"
)

// Engine selects the translation backend family.
type Engine int

const (
	// Fast is the general-purpose backend covering every catalog language.
	Fast Engine = iota
	// Accurate is the neural backend restricted to a fixed language pair.
	Accurate
)

func (e Engine) String() string {
	switch e {
	case Fast:
		return "fast"
	case Accurate:
		return "accurate"
	}
	return fmt.Sprintf("engine(%d)", int(e))
}

// ParseEngine accepts "fast" or "accurate" in any case.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast", "":
		return Fast, nil
	case "accurate":
		return Accurate, nil
	}
	return Fast, fmt.Errorf("unknown engine %q (want fast or accurate)", s)
}

// Set and Type let an Engine be used directly as a pflag value.
func (e *Engine) Set(s string) error {
	v, err := ParseEngine(s)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func (e *Engine) Type() string {
	return "engine"
}
