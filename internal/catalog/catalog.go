// Package catalog maps human-readable language names to the codes understood
// by the translation backends. A Catalog is built once and never mutated.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultTarget is the language preselected when none is given.
const DefaultTarget = "Hindi"

// ErrUnknownLanguage is returned by Lookup for a name absent from the catalog.
var ErrUnknownLanguage = errors.New("unknown language")

// Entry is a single display name → backend code pair.
type Entry struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Catalog is an immutable language lookup table.
type Catalog struct {
	entries []Entry
	byName  map[string]string
	byFold  map[string]string
	byCode  map[string]string
}

// New builds a catalog from entries. Names must be unique and neither names
// nor codes may be empty.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]string, len(entries)),
		byFold:  make(map[string]string, len(entries)),
		byCode:  make(map[string]string, len(entries)),
	}

	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("catalog entry with code %q has empty name", e.Code)
		}
		if strings.TrimSpace(e.Code) == "" {
			return nil, fmt.Errorf("catalog entry %q has empty code", e.Name)
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("duplicate language name %q", e.Name)
		}

		c.entries = append(c.entries, e)
		c.byName[e.Name] = e.Code
		c.byFold[strings.ToLower(e.Name)] = e.Code
		if _, seen := c.byCode[e.Code]; !seen {
			c.byCode[e.Code] = e.Name
		}
	}

	return c, nil
}

// Lookup returns the backend code for a display name. An exact match wins;
// otherwise the name is matched case-insensitively.
func (c *Catalog) Lookup(name string) (string, error) {
	if code, ok := c.byName[name]; ok {
		return code, nil
	}
	if code, ok := c.byFold[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
}

// NameOf returns the display name registered for code.
func (c *Catalog) NameOf(code string) (string, bool) {
	name, ok := c.byCode[code]
	return name, ok
}

// Names returns all display names in alphabetical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Entries returns a copy of the entries in construction order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Len() int {
	return len(c.entries)
}
