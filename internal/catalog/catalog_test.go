package catalog

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_AllNamesResolve(t *testing.T) {
	c := Default()
	require.Equal(t, len(defaultEntries), c.Len())
	require.Equal(t, 104, c.Len())

	for _, name := range c.Names() {
		code, err := c.Lookup(name)
		assert.NoError(t, err, name)
		assert.NotEmpty(t, code, name)
	}
}

func TestDefault_KnownCodes(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		code string
	}{
		{"Hindi", "hi"},
		{"English", "en"},
		{"French", "fr"},
		{"German", "de"},
		{"Hebrew", "iw"},
		{"Chinese (Simplified)", "zh-CN"},
		{"Hawaiian", "haw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := c.Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	c := Default()

	for _, name := range []string{"Klingon", "", "Englishh"} {
		_, err := c.Lookup(name)
		assert.True(t, errors.Is(err, ErrUnknownLanguage), "name %q: got %v", name, err)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	code, err := Default().Lookup("  hindi ")
	require.NoError(t, err)
	assert.Equal(t, "hi", code)
}

func TestDefault_TargetPresent(t *testing.T) {
	_, err := Default().Lookup(DefaultTarget)
	assert.NoError(t, err)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr bool
	}{
		{"valid", []Entry{{"English", "en"}, {"Hindi", "hi"}}, false},
		{"duplicate name", []Entry{{"English", "en"}, {"English", "en-GB"}}, true},
		{"empty name", []Entry{{"", "en"}}, true},
		{"empty code", []Entry{{"English", " "}}, true},
		{"empty table", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNameOf(t *testing.T) {
	c := Default()

	name, ok := c.NameOf("hi")
	assert.True(t, ok)
	assert.Equal(t, "Hindi", name)

	_, ok = c.NameOf("xx")
	assert.False(t, ok)
}

func TestNames_Sorted(t *testing.T) {
	names := Default().Names()
	assert.True(t, sort.StringsAreSorted(names))
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c := Default()
	entries := c.Entries()
	entries[0].Code = "zz"

	code, err := c.Lookup(entries[0].Name)
	require.NoError(t, err)
	assert.NotEqual(t, "zz", code)
}
