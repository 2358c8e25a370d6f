// Package selection loads operator-authored license selections.
//
// A selection file pins one license for a dependency that is recorded under
// several licenses. It uses the properties syntax with "--" in place of ':' in keys:
//
//	org.example--widget--1.2.0=Apache-2.0
//
// The same syntax backs the missing-license file, so both go through Parse.
package selection

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/magiconair/properties"

	"github.com/danieljhkim/thirdparty/internal/identity"
)

// ErrUnsupportedEncoding indicates an encoding the properties loader cannot read.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// Selection maps dependency identities to the chosen license name.
// It is immutable once built; absent identities mean no preference.
type Selection struct {
	chosen map[identity.ID]string
}

// Empty returns a selection with no entries.
func Empty() *Selection {
	return &Selection{chosen: map[identity.ID]string{}}
}

// FromMap decodes raw override-key entries. Values are trimmed; no other
// normalization is applied. Any undecodable key aborts the whole load.
func FromMap(raw map[string]string) (*Selection, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	chosen := make(map[identity.ID]string, len(raw))
	for _, key := range keys {
		id, err := identity.ParseOverrideKey(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("invalid key %q: %w", key, err)
		}
		chosen[id] = strings.TrimSpace(raw[key])
	}
	return &Selection{chosen: chosen}, nil
}

// Lookup returns the chosen license for id.
func (s *Selection) Lookup(id identity.ID) (string, bool) {
	license, ok := s.chosen[id]
	return license, ok
}

// Len returns the number of entries.
func (s *Selection) Len() int {
	return len(s.chosen)
}

// Encoding resolves a configured encoding name.
func Encoding(name string) (properties.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(name, "_", "-")) {
	case "", "UTF-8", "UTF8":
		return properties.UTF8, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return properties.ISO_8859_1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
}

// Parse decodes selection entries from properties-formatted data.
func Parse(data []byte, encoding string) (*Selection, error) {
	enc, err := Encoding(encoding)
	if err != nil {
		return nil, err
	}

	loader := &properties.Loader{Encoding: enc, DisableExpansion: true}
	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse properties: %w", err)
	}
	return FromMap(props.Map())
}
