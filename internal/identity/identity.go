// Package identity defines the dependency identity used as a key throughout thirdparty.
//
// An ID is a (groupId, artifactId, version) triple. Module inventories and the
// hand-written override files both decode into this one comparable type, so two
// independently produced representations of the same release always compare equal.
//
// Two textual forms exist:
//   - canonical: "<groupId>:<artifactId>:<version>"
//   - override key: "<groupId>--<artifactId>--<version>" (properties files cannot use ':' in keys)
package identity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	// Separator joins the fields of the canonical form.
	Separator = ":"

	// OverrideSeparator joins the fields of an override-file key.
	OverrideSeparator = "--"
)

// ErrMalformedKey indicates a string that does not decode to a well-formed identity.
var ErrMalformedKey = errors.New("malformed dependency key")

// ID identifies one library release.
type ID struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// New creates an ID from its three fields.
// Fields must be non-empty and must not contain either separator, which keeps the
// canonical and override-key forms a bijection.
func New(groupID, artifactID, version string) (ID, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"groupId", groupID},
		{"artifactId", artifactID},
		{"version", version},
	}
	for _, f := range fields {
		if f.value == "" {
			return ID{}, fmt.Errorf("%w: empty %s", ErrMalformedKey, f.name)
		}
		if strings.Contains(f.value, Separator) || strings.Contains(f.value, OverrideSeparator) {
			return ID{}, fmt.Errorf("%w: %s %q contains a separator", ErrMalformedKey, f.name, f.value)
		}
	}
	return ID{GroupID: groupID, ArtifactID: artifactID, Version: version}, nil
}

// MustNew is like New but panics on error. Intended for tests and constants.
func MustNew(groupID, artifactID, version string) ID {
	id, err := New(groupID, artifactID, version)
	if err != nil {
		panic(err)
	}
	return id
}

// Parse decodes the canonical "<groupId>:<artifactId>:<version>" form.
func Parse(s string) (ID, error) {
	parts := strings.Split(s, Separator)
	if len(parts) != 3 {
		return ID{}, fmt.Errorf("%w: %q must have exactly three fields", ErrMalformedKey, s)
	}
	id, err := New(parts[0], parts[1], parts[2])
	if err != nil {
		return ID{}, fmt.Errorf("%q: %w", s, err)
	}
	return id, nil
}

// ParseOverrideKey decodes a key from an override or missing file.
// Every "--" is treated as a field separator before parsing.
func ParseOverrideKey(raw string) (ID, error) {
	return Parse(strings.ReplaceAll(raw, OverrideSeparator, Separator))
}

// String returns the canonical form. It is also the display form used in diagnostics.
func (id ID) String() string {
	return id.GroupID + Separator + id.ArtifactID + Separator + id.Version
}

// OverrideKey returns the form used as a key in override files.
func (id ID) OverrideKey() string {
	return id.GroupID + OverrideSeparator + id.ArtifactID + OverrideSeparator + id.Version
}

// Less orders IDs by their canonical form.
func (id ID) Less(other ID) bool {
	return id.String() < other.String()
}

// Sort sorts ids in place by canonical form.
func Sort(ids []ID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Less(ids[j])
	})
}

// MarshalText encodes the canonical form, so IDs serialize as plain strings.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes the canonical form.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
