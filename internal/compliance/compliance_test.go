package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/thirdparty/internal/identity"
	"github.com/danieljhkim/thirdparty/internal/inventory"
	"github.com/danieljhkim/thirdparty/internal/selection"
)

var (
	libA = identity.MustNew("com.acme", "a", "1.0")
	libB = identity.MustNew("com.acme", "b", "2.0")
	libC = identity.MustNew("org.other", "c", "3.1")
)

func sample() *inventory.Inventory {
	inv := inventory.New()
	inv.Add("Apache-2.0", libA)
	inv.Add("GPL-3.0", libB)
	inv.Add(DefaultUnknownLicense, libC)
	inv.Add("MIT")
	return inv
}

func TestUnsafe(t *testing.T) {
	assert.Equal(t, []identity.ID{libC}, Unsafe(sample(), Policy{}))
	assert.Empty(t, Unsafe(sample(), Policy{UnknownLicense: "No license"}))
}

func TestCheckForbidden(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   []Forbidden
	}{
		{
			name:   "no policy",
			policy: Policy{},
			want:   nil,
		},
		{
			name:   "excluded license",
			policy: Policy{Excluded: []string{"GPL-3.0"}},
			want:   []Forbidden{{License: "GPL-3.0", Reason: Excluded, Dependencies: []identity.ID{libB}}},
		},
		{
			name:   "included list forbids everything else",
			policy: Policy{Included: []string{"Apache-2.0"}},
			want:   []Forbidden{{License: "GPL-3.0", Reason: NotIncluded, Dependencies: []identity.ID{libB}}},
		},
		{
			name:   "empty bucket is not reported",
			policy: Policy{Excluded: []string{"MIT"}},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckForbidden(sample(), tt.policy))
		})
	}
}

func TestApplyMissing(t *testing.T) {
	inv := sample()
	mapping, err := selection.FromMap(map[string]string{
		"org.other--c--3.1": "BSD-3-Clause",
		"com.acme--a--1.0":  "MIT",
	})
	require.NoError(t, err)

	moved := ApplyMissing(inv, Policy{}, mapping)

	assert.Equal(t, []identity.ID{libC}, moved)
	assert.True(t, inv.Has("BSD-3-Clause", libC))
	assert.Empty(t, Unsafe(inv, Policy{}))
	assert.False(t, inv.Has("MIT", libA), "only unsafe dependencies are remapped")
}
