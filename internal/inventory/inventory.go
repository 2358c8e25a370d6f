// Package inventory holds license inventories: license name to the set of
// dependency identities found under that license.
//
// An Inventory is owned by a single aggregation pass and is not safe for
// concurrent writers. License names are compared exactly; no case or whitespace
// normalization happens here (see Consolidate for explicit label merging).
// Readers always receive sorted slices so reports are reproducible.
package inventory

import (
	"sort"

	"github.com/danieljhkim/thirdparty/internal/identity"
)

// Inventory maps license names to sets of dependency identities.
// The zero value is not usable; create one with New.
type Inventory struct {
	buckets map[string]map[identity.ID]struct{}
}

// New creates an empty Inventory.
func New() *Inventory {
	return &Inventory{buckets: make(map[string]map[identity.ID]struct{})}
}

// Add records ids under license, creating the bucket if needed.
// Calling Add with no ids still creates an empty bucket.
func (inv *Inventory) Add(license string, ids ...identity.ID) {
	bucket, ok := inv.buckets[license]
	if !ok {
		bucket = make(map[identity.ID]struct{}, len(ids))
		inv.buckets[license] = bucket
	}
	for _, id := range ids {
		bucket[id] = struct{}{}
	}
}

// Merge unions other's buckets into inv. Merge order never changes the result.
func (inv *Inventory) Merge(other *Inventory) {
	if other == nil {
		return
	}
	for license, bucket := range other.buckets {
		inv.Add(license)
		for id := range bucket {
			inv.buckets[license][id] = struct{}{}
		}
	}
}

// Get returns the identities under license sorted by canonical form, or nil.
func (inv *Inventory) Get(license string) []identity.ID {
	bucket, ok := inv.buckets[license]
	if !ok || len(bucket) == 0 {
		return nil
	}
	ids := make([]identity.ID, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	identity.Sort(ids)
	return ids
}

// Has reports whether id is recorded under license.
func (inv *Inventory) Has(license string, id identity.ID) bool {
	_, ok := inv.buckets[license][id]
	return ok
}

// Contains reports whether a bucket exists for license, even an empty one.
func (inv *Inventory) Contains(license string) bool {
	_, ok := inv.buckets[license]
	return ok
}

// Remove drops id from the license bucket.
// It reports whether anything was removed; a missing license or id is a no-op.
func (inv *Inventory) Remove(license string, id identity.ID) bool {
	bucket, ok := inv.buckets[license]
	if !ok {
		return false
	}
	if _, ok := bucket[id]; !ok {
		return false
	}
	delete(bucket, id)
	return true
}

// Size returns the number of distinct license names, empty buckets included.
func (inv *Inventory) Size() int {
	return len(inv.buckets)
}

// Len returns the number of identities under license.
func (inv *Inventory) Len(license string) int {
	return len(inv.buckets[license])
}

// Licenses returns all license names in lexicographic order.
func (inv *Inventory) Licenses() []string {
	names := make([]string, 0, len(inv.buckets))
	for name := range inv.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dependencies returns every identity present under at least one license, sorted.
func (inv *Inventory) Dependencies() []identity.ID {
	seen := make(map[identity.ID]struct{})
	for _, bucket := range inv.buckets {
		for id := range bucket {
			seen[id] = struct{}{}
		}
	}
	ids := make([]identity.ID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	identity.Sort(ids)
	return ids
}

// LicensesOf returns the sorted license names id is recorded under.
func (inv *Inventory) LicensesOf(id identity.ID) []string {
	var names []string
	for _, name := range inv.Licenses() {
		if inv.Has(name, id) {
			names = append(names, name)
		}
	}
	return names
}

// Equal reports whether both inventories hold the same buckets with the same members.
func (inv *Inventory) Equal(other *Inventory) bool {
	if inv.Size() != other.Size() {
		return false
	}
	for license, bucket := range inv.buckets {
		otherBucket, ok := other.buckets[license]
		if !ok || len(otherBucket) != len(bucket) {
			return false
		}
		for id := range bucket {
			if _, ok := otherBucket[id]; !ok {
				return false
			}
		}
	}
	return true
}

// Snapshot returns license name to sorted canonical identity strings.
// Empty buckets are omitted.
func (inv *Inventory) Snapshot() map[string][]string {
	out := make(map[string][]string, len(inv.buckets))
	for _, license := range inv.Licenses() {
		ids := inv.Get(license)
		if len(ids) == 0 {
			continue
		}
		strs := make([]string, len(ids))
		for i, id := range ids {
			strs[i] = id.String()
		}
		out[license] = strs
	}
	return out
}
