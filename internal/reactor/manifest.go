// Package reactor describes the modules of a multi-module build and reads the
// license inventory each module's own scan left behind.
//
// The manifest lists modules in build-declared order. Every module publishes a
// local inventory file (YAML) that maps license names to dependency identities.
// Manifests and inventories are read through viant/afs, so they may live on
// local disk or behind any URL scheme afs supports.
package reactor

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/thirdparty/internal/identity"
)

const (
	// DefaultManifest is the manifest file name looked up in the project directory.
	DefaultManifest = "thirdparty-reactor.yaml"

	// DefaultInventory is the local inventory path relative to a module directory.
	DefaultInventory = "target/thirdparty/inventory.yaml"

	// DefaultToolName is the groupId:artifactId the tool registers under in manifests.
	DefaultToolName = "com.github.danieljhkim:thirdparty"
)

// Module is one participant of the build.
type Module struct {
	// ID is the module's own coordinates
	ID identity.ID `yaml:"id"`

	// Packaging is the module packaging type (jar, pom, war, ...)
	Packaging string `yaml:"packaging"`

	// Dir is the module directory, relative to the manifest unless absolute or a URL
	Dir string `yaml:"dir"`

	// Inventory is the local inventory path relative to Dir (default: DefaultInventory)
	Inventory string `yaml:"inventory,omitempty"`

	// Root marks the aggregator's own top-level module
	Root bool `yaml:"-"`
}

// InventoryURL returns the location of the module's local inventory.
func (m Module) InventoryURL() string {
	if m.Inventory == "" {
		return m.Resolve(DefaultInventory)
	}
	return m.Resolve(m.Inventory)
}

// Resolve returns the location of rel inside the module directory.
// Absolute paths and URLs are returned unchanged.
func (m Module) Resolve(rel string) string {
	if IsAbsolute(rel) {
		return rel
	}
	return url.Join(m.Dir, rel)
}

// Manifest is the ordered module list of one build.
type Manifest struct {
	// Root is the aggregator module's identity
	Root identity.ID `yaml:"root"`

	// Modules are all build participants in declared order
	Modules []Module `yaml:"modules"`

	// Plugins maps "groupId:artifactId" to the version bound in the build
	Plugins map[string]string `yaml:"plugins,omitempty"`

	// PluginManagement maps "groupId:artifactId" to a managed version
	PluginManagement map[string]string `yaml:"pluginManagement,omitempty"`

	// Location is where the manifest was read from
	Location string `yaml:"-"`
}

// Parse decodes a manifest. Relative module directories are resolved against baseURL.
func Parse(data []byte, baseURL string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	if m.Root == (identity.ID{}) {
		return nil, fmt.Errorf("manifest has no root module")
	}

	seen := make(map[identity.ID]bool, len(m.Modules))
	for i := range m.Modules {
		mod := &m.Modules[i]
		if mod.ID == (identity.ID{}) {
			return nil, fmt.Errorf("module %d has no id", i)
		}
		if seen[mod.ID] {
			return nil, fmt.Errorf("module %s declared twice", mod.ID)
		}
		seen[mod.ID] = true

		mod.Root = mod.ID == m.Root
		if mod.Dir == "" {
			mod.Dir = "."
		}
		if !IsAbsolute(mod.Dir) && baseURL != "" {
			mod.Dir = url.Join(baseURL, mod.Dir)
		}
	}

	return &m, nil
}

// Load reads and parses the manifest at location.
func Load(ctx context.Context, fs afs.Service, location string) (*Manifest, error) {
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", location, err)
	}

	m, err := Parse(data, parentURL(location))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	m.Location = location
	return m, nil
}

// ResolveTool looks up the tool named "groupId:artifactId" among the build's
// plugins, then its plugin management.
func (m *Manifest) ResolveTool(name string) (identity.ID, bool) {
	parts := strings.Split(name, identity.Separator)
	if len(parts) != 2 {
		return identity.ID{}, false
	}

	for _, versions := range []map[string]string{m.Plugins, m.PluginManagement} {
		version, ok := versions[name]
		if !ok || version == "" {
			continue
		}
		id, err := identity.New(parts[0], parts[1], version)
		if err != nil {
			continue
		}
		return id, true
	}
	return identity.ID{}, false
}

// IsAbsolute reports whether location is an absolute path or a URL.
func IsAbsolute(location string) bool {
	return strings.HasPrefix(location, "/") || strings.Contains(location, "://")
}

func parentURL(location string) string {
	idx := strings.LastIndex(location, "/")
	switch {
	case idx < 0:
		return "."
	case idx == 0:
		return "/"
	default:
		return location[:idx]
	}
}
