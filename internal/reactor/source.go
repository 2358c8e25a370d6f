package reactor

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/thirdparty/internal/identity"
	"github.com/danieljhkim/thirdparty/internal/inventory"
)

// ScanGoal is the goal name appended to the tool coordinates in a scan hint.
const ScanGoal = "add-third-party"

// ScanHint identifies the tool and goal whose per-module output is requested.
type ScanHint struct {
	Tool identity.ID
	Goal string
}

// NewScanHint creates the hint for the per-module license scan of tool.
func NewScanHint(tool identity.ID) ScanHint {
	return ScanHint{Tool: tool, Goal: ScanGoal}
}

// String returns "<groupId>:<artifactId>:<version>:<goal>".
func (h ScanHint) String() string {
	return h.Tool.String() + identity.Separator + h.Goal
}

// Source provides the local license inventory of a module.
type Source interface {
	Fetch(ctx context.Context, hint ScanHint, mod Module) (*inventory.Inventory, error)
}

// LocalInventory is the on-disk form of a module's inventory.
type LocalInventory struct {
	// Generator is the "groupId:artifactId:version" of the tool that wrote the file
	Generator string `yaml:"generator,omitempty"`

	// Licenses maps license names to dependency identities
	Licenses map[string][]identity.ID `yaml:"licenses"`
}

// FileSource reads each module's local inventory file.
type FileSource struct {
	fs     afs.Service
	logger *log.Logger
}

// NewFileSource creates a FileSource.
func NewFileSource(fs afs.Service, logger *log.Logger) *FileSource {
	return &FileSource{fs: fs, logger: logger}
}

// Fetch reads and decodes the inventory of mod.
func (s *FileSource) Fetch(ctx context.Context, hint ScanHint, mod Module) (*inventory.Inventory, error) {
	location := mod.InventoryURL()

	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}

	var local LocalInventory
	if err := yaml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", location, err)
	}

	if local.Generator != "" && !sameTool(local.Generator, hint.Tool) {
		s.logger.Warn("Inventory was written by another tool",
			"module", mod.ID.String(), "generator", local.Generator, "expected", hint.String())
	}

	inv := inventory.New()
	for license, ids := range local.Licenses {
		inv.Add(license, ids...)
	}

	s.logger.Debug("Read local inventory", "module", mod.ID.String(), "location", location, "licenses", inv.Size())
	return inv, nil
}

// sameTool compares groupId and artifactId only; versions may differ across modules.
func sameTool(generator string, tool identity.ID) bool {
	parts := strings.Split(generator, identity.Separator)
	if len(parts) < 2 {
		return false
	}
	return parts[0] == tool.GroupID && parts[1] == tool.ArtifactID
}
