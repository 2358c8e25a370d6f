// Package engine provides the core business logic for thirdparty operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// lower-level operations. It reads the build manifest, merges every module's
// local license inventory, resolves multi-license dependencies against the
// selection file and prunes the merged inventory before handing it to the
// compliance checks and the report writer.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Aggregate: One aggregation pass over a multi-module build
//   - prune: Applies a removal plan to the merged inventory
package engine

import (
	"github.com/charmbracelet/log"
	"github.com/viant/afs"

	"github.com/danieljhkim/thirdparty/internal/clock"
	"github.com/danieljhkim/thirdparty/internal/fsops"
	"github.com/danieljhkim/thirdparty/internal/hash"
	"github.com/danieljhkim/thirdparty/internal/reactor"
)

// Engine orchestrates all thirdparty operations.
// It is the main API surface called by the CLI.
type Engine struct {
	storage    afs.Service
	source     reactor.Source
	fs         fsops.FS
	hasher     hash.Hasher
	clock      clock.Clock
	logger     *log.Logger
	descriptor Descriptor
}

// Option configures optional Engine behavior.
type Option func(*Engine)

// WithDescriptor sets how the engine finds the tool's own coordinates when the
// manifest does not declare them. A nil descriptor disables the fallback.
func WithDescriptor(d Descriptor) Option {
	return func(e *Engine) {
		e.descriptor = d
	}
}

// New creates a new Engine with the given dependencies.
// The descriptor defaults to BuildInfoDescriptor.
func New(
	storage afs.Service,
	source reactor.Source,
	fs fsops.FS,
	hasher hash.Hasher,
	clk clock.Clock,
	logger *log.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		storage:    storage,
		source:     source,
		fs:         fs,
		hasher:     hasher,
		clock:      clk,
		logger:     logger,
		descriptor: BuildInfoDescriptor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
