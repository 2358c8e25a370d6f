package engine

import (
	"github.com/danieljhkim/thirdparty/internal/compliance"
	"github.com/danieljhkim/thirdparty/internal/report"
)

// AggregateRequest represents a request to aggregate the licenses of a build.
type AggregateRequest struct {
	// Manifest is the location of the build manifest (path or URL)
	Manifest string

	// ToolName is the "groupId:artifactId" the tool is declared under in the manifest
	ToolName string

	// SelectionFile is the path of the license selection file
	SelectionFile string

	// MissingFile is the missing-license file path, relative to each module directory
	MissingFile string

	// Encoding of the selection and missing-license files
	Encoding string

	// IncludeAggregator merges the root module's own inventory as well
	IncludeAggregator bool

	// ExcludedPackagings lists module packagings that are never merged
	ExcludedPackagings []string

	// LicenseMerges are "Main|Alias|Alias" rules applied before resolution
	LicenseMerges []string

	// Policy holds the included/excluded licenses and the unknown-license label
	Policy compliance.Policy

	// FailOnMissing fails the pass when unsafe dependencies remain
	FailOnMissing bool

	// FailOnBlacklist fails the pass when a forbidden license is used
	FailOnBlacklist bool

	// ReportPath is where the third-party report is written
	ReportPath string

	// Report controls the report format
	Report report.Options

	// Force rewrites the report even when it is up to date
	Force bool

	// DryRun performs every step except writing files
	DryRun bool

	// Skip returns immediately without reading anything
	Skip bool

	// Verbose logs per-module and per-license counts
	Verbose bool

	// MetricsFile is an optional Prometheus textfile destination
	MetricsFile string
}
