package engine

import "errors"

var (
	// ErrUnresolvableSelf indicates the tool could not determine its own coordinates.
	ErrUnresolvableSelf = errors.New("cannot resolve own tool coordinates")

	// ErrMissingLocalInventory indicates a participating module has no readable inventory.
	ErrMissingLocalInventory = errors.New("missing local inventory")

	// ErrForbiddenLicense indicates a dependency uses a forbidden license.
	ErrForbiddenLicense = errors.New("forbidden license in use")

	// ErrMissingLicense indicates dependencies without a known license remain.
	ErrMissingLicense = errors.New("dependencies with missing license")
)
