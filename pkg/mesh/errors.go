package mesh

import "errors"

var (
	// ErrIncompatibleMerge is returned when two meshes with different pending
	// transforms are merged.
	ErrIncompatibleMerge = errors.New("mesh: incompatible merge")

	// ErrPendingTransform is returned when geometry is added to a World that
	// still has a queued transform.
	ErrPendingTransform = errors.New("mesh: world has a pending transform")

	// ErrBadDocument is returned when a JSON mesh document is malformed.
	ErrBadDocument = errors.New("mesh: bad document")
)
