// Package apperr holds the sentinel errors for the error taxonomy in
// spec.md §7. Callers that add positional context wrap these with
// github.com/pkg/errors (Wrap/Wrapf) so errors.Is/errors.Cause still
// recovers the sentinel for taxonomy-based handling, grounded on
// icexin-gocraft's use of pkg/errors for its own error chains.
package apperr

import "errors"

var (
	// ErrInvalidLayoutVersion is returned when loading a Layout whose
	// version field is not 2.
	ErrInvalidLayoutVersion = errors.New("invalid layout version")

	// ErrMalformedChunkData is returned when a chunk's serialised form is
	// internally inconsistent (RLE run-length sum != 4096, unknown format
	// tag, negative indices).
	ErrMalformedChunkData = errors.New("malformed chunk data")

	// ErrInvalidMeshHeader is returned when a binary mesh cache's magic or
	// version does not match the expected "VMSH" v1 header.
	ErrInvalidMeshHeader = errors.New("invalid mesh header")

	// ErrUnknownPrefab names the case of a PrefabInstance referencing a
	// prefab id the library does not contain. prefab.Resolver does not
	// return it: it logs a warning and skips the instance.
	ErrUnknownPrefab = errors.New("unknown prefab")

	// ErrInvalidRotation is returned when a yaw is not one of {0,90,180,270}.
	ErrInvalidRotation = errors.New("invalid rotation")
)
