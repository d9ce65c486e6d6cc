//go:build !preview

package main

import "fmt"

// runPreview's default build has no OpenGL/GLFW dependency: the real
// viewer only exists when built with -tags preview (SPEC_FULL.md §4.12),
// so every other build of this binary gets this stub instead.
func runPreview(args []string) error {
	return fmt.Errorf("shipvoxctl was built without -tags preview; the mesh viewer is unavailable")
}
