//go:build !cgo

package main

import (
	"fmt"
	"os"

	"github.com/dusk-indust/crosscheck/internal/feedback"
)

// openFeedbackStore without cgo has no KuzuDB backend; feedback lives in
// memory for the process lifetime.
func openFeedbackStore(path string) (feedback.Store, func(), error) {
	if path != "" {
		fmt.Fprintf(os.Stderr, "warning: built without cgo; feedbackDB %s ignored, feedback is in-memory only\n", path)
	}
	store := feedback.NewMemStore()
	return store, func() { store.Close() }, nil
}
