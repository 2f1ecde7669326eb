// Package playback presents composed outputs. A driver owns at most one
// active playback: Replace stops and releases the previous one before the new
// output starts from composition time zero.
package playback

import (
	"context"

	"github.com/kikiluvv/trimlab/internal/compose"
)

// Driver plays composed outputs.
type Driver interface {
	// Replace stops any current playback and starts out from time zero.
	Replace(ctx context.Context, out *compose.Output) error
	// Close stops playback and releases the driver.
	Close() error
}
