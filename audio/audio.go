// Package audio is the playback engine's output boundary. The engine only
// ever talks to an Output and the per-instance Handles it opens, so tests
// can swap the speaker for a fake.
package audio

import "errors"

// ErrUnsupportedFormat is returned by Open for media files with an extension
// no decoder claims.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Handle is one playback instance's owned slice of the audio graph: a player
// plus its gain stage.
type Handle interface {
	// Start makes the handle audible.
	Start()

	// SetGain sets the handle's gain as a plain multiplier (1.0 is unity).
	SetGain(g float64)

	// Close silences the handle and releases its resources. Safe to call
	// more than once.
	Close()
}

// Output opens media files as playable handles and owns the master gain.
type Output interface {
	// Open prepares path for playback restricted to the [in, out) window,
	// both in seconds from the start of the file. The returned handle is
	// silent until started.
	Open(path string, in, out float64) (Handle, error)

	// SetMasterGain scales the overall output (0-1).
	SetMasterGain(g float64)

	// Close tears the whole output down.
	Close() error
}
