package sound

import "io"

// Clip is decoded audio data. It is shared read-only by every handle
// instantiated from it.
type Clip interface {
	Len() int
}

// Handle is one independent playback instance.
type Handle interface {
	SetVolume(volume float64)
	Start()
}

// Backend decodes encoded assets and instantiates playback handles.
type Backend interface {
	// Decode reads the full encoded asset. source is passed for format
	// detection and messages.
	Decode(name, source string, r io.Reader) (Clip, error)
	Instantiate(clip Clip) (Handle, error)
}
