package graphics

import (
	"errors"

	"github.com/richinsley/headlessgl/options"
)

// ErrUnavailable is returned by drivers that cannot create a native context
// in the current environment (no display, no GPU, unsupported platform).
var ErrUnavailable = errors.New("graphics: native driver unavailable")

// Driver creates native OpenGL contexts with an off-screen drawing buffer.
type Driver interface {
	// NewContext creates a context whose drawing buffer is width x height.
	// On error, everything allocated for the context has been released.
	NewContext(width, height int, attrs *options.ContextAttributes) (Context, error)
	// Name identifies the driver in logs.
	Name() string
	// Release frees driver-wide state such as the display connection.
	Release()
}

// Context defines the interface for a native OpenGL context.
type Context interface {
	// MakeCurrent binds the context to the calling OS thread.
	MakeCurrent() error
	// IsCurrent reports whether the context is bound to the calling thread.
	IsCurrent() bool
	ReleaseCurrent()
	// Functions returns the GL entry points valid while the context is current.
	Functions() Functions
	// IsGLES reports whether the context speaks OpenGL ES instead of desktop GL.
	IsGLES() bool
	FramebufferSize() (int, int)
	// Resize recreates the drawing buffer. Its contents are lost.
	Resize(width, height int) error
	Release()
}
