package options

// ContextAttributes describes the drawing buffer requested for a rendering
// context. The zero value is not the default; use DefaultContextAttributes.
type ContextAttributes struct {
	// Alpha requests an alpha channel in the drawing buffer. Default true.
	Alpha bool
	// Depth requests a depth buffer of at least 16 bits. Default true.
	Depth bool
	// Stencil requests a stencil buffer of at least 8 bits. Default false.
	Stencil bool
	// Antialias requests a multisampled drawing buffer. Drivers fall back to
	// a single sample when no multisampled config exists. Default true.
	Antialias bool
	// PremultipliedAlpha marks drawing buffer colors as premultiplied.
	// Default true.
	PremultipliedAlpha bool
	// PreserveDrawingBuffer keeps the drawing buffer contents between
	// frames. Default false.
	PreserveDrawingBuffer bool
	// PreferLowPowerToHighPerformance hints at GPU selection. Default false.
	PreferLowPowerToHighPerformance bool
	// FailIfMajorPerformanceCaveat declines software renderers. Default false.
	FailIfMajorPerformanceCaveat bool
}

// DefaultContextAttributes returns the attributes used when none are given.
func DefaultContextAttributes() *ContextAttributes {
	return &ContextAttributes{
		Alpha:              true,
		Depth:              true,
		Antialias:          true,
		PremultipliedAlpha: true,
	}
}

// Resolve returns attrs, or the defaults when attrs is nil.
func Resolve(attrs *ContextAttributes) *ContextAttributes {
	if attrs == nil {
		return DefaultContextAttributes()
	}
	return attrs
}

// Samples is the multisample count the attributes ask the driver for.
func (a *ContextAttributes) Samples() int {
	if a.Antialias {
		return 4
	}
	return 0
}

// RenderOptions holds the command line configuration of the headlessgl tool.
type RenderOptions struct {
	ShaderFile *string
	ShaderID   *string
	APIKey     *string
	Help       *bool
	Width      *string // text, coerced the way context dimensions are
	Height     *string
	Driver     *string // "egl" or "glfw"
	Antialias  *bool
	Alpha      *bool
	Depth      *bool
	Stencil    *bool
	Time       *float64 // time of the single rendered frame, in seconds
	Duration   *float64 // > 0 renders a video instead of a still
	FPS        *int
	OutputFile *string
	FFMPEGPath *string
	Channels   [4]*string // image files bound to iChannel0..3
	Watch      *bool
	Verbose    *bool
}

// ContextAttributes derives the context attributes selected by the flags.
func (o *RenderOptions) ContextAttributes() *ContextAttributes {
	attrs := DefaultContextAttributes()
	if o.Antialias != nil {
		attrs.Antialias = *o.Antialias
	}
	if o.Alpha != nil {
		attrs.Alpha = *o.Alpha
	}
	if o.Depth != nil {
		attrs.Depth = *o.Depth
	}
	if o.Stencil != nil {
		attrs.Stencil = *o.Stencil
	}
	// Frames are read back after drawing, so the buffer has to survive.
	attrs.PreserveDrawingBuffer = true
	return attrs
}

// IsVideo reports whether the options ask for more than one frame.
func (o *RenderOptions) IsVideo() bool {
	return o.Duration != nil && *o.Duration > 0
}
