// Package factory creates rendering contexts. It is the boundary between
// callers and the native graphics stack: every way creation can fail,
// including a panic inside a driver, is reported as a nil context.
package factory

import (
	"fmt"
	"log"

	"github.com/richinsley/headlessgl/coerce"
	"github.com/richinsley/headlessgl/graphics"
	"github.com/richinsley/headlessgl/options"
	"github.com/richinsley/headlessgl/webgl"
)

// Constructor builds a rendering context with a width x height drawing
// buffer. width and height are always positive. It may fail by returning an
// error, by returning a nil context, or by panicking. A context returned
// together with an error is destroyed.
type Constructor func(width, height int, attrs *options.ContextAttributes) (*webgl.RenderingContext, error)

// Factory creates rendering contexts on one driver. It keeps no state
// between calls and may be shared between goroutines, although most drivers
// require contexts to be created on a locked OS thread.
type Factory struct {
	driver     graphics.Driver
	construct  Constructor
	translator webgl.ShaderTranslator
	extensions []string
	logger     *log.Logger
}

// Option configures a Factory.
type Option func(*Factory)

// WithConstructor replaces the default constructor, which is webgl.New on
// the factory's driver.
func WithConstructor(c Constructor) Option {
	return func(f *Factory) {
		f.construct = c
	}
}

// WithTranslator sets the shader translator of the contexts created by the
// default constructor.
func WithTranslator(t webgl.ShaderTranslator) Option {
	return func(f *Factory) {
		f.translator = t
	}
}

// WithRequiredExtensions makes the default constructor decline native
// contexts lacking any of the named extensions.
func WithRequiredExtensions(names ...string) Option {
	return func(f *Factory) {
		f.extensions = append(f.extensions, names...)
	}
}

// WithLogger reports why creation was declined to l. A Factory is silent
// without one.
func WithLogger(l *log.Logger) Option {
	return func(f *Factory) {
		f.logger = l
	}
}

// New returns a factory creating contexts on driver.
func New(driver graphics.Driver, opts ...Option) *Factory {
	f := &Factory{driver: driver}
	for _, opt := range opts {
		opt(f)
	}
	if f.construct == nil {
		f.construct = f.newContext
	}
	return f
}

func (f *Factory) newContext(width, height int, attrs *options.ContextAttributes) (*webgl.RenderingContext, error) {
	var opts []webgl.Option
	if f.translator != nil {
		opts = append(opts, webgl.WithTranslator(f.translator))
	}
	if len(f.extensions) > 0 {
		opts = append(opts, webgl.WithRequiredExtensions(f.extensions...))
	}
	return webgl.New(f.driver, width, height, attrs, opts...)
}

// CreateContext returns a rendering context with a width x height drawing
// buffer, or nil when none can be created.
//
// width and height are truncated to 32-bit integers first; NaN and the
// infinities become 0. If either is not positive the constructor is not
// called. attrs is handed to the constructor as is; nil selects the
// defaults.
func (f *Factory) CreateContext(width, height float64, attrs *options.ContextAttributes) *webgl.RenderingContext {
	w, h := coerce.ToInt32(width), coerce.ToInt32(height)
	if w <= 0 || h <= 0 {
		f.logf("factory: invalid drawing buffer size %vx%v", width, height)
		return nil
	}
	ctx, err := f.tryConstruct(int(w), int(h), attrs)
	if err != nil {
		if ctx != nil {
			ctx.Destroy()
		}
		f.logf("factory: %dx%d context declined: %v", w, h, err)
		return nil
	}
	if ctx == nil {
		f.logf("factory: %dx%d context declined: constructor returned no context", w, h)
		return nil
	}
	return ctx
}

// tryConstruct turns a panicking constructor into an error.
func (f *Factory) tryConstruct(width, height int, attrs *options.ContextAttributes) (ctx *webgl.RenderingContext, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx, err = nil, fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	return f.construct(width, height, attrs)
}

func (f *Factory) logf(format string, args ...any) {
	if f.logger != nil {
		f.logger.Printf(format, args...)
	}
}
