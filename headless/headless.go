// Package headless creates OpenGL contexts without a window system, rendering
// into EGL pbuffers.
package headless

import (
	"github.com/richinsley/headlessgl/factory"
	"github.com/richinsley/headlessgl/graphics"
	"github.com/richinsley/headlessgl/translator"
)

var _ graphics.Driver = (*Driver)(nil)

// NewFactory returns a context factory on a new EGL driver. Shaders are
// translated with the shared translator, loaded on the first compile. The
// caller releases the driver once its contexts are destroyed.
func NewFactory(opts ...factory.Option) (*factory.Factory, *Driver) {
	d := NewDriver()
	opts = append([]factory.Option{factory.WithTranslator(translator.Lazy{})}, opts...)
	return factory.New(d, opts...), d
}
