//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/headlessgl/graphics"
	"github.com/richinsley/headlessgl/options"
)

// Driver declines every context: EGL pbuffers are only wired up on linux.
type Driver struct{}

func NewDriver() *Driver { return &Driver{} }

func (d *Driver) Name() string { return "egl" }

func (d *Driver) NewContext(width, height int, attrs *options.ContextAttributes) (graphics.Context, error) {
	return nil, fmt.Errorf("%w: egl headless rendering is not supported on this platform", graphics.ErrUnavailable)
}

func (d *Driver) Release() {}
