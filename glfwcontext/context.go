// Package glfwcontext creates OpenGL contexts backed by invisible GLFW
// windows. It needs a window system but works where EGL pbuffers do not,
// such as macOS.
package glfwcontext

import (
	"errors"
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/headlessgl/glimpl"
	"github.com/richinsley/headlessgl/graphics"
	"github.com/richinsley/headlessgl/options"
)

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}

// Driver creates one hidden window per context. InitGraphics must have been
// called, and contexts must be created on the main thread.
type Driver struct{}

var _ graphics.Driver = (*Driver)(nil)

func NewDriver() *Driver { return &Driver{} }

func (d *Driver) Name() string { return "glfw" }

// Release does nothing; GLFW itself is shut down by TerminateGraphics.
func (d *Driver) Release() {}

func boolBits(on bool, bits int) int {
	if on {
		return bits
	}
	return 0
}

func (d *Driver) NewContext(width, height int, attrs *options.ContextAttributes) (graphics.Context, error) {
	attrs = options.Resolve(attrs)
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.AlphaBits, boolBits(attrs.Alpha, 8))
	glfw.WindowHint(glfw.DepthBits, boolBits(attrs.Depth, 24))
	glfw.WindowHint(glfw.StencilBits, boolBits(attrs.Stencil, 8))
	glfw.WindowHint(glfw.Samples, attrs.Samples())

	win, err := glfw.CreateWindow(width, height, "headlessgl", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", graphics.ErrUnavailable, err)
	}
	c := &Context{window: win}
	if err := c.MakeCurrent(); err != nil {
		c.Release()
		return nil, err
	}
	if err := glimpl.Load(); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

// Context is a GLFW window used only for its OpenGL context.
type Context struct {
	window *glfw.Window
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() error {
	if c.window == nil {
		return errors.New("glfw: window destroyed")
	}
	c.window.MakeContextCurrent()
	return nil
}

func (c *Context) IsCurrent() bool {
	return c.window != nil && glfw.GetCurrentContext() == c.window
}

// ReleaseCurrent makes no context current on the calling thread.
func (c *Context) ReleaseCurrent() {
	if c.IsCurrent() {
		glfw.DetachCurrentContext()
	}
}

func (c *Context) Functions() graphics.Functions {
	return glimpl.New()
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

func (c *Context) FramebufferSize() (int, int) {
	if c.window == nil {
		return 0, 0
	}
	return c.window.GetFramebufferSize()
}

func (c *Context) Resize(width, height int) error {
	if c.window == nil {
		return errors.New("glfw: window destroyed")
	}
	c.window.SetSize(width, height)
	return nil
}

// Release destroys the window and its context.
func (c *Context) Release() {
	if c.window == nil {
		return
	}
	c.ReleaseCurrent()
	c.window.Destroy()
	c.window = nil
}
