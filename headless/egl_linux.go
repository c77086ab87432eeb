//go:build linux

package headless

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"unsafe"

	"github.com/richinsley/headlessgl/glimpl"
	"github.com/richinsley/headlessgl/graphics"
	"github.com/richinsley/headlessgl/options"
)

/*
#cgo LDFLAGS: -lEGL
#include <EGL/egl.h>
#include <EGL/eglext.h>

// Go doesn't have a great way to call function pointers from C,
// so we'll create simple wrappers for the extension functions.
static PFNEGLQUERYDEVICESEXTPROC eglQueryDevicesEXT_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC eglGetPlatformDisplayEXT_ptr = NULL;

static void initialize_egl_extension_pointers() {
    eglQueryDevicesEXT_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    eglGetPlatformDisplayEXT_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay get_platform_display(EGLenum platform, void *native_display, const EGLint *attrib_list) {
    if (eglGetPlatformDisplayEXT_ptr) {
        return eglGetPlatformDisplayEXT_ptr(platform, native_display, attrib_list);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max_devices, EGLDeviceEXT *devices, EGLint *num_devices) {
    if (eglQueryDevicesEXT_ptr) {
        return eglQueryDevicesEXT_ptr(max_devices, devices, num_devices);
    }
    return EGL_FALSE;
}
*/
import "C"

var (
	noDisplay = C.EGLDisplay(C.EGL_NO_DISPLAY)
	noContext = C.EGLContext(C.EGL_NO_CONTEXT)
	noSurface = C.EGLSurface(C.EGL_NO_SURFACE)
)

// Driver creates desktop OpenGL 4.1 core contexts rendering into EGL
// pbuffers. The EGL display is opened on first use and shared by all the
// contexts of the driver.
type Driver struct {
	mu      sync.Mutex
	display C.EGLDisplay
}

// NewDriver returns an EGL driver. No EGL call is made until the first
// context is created.
func NewDriver() *Driver {
	return &Driver{display: noDisplay}
}

func (d *Driver) Name() string { return "egl" }

// getEGLDisplay tries the robust device enumeration method first,
// falling back to the default display.
func getEGLDisplay() (C.EGLDisplay, error) {
	C.initialize_egl_extension_pointers()

	var numDevices C.EGLint
	if C.query_devices(0, nil, &numDevices) == C.EGL_FALSE || numDevices == 0 {
		log.Println("Warning: EGL_EXT_device_query not supported or no devices found. Falling back to EGL_DEFAULT_DISPLAY.")
		display := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
		if display == noDisplay {
			return noDisplay, fmt.Errorf("fallback to eglGetDisplay(EGL_DEFAULT_DISPLAY) failed")
		}
		return display, nil
	}

	log.Printf("Found %d EGL device(s).", numDevices)
	devices := make([]C.EGLDeviceEXT, numDevices)
	if C.query_devices(numDevices, &devices[0], &numDevices) == C.EGL_FALSE {
		return noDisplay, fmt.Errorf("failed to query EGL devices: %w", getError())
	}

	// In an NVIDIA container this is the GPU; on Mesa the first device may
	// be the software renderer.
	for i := 0; i < int(numDevices); i++ {
		display := C.get_platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]), nil)
		if display != noDisplay {
			log.Printf("Using EGL display of device %d.", i)
			return display, nil
		}
	}
	return noDisplay, fmt.Errorf("could not get a valid EGL display from any available device")
}

// open returns the initialized display, opening it on first use. Failures
// are not remembered so a later call may succeed.
func (d *Driver) open() (C.EGLDisplay, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.display != noDisplay {
		return d.display, nil
	}
	display, err := getEGLDisplay()
	if err != nil {
		logRenderNodes()
		return noDisplay, fmt.Errorf("%w: %v", graphics.ErrUnavailable, err)
	}
	var major, minor C.EGLint
	if C.eglInitialize(display, &major, &minor) == C.EGL_FALSE {
		err := getError()
		logRenderNodes()
		return noDisplay, fmt.Errorf("%w: failed to initialize EGL: %v", graphics.ErrUnavailable, err)
	}
	log.Printf("EGL Initialized. Version: %d.%d", major, minor)
	d.display = display
	return display, nil
}

// Release terminates the EGL display. Contexts of the driver must have been
// released first.
func (d *Driver) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.display != noDisplay {
		C.eglTerminate(d.display)
		d.display = noDisplay
	}
	C.eglReleaseThread()
}

func configAttribs(attrs *options.ContextAttributes, samples int) []C.EGLint {
	alpha, depth, stencil := 0, 0, 0
	if attrs.Alpha {
		alpha = 8
	}
	if attrs.Depth {
		depth = 24
	}
	if attrs.Stencil {
		stencil = 8
	}
	list := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, C.EGLint(alpha),
		C.EGL_DEPTH_SIZE, C.EGLint(depth),
		C.EGL_STENCIL_SIZE, C.EGLint(stencil),
	}
	if samples > 0 {
		list = append(list, C.EGL_SAMPLE_BUFFERS, 1, C.EGL_SAMPLES, C.EGLint(samples))
	}
	return append(list, C.EGL_NONE)
}

// chooseConfig picks a pbuffer config for attrs. Without a multisampled
// config it settles for a single sample.
func chooseConfig(display C.EGLDisplay, attrs *options.ContextAttributes) (C.EGLConfig, error) {
	var config C.EGLConfig
	var numConfig C.EGLint
	for _, samples := range []int{attrs.Samples(), 0} {
		list := configAttribs(attrs, samples)
		if C.eglChooseConfig(display, &list[0], &config, 1, &numConfig) == C.EGL_TRUE && numConfig > 0 {
			return config, nil
		}
		if samples == 0 {
			break
		}
		log.Printf("No EGL config with %d samples, retrying without multisampling.", samples)
	}
	return config, fmt.Errorf("failed to choose EGL config: %w", getError())
}

// NewContext creates a 4.1 core context with a width x height pbuffer and
// makes it current on the calling thread.
func (d *Driver) NewContext(width, height int, attrs *options.ContextAttributes) (graphics.Context, error) {
	attrs = options.Resolve(attrs)
	display, err := d.open()
	if err != nil {
		return nil, err
	}
	if C.eglBindAPI(C.EGL_OPENGL_API) == C.EGL_FALSE {
		return nil, fmt.Errorf("%w: desktop OpenGL API not available: %v", graphics.ErrUnavailable, getError())
	}
	config, err := chooseConfig(display, attrs)
	if err != nil {
		return nil, err
	}

	c := &Context{display: display, config: config, context: noContext, surface: noSurface}
	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_MAJOR_VERSION, 4,
		C.EGL_CONTEXT_MINOR_VERSION, 1,
		C.EGL_CONTEXT_OPENGL_PROFILE_MASK, C.EGL_CONTEXT_OPENGL_CORE_PROFILE_BIT,
		C.EGL_NONE,
	}
	c.context = C.eglCreateContext(display, config, noContext, &contextAttribs[0])
	if c.context == noContext {
		return nil, fmt.Errorf("failed to create EGL context: %w", getError())
	}
	if err := c.createSurface(width, height); err != nil {
		c.Release()
		return nil, err
	}
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

// Context is an EGL context with its pbuffer drawing buffer.
type Context struct {
	display C.EGLDisplay
	config  C.EGLConfig
	context C.EGLContext
	surface C.EGLSurface
	width   int
	height  int
}

func (c *Context) createSurface(width, height int) error {
	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(width),
		C.EGL_HEIGHT, C.EGLint(height),
		C.EGL_NONE,
	}
	surface := C.eglCreatePbufferSurface(c.display, c.config, &pbufferAttribs[0])
	if surface == noSurface {
		return fmt.Errorf("failed to create %dx%d pbuffer surface: %w", width, height, getError())
	}
	c.surface = surface
	c.width, c.height = width, height
	return nil
}

func (c *Context) MakeCurrent() error {
	if c.context == noContext {
		return errors.New("egl: context released")
	}
	C.eglBindAPI(C.EGL_OPENGL_API)
	if C.eglMakeCurrent(c.display, c.surface, c.surface, c.context) == C.EGL_FALSE {
		return fmt.Errorf("failed to make EGL context current: %w", getError())
	}
	return nil
}

func (c *Context) IsCurrent() bool {
	return c.context != noContext && C.eglGetCurrentContext() == c.context
}

func (c *Context) ReleaseCurrent() {
	if c.IsCurrent() {
		C.eglMakeCurrent(c.display, noSurface, noSurface, noContext)
	}
}

func (c *Context) Functions() graphics.Functions {
	return glimpl.New()
}

func (c *Context) IsGLES() bool { return false }

func (c *Context) FramebufferSize() (int, int) { return c.width, c.height }

// Resize replaces the pbuffer. The old one is destroyed once the new one
// is current.
func (c *Context) Resize(width, height int) error {
	old := c.surface
	current := c.IsCurrent()
	if err := c.createSurface(width, height); err != nil {
		return err
	}
	if current {
		if err := c.MakeCurrent(); err != nil {
			C.eglDestroySurface(c.display, c.surface)
			c.surface = old
			return err
		}
	}
	C.eglDestroySurface(c.display, old)
	return nil
}

func (c *Context) Release() {
	c.ReleaseCurrent()
	if c.context != noContext {
		C.eglDestroyContext(c.display, c.context)
		c.context = noContext
	}
	if c.surface != noSurface {
		C.eglDestroySurface(c.display, c.surface)
		c.surface = noSurface
	}
}

func getError() error {
	switch code := C.eglGetError(); code {
	case C.EGL_SUCCESS:
		return errors.New("no EGL error reported")
	case C.EGL_NOT_INITIALIZED:
		return errors.New("EGL is not initialized, or could not be initialized, for the specified EGL display connection")
	case C.EGL_BAD_ACCESS:
		return errors.New("EGL cannot access a requested resource (for example a context is bound in another thread)")
	case C.EGL_BAD_ALLOC:
		return errors.New("EGL failed to allocate resources for the requested operation")
	case C.EGL_BAD_ATTRIBUTE:
		return errors.New("an unrecognized attribute or attribute value was passed in the attribute list")
	case C.EGL_BAD_CONTEXT:
		return errors.New("an EGLContext argument does not name a valid EGL rendering context")
	case C.EGL_BAD_CONFIG:
		return errors.New("an EGLConfig argument does not name a valid EGL frame buffer configuration")
	case C.EGL_BAD_CURRENT_SURFACE:
		return errors.New("the current surface of the calling thread is no longer valid")
	case C.EGL_BAD_DISPLAY:
		return errors.New("an EGLDisplay argument does not name a valid EGL display connection")
	case C.EGL_BAD_SURFACE:
		return errors.New("an EGLSurface argument does not name a valid surface configured for GL rendering")
	case C.EGL_BAD_MATCH:
		return errors.New("arguments are inconsistent (for example, a valid context requires buffers not supplied by a valid surface)")
	case C.EGL_BAD_PARAMETER:
		return errors.New("one or more argument values are invalid")
	case C.EGL_CONTEXT_LOST:
		return errors.New("a power management event has occurred; contexts must be recreated")
	default:
		return fmt.Errorf("unknown EGL error: 0x%x", int(code))
	}
}
