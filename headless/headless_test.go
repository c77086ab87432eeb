package headless

import (
	"runtime"
	"testing"

	"github.com/richinsley/headlessgl/options"
	"github.com/richinsley/headlessgl/webgl"
)

func TestInvalidSizeNeedsNoDisplay(t *testing.T) {
	f, d := NewFactory()
	defer d.Release()
	if ctx := f.CreateContext(0, 480, nil); ctx != nil {
		t.Fatal("CreateContext(0, 480) returned a context")
	}
}

func TestClearAndReadBack(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	f, d := NewFactory()
	defer d.Release()
	ctx := f.CreateContext(64.9, 32.1, &options.ContextAttributes{Alpha: true})
	if ctx == nil {
		t.Skip("no EGL display with desktop OpenGL 4.1")
	}
	defer ctx.Destroy()

	if ctx.DrawingBufferWidth() != 64 || ctx.DrawingBufferHeight() != 32 {
		t.Fatalf("drawing buffer %dx%d, want 64x32", ctx.DrawingBufferWidth(), ctx.DrawingBufferHeight())
	}
	ctx.ClearColor(1, 0, 0, 1)
	ctx.Clear(webgl.COLOR_BUFFER_BIT)
	img, err := ctx.Screenshot()
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(10, 10); got.R != 255 || got.G != 0 || got.B != 0 || got.A != 255 {
		t.Errorf("pixel = %v, want opaque red", got)
	}
	if e := ctx.GetError(); e != webgl.NO_ERROR {
		t.Errorf("GetError = 0x%04x", e)
	}
}

func TestTwoContexts(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	f, d := NewFactory()
	defer d.Release()
	a := f.CreateContext(8, 8, nil)
	if a == nil {
		t.Skip("no EGL display with desktop OpenGL 4.1")
	}
	defer a.Destroy()
	b := f.CreateContext(8, 8, nil)
	if b == nil {
		t.Fatal("second context declined")
	}
	defer b.Destroy()

	a.ClearColor(0, 1, 0, 1)
	a.Clear(webgl.COLOR_BUFFER_BIT)
	b.ClearColor(0, 0, 1, 1)
	b.Clear(webgl.COLOR_BUFFER_BIT)

	img, err := a.Screenshot()
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 0); got.G != 255 || got.B != 0 {
		t.Errorf("first context pixel = %v, want green", got)
	}
}
