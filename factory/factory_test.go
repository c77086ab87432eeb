package factory

import (
	"bytes"
	"errors"
	"log"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/richinsley/headlessgl/graphics"
	"github.com/richinsley/headlessgl/graphics/graphicstest"
	"github.com/richinsley/headlessgl/options"
	"github.com/richinsley/headlessgl/webgl"
)

// recorder is a Constructor counting its calls.
type recorder struct {
	calls         int
	width, height int
	attrs         *options.ContextAttributes
	ctx           *webgl.RenderingContext
	err           error
	panicWith     any
}

func (r *recorder) construct(width, height int, attrs *options.ContextAttributes) (*webgl.RenderingContext, error) {
	r.calls++
	r.width, r.height, r.attrs = width, height, attrs
	if r.panicWith != nil {
		panic(r.panicWith)
	}
	return r.ctx, r.err
}

func newHandle(t *testing.T) *webgl.RenderingContext {
	t.Helper()
	ctx, err := webgl.New(&graphicstest.Driver{}, 1, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctx.Destroy)
	return ctx
}

func TestHealthyDriver(t *testing.T) {
	driver := &graphicstest.Driver{}
	ctx := New(driver).CreateContext(640, 480, &options.ContextAttributes{})
	if ctx == nil {
		t.Fatal("CreateContext(640, 480) = nil")
	}
	defer ctx.Destroy()
	if ctx.DrawingBufferWidth() != 640 || ctx.DrawingBufferHeight() != 480 {
		t.Errorf("drawing buffer %dx%d, want 640x480", ctx.DrawingBufferWidth(), ctx.DrawingBufferHeight())
	}
	if driver.Calls != 1 {
		t.Errorf("driver called %d times, want 1", driver.Calls)
	}
}

func TestInvalidSizeSkipsConstructor(t *testing.T) {
	sizes := [][2]float64{
		{0, 480},
		{-10, 10},
		{640, 0},
		{0.9, 480},
		{640, -0.5},
		{math.NaN(), 480},
		{640, math.Inf(1)},
		{math.Inf(-1), 480},
		{2147483648, 480}, // wraps to -2147483648
		{4294967296, 480}, // wraps to 0
	}
	for _, size := range sizes {
		r := &recorder{ctx: newHandle(t)}
		if ctx := New(nil, WithConstructor(r.construct)).CreateContext(size[0], size[1], nil); ctx != nil {
			t.Errorf("CreateContext(%v, %v) returned a context", size[0], size[1])
		}
		if r.calls != 0 {
			t.Errorf("CreateContext(%v, %v) called the constructor", size[0], size[1])
		}
	}
}

func TestTruncation(t *testing.T) {
	tests := []struct {
		width, height float64
		wantW, wantH  int
	}{
		{640.7, 480.2, 640, 480},
		{1.9, 1.9, 1, 1},
		{4294967936, 480, 640, 480},
	}
	for _, test := range tests {
		r := &recorder{ctx: newHandle(t)}
		New(nil, WithConstructor(r.construct)).CreateContext(test.width, test.height, nil)
		if r.calls != 1 || r.width != test.wantW || r.height != test.wantH {
			t.Errorf("CreateContext(%v, %v): %d calls with %dx%d, want one with %dx%d",
				test.width, test.height, r.calls, r.width, r.height, test.wantW, test.wantH)
		}
	}
}

func TestConstructorError(t *testing.T) {
	r := &recorder{err: graphics.ErrUnavailable}
	if ctx := New(nil, WithConstructor(r.construct)).CreateContext(640, 480, nil); ctx != nil {
		t.Fatal("CreateContext returned a context for a failing constructor")
	}
	if r.calls != 1 {
		t.Errorf("constructor called %d times, want 1", r.calls)
	}

	// A context returned alongside an error is not trusted either.
	r = &recorder{ctx: newHandle(t), err: errors.New("partial")}
	if ctx := New(nil, WithConstructor(r.construct)).CreateContext(640, 480, nil); ctx != nil {
		t.Fatal("CreateContext returned a context alongside an error")
	}
	if !r.ctx.IsContextLost() {
		t.Error("context returned alongside an error was not destroyed")
	}
}

func TestPanicReleasesNativeContext(t *testing.T) {
	driver := &graphicstest.Driver{Configure: func(c *graphicstest.Context) {
		c.FunctionsPanic = "no GL"
	}}
	if ctx := New(driver).CreateContext(64, 64, nil); ctx != nil {
		t.Fatal("CreateContext returned a context for a panicking driver")
	}
	if len(driver.Contexts) != 1 || !driver.Contexts[0].Released {
		t.Error("declined creation left the native context allocated")
	}
}

func TestDriverUnavailable(t *testing.T) {
	driver := &graphicstest.Driver{Err: graphics.ErrUnavailable}
	if ctx := New(driver).CreateContext(640, 480, nil); ctx != nil {
		t.Fatal("CreateContext returned a context without a driver")
	}
	if ctx := New(nil).CreateContext(640, 480, nil); ctx != nil {
		t.Fatal("CreateContext returned a context for a nil driver")
	}
}

func TestUnsupportedNativeContext(t *testing.T) {
	driver := &graphicstest.Driver{}
	f := New(driver, WithRequiredExtensions("GL_ARB_missing"))
	if ctx := f.CreateContext(64, 64, nil); ctx != nil {
		t.Fatal("CreateContext accepted a context missing a required extension")
	}
	if !driver.Contexts[0].Released {
		t.Error("declined native context was not released")
	}
}

func TestConstructorPanic(t *testing.T) {
	for _, v := range []any{"driver crashed", errors.New("cgo failure"), 42} {
		r := &recorder{panicWith: v}
		if ctx := New(nil, WithConstructor(r.construct)).CreateContext(640, 480, nil); ctx != nil {
			t.Errorf("CreateContext returned a context after a %T panic", v)
		}
	}
}

func TestNilWithoutError(t *testing.T) {
	r := &recorder{}
	if ctx := New(nil, WithConstructor(r.construct)).CreateContext(640, 480, nil); ctx != nil {
		t.Fatal("CreateContext returned a non-nil context for a nil result")
	}
	driver := &graphicstest.Driver{NilContext: true}
	if ctx := New(driver).CreateContext(640, 480, nil); ctx != nil {
		t.Fatal("CreateContext returned a context for a driver returning none")
	}
}

func TestReturnsExactHandle(t *testing.T) {
	handle := newHandle(t)
	attrs := &options.ContextAttributes{Stencil: true}
	r := &recorder{ctx: handle}
	got := New(nil, WithConstructor(r.construct)).CreateContext(640, 480, attrs)
	if got != handle {
		t.Fatalf("CreateContext = %p, want %p", got, handle)
	}
	if r.attrs != attrs {
		t.Error("attributes were not passed through unchanged")
	}
	if *attrs != (options.ContextAttributes{Stencil: true}) {
		t.Error("attributes were modified")
	}
}

func TestIndependentHandles(t *testing.T) {
	driver := &graphicstest.Driver{}
	f := New(driver)
	a := f.CreateContext(16, 16, nil)
	b := f.CreateContext(16, 16, nil)
	if a == nil || b == nil || a == b {
		t.Fatalf("CreateContext twice = %p, %p; want two distinct contexts", a, b)
	}
	a.Destroy()
	b.Destroy()
	if driver.Calls != 2 {
		t.Errorf("driver called %d times, want 2", driver.Calls)
	}
}

func TestTranslatorReachesContexts(t *testing.T) {
	tr := &countingTranslator{}
	ctx := New(&graphicstest.Driver{}, WithTranslator(tr)).CreateContext(4, 4, nil)
	if ctx == nil {
		t.Fatal("CreateContext = nil")
	}
	defer ctx.Destroy()
	s := ctx.CreateShader(webgl.FRAGMENT_SHADER)
	ctx.ShaderSource(s, "void main() {}")
	ctx.CompileShader(s)
	if tr.calls != 1 {
		t.Errorf("translator called %d times, want 1", tr.calls)
	}
}

type countingTranslator struct{ calls int }

func (c *countingTranslator) Translate(source string, stage webgl.Stage, gles bool) (*webgl.Translation, error) {
	c.calls++
	return &webgl.Translation{Code: source}, nil
}

func TestLogging(t *testing.T) {
	var std bytes.Buffer
	log.SetOutput(&std)
	defer log.SetOutput(os.Stderr)

	r := &recorder{err: errors.New("no EGL device")}
	New(nil, WithConstructor(r.construct)).CreateContext(640, 480, nil)
	if std.Len() != 0 {
		t.Errorf("factory without a logger wrote %q", std.String())
	}

	var buf bytes.Buffer
	f := New(nil, WithConstructor(r.construct), WithLogger(log.New(&buf, "", 0)))
	f.CreateContext(640, 480, nil)
	if !strings.Contains(buf.String(), "no EGL device") {
		t.Errorf("log = %q, want the constructor error", buf.String())
	}
	buf.Reset()
	f.CreateContext(0, 480, nil)
	if !strings.Contains(buf.String(), "invalid drawing buffer size") {
		t.Errorf("log = %q, want the invalid size", buf.String())
	}
}
