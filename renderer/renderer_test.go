package renderer

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/richinsley/headlessgl/graphics/graphicstest"
	"github.com/richinsley/headlessgl/inputs"
	"github.com/richinsley/headlessgl/shader"
	"github.com/richinsley/headlessgl/webgl"
)

const (
	locTime = iota + 1
	locResolution
	locFrame
	locChannel1
	locChannel1Res
)

const image0 = `void mainImage(out vec4 fragColor, in vec2 fragCoord) {
	fragColor = texture(iChannel1, fragCoord / iResolution.xy) * sin(iTime);
}`

func newContext(t *testing.T) (*webgl.RenderingContext, *graphicstest.Functions) {
	t.Helper()
	driver := &graphicstest.Driver{Configure: func(c *graphicstest.Context) {
		f := c.Funcs
		f.Attribs[shader.PositionAttribute] = 0
		f.Uniforms["iTime"] = locTime
		f.Uniforms["iResolution"] = locResolution
		f.Uniforms["iFrame"] = locFrame
		f.Uniforms["iChannel1"] = locChannel1
		f.Uniforms["iChannelResolution[1]"] = locChannel1Res
		// bottom-left pixel is red
		f.Framebuffer = make([]byte, 4*4*2)
		f.Framebuffer[0], f.Framebuffer[3] = 255, 255
	}}
	ctx, err := webgl.New(driver, 4, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctx.Destroy)
	return ctx, driver.Contexts[0].Funcs
}

func newRenderer(t *testing.T, ctx *webgl.RenderingContext) *Renderer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	ch, err := inputs.NewImageChannel(ctx, 1, img, inputs.DefaultSampler)
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(ctx, shader.WrapFragment("", image0), []inputs.IChannel{ch})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRenderFrame(t *testing.T) {
	ctx, f := newContext(t)
	r := newRenderer(t, ctx)

	if err := r.RenderFrame(Uniforms{Time: 1.5, Frame: 7}); err != nil {
		t.Fatal(err)
	}
	if f.Draws != 1 || f.Cleared != 1 {
		t.Errorf("draws %d clears %d, want 1 and 1", f.Draws, f.Cleared)
	}
	checks := map[int32][]float32{
		locTime:        {1.5},
		locFrame:       {7},
		locResolution:  {4, 2, 1},
		locChannel1:    {1},
		locChannel1Res: {8, 4, 1},
	}
	for loc, want := range checks {
		got := f.Values[loc]
		if len(got) != len(want) {
			t.Errorf("location %d = %v, want %v", loc, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("location %d = %v, want %v", loc, got, want)
				break
			}
		}
	}
}

func TestSnapshot(t *testing.T) {
	ctx, _ := newContext(t)
	r := newRenderer(t, ctx)
	if err := r.RenderFrame(Uniforms{}); err != nil {
		t.Fatal(err)
	}
	img, err := r.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	// Snapshots are top row first.
	if c := img.RGBAAt(0, 1); c.R != 255 || c.A != 255 {
		t.Errorf("bottom-left pixel = %v, want red", c)
	}
}

func TestNewCompileError(t *testing.T) {
	driver := &graphicstest.Driver{Configure: func(c *graphicstest.Context) {
		c.Funcs.CompileFails = true
	}}
	ctx, err := webgl.New(driver, 4, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Destroy()
	f := driver.Contexts[0].Funcs
	live := f.Live()
	if _, err := New(ctx, shader.WrapFragment("", image0), nil); err == nil || !strings.Contains(err.Error(), "compile") {
		t.Fatalf("New error = %v, want a compile error", err)
	}
	if f.Live() != live {
		t.Errorf("failed New left %d objects behind", f.Live()-live)
	}
}

func TestNewLostContext(t *testing.T) {
	ctx, _ := newContext(t)
	ctx.Destroy()
	if _, err := New(ctx, image0, nil); !errors.Is(err, ErrContextLost) {
		t.Fatalf("New error = %v, want ErrContextLost", err)
	}
	if _, err := New(nil, image0, nil); !errors.Is(err, ErrContextLost) {
		t.Fatalf("New(nil) error = %v, want ErrContextLost", err)
	}
}

func TestDestroy(t *testing.T) {
	ctx, f := newContext(t)
	live := f.Live()
	r := newRenderer(t, ctx)
	r.Destroy()
	if f.Live() != live {
		t.Errorf("Destroy left %d objects behind", f.Live()-live)
	}
	if err := r.RenderFrame(Uniforms{}); err == nil {
		t.Error("RenderFrame after Destroy succeeded")
	}
}

func TestRecord(t *testing.T) {
	ctx, f := newContext(t)
	r := newRenderer(t, ctx)

	sink := make(chan *Frame, 3)
	if err := r.Record(context.Background(), 3, 30, 0, sink); err != nil {
		t.Fatal(err)
	}
	var pts []int64
	for frame := range sink {
		if frame.Image.Bounds().Dx() != 4 || frame.Image.Bounds().Dy() != 2 {
			t.Errorf("frame %d bounds %v", frame.PTS, frame.Image.Bounds())
		}
		pts = append(pts, frame.PTS)
	}
	if len(pts) != 3 || pts[0] != 0 || pts[2] != 2 {
		t.Errorf("PTS = %v, want [0 1 2]", pts)
	}
	if got := f.Values[locFrame]; len(got) != 1 || got[0] != 2 {
		t.Errorf("last iFrame = %v, want 2", got)
	}
}

func TestRecordCancel(t *testing.T) {
	ctx, f := newContext(t)
	r := newRenderer(t, ctx)

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := make(chan *Frame)
	if err := r.Record(cctx, 10, 30, 0, sink); !errors.Is(err, context.Canceled) {
		t.Fatalf("Record error = %v, want context.Canceled", err)
	}
	if _, ok := <-sink; ok {
		t.Error("sink not closed")
	}
	if f.Draws != 0 {
		t.Errorf("%d frames drawn after cancel", f.Draws)
	}
}

func TestFrameUniforms(t *testing.T) {
	t0 := time.Date(2024, time.March, 5, 1, 0, 0, 0, time.UTC)
	u := FrameUniforms(15, 30, 2, t0)
	if u.Time != 2.5 || u.Frame != 15 || u.FrameRate != 30 {
		t.Errorf("uniforms = %+v", u)
	}
	want := [4]float32{2024, 2, 5, 3602.5}
	if u.Date != want {
		t.Errorf("iDate = %v, want %v", u.Date, want)
	}
}
