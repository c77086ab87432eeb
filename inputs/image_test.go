package inputs

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/richinsley/headlessgl/graphics/graphicstest"
	"github.com/richinsley/headlessgl/webgl"
)

func newContext(t *testing.T) (*webgl.RenderingContext, *graphicstest.Functions) {
	t.Helper()
	driver := &graphicstest.Driver{}
	ctx, err := webgl.New(driver, 16, 16, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctx.Destroy)
	return ctx, driver.Contexts[0].Funcs
}

// twoRows is 1x2: red on top, blue below.
func twoRows() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	return img
}

func TestNewImageChannel(t *testing.T) {
	for _, vflip := range []bool{true, false} {
		ctx, f := newContext(t)
		ch, err := NewImageChannel(ctx, 2, twoRows(), Sampler{Filter: "linear", VFlip: vflip})
		if err != nil {
			t.Fatalf("vflip=%v: %v", vflip, err)
		}
		if ch.GetInputIndex() != 2 || ch.ChannelRes() != [3]float32{1, 2, 1} {
			t.Errorf("vflip=%v: index %d resolution %v", vflip, ch.GetInputIndex(), ch.ChannelRes())
		}
		if len(f.TexImages) != 1 {
			t.Fatalf("vflip=%v: %d uploads", vflip, len(f.TexImages))
		}
		// The first uploaded row is the bottom of the texture.
		bottomRed := f.TexImages[0].Pixels[0] == 255
		if bottomRed == vflip {
			t.Errorf("vflip=%v: bottom row pixels %v", vflip, f.TexImages[0].Pixels[:4])
		}
		if !ctx.IsTexture(ch.Texture()) {
			t.Errorf("vflip=%v: channel texture is not a texture", vflip)
		}
		live := f.Live()
		ch.Destroy()
		if f.Live() != live-1 {
			t.Errorf("vflip=%v: Destroy left %d objects, want %d", vflip, f.Live(), live-1)
		}
	}
}

func TestNewImageChannelErrors(t *testing.T) {
	ctx, _ := newContext(t)
	if _, err := NewImageChannel(ctx, 0, nil, DefaultSampler); err == nil {
		t.Error("nil image accepted")
	}
	ctx.Destroy()
	if _, err := NewImageChannel(ctx, 0, twoRows(), DefaultSampler); err == nil {
		t.Error("destroyed context accepted")
	}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	src := twoRows()

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	pngPath := filepath.Join(dir, "a.png")
	if err := os.WriteFile(pngPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := bmp.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	// The extension does not matter, the content does.
	bmpPath := filepath.Join(dir, "b.img")
	if err := os.WriteFile(bmpPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{pngPath, bmpPath} {
		img, err := LoadImage(p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 2 {
			t.Errorf("%s: bounds %v", p, img.Bounds())
		}
		r, _, b, _ := img.At(0, 1).RGBA()
		if r != 0 || b != 0xffff {
			t.Errorf("%s: bottom pixel r=%x b=%x", p, r, b)
		}
	}

	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("missing file accepted")
	}
	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(junk); err == nil {
		t.Error("junk file accepted")
	}
}
