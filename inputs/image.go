// Package inputs loads image files and uploads them as iChannel textures.
package inputs

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/richinsley/headlessgl/webgl"
)

// Sampler mirrors the sampler settings shadertoy.com stores per input.
type Sampler struct {
	Filter string // "mipmap", "linear" or "nearest"
	Wrap   string // "repeat", "clamp" or "mirror"
	VFlip  bool
}

// DefaultSampler matches what shadertoy.com assigns to new texture inputs.
var DefaultSampler = Sampler{Filter: "mipmap", Wrap: "repeat", VFlip: true}

// LoadImage decodes a png, jpeg, gif, bmp, tiff or webp file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// ImageChannel represents a static image texture input.
type ImageChannel struct {
	ctx        *webgl.RenderingContext
	index      int
	texture    *webgl.Texture
	resolution [3]float32
}

// NewImageChannel uploads img as a texture for channel index. With
// sampler.VFlip the image is flipped so it appears upright to shaders whose
// texture coordinates start at the bottom.
func NewImageChannel(ctx *webgl.RenderingContext, index int, img image.Image, sampler Sampler) (*ImageChannel, error) {
	if img == nil {
		return nil, fmt.Errorf("input image for channel %d is nil", index)
	}
	if ctx == nil || ctx.IsContextLost() {
		return nil, errors.New("inputs: no rendering context")
	}

	// Convert source image to RGBA for consistency.
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	width := int32(rgba.Rect.Dx())
	height := int32(rgba.Rect.Dy())

	tex := ctx.CreateTexture()
	ctx.BindTexture(webgl.TEXTURE_2D, tex)

	ctx.TexParameteri(webgl.TEXTURE_2D, webgl.TEXTURE_WRAP_S, getWrapMode(sampler.Wrap))
	ctx.TexParameteri(webgl.TEXTURE_2D, webgl.TEXTURE_WRAP_T, getWrapMode(sampler.Wrap))
	minFilter, magFilter := getFilterMode(sampler.Filter)
	ctx.TexParameteri(webgl.TEXTURE_2D, webgl.TEXTURE_MIN_FILTER, minFilter)
	ctx.TexParameteri(webgl.TEXTURE_2D, webgl.TEXTURE_MAG_FILTER, magFilter)

	// image rows are stored top first, GL rows bottom first.
	ctx.PixelStorei(webgl.UNPACK_FLIP_Y_WEBGL, boolParam(sampler.VFlip))
	ctx.TexImage2D(webgl.TEXTURE_2D, 0, webgl.RGBA, width, height, 0, webgl.RGBA, webgl.UNSIGNED_BYTE, rgba.Pix)
	ctx.PixelStorei(webgl.UNPACK_FLIP_Y_WEBGL, 0)

	if sampler.Filter == "mipmap" {
		ctx.GenerateMipmap(webgl.TEXTURE_2D)
	}
	ctx.BindTexture(webgl.TEXTURE_2D, nil)

	if code := ctx.GetError(); code != webgl.NO_ERROR {
		ctx.DeleteTexture(tex)
		return nil, fmt.Errorf("upload channel %d: webgl error 0x%04x", index, code)
	}
	log.Printf("Initialized ImageChannel %d (%dx%d).", index, width, height)

	return &ImageChannel{
		ctx:        ctx,
		index:      index,
		texture:    tex,
		resolution: [3]float32{float32(width), float32(height), 1.0},
	}, nil
}

func boolParam(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// --- IChannel Interface Implementation ---
func (c *ImageChannel) GetInputIndex() int {
	return c.index
}

func (c *ImageChannel) Texture() *webgl.Texture {
	return c.texture
}

func (c *ImageChannel) Update(t float32) {
	// No-op for static images.
}

func (c *ImageChannel) ChannelRes() [3]float32 {
	return c.resolution
}

func (c *ImageChannel) Destroy() {
	c.ctx.DeleteTexture(c.texture)
	c.texture = nil
}
