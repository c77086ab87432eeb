package inputs

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	fft "github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/wav"

	"github.com/richinsley/headlessgl/webgl"
)

const (
	textureWidth  = 512
	textureHeight = 2
	// Shadertoy uses an fftSize of 2048, which gives 1024 frequency bins.
	fftInputSize = 2048
)

// AudioChannel is a shadertoy music input: a 512x2 texture whose first row
// is the spectrum and second row the waveform around the current time.
type AudioChannel struct {
	ctx        *webgl.RenderingContext
	index      int
	texture    *webgl.Texture
	samples    []float32 // mono
	sampleRate int

	textureData []byte
	window      []float64
	// Linear magnitudes, smoothed over updates.
	lastFFT         []float64
	smoothingFactor float64
}

// LoadWAV decodes a wav file and mixes it down to mono.
func LoadWAV(path string) ([]float32, int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, 0, fmt.Errorf("open audio: %w", err)
	}
	defer func() { _ = f.Close() }()

	w, err := wav.New(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decode audio %s: %w", path, err)
	}
	// Samples counts every channel. Reads must not run past it.
	interleaved := make([]float32, 0, w.Samples)
	for remaining := w.Samples; remaining > 0; {
		n := min(remaining, 4096)
		chunk, err := w.ReadFloats(n)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			log.Printf("Warning: %s is truncated", path)
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decode audio %s: %w", path, err)
		}
		interleaved = append(interleaved, chunk...)
		remaining -= n
	}

	channels := int(w.NumChannels)
	if channels < 1 {
		channels = 1
	}
	mono := make([]float32, len(interleaved)/channels)
	for i := range mono {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono, int(w.SampleRate), nil
}

// NewAudioChannel creates the texture for a mono signal at sampleRate.
func NewAudioChannel(ctx *webgl.RenderingContext, index int, samples []float32, sampleRate int, sampler Sampler) (*AudioChannel, error) {
	if ctx == nil || ctx.IsContextLost() {
		return nil, errors.New("inputs: no rendering context")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d for channel %d", sampleRate, index)
	}

	tex := ctx.CreateTexture()
	ctx.BindTexture(webgl.TEXTURE_2D, tex)
	// The texture is replaced every frame, so it never has mipmaps.
	minFilter, magFilter := getFilterMode(sampler.Filter)
	if sampler.Filter == "mipmap" {
		minFilter = webgl.LINEAR
	}
	ctx.TexParameteri(webgl.TEXTURE_2D, webgl.TEXTURE_MIN_FILTER, minFilter)
	ctx.TexParameteri(webgl.TEXTURE_2D, webgl.TEXTURE_MAG_FILTER, magFilter)
	ctx.TexParameteri(webgl.TEXTURE_2D, webgl.TEXTURE_WRAP_S, webgl.CLAMP_TO_EDGE)
	ctx.TexParameteri(webgl.TEXTURE_2D, webgl.TEXTURE_WRAP_T, webgl.CLAMP_TO_EDGE)
	ctx.BindTexture(webgl.TEXTURE_2D, nil)

	c := &AudioChannel{
		ctx:             ctx,
		index:           index,
		texture:         tex,
		samples:         samples,
		sampleRate:      sampleRate,
		textureData:     make([]byte, textureWidth*textureHeight),
		window:          blackmanWindow(fftInputSize),
		lastFFT:         make([]float64, textureWidth),
		smoothingFactor: 0.8,
	}
	c.Update(0)
	if code := ctx.GetError(); code != webgl.NO_ERROR {
		ctx.DeleteTexture(tex)
		return nil, fmt.Errorf("upload channel %d: webgl error 0x%04x", index, code)
	}
	log.Printf("Initialized AudioChannel %d (%d samples at %d Hz).", index, len(samples), sampleRate)
	return c, nil
}

// recentSamples returns the n samples ending at time t, zero before the
// start and after the end of the signal.
func (c *AudioChannel) recentSamples(t float32, n int) []float32 {
	out := make([]float32, n)
	end := int(float64(t) * float64(c.sampleRate))
	for i := 0; i < n; i++ {
		j := end - n + i
		if j >= 0 && j < len(c.samples) {
			out[i] = c.samples[j]
		}
	}
	return out
}

// Update recomputes the texture for shader time t.
func (c *AudioChannel) Update(t float32) {
	const minDecibels = -100.0
	const maxDecibels = -30.0

	samples := c.recentSamples(t, fftInputSize)
	samples64 := make([]float64, fftInputSize)
	for i, s := range samples {
		samples64[i] = float64(s) * c.window[i]
	}
	fftResult := fft.FFTReal(samples64)

	// Only the first 512 bins fit the texture.
	for i := 0; i < textureWidth; i++ {
		re := real(fftResult[i])
		im := imag(fftResult[i])
		magnitude := math.Sqrt(re*re+im*im) * (2.0 / float64(fftInputSize))
		c.lastFFT[i] = c.smoothingFactor*c.lastFFT[i] + (1.0-c.smoothingFactor)*magnitude

		db := 20 * math.Log10(c.lastFFT[i]+1e-12)
		scaled := (db - minDecibels) / (maxDecibels - minDecibels)
		c.textureData[i] = byte(math.Round(255 * math.Max(0, math.Min(1, scaled))))
	}

	wave := samples[len(samples)-textureWidth:]
	for i, s := range wave {
		v := (math.Max(-1, math.Min(1, float64(s))) + 1.0) * 0.5
		c.textureData[textureWidth+i] = byte(math.Round(255 * v))
	}

	ctx := c.ctx
	ctx.BindTexture(webgl.TEXTURE_2D, c.texture)
	ctx.PixelStorei(webgl.UNPACK_ALIGNMENT, 1)
	ctx.TexImage2D(webgl.TEXTURE_2D, 0, webgl.LUMINANCE, textureWidth, textureHeight, 0, webgl.LUMINANCE, webgl.UNSIGNED_BYTE, c.textureData)
	ctx.PixelStorei(webgl.UNPACK_ALIGNMENT, 4)
	ctx.BindTexture(webgl.TEXTURE_2D, nil)
}

// blackmanWindow generates a Blackman window, as used by Shadertoy.
func blackmanWindow(size int) []float64 {
	window := make([]float64, size)
	a0 := 0.42
	a1 := 0.5
	a2 := 0.08
	invSize := 1.0 / float64(size-1)
	for i := range window {
		t := float64(i) * invSize
		window[i] = a0 - (a1 * math.Cos(2*math.Pi*t)) + (a2 * math.Cos(4*math.Pi*t))
	}
	return window
}

// --- IChannel Interface Implementation ---
func (c *AudioChannel) GetInputIndex() int      { return c.index }
func (c *AudioChannel) Texture() *webgl.Texture { return c.texture }
func (c *AudioChannel) ChannelRes() [3]float32 {
	return [3]float32{textureWidth, textureHeight, 1}
}

func (c *AudioChannel) Destroy() {
	c.ctx.DeleteTexture(c.texture)
	c.texture = nil
}
