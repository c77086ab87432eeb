// Package renderer draws a shadertoy image shader into a WebGL context and
// reads the frames back.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/richinsley/headlessgl/inputs"
	"github.com/richinsley/headlessgl/shader"
	"github.com/richinsley/headlessgl/webgl"
)

// ErrContextLost is returned once the context can no longer draw.
var ErrContextLost = errors.New("renderer: context lost")

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// Renderer owns the program, the quad and the channels of one shader. All
// methods must be called on the thread the context is current on.
type Renderer struct {
	ctx    *webgl.RenderingContext
	vao    *webgl.VertexArray
	quad   *webgl.Buffer
	pass   *RenderPass
	width  int
	height int
}

// New compiles fragmentSource against the full-screen quad and binds
// channels to their iChannel slots. fragmentSource must be a complete
// shader, see shader.WrapFragment.
func New(ctx *webgl.RenderingContext, fragmentSource string, channels []inputs.IChannel) (*Renderer, error) {
	if ctx == nil || ctx.IsContextLost() {
		return nil, ErrContextLost
	}
	program, err := newProgram(ctx, shader.VertexShader(), fragmentSource)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		ctx:    ctx,
		width:  ctx.DrawingBufferWidth(),
		height: ctx.DrawingBufferHeight(),
	}
	r.vao = ctx.CreateVertexArray()
	ctx.BindVertexArray(r.vao)
	r.quad = ctx.CreateBuffer()
	ctx.BindBuffer(webgl.ARRAY_BUFFER, r.quad)
	ctx.BufferDataFloat32(webgl.ARRAY_BUFFER, quadVertices, webgl.STATIC_DRAW)
	pos := ctx.GetAttribLocation(program, shader.PositionAttribute)
	if pos >= 0 {
		ctx.EnableVertexAttribArray(uint32(pos))
		ctx.VertexAttribPointer(uint32(pos), 2, webgl.FLOAT, false, 2*4, 0)
	}
	ctx.BindBuffer(webgl.ARRAY_BUFFER, nil)
	ctx.BindVertexArray(nil)

	r.pass = newRenderPass(ctx, program, channels)
	if code := ctx.GetError(); code != webgl.NO_ERROR {
		r.Destroy()
		return nil, fmt.Errorf("renderer: setup failed: webgl error 0x%04x", code)
	}
	return r, nil
}

// RenderFrame draws one frame into the drawing buffer.
func (r *Renderer) RenderFrame(u Uniforms) error {
	ctx := r.ctx
	if ctx.IsContextLost() {
		return ErrContextLost
	}
	pass := r.pass
	if pass == nil {
		return errors.New("renderer: destroyed")
	}

	ctx.BindFramebuffer(webgl.FRAMEBUFFER, nil)
	ctx.UseProgram(pass.program)
	pass.updateUniforms(ctx, r.width, r.height, &u)
	pass.bindChannels(ctx, &u)
	ctx.Viewport(0, 0, int32(r.width), int32(r.height))
	ctx.Clear(webgl.COLOR_BUFFER_BIT)
	ctx.BindVertexArray(r.vao)
	ctx.DrawArrays(webgl.TRIANGLES, 0, 6)
	ctx.BindVertexArray(nil)
	pass.unbindChannels(ctx)
	ctx.UseProgram(nil)

	if code := ctx.GetError(); code != webgl.NO_ERROR {
		if code == webgl.CONTEXT_LOST_WEBGL {
			return ErrContextLost
		}
		return fmt.Errorf("renderer: frame %d: webgl error 0x%04x", u.Frame, code)
	}
	return nil
}

// Snapshot reads the drawing buffer, top row first.
func (r *Renderer) Snapshot() (*image.RGBA, error) {
	return r.ctx.Screenshot()
}

// Frame represents a single rendered frame's data, ready for encoding.
type Frame struct {
	Image *image.RGBA
	PTS   int64
}

// Record renders frames frames at fps starting at start seconds and sends
// each to sink, which it closes on return. Cancelling ctx stops it between
// frames.
func (r *Renderer) Record(ctx context.Context, frames, fps int, start float64, sink chan<- *Frame) error {
	defer close(sink)
	if fps <= 0 {
		return fmt.Errorf("renderer: invalid frame rate %d", fps)
	}
	log.Printf("Recording %d frames at %d fps...", frames, fps)
	t0 := time.Now()
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.RenderFrame(FrameUniforms(i, fps, start, t0)); err != nil {
			return err
		}
		img, err := r.Snapshot()
		if err != nil {
			return fmt.Errorf("renderer: reading frame %d: %w", i, err)
		}
		select {
		case sink <- &Frame{Image: img, PTS: int64(i)}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Destroy deletes the program, the quad and the channels.
func (r *Renderer) Destroy() {
	ctx := r.ctx
	if r.pass != nil {
		for _, ch := range r.pass.channels {
			if ch != nil {
				ch.Destroy()
			}
		}
		ctx.DeleteProgram(r.pass.program)
		r.pass = nil
	}
	ctx.DeleteBuffer(r.quad)
	ctx.DeleteVertexArray(r.vao)
	r.quad, r.vao = nil, nil
}

func newProgram(ctx *webgl.RenderingContext, vertexShaderSource, fragmentShaderSource string) (*webgl.Program, error) {
	vertexShader, err := compileShader(ctx, vertexShaderSource, webgl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	defer ctx.DeleteShader(vertexShader)
	fragmentShader, err := compileShader(ctx, fragmentShaderSource, webgl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	defer ctx.DeleteShader(fragmentShader)

	program := ctx.CreateProgram()
	ctx.AttachShader(program, vertexShader)
	ctx.AttachShader(program, fragmentShader)
	ctx.LinkProgram(program)
	if ctx.GetProgramParameter(program, webgl.LINK_STATUS) == 0 {
		infoLog := ctx.GetProgramInfoLog(program)
		ctx.DeleteProgram(program)
		return nil, fmt.Errorf("failed to link program: %v", infoLog)
	}
	return program, nil
}

func compileShader(ctx *webgl.RenderingContext, source string, shaderType uint32) (*webgl.Shader, error) {
	s := ctx.CreateShader(shaderType)
	ctx.ShaderSource(s, source)
	ctx.CompileShader(s)
	if ctx.GetShaderParameter(s, webgl.COMPILE_STATUS) == 0 {
		infoLog := ctx.GetShaderInfoLog(s)
		ctx.DeleteShader(s)
		return nil, fmt.Errorf("failed to compile shader: %v", infoLog)
	}
	return s, nil
}
