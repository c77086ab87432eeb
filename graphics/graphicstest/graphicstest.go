// Package graphicstest provides in-memory graphics drivers for tests that
// must run without a GPU or a display.
package graphicstest

import (
	"errors"
	"sync"

	"github.com/richinsley/headlessgl/graphics"
	"github.com/richinsley/headlessgl/options"
)

// Native enumerants the fake answers for.
const (
	glMajorVersion         = 0x821B
	glVersion              = 0x1F02
	glMaxVertexAttribs     = 0x8869
	glMaxCombinedTexUnits  = 0x8B4D
	glCompileStatus        = 0x8B81
	glLinkStatus           = 0x8B82
	glValidateStatus       = 0x8B83
	glFramebufferComplete  = 0x8CD5
	glFramebufferUndefined = 0x8219
)

// Driver is a graphics.Driver handing out fake contexts.
type Driver struct {
	mu sync.Mutex

	// Err, when set, is returned by NewContext.
	Err error
	// NilContext makes NewContext return neither a context nor an error.
	NilContext bool
	// Configure, when set, adjusts each context before it is returned.
	Configure func(*Context)

	Calls    int
	Contexts []*Context
	Released bool
}

func (d *Driver) NewContext(width, height int, attrs *options.ContextAttributes) (graphics.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls++
	if d.Err != nil {
		return nil, d.Err
	}
	if d.NilContext {
		return nil, nil
	}
	ctx := NewContext(width, height)
	ctx.Attrs = attrs
	if d.Configure != nil {
		d.Configure(ctx)
	}
	d.Contexts = append(d.Contexts, ctx)
	return ctx, nil
}

func (d *Driver) Name() string { return "fake" }

func (d *Driver) Release() { d.Released = true }

// Context is a graphics.Context with a fake drawing buffer.
type Context struct {
	Funcs         *Functions
	Width, Height int
	Attrs         *options.ContextAttributes
	GLES          bool

	// MakeCurrentErr, when set, fails MakeCurrent.
	MakeCurrentErr error
	// FunctionsPanic, when set, makes Functions panic with it.
	FunctionsPanic any
	Current        bool
	Released       bool
	ReleaseCount   int
}

// NewContext returns a context with a width x height drawing buffer.
func NewContext(width, height int) *Context {
	c := &Context{Width: width, Height: height}
	c.Funcs = NewFunctions()
	c.Funcs.Framebuffer = make([]byte, width*height*4)
	return c
}

func (c *Context) MakeCurrent() error {
	if c.MakeCurrentErr != nil {
		return c.MakeCurrentErr
	}
	if c.Released {
		return errors.New("graphicstest: context released")
	}
	c.Current = true
	return nil
}

func (c *Context) IsCurrent() bool { return c.Current }

func (c *Context) ReleaseCurrent() { c.Current = false }

func (c *Context) Functions() graphics.Functions {
	if c.FunctionsPanic != nil {
		panic(c.FunctionsPanic)
	}
	if c.Funcs == nil {
		return nil
	}
	return c.Funcs
}

func (c *Context) IsGLES() bool { return c.GLES }

func (c *Context) FramebufferSize() (int, int) { return c.Width, c.Height }

func (c *Context) Resize(width, height int) error {
	c.Width, c.Height = width, height
	c.Funcs.Framebuffer = make([]byte, width*height*4)
	return nil
}

func (c *Context) Release() {
	c.Released = true
	c.Current = false
	c.ReleaseCount++
}

// TexImage records one TexImage2D call.
type TexImage struct {
	Target         uint32
	InternalFormat int32
	Width, Height  int32
	Format         uint32
	Pixels         []byte
}

// Functions is an in-memory graphics.Functions. Objects are plain counters,
// shaders compile and programs link unless told otherwise.
type Functions struct {
	MajorVersion     int32
	Exts             []string
	MaxVertexAttribs int32
	MaxTextureUnits  int32

	// Errors are returned by GetError in order, then NO_ERROR.
	Errors []uint32
	// CompileFails and LinkFails flip the compile and link status.
	CompileFails bool
	LinkFails    bool
	// Uniforms and Attribs map native names to locations. Unknown names
	// are at -1.
	Uniforms map[string]int32
	Attribs  map[string]int32
	// Framebuffer holds the RGBA pixels ReadPixels returns, bottom row first.
	Framebuffer []byte

	next      uint32
	live      map[uint32]bool
	framebuf  uint32
	Sources   map[uint32]string
	Bindings  map[uint32]uint32
	Values    map[int32][]float32
	TexImages []TexImage
	Draws     int
	Cleared   int

	// Fixed-function state as last set.
	BlendFactors   [4]uint32
	BlendEquations [2]uint32
	BlendConstant  [4]float32
	Mask           [4]bool
	AttribValues   map[uint32][4]float32
	TexParams      map[uint32]float32
}

// NewFunctions returns fake GL entry points of a 4.1 core context.
func NewFunctions() *Functions {
	return &Functions{
		MajorVersion:     4,
		MaxVertexAttribs: 16,
		MaxTextureUnits:  16,
		Uniforms:         make(map[string]int32),
		Attribs:          make(map[string]int32),
		live:             make(map[uint32]bool),
		Sources:          make(map[uint32]string),
		Bindings:         make(map[uint32]uint32),
		Values:           make(map[int32][]float32),
		AttribValues:     make(map[uint32][4]float32),
		TexParams:        make(map[uint32]float32),
		Mask:             [4]bool{true, true, true, true},
	}
}

// Live reports how many objects were created and not deleted.
func (f *Functions) Live() int { return len(f.live) }

func (f *Functions) create() uint32 {
	f.next++
	f.live[f.next] = true
	return f.next
}

func (f *Functions) remove(id uint32) { delete(f.live, id) }

func (f *Functions) GetError() uint32 {
	if len(f.Errors) == 0 {
		return 0
	}
	err := f.Errors[0]
	f.Errors = f.Errors[1:]
	return err
}

func (f *Functions) GetString(name uint32) string {
	if name == glVersion {
		return "4.1 graphicstest"
	}
	return "graphicstest"
}

func (f *Functions) GetInteger(pname uint32) int32 {
	switch pname {
	case glMajorVersion:
		return f.MajorVersion
	case glMaxVertexAttribs:
		return f.MaxVertexAttribs
	case glMaxCombinedTexUnits:
		return f.MaxTextureUnits
	}
	return 0
}

func (f *Functions) Extensions() []string { return f.Exts }

func (f *Functions) Viewport(x, y, width, height int32) {}
func (f *Functions) Scissor(x, y, width, height int32) {}
func (f *Functions) ClearColor(r, g, b, a float32) {}
func (f *Functions) ClearDepth(d float64) {}
func (f *Functions) ClearStencil(s int32) {}
func (f *Functions) Clear(mask uint32) { f.Cleared++ }
func (f *Functions) Enable(capability uint32) {}
func (f *Functions) Disable(capability uint32) {}
func (f *Functions) IsEnabled(capability uint32) bool { return false }
func (f *Functions) BlendFunc(sfactor, dfactor uint32) {
	f.BlendFactors = [4]uint32{sfactor, dfactor, sfactor, dfactor}
}
func (f *Functions) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	f.BlendFactors = [4]uint32{srcRGB, dstRGB, srcAlpha, dstAlpha}
}
func (f *Functions) BlendEquationSeparate(modeRGB, modeAlpha uint32) {
	f.BlendEquations = [2]uint32{modeRGB, modeAlpha}
}
func (f *Functions) BlendColor(r, g, b, a float32) { f.BlendConstant = [4]float32{r, g, b, a} }
func (f *Functions) ColorMask(r, g, b, a bool) { f.Mask = [4]bool{r, g, b, a} }
func (f *Functions) DepthFunc(fn uint32) {}
func (f *Functions) PixelStorei(pname uint32, param int32) {}
func (f *Functions) Flush() {}
func (f *Functions) Finish() {}

func (f *Functions) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte) {
	copy(pixels, f.Framebuffer)
}

func (f *Functions) CreateBuffer() uint32 { return f.create() }
func (f *Functions) BindBuffer(target, buffer uint32) { f.Bindings[target] = buffer }
func (f *Functions) BufferData(target uint32, data []byte, usage uint32) {}
func (f *Functions) BufferDataSize(target uint32, size int, usage uint32) {}
func (f *Functions) BufferSubData(target uint32, offset int, data []byte) {}
func (f *Functions) DeleteBuffer(buffer uint32) { f.remove(buffer) }

func (f *Functions) CreateShader(xtype uint32) uint32 { return f.create() }
func (f *Functions) ShaderSource(shader uint32, source string) { f.Sources[shader] = source }
func (f *Functions) CompileShader(shader uint32) {}
func (f *Functions) GetShaderInfoLog(shader uint32) string { return "" }
func (f *Functions) DeleteShader(shader uint32) { f.remove(shader) }

func (f *Functions) GetShaderi(shader, pname uint32) int32 {
	if pname == glCompileStatus && !f.CompileFails {
		return 1
	}
	return 0
}

func (f *Functions) CreateProgram() uint32 { return f.create() }
func (f *Functions) AttachShader(program, shader uint32) {}
func (f *Functions) DetachShader(program, shader uint32) {}
func (f *Functions) LinkProgram(program uint32) {}
func (f *Functions) ValidateProgram(program uint32) {}
func (f *Functions) UseProgram(program uint32) {}
func (f *Functions) GetProgramInfoLog(program uint32) string { return "" }
func (f *Functions) DeleteProgram(program uint32) { f.remove(program) }

func (f *Functions) GetProgrami(program, pname uint32) int32 {
	switch pname {
	case glLinkStatus:
		if !f.LinkFails {
			return 1
		}
	case glValidateStatus:
		return 1
	}
	return 0
}

func (f *Functions) GetAttribLocation(program uint32, name string) int32 {
	if loc, ok := f.Attribs[name]; ok {
		return loc
	}
	return -1
}

func (f *Functions) BindAttribLocation(program, index uint32, name string) {
	f.Attribs[name] = int32(index)
}

func (f *Functions) GetUniformLocation(program uint32, name string) int32 {
	if loc, ok := f.Uniforms[name]; ok {
		return loc
	}
	return -1
}

func (f *Functions) Uniform1f(location int32, x float32) { f.Values[location] = []float32{x} }
func (f *Functions) Uniform2f(location int32, x, y float32) {
	f.Values[location] = []float32{x, y}
}
func (f *Functions) Uniform3f(location int32, x, y, z float32) {
	f.Values[location] = []float32{x, y, z}
}
func (f *Functions) Uniform4f(location int32, x, y, z, w float32) {
	f.Values[location] = []float32{x, y, z, w}
}
func (f *Functions) Uniform1i(location int32, x int32) { f.Values[location] = []float32{float32(x)} }
func (f *Functions) Uniform2i(location int32, x, y int32) {
	f.Values[location] = []float32{float32(x), float32(y)}
}
func (f *Functions) Uniform3i(location int32, x, y, z int32) {
	f.Values[location] = []float32{float32(x), float32(y), float32(z)}
}
func (f *Functions) Uniform4i(location int32, x, y, z, w int32) {
	f.Values[location] = []float32{float32(x), float32(y), float32(z), float32(w)}
}
func (f *Functions) UniformMatrix2fv(location int32, transpose bool, values []float32) {
	f.Values[location] = append([]float32(nil), values...)
}
func (f *Functions) UniformMatrix3fv(location int32, transpose bool, values []float32) {
	f.Values[location] = append([]float32(nil), values...)
}
func (f *Functions) UniformMatrix4fv(location int32, transpose bool, values []float32) {
	f.Values[location] = append([]float32(nil), values...)
}

func (f *Functions) EnableVertexAttribArray(index uint32) {}
func (f *Functions) DisableVertexAttribArray(index uint32) {}
func (f *Functions) VertexAttrib4f(index uint32, x, y, z, w float32) {
	f.AttribValues[index] = [4]float32{x, y, z, w}
}
func (f *Functions) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
}
func (f *Functions) DrawArrays(mode uint32, first, count int32) { f.Draws++ }
func (f *Functions) DrawElements(mode uint32, count int32, xtype uint32, offset int) { f.Draws++ }
func (f *Functions) CreateVertexArray() uint32 { return f.create() }
func (f *Functions) BindVertexArray(array uint32) {}
func (f *Functions) DeleteVertexArray(array uint32) { f.remove(array) }

func (f *Functions) CreateTexture() uint32 { return f.create() }
func (f *Functions) BindTexture(target, texture uint32) { f.Bindings[target] = texture }
func (f *Functions) ActiveTexture(unit uint32) {}
func (f *Functions) TexParameteri(target, pname uint32, param int32) {}
func (f *Functions) TexParameterf(target, pname uint32, param float32) { f.TexParams[pname] = param }
func (f *Functions) GenerateMipmap(target uint32) {}
func (f *Functions) DeleteTexture(texture uint32) { f.remove(texture) }

func (f *Functions) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	f.TexImages = append(f.TexImages, TexImage{
		Target:         target,
		InternalFormat: internalFormat,
		Width:          width,
		Height:         height,
		Format:         format,
		Pixels:         append([]byte(nil), pixels...),
	})
}

func (f *Functions) CreateFramebuffer() uint32 { return f.create() }
func (f *Functions) BindFramebuffer(target, framebuffer uint32) {
	f.framebuf = framebuffer
	f.Bindings[target] = framebuffer
}
func (f *Functions) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
}
func (f *Functions) FramebufferRenderbuffer(target, attachment, rbtarget, renderbuffer uint32) {}
func (f *Functions) DeleteFramebuffer(framebuffer uint32) { f.remove(framebuffer) }

// CheckFramebufferStatus reports complete unless the bound framebuffer was
// deleted.
func (f *Functions) CheckFramebufferStatus(target uint32) uint32 {
	if f.framebuf == 0 || f.live[f.framebuf] {
		return glFramebufferComplete
	}
	return glFramebufferUndefined
}

func (f *Functions) CreateRenderbuffer() uint32 { return f.create() }
func (f *Functions) BindRenderbuffer(target, renderbuffer uint32) {}
func (f *Functions) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
}
func (f *Functions) DeleteRenderbuffer(renderbuffer uint32) { f.remove(renderbuffer) }
