// Package glimpl implements graphics.Functions on top of the go-gl
// OpenGL 4.1 core bindings.
package glimpl

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/headlessgl/graphics"
)

var (
	loadOnce sync.Once
	loadErr  error
)

// Load resolves the GL function pointers. A context must be current on the
// calling thread the first time it runs; later calls return the first result.
func Load() error {
	loadOnce.Do(func() {
		loadErr = gl.Init()
	})
	if loadErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", loadErr)
	}
	return nil
}

// Functions calls straight into the loaded GL entry points.
type Functions struct{}

var _ graphics.Functions = Functions{}

// New returns the go-gl backed functions. Load must have succeeded.
func New() Functions {
	return Functions{}
}

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func (Functions) GetError() uint32 { return gl.GetError() }

func (Functions) GetString(name uint32) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

func (Functions) GetInteger(pname uint32) int32 {
	var v int32
	gl.GetIntegerv(pname, &v)
	return v
}

// Extensions lists the extension strings one by one; core profiles do not
// answer GL_EXTENSIONS through glGetString.
func (f Functions) Extensions() []string {
	n := f.GetInteger(gl.NUM_EXTENSIONS)
	if n <= 0 {
		return strings.Fields(f.GetString(gl.EXTENSIONS))
	}
	exts := make([]string, 0, n)
	for i := uint32(0); i < uint32(n); i++ {
		if s := gl.GetStringi(gl.EXTENSIONS, i); s != nil {
			exts = append(exts, gl.GoStr(s))
		}
	}
	return exts
}

func (Functions) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (Functions) Scissor(x, y, width, height int32) { gl.Scissor(x, y, width, height) }
func (Functions) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (Functions) ClearDepth(d float64) { gl.ClearDepth(d) }
func (Functions) ClearStencil(s int32) { gl.ClearStencil(s) }
func (Functions) Clear(mask uint32) { gl.Clear(mask) }
func (Functions) Enable(capability uint32) { gl.Enable(capability) }
func (Functions) Disable(capability uint32) { gl.Disable(capability) }
func (Functions) IsEnabled(capability uint32) bool { return gl.IsEnabled(capability) }
func (Functions) BlendFunc(sfactor, dfactor uint32) { gl.BlendFunc(sfactor, dfactor) }
func (Functions) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	gl.BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha)
}
func (Functions) BlendEquationSeparate(modeRGB, modeAlpha uint32) {
	gl.BlendEquationSeparate(modeRGB, modeAlpha)
}
func (Functions) BlendColor(r, g, b, a float32) { gl.BlendColor(r, g, b, a) }
func (Functions) ColorMask(r, g, b, a bool) { gl.ColorMask(r, g, b, a) }
func (Functions) DepthFunc(fn uint32) { gl.DepthFunc(fn) }
func (Functions) PixelStorei(pname uint32, param int32) {
	gl.PixelStorei(pname, param)
}
func (Functions) Flush() { gl.Flush() }
func (Functions) Finish() { gl.Finish() }

func (Functions) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte) {
	gl.ReadPixels(x, y, width, height, format, xtype, ptr(pixels))
}

func (Functions) CreateBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (Functions) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (Functions) BufferData(target uint32, data []byte, usage uint32) {
	gl.BufferData(target, len(data), ptr(data), usage)
}

func (Functions) BufferDataSize(target uint32, size int, usage uint32) {
	gl.BufferData(target, size, nil, usage)
}

func (Functions) BufferSubData(target uint32, offset int, data []byte) {
	gl.BufferSubData(target, offset, len(data), ptr(data))
}

func (Functions) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (Functions) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (Functions) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csources, nil)
}

func (Functions) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (Functions) GetShaderi(shader, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (f Functions) GetShaderInfoLog(shader uint32) string {
	n := f.GetShaderi(shader, gl.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	gl.GetShaderInfoLog(shader, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (Functions) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (Functions) CreateProgram() uint32 { return gl.CreateProgram() }
func (Functions) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (Functions) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }
func (Functions) LinkProgram(program uint32) { gl.LinkProgram(program) }
func (Functions) ValidateProgram(program uint32) { gl.ValidateProgram(program) }
func (Functions) UseProgram(program uint32) { gl.UseProgram(program) }

func (Functions) GetProgrami(program, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (f Functions) GetProgramInfoLog(program uint32) string {
	n := f.GetProgrami(program, gl.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	gl.GetProgramInfoLog(program, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (Functions) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (Functions) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (Functions) BindAttribLocation(program, index uint32, name string) {
	gl.BindAttribLocation(program, index, gl.Str(name+"\x00"))
}

func (Functions) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Functions) Uniform1f(location int32, x float32) { gl.Uniform1f(location, x) }
func (Functions) Uniform2f(location int32, x, y float32) { gl.Uniform2f(location, x, y) }
func (Functions) Uniform3f(location int32, x, y, z float32) { gl.Uniform3f(location, x, y, z) }
func (Functions) Uniform4f(location int32, x, y, z, w float32) { gl.Uniform4f(location, x, y, z, w) }
func (Functions) Uniform1i(location int32, x int32) { gl.Uniform1i(location, x) }
func (Functions) Uniform2i(location int32, x, y int32) { gl.Uniform2i(location, x, y) }
func (Functions) Uniform3i(location int32, x, y, z int32) { gl.Uniform3i(location, x, y, z) }
func (Functions) Uniform4i(location int32, x, y, z, w int32) { gl.Uniform4i(location, x, y, z, w) }

func (Functions) UniformMatrix2fv(location int32, transpose bool, values []float32) {
	if len(values) < 4 {
		return
	}
	gl.UniformMatrix2fv(location, int32(len(values)/4), transpose, &values[0])
}

func (Functions) UniformMatrix3fv(location int32, transpose bool, values []float32) {
	if len(values) < 9 {
		return
	}
	gl.UniformMatrix3fv(location, int32(len(values)/9), transpose, &values[0])
}

func (Functions) UniformMatrix4fv(location int32, transpose bool, values []float32) {
	if len(values) < 16 {
		return
	}
	gl.UniformMatrix4fv(location, int32(len(values)/16), transpose, &values[0])
}

func (Functions) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }
func (Functions) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }
func (Functions) VertexAttrib4f(index uint32, x, y, z, w float32) {
	gl.VertexAttrib4f(index, x, y, z, w)
}

func (Functions) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(offset))
}

func (Functions) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (Functions) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	gl.DrawElements(mode, count, xtype, gl.PtrOffset(offset))
}

func (Functions) CreateVertexArray() uint32 {
	var a uint32
	gl.GenVertexArrays(1, &a)
	return a
}

func (Functions) BindVertexArray(array uint32) { gl.BindVertexArray(array) }
func (Functions) DeleteVertexArray(array uint32) { gl.DeleteVertexArrays(1, &array) }

func (Functions) CreateTexture() uint32 {
	var t uint32
	gl.GenTextures(1, &t)
	return t
}

func (Functions) BindTexture(target, texture uint32) { gl.BindTexture(target, texture) }
func (Functions) ActiveTexture(unit uint32) { gl.ActiveTexture(unit) }

func (Functions) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, ptr(pixels))
}

func (Functions) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (Functions) TexParameterf(target, pname uint32, param float32) {
	gl.TexParameterf(target, pname, param)
}

func (Functions) GenerateMipmap(target uint32) { gl.GenerateMipmap(target) }
func (Functions) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (Functions) CreateFramebuffer() uint32 {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	return fb
}

func (Functions) BindFramebuffer(target, framebuffer uint32) {
	gl.BindFramebuffer(target, framebuffer)
}

func (Functions) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, textarget, texture, level)
}

func (Functions) FramebufferRenderbuffer(target, attachment, rbtarget, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(target, attachment, rbtarget, renderbuffer)
}

func (Functions) CheckFramebufferStatus(target uint32) uint32 {
	return gl.CheckFramebufferStatus(target)
}

func (Functions) DeleteFramebuffer(framebuffer uint32) { gl.DeleteFramebuffers(1, &framebuffer) }

func (Functions) CreateRenderbuffer() uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	return rb
}

func (Functions) BindRenderbuffer(target, renderbuffer uint32) {
	gl.BindRenderbuffer(target, renderbuffer)
}

func (Functions) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	gl.RenderbufferStorage(target, internalFormat, width, height)
}

func (Functions) DeleteRenderbuffer(renderbuffer uint32) {
	gl.DeleteRenderbuffers(1, &renderbuffer)
}
