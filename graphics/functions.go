package graphics

// Functions is the subset of the OpenGL API a rendering context is built on.
// Object names are returned and taken as plain uint32 handles; 0 means none.
type Functions interface {
	GetError() uint32
	GetString(name uint32) string
	GetInteger(pname uint32) int32
	Extensions() []string

	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	ClearDepth(d float64)
	ClearStencil(s int32)
	Clear(mask uint32)
	Enable(capability uint32)
	Disable(capability uint32)
	IsEnabled(capability uint32) bool
	BlendFunc(sfactor, dfactor uint32)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32)
	BlendEquationSeparate(modeRGB, modeAlpha uint32)
	BlendColor(r, g, b, a float32)
	ColorMask(r, g, b, a bool)
	DepthFunc(fn uint32)
	PixelStorei(pname uint32, param int32)
	Flush()
	Finish()
	ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte)

	CreateBuffer() uint32
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, data []byte, usage uint32)
	BufferDataSize(target uint32, size int, usage uint32)
	BufferSubData(target uint32, offset int, data []byte)
	DeleteBuffer(buffer uint32)

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderi(shader, pname uint32) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	ValidateProgram(program uint32)
	UseProgram(program uint32)
	GetProgrami(program, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	GetAttribLocation(program uint32, name string) int32
	BindAttribLocation(program, index uint32, name string)
	GetUniformLocation(program uint32, name string) int32
	Uniform1f(location int32, x float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	Uniform1i(location int32, x int32)
	Uniform2i(location int32, x, y int32)
	Uniform3i(location int32, x, y, z int32)
	Uniform4i(location int32, x, y, z, w int32)
	UniformMatrix2fv(location int32, transpose bool, values []float32)
	UniformMatrix3fv(location int32, transpose bool, values []float32)
	UniformMatrix4fv(location int32, transpose bool, values []float32)

	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	VertexAttrib4f(index uint32, x, y, z, w float32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)
	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset int)
	CreateVertexArray() uint32
	BindVertexArray(array uint32)
	DeleteVertexArray(array uint32)

	CreateTexture() uint32
	BindTexture(target, texture uint32)
	ActiveTexture(unit uint32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte)
	TexParameteri(target, pname uint32, param int32)
	TexParameterf(target, pname uint32, param float32)
	GenerateMipmap(target uint32)
	DeleteTexture(texture uint32)

	CreateFramebuffer() uint32
	BindFramebuffer(target, framebuffer uint32)
	FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32)
	FramebufferRenderbuffer(target, attachment, rbtarget, renderbuffer uint32)
	CheckFramebufferStatus(target uint32) uint32
	DeleteFramebuffer(framebuffer uint32)

	CreateRenderbuffer() uint32
	BindRenderbuffer(target, renderbuffer uint32)
	RenderbufferStorage(target, internalFormat uint32, width, height int32)
	DeleteRenderbuffer(renderbuffer uint32)
}
