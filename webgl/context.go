// Package webgl implements a WebGL 1 style rendering context on top of a
// native OpenGL context with an off-screen drawing buffer.
//
// A RenderingContext is bound to OS threads the way OpenGL contexts are:
// call its methods from a goroutine locked with runtime.LockOSThread.
package webgl

import (
	"errors"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/richinsley/headlessgl/graphics"
	"github.com/richinsley/headlessgl/options"
)

var (
	// ErrInvalidSize is returned for drawing buffers with a non-positive side.
	ErrInvalidSize = errors.New("webgl: drawing buffer size must be positive")
	// ErrUnsupported is returned when the native context lacks a required
	// version or extension.
	ErrUnsupported = errors.New("webgl: native context unsupported")
)

type contextState int

const (
	stateOK contextState = iota
	stateDestroyed
	stateLost
)

// supportedExtensions are the WebGL extensions a 3.x+ core context can
// always back.
var supportedExtensions = []string{
	"OES_element_index_uint",
	"OES_standard_derivatives",
	"OES_vertex_array_object",
}

// RenderingContext is a WebGL 1 style rendering context.
type RenderingContext struct {
	native     graphics.Context
	f          graphics.Functions
	translator ShaderTranslator
	attrs      options.ContextAttributes
	required   []string

	width, height int
	state         contextState
	lostReported  bool
	lastError     uint32

	unpackFlipY                bool
	unpackPremultiplyAlpha     bool
	unpackColorspaceConversion int32
	unpackAlignment            int32
	packAlignment              int32

	preferredDepth     uint32
	maxVertexAttribs   int32
	maxTextureUnits    int32
	enabledExtensions  map[string]bool
	objects            map[objectKey]*object
	defaultVertexArray *VertexArray

	vertexArray   *VertexArray
	arrayBuffer   *Buffer
	program       *Program
	framebuffer   *Framebuffer
	renderbuffer  *Renderbuffer
	activeTexture int
	textureUnits  []textureUnit
}

type textureUnit struct {
	texture2D *Texture
	cubeMap   *Texture
}

// Option configures a RenderingContext at construction.
type Option func(*RenderingContext)

// WithTranslator sets the shader translator. Without it, shader sources are
// passed to the driver unchanged.
func WithTranslator(t ShaderTranslator) Option {
	return func(c *RenderingContext) {
		if t != nil {
			c.translator = t
		}
	}
}

// WithRequiredExtensions declines construction when the native context does
// not report every listed extension.
func WithRequiredExtensions(names ...string) Option {
	return func(c *RenderingContext) {
		c.required = append(c.required, names...)
	}
}

// New creates a rendering context with a width x height drawing buffer on
// driver. A nil attrs selects options.DefaultContextAttributes. On error,
// or when construction panics, no native resource is left allocated.
func New(driver graphics.Driver, width, height int, attrs *options.ContextAttributes, opts ...Option) (*RenderingContext, error) {
	if driver == nil {
		return nil, fmt.Errorf("webgl: no driver: %w", graphics.ErrUnavailable)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	attrs = options.Resolve(attrs)

	native, err := driver.NewContext(width, height, attrs)
	if err != nil {
		return nil, fmt.Errorf("webgl: %s context: %w", driver.Name(), err)
	}
	if native == nil {
		return nil, fmt.Errorf("webgl: %s driver returned no context: %w", driver.Name(), graphics.ErrUnavailable)
	}
	// Release on every exit but success, panics included.
	ok := false
	defer func() {
		if !ok {
			native.Release()
		}
	}()

	c := &RenderingContext{
		native:                     native,
		translator:                 Passthrough{},
		attrs:                      *attrs,
		width:                      width,
		height:                     height,
		unpackColorspaceConversion: BROWSER_DEFAULT_WEBGL,
		unpackAlignment:            4,
		packAlignment:              4,
		enabledExtensions:          make(map[string]bool),
		objects:                    make(map[objectKey]*object),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.initialize(); err != nil {
		return nil, err
	}
	ok = true
	return c, nil
}

func (c *RenderingContext) initialize() error {
	if err := c.native.MakeCurrent(); err != nil {
		return fmt.Errorf("webgl: make current: %w", err)
	}
	c.f = c.native.Functions()
	if c.f == nil {
		return fmt.Errorf("webgl: native context has no GL functions: %w", ErrUnsupported)
	}

	if !c.native.IsGLES() {
		if major := c.f.GetInteger(glMajorVersion); major < 3 {
			return fmt.Errorf("%w: OpenGL %d.x (%s)", ErrUnsupported, major, c.f.GetString(VERSION))
		}
	}
	exts := c.f.Extensions()
	for _, name := range c.required {
		if !hasExtension(exts, name) {
			return fmt.Errorf("%w: missing extension %s", ErrUnsupported, name)
		}
	}

	c.preferredDepth = glDepthComponent24
	if c.native.IsGLES() && !hasExtension(exts, "GL_OES_depth24") {
		c.preferredDepth = DEPTH_COMPONENT16
	}
	c.maxVertexAttribs = c.f.GetInteger(MAX_VERTEX_ATTRIBS)
	c.maxTextureUnits = c.f.GetInteger(MAX_COMBINED_TEXTURE_IMAGE_UNITS)
	if c.maxTextureUnits <= 0 {
		c.maxTextureUnits = 8
	}
	c.textureUnits = make([]textureUnit, c.maxTextureUnits)

	// Core profiles draw nothing without a vertex array bound; WebGL 1 has
	// an implicit one.
	c.defaultVertexArray = &VertexArray{object: c.newObject(kindVertexArray, c.f.CreateVertexArray())}
	c.vertexArray = c.defaultVertexArray
	c.f.BindVertexArray(c.defaultVertexArray.id)

	c.f.Viewport(0, 0, int32(c.width), int32(c.height))
	c.f.Scissor(0, 0, int32(c.width), int32(c.height))
	c.f.PixelStorei(UNPACK_ALIGNMENT, 1)
	c.f.PixelStorei(PACK_ALIGNMENT, 4)
	if err := c.f.GetError(); err != NO_ERROR {
		return fmt.Errorf("webgl: initial state: GL error 0x%04x", err)
	}
	return nil
}

func hasExtension(exts []string, name string) bool {
	for _, e := range exts {
		if e == name {
			return true
		}
	}
	return false
}

// activate makes c current on the calling thread. It reports false when the
// context can no longer be used.
func (c *RenderingContext) activate() bool {
	if c.state != stateOK {
		return false
	}
	if c.native.IsCurrent() {
		return true
	}
	if err := c.native.MakeCurrent(); err != nil {
		log.Printf("webgl: lost context: %v", err)
		c.state = stateLost
		return false
	}
	return true
}

func (c *RenderingContext) setError(code uint32) {
	if code == NO_ERROR || c.lastError != NO_ERROR {
		return
	}
	c.lastError = code
}

// GetError returns and clears the oldest recorded error.
func (c *RenderingContext) GetError() uint32 {
	if c.state != stateOK {
		if c.lostReported {
			return NO_ERROR
		}
		c.lostReported = true
		return CONTEXT_LOST_WEBGL
	}
	if c.lastError != NO_ERROR {
		err := c.lastError
		c.lastError = NO_ERROR
		return err
	}
	if !c.activate() {
		c.lostReported = true
		return CONTEXT_LOST_WEBGL
	}
	return c.f.GetError()
}

// IsContextLost reports whether the context was destroyed or its native
// context could not be made current.
func (c *RenderingContext) IsContextLost() bool {
	return c.state != stateOK
}

// Destroy deletes every object created through c and releases the native
// context. The context reports itself lost afterwards.
func (c *RenderingContext) Destroy() {
	if c.state == stateDestroyed {
		return
	}
	if c.state == stateOK && c.activate() {
		for key, o := range c.objects {
			c.deleteNative(o)
			delete(c.objects, key)
		}
		if c.defaultVertexArray != nil {
			c.deleteNative(&c.defaultVertexArray.object)
		}
	}
	c.state = stateDestroyed
	c.native.ReleaseCurrent()
	c.native.Release()
}

// DrawingBufferWidth is the width of the drawing buffer in pixels.
func (c *RenderingContext) DrawingBufferWidth() int { return c.width }

// DrawingBufferHeight is the height of the drawing buffer in pixels.
func (c *RenderingContext) DrawingBufferHeight() int { return c.height }

// GetContextAttributes returns a copy of the attributes the context was
// created with, or nil once the context is lost.
func (c *RenderingContext) GetContextAttributes() *options.ContextAttributes {
	if c.state != stateOK {
		return nil
	}
	attrs := c.attrs
	return &attrs
}

// Resize replaces the drawing buffer. The viewport is left alone.
func (c *RenderingContext) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if !c.activate() {
		return fmt.Errorf("webgl: resize: context lost")
	}
	if err := c.native.Resize(width, height); err != nil {
		return fmt.Errorf("webgl: resize: %w", err)
	}
	c.width, c.height = width, height
	return nil
}

// GetSupportedExtensions lists the WebGL extensions GetExtension accepts.
func (c *RenderingContext) GetSupportedExtensions() []string {
	if c.state != stateOK {
		return nil
	}
	return append([]string(nil), supportedExtensions...)
}

// GetExtension enables the named extension and reports whether it exists.
// Names compare case-insensitively.
func (c *RenderingContext) GetExtension(name string) bool {
	if c.state != stateOK {
		return false
	}
	for _, ext := range supportedExtensions {
		if strings.EqualFold(ext, name) {
			c.enabledExtensions[ext] = true
			return true
		}
	}
	return false
}

// GetParameterString answers VENDOR, RENDERER and VERSION.
func (c *RenderingContext) GetParameterString(pname uint32) string {
	if !c.activate() {
		return ""
	}
	switch pname {
	case VENDOR, RENDERER:
		return c.f.GetString(pname)
	case VERSION:
		return "WebGL 1.0 (" + c.f.GetString(VERSION) + ")"
	}
	c.setError(INVALID_ENUM)
	return ""
}

func (c *RenderingContext) Viewport(x, y, width, height int32) {
	if !c.activate() {
		return
	}
	if width < 0 || height < 0 {
		c.setError(INVALID_VALUE)
		return
	}
	c.f.Viewport(x, y, width, height)
}

func (c *RenderingContext) Scissor(x, y, width, height int32) {
	if !c.activate() {
		return
	}
	if width < 0 || height < 0 {
		c.setError(INVALID_VALUE)
		return
	}
	c.f.Scissor(x, y, width, height)
}

func (c *RenderingContext) ClearColor(r, g, b, a float32) {
	if c.activate() {
		c.f.ClearColor(r, g, b, a)
	}
}

func (c *RenderingContext) ClearDepth(d float32) {
	if c.activate() {
		c.f.ClearDepth(float64(clamp01(d)))
	}
}

func (c *RenderingContext) ClearStencil(s int32) {
	if c.activate() {
		c.f.ClearStencil(s)
	}
}

func (c *RenderingContext) Clear(mask uint32) {
	if !c.activate() {
		return
	}
	if mask&^(COLOR_BUFFER_BIT|DEPTH_BUFFER_BIT|STENCIL_BUFFER_BIT) != 0 {
		c.setError(INVALID_VALUE)
		return
	}
	c.f.Clear(mask)
}

func validCapability(capability uint32) bool {
	switch capability {
	case BLEND, CULL_FACE, DEPTH_TEST, DITHER, POLYGON_OFFSET_FILL,
		SAMPLE_ALPHA_TO_COVERAGE, SAMPLE_COVERAGE, SCISSOR_TEST, STENCIL_TEST:
		return true
	}
	return false
}

func (c *RenderingContext) Enable(capability uint32) {
	if !c.activate() {
		return
	}
	if !validCapability(capability) {
		c.setError(INVALID_ENUM)
		return
	}
	c.f.Enable(capability)
}

func (c *RenderingContext) Disable(capability uint32) {
	if !c.activate() {
		return
	}
	if !validCapability(capability) {
		c.setError(INVALID_ENUM)
		return
	}
	c.f.Disable(capability)
}

func (c *RenderingContext) IsEnabled(capability uint32) bool {
	if !c.activate() {
		return false
	}
	if !validCapability(capability) {
		c.setError(INVALID_ENUM)
		return false
	}
	return c.f.IsEnabled(capability)
}

func validBlendFactor(f uint32) bool {
	switch f {
	case ZERO, ONE, SRC_COLOR, ONE_MINUS_SRC_COLOR, SRC_ALPHA, ONE_MINUS_SRC_ALPHA,
		DST_ALPHA, ONE_MINUS_DST_ALPHA, DST_COLOR, ONE_MINUS_DST_COLOR, SRC_ALPHA_SATURATE,
		CONSTANT_COLOR, ONE_MINUS_CONSTANT_COLOR, CONSTANT_ALPHA, ONE_MINUS_CONSTANT_ALPHA:
		return true
	}
	return false
}

func isConstantColor(f uint32) bool { return f == CONSTANT_COLOR || f == ONE_MINUS_CONSTANT_COLOR }
func isConstantAlpha(f uint32) bool { return f == CONSTANT_ALPHA || f == ONE_MINUS_CONSTANT_ALPHA }

// checkBlendFactors validates one source/destination pair. WebGL forbids
// combining a constant color factor with a constant alpha factor.
func (c *RenderingContext) checkBlendFactors(src, dst uint32) bool {
	if !validBlendFactor(src) || !validBlendFactor(dst) || dst == SRC_ALPHA_SATURATE {
		c.setError(INVALID_ENUM)
		return false
	}
	if (isConstantColor(src) && isConstantAlpha(dst)) || (isConstantAlpha(src) && isConstantColor(dst)) {
		c.setError(INVALID_OPERATION)
		return false
	}
	return true
}

func (c *RenderingContext) BlendFunc(sfactor, dfactor uint32) {
	if c.activate() && c.checkBlendFactors(sfactor, dfactor) {
		c.f.BlendFunc(sfactor, dfactor)
	}
}

func (c *RenderingContext) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	if !c.activate() {
		return
	}
	if c.checkBlendFactors(srcRGB, dstRGB) && c.checkBlendFactors(srcAlpha, dstAlpha) {
		c.f.BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha)
	}
}

func validBlendEquation(mode uint32) bool {
	return mode == FUNC_ADD || mode == FUNC_SUBTRACT || mode == FUNC_REVERSE_SUBTRACT
}

func (c *RenderingContext) BlendEquation(mode uint32) {
	c.BlendEquationSeparate(mode, mode)
}

func (c *RenderingContext) BlendEquationSeparate(modeRGB, modeAlpha uint32) {
	if !c.activate() {
		return
	}
	if !validBlendEquation(modeRGB) || !validBlendEquation(modeAlpha) {
		c.setError(INVALID_ENUM)
		return
	}
	c.f.BlendEquationSeparate(modeRGB, modeAlpha)
}

func (c *RenderingContext) BlendColor(r, g, b, a float32) {
	if c.activate() {
		c.f.BlendColor(r, g, b, a)
	}
}

func (c *RenderingContext) ColorMask(r, g, b, a bool) {
	if c.activate() {
		c.f.ColorMask(r, g, b, a)
	}
}

func (c *RenderingContext) DepthFunc(fn uint32) {
	if !c.activate() {
		return
	}
	if fn < NEVER || fn > ALWAYS {
		c.setError(INVALID_ENUM)
		return
	}
	c.f.DepthFunc(fn)
}

// PixelStorei sets the pixel store parameters, including the WebGL-only
// unpack flags applied by TexImage2D.
func (c *RenderingContext) PixelStorei(pname uint32, param int32) {
	if !c.activate() {
		return
	}
	switch pname {
	case UNPACK_FLIP_Y_WEBGL:
		c.unpackFlipY = param != 0
	case UNPACK_PREMULTIPLY_ALPHA_WEBGL:
		c.unpackPremultiplyAlpha = param != 0
	case UNPACK_COLORSPACE_CONVERSION_WEBGL:
		if param != BROWSER_DEFAULT_WEBGL && param != 0 {
			c.setError(INVALID_VALUE)
			return
		}
		c.unpackColorspaceConversion = param
	case UNPACK_ALIGNMENT, PACK_ALIGNMENT:
		switch param {
		case 1, 2, 4, 8:
		default:
			c.setError(INVALID_VALUE)
			return
		}
		if pname == UNPACK_ALIGNMENT {
			// Uploads are repacked tightly, so the native side stays at 1.
			c.unpackAlignment = param
		} else {
			c.packAlignment = param
			c.f.PixelStorei(PACK_ALIGNMENT, param)
		}
	default:
		c.setError(INVALID_ENUM)
	}
}

func (c *RenderingContext) Flush() {
	if c.activate() {
		c.f.Flush()
	}
}

func (c *RenderingContext) Finish() {
	if c.activate() {
		c.f.Finish()
	}
}

// ReadPixels reads RGBA/UNSIGNED_BYTE pixels from the bound framebuffer into
// pixels, bottom row first.
func (c *RenderingContext) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte) {
	if !c.activate() {
		return
	}
	if width < 0 || height < 0 {
		c.setError(INVALID_VALUE)
		return
	}
	if format != RGBA || xtype != UNSIGNED_BYTE {
		c.setError(INVALID_OPERATION)
		return
	}
	if len(pixels) < packedSize(int(width), int(height), 4, int(c.packAlignment)) {
		c.setError(INVALID_OPERATION)
		return
	}
	c.f.ReadPixels(x, y, width, height, format, xtype, pixels)
}

// Screenshot reads the whole drawing buffer into an image, top row first.
func (c *RenderingContext) Screenshot() (*image.RGBA, error) {
	if !c.activate() {
		return nil, fmt.Errorf("webgl: screenshot: context lost")
	}
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))

	c.f.BindFramebuffer(FRAMEBUFFER, 0)
	c.f.PixelStorei(PACK_ALIGNMENT, 4)
	c.f.ReadPixels(0, 0, int32(c.width), int32(c.height), RGBA, UNSIGNED_BYTE, img.Pix)
	c.f.PixelStorei(PACK_ALIGNMENT, c.packAlignment)
	if c.framebuffer != nil {
		c.f.BindFramebuffer(FRAMEBUFFER, c.framebuffer.id)
	}
	if glErr := c.f.GetError(); glErr != NO_ERROR {
		return nil, fmt.Errorf("webgl: glReadPixels failed: 0x%04x", glErr)
	}

	// OpenGL's origin is the lower left corner.
	flipRows(img.Pix, img.Stride, c.height)
	return img, nil
}

func flipRows(pix []byte, stride, rows int) {
	row := make([]byte, stride)
	for y := 0; y < rows/2; y++ {
		top := pix[y*stride : (y+1)*stride]
		bottom := pix[(rows-y-1)*stride : (rows-y)*stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

// packedSize is the byte length of width x height pixels with rows padded
// to alignment.
func packedSize(width, height, bpp, alignment int) int {
	if width == 0 || height == 0 {
		return 0
	}
	return (height-1)*rowStride(width, bpp, alignment) + width*bpp
}

func rowStride(width, bpp, alignment int) int {
	n := width * bpp
	if r := n % alignment; r != 0 {
		n += alignment - r
	}
	return n
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
