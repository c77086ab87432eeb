package webgl

func (c *RenderingContext) CreateTexture() *Texture {
	if !c.activate() {
		return nil
	}
	t := &Texture{object: c.newObject(kindTexture, c.f.CreateTexture())}
	c.register(&t.object)
	return t
}

func (c *RenderingContext) IsTexture(t *Texture) bool {
	return t != nil && c.activate() && t.belongsTo(c) && t.target != 0
}

// BindTexture binds t to target on the active unit. Like buffers, a texture
// keeps the first target it was bound to.
func (c *RenderingContext) BindTexture(target uint32, t *Texture) {
	if !c.activate() {
		return
	}
	if target != TEXTURE_2D && target != TEXTURE_CUBE_MAP {
		c.setError(INVALID_ENUM)
		return
	}
	var id uint32
	if t != nil {
		if !t.belongsTo(c) || (t.target != 0 && t.target != target) {
			c.setError(INVALID_OPERATION)
			return
		}
		t.target = target
		id = t.id
	}
	unit := &c.textureUnits[c.activeTexture]
	if target == TEXTURE_2D {
		unit.texture2D = t
	} else {
		unit.cubeMap = t
	}
	c.f.BindTexture(target, id)
}

func (c *RenderingContext) ActiveTexture(unit uint32) {
	if !c.activate() {
		return
	}
	if unit < TEXTURE0 || unit-TEXTURE0 >= uint32(len(c.textureUnits)) {
		c.setError(INVALID_ENUM)
		return
	}
	c.activeTexture = int(unit - TEXTURE0)
	c.f.ActiveTexture(unit)
}

// boundTexture returns the texture bound for target on the active unit.
// Cube map faces resolve to the bound cube map.
func (c *RenderingContext) boundTexture(target uint32) (*Texture, bool) {
	unit := c.textureUnits[c.activeTexture]
	switch target {
	case TEXTURE_2D:
		return unit.texture2D, true
	case TEXTURE_CUBE_MAP,
		TEXTURE_CUBE_MAP_POSITIVE_X, TEXTURE_CUBE_MAP_NEGATIVE_X,
		TEXTURE_CUBE_MAP_POSITIVE_Y, TEXTURE_CUBE_MAP_NEGATIVE_Y,
		TEXTURE_CUBE_MAP_POSITIVE_Z, TEXTURE_CUBE_MAP_NEGATIVE_Z:
		return unit.cubeMap, true
	}
	c.setError(INVALID_ENUM)
	return nil, false
}

func isCubeFace(target uint32) bool {
	return target >= TEXTURE_CUBE_MAP_POSITIVE_X && target <= TEXTURE_CUBE_MAP_NEGATIVE_Z
}

func formatChannels(format uint32) int {
	switch format {
	case ALPHA, LUMINANCE:
		return 1
	case LUMINANCE_ALPHA:
		return 2
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// TexImage2D uploads width x height pixels of format to the texture bound
// for target. pixels may be nil to allocate uninitialized storage. Rows are
// read with the UNPACK_ALIGNMENT padding and the UNPACK_FLIP_Y_WEBGL and
// UNPACK_PREMULTIPLY_ALPHA_WEBGL flags applied. All formats are stored as
// RGBA8 natively.
func (c *RenderingContext) TexImage2D(target uint32, level int32, internalFormat uint32, width, height, border int32, format, xtype uint32, pixels []byte) {
	if !c.activate() {
		return
	}
	if target != TEXTURE_2D && !isCubeFace(target) {
		c.setError(INVALID_ENUM)
		return
	}
	t, _ := c.boundTexture(target)
	channels := formatChannels(format)
	if channels == 0 {
		c.setError(INVALID_ENUM)
		return
	}
	if xtype != UNSIGNED_BYTE {
		c.setError(INVALID_ENUM)
		return
	}
	if level < 0 || width < 0 || height < 0 || border != 0 {
		c.setError(INVALID_VALUE)
		return
	}
	if isCubeFace(target) && width != height {
		c.setError(INVALID_VALUE)
		return
	}
	if internalFormat != format {
		c.setError(INVALID_OPERATION)
		return
	}
	if t == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	var data []byte
	if pixels != nil {
		w, h := int(width), int(height)
		if len(pixels) < packedSize(w, h, channels, int(c.unpackAlignment)) {
			c.setError(INVALID_OPERATION)
			return
		}
		data = unpackRGBA(pixels, w, h, format, int(c.unpackAlignment), c.unpackFlipY, c.unpackPremultiplyAlpha)
	}
	c.f.TexImage2D(target, level, glRGBA8, width, height, RGBA, UNSIGNED_BYTE, data)
}

// unpackRGBA converts client pixels of format, with rows padded to
// alignment, to tightly packed RGBA rows.
func unpackRGBA(src []byte, width, height int, format uint32, alignment int, flipY, premultiply bool) []byte {
	channels := formatChannels(format)
	stride := rowStride(width, channels, alignment)
	dst := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		sy := y
		if flipY {
			sy = height - 1 - y
		}
		in := src[sy*stride:]
		out := dst[y*width*4:]
		for x := 0; x < width; x++ {
			p := in[x*channels:]
			q := out[x*4 : x*4+4]
			switch format {
			case ALPHA:
				q[0], q[1], q[2], q[3] = 0, 0, 0, p[0]
			case LUMINANCE:
				q[0], q[1], q[2], q[3] = p[0], p[0], p[0], 0xff
			case LUMINANCE_ALPHA:
				q[0], q[1], q[2], q[3] = p[0], p[0], p[0], p[1]
			case RGB:
				q[0], q[1], q[2], q[3] = p[0], p[1], p[2], 0xff
			case RGBA:
				q[0], q[1], q[2], q[3] = p[0], p[1], p[2], p[3]
			}
			if premultiply && q[3] != 0xff {
				a := uint32(q[3])
				q[0] = byte((uint32(q[0])*a + 127) / 255)
				q[1] = byte((uint32(q[1])*a + 127) / 255)
				q[2] = byte((uint32(q[2])*a + 127) / 255)
			}
		}
	}
	return dst
}

func validTexParameter(pname uint32, param int32) bool {
	switch pname {
	case TEXTURE_MAG_FILTER:
		return param == NEAREST || param == LINEAR
	case TEXTURE_MIN_FILTER:
		switch param {
		case NEAREST, LINEAR, NEAREST_MIPMAP_NEAREST, LINEAR_MIPMAP_NEAREST,
			NEAREST_MIPMAP_LINEAR, LINEAR_MIPMAP_LINEAR:
			return true
		}
	case TEXTURE_WRAP_S, TEXTURE_WRAP_T:
		return param == REPEAT || param == CLAMP_TO_EDGE || param == MIRRORED_REPEAT
	}
	return false
}

func (c *RenderingContext) TexParameteri(target, pname uint32, param int32) {
	if !c.activate() {
		return
	}
	if target != TEXTURE_2D && target != TEXTURE_CUBE_MAP {
		c.setError(INVALID_ENUM)
		return
	}
	if !validTexParameter(pname, param) {
		c.setError(INVALID_ENUM)
		return
	}
	if t, _ := c.boundTexture(target); t == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	c.f.TexParameteri(target, pname, param)
}

// TexParameterf is TexParameteri for callers holding the parameter as a
// float. The enum-valued parameters of WebGL 1 must still be exact.
func (c *RenderingContext) TexParameterf(target, pname uint32, param float32) {
	if !c.activate() {
		return
	}
	if target != TEXTURE_2D && target != TEXTURE_CUBE_MAP {
		c.setError(INVALID_ENUM)
		return
	}
	if float32(int32(param)) != param || !validTexParameter(pname, int32(param)) {
		c.setError(INVALID_ENUM)
		return
	}
	if t, _ := c.boundTexture(target); t == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	c.f.TexParameterf(target, pname, param)
}

func (c *RenderingContext) GenerateMipmap(target uint32) {
	if !c.activate() {
		return
	}
	if target != TEXTURE_2D && target != TEXTURE_CUBE_MAP {
		c.setError(INVALID_ENUM)
		return
	}
	if t, _ := c.boundTexture(target); t == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	c.f.GenerateMipmap(target)
}

// DeleteTexture deletes t and clears it from every texture unit.
func (c *RenderingContext) DeleteTexture(t *Texture) {
	if t == nil || !c.deleteObject(&t.object) {
		return
	}
	for i := range c.textureUnits {
		unit := &c.textureUnits[i]
		if unit.texture2D == t {
			unit.texture2D = nil
		}
		if unit.cubeMap == t {
			unit.cubeMap = nil
		}
	}
}

func (c *RenderingContext) CreateFramebuffer() *Framebuffer {
	if !c.activate() {
		return nil
	}
	fb := &Framebuffer{object: c.newObject(kindFramebuffer, c.f.CreateFramebuffer())}
	c.register(&fb.object)
	return fb
}

func (c *RenderingContext) IsFramebuffer(fb *Framebuffer) bool {
	return fb != nil && c.activate() && fb.belongsTo(c)
}

// BindFramebuffer binds fb, or the drawing buffer for nil.
func (c *RenderingContext) BindFramebuffer(target uint32, fb *Framebuffer) {
	if !c.activate() {
		return
	}
	if target != FRAMEBUFFER {
		c.setError(INVALID_ENUM)
		return
	}
	var id uint32
	if fb != nil {
		if !fb.belongsTo(c) {
			c.setError(INVALID_OPERATION)
			return
		}
		id = fb.id
	}
	c.framebuffer = fb
	c.f.BindFramebuffer(target, id)
}

func validAttachment(attachment uint32) bool {
	switch attachment {
	case COLOR_ATTACHMENT0, DEPTH_ATTACHMENT, STENCIL_ATTACHMENT, DEPTH_STENCIL_ATTACHMENT:
		return true
	}
	return false
}

// FramebufferTexture2D attaches level 0 of t to the bound framebuffer. A
// nil t detaches.
func (c *RenderingContext) FramebufferTexture2D(target, attachment, textarget uint32, t *Texture, level int32) {
	if !c.activate() {
		return
	}
	if target != FRAMEBUFFER || !validAttachment(attachment) ||
		(textarget != TEXTURE_2D && !isCubeFace(textarget)) {
		c.setError(INVALID_ENUM)
		return
	}
	if level != 0 {
		c.setError(INVALID_VALUE)
		return
	}
	if c.framebuffer == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	var id uint32
	if t != nil {
		if !t.belongsTo(c) {
			c.setError(INVALID_OPERATION)
			return
		}
		id = t.id
	}
	c.f.FramebufferTexture2D(target, attachment, textarget, id, level)
}

func (c *RenderingContext) FramebufferRenderbuffer(target, attachment, rbtarget uint32, rb *Renderbuffer) {
	if !c.activate() {
		return
	}
	if target != FRAMEBUFFER || rbtarget != RENDERBUFFER || !validAttachment(attachment) {
		c.setError(INVALID_ENUM)
		return
	}
	if c.framebuffer == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	var id uint32
	if rb != nil {
		if !rb.belongsTo(c) {
			c.setError(INVALID_OPERATION)
			return
		}
		id = rb.id
	}
	c.f.FramebufferRenderbuffer(target, attachment, rbtarget, id)
}

func (c *RenderingContext) CheckFramebufferStatus(target uint32) uint32 {
	if !c.activate() {
		return FRAMEBUFFER_UNSUPPORTED
	}
	if target != FRAMEBUFFER {
		c.setError(INVALID_ENUM)
		return 0
	}
	return c.f.CheckFramebufferStatus(target)
}

func (c *RenderingContext) DeleteFramebuffer(fb *Framebuffer) {
	if fb == nil || !c.deleteObject(&fb.object) {
		return
	}
	if c.framebuffer == fb {
		c.framebuffer = nil
	}
}

func (c *RenderingContext) CreateRenderbuffer() *Renderbuffer {
	if !c.activate() {
		return nil
	}
	rb := &Renderbuffer{object: c.newObject(kindRenderbuffer, c.f.CreateRenderbuffer())}
	c.register(&rb.object)
	return rb
}

func (c *RenderingContext) IsRenderbuffer(rb *Renderbuffer) bool {
	return rb != nil && c.activate() && rb.belongsTo(c)
}

func (c *RenderingContext) BindRenderbuffer(target uint32, rb *Renderbuffer) {
	if !c.activate() {
		return
	}
	if target != RENDERBUFFER {
		c.setError(INVALID_ENUM)
		return
	}
	var id uint32
	if rb != nil {
		if !rb.belongsTo(c) {
			c.setError(INVALID_OPERATION)
			return
		}
		id = rb.id
	}
	c.renderbuffer = rb
	c.f.BindRenderbuffer(target, id)
}

// RenderbufferStorage allocates storage for the bound renderbuffer. WebGL's
// DEPTH_COMPONENT16 gets the deepest depth format the driver offers and
// DEPTH_STENCIL is backed by DEPTH24_STENCIL8.
func (c *RenderingContext) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	if !c.activate() {
		return
	}
	if target != RENDERBUFFER {
		c.setError(INVALID_ENUM)
		return
	}
	native := internalFormat
	switch internalFormat {
	case RGBA4, RGB565, RGB5_A1, STENCIL_INDEX8:
	case DEPTH_COMPONENT16:
		native = c.preferredDepth
	case DEPTH_STENCIL:
		native = glDepth24Stencil8
	default:
		c.setError(INVALID_ENUM)
		return
	}
	if width < 0 || height < 0 {
		c.setError(INVALID_VALUE)
		return
	}
	if c.renderbuffer == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	c.f.RenderbufferStorage(target, native, width, height)
}

func (c *RenderingContext) DeleteRenderbuffer(rb *Renderbuffer) {
	if rb == nil || !c.deleteObject(&rb.object) {
		return
	}
	if c.renderbuffer == rb {
		c.renderbuffer = nil
	}
}
