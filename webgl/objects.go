package webgl

type objectKind int

const (
	kindBuffer objectKind = iota
	kindFramebuffer
	kindProgram
	kindRenderbuffer
	kindShader
	kindTexture
	kindVertexArray
)

type objectKey struct {
	kind objectKind
	id   uint32
}

// object is the part shared by every WebGL object: the native name and the
// context it belongs to.
type object struct {
	ctx     *RenderingContext
	id      uint32
	kind    objectKind
	deleted bool
}

// ID returns the native object name.
func (o *object) ID() uint32 { return o.id }

func (o *object) belongsTo(c *RenderingContext) bool {
	return o != nil && o.ctx == c && !o.deleted
}

type Buffer struct {
	object
	target uint32
}

type Framebuffer struct {
	object
}

type Renderbuffer struct {
	object
}

type VertexArray struct {
	object
	elementBuffer *Buffer
}

type Texture struct {
	object
	target uint32
}

type Shader struct {
	object
	xtype    uint32
	source   string
	compiled bool
	infoLog  string
	names    map[string]string
}

type Program struct {
	object
	shaders   []*Shader
	linked    bool
	validated bool
	infoLog   string
	names     map[string]string
	link      int
}

// UniformLocation is valid only for the program it was queried from, and
// only until that program is linked again.
type UniformLocation struct {
	program  *Program
	location int32
	link     int
}

func (c *RenderingContext) register(o *object) {
	c.objects[objectKey{o.kind, o.id}] = o
}

func (c *RenderingContext) unregister(o *object) {
	delete(c.objects, objectKey{o.kind, o.id})
}

func (c *RenderingContext) newObject(kind objectKind, id uint32) object {
	return object{ctx: c, id: id, kind: kind}
}

// deleteNative frees the native side of o. The context must be current.
func (c *RenderingContext) deleteNative(o *object) {
	f := c.f
	switch o.kind {
	case kindBuffer:
		f.DeleteBuffer(o.id)
	case kindFramebuffer:
		f.DeleteFramebuffer(o.id)
	case kindProgram:
		f.DeleteProgram(o.id)
	case kindRenderbuffer:
		f.DeleteRenderbuffer(o.id)
	case kindShader:
		f.DeleteShader(o.id)
	case kindTexture:
		f.DeleteTexture(o.id)
	case kindVertexArray:
		f.DeleteVertexArray(o.id)
	}
	o.deleted = true
}

// deleteObject implements the Delete* calls: foreign objects are an
// INVALID_OPERATION, already deleted ones are ignored.
func (c *RenderingContext) deleteObject(o *object) bool {
	if o == nil || !c.activate() {
		return false
	}
	if o.ctx != c {
		c.setError(INVALID_OPERATION)
		return false
	}
	if o.deleted {
		return false
	}
	c.deleteNative(o)
	c.unregister(o)
	return true
}
