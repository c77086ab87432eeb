package webgl

func (c *RenderingContext) checkAttribIndex(index uint32) bool {
	if c.maxVertexAttribs > 0 && index >= uint32(c.maxVertexAttribs) {
		c.setError(INVALID_VALUE)
		return false
	}
	return true
}

func (c *RenderingContext) EnableVertexAttribArray(index uint32) {
	if c.activate() && c.checkAttribIndex(index) {
		c.f.EnableVertexAttribArray(index)
	}
}

func (c *RenderingContext) DisableVertexAttribArray(index uint32) {
	if c.activate() && c.checkAttribIndex(index) {
		c.f.DisableVertexAttribArray(index)
	}
}

// VertexAttrib4f sets the value a disabled attribute array reads. The
// shorter forms fill the missing components from (0, 0, 0, 1).
func (c *RenderingContext) VertexAttrib4f(index uint32, x, y, z, w float32) {
	if c.activate() && c.checkAttribIndex(index) {
		c.f.VertexAttrib4f(index, x, y, z, w)
	}
}

func (c *RenderingContext) VertexAttrib1f(index uint32, x float32) {
	c.VertexAttrib4f(index, x, 0, 0, 1)
}

func (c *RenderingContext) VertexAttrib2f(index uint32, x, y float32) {
	c.VertexAttrib4f(index, x, y, 0, 1)
}

func (c *RenderingContext) VertexAttrib3f(index uint32, x, y, z float32) {
	c.VertexAttrib4f(index, x, y, z, 1)
}

func typeSize(xtype uint32) int {
	switch xtype {
	case BYTE, UNSIGNED_BYTE:
		return 1
	case SHORT, UNSIGNED_SHORT:
		return 2
	case FLOAT, INT, UNSIGNED_INT:
		return 4
	}
	return 0
}

// VertexAttribPointer sources attribute index from the bound ARRAY_BUFFER.
func (c *RenderingContext) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	if !c.activate() || !c.checkAttribIndex(index) {
		return
	}
	if size < 1 || size > 4 || stride < 0 || stride > 255 || offset < 0 {
		c.setError(INVALID_VALUE)
		return
	}
	n := typeSize(xtype)
	if n == 0 || xtype == INT || xtype == UNSIGNED_INT {
		c.setError(INVALID_ENUM)
		return
	}
	if offset%n != 0 || int(stride)%n != 0 {
		c.setError(INVALID_OPERATION)
		return
	}
	if c.arrayBuffer == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	c.f.VertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func validDrawMode(mode uint32) bool {
	return mode <= TRIANGLE_FAN
}

func (c *RenderingContext) canDraw(mode uint32, count int32) bool {
	if !validDrawMode(mode) {
		c.setError(INVALID_ENUM)
		return false
	}
	if count < 0 {
		c.setError(INVALID_VALUE)
		return false
	}
	if c.program == nil || !c.program.linked {
		c.setError(INVALID_OPERATION)
		return false
	}
	return true
}

func (c *RenderingContext) DrawArrays(mode uint32, first, count int32) {
	if !c.activate() {
		return
	}
	if first < 0 {
		c.setError(INVALID_VALUE)
		return
	}
	if !c.canDraw(mode, count) || count == 0 {
		return
	}
	c.f.DrawArrays(mode, first, count)
}

// DrawElements draws from the bound ELEMENT_ARRAY_BUFFER. UNSIGNED_INT
// indices need OES_element_index_uint enabled.
func (c *RenderingContext) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	if !c.activate() {
		return
	}
	switch xtype {
	case UNSIGNED_BYTE, UNSIGNED_SHORT:
	case UNSIGNED_INT:
		if !c.enabledExtensions["OES_element_index_uint"] {
			c.setError(INVALID_ENUM)
			return
		}
	default:
		c.setError(INVALID_ENUM)
		return
	}
	if offset < 0 {
		c.setError(INVALID_VALUE)
		return
	}
	if offset%typeSize(xtype) != 0 {
		c.setError(INVALID_OPERATION)
		return
	}
	if !c.canDraw(mode, count) {
		return
	}
	if c.vertexArray.elementBuffer == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	if count == 0 {
		return
	}
	c.f.DrawElements(mode, count, xtype, offset)
}

// CreateVertexArray backs OES_vertex_array_object.
func (c *RenderingContext) CreateVertexArray() *VertexArray {
	if !c.activate() {
		return nil
	}
	va := &VertexArray{object: c.newObject(kindVertexArray, c.f.CreateVertexArray())}
	c.register(&va.object)
	return va
}

// BindVertexArray binds va, or the context's implicit vertex array for nil.
func (c *RenderingContext) BindVertexArray(va *VertexArray) {
	if !c.activate() {
		return
	}
	if va == nil {
		va = c.defaultVertexArray
	} else if !va.belongsTo(c) {
		c.setError(INVALID_OPERATION)
		return
	}
	c.vertexArray = va
	c.f.BindVertexArray(va.id)
}

func (c *RenderingContext) DeleteVertexArray(va *VertexArray) {
	if va == nil || va == c.defaultVertexArray {
		return
	}
	if !c.deleteObject(&va.object) {
		return
	}
	if c.vertexArray == va {
		c.vertexArray = c.defaultVertexArray
		c.f.BindVertexArray(c.defaultVertexArray.id)
	}
}

func (c *RenderingContext) IsVertexArray(va *VertexArray) bool {
	return va != nil && va != c.defaultVertexArray && c.activate() && va.belongsTo(c)
}
