package webgl

import (
	"unsafe"
)

func (c *RenderingContext) CreateBuffer() *Buffer {
	if !c.activate() {
		return nil
	}
	b := &Buffer{object: c.newObject(kindBuffer, c.f.CreateBuffer())}
	c.register(&b.object)
	return b
}

func (c *RenderingContext) IsBuffer(b *Buffer) bool {
	return b != nil && c.activate() && b.belongsTo(c) && b.target != 0
}

// BindBuffer binds b to target. A buffer keeps the first target it was
// bound to; binding it elsewhere is an INVALID_OPERATION.
func (c *RenderingContext) BindBuffer(target uint32, b *Buffer) {
	if !c.activate() {
		return
	}
	if target != ARRAY_BUFFER && target != ELEMENT_ARRAY_BUFFER {
		c.setError(INVALID_ENUM)
		return
	}
	var id uint32
	if b != nil {
		if !b.belongsTo(c) {
			c.setError(INVALID_OPERATION)
			return
		}
		if b.target != 0 && b.target != target {
			c.setError(INVALID_OPERATION)
			return
		}
		b.target = target
		id = b.id
	}
	if target == ARRAY_BUFFER {
		c.arrayBuffer = b
	} else {
		c.vertexArray.elementBuffer = b
	}
	c.f.BindBuffer(target, id)
}

func (c *RenderingContext) boundBuffer(target uint32) (*Buffer, bool) {
	switch target {
	case ARRAY_BUFFER:
		return c.arrayBuffer, true
	case ELEMENT_ARRAY_BUFFER:
		return c.vertexArray.elementBuffer, true
	}
	c.setError(INVALID_ENUM)
	return nil, false
}

func validUsage(usage uint32) bool {
	return usage == STREAM_DRAW || usage == STATIC_DRAW || usage == DYNAMIC_DRAW
}

// BufferData replaces the store of the buffer bound to target with data.
func (c *RenderingContext) BufferData(target uint32, data []byte, usage uint32) {
	if !c.activate() {
		return
	}
	b, ok := c.boundBuffer(target)
	if !ok {
		return
	}
	if !validUsage(usage) {
		c.setError(INVALID_ENUM)
		return
	}
	if b == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	c.f.BufferData(target, data, usage)
}

// BufferDataSize allocates size zeroed bytes for the buffer bound to target.
func (c *RenderingContext) BufferDataSize(target uint32, size int, usage uint32) {
	if !c.activate() {
		return
	}
	b, ok := c.boundBuffer(target)
	if !ok {
		return
	}
	if !validUsage(usage) {
		c.setError(INVALID_ENUM)
		return
	}
	if size < 0 {
		c.setError(INVALID_VALUE)
		return
	}
	if b == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	c.f.BufferDataSize(target, size, usage)
}

// BufferDataFloat32 is BufferData for vertex data held as float32s.
func (c *RenderingContext) BufferDataFloat32(target uint32, data []float32, usage uint32) {
	c.BufferData(target, float32Bytes(data), usage)
}

// BufferDataUint16 is BufferData for 16-bit index data.
func (c *RenderingContext) BufferDataUint16(target uint32, data []uint16, usage uint32) {
	var b []byte
	if len(data) > 0 {
		b = unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*2)
	}
	c.BufferData(target, b, usage)
}

func (c *RenderingContext) BufferSubData(target uint32, offset int, data []byte) {
	if !c.activate() {
		return
	}
	b, ok := c.boundBuffer(target)
	if !ok {
		return
	}
	if offset < 0 {
		c.setError(INVALID_VALUE)
		return
	}
	if b == nil {
		c.setError(INVALID_OPERATION)
		return
	}
	c.f.BufferSubData(target, offset, data)
}

// DeleteBuffer deletes b and unbinds it where the context holds it.
func (c *RenderingContext) DeleteBuffer(b *Buffer) {
	if b == nil || !c.deleteObject(&b.object) {
		return
	}
	if c.arrayBuffer == b {
		c.arrayBuffer = nil
	}
	if c.vertexArray.elementBuffer == b {
		c.vertexArray.elementBuffer = nil
	}
}

func float32Bytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}
