package webgl

func (c *RenderingContext) CreateShader(xtype uint32) *Shader {
	if !c.activate() {
		return nil
	}
	if xtype != VERTEX_SHADER && xtype != FRAGMENT_SHADER {
		c.setError(INVALID_ENUM)
		return nil
	}
	s := &Shader{object: c.newObject(kindShader, c.f.CreateShader(xtype)), xtype: xtype}
	c.register(&s.object)
	return s
}

func (c *RenderingContext) validShader(s *Shader) bool {
	if s == nil || !s.belongsTo(c) {
		c.setError(INVALID_VALUE)
		return false
	}
	return true
}

func (c *RenderingContext) validProgram(p *Program) bool {
	if p == nil || !p.belongsTo(c) {
		c.setError(INVALID_VALUE)
		return false
	}
	return true
}

// ShaderSource stores the WebGL source of s. It reaches the driver, after
// translation, on CompileShader.
func (c *RenderingContext) ShaderSource(s *Shader, source string) {
	if c.activate() && c.validShader(s) {
		s.source = source
	}
}

func (c *RenderingContext) GetShaderSource(s *Shader) string {
	if !c.activate() || !c.validShader(s) {
		return ""
	}
	return s.source
}

func (s *Shader) stage() Stage {
	if s.xtype == VERTEX_SHADER {
		return StageVertex
	}
	return StageFragment
}

// CompileShader translates the source of s for the native driver and
// compiles it. Translation errors surface through GetShaderInfoLog.
func (c *RenderingContext) CompileShader(s *Shader) {
	if !c.activate() || !c.validShader(s) {
		return
	}
	tr, err := c.translator.Translate(s.source, s.stage(), c.native.IsGLES())
	if err != nil {
		s.compiled = false
		s.infoLog = err.Error()
		s.names = nil
		return
	}
	c.f.ShaderSource(s.id, tr.Code)
	c.f.CompileShader(s.id)
	s.compiled = c.f.GetShaderi(s.id, COMPILE_STATUS) != 0
	s.infoLog = c.f.GetShaderInfoLog(s.id)
	s.names = tr.Names
}

// GetShaderParameter answers COMPILE_STATUS and DELETE_STATUS as 1 or 0,
// and SHADER_TYPE.
func (c *RenderingContext) GetShaderParameter(s *Shader, pname uint32) int32 {
	if !c.activate() || !c.validShader(s) {
		return 0
	}
	switch pname {
	case COMPILE_STATUS:
		return boolInt(s.compiled)
	case DELETE_STATUS:
		return boolInt(s.deleted)
	case SHADER_TYPE:
		return int32(s.xtype)
	}
	c.setError(INVALID_ENUM)
	return 0
}

func (c *RenderingContext) GetShaderInfoLog(s *Shader) string {
	if !c.activate() || !c.validShader(s) {
		return ""
	}
	return s.infoLog
}

func (c *RenderingContext) DeleteShader(s *Shader) {
	if s != nil {
		c.deleteObject(&s.object)
	}
}

func (c *RenderingContext) IsShader(s *Shader) bool {
	return s != nil && c.activate() && s.belongsTo(c)
}

func (c *RenderingContext) CreateProgram() *Program {
	if !c.activate() {
		return nil
	}
	p := &Program{object: c.newObject(kindProgram, c.f.CreateProgram())}
	c.register(&p.object)
	return p
}

// AttachShader attaches s to p. Only one shader per stage may be attached.
func (c *RenderingContext) AttachShader(p *Program, s *Shader) {
	if !c.activate() || !c.validProgram(p) || !c.validShader(s) {
		return
	}
	for _, attached := range p.shaders {
		if attached == s || attached.xtype == s.xtype {
			c.setError(INVALID_OPERATION)
			return
		}
	}
	p.shaders = append(p.shaders, s)
	c.f.AttachShader(p.id, s.id)
}

func (c *RenderingContext) DetachShader(p *Program, s *Shader) {
	if !c.activate() || !c.validProgram(p) || !c.validShader(s) {
		return
	}
	for i, attached := range p.shaders {
		if attached == s {
			p.shaders = append(p.shaders[:i], p.shaders[i+1:]...)
			c.f.DetachShader(p.id, s.id)
			return
		}
	}
	c.setError(INVALID_OPERATION)
}

// nameMap merges the translator name maps of the shaders attached to p.
func (p *Program) nameMap() map[string]string {
	names := make(map[string]string)
	for _, s := range p.shaders {
		for k, v := range s.names {
			names[k] = v
		}
	}
	return names
}

// LinkProgram links p. A program whose shaders did not compile is not
// handed to the driver and reports a failed link.
func (c *RenderingContext) LinkProgram(p *Program) {
	if !c.activate() || !c.validProgram(p) {
		return
	}
	p.link++
	p.validated = false
	for _, s := range p.shaders {
		if !s.compiled {
			p.linked = false
			p.infoLog = "program contains a shader that failed to compile"
			return
		}
	}
	if len(p.shaders) < 2 {
		p.linked = false
		p.infoLog = "program requires a vertex and a fragment shader"
		return
	}
	c.f.LinkProgram(p.id)
	p.linked = c.f.GetProgrami(p.id, LINK_STATUS) != 0
	p.infoLog = c.f.GetProgramInfoLog(p.id)
	p.names = p.nameMap()
}

func (c *RenderingContext) ValidateProgram(p *Program) {
	if !c.activate() || !c.validProgram(p) {
		return
	}
	c.f.ValidateProgram(p.id)
	p.validated = c.f.GetProgrami(p.id, VALIDATE_STATUS) != 0
}

// UseProgram makes p current; nil clears the current program.
func (c *RenderingContext) UseProgram(p *Program) {
	if !c.activate() {
		return
	}
	if p == nil {
		c.program = nil
		c.f.UseProgram(0)
		return
	}
	if !c.validProgram(p) {
		return
	}
	if !p.linked {
		c.setError(INVALID_OPERATION)
		return
	}
	c.program = p
	c.f.UseProgram(p.id)
}

// GetProgramParameter answers LINK_STATUS, VALIDATE_STATUS and
// DELETE_STATUS as 1 or 0, and the ATTACHED_SHADERS, ACTIVE_ATTRIBUTES and
// ACTIVE_UNIFORMS counts.
func (c *RenderingContext) GetProgramParameter(p *Program, pname uint32) int32 {
	if !c.activate() || !c.validProgram(p) {
		return 0
	}
	switch pname {
	case LINK_STATUS:
		return boolInt(p.linked)
	case VALIDATE_STATUS:
		return boolInt(p.validated)
	case DELETE_STATUS:
		return boolInt(p.deleted)
	case ATTACHED_SHADERS:
		return int32(len(p.shaders))
	case ACTIVE_ATTRIBUTES, ACTIVE_UNIFORMS:
		return c.f.GetProgrami(p.id, pname)
	}
	c.setError(INVALID_ENUM)
	return 0
}

func (c *RenderingContext) GetProgramInfoLog(p *Program) string {
	if !c.activate() || !c.validProgram(p) {
		return ""
	}
	return p.infoLog
}

// DeleteProgram deletes p. The current program stays usable in the driver
// until another is selected.
func (c *RenderingContext) DeleteProgram(p *Program) {
	if p == nil || !c.deleteObject(&p.object) {
		return
	}
	if c.program == p {
		c.program = nil
	}
}

func (c *RenderingContext) IsProgram(p *Program) bool {
	return p != nil && c.activate() && p.belongsTo(c)
}

// GetAttribLocation returns the location of a WebGL attribute name, or -1.
func (c *RenderingContext) GetAttribLocation(p *Program, name string) int32 {
	if !c.activate() || !c.validProgram(p) {
		return -1
	}
	if !p.linked {
		c.setError(INVALID_OPERATION)
		return -1
	}
	return c.f.GetAttribLocation(p.id, nativeName(p.names, name))
}

// BindAttribLocation takes effect on the next LinkProgram.
func (c *RenderingContext) BindAttribLocation(p *Program, index uint32, name string) {
	if !c.activate() || !c.validProgram(p) || !c.checkAttribIndex(index) {
		return
	}
	c.f.BindAttribLocation(p.id, index, nativeName(p.nameMap(), name))
}

// GetUniformLocation returns nil when name is not an active uniform of p.
func (c *RenderingContext) GetUniformLocation(p *Program, name string) *UniformLocation {
	if !c.activate() || !c.validProgram(p) {
		return nil
	}
	if !p.linked {
		c.setError(INVALID_OPERATION)
		return nil
	}
	loc := c.f.GetUniformLocation(p.id, nativeName(p.names, name))
	if loc < 0 {
		return nil
	}
	return &UniformLocation{program: p, location: loc, link: p.link}
}

// uniformTarget checks that loc belongs to the current program. A nil
// location is silently ignored.
func (c *RenderingContext) uniformTarget(loc *UniformLocation) bool {
	if loc == nil || !c.activate() {
		return false
	}
	if c.program == nil || loc.program != c.program || loc.link != c.program.link {
		c.setError(INVALID_OPERATION)
		return false
	}
	return true
}

func (c *RenderingContext) Uniform1f(loc *UniformLocation, x float32) {
	if c.uniformTarget(loc) {
		c.f.Uniform1f(loc.location, x)
	}
}

func (c *RenderingContext) Uniform2f(loc *UniformLocation, x, y float32) {
	if c.uniformTarget(loc) {
		c.f.Uniform2f(loc.location, x, y)
	}
}

func (c *RenderingContext) Uniform3f(loc *UniformLocation, x, y, z float32) {
	if c.uniformTarget(loc) {
		c.f.Uniform3f(loc.location, x, y, z)
	}
}

func (c *RenderingContext) Uniform4f(loc *UniformLocation, x, y, z, w float32) {
	if c.uniformTarget(loc) {
		c.f.Uniform4f(loc.location, x, y, z, w)
	}
}

func (c *RenderingContext) Uniform1i(loc *UniformLocation, x int32) {
	if c.uniformTarget(loc) {
		c.f.Uniform1i(loc.location, x)
	}
}

func (c *RenderingContext) Uniform2i(loc *UniformLocation, x, y int32) {
	if c.uniformTarget(loc) {
		c.f.Uniform2i(loc.location, x, y)
	}
}

func (c *RenderingContext) Uniform3i(loc *UniformLocation, x, y, z int32) {
	if c.uniformTarget(loc) {
		c.f.Uniform3i(loc.location, x, y, z)
	}
}

func (c *RenderingContext) Uniform4i(loc *UniformLocation, x, y, z, w int32) {
	if c.uniformTarget(loc) {
		c.f.Uniform4i(loc.location, x, y, z, w)
	}
}

// matrixValues checks a column-major matrix array of n x n matrices. WebGL 1
// requires transpose to be false.
func (c *RenderingContext) matrixValues(loc *UniformLocation, n int, transpose bool, values []float32) bool {
	if !c.uniformTarget(loc) {
		return false
	}
	if transpose || len(values) == 0 || len(values)%(n*n) != 0 {
		c.setError(INVALID_VALUE)
		return false
	}
	return true
}

func (c *RenderingContext) UniformMatrix2fv(loc *UniformLocation, transpose bool, values []float32) {
	if c.matrixValues(loc, 2, transpose, values) {
		c.f.UniformMatrix2fv(loc.location, false, values)
	}
}

func (c *RenderingContext) UniformMatrix3fv(loc *UniformLocation, transpose bool, values []float32) {
	if c.matrixValues(loc, 3, transpose, values) {
		c.f.UniformMatrix3fv(loc.location, false, values)
	}
}

// UniformMatrix4fv uploads one or more column-major 4x4 matrices.
func (c *RenderingContext) UniformMatrix4fv(loc *UniformLocation, transpose bool, values []float32) {
	if c.matrixValues(loc, 4, transpose, values) {
		c.f.UniformMatrix4fv(loc.location, false, values)
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
