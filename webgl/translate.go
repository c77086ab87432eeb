package webgl

import (
	"strings"
)

// Stage names a shader pipeline stage.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
)

// Translation is a shader rewritten for the native driver.
type Translation struct {
	Code string
	// Names maps the identifiers used in the WebGL source (uniforms and
	// attributes) to the identifiers in Code. Missing entries are unchanged.
	Names map[string]string
}

// ShaderTranslator rewrites WebGL GLSL ES sources into the dialect of the
// native context.
type ShaderTranslator interface {
	Translate(source string, stage Stage, gles bool) (*Translation, error)
}

// Passthrough hands sources to the driver unchanged. It only works for
// shaders already written in the native dialect.
type Passthrough struct{}

func (Passthrough) Translate(source string, stage Stage, gles bool) (*Translation, error) {
	return &Translation{Code: source}, nil
}

// nativeName resolves a WebGL identifier, including indexed array members
// such as "lights[2]" or "light.color", through a translator name map.
func nativeName(names map[string]string, name string) string {
	if mapped, ok := names[name]; ok {
		return mapped
	}
	base, rest := name, ""
	if i := strings.IndexAny(name, "[."); i > 0 {
		base, rest = name[:i], name[i:]
	}
	if mapped, ok := names[base]; ok {
		return mapped + rest
	}
	return name
}
