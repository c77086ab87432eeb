// Package translator rewrites WebGL shaders for native OpenGL contexts with
// goshadertranslator, a WebAssembly build of the ANGLE shader compiler.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"

	"github.com/richinsley/headlessgl/webgl"
)

var (
	defaultOnce       sync.Once
	defaultTranslator *Translator
	defaultErr        error
)

// Default returns the process-wide translator, creating it on first use.
// Loading the compiler takes a while, so it is shared.
func Default() (*Translator, error) {
	defaultOnce.Do(func() {
		defaultTranslator, defaultErr = New(context.Background())
	})
	return defaultTranslator, defaultErr
}

// Translator implements webgl.ShaderTranslator. It is safe for concurrent
// use; translations are serialized.
type Translator struct {
	mu sync.Mutex
	st *gst.ShaderTranslator
}

var _ webgl.ShaderTranslator = (*Translator)(nil)

// New loads a shader compiler instance.
func New(ctx context.Context) (*Translator, error) {
	st, err := gst.NewShaderTranslator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	return &Translator{st: st}, nil
}

// Translate compiles a WebGL GLSL ES source and returns it in the dialect of
// the native context, with the names ANGLE gave its uniforms and attributes.
func (t *Translator) Translate(source string, stage webgl.Stage, gles bool) (*webgl.Translation, error) {
	outputFormat := gst.OutputFormatGLSL410
	if gles {
		outputFormat = gst.OutputFormatESSL
	}
	shaderType := "fragment"
	if stage == webgl.StageVertex {
		shaderType = "vertex"
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out, err := t.st.TranslateShader(source, shaderType, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return &webgl.Translation{Code: out.Code, Names: names}, nil
}

// Lazy is a webgl.ShaderTranslator that loads the default translator on its
// first translation, so contexts that never compile a shader do not pay for
// it.
type Lazy struct{}

func (Lazy) Translate(source string, stage webgl.Stage, gles bool) (*webgl.Translation, error) {
	t, err := Default()
	if err != nil {
		return nil, err
	}
	return t.Translate(source, stage, gles)
}
