// Package shader generates the sources the renderer draws with: a
// full-screen quad and shadertoy-style image shaders. All sources are
// GLSL ES 3.00 and go through the context's shader translator.
package shader

import (
	"fmt"
	"regexp"
	"strings"
)

// PositionAttribute is the clip-space position input of VertexShader.
const PositionAttribute = "in_vert"

const vertexShaderSource = `#version 300 es
in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// VertexShader returns the vertex shader of a quad covering the viewport.
func VertexShader() string {
	return vertexShaderSource
}

// ChannelCount is the number of iChannel samplers an image shader gets.
const ChannelCount = 4

// Preamble declares the shadertoy uniforms, the iChannel samplers and the
// fragment output.
func Preamble() string {
	var b strings.Builder
	b.WriteString(`#version 300 es
precision highp float;
precision highp int;

#define HW_PERFORMANCE 1

uniform vec3  iResolution;
uniform float iTime;
uniform float iTimeDelta;
uniform float iFrameRate;
uniform int   iFrame;
uniform float iChannelTime[4];
uniform vec3  iChannelResolution[4];
uniform vec4  iMouse;
uniform vec4  iDate;
`)
	for i := 0; i < ChannelCount; i++ {
		fmt.Fprintf(&b, "uniform sampler2D iChannel%d;\n", i)
	}
	b.WriteString(`
in vec2 frag_uv;
out vec4 fragColor;

#define FAST_TANH_BODY(x) ((x) * (27.0 + (x)*(x)) / (27.0 + 9.0*(x)*(x)))
float fast_tanh(float x) { return FAST_TANH_BODY(x); }
vec2  fast_tanh(vec2  x) { return FAST_TANH_BODY(x); }
vec3  fast_tanh(vec3  x) { return FAST_TANH_BODY(x); }
vec4  fast_tanh(vec4  x) { return FAST_TANH_BODY(x); }
#define tanh fast_tanh
`)
	return b.String()
}

const mainWrapper = `
void main(void)
{
    mainImage(fragColor, gl_FragCoord.xy);
}
`

var (
	mainImageRe = regexp.MustCompile(`\bvoid\s+mainImage\s*\(`)
	versionRe   = regexp.MustCompile(`^\s*#version\b`)
)

// WrapFragment turns a shadertoy image pass into a complete fragment
// shader: preamble, common code, the pass and a main calling mainImage.
// Sources that already carry a #version line or lack mainImage are
// complete shaders and are returned unchanged.
func WrapFragment(common, image string) string {
	if versionRe.MatchString(image) || !mainImageRe.MatchString(image) {
		return image
	}
	return Preamble() + common + "\n" + image + "\n" + mainWrapper
}
