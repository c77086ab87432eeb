package shader

import (
	"strings"
	"testing"
)

const image = `void mainImage(out vec4 fragColor, in vec2 fragCoord) {
	fragColor = vec4(fragCoord / iResolution.xy, 0.5 + 0.5*sin(iTime), 1.0);
}`

func TestWrapFragment(t *testing.T) {
	src := WrapFragment("float helper() { return 1.0; }", image)
	if !strings.HasPrefix(src, "#version 300 es\n") {
		t.Errorf("wrapped source does not start with a version line:\n%s", src)
	}
	for _, want := range []string{"uniform vec3  iResolution;", "uniform sampler2D iChannel3;", "float helper()", "mainImage(fragColor, gl_FragCoord.xy);"} {
		if !strings.Contains(src, want) {
			t.Errorf("wrapped source lacks %q", want)
		}
	}
	if strings.Index(src, "float helper()") > strings.Index(src, "void mainImage") {
		t.Error("common code must precede the image pass")
	}
}

func TestWrapFragmentComplete(t *testing.T) {
	complete := []string{
		"#version 300 es\nprecision mediump float;\nout vec4 c;\nvoid mainImage(out vec4 o, in vec2 p) {}\nvoid main() { c = vec4(1.0); }",
		"precision mediump float;\nvoid main() { gl_FragColor = vec4(1.0); }",
	}
	for _, src := range complete {
		if got := WrapFragment("", src); got != src {
			t.Errorf("complete shader was modified:\n%s", got)
		}
	}
}

func TestVertexShader(t *testing.T) {
	if !strings.Contains(VertexShader(), "in vec2 "+PositionAttribute+";") {
		t.Error("vertex shader does not declare the position attribute")
	}
}
