package translator

import (
	"strings"
	"testing"

	"github.com/richinsley/headlessgl/webgl"
)

func testTranslator(t *testing.T) *Translator {
	tr, err := Default()
	if err != nil {
		t.Skipf("shader translator unavailable: %v", err)
	}
	return tr
}

const fragmentSource = `precision mediump float;
uniform float iTime;
void main() {
	gl_FragColor = vec4(iTime, 0.0, 0.0, 1.0);
}
`

func TestTranslateFragment(t *testing.T) {
	tr := testTranslator(t)
	for _, gles := range []bool{false, true} {
		out, err := tr.Translate(fragmentSource, webgl.StageFragment, gles)
		if err != nil {
			t.Fatalf("gles=%v: %v", gles, err)
		}
		if !strings.Contains(out.Code, "main") {
			t.Errorf("gles=%v: translated code has no main:\n%s", gles, out.Code)
		}
		mapped, ok := out.Names["iTime"]
		if !ok || mapped == "" {
			t.Fatalf("gles=%v: iTime missing from %v", gles, out.Names)
		}
		if !strings.Contains(out.Code, mapped) {
			t.Errorf("gles=%v: code does not use %s", gles, mapped)
		}
	}
}

func TestTranslateVertex(t *testing.T) {
	tr := testTranslator(t)
	src := "attribute vec2 pos;\nvoid main() {\n\tgl_Position = vec4(pos, 0.0, 1.0);\n}\n"
	out, err := tr.Translate(src, webgl.StageVertex, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out.Names["pos"]; !ok {
		t.Errorf("pos missing from %v", out.Names)
	}
}

func TestTranslateError(t *testing.T) {
	tr := testTranslator(t)
	if _, err := tr.Translate("void main() { undefined_call(); }", webgl.StageFragment, false); err == nil {
		t.Fatal("expected a translation error")
	}
	if _, err := (Lazy{}).Translate("void main() {", webgl.StageFragment, false); err == nil {
		t.Fatal("expected a translation error through Lazy")
	}
}
