package options

import "testing"

func TestResolveNil(t *testing.T) {
	got := Resolve(nil)
	want := DefaultContextAttributes()
	if *got != *want {
		t.Fatalf("Resolve(nil) = %+v, want %+v", got, want)
	}
	if !got.Alpha || !got.Depth || got.Stencil || !got.Antialias || !got.PremultipliedAlpha {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestResolveKeepsPointer(t *testing.T) {
	attrs := &ContextAttributes{Stencil: true}
	if got := Resolve(attrs); got != attrs {
		t.Fatalf("Resolve returned a different pointer")
	}
}

func TestSamples(t *testing.T) {
	if n := (&ContextAttributes{Antialias: true}).Samples(); n != 4 {
		t.Errorf("antialias samples = %d, want 4", n)
	}
	if n := (&ContextAttributes{}).Samples(); n != 0 {
		t.Errorf("samples = %d, want 0", n)
	}
}

func TestRenderOptionsContextAttributes(t *testing.T) {
	no, yes := false, true
	o := &RenderOptions{Antialias: &no, Stencil: &yes}
	attrs := o.ContextAttributes()
	if attrs.Antialias || !attrs.Stencil || !attrs.Alpha || !attrs.Depth {
		t.Fatalf("unexpected attributes: %+v", attrs)
	}
	if !attrs.PreserveDrawingBuffer {
		t.Fatalf("drawing buffer should be preserved for readback")
	}
}

func TestIsVideo(t *testing.T) {
	zero, ten := 0.0, 10.0
	if (&RenderOptions{}).IsVideo() {
		t.Error("nil duration is not a video")
	}
	if (&RenderOptions{Duration: &zero}).IsVideo() {
		t.Error("zero duration is not a video")
	}
	if !(&RenderOptions{Duration: &ten}).IsVideo() {
		t.Error("positive duration is a video")
	}
}
