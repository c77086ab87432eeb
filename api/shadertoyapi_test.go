package api

import (
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const apiShader = `{"Shader":{"info":{"id":"abc123","name":"Waves","username":"someone"},
"renderpass":[
 {"type":"common","name":"Common","code":"float k = 1.0;","inputs":[]},
 {"type":"image","name":"Image","code":"void mainImage(out vec4 c, in vec2 p) { c = vec4(k); }",
  "inputs":[{"channel":1,"ctype":"texture","src":"/media/a/tex.png","sampler":{"filter":"mipmap","wrap":"repeat","vflip":"true"}}]},
 {"type":"buffer","name":"Buffer A","code":"","inputs":[]}
]}}`

const rawShaderJSON = `[{"info":{"id":"priv01","name":"Private","username":"other"},
"renderpass":[{"type":"image","name":"Image","code":"void mainImage(out vec4 c, in vec2 p) {}",
 "inputs":[{"channel":0,"type":"texture","filepath":"/media/b/raw.png","sampler":{"vflip":"false"}}]}]}]`

func newServer(t *testing.T) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/shaders/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k" {
			http.Error(w, "bad key", http.StatusForbidden)
			return
		}
		switch strings.TrimPrefix(r.URL.Path, "/api/v1/shaders/") {
		case "abc123":
			fmt.Fprint(w, apiShader)
		default:
			fmt.Fprint(w, `{"Error":"Shader not found"}`)
		}
	})
	mux.HandleFunc("/shadertoy", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.Contains(r.FormValue("s"), "priv01") {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, rawShaderJSON)
	})
	mux.HandleFunc("/media/a/tex.png", func(w http.ResponseWriter, r *http.Request) {
		_ = png.Encode(w, image.NewRGBA(image.Rect(0, 0, 4, 3)))
	})
	srv := httptest.NewServer(mux)
	old := BaseURL
	BaseURL = srv.URL
	t.Cleanup(func() {
		BaseURL = old
		srv.Close()
	})
}

func TestImagePass(t *testing.T) {
	newServer(t)
	args, err := ImagePass("k", "https://www.shadertoy.com/view/abc123/")
	if err != nil {
		t.Fatal(err)
	}
	if args.CommonCode != "float k = 1.0;" || !strings.Contains(args.ShaderCode, "mainImage") {
		t.Errorf("passes = %q / %q", args.CommonCode, args.ShaderCode)
	}
	if args.Complete {
		t.Error("shader with a buffer pass reported complete")
	}
	if args.Title != `"Waves" by someone` {
		t.Errorf("title = %s", args.Title)
	}
	if len(args.Inputs) != 1 || args.Inputs[0].Channel != 1 || args.Inputs[0].Sampler.VFlip != "true" {
		t.Fatalf("inputs = %+v", args.Inputs)
	}

	img, err := FetchTexture(args.Inputs[0].Src)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("texture bounds %v", img.Bounds())
	}
	if _, err := FetchTexture("/media/missing.png"); err == nil {
		t.Error("missing texture fetched")
	}
}

func TestImagePassRawFallback(t *testing.T) {
	newServer(t)
	args, err := ImagePass("k", "priv01")
	if err != nil {
		t.Fatal(err)
	}
	if !args.Complete || args.Title != `"Private" by other` {
		t.Errorf("args = %+v", args)
	}
	if len(args.Inputs) != 1 || args.Inputs[0].Src != "/media/b/raw.png" || args.Inputs[0].CType != "texture" {
		t.Errorf("inputs = %+v", args.Inputs)
	}
}

func TestAPIKey(t *testing.T) {
	newServer(t)
	t.Setenv("SHADERTOY_KEY", "")
	if _, err := ImagePass("", "abc123"); err == nil || !strings.Contains(err.Error(), "SHADERTOY_KEY") {
		t.Fatalf("error = %v, want a missing key error", err)
	}
	t.Setenv("SHADERTOY_KEY", "k")
	if _, err := ImagePass("", "abc123"); err != nil {
		t.Fatal(err)
	}
	if _, err := ImagePass("wrong", "abc123"); err == nil {
		t.Error("wrong key accepted")
	}
}
