// Package api fetches shaders and their texture inputs from shadertoy.com.
package api

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	// Texture decoders for FetchTexture.
	_ "image/jpeg"
	_ "image/png"
)

// BaseURL is the shadertoy.com origin. Tests point it at a local server.
var BaseURL = "https://www.shadertoy.com"

func apiURL() string { return BaseURL + "/api/v1" }

// httpClient sets the User-Agent on every request.
var httpClient = &http.Client{
	Transport: &headerTransport{Transport: http.DefaultTransport},
}

type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "headlessgl (+https://github.com/richinsley/headlessgl)")
	return t.Transport.RoundTrip(req)
}

// ShadertoyResponse is the body of /api/v1/shaders/{id}.
type ShadertoyResponse struct {
	Shader *Shader `json:"Shader"`
	Error  string  `json:"Error,omitempty"`
	IsAPI  bool    `json:"isAPI,omitempty"`
}

type Shader struct {
	Info       ShaderInfo   `json:"info"`
	RenderPass []RenderPass `json:"renderpass"`
}

type ShaderInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type RenderPass struct {
	Inputs []Input `json:"inputs"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
}

type Input struct {
	Channel int     `json:"channel"`
	CType   string  `json:"ctype"`
	Src     string  `json:"src"`
	Sampler Sampler `json:"sampler"`
}

type Sampler struct {
	Filter string `json:"filter"`
	Wrap   string `json:"wrap"`
	VFlip  string `json:"vflip"`
}

// The private endpoint names inputs differently and returns an array.
type rawShaderResponse []rawShader

type rawShader struct {
	Info          ShaderInfo      `json:"info"`
	RawRenderPass []rawRenderPass `json:"renderpass"`
}

type rawRenderPass struct {
	Inputs []rawInput `json:"inputs"`
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	Type   string     `json:"type"`
}

type rawInput struct {
	Filepath string  `json:"filepath"`
	Type     string  `json:"type"`
	Channel  int     `json:"channel"`
	Sampler  Sampler `json:"sampler"`
}

func rawShaderToShader(raw rawShader) *Shader {
	shader := &Shader{
		Info:       raw.Info,
		RenderPass: make([]RenderPass, len(raw.RawRenderPass)),
	}
	for i, rPass := range raw.RawRenderPass {
		shader.RenderPass[i] = RenderPass{
			Inputs: make([]Input, len(rPass.Inputs)),
			Code:   rPass.Code,
			Name:   rPass.Name,
			Type:   rPass.Type,
		}
		for j, inp := range rPass.Inputs {
			shader.RenderPass[i].Inputs[j] = Input{
				Channel: inp.Channel,
				CType:   inp.Type,
				Src:     inp.Filepath,
				Sampler: inp.Sampler,
			}
		}
	}
	return shader
}

// ShaderArgs holds the code and inputs of a shader's image pass.
type ShaderArgs struct {
	ShaderCode string
	CommonCode string
	Inputs     []Input
	Title      string
	// Complete is false when the shader has passes besides image and
	// common, which are not rendered.
	Complete bool
}

// getAPIKey falls back to the SHADERTOY_KEY environment variable.
func getAPIKey(apikey string) (string, error) {
	if apikey != "" {
		return apikey, nil
	}
	if key := os.Getenv("SHADERTOY_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("SHADERTOY_KEY environment variable not set. See https://www.shadertoy.com/howto#q2")
}

// shaderID accepts a bare ID or a shader URL.
func shaderID(idOrURL string) string {
	if strings.Contains(idOrURL, "/") {
		return filepath.Base(strings.TrimSuffix(idOrURL, "/"))
	}
	return idOrURL
}

// ShaderFromID fetches a shader's JSON data from Shadertoy.com by its ID.
// Shaders not published to the API are fetched through the site endpoint.
func ShaderFromID(apikey string, idOrURL string) (*ShadertoyResponse, error) {
	apikey, err := getAPIKey(apikey)
	if err != nil {
		return nil, err
	}
	id := shaderID(idOrURL)

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/shaders/%s", apiURL(), id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Add("key", apikey)
	req.URL.RawQuery = q.Encode()

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to shadertoy API failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load shader %s, status code: %d", id, resp.StatusCode)
	}

	var shaderResp ShadertoyResponse
	if err := json.NewDecoder(resp.Body).Decode(&shaderResp); err != nil {
		return nil, fmt.Errorf("failed to decode shader JSON: %w", err)
	}

	if shaderResp.Error != "" {
		// Unlisted shaders are only served by the private endpoint.
		log.Printf("Warning: Shadertoy API error for %s: %s (is it public+api?)", id, shaderResp.Error)
		rawData, err := GetRawAPIShaderData(id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch raw shader data for %s: %w", id, err)
		}
		var rawResp rawShaderResponse
		if err := json.Unmarshal(rawData, &rawResp); err != nil {
			return nil, fmt.Errorf("failed to decode raw shader JSON: %w", err)
		}
		if len(rawResp) == 0 {
			return nil, fmt.Errorf("raw shader response is empty for %s", id)
		}
		shaderResp = ShadertoyResponse{Shader: rawShaderToShader(rawResp[0])}
	} else {
		shaderResp.IsAPI = true
	}

	if shaderResp.Shader == nil {
		return nil, fmt.Errorf("invalid JSON response: 'Shader' key is missing")
	}
	return &shaderResp, nil
}

// ShaderArgsFromJSON extracts the image and common passes.
func ShaderArgsFromJSON(shaderData *ShadertoyResponse) (*ShaderArgs, error) {
	if shaderData.Shader == nil {
		return nil, fmt.Errorf("shader data must have a 'Shader' key")
	}
	args := &ShaderArgs{Complete: true}
	for _, rPass := range shaderData.Shader.RenderPass {
		switch rPass.Type {
		case "image":
			args.ShaderCode = rPass.Code
			args.Inputs = rPass.Inputs
		case "common":
			args.CommonCode = rPass.Code
		default:
			log.Printf("Warning: unsupported render pass type: %s", rPass.Type)
			args.Complete = false
		}
	}
	if args.ShaderCode == "" {
		return nil, fmt.Errorf("shader %s has no image pass", shaderData.Shader.Info.ID)
	}

	info := shaderData.Shader.Info
	args.Title = fmt.Sprintf(`"%s" by %s`, info.Name, info.Username)
	return args, nil
}

// ImagePass fetches the shader idOrURL and returns its image pass.
func ImagePass(apikey, idOrURL string) (*ShaderArgs, error) {
	resp, err := ShaderFromID(apikey, idOrURL)
	if err != nil {
		return nil, err
	}
	return ShaderArgsFromJSON(resp)
}

// FetchTexture downloads and decodes the media file of a texture input.
func FetchTexture(src string) (image.Image, error) {
	resp, err := httpClient.Get(BaseURL + src)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", src, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s, status code: %d", src, resp.StatusCode)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", src, err)
	}
	return img, nil
}
