package api

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// GetRawAPIShaderData fetches the JSON data for a given Shadertoy ID.
// It sends a POST request to the site endpoint with browser-like headers
// and returns the raw JSON response.
func GetRawAPIShaderData(shaderID string) ([]byte, error) {
	// Example payload: s={"shaders":["4lSGRV"]}
	data := url.Values{}
	data.Set("s", fmt.Sprintf(`{"shaders":["%s"]}`, shaderID))

	req, err := http.NewRequest(http.MethodPost, BaseURL+"/shadertoy", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", BaseURL)
	req.Header.Set("Referer", BaseURL+"/browse")
	req.Header.Set("Accept", "*/*")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad response status: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
