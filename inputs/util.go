package inputs

import (
	"github.com/richinsley/headlessgl/webgl"
)

// Helper to convert Shadertoy wrap string to a WebGL constant.
func getWrapMode(wrap string) int32 {
	switch wrap {
	case "clamp":
		return webgl.CLAMP_TO_EDGE
	case "mirror":
		return webgl.MIRRORED_REPEAT
	default:
		return webgl.REPEAT
	}
}

// Helper to convert Shadertoy filter string to WebGL constants.
func getFilterMode(filter string) (minFilter, magFilter int32) {
	switch filter {
	case "mipmap":
		return webgl.LINEAR_MIPMAP_LINEAR, webgl.LINEAR
	case "nearest":
		return webgl.NEAREST, webgl.NEAREST
	default:
		return webgl.LINEAR, webgl.LINEAR
	}
}
