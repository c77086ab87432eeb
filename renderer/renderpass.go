package renderer

import (
	"fmt"

	"github.com/richinsley/headlessgl/inputs"
	"github.com/richinsley/headlessgl/shader"
	"github.com/richinsley/headlessgl/webgl"
)

// RenderPass is a linked image shader with its uniform locations resolved.
// A nil location means the shader does not use that uniform.
type RenderPass struct {
	program               *webgl.Program
	channels              []inputs.IChannel
	resolutionLoc         *webgl.UniformLocation
	timeLoc               *webgl.UniformLocation
	timeDeltaLoc          *webgl.UniformLocation
	frameRateLoc          *webgl.UniformLocation
	frameLoc              *webgl.UniformLocation
	mouseLoc              *webgl.UniformLocation
	dateLoc               *webgl.UniformLocation
	iChannelLoc           [shader.ChannelCount]*webgl.UniformLocation
	iChannelResolutionLoc [shader.ChannelCount]*webgl.UniformLocation
	iChannelTimeLoc       [shader.ChannelCount]*webgl.UniformLocation
}

func newRenderPass(ctx *webgl.RenderingContext, program *webgl.Program, channels []inputs.IChannel) *RenderPass {
	pass := &RenderPass{
		program:       program,
		channels:      channels,
		resolutionLoc: ctx.GetUniformLocation(program, "iResolution"),
		timeLoc:       ctx.GetUniformLocation(program, "iTime"),
		timeDeltaLoc:  ctx.GetUniformLocation(program, "iTimeDelta"),
		frameRateLoc:  ctx.GetUniformLocation(program, "iFrameRate"),
		frameLoc:      ctx.GetUniformLocation(program, "iFrame"),
		mouseLoc:      ctx.GetUniformLocation(program, "iMouse"),
		dateLoc:       ctx.GetUniformLocation(program, "iDate"),
	}
	for i := 0; i < shader.ChannelCount; i++ {
		pass.iChannelLoc[i] = ctx.GetUniformLocation(program, fmt.Sprintf("iChannel%d", i))
		pass.iChannelResolutionLoc[i] = ctx.GetUniformLocation(program, fmt.Sprintf("iChannelResolution[%d]", i))
		pass.iChannelTimeLoc[i] = ctx.GetUniformLocation(program, fmt.Sprintf("iChannelTime[%d]", i))
	}
	return pass
}

func (pass *RenderPass) updateUniforms(ctx *webgl.RenderingContext, width, height int, u *Uniforms) {
	// A nil location is a no-op in webgl, so unused uniforms need no checks.
	ctx.Uniform3f(pass.resolutionLoc, float32(width), float32(height), 1)
	ctx.Uniform1f(pass.timeLoc, u.Time)
	ctx.Uniform1f(pass.timeDeltaLoc, u.TimeDelta)
	ctx.Uniform1f(pass.frameRateLoc, u.FrameRate)
	ctx.Uniform1i(pass.frameLoc, u.Frame)
	ctx.Uniform4f(pass.mouseLoc, u.Mouse[0], u.Mouse[1], u.Mouse[2], u.Mouse[3])
	ctx.Uniform4f(pass.dateLoc, u.Date[0], u.Date[1], u.Date[2], u.Date[3])
	for i := range pass.iChannelTimeLoc {
		ctx.Uniform1f(pass.iChannelTimeLoc[i], u.Time)
	}
}

func (pass *RenderPass) bindChannels(ctx *webgl.RenderingContext, u *Uniforms) {
	ctx.ActiveTexture(webgl.TEXTURE0)
	for _, ch := range pass.channels {
		if ch != nil {
			ch.Update(u.Time)
		}
	}
	for _, ch := range pass.channels {
		if ch == nil {
			continue
		}
		i := ch.GetInputIndex()
		if i < 0 || i >= shader.ChannelCount {
			continue
		}
		ctx.ActiveTexture(webgl.TEXTURE0 + uint32(i))
		ctx.BindTexture(webgl.TEXTURE_2D, ch.Texture())
		ctx.Uniform1i(pass.iChannelLoc[i], int32(i))
		res := ch.ChannelRes()
		ctx.Uniform3f(pass.iChannelResolutionLoc[i], res[0], res[1], res[2])
	}
	ctx.ActiveTexture(webgl.TEXTURE0)
}

func (pass *RenderPass) unbindChannels(ctx *webgl.RenderingContext) {
	for _, ch := range pass.channels {
		if ch == nil {
			continue
		}
		i := ch.GetInputIndex()
		if i < 0 || i >= shader.ChannelCount {
			continue
		}
		ctx.ActiveTexture(webgl.TEXTURE0 + uint32(i))
		ctx.BindTexture(webgl.TEXTURE_2D, nil)
	}
	ctx.ActiveTexture(webgl.TEXTURE0)
}
