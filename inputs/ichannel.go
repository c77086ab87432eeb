package inputs

import "github.com/richinsley/headlessgl/webgl"

// IChannel defines the contract for any Shadertoy input channel (iChannel0-3).
type IChannel interface {
	// GetInputIndex returns the iChannel slot the input is bound to.
	GetInputIndex() int

	// Texture returns the texture that should be bound for the channel.
	Texture() *webgl.Texture

	// Update refreshes the texture for shader time t. Static inputs do nothing.
	Update(t float32)

	// ChannelRes returns the resolution of the input channel as a vec3.
	ChannelRes() [3]float32

	// Destroy releases any resources held by the channel.
	Destroy()
}
