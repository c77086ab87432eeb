package renderer

import "time"

// Uniforms holds the per-frame shadertoy inputs.
type Uniforms struct {
	Time      float32
	TimeDelta float32
	FrameRate float32
	Frame     int32
	Mouse     [4]float32
	// Date is year, month (0-11), day of month and seconds since midnight.
	Date [4]float32
}

// FrameUniforms returns the uniforms of frame i of a fps recording whose
// first frame is at start, with iDate counting from wall clock t0.
func FrameUniforms(i, fps int, start float64, t0 time.Time) Uniforms {
	step := 1.0 / float64(fps)
	now := start + float64(i)*step
	return Uniforms{
		Time:      float32(now),
		TimeDelta: float32(step),
		FrameRate: float32(fps),
		Frame:     int32(i),
		Date:      DateUniform(t0.Add(time.Duration(now * float64(time.Second)))),
	}
}

// DateUniform encodes t as iDate.
func DateUniform(t time.Time) [4]float32 {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return [4]float32{
		float32(t.Year()),
		float32(t.Month() - 1),
		float32(t.Day()),
		float32(t.Sub(midnight).Seconds()),
	}
}
