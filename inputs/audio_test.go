package inputs

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeWAV writes 16-bit PCM frames, interleaved when channels > 1.
func writeWAV(t *testing.T, path string, rate, channels int, frames [][]float64) {
	t.Helper()
	var data bytes.Buffer
	for _, frame := range frames {
		for _, v := range frame {
			_ = binary.Write(&data, binary.LittleEndian, int16(math.Round(v*32767)))
		}
	}
	var b bytes.Buffer
	le := func(v any) { _ = binary.Write(&b, binary.LittleEndian, v) }
	b.WriteString("RIFF")
	le(uint32(36 + data.Len()))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	le(uint32(16))
	le(uint16(1))
	le(uint16(channels))
	le(uint32(rate))
	le(uint32(rate * channels * 2))
	le(uint16(channels * 2))
	le(uint16(16))
	b.WriteString("data")
	le(uint32(data.Len()))
	b.Write(data.Bytes())
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func sine(rate int, freq, amp float64, seconds float64) [][]float64 {
	n := int(float64(rate) * seconds)
	frames := make([][]float64, n)
	for i := range frames {
		frames[i] = []float64{amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))}
	}
	return frames
}

func TestLoadWAV(t *testing.T) {
	dir := t.TempDir()
	stereo := make([][]float64, 100)
	for i := range stereo {
		stereo[i] = []float64{0.5, -0.5}
	}
	path := filepath.Join(dir, "stereo.wav")
	writeWAV(t, path, 8000, 2, stereo)

	samples, rate, err := LoadWAV(path)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 8000 || len(samples) != 100 {
		t.Fatalf("rate %d, %d samples", rate, len(samples))
	}
	for i, s := range samples {
		if math.Abs(float64(s)) > 1e-3 {
			t.Fatalf("sample %d = %v, want a silent mixdown", i, s)
		}
	}
	if _, _, err := LoadWAV(filepath.Join(dir, "missing.wav")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestAudioChannel(t *testing.T) {
	const rate = 44100
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, rate, 1, sine(rate, 1000, 0.5, 1))
	samples, sr, err := LoadWAV(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, f := newContext(t)
	ch, err := NewAudioChannel(ctx, 3, samples, sr, DefaultSampler)
	if err != nil {
		t.Fatal(err)
	}
	if ch.GetInputIndex() != 3 || ch.ChannelRes() != [3]float32{512, 2, 1} {
		t.Errorf("index %d resolution %v", ch.GetInputIndex(), ch.ChannelRes())
	}

	ch.Update(0.5)
	up := f.TexImages[len(f.TexImages)-1]
	if up.Width != 512 || up.Height != 2 || len(up.Pixels) != 512*2*4 {
		t.Fatalf("upload %dx%d with %d bytes", up.Width, up.Height, len(up.Pixels))
	}
	// 1 kHz lands in bin 1000 / (44100 / 2048) = 46.4.
	spectrum := func(i int) byte { return up.Pixels[i*4] }
	if spectrum(46) != 255 {
		t.Errorf("bin 46 = %d, want 255", spectrum(46))
	}
	if spectrum(400) > 64 {
		t.Errorf("bin 400 = %d, want silence", spectrum(400))
	}
	lo, hi := byte(255), byte(0)
	for i := 0; i < 512; i++ {
		v := up.Pixels[(512+i)*4]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > 80 || hi < 175 {
		t.Errorf("waveform range %d..%d, want about 64..191", lo, hi)
	}

	live := f.Live()
	ch.Destroy()
	if f.Live() != live-1 {
		t.Errorf("Destroy left %d objects, want %d", f.Live(), live-1)
	}
}

func TestRecentSamples(t *testing.T) {
	c := &AudioChannel{samples: []float32{1, 2, 3, 4}, sampleRate: 2}
	got := c.recentSamples(1, 4) // ends at sample 2
	want := []float32{0, 0, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recentSamples = %v, want %v", got, want)
		}
	}
}
