package encoder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoOptions describes the video a VideoEncoder produces.
type VideoOptions struct {
	Path       string
	Width      int
	Height     int
	FPS        int
	Codec      string // "h264" (default) or "hevc"
	FFmpegPath string
}

// getArgs returns the ffmpeg arguments for raw RGBA frames on stdin.
func getArgs(opts *VideoOptions) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"r":       strconv.Itoa(opts.FPS),
	}

	outputArgs = ffmpeg.KwArgs{"pix_fmt": "yuv420p"}
	if opts.Codec == "hevc" {
		outputArgs["c:v"] = "libx265"
		if strings.EqualFold(filepath.Ext(opts.Path), ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	} else {
		outputArgs["c:v"] = "libx264"
	}
	return
}

// VideoEncoder streams frames to an ffmpeg process.
type VideoEncoder struct {
	pipe      *io.PipeWriter
	errc      chan error
	frameSize int
	width     int
	height    int
	frames    int64

	closeOnce sync.Once
	err       error
}

// NewVideoEncoder starts ffmpeg writing opts.Path. Frames are sent with
// WriteFrame; Close waits for ffmpeg to finish.
func NewVideoEncoder(opts VideoOptions) (*VideoEncoder, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.FPS <= 0 {
		return nil, fmt.Errorf("encoder: invalid video %dx%d at %d fps", opts.Width, opts.Height, opts.FPS)
	}
	return startVideoEncoder(&opts, func(r io.Reader) error {
		return ffmpegCommand(&opts, r).Run()
	}), nil
}

func ffmpegCommand(opts *VideoOptions, r io.Reader) *ffmpeg.Stream {
	inputArgs, outputArgs := getArgs(opts)
	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(opts.Path, outputArgs).
		OverWriteOutput().WithInput(r).ErrorToStdOut()
	if opts.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(opts.FFmpegPath)
	}
	return cmd
}

func startVideoEncoder(opts *VideoOptions, run func(io.Reader) error) *VideoEncoder {
	pipeReader, pipeWriter := io.Pipe()
	e := &VideoEncoder{
		pipe:      pipeWriter,
		errc:      make(chan error, 1),
		frameSize: opts.Width * opts.Height * 4,
		width:     opts.Width,
		height:    opts.Height,
	}
	go func() {
		err := run(pipeReader)
		// Unblock WriteFrame if ffmpeg exits early.
		pipeReader.CloseWithError(errors.New("encoder: ffmpeg exited"))
		e.errc <- err
	}()
	log.Printf("Encoding %dx%d video at %d fps to %s", opts.Width, opts.Height, opts.FPS, opts.Path)
	return e
}

// WriteFrame sends one frame. Its size must match the video size.
func (e *VideoEncoder) WriteFrame(img *image.RGBA) error {
	if img.Rect.Dx() != e.width || img.Rect.Dy() != e.height {
		return fmt.Errorf("encoder: frame is %dx%d, video is %dx%d", img.Rect.Dx(), img.Rect.Dy(), e.width, e.height)
	}
	pix := img.Pix
	if img.Stride != e.width*4 {
		pix = make([]byte, 0, e.frameSize)
		for y := 0; y < e.height; y++ {
			pix = append(pix, img.Pix[y*img.Stride:y*img.Stride+e.width*4]...)
		}
	}
	if _, err := e.pipe.Write(pix[:e.frameSize]); err != nil {
		return fmt.Errorf("encoder: writing frame %d: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Frames is the number of frames written so far.
func (e *VideoEncoder) Frames() int64 { return e.frames }

// Close ends the input stream and waits for ffmpeg.
func (e *VideoEncoder) Close() error {
	e.closeOnce.Do(func() {
		_ = e.pipe.Close()
		if err := <-e.errc; err != nil {
			e.err = fmt.Errorf("encoder: ffmpeg: %w", err)
		}
	})
	return e.err
}
