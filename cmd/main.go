package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/richinsley/headlessgl/api"
	"github.com/richinsley/headlessgl/coerce"
	"github.com/richinsley/headlessgl/encoder"
	"github.com/richinsley/headlessgl/factory"
	"github.com/richinsley/headlessgl/glfwcontext"
	"github.com/richinsley/headlessgl/headless"
	"github.com/richinsley/headlessgl/inputs"
	"github.com/richinsley/headlessgl/options"
	"github.com/richinsley/headlessgl/renderer"
	"github.com/richinsley/headlessgl/shader"
	"github.com/richinsley/headlessgl/translator"
	"github.com/richinsley/headlessgl/webgl"
)

// Contexts are bound to the thread they were created on.
func init() {
	runtime.LockOSThread()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseFlags() *options.RenderOptions {
	o := &options.RenderOptions{
		ShaderFile: flag.String("shader-file", "", "Path to a GLSL file with a mainImage function or a complete fragment shader"),
		ShaderID:   flag.String("shadertoy", "", "Shadertoy shader ID or URL"),
		APIKey:     flag.String("apikey", "", "Shadertoy API key (from SHADERTOY_KEY env var if not set)"),
		Help:       flag.Bool("help", false, "Show help message"),
		Width:      flag.String("width", envOr("HEADLESSGL_WIDTH", "640"), "Width of the drawing buffer (HEADLESSGL_WIDTH)"),
		Height:     flag.String("height", envOr("HEADLESSGL_HEIGHT", "360"), "Height of the drawing buffer (HEADLESSGL_HEIGHT)"),
		Driver:     flag.String("driver", "egl", "Context driver: egl (headless) or glfw (hidden window)"),
		Antialias:  flag.Bool("antialias", true, "Request a multisampled drawing buffer"),
		Alpha:      flag.Bool("alpha", true, "Request an alpha channel"),
		Depth:      flag.Bool("depth", true, "Request a depth buffer"),
		Stencil:    flag.Bool("stencil", false, "Request a stencil buffer"),
		Time:       flag.Float64("time", 0, "Shader time of the first frame, in seconds"),
		Duration:   flag.Float64("duration", 0, "Seconds of video to record; 0 renders a single image"),
		FPS:        flag.Int("fps", 30, "Frames per second"),
		OutputFile: flag.String("output", "output.png", "Output image (png, jpg, gif, bmp, tiff) or video file"),
		FFMPEGPath: flag.String("ffmpeg", "", "Path to ffmpeg executable"),
		Watch:      flag.Bool("watch", false, "Render again whenever -shader-file changes"),
		Verbose:    flag.Bool("v", false, "Log why context creation is declined"),
	}
	for i := range o.Channels {
		o.Channels[i] = flag.String(fmt.Sprintf("channel%d", i), "", fmt.Sprintf("Image or wav file bound to iChannel%d", i))
	}
	flag.Parse()
	return o
}

func main() {
	o := parseFlags()
	if *o.Help {
		fmt.Println("headlessgl: render shadertoy shaders without a window")
		flag.PrintDefaults()
		return
	}
	if (*o.ShaderFile == "") == (*o.ShaderID == "") {
		log.Println("exactly one of -shader-file and -shadertoy is required")
		os.Exit(2)
	}
	os.Exit(run(o))
}

// newFactory picks the driver. The returned function releases it.
func newFactory(o *options.RenderOptions) (*factory.Factory, func(), error) {
	var opts []factory.Option
	if *o.Verbose {
		opts = append(opts, factory.WithLogger(log.Default()))
	}
	switch *o.Driver {
	case "egl":
		f, d := headless.NewFactory(opts...)
		return f, d.Release, nil
	case "glfw":
		if err := glfwcontext.InitGraphics(); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize GLFW: %w", err)
		}
		opts = append([]factory.Option{factory.WithTranslator(translator.Lazy{})}, opts...)
		return factory.New(glfwcontext.NewDriver(), opts...), glfwcontext.TerminateGraphics, nil
	}
	return nil, nil, fmt.Errorf("unknown driver %q", *o.Driver)
}

func run(o *options.RenderOptions) int {
	f, release, err := newFactory(o)
	if err != nil {
		log.Println(err)
		return 1
	}
	defer release()

	ctx := f.CreateContext(coerce.Number(*o.Width), coerce.Number(*o.Height), o.ContextAttributes())
	if ctx == nil {
		log.Printf("could not create a %sx%s rendering context on %s", *o.Width, *o.Height, *o.Driver)
		return 1
	}
	defer ctx.Destroy()
	log.Printf("Created %dx%d context: %s", ctx.DrawingBufferWidth(), ctx.DrawingBufferHeight(), ctx.GetParameterString(webgl.RENDERER))

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := render(sigctx, ctx, o); err != nil {
		log.Println(err)
		if !*o.Watch {
			return 1
		}
	}
	if *o.Watch {
		if err := watch(sigctx, ctx, o); err != nil && !errors.Is(err, context.Canceled) {
			log.Println(err)
			return 1
		}
	}
	return 0
}

type source struct {
	common string
	image  string
	inputs []api.Input
}

func loadSource(o *options.RenderOptions) (*source, error) {
	if *o.ShaderFile != "" {
		code, err := os.ReadFile(*o.ShaderFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read shader: %w", err)
		}
		return &source{image: string(code)}, nil
	}

	log.Printf("Fetching shader with ID: %s", *o.ShaderID)
	args, err := api.ImagePass(*o.APIKey, *o.ShaderID)
	if err != nil {
		return nil, fmt.Errorf("error fetching shader: %w", err)
	}
	log.Printf("Successfully processed shader: %s", args.Title)
	if !args.Complete {
		log.Println("Warning: only the image and common passes are rendered.")
	}
	return &source{common: args.CommonCode, image: args.ShaderCode, inputs: args.Inputs}, nil
}

// loadChannels binds -channelN files first, then the shader's own texture
// inputs.
func loadChannels(ctx *webgl.RenderingContext, o *options.RenderOptions, src *source) ([]inputs.IChannel, error) {
	var channels []inputs.IChannel
	bound := [shader.ChannelCount]bool{}
	for i, path := range o.Channels {
		if *path == "" {
			continue
		}
		ch, err := loadChannelFile(ctx, i, *path)
		if err != nil {
			return channels, err
		}
		channels = append(channels, ch)
		bound[i] = true
	}
	for _, in := range src.inputs {
		if in.Channel < 0 || in.Channel >= shader.ChannelCount || bound[in.Channel] {
			continue
		}
		if in.CType != "texture" {
			log.Printf("Warning: Channel %d has unsupported type %q, skipping.", in.Channel, in.CType)
			continue
		}
		img, err := api.FetchTexture(in.Src)
		if err != nil {
			return channels, err
		}
		sampler := inputs.Sampler{Filter: in.Sampler.Filter, Wrap: in.Sampler.Wrap, VFlip: in.Sampler.VFlip == "true"}
		ch, err := inputs.NewImageChannel(ctx, in.Channel, img, sampler)
		if err != nil {
			return channels, err
		}
		channels = append(channels, ch)
		bound[in.Channel] = true
	}
	return channels, nil
}

// loadChannelFile binds a wav file as a music input and anything else as
// an image.
func loadChannelFile(ctx *webgl.RenderingContext, index int, path string) (inputs.IChannel, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		samples, rate, err := inputs.LoadWAV(path)
		if err != nil {
			return nil, err
		}
		return inputs.NewAudioChannel(ctx, index, samples, rate, inputs.DefaultSampler)
	}
	img, err := inputs.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return inputs.NewImageChannel(ctx, index, img, inputs.DefaultSampler)
}

func render(sigctx context.Context, ctx *webgl.RenderingContext, o *options.RenderOptions) error {
	src, err := loadSource(o)
	if err != nil {
		return err
	}
	channels, err := loadChannels(ctx, o, src)
	if err != nil {
		for _, ch := range channels {
			ch.Destroy()
		}
		return fmt.Errorf("failed to load channels: %w", err)
	}
	r, err := renderer.New(ctx, shader.WrapFragment(src.common, src.image), channels)
	if err != nil {
		for _, ch := range channels {
			ch.Destroy()
		}
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Destroy()

	if o.IsVideo() {
		return record(sigctx, r, ctx, o)
	}
	return still(r, o)
}

func still(r *renderer.Renderer, o *options.RenderOptions) error {
	if err := r.RenderFrame(renderer.FrameUniforms(0, *o.FPS, *o.Time, time.Now())); err != nil {
		return err
	}
	img, err := r.Snapshot()
	if err != nil {
		return err
	}
	if err := encoder.WriteImage(*o.OutputFile, img); err != nil {
		return err
	}
	log.Printf("Successfully rendered to %s", *o.OutputFile)
	return nil
}

func record(sigctx context.Context, r *renderer.Renderer, ctx *webgl.RenderingContext, o *options.RenderOptions) error {
	if encoder.IsImagePath(*o.OutputFile) {
		return fmt.Errorf("-duration needs a video output, got %s", *o.OutputFile)
	}
	enc, err := encoder.NewVideoEncoder(encoder.VideoOptions{
		Path:       *o.OutputFile,
		Width:      ctx.DrawingBufferWidth(),
		Height:     ctx.DrawingBufferHeight(),
		FPS:        *o.FPS,
		FFmpegPath: *o.FFMPEGPath,
	})
	if err != nil {
		return err
	}

	// The encoder consumes frames while this thread keeps rendering.
	frames := make(chan *renderer.Frame, 3)
	done := make(chan error, 1)
	go func() {
		var werr error
		for frame := range frames {
			if werr == nil {
				werr = enc.WriteFrame(frame.Image)
			}
		}
		done <- werr
	}()

	total := int(*o.Duration * float64(*o.FPS))
	recErr := r.Record(sigctx, total, *o.FPS, *o.Time, frames)
	writeErr := <-done
	closeErr := enc.Close()
	if err := errors.Join(recErr, writeErr, closeErr); err != nil {
		return err
	}
	log.Printf("Successfully rendered %d frames to %s", enc.Frames(), *o.OutputFile)
	return nil
}

// watch renders again each time the shader file is written. The directory is
// watched so editors that replace the file are noticed too.
func watch(sigctx context.Context, ctx *webgl.RenderingContext, o *options.RenderOptions) error {
	if *o.ShaderFile == "" {
		return errors.New("-watch needs -shader-file")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(*o.ShaderFile)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}
	log.Printf("Watching %s for changes...", target)

	for {
		select {
		case <-sigctx.Done():
			return sigctx.Err()
		case err := <-watcher.Errors:
			log.Printf("Watcher error: %v", err)
		case ev := <-watcher.Events:
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if ctx.IsContextLost() {
				return renderer.ErrContextLost
			}
			if err := render(sigctx, ctx, o); err != nil {
				log.Println(err)
			}
		}
	}
}
