package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/richinsley/golens/host"
	inputs "github.com/richinsley/golens/inputs"
	"github.com/richinsley/golens/lens"
	options "github.com/richinsley/golens/options"
	"github.com/richinsley/golens/source"
	"github.com/richinsley/golens/viewer"
)

func init() {
	runtime.LockOSThread()
}

func parseFlags() *options.LensOptions {
	opts := &options.LensOptions{
		Image:      flag.String("image", "", "Image to distort (path or http(s) URL)"),
		Brush:      flag.String("brush", "", "Brush mask image; defaults to "+inputs.DefaultBrushPath+" or a generated soft brush"),
		ConfigFile: flag.String("config", "", "TOML file overriding lens parameters"),
		Help:       flag.Bool("help", false, "Show help message"),
		Width:      flag.Int("width", 1280, "Window or output width"),
		Height:     flag.Int("height", 720, "Window or output height"),
		Inset:      flag.Float64("inset", 48, "Inset of the lens from the window edges"),
		PageScale:  flag.Float64("page", 2, "Page height in window heights; scroll the wheel to move the lens"),
		Watch:      flag.Bool("watch", false, "Rebuild the lens when the image or brush file changes"),
		Mode:       flag.String("mode", "window", "Mode: 'window', 'record' or 'snapshot'"),
		Duration:   flag.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:        flag.Int("fps", 60, "Frames per second for recording"),
		OutputFile: flag.String("output", "", "Output file for record (default lens.mp4) or snapshot (default lens.png)"),
		FFMPEGPath: flag.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:      flag.String("codec", "h264", "Video codec: 'h264' or 'hevc'"),
		UseCache:   flag.Bool("cache", true, "Cache downloaded images on disk"),
		SnapshotAt: flag.Float64("at", 1.0, "Seconds of animation before the snapshot"),
	}
	flag.Parse()
	return opts
}

func loadConfig(opts *options.LensOptions) lens.Config {
	if *opts.ConfigFile == "" {
		return lens.DefaultConfig()
	}
	cfg, err := lens.LoadConfig(*opts.ConfigFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	log.Printf("Loaded lens config from %s", *opts.ConfigFile)
	return cfg
}

func outputFor(opts *options.LensOptions, ext string) string {
	out := *opts.OutputFile
	if out == "" {
		return "lens" + ext
	}
	if ext == ".png" && !strings.EqualFold(filepath.Ext(out), ".png") {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + ext
	}
	return out
}

func runSnapshot(opts *options.LensOptions, cfg lens.Config) error {
	fetcher, err := source.NewFetcher(*opts.UseCache)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.LoadTimeout)+time.Minute)
	defer cancel()

	loader := inputs.NewLoader(fetcher, *opts.Image, *opts.Brush)
	img, err := host.Snapshot(ctx, cfg, *opts.Image, loader, *opts.Width, *opts.Height, *opts.SnapshotAt)
	if err != nil {
		return err
	}

	out := outputFor(opts, ".png")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", out, err)
	}
	log.Printf("Successfully rendered to %s", out)
	return nil
}

func main() {
	opts := parseFlags()

	if *opts.Help {
		fmt.Println("Image distortion lens viewer/recorder")
		flag.PrintDefaults()
		return
	}
	if *opts.Image == "" {
		log.Fatalf("Error: %v (use -image)", lens.ErrNoSource)
	}

	cfg := loadConfig(opts)

	var err error
	switch *opts.Mode {
	case "window":
		log.Println("Starting interactive render loop...")
		err = viewer.RunWindow(opts, cfg)
	case "record":
		*opts.OutputFile = outputFor(opts, ".mp4")
		err = viewer.Record(opts, cfg)
	case "snapshot":
		err = runSnapshot(opts, cfg)
	default:
		log.Fatalf("Unknown mode: %s", *opts.Mode)
	}
	if err != nil {
		log.Fatalf("Lens failed: %v", err)
	}
}
