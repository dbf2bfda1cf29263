package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/richinsley/golens/ebitenlens"
	inputs "github.com/richinsley/golens/inputs"
	"github.com/richinsley/golens/lens"
	options "github.com/richinsley/golens/options"
	"github.com/richinsley/golens/source"
	_ "github.com/silbinarywolf/preferdiscretegpu"
)

// parseFlags binds the window options; record and snapshot settings keep
// their defaults since this viewer only runs interactively.
func parseFlags() *options.LensOptions {
	opts := options.Default()
	opts.Image = flag.String("image", "", "Image to distort (path or http(s) URL)")
	opts.Brush = flag.String("brush", "", "Brush mask image; defaults to "+inputs.DefaultBrushPath+" or a generated soft brush")
	opts.ConfigFile = flag.String("config", "", "TOML file overriding lens parameters")
	opts.Help = flag.Bool("help", false, "Show help message")
	opts.Width = flag.Int("width", *opts.Width, "Window width")
	opts.Height = flag.Int("height", *opts.Height, "Window height")
	opts.Inset = flag.Float64("inset", *opts.Inset, "Inset of the lens from the window edges")
	opts.PageScale = flag.Float64("page", *opts.PageScale, "Page height in window heights; scroll the wheel to move the lens")
	opts.UseCache = flag.Bool("cache", *opts.UseCache, "Cache downloaded images on disk")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	if *opts.Help {
		fmt.Println("Image distortion lens (Ebitengine)")
		flag.PrintDefaults()
		return
	}
	if *opts.Image == "" {
		log.Fatalf("Error: %v (use -image)", lens.ErrNoSource)
	}

	cfg := lens.DefaultConfig()
	if *opts.ConfigFile != "" {
		var err error
		cfg, err = lens.LoadConfig(*opts.ConfigFile)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	fetcher, err := source.NewFetcher(*opts.UseCache)
	if err != nil {
		log.Fatal(err)
	}

	game := ebitenlens.NewGame(cfg, *opts.Width, *opts.Height, *opts.Inset, *opts.PageScale)
	loader := inputs.NewLoader(fetcher, *opts.Image, *opts.Brush)
	if err := game.Load(context.Background(), *opts.Image, loader); err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(*opts.Width, *opts.Height)
	ebiten.SetWindowTitle("golens")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// one Update per displayed frame, like a browser animation frame
	ebiten.SetTPS(ebiten.SyncWithFPS)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
