package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/clippit/assets"
	"github.com/milk9111/clippit/config"
	"github.com/milk9111/clippit/prefabs"
	"github.com/milk9111/clippit/sprite"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to config.yaml")
	prefabDir := flag.String("prefabs", prefabs.Dir, "directory checked for prefab overrides before the embedded copies")
	assetDir := flag.String("assets", assets.Dir, "directory checked for sprite sheets before the embedded copies")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	prefabs.Dir = *prefabDir
	assets.Dir = *assetDir

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	app, err := NewApp(cfg, log.Default())
	if err != nil {
		log.Fatalf("clippit: %v", err)
	}

	img, err := assets.LoadImage(app.SheetImage())
	if err != nil {
		log.Fatalf("clippit: %v", err)
	}
	sheet, err := sprite.NewSheet(img, app.Catalog().Geometry)
	if err != nil {
		log.Fatalf("clippit: %v", err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowSizeLimits(config.MinWindowSize, config.MinWindowSize, -1, -1)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowDecorated(cfg.Window.Decorated)
	ebiten.SetWindowFloating(cfg.Window.AlwaysOnTop)

	app.Start(context.Background())
	defer app.Close()

	game := NewGame(app, sheet)
	if err := ebiten.RunGameWithOptions(game, &ebiten.RunGameOptions{ScreenTransparent: true}); err != nil {
		log.Fatal(err)
	}
}
