package main

import (
	"errors"
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/keyfall/ecs/debugui"
	debugui_ebiten "github.com/plus3/keyfall/ecs/debugui/ebiten"
	"github.com/plus3/keyfall/game"
	"github.com/plus3/keyfall/records"
	"github.com/plus3/keyfall/sound"
)

const appName = "keyfall"

func main() {
	configPath := flag.String("config", "keyfall.yaml", "path to a YAML config file; missing means defaults")
	debug := flag.Bool("debug", false, "show the ImGui debug overlay")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one")
	match := flag.String("match", "", "override the matching mode (strict or scan)")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	config, err := game.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("[keyfall] %v", err)
	}
	if *match != "" {
		config.Matching = game.MatchMode(*match)
	}
	if *mute {
		config.Sound = false
	}

	source, err := loadFaceSource(config.FontPath)
	if err != nil {
		log.Fatalf("[keyfall] %v", err)
	}

	player := sound.NewPlayer()
	if config.Sound {
		if err := player.Init(); err != nil {
			log.Printf("[sound] Warning: %v (sound disabled)", err)
		}
		defer player.Close()
	}

	opts := []game.Option{game.WithFeedback(player)}
	if *seed != 0 {
		opts = append(opts, game.WithSeed(*seed))
	}
	if *debug {
		opts = append(opts,
			game.WithComponents(debugui.RegisterComponents),
			game.WithSystems(&debugui.ImguiSystem{}),
		)
	}

	world, err := game.NewWorld(config, opts...)
	if err != nil {
		log.Fatalf("[keyfall] %v", err)
	}

	store := records.Open(appName)
	best := 0
	if record, ok := store.Best(); ok {
		best = record.Hits
	}

	g := newGame(world, config, source, best)
	if *debug {
		backend := debugui_ebiten.NewImguiBackend(config.Window.Title, config.Window.Width, config.Window.Height)
		g.imgui = &backend
		spawnDebugPanels(world)
	} else {
		ebiten.SetWindowSize(config.Window.Width, config.Window.Height)
		ebiten.SetWindowTitle(config.Window.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	started := time.Now()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("[keyfall] %v", err)
	}

	record := records.NewRecord(world.Session(), started, config.Matching)
	if err := store.Add(record); err != nil {
		log.Printf("[records] Warning: %v", err)
	}
	log.Printf("[keyfall] session %s", record)
}
