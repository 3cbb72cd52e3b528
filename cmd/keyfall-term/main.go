// Command keyfall-term plays keyfall inside a terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/keyfall/game"
	"github.com/plus3/keyfall/records"
	"github.com/plus3/keyfall/sound"
)

func main() {
	configPath := flag.String("config", "keyfall.yaml", "path to a YAML config file; missing means defaults")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one")
	match := flag.String("match", "", "override the matching mode (strict or scan)")
	mute := flag.Bool("mute", false, "disable sound")
	logPath := flag.String("log", "", "append log output to this file")
	flag.Parse()

	// The terminal owns stdout and stderr while the screen is up.
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	config, err := game.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *match != "" {
		config.Matching = game.MatchMode(*match)
	}
	if *mute {
		config.Sound = false
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
	world, err := game.NewWorld(config, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	store := records.Open("keyfall")
	best := 0
	if record, ok := store.Best(); ok {
		best = record.Hits
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	started := time.Now()
	newTermGame(screen, world, best).run()
	screen.Fini()

	record := records.NewRecord(world.Session(), started, config.Matching)
	if err := store.Add(record); err != nil {
		log.Printf("[records] Warning: %v", err)
	}
	fmt.Println(record)
}
