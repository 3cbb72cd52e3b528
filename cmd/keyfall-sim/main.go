// Command keyfall-sim runs keyfall headless against a scripted typist and
// prints a markdown report of the session and the ECS frame costs.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/keyfall/game"
)

const tps = 60

type simOptions struct {
	Duration time.Duration
	Seed     uint64
	Reaction time.Duration
	Accuracy float64
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; empty means defaults")
	duration := flag.Duration("duration", 5*time.Minute, "simulated time to play for")
	seed := flag.Uint64("seed", 1, "random seed for the world and the typist")
	reaction := flag.Duration("reaction", 350*time.Millisecond, "typist reaction time and key interval")
	accuracy := flag.Float64("accuracy", 0.9, "probability the typist presses the right letter")
	match := flag.String("match", "", "override the matching mode (strict or scan)")
	flag.Parse()

	config, err := game.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("[keyfall] %v", err)
	}
	if *match != "" {
		config.Matching = game.MatchMode(*match)
	}

	log.Printf("Simulating %s of play...", *duration)
	report, err := simulate(config, simOptions{
		Duration: *duration,
		Seed:     *seed,
		Reaction: *reaction,
		Accuracy: *accuracy,
	})
	if err != nil {
		log.Fatalf("[keyfall] %v", err)
	}
	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// simulate steps a world at a fixed tick rate until opts.Duration of game
// time has passed, feeding it the typist's keys before every frame.
func simulate(config game.Config, opts simOptions) (*Report, error) {
	config.Sound = false
	world, err := game.NewWorld(config, game.WithSeed(opts.Seed))
	if err != nil {
		return nil, err
	}
	typist := NewTypist(rand.New(rand.NewPCG(opts.Seed, opts.Seed+1)), opts.Reaction, opts.Accuracy, config)

	report := &Report{
		Duration: opts.Duration,
		Seed:     opts.Seed,
		Matching: config.Matching,
		Reaction: opts.Reaction,
		Accuracy: opts.Accuracy,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	dt := time.Second / tps
	frames := int64(opts.Duration / dt)
	report.UpdateTime.Samples = make([]time.Duration, 0, frames)

	start := time.Now()
	var now time.Duration
	for range frames {
		world.Press(typist.Keys(now, world.Targets())...)

		updateStart := time.Now()
		world.Step(dt)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		now += dt
	}
	report.WallTime = time.Since(start)
	report.Frames = frames
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Session = world.Session()
	report.Live = len(world.Targets())
	report.Scheduler = world.Scheduler.GetStats()
	report.Storage = world.Storage.CollectStats()
	return report, nil
}
