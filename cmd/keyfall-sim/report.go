package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/plus3/keyfall/ecs"
	"github.com/plus3/keyfall/game"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Seed     uint64
	Matching game.MatchMode
	Reaction time.Duration
	Accuracy float64

	// Results
	Frames     int64
	WallTime   time.Duration
	UpdateTime Stats
	Session    game.Session
	Live       int
	Scheduler  *ecs.SchedulerStats
	Storage    ecs.StorageStats

	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Keyfall Soak Report

## Run Configuration
- **Simulated Time:** {{.Duration}}
- **Seed:** {{.Seed}}
- **Matching:** {{.Matching}}
- **Typist:** {{.Reaction}} reaction, {{pct .Accuracy}} accuracy

## Session
- **Spawned:** {{.Session.Spawned}}
- **Hits:** {{.Session.Hits}}
- **Misses:** {{.Session.Misses}}
- **Expired:** {{.Session.Expired}}
- **Live At End:** {{.Live}}
- **Accuracy:** {{pct .Session.Accuracy}}

## Performance Results
- **Frames:** {{.Frames}}
- **Wall Time:** {{.WallTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
| System | Runs | Avg | Max |
|---|---|---|---|
{{- range .Scheduler.Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}

## Archetypes
| Components | Entities |
|---|---|
{{- range .Storage.ArchetypeBreakdown}}
| {{join .ComponentTypes}} | {{.EntityCount}} |
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

var reportFuncs = template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
	"join": func(names []string) string {
		return strings.Join(names, ", ")
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate))

func (r *Report) Generate(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}
