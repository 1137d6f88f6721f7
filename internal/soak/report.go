package soak

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/evade/ecs"
	"github.com/plus3/evade/internal/game"
)

type Report struct {
	// Configuration
	Seed      uint64
	Enemies   int
	Window    game.Window
	DeltaTime float64
	Frames    int64
	Duration  time.Duration

	// Results
	WallTime      time.Duration
	Tally         game.Tally
	CuesDrained   int
	Violations    int
	Samples       []string
	Systems       []ecs.SystemStats
	StorageStats  ecs.StorageStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

// OK reports whether the run saw no invariant violations.
func (r *Report) OK() bool {
	return r.Violations == 0
}

const reportTemplate = `
# Soak Report

## Configuration
- **Seed:** {{.Seed}}
- **Enemies:** {{.Enemies}}
- **Window:** {{.Window.Width}}x{{.Window.Height}}
- **Delta Time:** {{printf "%.4f" .DeltaTime}}s
{{- if .Frames}}
- **Frame Limit:** {{.Frames}}
{{- else}}
- **Duration:** {{.Duration}}
{{- end}}

## Results
- **Frames:** {{.Tally.Frames}}
- **Game Time:** {{printf "%.2f" .Tally.Elapsed}}s
- **Wall Time:** {{.WallTime}}
- **Cues:** {{.Tally.Cues}} ({{.Tally.Bounces}} bounces, {{.Tally.Proximity}} near misses, {{.CuesDrained}} drained)
- **Entities:** {{.StorageStats.TotalEntityCount}} in {{.StorageStats.ArchetypeCount}} archetypes

## Invariants
{{- if .OK}}
- all frames passed
{{- else}}
- **Violations:** {{.Violations}}
{{- range .Samples}}
  - {{.}}
{{- end}}
{{- end}}

## Systems
{{- range .Systems}}
- {{.Name}}: avg {{.AvgDuration}}, max {{.MaxDuration}}, runs {{.ExecutionCount}}
{{- end}}

## Memory (Raw Bytes)
- Heap Alloc:  {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc: {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:      {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

var reportFuncs = template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate))

func (r *Report) Generate(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}
