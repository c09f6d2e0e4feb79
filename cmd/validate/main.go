// Command validate probes a running flood API for every slider level and
// reports whether each endpoint answers in the shape the viewer expects.
//
// Usage:
//
//	go run ./cmd/validate -base-url http://127.0.0.1:5001 -chat
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/flood-risk-viewer/internal/adapter/floodapi"
	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	"github.com/couchcryptid/flood-risk-viewer/internal/observability"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name     string
	errors   []string
	warnings int
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// api is the subset of the flood client the probes use.
type api interface {
	FloodData(ctx context.Context, level domain.FloodLevel) (domain.FloodData, error)
	MapHTML(ctx context.Context, level domain.FloodLevel) (domain.MapRenderResult, error)
	Statistics(ctx context.Context, level domain.FloodLevel) (domain.StatisticsResult, error)
	TileURL(ctx context.Context, level domain.FloodLevel) (domain.TileURLResult, error)
	Chat(ctx context.Context, message string) (string, error)
}

func main() {
	baseURL := flag.String("base-url", "http://127.0.0.1:5001", "flood API base URL")
	withChat := flag.Bool("chat", false, "also probe POST /chat")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := floodapi.NewClient(*baseURL, *timeout, observability.NewMetricsForTesting(), logger)

	fmt.Printf("=== Flood API Validation (%s) ===\n\n", *baseURL)
	if code := run(context.Background(), os.Stdout, client, *withChat); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, out io.Writer, client api, withChat bool) int {
	levels := domain.Levels()
	phases := []*phase{
		validateFloodData(ctx, client, levels),
		validateMaps(ctx, client, levels),
		validateStatistics(ctx, client, levels),
		validateTiles(ctx, client, levels),
	}
	if withChat {
		phases = append(phases, validateChat(ctx, client))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		if p.warnings > 0 {
			status += fmt.Sprintf(" (%d degraded)", p.warnings)
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintf(out, "\nLevels probed: %d (%s to %s m)\n", len(levels), levels[0], levels[len(levels)-1])

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Flood data ──

func validateFloodData(ctx context.Context, client api, levels []domain.FloodLevel) *phase {
	p := &phase{name: "Phase 1: Flood data (/api/flood-level)"}
	for _, level := range levels {
		data, err := client.FloodData(ctx, level)
		if err != nil {
			p.errorf("level %s: %v", level, err)
			continue
		}
		checkEcho(p, level, data.FloodLevel)
		if data.Status == domain.StatusWarning {
			p.warnings++
			continue
		}
		if len(data.MapData.Center) != 2 {
			p.errorf("level %s: map_data.center has %d coordinates, want 2", level, len(data.MapData.Center))
		}
	}
	return p
}

// ── Phase 2: Map render ──

func validateMaps(ctx context.Context, client api, levels []domain.FloodLevel) *phase {
	p := &phase{name: "Phase 2: Map render (/api/map)"}
	for _, level := range levels {
		res, err := client.MapHTML(ctx, level)
		if err != nil {
			p.errorf("level %s: %v", level, err)
			continue
		}
		switch {
		case res.Status == domain.StatusWarning:
			p.warnings++
		case !res.Renderable():
			p.errorf("level %s: status %q with empty map_url", level, res.Status)
		case !strings.Contains(res.MapURL, level.PathString()) && !strings.Contains(res.MapURL, level.String()):
			p.errorf("level %s: map_url %q does not mention the level", level, res.MapURL)
		}
	}
	return p
}

// ── Phase 3: Statistics ──

func validateStatistics(ctx context.Context, client api, levels []domain.FloodLevel) *phase {
	p := &phase{name: "Phase 3: Statistics (/api/statistics)"}
	var prevArea float64
	for i, level := range levels {
		res, err := client.Statistics(ctx, level)
		if err != nil {
			p.errorf("level %s: %v", level, err)
			continue
		}
		if res.Status == domain.StatusWarning {
			p.warnings++
		}
		s := res.Statistics
		for name, v := range map[string]float64{
			"affected_area_km2":       s.AffectedAreaKm2,
			"population_at_risk":      s.PopulationAtRisk,
			"infrastructure_affected": s.InfrastructureAffected,
		} {
			if v < 0 || math.IsNaN(v) {
				p.errorf("level %s: %s = %g", level, name, v)
			}
		}
		if i > 0 && s.AffectedAreaKm2 < prevArea {
			p.errorf("level %s: affected area %g shrank from %g at the lower level", level, s.AffectedAreaKm2, prevArea)
		}
		prevArea = s.AffectedAreaKm2
	}
	return p
}

// ── Phase 4: Tiles ──

func validateTiles(ctx context.Context, client api, levels []domain.FloodLevel) *phase {
	p := &phase{name: "Phase 4: Tile URL (/api/tile-url)"}
	for _, level := range levels {
		res, err := client.TileURL(ctx, level)
		if err != nil {
			p.errorf("level %s: %v", level, err)
			continue
		}
		if res.Status == domain.StatusWarning || res.TileURL == "" {
			p.warnings++
			continue
		}
		for _, placeholder := range []string{"{z}", "{x}", "{y}"} {
			if !strings.Contains(res.TileURL, placeholder) {
				p.errorf("level %s: tile_url %q missing %s", level, res.TileURL, placeholder)
			}
		}
	}
	return p
}

// ── Phase 5: Chat ──

func validateChat(ctx context.Context, client api) *phase {
	p := &phase{name: "Phase 5: Chat (/chat)"}
	reply, err := client.Chat(ctx, "hello")
	if err != nil {
		p.errorf("chat: %v", err)
		return p
	}
	if strings.TrimSpace(reply) == "" {
		p.errorf("chat: empty response")
	}
	return p
}

func checkEcho(p *phase, level domain.FloodLevel, echoed float64) {
	if math.Abs(float64(level)-echoed) > 1e-9 {
		p.errorf("level %s: response echoes flood_level %g", level, echoed)
	}
}
