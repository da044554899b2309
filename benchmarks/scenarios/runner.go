// ABOUTME: Runs benchmark scenarios against the search engine and roadblock assembler
// ABOUTME: Counts oracle queries, times each phase and checks expectations

package scenarios

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/harper/roadblock/internal/core"
	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/models"
	"github.com/harper/roadblock/internal/roadblock"
	"github.com/harper/roadblock/internal/storage"
	"github.com/harper/roadblock/internal/world"
)

// Result is the outcome of one scenario
type Result struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Iterations     int      `json:"iterations"`
	OracleQueries  int64    `json:"oracle_queries"`
	TraversalNanos int64    `json:"traversal_ns"`
	PlacementNanos int64    `json:"placement_ns,omitempty"`
	PathNodes      int      `json:"path_nodes"`
	Distance       float64  `json:"distance"`
	FailedAttempts int      `json:"failed_attempts"`
	Aborted        bool     `json:"aborted"`
	Slots          int      `json:"slots,omitempty"`
	Shifts         int      `json:"shifts,omitempty"`
	Entities       int      `json:"entities,omitempty"`
	Status         string   `json:"status"` // "PASS" or "FAIL"
	Failures       []string `json:"failures,omitempty"`
}

// Passed reports whether every expectation held
func (r Result) Passed() bool {
	return r.Status == "PASS"
}

// Runner executes scenarios
type Runner struct {
	iterations int
	seed       uint64
	logger     *log.Logger
}

// NewRunner creates a runner timing each walk over iterations runs
func NewRunner(iterations int, seed uint64, logger *log.Logger) *Runner {
	if iterations < 1 {
		iterations = 1
	}
	return &Runner{
		iterations: iterations,
		seed:       seed,
		logger:     logging.Component(logger, "bench"),
	}
}

// Run executes a single scenario. The oracle query count covers one walk.
func (r *Runner) Run(s Scenario) (Result, error) {
	mem, err := storage.NewMemoryOracleFromNetwork(s.Network)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %s: %w", s.ID, err)
	}

	var queries atomic.Int64
	oracle := core.OracleFunc(func(p models.Vector3, t models.NodeType) models.NodeInfo {
		queries.Add(1)
		return mem.FindNearestNode(p, t)
	})
	engine := core.NewEngine(oracle, core.DefaultEngineOptions(), r.logger)

	result := Result{ID: s.ID, Name: s.Name, Iterations: r.iterations}

	var path models.PathResult
	started := time.Now()
	for i := 0; i < r.iterations; i++ {
		if i == 1 {
			result.OracleQueries = queries.Load()
		}
		path = engine.Traverse(s.Walk)
	}
	result.TraversalNanos = time.Since(started).Nanoseconds() / int64(r.iterations)
	if r.iterations == 1 {
		result.OracleQueries = queries.Load()
	}

	result.PathNodes = path.Len()
	result.Distance = path.Distance
	result.FailedAttempts = path.FailedAttempts
	result.Aborted = path.Aborted

	placed := false
	if s.Tier != nil {
		placed, err = r.place(engine, s, &result)
		if err != nil {
			result.Failures = append(result.Failures, err.Error())
		}
	}

	result.Failures = append(result.Failures, check(s, path, placed, result)...)
	result.Status = "PASS"
	if len(result.Failures) > 0 {
		result.Status = "FAIL"
	}

	r.logger.Info("scenario finished",
		"id", s.ID,
		"status", result.Status,
		"queries", result.OracleQueries,
		"nodes", result.PathNodes)
	return result, nil
}

// place assembles, spawns and disposes a roadblock for the scenario tier
func (r *Runner) place(engine *core.Engine, s Scenario, result *Result) (bool, error) {
	w := world.New(r.logger)
	assembler := roadblock.NewAssembler(engine, w, roadblock.AssemblerOptions{
		Rand: rand.New(rand.NewPCG(r.seed, r.seed)),
	}, r.logger)

	started := time.Now()
	rb, err := assembler.Assemble(roadblock.Request{
		Position:  s.Walk.Start,
		Heading:   s.Walk.Heading,
		Distance:  s.Walk.Distance,
		Tier:      *s.Tier,
		NodeType:  s.Walk.NodeType,
		Blacklist: s.Walk.Blacklist,
	})
	if err != nil {
		return false, err
	}
	spawned := rb.Spawn()
	result.PlacementNanos = time.Since(started).Nanoseconds()

	for _, slot := range rb.Slots() {
		result.Slots++
		if slot.Shift > 0 {
			result.Shifts++
		}
	}
	result.Entities = w.Stats().Live
	rb.Dispose()

	if leaked := w.Stats().Live; leaked > 0 {
		return spawned, fmt.Errorf("%d entities left after dispose", leaked)
	}
	return spawned, nil
}

func check(s Scenario, path models.PathResult, placed bool, result Result) []string {
	var failures []string
	e := s.Expect

	if result.PathNodes < e.MinNodes {
		failures = append(failures, fmt.Sprintf("path has %d nodes, want at least %d", result.PathNodes, e.MinNodes))
	}
	if result.Aborted != e.Aborted {
		failures = append(failures, fmt.Sprintf("aborted = %v, want %v", result.Aborted, e.Aborted))
	}
	if result.FailedAttempts < e.MinFailedAttempts {
		failures = append(failures, fmt.Sprintf("failed attempts = %d, want at least %d", result.FailedAttempts, e.MinFailedAttempts))
	}
	if last, ok := path.Last(); ok && last.IsJunction() && !s.Walk.StopAtFirstJunction {
		failures = append(failures, "path ends on a junction")
	}
	if e.CrossesJunction && !crossesJunction(path) {
		failures = append(failures, "path never crossed a junction")
	}
	if e.Placed != placed {
		failures = append(failures, fmt.Sprintf("placed = %v, want %v", placed, e.Placed))
	}
	if result.Shifts < e.MinShifts {
		failures = append(failures, fmt.Sprintf("shifted %d slots, want at least %d", result.Shifts, e.MinShifts))
	}
	return failures
}

func crossesJunction(path models.PathResult) bool {
	for _, n := range path.Nodes {
		if n.IsJunction() {
			return true
		}
	}
	return false
}

// RunAll executes scenarios concurrently, at most parallel at a time, and
// returns results in input order
func (r *Runner) RunAll(ctx context.Context, all []Scenario, parallel int) ([]Result, error) {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]Result, len(all))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, s := range all {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			result, err := r.Run(s)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ExportResults writes results and a pass/fail summary as JSON
func ExportResults(results []Result, outputPath string) error {
	passed := 0
	for _, result := range results {
		if result.Passed() {
			passed++
		}
	}

	summary := map[string]interface{}{
		"timestamp":   time.Now().Format(time.RFC3339),
		"total_tests": len(results),
		"passed":      passed,
		"failed":      len(results) - passed,
		"results":     results,
	}

	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
