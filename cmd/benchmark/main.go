// ABOUTME: Command-line runner for the road search and placement scenarios
// ABOUTME: Executes scenario benchmarks and outputs JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"

	"github.com/harper/roadblock/benchmarks/scenarios"
	"github.com/harper/roadblock/internal/logging"
)

func main() {
	scenarioID := flag.String("scenario", "", "Run one scenario (straight, junction, sparse, dead_end, clipping). If empty, runs all.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	iterations := flag.Int("iterations", 100, "Walks timed per scenario")
	seed := flag.Uint64("seed", 1, "Seed for vehicle assignment")
	parallel := flag.Int("parallel", runtime.NumCPU(), "Scenarios run at once")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	_ = godotenv.Load()

	level := "warn"
	if *verbose {
		level = "info"
	}
	logger := logging.New(os.Stderr, level)

	fmt.Println("========================================")
	fmt.Println("Roadblock Scenario Benchmarks")
	fmt.Println("========================================")

	all := scenarios.All()
	if *scenarioID != "" {
		s, ok := scenarios.ByID(*scenarioID)
		if !ok {
			logger.Fatal("unknown scenario", "id", *scenarioID)
		}
		all = []scenarios.Scenario{s}
	}

	runner := scenarios.NewRunner(*iterations, *seed, logger)
	results, err := runner.RunAll(context.Background(), all, *parallel)
	if err != nil {
		logger.Fatal("benchmark failed", "error", err)
	}

	passed := 0
	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.ID, result.Name)
		fmt.Printf("  Oracle queries: %d\n", result.OracleQueries)
		fmt.Printf("  Traversal:      %.1fµs\n", float64(result.TraversalNanos)/1000)
		fmt.Printf("  Path:           %d nodes, %.1f units, %d failed\n", result.PathNodes, result.Distance, result.FailedAttempts)
		if result.Slots > 0 {
			fmt.Printf("  Placement:      %d slots, %d shifted, %.1fµs\n", result.Slots, result.Shifts, float64(result.PlacementNanos)/1000)
		}
		fmt.Printf("  Status:         %s\n", result.Status)
		for _, f := range result.Failures {
			fmt.Printf("    - %s\n", f)
		}
		if result.Passed() {
			passed++
		}
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total: %d  Passed: %d  Failed: %d\n", len(results), passed, len(results)-passed)
	fmt.Println("========================================")

	if err := scenarios.ExportResults(results, *outputPath); err != nil {
		logger.Fatal("failed to export results", "error", err)
	}
	fmt.Printf("Results exported to: %s\n", *outputPath)

	if passed < len(results) {
		os.Exit(1)
	}
}
