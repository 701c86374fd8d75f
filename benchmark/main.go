// Package main provides a performance benchmarking tool for the deeptime CLI.
// It measures how long each command takes when events come from a file and
// when they come from a SQLite event store, treating the first successful store
// run as cold and averaging the rest as warm, and writes the results as CSV.
//
// Prerequisites:
// - deeptime binary installed and available in PATH
//
// Usage: go run benchmark/main.go [events-file]
//
//	events-file: Optional .yaml, .json or .csv events file (defaults to the built-in events)
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of one scenario (file average, cold store run and average of warm store runs).
type BenchmarkResult struct {
	Scenario  string
	Command   string
	FileTime  string
	ColdTime  string
	WarmTime  string
	EventsArg string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	EventsFile string
	StorePath  string
	Timeout    time.Duration
	FileRuns   int
	StoreRuns  int
	Scenarios  []Scenario
}

// Scenario is one deeptime invocation to time.
type Scenario struct {
	Name    string
	Command string
	Args    []string
}

func main() {
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [events-file]\n", os.Args[0])
		os.Exit(1)
	}
	var eventsFile string
	if len(os.Args) == 2 {
		eventsFile = os.Args[1]
	}

	workDir, err := os.MkdirTemp("", "deeptime-benchmark-")
	if err != nil {
		fmt.Printf("Failed to create work directory: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		EventsFile: eventsFile,
		StorePath:  filepath.Join(workDir, "events.db"),
		Timeout:    2 * time.Minute,
		FileRuns:   3,
		StoreRuns:  4,
		Scenarios: []Scenario{
			{Name: "render-narrow", Command: "render", Args: []string{"--width", "400", "--output", "json"}},
			{Name: "render-wide", Command: "render", Args: []string{"--width", "8000", "--output", "json"}},
			{Name: "render-recent", Command: "render", Args: []string{"--start", "10000 years ago", "--output", "csv"}},
			{Name: "ticks", Command: "ticks", Args: []string{"--max-ticks", "20", "--output", "csv"}},
			{Name: "pixels", Command: "pixel", Args: []string{"0", "300", "600", "900", "1200", "--output", "csv"}},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Seed the store using deeptime events import
	fmt.Printf("Importing events into %s...\n", config.StorePath)
	if output, err := runDeeptime(config, workDir, storeArgs(config, "events", "import", eventsFlag(config))...); err != nil {
		fmt.Printf("Failed to import events: %v\nOutput: %s\n", err, output)
		os.Exit(1)
	}
	fmt.Printf("Events imported successfully\n")

	results := runBenchmarks(config, workDir)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the deeptime binary and the events file exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("deeptime"); err != nil {
		return errors.New("deeptime binary not found in PATH")
	}
	if config.EventsFile != "" {
		if _, err := os.Stat(config.EventsFile); os.IsNotExist(err) {
			return fmt.Errorf("events file not found at %s", config.EventsFile)
		}
	}
	return nil
}

// eventsFlag returns the --events argument, or nothing for the built-in events.
func eventsFlag(config BenchmarkConfig) string {
	if config.EventsFile == "" {
		return ""
	}
	return "--events=" + config.EventsFile
}

// storeArgs appends the SQLite store flags to args.
func storeArgs(config BenchmarkConfig, args ...string) []string {
	out := append([]string{}, args...)
	return append(out, "--events-backend", "sqlite", "--events-db-connect", config.StorePath)
}

// runBenchmarks executes every scenario against both event sources
func runBenchmarks(config BenchmarkConfig, workDir string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d scenarios, %v timeout, file: %d runs, store: %d runs\n",
		len(config.Scenarios), config.Timeout, config.FileRuns, config.StoreRuns)

	for _, sc := range config.Scenarios {
		results = append(results, runBenchmarkSuite(config, workDir, sc))
	}
	return results
}

// runBenchmarkSuite runs both file and store benchmarks for a scenario
func runBenchmarkSuite(config BenchmarkConfig, workDir string, sc Scenario) BenchmarkResult {
	fmt.Printf("Running %s\n", sc.Name)

	base := append([]string{sc.Command}, sc.Args...)
	fileArgs := append(append([]string{}, base...), eventsFlag(config)) // empty flag is dropped by runDeeptime
	storeRunArgs := storeArgs(config, base...)

	// Phase 1: events file (or built-ins) with no store
	first, fileTimes := runBenchmark(config, workDir, sc.Command, fileArgs, config.FileRuns)
	if first > 0 {
		fileTimes = append([]float64{first}, fileTimes...)
	}
	fileAvg := average(fileTimes)

	// Phase 2: events read back from the store
	coldTime, warmTimes := runBenchmark(config, workDir, sc.Command, storeRunArgs, config.StoreRuns)
	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}
	warmAvg := average(warmTimes)

	fmt.Printf("  File average: %s, Cold time: %s, Warm average: %s\n", fileAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Scenario:  sc.Name,
		Command:   sc.Command,
		FileTime:  fileAvg,
		ColdTime:  coldTimeStr,
		WarmTime:  warmAvg,
		EventsArg: eventsFlag(config),
	}
}

// average formats the mean of times, or TIMEOUT when nothing succeeded.
func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// runBenchmark executes a deeptime command numRuns times and returns the cold time and warm times
func runBenchmark(config BenchmarkConfig, workDir, command string, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()
		output, err := runDeeptime(config, workDir, args...)
		if err == nil && isSuccess(output, command) {
			times = append(times, time.Since(start).Seconds())
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// runDeeptime runs the deeptime binary with a timeout and returns its combined output.
func runDeeptime(config BenchmarkConfig, workDir string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	var cleaned []string
	for _, a := range args {
		if a != "" {
			cleaned = append(cleaned, a)
		}
	}
	cmd := exec.CommandContext(ctx, "deeptime", cleaned...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "HOME="+workDir)
	return cmd.CombinedOutput()
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	switch command {
	case "render":
		return strings.Contains(outputStr, "🔎 Events:")
	case "ticks":
		return strings.Contains(outputStr, "position,label,date")
	case "pixel":
		return strings.Contains(outputStr, "pixel,time,relative")
	default:
		return len(outputStr) > 0
	}
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/deeptime_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"scenario", "cmd", "events", "file_avg", "store_cold", "store_warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		events := result.EventsArg
		if events == "" {
			events = "built-in"
		}
		if err := writer.Write([]string{result.Scenario, result.Command, events, result.FileTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-14s: File: %s, Cold: %s, Warm: %s\n", result.Scenario, result.FileTime, result.ColdTime, result.WarmTime)
	}
}
