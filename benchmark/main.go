// Package main provides a performance benchmarking tool for the mri CLI.
// It generates assessments with a growing number of roles, times the score
// and assess commands on each, treats the first successful run as cold and
// averages the rest as warm, then writes CSV output for documentation.
//
// Prerequisites:
// - mri binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated assessments and the benchmark database
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Roles    int
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir   string
	Timeout   time.Duration
	Runs      int
	RoleSizes []int
}

// assessmentRole and assessmentFile mirror the assessment file layout.
type assessmentRole struct {
	Role   string         `yaml:"role"`
	Scores map[string]int `yaml:"scores"`
}

type assessmentFile struct {
	AssessmentID string           `yaml:"assessment_id"`
	Organization string           `yaml:"organization"`
	Site         string           `yaml:"site"`
	Date         string           `yaml:"date"`
	Roles        []assessmentRole `yaml:"roles"`
}

var driverKeys = []string{"sitting", "movement", "upper_limb", "neck", "work_org", "workstation"}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:   os.Args[1],
		Timeout:   2 * time.Minute,
		Runs:      5,
		RoleSizes: []int{10, 100, 1000, 10000},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the mri binary exists and the work dir is writable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("mri"); err != nil {
		return fmt.Errorf("mri binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateAssessment writes an assessment with the given number of roles and returns its path.
func generateAssessment(dir string, roles, run int) (string, error) {
	file := assessmentFile{
		AssessmentID: fmt.Sprintf("bench-%d-%d", roles, run),
		Organization: "bench",
		Site:         fmt.Sprintf("site-%d", roles),
		Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, run).Format("2006-01-02"),
	}
	for i := range roles {
		scores := make(map[string]int, len(driverKeys))
		for j, key := range driverKeys {
			scores[key] = (i + j + run) % 5
		}
		file.Roles = append(file.Roles, assessmentRole{Role: fmt.Sprintf("role-%05d", i), Scores: scores})
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, file.AssessmentID+".yaml")
	return path, os.WriteFile(path, data, 0o600)
}

// runBenchmarks executes all benchmark tests across configured sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, %d runs\n", len(config.RoleSizes), config.Timeout, config.Runs)

	dbPath := filepath.Join(config.WorkDir, "bench.db")
	_ = os.Remove(dbPath)

	for _, roles := range config.RoleSizes {
		fmt.Printf("Benchmarking %d roles\n", roles)
		results = append(results,
			runBenchmarkSuite(config, roles, "score", "--store-backend", "none"),
			runBenchmarkSuite(config, roles, "assess", "--store-backend", "sqlite", "--store-db-connect", dbPath),
		)
	}

	return results
}

// runBenchmarkSuite times one command for one assessment size
func runBenchmarkSuite(config BenchmarkConfig, roles int, command string, extraArgs ...string) BenchmarkResult {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		path, err := generateAssessment(config.WorkDir, roles, run)
		if err != nil {
			fmt.Printf("  Warning: cannot generate assessment: %v\n", err)
			continue
		}
		if elapsed, ok := runOnce(config, append([]string{command, path}, extraArgs...)); ok {
			times = append(times, elapsed)
		}
	}

	result := BenchmarkResult{Roles: roles, Command: command, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}

	fmt.Printf("  %s: Cold time: %s, Warm average: %s\n", command, result.ColdTime, result.WarmTime)
	return result
}

// runOnce executes the mri command and returns its wall time when it succeeds in time
func runOnce(config BenchmarkConfig, args []string) (float64, bool) {
	start := time.Now()
	cmd := exec.Command("mri", args...)

	done := make(chan bool)
	var output []byte
	var cmdErr error

	go func() {
		output, cmdErr = cmd.CombinedOutput()
		done <- true
	}()

	select {
	case <-done:
		if cmdErr == nil && isSuccess(output) {
			return time.Since(start).Seconds(), true
		}
		fmt.Printf("  Warning: %s failed: %v\n", strings.Join(args, " "), cmdErr)
		return 0, false
	case <-time.After(config.Timeout):
		_ = cmd.Process.Kill()
		return 0, false
	}
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Scored") && strings.Contains(outputStr, "roles in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/mri_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"roles", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{fmt.Sprint(result.Roles), result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"score", "assess"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %6d roles: Cold: %s, Warm: %s\n", result.Roles, result.ColdTime, result.WarmTime)
			}
		}
	}
}
