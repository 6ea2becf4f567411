package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	seedIssues   = 20
	sliP95       = 300 * time.Millisecond
	sliSuccess   = 0.999
	setupTimeout = 5 * time.Second
)

var (
	baseURL      string
	targetRPS    int
	testDuration time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "loadgen <scenario>",
	Short: "Load test the issue tracker API with vegeta",
	Long: `Scenarios:
  health  GET /health
  issues  create and read issues
  bulk    concurrent bulk status transitions and label replacement over a shared set of issues
  all     everything above in one attack`,
	Args:         cobra.ExactArgs(1),
	ValidArgs:    []string{"health", "issues", "bulk", "all"},
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "API base URL")
	rootCmd.Flags().IntVar(&targetRPS, "rate", 5, "requests per second")
	rootCmd.Flags().DurationVar(&testDuration, "duration", 2*time.Minute, "attack duration")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	scenario := args[0]

	var targets []vegeta.Target
	switch scenario {
	case "health":
		targets = healthTargets()
	case "issues":
		targets = issueTargets()
	case "bulk":
		ids, err := seed()
		if err != nil {
			return err
		}
		targets = bulkTargets(ids)
	case "all":
		ids, err := seed()
		if err != nil {
			return err
		}
		targets = append(healthTargets(), issueTargets()...)
		targets = append(targets, bulkTargets(ids)...)
	default:
		return fmt.Errorf("unknown scenario %q", scenario)
	}

	metrics := runAttack(vegeta.NewStaticTargeter(targets...), scenario)
	printMetrics(metrics)
	return nil
}

func healthTargets() []vegeta.Target {
	return []vegeta.Target{{Method: http.MethodGet, URL: baseURL + "/health"}}
}

func issueTargets() []vegeta.Target {
	return []vegeta.Target{
		jsonTarget(http.MethodPost, "/issues", map[string]any{
			"title":    "Load test issue",
			"priority": "medium",
		}),
		{Method: http.MethodGet, URL: baseURL + "/labels"},
		{Method: http.MethodGet, URL: baseURL + "/reports/top-assignees?limit=10"},
		{Method: http.MethodGet, URL: baseURL + "/reports/average-latency"},
	}
}

// bulkTargets гоняет пакеты по пересекающимся наборам задач, чтобы нагрузить блокировки строк
func bulkTargets(ids []int64) []vegeta.Target {
	half := len(ids) / 2
	targets := []vegeta.Target{
		jsonTarget(http.MethodPost, "/issues/bulk-status", map[string]any{"issue_ids": ids, "status": "in_progress"}),
		jsonTarget(http.MethodPost, "/issues/bulk-status", map[string]any{"issue_ids": ids[:half+1], "status": "resolved"}),
		jsonTarget(http.MethodPost, "/issues/bulk-status", map[string]any{"issue_ids": ids[half:], "status": "open"}),
	}
	for _, id := range ids[:3] {
		targets = append(targets,
			jsonTarget(http.MethodPut, fmt.Sprintf("/issues/%d/labels", id), map[string]any{"labels": []string{"load", "bulk"}}),
			vegeta.Target{Method: http.MethodGet, URL: fmt.Sprintf("%s/issues/%d", baseURL, id)},
		)
	}
	return targets
}

func jsonTarget(method, path string, body any) vegeta.Target {
	data, _ := json.Marshal(body)
	return vegeta.Target{
		Method: method,
		URL:    baseURL + path,
		Body:   data,
		Header: http.Header{"Content-Type": []string{"application/json"}},
	}
}

// seed создаёт задачи, по которым потом идёт атака
func seed() ([]int64, error) {
	client := &http.Client{Timeout: setupTimeout}

	ids := make([]int64, 0, seedIssues)
	for i := 0; i < seedIssues; i++ {
		body, _ := json.Marshal(map[string]any{
			"title":    fmt.Sprintf("Seeded load issue %d", i),
			"priority": "low",
		})
		resp, err := client.Post(baseURL+"/issues", "application/json", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("seed issue: %w", err)
		}

		var created struct {
			Issue struct {
				Id int64 `json:"id"`
			} `json:"issue"`
		}
		err = json.NewDecoder(resp.Body).Decode(&created)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusCreated {
			return nil, fmt.Errorf("seed issue: status %d: %v", resp.StatusCode, err)
		}
		ids = append(ids, created.Issue.Id)
	}
	return ids, nil
}

func runAttack(targeter vegeta.Targeter, name string) vegeta.Metrics {
	rate := vegeta.Rate{Freq: targetRPS, Per: time.Second}
	attacker := vegeta.NewAttacker()

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, rate, testDuration, name) {
		metrics.Add(res)
	}
	metrics.Close()

	return metrics
}

func printMetrics(metrics vegeta.Metrics) {
	fmt.Printf("\n=== Load Test Results ===\n\n")
	fmt.Printf("Requests Total:     %d\n", metrics.Requests)
	fmt.Printf("Success Rate:       %.2f%%\n", metrics.Success*100)
	fmt.Printf("Duration:           %v\n", metrics.Duration)

	if metrics.Requests == 0 {
		return
	}

	fmt.Printf("\nLatency:\n")
	fmt.Printf("  Mean:             %v\n", metrics.Latencies.Mean)
	fmt.Printf("  P50:              %v\n", metrics.Latencies.P50)
	fmt.Printf("  P95:              %v\n", metrics.Latencies.P95)
	fmt.Printf("  P99:              %v\n", metrics.Latencies.P99)
	fmt.Printf("  Max:              %v\n", metrics.Latencies.Max)

	fmt.Printf("\nThroughput:\n")
	fmt.Printf("  Requests/sec:     %.2f\n", metrics.Rate)

	// 400 и 409 ожидаемы: пакеты конкурируют за одни и те же задачи
	fmt.Printf("\nStatus Codes:\n")
	codes := make([]string, 0, len(metrics.StatusCodes))
	for code := range metrics.StatusCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Printf("  %s: %d\n", code, metrics.StatusCodes[code])
	}

	fmt.Printf("\nErrors:\n")
	if len(metrics.Errors) == 0 {
		fmt.Printf("  None\n")
	}
	for _, err := range metrics.Errors {
		fmt.Printf("  %s\n", err)
	}

	fmt.Printf("\nSLI Compliance:\n")
	fmt.Printf("  P95 Latency:      %v (target: < %v) - %s\n",
		metrics.Latencies.P95, sliP95, checkStatus(metrics.Latencies.P95 < sliP95))
	fmt.Printf("  Success Rate:     %.2f%% (target: >= %.1f%%) - %s\n",
		metrics.Success*100, sliSuccess*100, checkStatus(metrics.Success >= sliSuccess))
	fmt.Printf("\n")
}

func checkStatus(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
