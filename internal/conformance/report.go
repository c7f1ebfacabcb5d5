package conformance

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/conformance/framework"
)

const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Report is the outcome of a conformance run, grouped by binding and suite
type Report struct {
	Timestamp    time.Time        `json:"timestamp"`
	PublicURL    string           `json:"publicURL"`
	PrivateURL   string           `json:"privateURL"`
	GrpcTarget   string           `json:"grpcTarget"`
	Categories   []CategoryResult `json:"categories"`
	TotalPassed  int              `json:"totalPassed"`
	TotalFailed  int              `json:"totalFailed"`
	TotalSkipped int              `json:"totalSkipped"`
}

type CategoryResult struct {
	Name    string       `json:"name"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	Tests   []TestResult `json:"tests"`
}

type TestResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// scenario ids are binding/suite/group; only groups are reported
const reportedDepth = 3

func NewReport(cfg Config, results framework.Results, timestamp time.Time) Report {
	report := Report{
		Timestamp:  timestamp,
		PublicURL:  cfg.PublicURL,
		PrivateURL: cfg.PrivateURL,
		GrpcTarget: cfg.GrpcTarget,
	}

	failed := make(map[string]bool, len(results.Failures))
	for _, f := range results.Failures {
		failed[f.TestID.String()] = true
	}

	index := map[string]int{}

	for _, r := range results.Tests {
		if len(r.TestID.Path) != reportedDepth {
			continue
		}

		category := strings.Join(r.TestID.Path[:reportedDepth-1], "/")
		i, found := index[category]
		if !found {
			report.Categories = append(report.Categories, CategoryResult{Name: category})
			i = len(report.Categories) - 1
			index[category] = i
		}
		cat := &report.Categories[i]

		test := TestResult{Name: r.TestID.Path[reportedDepth-1]}
		switch {
		case r.Skipped:
			test.Status = StatusSkipped
			test.Message = r.SkipReason
			cat.Skipped++
		case failed[r.TestID.String()]:
			test.Status = StatusFailed
			test.Message = joinErrors(r.Errors)
			cat.Failed++
		default:
			test.Status = StatusPassed
			cat.Passed++
		}
		cat.Tests = append(cat.Tests, test)
	}

	for _, cat := range report.Categories {
		report.TotalPassed += cat.Passed
		report.TotalFailed += cat.Failed
		report.TotalSkipped += cat.Skipped
	}

	return report
}

func joinErrors(errs []error) string {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, strings.Join(strings.Fields(err.Error()), " "))
	}
	return strings.Join(messages, "; ")
}

func (r *Report) OK() bool {
	return r.TotalFailed == 0
}

func (r *Report) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *Report) Summary() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Conformance Report -- %s\n", r.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Public: %s  Private: %s  gRPC: %s\n", r.PublicURL, r.PrivateURL, r.GrpcTarget))
	sb.WriteString(fmt.Sprintf("Total: %d passed, %d failed, %d skipped\n\n",
		r.TotalPassed, r.TotalFailed, r.TotalSkipped))

	for _, cat := range r.Categories {
		sb.WriteString(fmt.Sprintf("  [%s] %d passed, %d failed, %d skipped\n",
			cat.Name, cat.Passed, cat.Failed, cat.Skipped))
		for _, test := range cat.Tests {
			icon := "PASS"
			if test.Status == StatusFailed {
				icon = "FAIL"
			} else if test.Status == StatusSkipped {
				icon = "SKIP"
			}
			sb.WriteString(fmt.Sprintf("    [%s] %s", icon, test.Name))
			if test.Message != "" {
				sb.WriteString(fmt.Sprintf(" -- %s", test.Message))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
