package summary

import (
	"fmt"
	"os"
)

// promptHeader is the analysis instruction block prepended to the report.
const promptHeader = `Please analyze these practice logs and provide:

1) SUMMARY: key statistics and overview
2) PATTERNS: trends over time; success/failure patterns; frequency/consistency; skill progressions; correlations
3) INSIGHTS & RECOMMENDATIONS: what's working; improvement areas; suggested focus; anomalies
4) ACTIONABLE TAKEAWAYS: concrete next steps

Aggregated data follows:
`

// WritePromptFile writes an analysis prompt file: the fixed instruction
// header followed by the raw contents of an already-written report.
func WritePromptFile(reportPath, promptPath string) error {
	report, err := os.ReadFile(reportPath)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}

	out := make([]byte, 0, len(promptHeader)+len(report))
	out = append(out, promptHeader...)
	out = append(out, report...)

	if err := os.WriteFile(promptPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write prompt file: %w", err)
	}
	return nil
}
