package constants

import "strings"

// Workload scale constants (man-day equivalents per subtask size)
const (
	ScaleSmall  = "S"
	ScaleMedium = "M"
	ScaleLarge  = "L"
)

// WorkloadFromScale maps a subtask size scale to its workload constant.
// Unknown or empty scales carry no workload.
func WorkloadFromScale(scale string) float64 {
	switch strings.ToUpper(strings.TrimSpace(scale)) {
	case ScaleSmall:
		return 2
	case ScaleMedium:
		return 5
	case ScaleLarge:
		return 8
	default:
		return 0
	}
}
