package domain

// Statistics summarizes a task collection.
type Statistics struct {
	Total          int     `json:"total" yaml:"total"`
	Completed      int     `json:"completed" yaml:"completed"`
	Pending        int     `json:"pending" yaml:"pending"`
	CompletionRate float64 `json:"completion_rate" yaml:"completion_rate"` // Percentage, 0 when Total is 0
}

// ComputeStatistics counts tasks by state.
func ComputeStatistics(tasks []*Task) Statistics {
	var s Statistics
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total) * 100
	}
	return s
}
