// Package execution models the run history of scripts.
package execution

import (
	"context"
	"time"
)

// Execution is one recorded script run.
type Execution struct {
	ID          int64             `json:"id"`
	Time        int64             `json:"time"` // milliseconds
	Success     bool              `json:"success"`
	Error       string            `json:"error,omitempty"`
	Date        time.Time         `json:"date"`
	ExtraParams map[string]string `json:"extraParams,omitempty"`
}

// Duration returns the run time.
func (e Execution) Duration() time.Duration {
	return time.Duration(e.Time) * time.Millisecond
}

// Client reads execution history. Registry scripts are keyed by id; inline
// scripts (listeners, scheduled tasks, REST scripts) by their uuid.
type Client interface {
	GetRegistryExecutions(ctx context.Context, scriptID int64) ([]Execution, error)
	GetInlineExecutions(ctx context.Context, uuid string) ([]Execution, error)
}

// Summary counts runs and failures.
type Summary struct {
	Runs     int `json:"runs"`
	Failures int `json:"failures"`
}

// Summarize counts the runs and failures in executions.
func Summarize(executions []Execution) Summary {
	s := Summary{Runs: len(executions)}
	for _, e := range executions {
		if !e.Success {
			s.Failures++
		}
	}
	return s
}
