package execution_test

import (
	"testing"
	"time"

	"github.com/rpggio/scriptdesk/internal/domain/execution"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	runs := []execution.Execution{
		{ID: 1, Success: true},
		{ID: 2, Success: false, Error: "NullPointerException"},
		{ID: 3, Success: true},
	}
	require.Equal(t, execution.Summary{Runs: 3, Failures: 1}, execution.Summarize(runs))
	require.Equal(t, execution.Summary{}, execution.Summarize(nil))
}

func TestExecution_Duration(t *testing.T) {
	require.Equal(t, 1500*time.Millisecond, execution.Execution{Time: 1500}.Duration())
}
