package analyzer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/taskpilot/taskpilot/internal/completion"
	"github.com/taskpilot/taskpilot/internal/task"
)

const systemPrompt = "You are a task analysis assistant. Extract task information " +
	"and return it in JSON format with the following structure: " +
	`{"priority": "high/medium/low", "deadline": "YYYY-MM-DD or null", ` +
	`"subtasks": ["subtask1", "subtask2", ...]}`

// Analysis holds the structured attributes extracted from a task description.
type Analysis struct {
	Priority task.Priority `json:"priority"`
	Deadline *string       `json:"deadline"`
	Subtasks []string      `json:"subtasks"`
}

// DefaultAnalysis is what Analyze degrades to when the provider's output is
// not the expected JSON shape.
func DefaultAnalysis() Analysis {
	return Analysis{
		Priority: task.PriorityMedium,
		Deadline: nil,
		Subtasks: []string{},
	}
}

// Analyzer turns free-form task text into structured attributes via the
// completion provider. It is the error-containment boundary for everything
// downstream of the provider call: Analyze never fails.
type Analyzer struct {
	client completion.Client
}

func New(client completion.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze asks the provider to extract priority, deadline, and subtasks from
// the description. Output that does not parse as the expected JSON shape,
// including the provider's own fallback error text, yields DefaultAnalysis.
// Priority is normalized; deadline passes through unvalidated.
func (a *Analyzer) Analyze(ctx context.Context, description string) Analysis {
	reply := a.client.Complete(ctx, []completion.Message{
		completion.System(systemPrompt),
		completion.User("Analyze this task: " + description),
	})

	var analysis Analysis
	if err := json.Unmarshal([]byte(reply), &analysis); err != nil {
		slog.DebugContext(ctx, "task analysis output not parsable, using defaults", "error", err)
		return DefaultAnalysis()
	}

	analysis.Priority = task.NormalizePriority(string(analysis.Priority))
	if analysis.Deadline != nil && *analysis.Deadline == "" {
		analysis.Deadline = nil
	}
	if analysis.Subtasks == nil {
		analysis.Subtasks = []string{}
	}
	return analysis
}
