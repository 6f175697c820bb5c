package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/taskpilot/internal/completion"
	"github.com/taskpilot/taskpilot/internal/task"
)

// fakeClient replays a canned reply and records the conversations it saw.
type fakeClient struct {
	reply         string
	conversations [][]completion.Message
}

func (f *fakeClient) Complete(_ context.Context, conversation []completion.Message) string {
	f.conversations = append(f.conversations, conversation)
	return f.reply
}

func TestAnalyze_ParsesProviderJSON(t *testing.T) {
	client := &fakeClient{
		reply: `{"priority":"high","deadline":"2024-01-05","subtasks":["Draft outline","Write body"]}`,
	}
	a := New(client)

	got := a.Analyze(context.Background(), "Finish report by Friday")

	assert.Equal(t, task.PriorityHigh, got.Priority)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2024-01-05", *got.Deadline)
	assert.Equal(t, []string{"Draft outline", "Write body"}, got.Subtasks)

	// The analyzer sends exactly one two-message conversation.
	require.Len(t, client.conversations, 1)
	conv := client.conversations[0]
	require.Len(t, conv, 2)
	assert.Equal(t, completion.RoleSystem, conv[0].Role)
	assert.Contains(t, conv[0].Content, "task analysis assistant")
	assert.Equal(t, completion.RoleUser, conv[1].Role)
	assert.Contains(t, conv[1].Content, "Finish report by Friday")
}

func TestAnalyze_DefaultsOnUnparsableOutput(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"prose instead of json", "Sure! This task looks important."},
		{"provider fallback string", completion.Fallback},
		{"truncated json", `{"priority":"high","dead`},
		{"empty reply", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(&fakeClient{reply: tt.reply})
			got := a.Analyze(context.Background(), "some task")
			assert.Equal(t, DefaultAnalysis(), got)
		})
	}
}

func TestAnalyze_NormalizesLooseOutput(t *testing.T) {
	a := New(&fakeClient{reply: `{"priority":"URGENT!!","deadline":"","subtasks":null}`})

	got := a.Analyze(context.Background(), "some task")

	assert.Equal(t, task.PriorityMedium, got.Priority)
	assert.Nil(t, got.Deadline)
	assert.NotNil(t, got.Subtasks)
	assert.Empty(t, got.Subtasks)
}

func TestDefaultAnalysis(t *testing.T) {
	got := DefaultAnalysis()
	assert.Equal(t, task.PriorityMedium, got.Priority)
	assert.Nil(t, got.Deadline)
	assert.Empty(t, got.Subtasks)
}
