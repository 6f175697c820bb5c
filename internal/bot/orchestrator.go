package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/taskpilot/taskpilot/internal/analyzer"
	"github.com/taskpilot/taskpilot/internal/completion"
	"github.com/taskpilot/taskpilot/internal/task"
)

const welcomeReply = "👋 Hello! I'm your AI Productivity Assistant.\n\n" +
	"I can help you with:\n" +
	"• Task management\n" +
	"• Breaking down complex tasks\n" +
	"• Setting reminders\n" +
	"• Prioritizing work\n\n" +
	"Use /help to see all available commands!"

const helpReply = "Available commands:\n\n" +
	"/start - Start the bot\n" +
	"/help - Show this help message\n" +
	"/add <task> - Add a new task\n" +
	"/list - Show all your tasks\n" +
	"/priority - Get AI task prioritization\n" +
	"/complete <number> - Mark a task as complete\n" +
	"/summary - Get progress summary\n\n" +
	"You can also just chat with me about:\n" +
	"• Task management\n" +
	"• Productivity advice\n" +
	"• Time management\n" +
	"• Breaking down projects"

const (
	addUsageReply       = "Please provide a task description: /add your task here"
	completeUsageReply  = "Please specify a valid task number: /complete <task_number>"
	noTasksReply        = "No tasks found. Add tasks using /add command."
	nothingToPrioritize = "No tasks to prioritize."
	nothingToSummarize  = "No tasks to summarize."
)

const (
	prioritizePrompt = "You are a task prioritization assistant. Analyze tasks and " +
		"suggest priority order based on deadlines, importance, and dependencies."
	summaryPrompt = "You are a productivity assistant. Provide a summary of tasks and progress."
	chatPrompt    = "You are a productivity assistant. Help the user with their tasks and productivity."
)

var priorityEmojis = map[task.Priority]string{
	task.PriorityHigh:   "🔴",
	task.PriorityMedium: "🟡",
	task.PriorityLow:    "🟢",
}

var statusEmojis = map[task.Status]string{
	task.StatusCompleted:  "✅",
	task.StatusInProgress: "🔄",
	task.StatusPending:    "⏳",
}

// Orchestrator implements the bot's operations: each one reads or writes the
// task store, optionally consults the completion provider, and returns the
// plain-text reply for the transport to deliver. Operations never fail;
// every error path ends in a user-visible message.
type Orchestrator struct {
	store    task.Store
	analyzer *analyzer.Analyzer
	client   completion.Client
}

func NewOrchestrator(store task.Store, a *analyzer.Analyzer, client completion.Client) *Orchestrator {
	return &Orchestrator{
		store:    store,
		analyzer: a,
		client:   client,
	}
}

func (o *Orchestrator) Start() string {
	return welcomeReply
}

func (o *Orchestrator) Help() string {
	return helpReply
}

// Add analyzes the description, stores the resulting task, and echoes the
// analyzer's findings. An empty description returns the usage hint without
// touching the store.
func (o *Orchestrator) Add(ctx context.Context, userID int64, description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return addUsageReply
	}

	analysis := o.analyzer.Analyze(ctx, description)

	t, err := task.New(description, analysis.Priority, analysis.Deadline)
	if err != nil {
		return addUsageReply
	}
	o.store.Add(userID, t)

	lines := []string{
		"✅ Task added: " + description,
		"Priority: " + string(t.Priority),
	}
	if t.Deadline != nil {
		lines = append(lines, "Deadline: "+*t.Deadline)
	}
	if len(analysis.Subtasks) > 0 {
		lines = append(lines, "\nSuggested subtasks:")
		for _, subtask := range analysis.Subtasks {
			lines = append(lines, "• "+subtask)
		}
	}
	return strings.Join(lines, "\n")
}

// List renders the user's tasks as a 1-based enumeration with status and
// priority indicators.
func (o *Orchestrator) List(userID int64) string {
	tasks := o.store.List(userID)
	if len(tasks) == 0 {
		return noTasksReply
	}

	lines := []string{"📋 Your Tasks:\n"}
	for i, t := range tasks {
		statusEmoji, ok := statusEmojis[t.Status]
		if !ok {
			statusEmoji = statusEmojis[task.StatusPending]
		}
		priorityEmoji, ok := priorityEmojis[t.Priority]
		if !ok {
			priorityEmoji = priorityEmojis[task.PriorityMedium]
		}

		lines = append(lines, fmt.Sprintf("%d. %s %s %s", i+1, statusEmoji, priorityEmoji, t.Description))
		if t.Deadline != nil {
			lines = append(lines, "   📅 Deadline: "+*t.Deadline)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Prioritize sends the full task list to the provider for a suggested
// ordering. An empty list short-circuits without an external call.
func (o *Orchestrator) Prioritize(ctx context.Context, userID int64) string {
	tasks := o.store.List(userID)
	if len(tasks) == 0 {
		return nothingToPrioritize
	}

	reply := o.client.Complete(ctx, []completion.Message{
		completion.System(prioritizePrompt),
		completion.User("Prioritize these tasks and explain why: " + serializeTasks(tasks)),
	})
	return "📊 Task Prioritization:\n\n" + reply
}

// Complete marks the task at the given 1-based index as completed. Missing,
// non-numeric, and out-of-range arguments all collapse into one uniform
// invalid-task-number reply.
func (o *Orchestrator) Complete(userID int64, arg string) string {
	index, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return completeUsageReply
	}
	t, err := o.store.MarkCompleted(userID, index)
	if err != nil {
		return completeUsageReply
	}
	return "✅ Task marked as completed: " + t.Description
}

// Summary asks the provider for a progress summary over the full task list,
// with the same empty-store short-circuit as Prioritize.
func (o *Orchestrator) Summary(ctx context.Context, userID int64) string {
	tasks := o.store.List(userID)
	if len(tasks) == 0 {
		return nothingToSummarize
	}

	reply := o.client.Complete(ctx, []completion.Message{
		completion.System(summaryPrompt),
		completion.User("Summarize the current task status and suggest next steps: " + serializeTasks(tasks)),
	})
	return "📊 Progress Summary:\n\n" + reply
}

// Chat answers free-form text with the assistant persona. When the user has
// tasks, a serialized snapshot rides along in the system message so the
// provider can reference them.
func (o *Orchestrator) Chat(ctx context.Context, userID int64, text string) string {
	persona := chatPrompt
	if tasks := o.store.List(userID); len(tasks) > 0 {
		persona += "\nUser's current tasks: " + serializeTasks(tasks)
	}

	return o.client.Complete(ctx, []completion.Message{
		completion.System(persona),
		completion.User(text),
	})
}

func serializeTasks(tasks []*task.Task) string {
	mappings := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		mappings = append(mappings, t.ToMap())
	}
	data, err := json.Marshal(mappings)
	if err != nil {
		// ToMap values are all JSON-encodable; this cannot happen.
		return "[]"
	}
	return string(data)
}
