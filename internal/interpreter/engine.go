package interpreter

import (
	"context"

	"go.uber.org/zap"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
	"github.com/Wadangzz/Dessert-Gemini/internal/executor"
	"github.com/Wadangzz/Dessert-Gemini/internal/llm"
	"github.com/Wadangzz/Dessert-Gemini/internal/observability"
	apperrors "github.com/Wadangzz/Dessert-Gemini/pkg/util"
)

// RenderedResult is the single response unit produced for one command.
type RenderedResult struct {
	// Message is the final text to show the caller.
	Message string `json:"message"`
	// Passthrough marks conversational model output that was surfaced as-is.
	Passthrough bool `json:"passthrough,omitempty"`
	// Outcomes carries the per-task records behind the rendered message.
	Outcomes []domain.TaskOutcome `json:"outcomes,omitempty"`
}

// TaskExecutor runs one admitted task. Satisfied by *executor.Executor.
type TaskExecutor interface {
	Execute(ctx context.Context, caller domain.CallerContext, task domain.TaskDescriptor) executor.Result
}

// Engine is the command-interpretation and transactional-dispatch core. One
// user command produces exactly one completion call; the resulting tasks run
// strictly sequentially in array order.
type Engine struct {
	completer  llm.Completer
	prompts    *llm.PromptCatalog
	executor   TaskExecutor
	aggregator *Aggregator
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// EngineDependencies bundles collaborators for the engine.
type EngineDependencies struct {
	Completer  llm.Completer
	Prompts    *llm.PromptCatalog
	Executor   TaskExecutor
	Aggregator *Aggregator
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewEngine constructs the engine.
func NewEngine(deps EngineDependencies) *Engine {
	return &Engine{
		completer:  deps.Completer,
		prompts:    deps.Prompts,
		executor:   deps.Executor,
		aggregator: deps.Aggregator,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// readActions are answered with a natural-language rendering over the
// retrieved records rather than grouped into the batch summary.
var readActions = map[domain.Action]struct{}{
	domain.ActionQueryOne:         {},
	domain.ActionShowPurchaseLogs: {},
	domain.ActionQueryEmployees:   {},
}

// InterpretAndExecute turns one natural-language command into tasks, runs
// them in order, and aggregates the outcomes into one response.
func (e *Engine) InterpretAndExecute(ctx context.Context, caller domain.CallerContext, command string) (RenderedResult, error) {
	e.metrics.RecordCommand()

	prompt := e.prompts.CommandPrompt(caller.IsAdmin(), command)
	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return RenderedResult{}, apperrors.NewUpstreamError("completion service", err)
	}

	normalized := Normalize(raw)
	if !normalized.TaskStructured() {
		// Conversational output passes through untouched.
		return RenderedResult{Message: normalized.Plain, Passthrough: true}, nil
	}

	var (
		sections      []string
		outcomes      []domain.TaskOutcome
		batchOutcomes []domain.TaskOutcome
	)

	for _, task := range normalized.Tasks {
		// The model's own error pseudo-action carries a message for the
		// user; it never reaches the store.
		if task.Action == domain.ActionError {
			message, _ := task.StringField("message")
			if message == "" {
				message = "the request could not be interpreted"
			}
			outcome := domain.TaskOutcome{
				Action: task.Action,
				Status: domain.StatusFail,
				Reason: message,
			}
			outcomes = append(outcomes, outcome)
			batchOutcomes = append(batchOutcomes, outcome)
			continue
		}

		if rejected := Admit(task, caller); rejected != nil {
			e.metrics.RecordTask(string(task.Action), false)
			outcomes = append(outcomes, *rejected)
			batchOutcomes = append(batchOutcomes, *rejected)
			continue
		}

		result := e.executor.Execute(ctx, caller, task)
		outcome := result.Outcome
		e.metrics.RecordTask(string(outcome.Action), !outcome.Failed())
		outcomes = append(outcomes, outcome)

		if _, isRead := readActions[task.Action]; isRead && !outcome.Failed() {
			sections = append(sections,
				e.aggregator.RenderNatural(ctx, command, task.Action, result.Data))
			continue
		}
		if task.Action == domain.ActionQueryAll && !outcome.Failed() {
			sections = append(sections, "Inventory view refreshed.")
			continue
		}

		batchOutcomes = append(batchOutcomes, outcome)
	}

	if len(batchOutcomes) > 0 {
		sections = append(sections, e.aggregator.RenderBatch(ctx, command, batchOutcomes))
	}

	return RenderedResult{
		Message:  joinSections(sections),
		Outcomes: outcomes,
	}, nil
}

func joinSections(sections []string) string {
	switch len(sections) {
	case 0:
		return "No operations were performed."
	case 1:
		return sections[0]
	}
	out := sections[0]
	for _, s := range sections[1:] {
		out += "\n" + s
	}
	return out
}
