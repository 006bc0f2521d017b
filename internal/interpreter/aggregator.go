package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
	"github.com/Wadangzz/Dessert-Gemini/internal/llm"
)

// batchAction is the synthetic label under which a whole batch of mutation
// outcomes is rendered in one combined call.
const batchAction = "multiple_operations"

// Aggregator renders retrieved records and task outcomes into the single
// response unit shown to the caller. Natural-language rendering is delegated
// to the completion collaborator; when that call fails, the aggregator
// degrades to a plain dump of the data so nothing is silently dropped.
type Aggregator struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewAggregator constructs the aggregator.
func NewAggregator(completer llm.Completer, logger *zap.Logger) *Aggregator {
	return &Aggregator{completer: completer, logger: logger}
}

// RenderNatural produces a prose answer for one read-oriented action.
func (a *Aggregator) RenderNatural(ctx context.Context, command string, action domain.Action, data any) string {
	return a.render(ctx, command, string(action), data)
}

// RenderBatch produces one combined summary for the batch's outcomes.
func (a *Aggregator) RenderBatch(ctx context.Context, command string, outcomes []domain.TaskOutcome) string {
	return a.render(ctx, command, batchAction, outcomes)
}

func (a *Aggregator) render(ctx context.Context, command, action string, data any) string {
	encoded, err := json.Marshal(data)
	if err != nil {
		a.logger.Warn("outcome encoding failed", zap.Error(err))
		return fallbackDump(action, data)
	}

	prompt := fmt.Sprintf(
		"Original user request: %q\nperformed action: %q\ndatabase result: %s\n\n"+
			"Based on the information above, write one friendly, natural sentence "+
			"for the user. Mention every failure and its reason.",
		command, action, encoded,
	)

	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("response rendering failed; showing raw data",
			zap.String("action", action), zap.Error(err))
		return fallbackDump(action, data)
	}
	return strings.TrimSpace(text)
}

// fallbackDump renders the raw data when the rendering collaborator is
// unavailable. Failures stay visible either way.
func fallbackDump(action string, data any) string {
	if outcomes, ok := data.([]domain.TaskOutcome); ok {
		lines := make([]string, 0, len(outcomes)+1)
		lines = append(lines, "Results:")
		for _, o := range outcomes {
			lines = append(lines, "- "+describeOutcome(o))
		}
		return strings.Join(lines, "\n")
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("%s completed, but the result could not be rendered", action)
	}
	return fmt.Sprintf("%s result: %s", action, encoded)
}

func describeOutcome(o domain.TaskOutcome) string {
	var sb strings.Builder
	sb.WriteString(string(o.Action))
	if o.ProductName != "" {
		fmt.Fprintf(&sb, " %q", o.ProductName)
	}
	if o.Floor != 0 {
		fmt.Fprintf(&sb, " (floor %d)", int(o.Floor))
	}
	if o.EmployeeID != "" {
		fmt.Fprintf(&sb, " employee %s", o.EmployeeID)
	}
	if o.Quantity != 0 {
		fmt.Fprintf(&sb, " x%d", o.Quantity)
	}
	fmt.Fprintf(&sb, ": %s", o.Status)
	if o.Reason != "" {
		fmt.Fprintf(&sb, " (%s)", o.Reason)
	}
	if o.Note != "" {
		fmt.Fprintf(&sb, " [%s]", o.Note)
	}
	return sb.String()
}
