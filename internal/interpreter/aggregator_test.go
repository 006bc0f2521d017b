package interpreter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
)

type scriptedCompleter struct {
	responses []string
	err       error
	prompts   []string
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next, nil
}

func TestRenderBatchUsesCompleterText(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{"  All done!  "}}
	agg := NewAggregator(completer, zap.NewNop())

	got := agg.RenderBatch(context.Background(), "add 3 cakes", []domain.TaskOutcome{
		{Action: domain.ActionIncrement, ProductName: "Cake", Floor: domain.FloorSecond, Quantity: 3, Status: domain.StatusSuccess},
	})
	if got != "All done!" {
		t.Fatalf("unexpected rendering: %q", got)
	}
	if len(completer.prompts) != 1 {
		t.Fatalf("expected one rendering call, got %d", len(completer.prompts))
	}
	if !strings.Contains(completer.prompts[0], "multiple_operations") {
		t.Fatalf("batch prompt must carry the combined action label: %q", completer.prompts[0])
	}
}

func TestRenderBatchDegradesToDumpOnFailure(t *testing.T) {
	completer := &scriptedCompleter{err: errors.New("quota exceeded")}
	agg := NewAggregator(completer, zap.NewNop())

	got := agg.RenderBatch(context.Background(), "sell 10 tarts", []domain.TaskOutcome{
		{Action: domain.ActionIncrement, ProductName: "Tart", Floor: domain.FloorThird, Quantity: 4, Status: domain.StatusSuccess},
		{Action: domain.ActionDecrement, ProductName: "Tart", Floor: domain.FloorThird, Quantity: 10, Status: domain.StatusFail, Reason: "insufficient stock (current 4)"},
	})

	if !strings.HasPrefix(got, "Results:") {
		t.Fatalf("fallback dump expected, got %q", got)
	}
	if !strings.Contains(got, "insufficient stock (current 4)") {
		t.Fatalf("failure reason must stay visible: %q", got)
	}
	if !strings.Contains(got, "success") || !strings.Contains(got, "fail") {
		t.Fatalf("both outcomes must appear: %q", got)
	}
}

func TestRenderNaturalDegradesToDataDump(t *testing.T) {
	completer := &scriptedCompleter{err: errors.New("timeout")}
	agg := NewAggregator(completer, zap.NewNop())

	items := []domain.InventoryItem{{ID: 1, ItemID: 1, ProductName: "Cake", Quantity: 5, Floor: domain.FloorSecond}}
	got := agg.RenderNatural(context.Background(), "how many cakes", domain.ActionQueryOne, items)

	if !strings.Contains(got, "query_one result:") {
		t.Fatalf("raw dump expected, got %q", got)
	}
	if !strings.Contains(got, "Cake") {
		t.Fatalf("records must stay visible: %q", got)
	}
}
