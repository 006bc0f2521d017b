package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
	"github.com/Wadangzz/Dessert-Gemini/internal/executor"
	"github.com/Wadangzz/Dessert-Gemini/internal/interpreter"
	"github.com/Wadangzz/Dessert-Gemini/internal/llm"
	"github.com/Wadangzz/Dessert-Gemini/internal/observability"
	apperrors "github.com/Wadangzz/Dessert-Gemini/pkg/util"
)

// gatedCompleter blocks each Complete call until released, so a test can hold
// one command in flight while probing the overlap guard.
type gatedCompleter struct {
	started chan struct{}
	release chan struct{}
}

func (g *gatedCompleter) Complete(ctx context.Context, _ string) (string, error) {
	g.started <- struct{}{}
	select {
	case <-g.release:
		return "[]", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type noopExecutor struct{}

func (noopExecutor) Execute(_ context.Context, _ domain.CallerContext, task domain.TaskDescriptor) executor.Result {
	return executor.Result{Outcome: domain.TaskOutcome{Action: task.Action, Status: domain.StatusSuccess}}
}

func newGatedService(t *testing.T) (*CommandService, *gatedCompleter) {
	t.Helper()
	completer := &gatedCompleter{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	engine := interpreter.NewEngine(interpreter.EngineDependencies{
		Completer: completer,
		Prompts: &llm.PromptCatalog{
			BasePrompt:    "base\n",
			AdminActions:  "1. 'query_all'\n",
			CommonActions: "- 'decrement'\n",
		},
		Executor:   noopExecutor{},
		Aggregator: interpreter.NewAggregator(completer, zap.NewNop()),
		Metrics:    observability.NewMetrics(),
		Logger:     zap.NewNop(),
	})
	return NewCommandService(engine, 5*time.Second), completer
}

func TestSubmitRejectsEmptyCommand(t *testing.T) {
	svc, _ := newGatedService(t)

	_, err := svc.Submit(context.Background(), domain.CallerContext{EmployeeID: "E1"}, "")
	var de *apperrors.DomainError
	if !errors.As(err, &de) || de.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitRejectsOverlappingCommand(t *testing.T) {
	svc, completer := newGatedService(t)
	caller := domain.CallerContext{EmployeeID: "E1", Role: domain.RoleAdmin}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), caller, "first command")
		done <- err
	}()
	<-completer.started

	_, err := svc.Submit(context.Background(), caller, "second command")
	var de *apperrors.DomainError
	if !errors.As(err, &de) || de.Code != "CONFLICT" {
		t.Fatalf("overlapping submission must conflict, got %v", err)
	}

	close(completer.release)
	if err := <-done; err != nil {
		t.Fatalf("first command failed: %v", err)
	}

	// The slot frees once the first command completes.
	if _, err := svc.Submit(context.Background(), caller, "third command"); err != nil {
		t.Fatalf("follow-up command rejected: %v", err)
	}
	<-completer.started
}

func TestSubmitAllowsDifferentSessionsConcurrently(t *testing.T) {
	svc, completer := newGatedService(t)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), domain.CallerContext{EmployeeID: "E1", Role: domain.RoleAdmin}, "first")
		done <- err
	}()
	<-completer.started

	other := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), domain.CallerContext{EmployeeID: "E2", Role: domain.RoleAdmin}, "second")
		other <- err
	}()
	<-completer.started

	close(completer.release)
	if err := <-done; err != nil {
		t.Fatalf("first session failed: %v", err)
	}
	if err := <-other; err != nil {
		t.Fatalf("second session failed: %v", err)
	}
}
