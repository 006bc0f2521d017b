package service

import (
	"context"
	"sync"
	"time"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
	"github.com/Wadangzz/Dessert-Gemini/internal/interpreter"
	apperrors "github.com/Wadangzz/Dessert-Gemini/pkg/util"
)

// CommandService gates command submission per session: while one command is
// in flight for an employee, a second submission is rejected rather than
// interleaved. Ordering within a batch is the engine's job; this guard keeps
// whole commands from overlapping.
type CommandService struct {
	engine  *interpreter.Engine
	timeout time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCommandService builds the service.
func NewCommandService(engine *interpreter.Engine, timeout time.Duration) *CommandService {
	return &CommandService{
		engine:   engine,
		timeout:  timeout,
		inFlight: make(map[string]struct{}),
	}
}

// Submit runs one command through the interpreter pipeline.
func (s *CommandService) Submit(ctx context.Context, caller domain.CallerContext, command string) (interpreter.RenderedResult, error) {
	if command == "" {
		return interpreter.RenderedResult{}, apperrors.NewValidationError("command text required", nil)
	}

	if !s.acquire(caller.EmployeeID) {
		return interpreter.RenderedResult{}, apperrors.NewConflict("a command is already being processed for this session", nil)
	}
	defer s.release(caller.EmployeeID)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s.engine.InterpretAndExecute(ctx, caller, command)
}

func (s *CommandService) acquire(employeeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[employeeID]; busy {
		return false
	}
	s.inFlight[employeeID] = struct{}{}
	return true
}

func (s *CommandService) release(employeeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, employeeID)
}
