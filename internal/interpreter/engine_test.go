package interpreter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
	"github.com/Wadangzz/Dessert-Gemini/internal/executor"
	"github.com/Wadangzz/Dessert-Gemini/internal/llm"
	"github.com/Wadangzz/Dessert-Gemini/internal/observability"
)

type fakeTaskExecutor struct {
	executed []domain.TaskDescriptor
	results  map[domain.Action]executor.Result
}

func (f *fakeTaskExecutor) Execute(_ context.Context, _ domain.CallerContext, task domain.TaskDescriptor) executor.Result {
	f.executed = append(f.executed, task)
	if result, ok := f.results[task.Action]; ok {
		return result
	}
	return executor.Result{Outcome: domain.TaskOutcome{Action: task.Action, Status: domain.StatusSuccess}}
}

// stockTrackingExecutor applies increments and guarded decrements to an
// in-memory stock map, enough to run a whole batch through the engine.
type stockTrackingExecutor struct {
	stock map[string]int
}

func (s *stockTrackingExecutor) Execute(_ context.Context, _ domain.CallerContext, task domain.TaskDescriptor) executor.Result {
	name, _ := task.StringField("name")
	floor, _ := task.FloorField()
	qty, _ := task.IntField("quantity")
	key := fmt.Sprintf("%s/%d", name, floor)

	outcome := domain.TaskOutcome{
		Action:      task.Action,
		ProductName: name,
		Floor:       floor,
		Quantity:    qty,
		Status:      domain.StatusSuccess,
	}
	switch task.Action {
	case domain.ActionIncrement:
		s.stock[key] += qty
	case domain.ActionDecrement:
		if s.stock[key] < qty {
			outcome.Status = domain.StatusFail
			outcome.Reason = fmt.Sprintf("insufficient stock (current %d)", s.stock[key])
			break
		}
		s.stock[key] -= qty
	default:
		outcome.Status = domain.StatusFail
		outcome.Reason = fmt.Sprintf("unsupported action %q", task.Action)
	}
	return executor.Result{Outcome: outcome}
}

func testCatalog() *llm.PromptCatalog {
	return &llm.PromptCatalog{
		BasePrompt:    "You translate dessert inventory requests into JSON.\n",
		AdminActions:  "1. 'query_all'\n2. 'query_one'\n3. 'increment'\n",
		CommonActions: "- 'decrement'\n",
	}
}

func newTestEngine(completer *scriptedCompleter, renderer *scriptedCompleter, exec TaskExecutor) *Engine {
	return NewEngine(EngineDependencies{
		Completer:  completer,
		Prompts:    testCatalog(),
		Executor:   exec,
		Aggregator: NewAggregator(renderer, zap.NewNop()),
		Metrics:    observability.NewMetrics(),
		Logger:     zap.NewNop(),
	})
}

func TestEnginePassesPlainTextThrough(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{"Hello! How can I help with the inventory today?"}}
	exec := &fakeTaskExecutor{}
	engine := newTestEngine(completer, &scriptedCompleter{}, exec)

	result, err := engine.InterpretAndExecute(context.Background(), adminCaller(), "hi there")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Passthrough {
		t.Fatal("conversational output must be marked passthrough")
	}
	if result.Message != "Hello! How can I help with the inventory today?" {
		t.Fatalf("message altered: %q", result.Message)
	}
	if len(exec.executed) != 0 {
		t.Fatalf("no task should run, got %d", len(exec.executed))
	}
}

func TestEngineRunsTasksInArrayOrder(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`[{"action":"increment","name":"Cake","floor":2,"quantity":3},` +
			`{"action":"decrement","name":"Cake","floor":2,"quantity":1},` +
			`{"action":"delete_item","name":"Scone","floor":3}]`,
	}}
	renderer := &scriptedCompleter{responses: []string{"done"}}
	exec := &fakeTaskExecutor{}
	engine := newTestEngine(completer, renderer, exec)

	result, err := engine.InterpretAndExecute(context.Background(), adminCaller(), "restock and sell")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []domain.Action{domain.ActionIncrement, domain.ActionDecrement, domain.ActionDeleteItem}
	if len(exec.executed) != len(wantOrder) {
		t.Fatalf("expected %d executions, got %d", len(wantOrder), len(exec.executed))
	}
	for i, want := range wantOrder {
		if exec.executed[i].Action != want {
			t.Fatalf("position %d: got %q, want %q", i, exec.executed[i].Action, want)
		}
	}
	if len(result.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(result.Outcomes))
	}
	if result.Message != "done" {
		t.Fatalf("batch rendering expected once, got %q", result.Message)
	}
}

func TestEngineInterpretsOnceAndVariesPromptByRole(t *testing.T) {
	for _, isAdmin := range []bool{true, false} {
		completer := &scriptedCompleter{responses: []string{"[]"}}
		exec := &fakeTaskExecutor{}
		engine := newTestEngine(completer, &scriptedCompleter{}, exec)

		caller := staffCaller()
		if isAdmin {
			caller = adminCaller()
		}
		if _, err := engine.InterpretAndExecute(context.Background(), caller, "status"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(completer.prompts) != 1 {
			t.Fatalf("exactly one interpretation call expected, got %d", len(completer.prompts))
		}

		prompt := completer.prompts[0]
		if isAdmin {
			if !strings.Contains(prompt, "'query_all'") || !strings.Contains(prompt, "4. 'decrement'") {
				t.Fatalf("admin prompt misassembled: %q", prompt)
			}
		} else {
			if strings.Contains(prompt, "'query_all'") || !strings.Contains(prompt, "1. 'decrement'") {
				t.Fatalf("staff prompt misassembled: %q", prompt)
			}
		}
	}
}

func TestEngineRejectedTaskNeverReachesExecutor(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`[{"action":"add_employee","employee_id":"E1","name":"Mina","password":"pw"},` +
			`{"action":"decrement","name":"Cake","floor":2,"quantity":1}]`,
	}}
	renderer := &scriptedCompleter{responses: []string{"summary"}}
	exec := &fakeTaskExecutor{}
	engine := newTestEngine(completer, renderer, exec)

	result, err := engine.InterpretAndExecute(context.Background(), staffCaller(), "hire Mina and sell a cake")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(exec.executed) != 1 || exec.executed[0].Action != domain.ActionDecrement {
		t.Fatalf("only the decrement should run, got %+v", exec.executed)
	}
	if len(result.Outcomes) != 2 {
		t.Fatalf("rejection must still produce an outcome, got %d", len(result.Outcomes))
	}
	if result.Outcomes[0].Status != domain.StatusFail {
		t.Fatal("denied task must be recorded as failed")
	}
}

func TestEngineErrorActionBecomesFailOutcome(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`[{"action":"error","message":"floor 5 does not exist"}]`,
	}}
	renderer := &scriptedCompleter{responses: []string{"Sorry, floor 5 does not exist."}}
	exec := &fakeTaskExecutor{}
	engine := newTestEngine(completer, renderer, exec)

	result, err := engine.InterpretAndExecute(context.Background(), adminCaller(), "put a cake on floor 5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exec.executed) != 0 {
		t.Fatal("error pseudo-action must never reach the executor")
	}
	if len(result.Outcomes) != 1 || result.Outcomes[0].Reason != "floor 5 does not exist" {
		t.Fatalf("model message must survive as the failure reason: %+v", result.Outcomes)
	}
}

func TestEngineCompletionFailureIsUpstreamError(t *testing.T) {
	completer := &scriptedCompleter{err: errors.New("503 unavailable")}
	engine := newTestEngine(completer, &scriptedCompleter{}, &fakeTaskExecutor{})

	if _, err := engine.InterpretAndExecute(context.Background(), adminCaller(), "anything"); err == nil {
		t.Fatal("completion failure must surface as an error")
	}
}

func TestEngineReadActionRendersIndividually(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`[{"action":"query_one","name":"Cake"},{"action":"increment","name":"Cake","floor":2,"quantity":1}]`,
	}}
	renderer := &scriptedCompleter{responses: []string{"There are 5 cakes.", "Added one cake."}}
	exec := &fakeTaskExecutor{
		results: map[domain.Action]executor.Result{
			domain.ActionQueryOne: {
				Outcome: domain.TaskOutcome{Action: domain.ActionQueryOne, ProductName: "Cake", Status: domain.StatusSuccess},
				Data:    []domain.InventoryItem{{ID: 1, ProductName: "Cake", Quantity: 5, Floor: domain.FloorSecond}},
			},
		},
	}
	engine := newTestEngine(completer, renderer, exec)

	result, err := engine.InterpretAndExecute(context.Background(), adminCaller(), "cakes, then add one")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "There are 5 cakes.\nAdded one cake." {
		t.Fatalf("sections misjoined: %q", result.Message)
	}
}

func TestEngineNestedPayloadBatchGuardsStock(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`[{"action":"increment","payload":{"name":"Tart","floor":3,"quantity":4}},` +
			`{"action":"decrement","payload":{"name":"Tart","floor":3,"quantity":10}}]`,
	}}
	renderer := &scriptedCompleter{responses: []string{"Added 4 tarts; could not take out 10."}}
	exec := &stockTrackingExecutor{stock: map[string]int{}}
	engine := newTestEngine(completer, renderer, exec)

	result, err := engine.InterpretAndExecute(context.Background(), adminCaller(), "add 4 tarts to floor 3 then sell 10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(result.Outcomes))
	}
	if result.Outcomes[0].Status != domain.StatusSuccess || result.Outcomes[0].Quantity != 4 {
		t.Fatalf("increment outcome mismatch: %+v", result.Outcomes[0])
	}
	if result.Outcomes[1].Status != domain.StatusFail ||
		!strings.Contains(result.Outcomes[1].Reason, "insufficient stock (current 4)") {
		t.Fatalf("decrement outcome mismatch: %+v", result.Outcomes[1])
	}
	if exec.stock["Tart/3"] != 4 {
		t.Fatalf("failed decrement must leave the quantity untouched, got %d", exec.stock["Tart/3"])
	}
	if result.Message != "Added 4 tarts; could not take out 10." {
		t.Fatalf("batch rendering mismatch: %q", result.Message)
	}
}

func TestEngineQueryAllGetsFixedLine(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{`[{"action":"query_all"}]`}}
	exec := &fakeTaskExecutor{}
	engine := newTestEngine(completer, &scriptedCompleter{}, exec)

	result, err := engine.InterpretAndExecute(context.Background(), adminCaller(), "show everything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "Inventory view refreshed." {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestEngineEmptyTaskListYieldsNoOpMessage(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{"[]"}}
	engine := newTestEngine(completer, &scriptedCompleter{}, &fakeTaskExecutor{})

	result, err := engine.InterpretAndExecute(context.Background(), adminCaller(), "do nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "No operations were performed." {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}
