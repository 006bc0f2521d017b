package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Wadangzz/Dessert-Gemini/internal/auth"
	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
	"github.com/Wadangzz/Dessert-Gemini/internal/events"
	"github.com/Wadangzz/Dessert-Gemini/internal/identity"
	"github.com/Wadangzz/Dessert-Gemini/internal/repository"
)

// Result pairs a task outcome with the records retrieved for read-oriented
// actions; Data is nil for mutations.
type Result struct {
	Outcome domain.TaskOutcome
	Data    any
}

// Executor performs the read-check-write sequence for each admitted task,
// one task at a time, in order. Every failure is captured as a fail outcome;
// the executor never lets one bad task abort the rest of a batch.
type Executor struct {
	inventory  repository.InventoryRepository
	logs       repository.PurchaseLogRepository
	employees  repository.EmployeeRepository
	identities identity.Provider
	dispatcher events.Dispatcher
	logger     *zap.Logger

	loginDomain    string
	serviceRoleKey string
}

// Dependencies bundles collaborators for the executor.
type Dependencies struct {
	InventoryRepo   repository.InventoryRepository
	PurchaseLogRepo repository.PurchaseLogRepository
	EmployeeRepo    repository.EmployeeRepository
	Identities      identity.Provider
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
	LoginDomain     string
	ServiceRoleKey  string
}

// New constructs the executor.
func New(deps Dependencies) *Executor {
	return &Executor{
		inventory:      deps.InventoryRepo,
		logs:           deps.PurchaseLogRepo,
		employees:      deps.EmployeeRepo,
		identities:     deps.Identities,
		dispatcher:     deps.Dispatcher,
		logger:         deps.Logger,
		loginDomain:    deps.LoginDomain,
		serviceRoleKey: deps.ServiceRoleKey,
	}
}

// Execute runs one admitted task for the caller.
func (e *Executor) Execute(ctx context.Context, caller domain.CallerContext, task domain.TaskDescriptor) Result {
	switch task.Action {
	case domain.ActionQueryAll:
		return e.queryAll(ctx, task)
	case domain.ActionQueryOne:
		return e.queryOne(ctx, task)
	case domain.ActionIncrement:
		return e.increment(ctx, caller, task)
	case domain.ActionDecrement:
		return e.decrement(ctx, caller, task)
	case domain.ActionDeleteItem:
		return e.deleteItem(ctx, caller, task)
	case domain.ActionShowPurchaseLogs:
		return e.showPurchaseLogs(ctx, task)
	case domain.ActionAddEmployee:
		return e.addEmployee(ctx, caller, task)
	case domain.ActionDeleteEmployee:
		return e.deleteEmployee(ctx, caller, task)
	case domain.ActionQueryEmployees:
		return e.queryEmployees(ctx, task)
	}
	return fail(task.Action, "", 0, fmt.Sprintf("unknown action %q", task.Action))
}

func (e *Executor) queryAll(ctx context.Context, task domain.TaskDescriptor) Result {
	if floor, ok := task.FloorField(); ok {
		items, err := e.inventory.ListByFloor(ctx, floor)
		if err != nil {
			return fail(task.Action, "", floor, storeReason(err))
		}
		return Result{
			Outcome: domain.TaskOutcome{Action: task.Action, Floor: floor, Status: domain.StatusSuccess},
			Data:    items,
		}
	}

	items, err := e.inventory.ListAll(ctx)
	if err != nil {
		return fail(task.Action, "", 0, storeReason(err))
	}
	return Result{
		Outcome: domain.TaskOutcome{Action: task.Action, Status: domain.StatusSuccess},
		Data:    items,
	}
}

func (e *Executor) queryOne(ctx context.Context, task domain.TaskDescriptor) Result {
	name, _ := task.StringField("name")

	// The item may legitimately be absent; an empty result is a success
	// whose data simply reports no stock.
	items, err := e.inventory.ListByName(ctx, name)
	if err != nil {
		return fail(task.Action, name, 0, storeReason(err))
	}
	return Result{
		Outcome: domain.TaskOutcome{Action: task.Action, ProductName: name, Status: domain.StatusSuccess},
		Data:    items,
	}
}

func (e *Executor) increment(ctx context.Context, caller domain.CallerContext, task domain.TaskDescriptor) Result {
	name, _ := task.StringField("name")
	floor, _ := task.FloorField()
	qty, _ := task.IntField("quantity")

	item, err := e.inventory.GetByNameAndFloor(ctx, name, floor)
	switch {
	case err == nil:
		if err := e.inventory.UpdateQuantity(ctx, name, floor, item.Quantity+qty); err != nil {
			return fail(task.Action, name, floor, storeReason(err))
		}
		e.publishStock(ctx, caller, task.Action, name, floor, item.Quantity+qty)

	case errors.Is(err, pgx.ErrNoRows):
		// First increment for this name/floor creates the row, then pins the
		// business key to the freshly assigned storage id.
		created := &domain.InventoryItem{ProductName: name, Quantity: qty, Floor: floor}
		if err := e.inventory.Insert(ctx, created); err != nil {
			return fail(task.Action, name, floor, storeReason(err))
		}
		if err := e.inventory.AssignItemID(ctx, created.ID); err != nil {
			return fail(task.Action, name, floor, storeReason(err))
		}
		e.publishStock(ctx, caller, task.Action, name, floor, qty)

	default:
		return fail(task.Action, name, floor, storeReason(err))
	}

	return Result{Outcome: domain.TaskOutcome{
		Action:      task.Action,
		ProductName: name,
		Floor:       floor,
		Quantity:    qty,
		Status:      domain.StatusSuccess,
	}}
}

func (e *Executor) decrement(ctx context.Context, caller domain.CallerContext, task domain.TaskDescriptor) Result {
	name, _ := task.StringField("name")
	floor, _ := task.FloorField()
	qty, _ := task.IntField("quantity")

	item, err := e.inventory.GetByNameAndFloor(ctx, name, floor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fail(task.Action, name, floor, fmt.Sprintf("%q not found on floor %d", name, floor))
		}
		return fail(task.Action, name, floor, storeReason(err))
	}

	if item.Quantity < qty {
		return fail(task.Action, name, floor,
			fmt.Sprintf("insufficient stock (current %d)", item.Quantity))
	}

	if err := e.inventory.UpdateQuantity(ctx, name, floor, item.Quantity-qty); err != nil {
		return fail(task.Action, name, floor, storeReason(err))
	}

	entry := &domain.PurchaseLogEntry{
		EmployeeID:  caller.EmployeeID,
		ItemID:      item.ItemID,
		ProductName: name,
		Quantity:    qty,
	}
	if err := e.logs.Insert(ctx, entry); err != nil {
		// The stock row is already updated; surface the audit gap instead of
		// hiding it behind a rollback we do not have.
		e.logger.Error("purchase log insert failed after stock update",
			zap.String("product", name), zap.Error(err))
		return fail(task.Action, name, floor, "stock updated but purchase log write failed: "+storeReason(err))
	}

	e.publishStock(ctx, caller, task.Action, name, floor, item.Quantity-qty)

	return Result{Outcome: domain.TaskOutcome{
		Action:      task.Action,
		ProductName: name,
		Floor:       floor,
		Quantity:    qty,
		EmployeeID:  caller.EmployeeID,
		Status:      domain.StatusSuccess,
	}}
}

func (e *Executor) deleteItem(ctx context.Context, caller domain.CallerContext, task domain.TaskDescriptor) Result {
	name, _ := task.StringField("name")
	floor, _ := task.FloorField()

	if err := e.inventory.Delete(ctx, name, floor); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fail(task.Action, name, floor, fmt.Sprintf("%q not found on floor %d", name, floor))
		}
		return fail(task.Action, name, floor, storeReason(err))
	}

	e.publishStock(ctx, caller, task.Action, name, floor, 0)

	return Result{Outcome: domain.TaskOutcome{
		Action:      task.Action,
		ProductName: name,
		Floor:       floor,
		Status:      domain.StatusSuccess,
	}}
}

func (e *Executor) showPurchaseLogs(ctx context.Context, task domain.TaskDescriptor) Result {
	entries, err := e.logs.Recent(ctx)
	if err != nil {
		return fail(task.Action, "", 0, storeReason(err))
	}
	return Result{
		Outcome: domain.TaskOutcome{Action: task.Action, Status: domain.StatusSuccess},
		Data:    entries,
	}
}

func (e *Executor) addEmployee(ctx context.Context, caller domain.CallerContext, task domain.TaskDescriptor) Result {
	employeeID, _ := task.StringField("employee_id")
	name, _ := task.StringField("name")
	password, _ := task.StringField("password")
	role, _ := task.StringField("role")

	address := auth.LoginAddress(employeeID, e.loginDomain)
	identityID, err := e.identities.CreateIdentity(ctx, address, password)
	if err != nil {
		return failEmployee(task.Action, employeeID, "identity provisioning failed: "+err.Error())
	}

	employee := &domain.Employee{
		EmployeeID: employeeID,
		Name:       name,
		Role:       role,
		AuthUserID: &identityID,
	}
	if err := e.employees.Insert(ctx, employee); err != nil {
		// The identity already exists and is not rolled back automatically;
		// the operator has to reconcile it by hand.
		e.logger.Warn("employee insert failed after identity provisioning",
			zap.String("employee_id", employeeID),
			zap.String("identity_id", identityID),
			zap.Error(err))
		return failEmployee(task.Action, employeeID,
			fmt.Sprintf("employee record insert failed (%s); provisioned identity %s may require manual cleanup", storeReason(err), identityID))
	}

	e.publishEmployees(ctx, caller, task.Action, employeeID)

	return Result{Outcome: domain.TaskOutcome{
		Action:     task.Action,
		EmployeeID: employeeID,
		Status:     domain.StatusSuccess,
	}}
}

func (e *Executor) deleteEmployee(ctx context.Context, caller domain.CallerContext, task domain.TaskDescriptor) Result {
	employeeID, hasID := task.StringField("employee_id")
	name, _ := task.StringField("name")

	var (
		employee *domain.Employee
		err      error
	)
	if hasID {
		employee, err = e.employees.GetByEmployeeID(ctx, employeeID)
	} else {
		employee, err = e.employees.GetByName(ctx, name)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return failEmployee(task.Action, employeeID, "employee not found")
		}
		return failEmployee(task.Action, employeeID, storeReason(err))
	}

	// No identity reference: remove the employee row only and report the
	// partial completion explicitly.
	if employee.AuthUserID == nil || *employee.AuthUserID == "" {
		if err := e.deleteEmployeeRow(ctx, employee); err != nil {
			return failEmployee(task.Action, employee.EmployeeID, storeReason(err))
		}
		e.publishEmployees(ctx, caller, task.Action, employee.EmployeeID)
		return Result{Outcome: domain.TaskOutcome{
			Action:     task.Action,
			EmployeeID: employee.EmployeeID,
			Status:     domain.StatusSuccess,
			Note:       "no identity reference found; employee record removed without deprovisioning",
		}}
	}

	if err := e.identities.DeleteIdentity(ctx, *employee.AuthUserID, e.serviceRoleKey); err != nil {
		return failEmployee(task.Action, employee.EmployeeID, "identity deprovisioning failed: "+err.Error())
	}
	if err := e.deleteEmployeeRow(ctx, employee); err != nil {
		return failEmployee(task.Action, employee.EmployeeID,
			"identity deprovisioned but employee record removal failed: "+storeReason(err))
	}

	e.publishEmployees(ctx, caller, task.Action, employee.EmployeeID)

	return Result{Outcome: domain.TaskOutcome{
		Action:     task.Action,
		EmployeeID: employee.EmployeeID,
		Status:     domain.StatusSuccess,
	}}
}

func (e *Executor) queryEmployees(ctx context.Context, task domain.TaskDescriptor) Result {
	employees, err := e.employees.List(ctx)
	if err != nil {
		return fail(task.Action, "", 0, storeReason(err))
	}
	return Result{
		Outcome: domain.TaskOutcome{Action: task.Action, Status: domain.StatusSuccess},
		Data:    employees,
	}
}

func (e *Executor) deleteEmployeeRow(ctx context.Context, employee *domain.Employee) error {
	return e.employees.DeleteByEmployeeID(ctx, employee.EmployeeID)
}

func (e *Executor) publishStock(ctx context.Context, caller domain.CallerContext, action domain.Action, name string, floor domain.Floor, quantity int) {
	if e.dispatcher == nil {
		return
	}
	_ = e.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventStockChanged,
		EmployeeID: caller.EmployeeID,
		Timestamp:  time.Now(),
		Action:     action,
		Payload: events.StockChangedPayload{
			ProductName: name,
			Floor:       floor,
			Quantity:    quantity,
		},
	})
}

func (e *Executor) publishEmployees(ctx context.Context, caller domain.CallerContext, action domain.Action, employeeID string) {
	if e.dispatcher == nil {
		return
	}
	_ = e.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventEmployeesChanged,
		EmployeeID: caller.EmployeeID,
		Timestamp:  time.Now(),
		Action:     action,
		Payload:    events.EmployeesChangedPayload{EmployeeID: employeeID},
	})
}

func fail(action domain.Action, name string, floor domain.Floor, reason string) Result {
	return Result{Outcome: domain.TaskOutcome{
		Action:      action,
		ProductName: name,
		Floor:       floor,
		Status:      domain.StatusFail,
		Reason:      reason,
	}}
}

func failEmployee(action domain.Action, employeeID, reason string) Result {
	return Result{Outcome: domain.TaskOutcome{
		Action:     action,
		EmployeeID: employeeID,
		Status:     domain.StatusFail,
		Reason:     reason,
	}}
}

// storeReason flattens unexpected store-level errors into a reason string so
// a bad task cannot abort the batch.
func storeReason(err error) string {
	return "store error: " + err.Error()
}
