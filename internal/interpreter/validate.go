package interpreter

import (
	"fmt"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
)

// adminActions require the administrator role. Decrement is deliberately
// absent: removing stock is normal consumption and open to every
// authenticated caller.
var adminActions = map[domain.Action]struct{}{
	domain.ActionQueryAll:         {},
	domain.ActionQueryOne:         {},
	domain.ActionIncrement:        {},
	domain.ActionShowPurchaseLogs: {},
	domain.ActionDeleteItem:       {},
	domain.ActionAddEmployee:      {},
	domain.ActionDeleteEmployee:   {},
	domain.ActionQueryEmployees:   {},
}

var knownActions = map[domain.Action]struct{}{
	domain.ActionQueryAll:         {},
	domain.ActionQueryOne:         {},
	domain.ActionIncrement:        {},
	domain.ActionDecrement:        {},
	domain.ActionDeleteItem:       {},
	domain.ActionShowPurchaseLogs: {},
	domain.ActionAddEmployee:      {},
	domain.ActionDeleteEmployee:   {},
	domain.ActionQueryEmployees:   {},
	domain.ActionError:            {},
}

// Admit decides whether one task may proceed to execution. A nil return
// admits the task; otherwise the returned outcome is terminal for this task
// only and siblings in the batch continue.
func Admit(task domain.TaskDescriptor, caller domain.CallerContext) *domain.TaskOutcome {
	if _, known := knownActions[task.Action]; !known {
		return reject(task, fmt.Sprintf("unknown action %q", task.Action))
	}

	if _, restricted := adminActions[task.Action]; restricted && !caller.IsAdmin() {
		return reject(task, "not authorized to perform this action")
	}

	if reason := missingFields(task); reason != "" {
		return reject(task, reason)
	}
	return nil
}

// missingFields checks per-action required payload fields before any store
// contact. An empty return means the payload is complete.
func missingFields(task domain.TaskDescriptor) string {
	switch task.Action {
	case domain.ActionQueryOne:
		if _, ok := task.StringField("name"); !ok {
			return "product name is required"
		}

	case domain.ActionIncrement, domain.ActionDecrement:
		if _, ok := task.StringField("name"); !ok {
			return "product name is required"
		}
		if _, ok := task.FloorField(); !ok {
			return "a valid floor is required"
		}
		if qty, ok := task.IntField("quantity"); !ok || qty <= 0 {
			return "quantity must be a positive integer"
		}

	case domain.ActionDeleteItem:
		if _, ok := task.StringField("name"); !ok {
			return "product name is required"
		}
		if _, ok := task.FloorField(); !ok {
			return "a valid floor is required"
		}

	case domain.ActionAddEmployee:
		if _, ok := task.StringField("employee_id"); !ok {
			return "employee_id is required"
		}
		if _, ok := task.StringField("name"); !ok {
			return "employee name is required"
		}
		if _, ok := task.StringField("password"); !ok {
			return "password is required"
		}

	case domain.ActionDeleteEmployee:
		_, hasID := task.StringField("employee_id")
		_, hasName := task.StringField("name")
		if !hasID && !hasName {
			return "employee_id or name is required"
		}
	}
	return ""
}

func reject(task domain.TaskDescriptor, reason string) *domain.TaskOutcome {
	name, _ := task.StringField("name")
	return &domain.TaskOutcome{
		Action:      task.Action,
		ProductName: name,
		Status:      domain.StatusFail,
		Reason:      reason,
	}
}
