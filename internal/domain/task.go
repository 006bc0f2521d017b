package domain

import "encoding/json"

// Action enumerates the task kinds the interpreter understands.
type Action string

const (
	ActionQueryAll         Action = "query_all"
	ActionQueryOne         Action = "query_one"
	ActionIncrement        Action = "increment"
	ActionDecrement        Action = "decrement"
	ActionDeleteItem       Action = "delete_item"
	ActionShowPurchaseLogs Action = "show_purchase_logs"
	ActionAddEmployee      Action = "add_employee"
	ActionDeleteEmployee   Action = "delete_employee"
	ActionQueryEmployees   Action = "query_employees"

	// ActionError is emitted by the model itself when it cannot map the user
	// request to an operation; its payload carries a message to surface.
	ActionError Action = "error"
)

// TaskDescriptor is one requested operation decoded from the model output.
// It is consumed once and never mutated after validation.
type TaskDescriptor struct {
	Action  Action
	Payload map[string]any
}

// UnmarshalJSON decodes a task object. The canonical shape is an "action"
// field with a nested "payload" object; the model sometimes flattens the
// parameters to siblings of "action" instead, so that form is accepted too.
func (t *TaskDescriptor) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if action, ok := fields["action"].(string); ok {
		t.Action = Action(action)
	}
	delete(fields, "action")

	if nested, ok := fields["payload"].(map[string]any); ok {
		t.Payload = nested
		return nil
	}
	t.Payload = fields
	return nil
}

// OutcomeStatus is the terminal status of one task attempt.
type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusFail    OutcomeStatus = "fail"
)

// TaskOutcome records the result of attempting one TaskDescriptor. It is
// ephemeral: produced by the executor, consumed by the aggregator, never
// persisted. The JSON form is what the rendering model sees.
type TaskOutcome struct {
	Action      Action        `json:"action"`
	ProductName string        `json:"product_name,omitempty"`
	Floor       Floor         `json:"floor,omitempty"`
	Quantity    int           `json:"quantity,omitempty"`
	EmployeeID  string        `json:"employee_id,omitempty"`
	Status      OutcomeStatus `json:"status"`
	Reason      string        `json:"reason,omitempty"`
	// Note marks partial completion, e.g. an employee row removed while its
	// identity record could not be touched.
	Note string `json:"note,omitempty"`
}

// Failed reports whether the task did not complete.
func (o TaskOutcome) Failed() bool {
	return o.Status == StatusFail
}

// StringField extracts a non-empty string payload value.
func (t TaskDescriptor) StringField(key string) (string, bool) {
	val, ok := t.Payload[key].(string)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

// IntField extracts an integer payload value. JSON numbers decode as
// float64; only whole values are accepted.
func (t TaskDescriptor) IntField(key string) (int, bool) {
	switch v := t.Payload[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// FloorField extracts and validates the floor discriminator.
func (t TaskDescriptor) FloorField() (Floor, bool) {
	raw, ok := t.IntField("floor")
	if !ok {
		return 0, false
	}
	floor := Floor(raw)
	if !floor.Valid() {
		return 0, false
	}
	return floor, true
}
