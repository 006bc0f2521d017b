package domain

import (
	"encoding/json"
	"testing"
)

func TestTaskDescriptorDecodesNestedPayload(t *testing.T) {
	var task TaskDescriptor
	raw := `{"action":"increment","payload":{"name":"Tart","floor":3,"quantity":4}}`
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if task.Action != ActionIncrement {
		t.Fatalf("action mismatch: %q", task.Action)
	}
	if name, ok := task.StringField("name"); !ok || name != "Tart" {
		t.Fatalf("name field lost: %q %v", name, ok)
	}
	if floor, ok := task.FloorField(); !ok || floor != FloorThird {
		t.Fatalf("floor field lost: %v %v", floor, ok)
	}
	if qty, ok := task.IntField("quantity"); !ok || qty != 4 {
		t.Fatalf("quantity field lost: %d %v", qty, ok)
	}
	if _, leaked := task.Payload["payload"]; leaked {
		t.Fatal("wrapper key must not survive in the payload")
	}
}

func TestTaskDescriptorDecodesFlatObject(t *testing.T) {
	var task TaskDescriptor
	raw := `{"action":"increment","name":"Cake","floor":2,"quantity":3}`
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if task.Action != ActionIncrement {
		t.Fatalf("action mismatch: %q", task.Action)
	}
	if name, ok := task.StringField("name"); !ok || name != "Cake" {
		t.Fatalf("name field lost: %q %v", name, ok)
	}
	if floor, ok := task.FloorField(); !ok || floor != FloorSecond {
		t.Fatalf("floor field lost: %v %v", floor, ok)
	}
	if qty, ok := task.IntField("quantity"); !ok || qty != 3 {
		t.Fatalf("quantity field lost: %d %v", qty, ok)
	}
	if _, stillThere := task.Payload["action"]; stillThere {
		t.Fatal("action must not leak into the payload")
	}
}

func TestIntFieldRejectsFractions(t *testing.T) {
	task := TaskDescriptor{Payload: map[string]any{"quantity": 2.5}}
	if _, ok := task.IntField("quantity"); ok {
		t.Fatal("fractional quantity must not decode")
	}
}

func TestIntFieldAcceptsWholeFloat(t *testing.T) {
	task := TaskDescriptor{Payload: map[string]any{"quantity": float64(7)}}
	qty, ok := task.IntField("quantity")
	if !ok || qty != 7 {
		t.Fatalf("whole float must decode: %d %v", qty, ok)
	}
}

func TestStringFieldRejectsEmpty(t *testing.T) {
	task := TaskDescriptor{Payload: map[string]any{"name": ""}}
	if _, ok := task.StringField("name"); ok {
		t.Fatal("empty string must not count as present")
	}
}

func TestFloorFieldValidatesRange(t *testing.T) {
	for raw, want := range map[float64]bool{1: false, 2: true, 3: true, 4: false} {
		task := TaskDescriptor{Payload: map[string]any{"floor": raw}}
		if _, ok := task.FloorField(); ok != want {
			t.Fatalf("floor %v: got %v, want %v", raw, ok, want)
		}
	}
}

func TestFloorValid(t *testing.T) {
	if !FloorSecond.Valid() || !FloorThird.Valid() {
		t.Fatal("known floors must validate")
	}
	if Floor(1).Valid() || Floor(4).Valid() {
		t.Fatal("unknown floors must not validate")
	}
}

func TestOutcomeJSONOmitsEmptyFields(t *testing.T) {
	encoded, err := json.Marshal(TaskOutcome{Action: ActionQueryAll, Status: StatusSuccess})
	if err != nil {
		t.Fatal(err)
	}
	if string(encoded) != `{"action":"query_all","status":"success"}` {
		t.Fatalf("unexpected encoding: %s", encoded)
	}
}
