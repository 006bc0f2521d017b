package interpreter

import (
	"testing"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
)

func TestNormalizeArray(t *testing.T) {
	raw := `[{"action":"increment","name":"Cake","floor":2,"quantity":3},{"action":"query_all"}]`

	got := Normalize(raw)
	if !got.TaskStructured() {
		t.Fatalf("expected tasks, got plain %q", got.Plain)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got.Tasks))
	}
	if got.Tasks[0].Action != domain.ActionIncrement || got.Tasks[1].Action != domain.ActionQueryAll {
		t.Fatalf("wrong actions: %q, %q", got.Tasks[0].Action, got.Tasks[1].Action)
	}
}

func TestNormalizeSingleObject(t *testing.T) {
	got := Normalize(`{"action":"query_one","name":"Tart"}`)
	if len(got.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got.Tasks))
	}
	if got.Tasks[0].Action != domain.ActionQueryOne {
		t.Fatalf("wrong action: %q", got.Tasks[0].Action)
	}
	if name, _ := got.Tasks[0].StringField("name"); name != "Tart" {
		t.Fatalf("payload not preserved: %q", name)
	}
}

func TestNormalizeConcatenatedObjects(t *testing.T) {
	got := Normalize(`{"action":"query_one","name":"Cake"}{"action":"query_all"}`)
	if !got.TaskStructured() {
		t.Fatalf("concatenated objects must repair, got plain %q", got.Plain)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("expected 2 tasks after repair, got %d", len(got.Tasks))
	}
	if got.Tasks[0].Action != domain.ActionQueryOne || got.Tasks[1].Action != domain.ActionQueryAll {
		t.Fatalf("wrong actions after repair: %q, %q", got.Tasks[0].Action, got.Tasks[1].Action)
	}
}

func TestNormalizeStripsCodeFence(t *testing.T) {
	raw := "```json\n[{\"action\":\"query_all\"}]\n```"

	got := Normalize(raw)
	if len(got.Tasks) != 1 || got.Tasks[0].Action != domain.ActionQueryAll {
		t.Fatalf("fenced JSON not decoded: %+v", got)
	}
}

func TestNormalizeFencedConcatenatedObjects(t *testing.T) {
	raw := "```\n{\"action\":\"increment\",\"name\":\"Cake\",\"floor\":2,\"quantity\":1}{\"action\":\"decrement\",\"name\":\"Cake\",\"floor\":2,\"quantity\":1}\n```"

	got := Normalize(raw)
	if len(got.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %+v", got)
	}
}

func TestNormalizePlainText(t *testing.T) {
	raw := "  I could not understand that request.  "

	got := Normalize(raw)
	if got.TaskStructured() {
		t.Fatalf("plain text must not decode into tasks: %+v", got.Tasks)
	}
	if got.Plain != "I could not understand that request." {
		t.Fatalf("plain text not trimmed verbatim: %q", got.Plain)
	}
}

func TestNormalizeBrokenJSONFallsBackToPlain(t *testing.T) {
	raw := `[{"action":"query_all"`

	got := Normalize(raw)
	if got.TaskStructured() {
		t.Fatal("truncated JSON must fall back to plain text")
	}
	if got.Plain != raw {
		t.Fatalf("original text must survive verbatim, got %q", got.Plain)
	}
}
