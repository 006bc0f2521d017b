package interpreter

import (
	"encoding/json"
	"strings"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
)

// Normalized is the outcome of one normalization pass. When the model output
// is not task-structured, Plain carries the original text verbatim and Tasks
// is empty; the text is surfaced to the user as-is.
type Normalized struct {
	Tasks []domain.TaskDescriptor
	Plain string
}

// TaskStructured reports whether the response decoded into tasks.
func (n Normalized) TaskStructured() bool {
	return n.Plain == ""
}

// Normalize turns raw model text into an ordered task sequence. It tolerates
// the model's common malformations: Markdown code fences around the JSON, a
// bare object instead of an array, and multiple objects concatenated without
// separators. Anything still unparseable is returned as plain text rather
// than failing the command.
func Normalize(raw string) Normalized {
	text := stripCodeFence(raw)

	switch {
	case strings.HasPrefix(text, "["):
		if tasks, ok := decodeTasks(text); ok {
			return Normalized{Tasks: tasks}
		}

	case strings.HasPrefix(text, "{"):
		var task domain.TaskDescriptor
		if err := json.Unmarshal([]byte(text), &task); err == nil {
			return Normalized{Tasks: []domain.TaskDescriptor{task}}
		}
		// A single-object parse can fail because the model concatenated
		// several objects; fall through to the repair below.
		if tasks, ok := repairConcatenated(text); ok {
			return Normalized{Tasks: tasks}
		}

	default:
		if tasks, ok := repairConcatenated(text); ok {
			return Normalized{Tasks: tasks}
		}
	}

	return Normalized{Plain: strings.TrimSpace(raw)}
}

// stripCodeFence removes an enclosing Markdown code block, with or without a
// language tag after the opening marker.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimLeft(trimmed, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		trimmed = strings.TrimSpace(trimmed)
	}
	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSuffix(trimmed, "```")
		trimmed = strings.TrimSpace(trimmed)
	}
	return trimmed
}

// repairConcatenated handles objects glued together without a separating
// comma or enclosing array, e.g. {"a":1}{"b":2}.
func repairConcatenated(text string) ([]domain.TaskDescriptor, bool) {
	if !strings.Contains(text, "}{") {
		return nil, false
	}
	fixed := "[" + strings.ReplaceAll(text, "}{", "},{") + "]"
	return decodeTasks(fixed)
}

func decodeTasks(text string) ([]domain.TaskDescriptor, bool) {
	var tasks []domain.TaskDescriptor
	if err := json.Unmarshal([]byte(text), &tasks); err != nil {
		return nil, false
	}
	return tasks, true
}
