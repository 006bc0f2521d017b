package llm

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptCatalog holds the prompt fragments the interpreter assembles per role.
type PromptCatalog struct {
	BasePrompt    string `yaml:"base_prompt"`
	AdminActions  string `yaml:"admin_actions"`
	CommonActions string `yaml:"common_actions"`
}

// LoadPromptCatalog reads and validates the prompt file.
func LoadPromptCatalog(path string) (*PromptCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts: %w", err)
	}

	var catalog PromptCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if catalog.BasePrompt == "" || catalog.AdminActions == "" || catalog.CommonActions == "" {
		return nil, fmt.Errorf("prompts file %s is missing required sections", path)
	}
	return &catalog, nil
}

// SystemPrompt assembles the role-dependent instruction block. Administrators
// see the admin actions followed by the common ones; the decrement bullet is
// renumbered so the action list stays contiguous for the model.
func (c *PromptCatalog) SystemPrompt(isAdmin bool) string {
	if isAdmin {
		return c.BasePrompt + c.AdminActions +
			strings.Replace(c.CommonActions, "- 'decrement'", "4. 'decrement'", 1)
	}
	return c.BasePrompt +
		strings.Replace(c.CommonActions, "- 'decrement'", "1. 'decrement'", 1)
}

// CommandPrompt appends the user's request to the system prompt.
func (c *PromptCatalog) CommandPrompt(isAdmin bool, command string) string {
	return c.SystemPrompt(isAdmin) + "\nUser request: " + command
}
