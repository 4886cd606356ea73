package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config represents the user's keybinding configuration. Each section
// maps an action name to a comma separated list of keys, for example
// "save": "ctrl+s,ctrl+w". The file may contain comments and trailing
// commas.
type Config struct {
	Version string            `json:"version"`
	Global  map[string]string `json:"global,omitempty"`
	Editor  map[string]string `json:"editor,omitempty"`
	Preview map[string]string `json:"preview,omitempty"`
	Menu    map[string]string `json:"menu,omitempty"`
	Picker  map[string]string `json:"picker,omitempty"`
	Prompt  map[string]string `json:"prompt,omitempty"`
	Confirm map[string]string `json:"confirm,omitempty"`
	Help    map[string]string `json:"help,omitempty"`
}

// LoadConfig loads keybinding configuration from a JSONC file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses JSONC keybinding configuration
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}
	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:  c.Global,
		ContextEditor:  c.Editor,
		ContextPreview: c.Preview,
		ContextMenu:    c.Menu,
		ContextPicker:  c.Picker,
		ContextPrompt:  c.Prompt,
		ContextConfirm: c.Confirm,
		ContextHelp:    c.Help,
	}
}

// SplitKeys splits a comma separated key list. A lone "," is a key.
func SplitKeys(keys string) []string {
	if strings.TrimSpace(keys) == "," {
		return []string{","}
	}
	var out []string
	for _, k := range strings.Split(keys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// ApplyConfig applies user configuration to a registry. An action listed
// in a section replaces that action's default keys in the same context.
func ApplyConfig(registry *Registry, config *Config) error {
	for _, context := range AllContexts {
		section := config.sections()[context]

		// Deterministic order so later duplicates win consistently
		actions := make([]string, 0, len(section))
		for action := range section {
			actions = append(actions, action)
		}
		sort.Strings(actions)

		for _, name := range actions {
			action := Action(name)
			if err := ValidateAction(name); err != nil {
				return fmt.Errorf("%s: %w", context, err)
			}
			keys := SplitKeys(section[name])
			for _, key := range keys {
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("%s.%s: %w", context, name, err)
				}
			}
			registry.Unbind(context, action)
			registry.RegisterMultiple(context, keys, action)
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportDefaults returns the default bindings in config form so users can
// see what can be customized
func ExportDefaults() *Config {
	registry := NewDefaultRegistry()
	config := &Config{Version: "1.0"}

	for context, section := range map[Context]*map[string]string{
		ContextGlobal:  &config.Global,
		ContextEditor:  &config.Editor,
		ContextPreview: &config.Preview,
		ContextMenu:    &config.Menu,
		ContextPicker:  &config.Picker,
		ContextPrompt:  &config.Prompt,
		ContextConfirm: &config.Confirm,
		ContextHelp:    &config.Help,
	} {
		byAction := make(map[string][]string)
		for _, b := range registry.bindingsIn(context) {
			byAction[string(b.Action)] = append(byAction[string(b.Action)], b.Key)
		}
		*section = make(map[string]string, len(byAction))
		for action, keys := range byAction {
			(*section)[action] = strings.Join(keys, ",")
		}
	}

	return config
}
