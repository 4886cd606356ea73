package keybinds

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Issue types
const (
	IssueConflict = "conflict"
	IssueInvalid  = "invalid"
	IssueWarning  = "warning"
)

// ValidationError is one problem found in a keybinding setup
type ValidationError struct {
	Type    string // IssueConflict, IssueInvalid or IssueWarning
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult groups the issues of a validation run. Warnings do not
// stop the editor from starting; errors do.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

func (r *ValidationResult) add(issues ...ValidationError) {
	for _, issue := range issues {
		if issue.Type == IssueWarning {
			r.Warnings = append(r.Warnings, issue)
		} else {
			r.Errors = append(r.Errors, issue)
		}
	}
}

// sort orders issues by context then key so output is stable across runs
func (r *ValidationResult) sort() {
	for _, issues := range [][]ValidationError{r.Errors, r.Warnings} {
		sort.SliceStable(issues, func(i, j int) bool {
			if issues[i].Context != issues[j].Context {
				return issues[i].Context < issues[j].Context
			}
			return issues[i].Key < issues[j].Key
		})
	}
}

// HasErrors reports whether the configuration must be fixed
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether anything looks suspicious
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String formats the result for the keybinds command
func (r *ValidationResult) String() string {
	if !r.HasErrors() && !r.HasWarnings() {
		return "No issues found"
	}

	var sb strings.Builder
	writeIssues(&sb, "Errors", r.Errors)
	writeIssues(&sb, "Warnings", r.Warnings)
	return sb.String()
}

func writeIssues(sb *strings.Builder, title string, issues []ValidationError) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s (%d):\n", title, len(issues))
	for _, issue := range issues {
		fmt.Fprintf(sb, "  - %s\n", issue.Error())
	}
}

// Validator checks a registry against the rules the editor relies on
type Validator struct {
	// keys that must keep their action in every context
	reserved map[string]Action

	// actions each modal needs so it can always be used and closed
	required map[Context][]Action
}

// NewValidator creates a validator with the editor's rules
func NewValidator() *Validator {
	return &Validator{
		reserved: map[string]Action{
			"ctrl+c": ActionQuitForce,
		},
		required: map[Context][]Action{
			ContextMenu:    {ActionCloseModal, ActionSelect},
			ContextPicker:  {ActionCloseModal, ActionSelect},
			ContextPrompt:  {ActionTextSubmit, ActionTextCancel},
			ContextConfirm: {ActionConfirm, ActionCancel},
			ContextHelp:    {ActionCloseModal},
		},
	}
}

// ValidateRegistry checks a complete set of bindings
func (v *Validator) ValidateRegistry(registry *Registry) *ValidationResult {
	result := &ValidationResult{}
	result.add(unknownActions(registry)...)
	result.add(v.reboundReservedKeys(registry)...)
	result.add(unreachableSequences(registry)...)
	result.add(shadowedBindings(registry)...)
	result.add(v.missingActions(registry)...)
	result.sort()
	return result
}

// ValidateConfig checks a user configuration: keys listed twice in a
// section are conflicts, then the configuration is applied over the
// defaults and the outcome validated like a registry.
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	result := &ValidationResult{}
	result.add(duplicateKeys(config)...)

	registry := NewDefaultRegistry()
	if err := ApplyConfig(registry, config); err != nil {
		result.add(ValidationError{Type: IssueInvalid, Message: err.Error()})
		return result
	}

	checked := v.ValidateRegistry(registry)
	result.add(checked.Errors...)
	result.add(checked.Warnings...)
	result.sort()
	return result
}

// duplicateKeys reports a key listed for two actions of the same section
func duplicateKeys(config *Config) []ValidationError {
	var issues []ValidationError
	sections := config.sections()
	for _, context := range AllContexts {
		owners := make(map[string][]string)
		for action, keys := range sections[context] {
			for _, key := range SplitKeys(keys) {
				owners[key] = append(owners[key], action)
			}
		}

		for key, actions := range owners {
			if len(actions) < 2 {
				continue
			}
			sort.Strings(actions)
			issues = append(issues, ValidationError{
				Type:    IssueConflict,
				Context: context,
				Key:     key,
				Message: fmt.Sprintf("key bound %d times (%s)", len(actions), strings.Join(actions, ", ")),
			})
		}
	}
	return issues
}

func unknownActions(registry *Registry) []ValidationError {
	var issues []ValidationError
	for context, section := range registry.bindings {
		for key, action := range section {
			if KnownActions[action] {
				continue
			}
			issues = append(issues, ValidationError{
				Type:    IssueInvalid,
				Context: context,
				Key:     key,
				Message: fmt.Sprintf("unknown action %q", action),
			})
		}
	}
	return issues
}

// reboundReservedKeys warns when ctrl+c stops force quitting somewhere
func (v *Validator) reboundReservedKeys(registry *Registry) []ValidationError {
	var issues []ValidationError
	for context, section := range registry.bindings {
		for key, action := range section {
			if want, ok := v.reserved[key]; ok && action != want {
				issues = append(issues, ValidationError{
					Type:    IssueWarning,
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("reserved key rebound to %s (it should stay %s)", action, want),
				})
			}
		}
	}
	return issues
}

// unreachableSequences warns when a sequence like "gg" can never fire
// because its first key already runs an ordinary action
func unreachableSequences(registry *Registry) []ValidationError {
	var issues []ValidationError
	for context, section := range registry.bindings {
		for key := range section {
			if !isSequence(key) {
				continue
			}
			first := key[:1]
			if action, ok := section[first]; ok && action != ActionGoToTopPrepare {
				issues = append(issues, ValidationError{
					Type:    IssueWarning,
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("unreachable sequence: %q is bound to %s", first, action),
				})
			}
		}
	}
	return issues
}

// isSequence reports whether key repeats a single character, like "gg",
// as opposed to a named key such as "enter" or "pgup"
func isSequence(key string) bool {
	if len(key) < 2 {
		return false
	}
	return strings.Count(key, key[:1]) == len(key)
}

// shadowedBindings warns when a context hides a global binding
func shadowedBindings(registry *Registry) []ValidationError {
	var issues []ValidationError
	global := registry.bindings[ContextGlobal]
	for context, section := range registry.bindings {
		if context == ContextGlobal {
			continue
		}
		for key, action := range section {
			if globalAction, ok := global[key]; ok && action != globalAction {
				issues = append(issues, ValidationError{
					Type:    IssueWarning,
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("shadows global binding (%s -> %s)", globalAction, action),
				})
			}
		}
	}
	return issues
}

func (v *Validator) missingActions(registry *Registry) []ValidationError {
	var issues []ValidationError
	for context, actions := range v.required {
		for _, action := range actions {
			if len(registry.GetBinding(context, action)) > 0 {
				continue
			}
			issues = append(issues, ValidationError{
				Type:    IssueInvalid,
				Context: context,
				Message: fmt.Sprintf("%s is unbound", action),
			})
		}
	}
	return issues
}

// FindConflicts returns the formatted conflicts of a configuration
func FindConflicts(config *Config) []string {
	var conflicts []string
	for _, issue := range NewValidator().ValidateConfig(config).Errors {
		if issue.Type == IssueConflict {
			conflicts = append(conflicts, issue.Error())
		}
	}
	return conflicts
}

var modifiers = []string{"ctrl+", "alt+", "shift+", "super+"}

// ValidateKey rejects empty keys and bare modifiers such as "ctrl+"
func ValidateKey(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	rest := key
	for stripped := true; stripped; {
		stripped = false
		for _, mod := range modifiers {
			if strings.HasPrefix(rest, mod) {
				rest = rest[len(mod):]
				stripped = true
			}
		}
	}
	if rest == "" {
		return fmt.Errorf("modifier without key: %s", key)
	}
	return nil
}

// ValidateAction checks that name is a known action
func ValidateAction(name string) error {
	if name == "" {
		return errors.New("action cannot be empty")
	}
	if !KnownActions[Action(name)] {
		return fmt.Errorf("unknown action: %s", name)
	}
	return nil
}
