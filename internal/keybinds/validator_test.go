package keybinds

import (
	"strings"
	"testing"
)

func TestNewValidator(t *testing.T) {
	v := NewValidator()

	if v.reserved["ctrl+c"] != ActionQuitForce {
		t.Errorf("ctrl+c reserved for %q, want %q", v.reserved["ctrl+c"], ActionQuitForce)
	}
	if _, ok := v.required[ContextGlobal]; ok {
		t.Error("global context should not require any action")
	}
	if len(v.required[ContextHelp]) == 0 {
		t.Error("help must require a way to close it")
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name: "conflict error",
			err: ValidationError{
				Type:    "conflict",
				Context: ContextEditor,
				Key:     "ctrl+s",
				Message: "key bound 2 times",
			},
			expected: "[conflict] ctrl+s in context 'editor': key bound 2 times",
		},
		{
			name: "invalid error",
			err: ValidationError{
				Type:    "invalid",
				Context: ContextGlobal,
				Key:     "",
				Message: "empty key",
			},
			expected: "[invalid]  in context 'global': empty key",
		},
		{
			name: "warning",
			err: ValidationError{
				Type:    "warning",
				Context: ContextPreview,
				Key:     "tab",
				Message: "shadows global binding",
			},
			expected: "[warning] tab in context 'preview': shadows global binding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidationResult_String(t *testing.T) {
	tests := []struct {
		name     string
		result   *ValidationResult
		contains []string
	}{
		{
			name:     "no issues",
			result:   &ValidationResult{},
			contains: []string{"No issues found"},
		},
		{
			name: "errors and warnings",
			result: &ValidationResult{
				Errors:   []ValidationError{{Type: "conflict", Context: ContextEditor, Key: "x", Message: "dup"}},
				Warnings: []ValidationError{{Type: "warning", Context: ContextPreview, Key: "y", Message: "shadow"}},
			},
			contains: []string{"Errors (1):", "Warnings (1):", "dup", "shadow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.result.String()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("String() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestValidateRegistry_Defaults(t *testing.T) {
	result := NewValidator().ValidateRegistry(NewDefaultRegistry())

	if result.HasErrors() || result.HasWarnings() {
		t.Errorf("default bindings should validate cleanly:\n%s", result.String())
	}
}

func TestReboundReservedKeys(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(ContextEditor, "ctrl+c", ActionCopyHTML)

	result := NewValidator().ValidateRegistry(r)

	found := false
	for _, w := range result.Warnings {
		if w.Key == "ctrl+c" && strings.Contains(w.Message, "reserved") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected reserved key warning, got:\n%s", result.String())
	}
}

func TestShadowedBindings(t *testing.T) {
	r := NewRegistry()
	r.Register(ContextGlobal, "f2", ActionSave)
	r.Register(ContextPreview, "f2", ActionThemes)
	r.Register(ContextEditor, "f2", ActionSave)

	issues := shadowedBindings(r)

	if len(issues) != 1 {
		t.Fatalf("expected 1 warning, got %v", issues)
	}
	if issues[0].Context != ContextPreview || issues[0].Type != IssueWarning {
		t.Errorf("issue = %+v", issues[0])
	}
}

func TestUnreachableSequences(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *Registry)
		warnings int
	}{
		{
			name: "prepare key",
			setup: func(r *Registry) {
				r.Register(ContextPreview, "g", ActionGoToTopPrepare)
				r.Register(ContextPreview, "gg", ActionGoToTop)
			},
			warnings: 0,
		},
		{
			name: "first key bound elsewhere",
			setup: func(r *Registry) {
				r.Register(ContextPreview, "g", ActionThemes)
				r.Register(ContextPreview, "gg", ActionGoToTop)
			},
			warnings: 1,
		},
		{
			name: "named key",
			setup: func(r *Registry) {
				r.Register(ContextPreview, "p", ActionThemes)
				r.Register(ContextPreview, "pgup", ActionPageUp)
			},
			warnings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			tt.setup(r)
			issues := unreachableSequences(r)
			if len(issues) != tt.warnings {
				t.Errorf("got %d warnings, want %d: %v", len(issues), tt.warnings, issues)
			}
		})
	}
}

func TestValidateRegistry_SortedOutput(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(ContextPreview, "x", Action("warp"))
	r.Register(ContextEditor, "z", Action("jump"))
	r.Register(ContextEditor, "a", Action("fly"))

	result := NewValidator().ValidateRegistry(r)

	var got []string
	for _, issue := range result.Errors {
		got = append(got, string(issue.Context)+":"+issue.Key)
	}
	want := "editor:a editor:z preview:x"
	if strings.Join(got, " ") != want {
		t.Errorf("errors = %v, want %s", got, want)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name       string
		config     *Config
		wantErrors bool
	}{
		{
			name:       "empty config",
			config:     &Config{Version: "1.0"},
			wantErrors: false,
		},
		{
			name:       "valid override",
			config:     &Config{Editor: map[string]string{"save": "ctrl+s,ctrl+w"}},
			wantErrors: false,
		},
		{
			name:       "unknown action",
			config:     &Config{Editor: map[string]string{"launch_rockets": "f9"}},
			wantErrors: true,
		},
		{
			name:       "duplicate key in section",
			config:     &Config{Editor: map[string]string{"save": "f2", "open": "f2"}},
			wantErrors: true,
		},
		{
			name:       "unbinding close in help",
			config:     &Config{Help: map[string]string{"close_modal": ""}},
			wantErrors: true,
		},
		{
			name:       "modifier without key",
			config:     &Config{Editor: map[string]string{"save": "ctrl+"}},
			wantErrors: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewValidator().ValidateConfig(tt.config)
			if result.HasErrors() != tt.wantErrors {
				t.Errorf("HasErrors() = %v, want %v:\n%s", result.HasErrors(), tt.wantErrors, result.String())
			}
		})
	}
}

func TestFindConflicts(t *testing.T) {
	config := &Config{
		Editor: map[string]string{
			"save":   "f2",
			"open":   "f2",
			"export": "f3",
		},
	}

	conflicts := FindConflicts(config)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %v", conflicts)
	}
	if !strings.Contains(conflicts[0], "f2") || !strings.Contains(conflicts[0], "open, save") {
		t.Errorf("conflict = %q", conflicts[0])
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"q", false},
		{"ctrl+s", false},
		{"alt+shift+x", false},
		{"f10", false},
		{"", true},
		{"ctrl+", true},
		{"alt+", true},
		{"ctrl+alt+", true},
		{"+", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAction(t *testing.T) {
	tests := []struct {
		action  string
		wantErr bool
	}{
		{"save", false},
		{"toggle_html_source", false},
		{"", true},
		{"execute", true},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			err := ValidateAction(tt.action)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAction(%q) error = %v, wantErr %v", tt.action, err, tt.wantErr)
			}
		})
	}
}
