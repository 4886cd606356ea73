package keybinds

import (
	"sort"
	"strings"
)

// Binding is one key bound to an action
type Binding struct {
	Key     string
	Action  Action
	Context Context
}

// Registry maps keys to actions per context. A key missing from a
// context falls through to ContextGlobal.
type Registry struct {
	bindings map[Context]map[string]Action

	// first key of a sequence such as "gg", per context
	pending map[Context]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[Context]map[string]Action),
		pending:  make(map[Context]string),
	}
}

// lookupOrder lists the contexts searched for a key typed in context
func lookupOrder(context Context) []Context {
	if context == ContextGlobal {
		return []Context{ContextGlobal}
	}
	return []Context{context, ContextGlobal}
}

// Register binds key to action in context, replacing any previous action
func (r *Registry) Register(context Context, key string, action Action) {
	section, ok := r.bindings[context]
	if !ok {
		section = make(map[string]Action)
		r.bindings[context] = section
	}
	section[key] = action
}

// RegisterMultiple binds every key in keys to action
func (r *Registry) RegisterMultiple(context Context, keys []string, action Action) {
	for _, key := range keys {
		r.Register(context, key, action)
	}
}

// Unbind removes every key bound to action in context
func (r *Registry) Unbind(context Context, action Action) {
	section := r.bindings[context]
	for key, bound := range section {
		if bound == action {
			delete(section, key)
		}
	}
}

// Match returns the action for key in context or, failing that, in the
// global context
func (r *Registry) Match(context Context, key string) (Action, bool) {
	for _, c := range lookupOrder(context) {
		if action, ok := r.bindings[c][key]; ok {
			return action, true
		}
	}
	return "", false
}

// MatchMultiKey is Match for panes with key sequences. A key bound to
// ActionGoToTopPrepare starts a sequence: it reports pending and the next
// key is matched together with it. A sequence that matches nothing is
// dropped.
func (r *Registry) MatchMultiKey(context Context, key string) (action Action, complete, pending bool) {
	if first, waiting := r.pending[context]; waiting {
		delete(r.pending, context)
		action, complete = r.Match(context, first+key)
		return action, complete, false
	}

	action, complete = r.Match(context, key)
	if complete && action == ActionGoToTopPrepare {
		r.pending[context] = key
		return "", false, true
	}
	return action, complete, false
}

// ClearMultiKeyState forgets a half-typed sequence
func (r *Registry) ClearMultiKeyState(context Context) {
	delete(r.pending, context)
}

// GetBinding returns the sorted keys for action in context, or in the
// global context when context has none
func (r *Registry) GetBinding(context Context, action Action) []string {
	for _, c := range lookupOrder(context) {
		var keys []string
		for key, bound := range r.bindings[c] {
			if bound == action {
				keys = append(keys, key)
			}
		}
		if len(keys) > 0 {
			sort.Strings(keys)
			return keys
		}
	}
	return nil
}

// GetBindingString formats the keys for action for hints and help, e.g.
// "alt+m, f10"
func (r *Registry) GetBindingString(context Context, action Action) string {
	keys := r.GetBinding(context, action)
	if len(keys) == 0 {
		return "unbound"
	}
	return strings.Join(keys, ", ")
}

// ListBindings returns the bindings of context followed by the global
// ones, each group sorted by key
func (r *Registry) ListBindings(context Context) []Binding {
	var out []Binding
	for _, c := range lookupOrder(context) {
		out = append(out, r.bindingsIn(c)...)
	}
	return out
}

// bindingsIn returns the bindings of a single context sorted by key
func (r *Registry) bindingsIn(context Context) []Binding {
	section := r.bindings[context]
	out := make([]Binding, 0, len(section))
	for key, action := range section {
		out = append(out, Binding{Key: key, Action: action, Context: context})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
