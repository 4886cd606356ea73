package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerEditorBindings(r)
	registerPreviewBindings(r)
	registerMenuBindings(r)
	registerPickerBindings(r)
	registerPromptBindings(r)
	registerConfirmBindings(r)
	registerHelpBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

// registerEditorBindings avoids keys the textarea already uses for editing
func registerEditorBindings(r *Registry) {
	r.Register(ContextEditor, "ctrl+q", ActionQuit)
	r.Register(ContextEditor, "alt+n", ActionNew)
	r.Register(ContextEditor, "ctrl+o", ActionOpen)
	r.Register(ContextEditor, "ctrl+s", ActionSave)
	r.Register(ContextEditor, "alt+s", ActionSaveAs)
	r.Register(ContextEditor, "ctrl+r", ActionRecent)
	r.Register(ContextEditor, "alt+e", ActionExport)
	r.Register(ContextEditor, "alt+y", ActionCopyHTML)
	r.Register(ContextEditor, "alt+t", ActionThemes)
	r.Register(ContextEditor, "alt+p", ActionTogglePreview)
	r.Register(ContextEditor, "alt+h", ActionToggleSource)
	r.Register(ContextEditor, "f6", ActionSwitchFocus)
	r.RegisterMultiple(ContextEditor, []string{"f10", "alt+m"}, ActionOpenMenu)
	r.Register(ContextEditor, "f1", ActionOpenHelp)
	r.Register(ContextEditor, "alt+i", ActionShowMessage)
}

func registerPreviewBindings(r *Registry) {
	r.RegisterMultiple(ContextPreview, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextPreview, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextPreview, "pgup", ActionPageUp)
	r.Register(ContextPreview, "pgdown", ActionPageDown)
	r.Register(ContextPreview, "g", ActionGoToTopPrepare)
	r.Register(ContextPreview, "gg", ActionGoToTop)
	r.RegisterMultiple(ContextPreview, []string{"G", "end"}, ActionGoToBottom)
	r.Register(ContextPreview, "home", ActionGoToTop)
	r.RegisterMultiple(ContextPreview, []string{"f6", "tab", "esc"}, ActionSwitchFocus)
	r.Register(ContextPreview, "q", ActionQuit)
	r.RegisterMultiple(ContextPreview, []string{"f10", "alt+m"}, ActionOpenMenu)
	r.RegisterMultiple(ContextPreview, []string{"f1", "?"}, ActionOpenHelp)
	r.Register(ContextPreview, "s", ActionToggleSource)
	r.Register(ContextPreview, "t", ActionThemes)
	r.Register(ContextPreview, "i", ActionShowMessage)
}

func registerMenuBindings(r *Registry) {
	r.RegisterMultiple(ContextMenu, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextMenu, []string{"down", "j"}, ActionNavigateDown)
	r.RegisterMultiple(ContextMenu, []string{"left", "h", "shift+tab"}, ActionNavigateLeft)
	r.RegisterMultiple(ContextMenu, []string{"right", "l", "tab"}, ActionNavigateRight)
	r.Register(ContextMenu, "enter", ActionSelect)
	r.RegisterMultiple(ContextMenu, []string{"esc", "f10", "q"}, ActionCloseModal)
}

// registerPickerBindings leaves printable keys free for the filter input
func registerPickerBindings(r *Registry) {
	r.RegisterMultiple(ContextPicker, []string{"up", "ctrl+p"}, ActionNavigateUp)
	r.RegisterMultiple(ContextPicker, []string{"down", "ctrl+n"}, ActionNavigateDown)
	r.Register(ContextPicker, "pgup", ActionPageUp)
	r.Register(ContextPicker, "pgdown", ActionPageDown)
	r.Register(ContextPicker, "enter", ActionSelect)
	r.Register(ContextPicker, "esc", ActionCloseModal)
}

func registerPromptBindings(r *Registry) {
	r.Register(ContextPrompt, "enter", ActionTextSubmit)
	r.Register(ContextPrompt, "esc", ActionTextCancel)
}

func registerConfirmBindings(r *Registry) {
	r.RegisterMultiple(ContextConfirm, []string{"y", "Y"}, ActionConfirm)
	r.RegisterMultiple(ContextConfirm, []string{"n", "N", "esc"}, ActionCancel)
	r.RegisterMultiple(ContextConfirm, []string{"s", "S"}, ActionSaveAndContinue)
}

func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"esc", "q", "f1", "?"}, ActionCloseModal)
	r.RegisterMultiple(ContextHelp, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextHelp, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextHelp, "pgup", ActionPageUp)
	r.Register(ContextHelp, "pgdown", ActionPageDown)
}
