package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal  Context = "global"  // Available everywhere
	ContextEditor  Context = "editor"  // Editing the document
	ContextPreview Context = "preview" // Preview pane focused
	ContextMenu    Context = "menu"    // Main menu
	ContextPicker  Context = "picker"  // Filterable lists (themes, recent files)
	ContextPrompt  Context = "prompt"  // File name prompts
	ContextConfirm Context = "confirm" // Confirmation dialogs
	ContextHelp    Context = "help"    // Help viewer
)

// AllContexts lists every built-in context in display order
var AllContexts = []Context{
	ContextGlobal,
	ContextEditor,
	ContextPreview,
	ContextMenu,
	ContextPicker,
	ContextPrompt,
	ContextConfirm,
	ContextHelp,
}

const (
	// Global actions
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)

	// Document actions
	ActionQuit          Action = "quit"
	ActionNew           Action = "new"
	ActionOpen          Action = "open"
	ActionSave          Action = "save"
	ActionSaveAs        Action = "save_as"
	ActionRecent        Action = "recent"
	ActionExport        Action = "export"
	ActionCopyHTML      Action = "copy_html"
	ActionThemes        Action = "themes"
	ActionTogglePreview Action = "toggle_preview"
	ActionToggleSource  Action = "toggle_html_source"
	ActionSwitchFocus   Action = "switch_focus"
	ActionOpenMenu      Action = "open_menu"
	ActionOpenHelp      Action = "open_help"
	ActionShowMessage   Action = "show_message" // Full text of the last status or error

	// Navigation actions
	ActionNavigateUp     Action = "navigate_up"
	ActionNavigateDown   Action = "navigate_down"
	ActionNavigateLeft   Action = "navigate_left"
	ActionNavigateRight  Action = "navigate_right"
	ActionPageUp         Action = "page_up"
	ActionPageDown       Action = "page_down"
	ActionGoToTop        Action = "go_to_top"
	ActionGoToBottom     Action = "go_to_bottom"
	ActionGoToTopPrepare Action = "go_to_top_prepare" // First 'g' in 'gg' sequence

	// Modal actions
	ActionSelect     Action = "select"
	ActionCloseModal Action = "close_modal"
	ActionConfirm    Action = "confirm"
	ActionCancel     Action = "cancel"
	ActionSaveAndContinue Action = "save_and_continue" // Save, then perform the pending action

	// Text input actions
	ActionTextSubmit Action = "text_submit"
	ActionTextCancel Action = "text_cancel"
)

// KnownActions is the set of actions the editor handles
var KnownActions = map[Action]bool{
	ActionQuitForce:      true,
	ActionQuit:           true,
	ActionNew:            true,
	ActionOpen:           true,
	ActionSave:           true,
	ActionSaveAs:         true,
	ActionRecent:         true,
	ActionExport:         true,
	ActionCopyHTML:       true,
	ActionThemes:         true,
	ActionTogglePreview:  true,
	ActionToggleSource:   true,
	ActionSwitchFocus:    true,
	ActionOpenMenu:       true,
	ActionOpenHelp:       true,
	ActionShowMessage:    true,
	ActionNavigateUp:     true,
	ActionNavigateDown:   true,
	ActionNavigateLeft:   true,
	ActionNavigateRight:  true,
	ActionPageUp:         true,
	ActionPageDown:       true,
	ActionGoToTop:        true,
	ActionGoToBottom:     true,
	ActionGoToTopPrepare: true,
	ActionSelect:         true,
	ActionCloseModal:     true,
	ActionConfirm:        true,
	ActionCancel:         true,
	ActionSaveAndContinue:     true,
	ActionTextSubmit:     true,
	ActionTextCancel:     true,
}

// Description returns the help text for an action
func (a Action) Description() string {
	if d, ok := actionDescriptions[a]; ok {
		return d
	}
	return string(a)
}

var actionDescriptions = map[Action]string{
	ActionQuitForce:     "Quit immediately",
	ActionQuit:          "Quit",
	ActionNew:           "New document",
	ActionOpen:          "Open file",
	ActionSave:          "Save",
	ActionSaveAs:        "Save as",
	ActionRecent:        "Recent files",
	ActionExport:        "Export to HTML",
	ActionCopyHTML:      "Copy HTML to clipboard",
	ActionThemes:        "Choose theme",
	ActionTogglePreview: "Show/hide preview",
	ActionToggleSource:  "Preview rendered/HTML source",
	ActionSwitchFocus:   "Switch editor/preview focus",
	ActionOpenMenu:      "Open menu",
	ActionOpenHelp:      "Help",
	ActionShowMessage:   "Show full message",
}
