/*
Package keybinds provides customizable keyboard binding management.

# Contexts

Bindings live in a context. A key pressed in a context is looked up there
first, then in the global context:
  - global: available everywhere (ctrl+c)
  - editor: while typing in the document
  - preview: while the preview pane has focus
  - menu, picker, prompt, confirm, help: modal dialogs

Editor bindings avoid the keys the text area already uses (ctrl+a, ctrl+e,
ctrl+k, alt+f and so on), which is why most commands there use alt or a
function key.

# Configuration File Format

Overrides are read from ~/.mdpad/keybinds.json. The file is JSONC, so
comments and trailing commas are allowed. Each section maps an action to
a comma separated list of keys:

	{
	  "version": "1.0",
	  // keep ctrl+s and add ctrl+w
	  "editor": {
	    "save": "ctrl+s,ctrl+w",
	    "themes": "f7",
	  },
	}

Listing an action replaces all of its default keys in that context.

# Validation

`mdpad keybinds --validate` runs the Validator, which reports:
  - keys listed for two actions in one section (errors)
  - unknown actions and malformed keys (errors)
  - dialogs left without a way to confirm or close (errors)
  - rebinding ctrl+c, shadowed global keys, unreachable "gg" style
    sequences (warnings)
*/
package keybinds
