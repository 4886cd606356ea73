/*
Package tui implements the terminal user interface for mdpad.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains all editor state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Core state, the render chain and theme surfaces
  - keys.go: Keyboard input handling and keybind routing
  - render.go: Layout of the editor and preview panes and the status bar
  - actions.go: Document operations (new, open, save, export, copy)

# Render Chain

The editor pushes its contents into a document.Document after every key
that changes the text. Two render.Pipelines observe the document: the HTML
pipeline feeds the word count, the HTML source view, the clipboard and the
browser preview; the terminal pipeline feeds the preview pane through
glamour. A failed render keeps the previous preview and shows the error in
the status bar.

# Modal System

Modes select which handler receives keys:
  - ModeNormal: editor or preview pane, depending on focus
  - ModeMenu: File, Export, Theme, View and Quit menus
  - ModePrompt: file name prompt for open, save as and export
  - ModeRecent, ModeThemes: filterable pickers
  - ModeConfirm: unsaved changes dialog
  - ModeHelp, ModeErrorDetail, ModeStatusDetail: scrollable text modals

Key bindings come from keybinds.Registry; each mode matches keys in its
own context.
*/
package tui
