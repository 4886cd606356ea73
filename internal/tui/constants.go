package tui

// UI Layout Constants

const (
	// Modal Dimensions
	ModalWidthMargin       = 6 // Standard horizontal margin (m.width - 6)
	ModalHeightMarginSmall = 2 // Small vertical margin (m.height - 2)

	// Viewport Padding and Borders
	ViewportBorderWidth       = 2 // Width consumed by borders
	ViewportPaddingHorizontal = 4 // Horizontal padding (left + right)

	// Main layout
	StatusBarHeight  = 1
	MinPaneWidth     = 20 // Below this the preview is hidden to leave room for the editor
	EditorWidthRatio = 0.5

	// Modal Content Calculations
	ModalOverheadLines   = 6 // Title (2) + padding (2) + border (2)
	ModalOverheadMinimal = 4 // Border + title for minimal modals

	// Line cap of the bubbles textarea; longer files are refused
	EditorMaxLines = 10000

	// Picker
	PickerVisibleRows = 12
)
