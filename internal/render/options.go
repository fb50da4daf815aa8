// Package render provides markdown rendering utilities for terminal output.
package render

// Style names accepted by the renderer. StyleAuto picks light or dark
// based on the terminal background.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
)

// Options configures the markdown renderer behavior.
type Options struct {
	// Width defines the maximum output width (default: 80)
	Width int

	// Style defines the theme: "auto", "dark", or "light"
	Style string

	// EnableEmoji converts :emoji: to unicode characters
	EnableEmoji bool

	// PreserveNewLines preserves original line breaks
	PreserveNewLines bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleAuto,
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// StyleForAppearance maps the appearance setting ("light", "dark",
// "system") to a renderer style.
func StyleForAppearance(appearance string) string {
	switch appearance {
	case "light":
		return StyleLight
	case "dark":
		return StyleDark
	default:
		return StyleAuto
	}
}
