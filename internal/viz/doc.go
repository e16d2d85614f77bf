// Package viz draws a gravity scene in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: preset picker that leads into the live view
//   - [Model]: live view, one simulation tick per frame
//   - [Canvas]: Braille pixel canvas with per-cell colour
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Respawn bodies
//	Tab   - Select body count or a mass slider
//	←/→   - Adjust the selection by 0.1 (H/L by 1)
//	+/-   - Zoom
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
