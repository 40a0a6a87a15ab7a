// Package viz draws a running simulation in the terminal.
//
// [Model] is a Bubble Tea program that owns the frame clock: every tick it
// advances the simulator by a fixed number of steps and redraws the arena
// on a braille [Canvas]. The simulator itself knows nothing about frames.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	N     - Single step while paused
//	+/-   - More or fewer steps per frame
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
