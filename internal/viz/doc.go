// Package viz draws a running universe in the terminal.
//
// [Model] is a Bubble Tea program that advances the simulation on a timer and
// projects every body onto the x-y plane of a Braille [Canvas]. The central
// mass is drawn as a filled block.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single tick while paused
//	M     - Toggle serial/parallel stepping
//	+/-   - Zoom in/out
//	R     - Reset to the initial universe
//	Q     - Quit
package viz
