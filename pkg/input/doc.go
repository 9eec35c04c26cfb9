// Package input defines the normalized input events a remote client submits
// for its virtual gamepad.
//
// An [Event] is one unit of input attributed to a client: a button edge, an
// axis movement, or a D-pad state. Events are transient: the transport
// produces them, the device manager consumes them once, and they are then
// discarded.
//
// # Value Ranges
//
//   - Buttons carry a pressed flag; analog triggers reported as buttons also
//     carry a value in [0, 1].
//   - Axes carry a value in [-1.0, 1.0]. Vertical axes use the browser
//     convention where "up" is negative.
//   - The D-pad is either a [Direction] (off, up, down, left, right) or an
//     independently signed X/Y pair in {-1, 0, 1}.
//
// # Frames
//
// Browsers poll the Gamepad API and submit the whole controller state at a
// fixed interval. [Frame] models one such submission and expands it into an
// ordered list of events with [Frame.Events].
package input
