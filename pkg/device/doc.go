// Package device owns the pool of virtual gamepads on the host.
//
// A [Manager] allocates at most MaxDevices devices, binds each to exactly
// one client and translates [input.Event] values into writes on a
// [VirtualDevice] obtained from a [Backend]. The backend is the only part
// that touches the operating system; [MemoryBackend] is an in-process
// implementation for tests and for hosts without uinput.
//
// # Value translation
//
// Axis input lies in [-1, 1] (triggers in [0, 1]). Values outside that
// range are clamped; NaN and infinities are rejected. Stick Y axes are
// sign-inverted because browsers report up as negative. The result is
// scaled piecewise so that -1, 0 and 1 hit the native minimum, center and
// maximum exactly.
//
// The D-pad is resolved from four directional button states kept per
// device: x = right - left and y = up - down, with y positive-up. Opposing
// presses therefore cancel to neutral.
//
// # Concurrency
//
// The client and device lookup tables are updated together under the
// manager lock. Writes to one device are serialized by a per-device lock,
// so different devices are driven concurrently. An event that reaches a
// device after it was released is logged and dropped.
package device
