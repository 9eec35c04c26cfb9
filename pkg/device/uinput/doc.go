// Package uinput creates virtual gamepads through the Linux uinput module.
//
// Each device opens its own /dev/uinput handle, registers the key and
// absolute axes of its [device.Capabilities] and writes input_event
// records followed by a SYN_REPORT. The device needs write access to
// /dev/uinput, usually through the input group or a udev rule.
//
// On other platforms [Backend.CreateDevice] returns
// [device.ErrUnsupported].
package uinput
