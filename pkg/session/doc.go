// Package session tracks the clients connected to a remote gamepad host.
//
// The [Registry] is the only writer of [Session] state. It enforces the
// client capacity, hands out client identifiers and publishes lifecycle
// events on an [eventbus.Bus]:
//
//   - client_connected after a successful AddClient
//   - client_disconnected before the entry of a removed client is deleted
//   - client_profile_updated when the profile name changes
//   - client_device_assigned when a device is bound
//   - client_status_changed on every status transition
//   - clients_cleared once per RemoveAll
//
// # Status
//
// A session moves through
//
//	Connecting -> Connected -> Active <-> Connected -> Disconnected
//
// and any non-terminal status may move to Error. Disconnected and Error
// are terminal. Active only means the client has sent input since it
// connected; routing never depends on it.
//
// Events are published after the registry lock is released and carry
// snapshot copies, so handlers may call back into the registry.
package session
