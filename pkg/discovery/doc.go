// Package discovery advertises a remote gamepad host on the local network
// with mDNS/DNS-SD.
//
// # Service (_remotepad._tcp)
//
// The host registers one instance, named after the machine unless
// configured, on the HTTP port. TXT records:
//
//   - ver: client protocol version ("major.minor")
//   - max: maximum number of gamepads
//   - free: gamepads still available
//   - name: human-readable host name
//   - path: path of the browser client (default "/")
//
// A [Publisher] keeps "free" current by updating the TXT records whenever
// a device is created or released.
package discovery
