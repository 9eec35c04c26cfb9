// Package transport exposes a [service.Host] over HTTP and WebSocket.
//
// Routes:
//
//	POST /connect        register a client, returns client and gamepad IDs
//	POST /gamepad_data   submit one input frame for client_id
//	POST /profile        rename a client's profile
//	POST /disconnect     deregister a client
//	GET  /status         uptime, counts and limits
//	GET  /clients        live sessions
//	GET  /devices        live virtual gamepads
//	GET  /ws/{client_id} input stream for a registered client
//	GET  /ws             dashboard stream of lifecycle broadcasts
//
// # WebSocket
//
// Messages are JSON objects with a "type" field. A client connection
// accepts "ping" (answered with "pong"), "gamepad_event" whose data is an
// input frame, and "profile". Frames are submitted in arrival order. When
// the connection ends the client is deregistered, which releases its
// gamepad.
//
// Every open connection receives client_connected, client_disconnected
// and client_profile_updated broadcasts. Liveness is checked with
// WebSocket ping frames; a connection that misses a pong for
// PingInterval+PongTimeout is closed.
//
// Hijacked WebSocket connections are not closed by http.Server.Shutdown,
// so the server tracks them and closes them on Stop.
package transport
