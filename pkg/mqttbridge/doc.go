// Package mqttbridge forwards client and device lifecycle events from the
// host's event bus to an MQTT broker.
//
// Each event is published as JSON to "<prefix>/<topic>", for example
// "remotepad/client_connected", with QoS 1 and without the retain flag.
// Publishing is best effort: failures are logged and never reach the
// code that raised the event.
package mqttbridge
