package eventbus

// Topic names a lifecycle event.
type Topic string

// Registry topics.
const (
	TopicClientConnected      Topic = "client_connected"
	TopicClientDisconnected   Topic = "client_disconnected"
	TopicClientProfileUpdated Topic = "client_profile_updated"
	TopicClientDeviceAssigned Topic = "client_device_assigned"
	TopicClientStatusChanged  Topic = "client_status_changed"
	TopicClientsCleared       Topic = "clients_cleared"
)

// Device manager topics.
const (
	TopicDeviceCreated  Topic = "device_created"
	TopicDeviceReleased Topic = "device_released"
)

// TopicInputReceived is published by the host for every routed input event.
const TopicInputReceived Topic = "input_received"

// Topics returns every known topic.
func Topics() []Topic {
	return []Topic{
		TopicClientConnected,
		TopicClientDisconnected,
		TopicClientProfileUpdated,
		TopicClientDeviceAssigned,
		TopicClientStatusChanged,
		TopicClientsCleared,
		TopicDeviceCreated,
		TopicDeviceReleased,
		TopicInputReceived,
	}
}

// Known reports whether t is one of the defined topics.
func (t Topic) Known() bool {
	for _, k := range Topics() {
		if k == t {
			return true
		}
	}
	return false
}

// String returns the topic name.
func (t Topic) String() string {
	return string(t)
}
