// Package service provides the remote gamepad host.
//
// A [Host] ties the client registry, the device manager and the event bus
// together behind the operations every transport needs:
//
//   - Register admits a client and binds a new virtual device to it
//   - Submit and SubmitFrame route input to the client's device
//   - Deregister removes a client and, through the host's own
//     client_disconnected subscription, releases its device
//
// Example usage:
//
//	config := service.DefaultHostConfig()
//	config.MaxClients = 2
//	config.MaxDevices = 2
//
//	host, err := service.NewHost(uinput.New(), config)
//	host.Start(ctx)
//	defer host.Stop()
//
//	adm, err := host.Register(ctx, service.Registration{Origin: "10.0.0.7"})
//	err = host.SubmitFrame(ctx, adm.ClientID, frame)
//
// # Cleanup
//
// While running, a reaper removes sessions that ended more than
// SessionTimeout ago and releases devices whose client is no longer
// registered. Stop removes every client, releases every device and closes
// the bus.
//
// # Errors
//
// Transports map failures with [IsCapacity], [IsNotFound], [IsBackend] and
// [IsInvalidInput]. Input for a client that left concurrently is dropped
// without error.
package service
