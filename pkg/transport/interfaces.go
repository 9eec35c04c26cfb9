package transport

import (
	"context"

	"github.com/remotegamepad/remotegamepad-go/pkg/device"
	"github.com/remotegamepad/remotegamepad-go/pkg/eventbus"
	"github.com/remotegamepad/remotegamepad-go/pkg/input"
	"github.com/remotegamepad/remotegamepad-go/pkg/service"
	"github.com/remotegamepad/remotegamepad-go/pkg/session"
)

// Host is the part of service.Host the transport drives.
// Implemented by *service.Host.
type Host interface {
	Register(ctx context.Context, reg service.Registration) (service.Admission, error)
	SubmitFrame(ctx context.Context, clientID string, frame input.Frame) error
	Deregister(ctx context.Context, clientID string) error
	UpdateProfile(ctx context.Context, clientID, name string) error
	Client(clientID string) (session.Session, bool)
	Clients() []session.Session
	Devices() []device.Info
	Status() service.Status
	Bus() *eventbus.Bus
}

var _ Host = (*service.Host)(nil)
