package log

import (
	"context"
	"log/slog"
)

// SlogAdapter mirrors journal events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("topic", event.Topic),
		slog.String("category", event.Category.String()),
	}
	if event.ClientID != "" {
		attrs = append(attrs, slog.String("client", event.ClientID))
	}
	if event.DeviceID != 0 {
		attrs = append(attrs, slog.Int("device", event.DeviceID))
	}

	switch {
	case event.Client != nil:
		attrs = append(attrs,
			slog.String("origin", event.Client.Origin),
			slog.String("status", event.Client.Status),
		)
		if event.Client.PreviousStatus != "" {
			attrs = append(attrs, slog.String("previous_status", event.Client.PreviousStatus))
		}
		if event.Client.ProfileName != "" {
			attrs = append(attrs, slog.String("profile", event.Client.ProfileName))
		}
	case event.Device != nil:
		attrs = append(attrs, slog.String("name", event.Device.Name))
	case event.Input != nil:
		attrs = append(attrs, slog.String("kind", event.Input.Kind))
		switch event.Input.Kind {
		case "DPAD":
			attrs = append(attrs,
				slog.Int("x", int(event.Input.X)),
				slog.Int("y", int(event.Input.Y)),
			)
		case "BUTTON":
			attrs = append(attrs,
				slog.String("control", event.Input.Control),
				slog.Bool("pressed", event.Input.Pressed),
			)
		default:
			attrs = append(attrs,
				slog.String("control", event.Input.Control),
				slog.Float64("value", event.Input.Value),
			)
		}
	case event.Cleared != nil:
		attrs = append(attrs, slog.Int("count", event.Cleared.Count))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "journal", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
