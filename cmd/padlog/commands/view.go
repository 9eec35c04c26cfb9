// Package commands implements the padlog CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/remotegamepad/remotegamepad-go/pkg/log"
)

const timeFormat = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format(timeFormat)
	fmt.Fprintf(w, "%s %-6s %s", ts, event.Category.String(), event.Topic)
	if event.ClientID != "" {
		fmt.Fprintf(w, " [%s]", event.ClientID)
	}
	if event.DeviceID != 0 {
		fmt.Fprintf(w, " [pad:%d]", event.DeviceID)
	}
	fmt.Fprintln(w)

	switch {
	case event.Client != nil:
		formatClientDetails(w, event.Client)
	case event.Device != nil:
		fmt.Fprintf(w, "  Name: %s\n", event.Device.Name)
	case event.Input != nil:
		formatInputDetails(w, event.Input)
	case event.Cleared != nil:
		fmt.Fprintf(w, "  Cleared: %d\n", event.Cleared.Count)
	}
}

func formatClientDetails(w io.Writer, c *log.ClientEvent) {
	if c.PreviousStatus != "" {
		fmt.Fprintf(w, "  Status: %s -> %s\n", c.PreviousStatus, c.Status)
	} else {
		fmt.Fprintf(w, "  Status: %s\n", c.Status)
	}
	if c.Origin != "" {
		fmt.Fprintf(w, "  Origin: %s\n", c.Origin)
	}
	if c.ProfileName != "" {
		fmt.Fprintf(w, "  Profile: %s\n", c.ProfileName)
	}
	if c.UserAgent != "" {
		fmt.Fprintf(w, "  User-Agent: %s\n", c.UserAgent)
	}
}

func formatInputDetails(w io.Writer, in *log.InputEvent) {
	switch in.Kind {
	case "BUTTON":
		fmt.Fprintf(w, "  %s %s pressed=%t\n", in.Kind, in.Control, in.Pressed)
	case "DPAD":
		fmt.Fprintf(w, "  %s x=%d y=%d\n", in.Kind, in.X, in.Y)
	default:
		fmt.Fprintf(w, "  %s %s %.3f\n", in.Kind, in.Control, in.Value)
	}
}

// RunView prints the events of path matching filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}
