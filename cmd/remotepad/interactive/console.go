// Package interactive provides the operator console of remotepad.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/chzyer/readline"

	"github.com/remotegamepad/remotegamepad-go/pkg/device"
	"github.com/remotegamepad/remotegamepad-go/pkg/service"
	"github.com/remotegamepad/remotegamepad-go/pkg/session"
)

// Host is the part of service.Host the console drives.
type Host interface {
	Clients() []session.Session
	Devices() []device.Info
	Status() service.Status
	Deregister(ctx context.Context, clientID string) error
	UpdateProfile(ctx context.Context, clientID, name string) error
	Cleanup(ctx context.Context) (sessions, devices int)
}

var _ Host = (*service.Host)(nil)

// Console handles interactive mode for remotepad.
type Console struct {
	host Host
	rl   *readline.Instance
	out  io.Writer
}

// New creates a console reading commands from the terminal. The console
// is usable for log output right away; commands need a host, which Run
// supplies.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "remotepad> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("help"),
			readline.PcItem("clients"),
			readline.PcItem("devices"),
			readline.PcItem("stats"),
			readline.PcItem("kick"),
			readline.PcItem("rename"),
			readline.PcItem("cleanup"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{rl: rl, out: rl.Stdout()}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop against host. cancel is called
// when the operator quits.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc, host Host) {
	defer c.rl.Close()

	c.host = host

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if quit := c.Execute(ctx, line); quit {
			cancel()
			return
		}
	}
}

// Execute runs one command line. It reports whether the operator asked
// to quit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
	case "clients", "c":
		c.cmdClients()
	case "devices", "d":
		c.cmdDevices()
	case "stats", "s":
		c.cmdStats()
	case "kick", "k":
		c.cmdKick(ctx, args)
	case "rename":
		c.cmdRename(ctx, args)
	case "cleanup":
		c.cmdCleanup(ctx)
	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return true
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Remote Gamepad Commands:
  clients                   - List connected clients
  devices                   - List virtual gamepads
  stats                     - Show host statistics
  kick <client-id>          - Disconnect a client and release its gamepad
  rename <client-id> <name> - Set a client's profile name
  cleanup                   - Remove stale sessions and orphaned gamepads
  help                      - Show this help
  quit                      - Stop the host`)
}

func (c *Console) cmdClients() {
	clients := c.host.Clients()
	if len(clients) == 0 {
		fmt.Fprintln(c.out, "No clients connected")
		return
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].ConnectedAt.Before(clients[j].ConnectedAt)
	})

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tORIGIN\tPROFILE\tSTATUS\tGAMEPAD\tCONNECTED")
	for _, s := range clients {
		pad := "-"
		if s.HasDevice() {
			pad = fmt.Sprintf("%d", s.DeviceID)
		}
		profile := s.ProfileName
		if profile == "" {
			profile = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Origin, profile, s.Status, pad, s.ConnectedAt.Format(time.TimeOnly))
	}
	_ = tw.Flush()
}

func (c *Console) cmdDevices() {
	devices := c.host.Devices()
	if len(devices) == 0 {
		fmt.Fprintln(c.out, "No gamepads allocated")
		return
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCLIENT\tCREATED")
	for _, d := range devices {
		owner := d.ClientID
		if owner == "" {
			owner = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.ID, d.Name, owner, d.CreatedAt.Format(time.TimeOnly))
	}
	_ = tw.Flush()
}

func (c *Console) cmdStats() {
	st := c.host.Status()
	fmt.Fprintf(c.out, "State:     %s\n", st.State)
	fmt.Fprintf(c.out, "Uptime:    %s\n", st.Uptime.Round(time.Second))
	fmt.Fprintf(c.out, "Protocol:  %s\n", st.Protocol)
	fmt.Fprintf(c.out, "Clients:   %d/%d (connected %d, active %d, disconnected %d, error %d)\n",
		st.Clients.Total, st.MaxClients, st.Clients.Connected, st.Clients.Active,
		st.Clients.Disconnected, st.Clients.Error)
	fmt.Fprintf(c.out, "Gamepads:  %d/%d\n", st.Devices, st.MaxDevices)
	pad := st.Gamepad
	fmt.Fprintf(c.out, "Layout:    %04x:%04x, %d buttons, %d axes, dpad %t\n",
		pad.VendorID, pad.ProductID, len(pad.Buttons), len(pad.Axes), pad.DPad)
}

func (c *Console) cmdKick(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: kick <client-id>")
		return
	}
	if err := c.host.Deregister(ctx, args[0]); err != nil {
		c.printError(args[0], err)
		return
	}
	fmt.Fprintf(c.out, "Kicked %s\n", args[0])
}

func (c *Console) cmdRename(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.out, "Usage: rename <client-id> <name>")
		return
	}
	name := strings.Join(args[1:], " ")
	if err := c.host.UpdateProfile(ctx, args[0], name); err != nil {
		c.printError(args[0], err)
		return
	}
	fmt.Fprintf(c.out, "Renamed %s to %q\n", args[0], name)
}

func (c *Console) cmdCleanup(ctx context.Context) {
	sessions, devices := c.host.Cleanup(ctx)
	fmt.Fprintf(c.out, "Removed %d stale sessions and %d orphaned gamepads\n", sessions, devices)
}

func (c *Console) printError(clientID string, err error) {
	if errors.Is(err, session.ErrClientNotFound) {
		fmt.Fprintf(c.out, "No such client: %s\n", clientID)
		return
	}
	fmt.Fprintf(c.out, "Error: %v\n", err)
}
