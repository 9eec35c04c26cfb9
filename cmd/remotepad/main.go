// Command remotepad turns browsers and phones into gamepads for this
// machine.
//
// Each client that connects over HTTP or WebSocket is given its own
// virtual gamepad, created through the Linux uinput subsystem.
//
// Usage:
//
//	remotepad [flags]
//
// Flags:
//
//	--config string       YAML configuration file
//	--host string         Listen host (default "0.0.0.0")
//	--port int            Listen port (default 5002)
//	--max-clients int     Maximum number of clients (default 4)
//	--max-gamepads int    Maximum number of virtual gamepads (default 4)
//	--backend string      Device backend: uinput, memory (default "uinput")
//	--log-level string    Log level: debug, info, warn, error (default "info")
//	--log-json            Log as JSON
//	--journal string      Record a session journal to this file
//	--journal-input       Also journal every input event
//	--static string       Serve the browser client from this directory
//	-i, --interactive     Run the operator console
//	--no-mdns             Do not advertise on the local network
//	--version             Print the version and exit
//
// Examples:
//
//	# Two players, console attached
//	remotepad --max-gamepads 2 --interactive
//
//	# Without uinput, for trying out clients
//	remotepad --backend memory --log-level debug
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/remotegamepad/remotegamepad-go/cmd/remotepad/interactive"
	"github.com/remotegamepad/remotegamepad-go/pkg/config"
	"github.com/remotegamepad/remotegamepad-go/pkg/device"
	"github.com/remotegamepad/remotegamepad-go/pkg/device/uinput"
	"github.com/remotegamepad/remotegamepad-go/pkg/discovery"
	journal "github.com/remotegamepad/remotegamepad-go/pkg/log"
	"github.com/remotegamepad/remotegamepad-go/pkg/mqttbridge"
	"github.com/remotegamepad/remotegamepad-go/pkg/service"
	"github.com/remotegamepad/remotegamepad-go/pkg/transport"
	"github.com/remotegamepad/remotegamepad-go/pkg/version"
)

// options are the flags that are not part of the configuration file.
type options struct {
	ConfigFile   string
	JournalInput bool
	Interactive  bool
	NoMDNS       bool
	ShowVersion  bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "remotepad: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, opts, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if opts.ShowVersion {
		fmt.Println("remotepad", version.Info())
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The console must exist before logging is set up so log output can
	// be routed around the prompt.
	var console *interactive.Console
	var logOut io.Writer = os.Stderr
	if opts.Interactive {
		console, err = interactive.New()
		if err != nil {
			return err
		}
		logOut = console.Stdout()
	}

	logger, err := newLogger(cfg, logOut)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	host, err := newHost(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("remotepad starting",
		"version", version.Info(),
		"address", cfg.Address(),
		"backend", cfg.Gamepads.Backend,
		"max_clients", cfg.Gamepads.MaxClients,
		"max_gamepads", cfg.Gamepads.MaxGamepads)

	// Journal first so it sees every event.
	var recorder *journal.Recorder
	var fileLogger *journal.FileLogger
	if cfg.Journal.Path != "" {
		fileLogger, err = journal.NewFileLogger(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer fileLogger.Close()

		sink := journal.NewMultiLogger(fileLogger, journal.NewSlogAdapter(logger))
		recorder = journal.NewRecorder(sink, journal.RecorderConfig{Input: opts.JournalInput})
		recorder.Attach(host.Bus())
		defer recorder.Detach()
		logger.Info("journal enabled", "path", fileLogger.Path())
	}

	if err := host.Start(ctx); err != nil {
		return fmt.Errorf("start host: %w", err)
	}

	scfg := transport.DefaultServerConfig()
	scfg.Address = cfg.Address()
	scfg.StaticDir = cfg.Server.StaticDir
	scfg.Logger = logger
	server, err := transport.NewServer(host, scfg)
	if err != nil {
		_ = host.Stop()
		return err
	}
	if err := server.Start(ctx); err != nil {
		_ = host.Stop()
		return fmt.Errorf("start transport: %w", err)
	}

	var publisher *discovery.Publisher
	if cfg.Discovery.Enabled && !opts.NoMDNS {
		publisher = startDiscovery(ctx, cfg, host, logger)
	}

	var bridge *mqttbridge.Bridge
	if cfg.MQTT.Broker != "" {
		bridge = startBridge(ctx, cfg, host, logger)
	}

	if console != nil {
		go console.Run(ctx, cancel, host)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	cancel()

	// Transport first so no new clients arrive while the host releases
	// devices; bridge, advertisement and journal still see the teardown.
	if err := server.Stop(); err != nil {
		logger.Warn("transport stop failed", "error", err)
	}
	if err := host.Stop(); err != nil {
		logger.Warn("host stop failed", "error", err)
	}
	if publisher != nil {
		publisher.Stop()
	}
	if bridge != nil {
		bridge.Close()
	}
	if fileLogger != nil {
		written, failed := fileLogger.Stats()
		logger.Info("journal closed", "written", written, "failed", failed)
	}

	logger.Info("goodbye")
	return nil
}

// parseFlags resolves the configuration from file, environment and flags.
func parseFlags(args []string) (*config.Config, options, error) {
	var opts options

	fs := flag.NewFlagSet("remotepad", flag.ContinueOnError)
	fs.StringVar(&opts.ConfigFile, "config", "", "YAML configuration file")
	host := fs.String("host", "", "Listen host")
	port := fs.Int("port", 0, "Listen port")
	maxClients := fs.Int("max-clients", 0, "Maximum number of clients")
	maxGamepads := fs.Int("max-gamepads", 0, "Maximum number of virtual gamepads")
	backend := fs.String("backend", "", "Device backend: uinput, memory")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	logJSON := fs.Bool("log-json", false, "Log as JSON")
	journalPath := fs.String("journal", "", "Record a session journal to this file")
	static := fs.String("static", "", "Serve the browser client from this directory")
	fs.BoolVar(&opts.JournalInput, "journal-input", false, "Also journal every input event")
	fs.BoolVarP(&opts.Interactive, "interactive", "i", false, "Run the operator console")
	fs.BoolVar(&opts.NoMDNS, "no-mdns", false, "Do not advertise on the local network")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, opts, err
	}
	if opts.ShowVersion {
		return nil, opts, nil
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, opts, err
	}

	// Flags override file and environment, but only when given.
	if fs.Changed("host") {
		cfg.Server.Host = *host
	}
	if fs.Changed("port") {
		cfg.Server.Port = *port
	}
	if fs.Changed("max-clients") {
		cfg.Gamepads.MaxClients = *maxClients
	}
	if fs.Changed("max-gamepads") {
		cfg.Gamepads.MaxGamepads = *maxGamepads
		// A lone --max-gamepads raises the client limit with it.
		if !fs.Changed("max-clients") && cfg.Gamepads.MaxClients < *maxGamepads {
			cfg.Gamepads.MaxClients = *maxGamepads
		}
	}
	if fs.Changed("backend") {
		cfg.Gamepads.Backend = *backend
	}
	if fs.Changed("log-level") {
		cfg.Server.LogLevel = *logLevel
		cfg.Server.Debug = false
	}
	if fs.Changed("log-json") {
		cfg.Server.LogJSON = *logJSON
	}
	if fs.Changed("journal") {
		cfg.Journal.Path = *journalPath
	}
	if fs.Changed("static") {
		cfg.Server.StaticDir = *static
	}

	if err := cfg.Validate(); err != nil {
		return nil, opts, err
	}
	return cfg, opts, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}
	if cfg.Server.LogJSON {
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return slog.New(slog.NewTextHandler(w, hopts)), nil
}

func newBackend(name string) device.Backend {
	if name == config.BackendMemory {
		return device.NewMemoryBackend()
	}
	return uinput.New()
}

func newHost(cfg *config.Config, logger *slog.Logger) (*service.Host, error) {
	hc := service.DefaultHostConfig()
	hc.MaxClients = cfg.Gamepads.MaxClients
	hc.MaxDevices = cfg.Gamepads.MaxGamepads
	hc.DeviceNameTemplate = cfg.Gamepads.NameTemplate
	hc.SessionTimeout = cfg.Session.Timeout
	hc.ReaperInterval = cfg.Session.CleanupInterval
	hc.Logger = logger

	return service.NewHost(newBackend(cfg.Gamepads.Backend), hc)
}

func startDiscovery(ctx context.Context, cfg *config.Config, host *service.Host, logger *slog.Logger) *discovery.Publisher {
	acfg := discovery.DefaultAdvertiserConfig()
	acfg.Interface = cfg.Discovery.Interface
	adv, err := discovery.NewMDNSAdvertiser(acfg)
	if err != nil {
		logger.Warn("mdns disabled", "error", err)
		return nil
	}

	info := discovery.HostInfo{
		InstanceName: instanceName(cfg),
		Port:         uint16(cfg.Server.Port),
		Protocol:     version.Current,
		MaxGamepads:  cfg.Gamepads.MaxGamepads,
		Name:         cfg.Discovery.InstanceName,
		Path:         "/",
	}
	pub := discovery.NewPublisher(adv, info, host.FreeDevices, logger)
	if err := pub.Start(ctx, host.Bus()); err != nil {
		logger.Warn("mdns advertisement failed", "error", err)
		return nil
	}
	return pub
}

func instanceName(cfg *config.Config) string {
	name := cfg.Discovery.InstanceName
	if name == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = "host"
		}
		name = "remotepad-" + hostname
	}
	if len(name) > discovery.MaxInstanceNameLen {
		name = name[:discovery.MaxInstanceNameLen]
	}
	return name
}

func startBridge(ctx context.Context, cfg *config.Config, host *service.Host, logger *slog.Logger) *mqttbridge.Bridge {
	mcfg := mqttbridge.DefaultConfig()
	mcfg.Broker = cfg.MQTT.Broker
	mcfg.Username = cfg.MQTT.Username
	mcfg.Password = cfg.MQTT.Password
	mcfg.Logger = logger
	if cfg.MQTT.ClientID != "" {
		mcfg.ClientID = cfg.MQTT.ClientID
	}
	if cfg.MQTT.Prefix != "" {
		mcfg.Prefix = cfg.MQTT.Prefix
	}

	bridge, err := mqttbridge.Dial(ctx, mcfg)
	if err != nil {
		logger.Warn("mqtt bridge disabled", "broker", cfg.MQTT.Broker, "error", err)
		return nil
	}
	bridge.Start(host.Bus())
	logger.Info("mqtt bridge enabled", "broker", cfg.MQTT.Broker, "prefix", mcfg.Prefix)
	return bridge
}
