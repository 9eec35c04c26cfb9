// Package config loads the remotepad host configuration.
//
// Values are resolved in this order, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. the YAML file passed with --config
//  3. a ".env" file in the working directory, if present
//  4. RG_* environment variables
//  5. command-line flags (applied by the command)
//
// Example file:
//
//	server:
//	  host: 0.0.0.0
//	  port: 5002
//	  log_level: info
//	gamepads:
//	  max_gamepads: 4
//	  max_clients: 4
//	  name_template: RemoteGamepad-%d
//	  backend: uinput
//	session:
//	  timeout: 1h
//	discovery:
//	  enabled: true
//	mqtt:
//	  broker: tcp://localhost:1883
//	journal:
//	  path: /var/log/remotepad/session.rglog
package config
