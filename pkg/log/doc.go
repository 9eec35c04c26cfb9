// Package log provides the structured session journal of a remote gamepad
// host.
//
// The journal is separate from operational logging (slog). It is a
// machine-readable trace of every client lifecycle change, device
// allocation and, optionally, every routed input event, intended for
// replaying what happened during a session.
//
// # Basic Usage
//
// A [Recorder] subscribes to the host's event bus and forwards every event
// to a [Logger]:
//
//	journal, _ := log.NewFileLogger("/var/log/remotepad/host.rglog")
//	rec := log.NewRecorder(journal, log.RecorderConfig{Input: true})
//	rec.Attach(host.Bus())
//	defer rec.Detach()
//
// For development the journal can be mirrored to the console:
//
//	log.NewMultiLogger(journal, log.NewSlogAdapter(slog.Default()))
//
// # File Format
//
// Journal files are a stream of CBOR-encoded [Event] values with integer
// keys and use the .rglog extension. The padlog tool views, filters,
// summarizes and exports them.
package log
