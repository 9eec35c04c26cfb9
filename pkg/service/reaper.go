package service

import (
	"context"
	"time"
)

// runReaper periodically drops sessions that ended more than
// SessionTimeout ago and releases devices whose client is gone.
func (h *Host) runReaper() {
	defer h.reaper.Done()

	ticker := time.NewTicker(h.config.ReaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			if sessions, devices := h.Cleanup(h.ctx); sessions+devices > 0 {
				h.debugLog("reaper: cleaned up", "sessions", sessions, "devices", devices)
			}
		}
	}
}

// Cleanup removes expired sessions and releases dangling devices. It
// returns how many of each were removed.
func (h *Host) Cleanup(ctx context.Context) (sessions, devices int) {
	sessions = h.registry.CleanupInactive(ctx, h.config.SessionTimeout)
	devices = h.releaseDangling(ctx)
	return sessions, devices
}

// releaseDangling removes devices bound to clients that are no longer
// registered. Register adds the client before creating its device, so a
// device in flight is never taken for dangling.
func (h *Host) releaseDangling(ctx context.Context) int {
	released := 0
	for _, info := range h.devices.ListDevices() {
		if _, ok := h.registry.GetClient(info.ClientID); ok {
			continue
		}
		if err := h.devices.RemoveDevice(ctx, info.ID); err == nil {
			h.debugLog("released dangling device", "device", info.ID, "client", info.ClientID)
			released++
		}
	}
	return released
}
