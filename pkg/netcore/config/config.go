// Package config holds the network core's tunable knobs. NetworkConfig is
// a plain struct supplied by the host at construction time — unlike
// pkg/netcore/logging, nothing here reads environment variables or config
// files; protocol behavior must not depend on the process environment.
package config

import "time"

// NetworkConfig enumerates every tunable the network core reads. All
// fields are read-mostly after a server or client is constructed; runtime
// changes are not required to take effect mid-session.
type NetworkConfig struct {
	// TickRate is the server's fixed simulation step, in Hz.
	TickRate int
	// SnapshotRate is the maximum world_snapshot broadcast rate, in Hz.
	SnapshotRate int
	// ClientTickRate is the client's prediction fixed step, in Hz.
	ClientTickRate int
	// InterpolationDelayMs is the render-time delay applied to remote
	// entity interpolation.
	InterpolationDelayMs int64
	// ReconciliationWindow caps the number of unacknowledged inputs an
	// InputBuffer retains.
	ReconciliationWindow int
	// MaxLatencyMs is informational; the core does not auto-disconnect on
	// latency, but a host may use it to decide when to.
	MaxLatencyMs int64

	EnablePrediction     bool
	EnableInterpolation  bool
	EnableReconciliation bool

	Debug bool
}

// DefaultNetworkConfig returns the reference tuning: 20Hz server tick,
// 10Hz snapshots, 60Hz client prediction, 100ms interpolation delay, a
// 60-entry reconciliation window, prediction/interpolation/reconciliation
// all enabled, debug logging off.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		TickRate:             20,
		SnapshotRate:         10,
		ClientTickRate:       60,
		InterpolationDelayMs: 100,
		ReconciliationWindow: 60,
		MaxLatencyMs:         5000,
		EnablePrediction:     true,
		EnableInterpolation:  true,
		EnableReconciliation: true,
		Debug:                false,
	}
}

// TickInterval returns the server's fixed-step period as a time.Duration.
func (c NetworkConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// ClientTickInterval returns the client's prediction fixed-step period.
func (c NetworkConfig) ClientTickInterval() time.Duration {
	return time.Second / time.Duration(c.ClientTickRate)
}

// SnapshotInterval returns the minimum wall-clock spacing between
// broadcast world_snapshot messages.
func (c NetworkConfig) SnapshotInterval() time.Duration {
	return time.Second / time.Duration(c.SnapshotRate)
}
