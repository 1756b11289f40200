package config

import "runtime"

// Tuning holds channel buffer and pool sizes for the host.
type Tuning struct {
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	DBMaxOpenConns int
	DBMaxIdleConns int

	// SimulationWorkers bounds concurrent autopilot runs.
	SimulationWorkers int

	MaxClientsPerGame int
}

// DefaultTuning returns sensible defaults for production.
func DefaultTuning() Tuning {
	numCPU := runtime.NumCPU()

	return Tuning{
		BroadcastChannelBuffer: 256,
		ClientSendBuffer:       64,

		// SQLite serialises writers; a small pool keeps readers warm.
		DBMaxOpenConns: 4,
		DBMaxIdleConns: 2,

		SimulationWorkers: numCPU,
		MaxClientsPerGame: 16,
	}
}

// StressTuning returns aggressive settings for load testing.
func StressTuning() Tuning {
	numCPU := runtime.NumCPU()

	return Tuning{
		BroadcastChannelBuffer: 1024,
		ClientSendBuffer:       256,

		DBMaxOpenConns: 8,
		DBMaxIdleConns: 4,

		SimulationWorkers: numCPU * 2,
		MaxClientsPerGame: 128,
	}
}

// LowResourceTuning returns minimal settings for development.
func LowResourceTuning() Tuning {
	return Tuning{
		BroadcastChannelBuffer: 16,
		ClientSendBuffer:       8,

		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,

		SimulationWorkers: 2,
		MaxClientsPerGame: 4,
	}
}

// TuningFor maps a profile name to its settings. Unknown names get the
// defaults.
func TuningFor(profile string) Tuning {
	switch profile {
	case "stress":
		return StressTuning()
	case "low":
		return LowResourceTuning()
	default:
		return DefaultTuning()
	}
}
