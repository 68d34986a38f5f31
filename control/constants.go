package control

// Duty-cycle and mode-switch timing, all in milliseconds. Defaults match
// the tuning of the system this controller replaces; fixed per build, not
// reconfigurable through the operator port.
const (
	// DutyCycleMs is the window length for duty-cycle accounting.
	DutyCycleMs = 300_000

	// MinDutyCycleMs is the floor for the duty-cycle accumulator.
	MinDutyCycleMs = 0

	// MinimumIdleTimeCoolingMs is the minimum Idle dwell before the
	// compressor may re-engage.
	MinimumIdleTimeCoolingMs = 90_000

	// MinimumIdleTimeHeatingMs is the minimum Idle dwell before the
	// heater may re-engage.
	MinimumIdleTimeHeatingMs = 10_000

	// MinimumCoolTimeMs is the minimum duration a cooling cycle, once
	// started, must continue.
	MinimumCoolTimeMs = 15_000

	// MinimumHeatTimeMs is the minimum duration a heating cycle, once
	// started, must continue.
	MinimumHeatTimeMs = 30_000

	// MinimumCoolingHeatingSwitchTimeMs is the minimum Idle dwell before
	// the outer mode may flip Cooling to Heating.
	MinimumCoolingHeatingSwitchTimeMs = 3_600_000

	// MinimumHeatingCoolingSwitchTimeMs is the minimum Idle dwell before
	// the outer mode may flip Heating to Cooling.
	MinimumHeatingCoolingSwitchTimeMs = 3_600_000
)

// regulatorOutputLimit bounds the PID correction, positive and negative.
const regulatorOutputLimit = 100.0

// tickInterval is the nominal cadence between control passes. Actual
// deltaMs is measured from the wall clock, never assumed to equal this.
const tickInterval = 1000 // milliseconds
