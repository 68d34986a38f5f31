package control

import "fmt"

// actuatorCommand is the at-most-one actuator write a single tick of the
// mode machine may produce.
type actuatorCommand struct {
	kind  ActuatorKind
	level int
}

// modeMachine is the nested Idle/Cooling/Heating state machine, gated by
// an outer OperationMode, in the style of the teacher's per-tick update
// functions (thermal.updateCooling) rather than a generic FSM library —
// see DESIGN.md for why.
type modeMachine struct {
	operationMode OperationMode
	mode          Mode
	modeMs        float64
	duty          dutyCycle
}

func newModeMachine(initial OperationMode) *modeMachine {
	return &modeMachine{
		operationMode: initial,
		mode:          Idle,
	}
}

// tick evaluates one control pass. correction and deltaMs come from the
// caller; targetDutyCycle is derived from correction by the caller via
// targetFromCorrection. Returns the actuator write to perform, if any.
func (m *modeMachine) tick(correction, targetDutyCycle, deltaMs float64) (*actuatorCommand, error) {
	switch m.operationMode {
	case Cooling:
		return m.tickCooling(correction, targetDutyCycle, deltaMs)
	case Heating:
		return m.tickHeating(correction, targetDutyCycle, deltaMs)
	default:
		return nil, fmt.Errorf("%w: unknown operation_mode %q", ErrInvalidMode, m.operationMode)
	}
}

func (m *modeMachine) tickCooling(correction, targetDutyCycle, deltaMs float64) (*actuatorCommand, error) {
	var cmd *actuatorCommand

	switch m.mode {
	case Idle:
		m.duty.advance(false, deltaMs)

		switch {
		case correction < 0 && m.duty.value < targetDutyCycle && m.modeMs >= MinimumIdleTimeCoolingMs:
			m.mode = ModeCooling
			m.modeMs = 0
			cmd = &actuatorCommand{kind: Compressor, level: 1}
		case correction >= 0 && m.modeMs >= MinimumCoolingHeatingSwitchTimeMs:
			m.operationMode = Heating
			m.mode = Idle
			m.modeMs = 0
		}

	case ModeCooling:
		m.duty.advance(true, deltaMs)

		if m.modeMs >= MinimumCoolTimeMs && m.duty.value > targetDutyCycle {
			m.mode = Idle
			m.modeMs = 0
			cmd = &actuatorCommand{kind: Compressor, level: 0}
		}

	default:
		return nil, fmt.Errorf("%w: mode %q illegal under operation_mode Cooling", ErrInvalidMode, m.mode)
	}

	m.modeMs += deltaMs
	return cmd, nil
}

func (m *modeMachine) tickHeating(correction, targetDutyCycle, deltaMs float64) (*actuatorCommand, error) {
	var cmd *actuatorCommand

	switch m.mode {
	case Idle:
		m.duty.advance(false, deltaMs)

		switch {
		case correction > 0 && m.duty.value < targetDutyCycle && m.modeMs >= MinimumIdleTimeHeatingMs:
			m.mode = ModeHeating
			m.modeMs = 0
			cmd = &actuatorCommand{kind: Heater, level: 1}
		case correction <= 0 && m.modeMs >= MinimumHeatingCoolingSwitchTimeMs:
			m.operationMode = Cooling
			m.mode = Idle
			m.modeMs = 0
		}

	case ModeHeating:
		m.duty.advance(true, deltaMs)

		if m.modeMs >= MinimumHeatTimeMs && m.duty.value > targetDutyCycle {
			m.mode = Idle
			m.modeMs = 0
			cmd = &actuatorCommand{kind: Heater, level: 0}
		}

	default:
		return nil, fmt.Errorf("%w: mode %q illegal under operation_mode Heating", ErrInvalidMode, m.mode)
	}

	m.modeMs += deltaMs
	return cmd, nil
}
