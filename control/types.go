// Package control implements the closed-loop thermal controller: probe
// sampling, PID regulation, duty-cycled actuation, and the Idle/Cooling/
// Heating state machine that arbitrates between them.
package control

import "fmt"

// OperationMode selects which actuator family the regulator may engage.
type OperationMode string

const (
	Cooling OperationMode = "Cooling"
	Heating OperationMode = "Heating"
)

// Mode is the inner actuator state, legal values depending on OperationMode.
type Mode string

const (
	Idle        Mode = "Idle"
	ModeCooling Mode = "Cooling"
	ModeHeating Mode = "Heating"
)

// ActuatorKind identifies one of the two binary actuators.
type ActuatorKind string

const (
	Compressor ActuatorKind = "Compressor"
	Heater     ActuatorKind = "Heater"
)

// Configuration is the operator-authored regulator parameters. It is
// loaded at startup, mutated only through Controller.ApplyConfig, and
// never written from inside the control loop.
type Configuration struct {
	OperationMode OperationMode `json:"operation_mode"`
	TargetTemp    float64       `json:"target_temp"`
	P             float64       `json:"p"`
	I             float64       `json:"i"`
	D             float64       `json:"d"`
}

// DefaultConfiguration mirrors the defaults of the source this system was
// distilled from: a mild cooling setpoint with a proportional-only gain.
func DefaultConfiguration() Configuration {
	return Configuration{
		OperationMode: Cooling,
		TargetTemp:    4.0,
		P:             1.0,
		I:             0.0,
		D:             0.0,
	}
}

// FridgeStatus is the public, immutable-once-published snapshot of the
// loop's most recent pass.
type FridgeStatus struct {
	InsideTemp      float64       `json:"inside_temp"`
	OutsideTemp     float64       `json:"outside_temp"`
	Correction      float64       `json:"correction"`
	OperationMode   OperationMode `json:"operation_mode"`
	Mode            Mode          `json:"mode"`
	ModeMs          float64       `json:"mode_ms"`
	DutyCycle       float64       `json:"duty_cycle"`
	TargetDutyCycle float64       `json:"target_duty_cycle"`
}

// String renders a status line in a compact key=value form.
func (s FridgeStatus) String() string {
	return fmt.Sprintf(
		"inside=%.2f outside=%.2f correction=%.1f operation_mode=%s mode=%s mode_ms=%.0f duty_cycle=%.0f target_duty_cycle=%.0f",
		s.InsideTemp, s.OutsideTemp, s.Correction, s.OperationMode, s.Mode, s.ModeMs, s.DutyCycle, s.TargetDutyCycle,
	)
}
