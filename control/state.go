package control

import (
	"fmt"
	"sync"
)

// Config wires a Controller's dependencies: the two probe paths, the two
// actuators, and the configuration loaded at startup. Mirrors the
// teacher's Config-struct-plus-New(cfg) idiom (thermal.Config,
// power.Config).
type Config struct {
	InsideProbePath  string
	OutsideProbePath string
	ReadProbe        ProbeFunc

	Compressor Actuator
	Heater     Actuator

	Initial Configuration

	// OnProbeError, if set, is called whenever a probe read fails and a
	// pass is skipped. Mirrors thermal.Config's OnWarning/OnCritical
	// callback idiom rather than the control loop depending on a logger.
	OnProbeError func(error)
}

// Controller owns the two cooperating locks described by the concurrency
// model: a Configuration lock (cfgMu) mutated by the operator thread and
// read by New/Configuration, and a Regulator lock (regMu) touched by both
// the operator thread (ApplyConfig) and the control thread (each tick).
// The mode machine (mode, mode_ms, duty_cycle) belongs exclusively to the
// control thread and needs no lock of its own.
type Controller struct {
	cfgMu sync.RWMutex
	cfg   Configuration

	regMu sync.Mutex
	reg   *regulator

	machine *modeMachine

	status statusBox

	insideProbePath  string
	outsideProbePath string
	readProbe        ProbeFunc

	compressor Actuator
	heater     Actuator

	onProbeError func(error)
}

// New validates cfg and constructs a Controller ready to Run.
func New(cfg Config) (*Controller, error) {
	if cfg.ReadProbe == nil {
		return nil, fmt.Errorf("control: ReadProbe is required")
	}
	if cfg.InsideProbePath == "" || cfg.OutsideProbePath == "" {
		return nil, fmt.Errorf("control: both probe paths are required")
	}
	if cfg.Compressor == nil || cfg.Heater == nil {
		return nil, fmt.Errorf("control: both actuators are required")
	}
	if (cfg.Initial == Configuration{}) {
		cfg.Initial = DefaultConfiguration()
	}
	if err := ValidateConfiguration(cfg.Initial); err != nil {
		return nil, err
	}

	return &Controller{
		cfg:              cfg.Initial,
		reg:              newRegulator(cfg.Initial),
		machine:          newModeMachine(cfg.Initial.OperationMode),
		insideProbePath:  cfg.InsideProbePath,
		outsideProbePath: cfg.OutsideProbePath,
		readProbe:        cfg.ReadProbe,
		compressor:       cfg.Compressor,
		heater:           cfg.Heater,
		onProbeError:     cfg.OnProbeError,
	}, nil
}

// Configuration returns the currently stored operator configuration.
func (c *Controller) Configuration() Configuration {
	c.cfgMu.RLock()
	defer c.cfgMu.RUnlock()
	return c.cfg
}

// Status returns the latest published FridgeStatus snapshot.
func (c *Controller) Status() FridgeStatus {
	return c.status.load()
}

// Ready reports whether the control loop has published at least one
// status snapshot, used by the HTTP health check.
func (c *Controller) Ready() bool {
	return c.status.published()
}

// ApplyConfig is the sole reconfiguration port described by the
// specification: it validates, then overwrites Configuration and
// re-applies gains/setpoint to the regulator, resetting its integral
// term. Lock order is Configuration then Regulator, matching the fixed
// order required whenever both are needed in one logical operation. It
// never touches FridgeStatus or the actuators; any behavioral change
// propagates through the next control pass.
func (c *Controller) ApplyConfig(next Configuration) error {
	if err := ValidateConfiguration(next); err != nil {
		return err
	}

	c.cfgMu.Lock()
	defer c.cfgMu.Unlock()

	c.regMu.Lock()
	defer c.regMu.Unlock()

	c.cfg = next
	c.reg.setGains(next.P, next.I, next.D)
	c.reg.setTarget(next.TargetTemp)
	c.reg.resetIntegral()

	return nil
}
