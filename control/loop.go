package control

import (
	"context"
	"fmt"
	"time"
)

// Run drives the periodic control loop until ctx is cancelled, in the
// ticker-plus-select style of thermal.Monitor.Monitor, except deltaMs is
// measured from the wall clock at the top of each pass rather than
// trusted to equal the ticker period.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.deenergizeAll(); err != nil {
		return fmt.Errorf("control: failed to de-energize actuators at startup: %w", err)
	}

	ticker := time.NewTicker(tickInterval * time.Millisecond)
	defer ticker.Stop()

	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			_ = c.deenergizeAll()
			return ctx.Err()
		case <-ticker.C:
			now := time.Now()
			deltaMs := float64(now.Sub(last).Milliseconds())
			last = now

			if err := c.tick(deltaMs); err != nil {
				return err
			}
		}
	}
}

// tick executes exactly one control pass.
func (c *Controller) tick(deltaMs float64) error {
	outsideTemp, err := c.readProbe(c.outsideProbePath)
	if err != nil {
		c.reportProbeError(err)
		return nil
	}
	insideTemp, err := c.readProbe(c.insideProbePath)
	if err != nil {
		c.reportProbeError(err)
		return nil
	}

	c.regMu.Lock()
	correction := c.reg.update(insideTemp, deltaMs/1000.0)
	c.regMu.Unlock()

	targetDutyCycle := targetFromCorrection(correction)

	cmd, err := c.machine.tick(correction, targetDutyCycle, deltaMs)
	if err != nil {
		return err
	}

	if cmd != nil {
		if err := c.write(cmd); err != nil {
			return fmt.Errorf("control: %w", err)
		}
	}

	c.status.publish(FridgeStatus{
		InsideTemp:      insideTemp,
		OutsideTemp:     outsideTemp,
		Correction:      correction,
		OperationMode:   c.machine.operationMode,
		Mode:            c.machine.mode,
		ModeMs:          c.machine.modeMs,
		DutyCycle:       c.machine.duty.value,
		TargetDutyCycle: targetDutyCycle,
	})

	return nil
}

func (c *Controller) write(cmd *actuatorCommand) error {
	switch cmd.kind {
	case Compressor:
		return c.compressor.Set(cmd.level)
	case Heater:
		return c.heater.Set(cmd.level)
	default:
		return fmt.Errorf("%w: unknown actuator kind %q", ErrInvalidMode, cmd.kind)
	}
}

func (c *Controller) deenergizeAll() error {
	if err := c.compressor.Set(0); err != nil {
		return fmt.Errorf("compressor: %w", err)
	}
	if err := c.heater.Set(0); err != nil {
		return fmt.Errorf("heater: %w", err)
	}
	return nil
}

func (c *Controller) reportProbeError(err error) {
	if c.onProbeError != nil {
		c.onProbeError(err)
	}
}
