package control

import (
	"fmt"
	"math"
)

// ValidateConfiguration applies the gate described for the reconfiguration
// port: gains non-negative and finite, target_temp finite, operation_mode
// one of the two literals. Used both by Controller.ApplyConfig and by
// config.Load when rejecting a corrupt on-disk file.
func ValidateConfiguration(cfg Configuration) error {
	if cfg.OperationMode != Cooling && cfg.OperationMode != Heating {
		return fmt.Errorf("%w: operation_mode %q is not Cooling or Heating", ErrConfigurationRejected, cfg.OperationMode)
	}
	if !finite(cfg.TargetTemp) {
		return fmt.Errorf("%w: target_temp is not finite", ErrConfigurationRejected)
	}
	for name, g := range map[string]float64{"p": cfg.P, "i": cfg.I, "d": cfg.D} {
		if !finite(g) || g < 0 {
			return fmt.Errorf("%w: gain %s must be finite and non-negative, got %v", ErrConfigurationRejected, name, g)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
