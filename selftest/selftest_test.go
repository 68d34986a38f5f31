package selftest

import (
	"errors"
	"testing"

	"github.com/pevers/coldbox/control"
)

type fakeActuator struct {
	level      int
	setErr     error
	getErr     error
	stuckLevel int
	stuck      bool
}

func (f *fakeActuator) Set(level int) error {
	if f.setErr != nil {
		return f.setErr
	}
	if !f.stuck {
		f.level = level
	}
	return nil
}

func (f *fakeActuator) Get() (int, error) {
	if f.getErr != nil {
		return 0, f.getErr
	}
	if f.stuck {
		return f.stuckLevel, nil
	}
	return f.level, nil
}

// flakyActuator fails every call (Set and Get alike) until failFor calls
// have happened, then behaves like a healthy actuator, modeling a
// transient fault the retry loop is meant to absorb.
type flakyActuator struct {
	failFor int
	calls   int
	level   int
}

func (f *flakyActuator) Set(level int) error {
	f.calls++
	if f.calls <= f.failFor {
		return errors.New("transient fault")
	}
	f.level = level
	return nil
}

func (f *flakyActuator) Get() (int, error) {
	if f.calls <= f.failFor {
		return 0, errors.New("transient fault")
	}
	return f.level, nil
}

func TestRunPassesHealthyActuatorAndProbe(t *testing.T) {
	a := &fakeActuator{}
	reports := Run(
		map[string]control.Actuator{"compressor": a},
		[]Probe{{Name: "inside", Path: "inside", Read: func(string) (float64, error) { return 4.0, nil }}},
		1, 0,
	)
	if AnyFatal(reports) {
		t.Errorf("AnyFatal = true for a healthy run")
	}
	for _, r := range reports {
		if r.Status != StatusPass {
			t.Errorf("report %+v, want PASS", r)
		}
	}
	if a.level != 0 {
		t.Errorf("actuator left energized after self-test, level = %d", a.level)
	}
}

func TestRunFlagsStuckActuatorAsFatal(t *testing.T) {
	a := &fakeActuator{stuck: true, stuckLevel: 0}
	reports := Run(map[string]control.Actuator{"heater": a}, nil, 2, 0)
	if !AnyFatal(reports) {
		t.Errorf("AnyFatal = false for an actuator whose readback never changes")
	}
}

func TestRunFlagsWriteFailureAsFatal(t *testing.T) {
	a := &fakeActuator{setErr: errors.New("boom")}
	reports := Run(map[string]control.Actuator{"compressor": a}, nil, 2, 0)
	if !AnyFatal(reports) {
		t.Errorf("AnyFatal = false for a write failure")
	}
}

func TestRunRecoversOnRetryAfterTransientFailure(t *testing.T) {
	a := &flakyActuator{failFor: 2}
	reports := Run(map[string]control.Actuator{"compressor": a}, nil, 3, 0)
	if AnyFatal(reports) {
		t.Errorf("AnyFatal = true for an actuator that recovered within the retry budget")
	}
	if len(reports) != 1 || reports[0].Status != StatusPass {
		t.Errorf("reports = %+v, want a single PASS", reports)
	}
}

func TestRunDefaultsRetriesWhenNonPositive(t *testing.T) {
	a := &flakyActuator{failFor: defaultRetries - 1}
	reports := Run(map[string]control.Actuator{"compressor": a}, nil, 0, 0)
	if AnyFatal(reports) {
		t.Errorf("AnyFatal = true even though the default retry budget should have covered the flake")
	}
}

func TestRunFlagsImplausibleProbeAsWarningNotFatal(t *testing.T) {
	reports := Run(nil, []Probe{
		{Name: "outside", Path: "outside", Read: func(string) (float64, error) { return 500.0, nil }},
	}, 1, 0)
	if AnyFatal(reports) {
		t.Errorf("AnyFatal = true for an implausible-but-readable probe")
	}
	if len(reports) != 1 || reports[0].Status != StatusWarning {
		t.Errorf("reports = %+v, want a single WARNING", reports)
	}
}

func TestRunFlagsUnreadableProbeAsWarningNotFatal(t *testing.T) {
	reports := Run(nil, []Probe{
		{Name: "outside", Path: "outside", Read: func(string) (float64, error) { return 0, errors.New("no such file") }},
	}, 1, 0)
	if AnyFatal(reports) {
		t.Errorf("AnyFatal = true for an unreadable probe")
	}
	if len(reports) != 1 || reports[0].Status != StatusWarning {
		t.Errorf("reports = %+v, want a single WARNING", reports)
	}
}
