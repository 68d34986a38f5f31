// Package selftest runs a startup-only hardware sanity pass over
// actuators and probes, adapted from the teacher's diag.Manager down to
// the two subsystems this domain has.
package selftest

import (
	"fmt"
	"math"
	"time"

	"github.com/pevers/coldbox/control"
)

// Status mirrors diag.TestStatus's three-value outcome.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusWarning Status = "WARNING"
)

// Kind distinguishes an actuator report from a probe report, since only
// an actuator failure is fatal at startup.
type Kind string

const (
	KindActuator Kind = "actuator"
	KindProbe    Kind = "probe"
)

// Report mirrors diag.TestResult, narrowed to this domain's fields.
type Report struct {
	Kind        Kind
	Component   string
	Status      Status
	Description string
	Error       error
	Timestamp   time.Time
}

// plausibleMinC and plausibleMaxC are not a specification invariant, only
// a startup sanity bound: a probe reporting outside them (or a non-finite
// reading) is almost certainly miswired or
// disconnected, but is logged as a warning rather than treated as fatal.
const (
	plausibleMinC = -40.0
	plausibleMaxC = 60.0
)

// Probe names a single probe path to check, paired with the reader
// function used to parse it (normally probe.Read).
type Probe struct {
	Name string
	Path string
	Read control.ProbeFunc
}

// defaultRetries mirrors diag.Manager's default of 3 attempts before a
// check is recorded as failed.
const defaultRetries = 3

// defaultRetryDelay mirrors diag.Manager.RunAll's pause between retries.
const defaultRetryDelay = time.Second

// Run toggles each named actuator high then low, verifying readback each
// time and leaving both de-energized, then reads each probe once,
// retrying each actuator check up to retries times with retryDelay between
// attempts before recording its final outcome — the same
// retry-then-record shape as diag.Manager.RunAll. retries<=0 defaults to
// defaultRetries; retryDelay<0 defaults to defaultRetryDelay, but 0 is
// honored as an explicit no-delay (used by this package's own tests). An
// actuator that still fails after retries is reported FAIL and is the
// only outcome AnyFatal treats as fatal; probe outcomes are always
// WARNING or PASS, so they are never retried.
func Run(actuators map[string]control.Actuator, probes []Probe, retries int, retryDelay time.Duration) []Report {
	if retries <= 0 {
		retries = defaultRetries
	}
	if retryDelay < 0 {
		retryDelay = defaultRetryDelay
	}

	var reports []Report

	for name, a := range actuators {
		reports = append(reports, retryUntilPass(retries, retryDelay, func() Report {
			return testActuator(name, a)
		}))
	}
	for _, p := range probes {
		reports = append(reports, testProbe(p.Name, p.Read, p.Path))
	}

	return reports
}

// retryUntilPass runs check up to attempts times, sleeping delay between
// tries, and returns the first passing Report or, failing that, the last
// failing one — the same last-attempt-wins behavior as
// diag.Manager.RunAll's retry loop.
func retryUntilPass(attempts int, delay time.Duration, check func() Report) Report {
	var last Report
	for i := 0; i < attempts; i++ {
		last = check()
		if last.Status != StatusFail {
			return last
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return last
}

func testActuator(name string, a control.Actuator) Report {
	now := func() time.Time { return time.Now() }

	if err := a.Set(1); err != nil {
		return Report{Kind: KindActuator, Component: name, Status: StatusFail, Description: "failed to energize", Error: err, Timestamp: now()}
	}
	level, err := a.Get()
	if err != nil {
		_ = a.Set(0)
		return Report{Kind: KindActuator, Component: name, Status: StatusFail, Description: "failed to read back energized state", Error: err, Timestamp: now()}
	}
	if level != 1 {
		_ = a.Set(0)
		return Report{Kind: KindActuator, Component: name, Status: StatusFail, Description: "readback mismatch: commanded 1, read back 0", Timestamp: now()}
	}

	if err := a.Set(0); err != nil {
		return Report{Kind: KindActuator, Component: name, Status: StatusFail, Description: "failed to de-energize", Error: err, Timestamp: now()}
	}
	level, err = a.Get()
	if err != nil {
		return Report{Kind: KindActuator, Component: name, Status: StatusFail, Description: "failed to read back de-energized state", Error: err, Timestamp: now()}
	}
	if level != 0 {
		return Report{Kind: KindActuator, Component: name, Status: StatusFail, Description: "readback mismatch: commanded 0, read back 1", Timestamp: now()}
	}

	return Report{Kind: KindActuator, Component: name, Status: StatusPass, Description: "actuator toggled and read back cleanly", Timestamp: now()}
}

// testProbe never fails fatally: a read error or an implausible reading
// are both reported as warnings, matching how the control loop itself
// treats a probe failure during normal operation (skip, don't halt).
func testProbe(name string, read control.ProbeFunc, path string) Report {
	now := func() time.Time { return time.Now() }

	temp, err := read(path)
	if err != nil {
		return Report{Kind: KindProbe, Component: name, Status: StatusWarning, Description: "failed to read probe", Error: err, Timestamp: now()}
	}
	if math.IsNaN(temp) || temp < plausibleMinC || temp > plausibleMaxC {
		return Report{
			Kind:        KindProbe,
			Component:   name,
			Status:      StatusWarning,
			Description: fmt.Sprintf("reading %.2f°C outside plausible range [%g, %g]", temp, plausibleMinC, plausibleMaxC),
			Timestamp:   now(),
		}
	}
	return Report{Kind: KindProbe, Component: name, Status: StatusPass, Description: fmt.Sprintf("reading %.2f°C", temp), Timestamp: now()}
}

// AnyFatal reports whether reports contains an actuator failure, which
// should abort startup before the control loop ever runs. Probe reports
// are never fatal.
func AnyFatal(reports []Report) bool {
	for _, r := range reports {
		if r.Kind == KindActuator && r.Status == StatusFail {
			return true
		}
	}
	return false
}
