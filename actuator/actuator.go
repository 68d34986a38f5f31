// Package actuator drives a single binary GPIO line (compressor or
// heater), narrowed from the teacher's multi-pin, PWM-capable
// gpio.Controller down to the one-pin, strictly-binary need of this
// domain.
package actuator

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// hostInitOnce guards periph.io's host.Init, which must run exactly once
// per process before gpioreg.ByName resolves anything, matching
// gpio.Controller.New and the button/oled drivers this package is
// modeled on.
var (
	hostInitOnce sync.Once
	hostInitErr  error
)

// ErrWriteFailed is returned when the backing pin cannot be driven.
var ErrWriteFailed = errors.New("actuator: write failed")

// ErrReadFailed is returned when the backing pin cannot be read back.
// periph.io's gpio.PinIO.Read has no error return; this surfaces only
// when the pin itself could not be resolved, mirroring gpio.Controller's
// own nil-pin-is-an-error idiom.
var ErrReadFailed = errors.New("actuator: read failed")

// pin is the narrow slice of gpio.PinIO this package actually drives —
// every periph.io pin satisfies it, but a test fake needs implement only
// these two methods instead of the full interface.
type pin interface {
	Out(l gpio.Level) error
	Read() gpio.Level
}

// Actuator wraps a single periph.io GPIO line, exported and set to
// output direction at construction, de-energized until Set is called.
type Actuator struct {
	mu   sync.Mutex
	name string
	pin  pin
}

// Open resolves name through gpioreg, trying it verbatim first and then
// as a bare line-number string, matching the fallback pattern used by
// the fan and button drivers this package is modeled on. The pin is
// configured for output and driven low immediately.
func Open(name string) (*Actuator, error) {
	hostInitOnce.Do(func() {
		_, hostInitErr = host.Init()
	})
	if hostInitErr != nil {
		return nil, fmt.Errorf("actuator: failed to initialize GPIO host: %w", hostInitErr)
	}

	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("actuator: no GPIO pin registered for %q", name)
	}

	a := &Actuator{name: name, pin: p}
	if err := a.Set(0); err != nil {
		return nil, fmt.Errorf("actuator: failed to initialize pin %q low: %w", name, err)
	}
	return a, nil
}

// NewSimulated wraps an already-resolved pin, used by tests and by
// simulation-mode callers that construct their own periph.io pins
// without going through the registry.
func NewSimulated(name string, p pin) *Actuator {
	return &Actuator{name: name, pin: p}
}

// Set drives the line. Any nonzero level maps to high.
func (a *Actuator) Set(level int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pin == nil {
		return fmt.Errorf("%w: %s: pin is nil", ErrWriteFailed, a.name)
	}

	l := gpio.Low
	if level != 0 {
		l = gpio.High
	}
	if err := a.pin.Out(l); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, a.name, err)
	}
	return nil
}

// Get reads back the current level.
func (a *Actuator) Get() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pin == nil {
		return 0, fmt.Errorf("%w: %s: pin is nil", ErrReadFailed, a.name)
	}
	if a.pin.Read() == gpio.High {
		return 1, nil
	}
	return 0, nil
}

// Name returns the pin name this actuator was opened with.
func (a *Actuator) Name() string {
	return a.name
}
