// Command coldboxd is the daemon entrypoint: it wires probes and
// actuators to a control.Controller, runs a startup self-test, and
// serves the HTTP API and Prometheus metrics until signalled to stop.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pevers/coldbox/actuator"
	"github.com/pevers/coldbox/config"
	"github.com/pevers/coldbox/control"
	"github.com/pevers/coldbox/httpapi"
	"github.com/pevers/coldbox/metrics"
	"github.com/pevers/coldbox/probe"
	"github.com/pevers/coldbox/selftest"
)

func main() {
	configPath := flag.String("config", "/etc/coldbox/coldbox.ini", "path to the persisted configuration file")
	insideProbe := flag.String("inside-probe", "/sys/bus/w1/devices/28-inside/w1_slave", "one-wire device file for the inside probe")
	outsideProbe := flag.String("outside-probe", "/sys/bus/w1/devices/28-outside/w1_slave", "one-wire device file for the outside probe")
	compressorPin := flag.String("compressor-pin", "GPIO17", "GPIO pin driving the compressor relay")
	heaterPin := flag.String("heater-pin", "GPIO27", "GPIO pin driving the heater relay")
	apiAddr := flag.String("api-addr", ":8080", "HTTP API listen address")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics listen address")
	flag.Parse()

	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cfgStore := &config.Store{Path: *configPath}
	initial, err := cfgStore.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("rejected persisted configuration, falling back to defaults")
		initial = control.DefaultConfiguration()
	}

	compressor, err := actuator.Open(*compressorPin)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open compressor actuator")
	}
	heater, err := actuator.Open(*heaterPin)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open heater actuator")
	}

	reports := selftest.Run(
		map[string]control.Actuator{
			"compressor": compressor,
			"heater":     heater,
		},
		[]selftest.Probe{
			{Name: "inside", Path: *insideProbe, Read: probe.Read},
			{Name: "outside", Path: *outsideProbe, Read: probe.Read},
		},
		3, time.Second,
	)
	for _, r := range reports {
		ev := logger.Info()
		if r.Status == selftest.StatusFail {
			ev = logger.Error()
		} else if r.Status == selftest.StatusWarning {
			ev = logger.Warn()
		}
		ev.Str("component", r.Component).Str("status", string(r.Status)).Msg(r.Description)
	}
	if selftest.AnyFatal(reports) {
		logger.Fatal().Msg("self-test reported a fatal actuator failure, refusing to start the control loop")
	}

	controller, err := control.New(control.Config{
		InsideProbePath:  *insideProbe,
		OutsideProbePath: *outsideProbe,
		ReadProbe:        probe.Read,
		Compressor:       compressor,
		Heater:           heater,
		Initial:          initial,
		OnProbeError: func(err error) {
			logger.Warn().Err(err).Msg("probe read failed, skipping control pass")
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to construct controller")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	collector := metrics.NewCollector(controller)
	registry := prometheus.NewRegistry()
	if err := registry.Register(collector); err != nil {
		logger.Fatal().Err(err).Msg("failed to register metrics collector")
	}
	metricsSrv := &http.Server{
		Addr:    *metricsAddr,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		logger.Info().Str("addr", *metricsAddr).Msg("starting metrics endpoint")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics endpoint failed")
		}
	}()
	go func() {
		<-ctx.Done()
		_ = metricsSrv.Close()
	}()

	apiSrv := httpapi.New(httpapi.Config{Addr: *apiAddr}, controller, cfgStore, logger)
	go func() {
		if err := apiSrv.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("HTTP API stopped with an error")
		}
	}()

	if err := controller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("control loop stopped with an error")
	}
	logger.Info().Msg("shutdown complete")
}
