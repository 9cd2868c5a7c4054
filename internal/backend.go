package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/coolerd/coolerd/internal/api"
	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/controller"
	"github.com/coolerd/coolerd/internal/curves"
	"github.com/coolerd/coolerd/internal/device"
	"github.com/coolerd/coolerd/internal/duty"
	"github.com/coolerd/coolerd/internal/persistence"
	"github.com/coolerd/coolerd/internal/safety"
	"github.com/coolerd/coolerd/internal/sensors"
	"github.com/coolerd/coolerd/internal/statistics"
	"github.com/coolerd/coolerd/internal/telemetry"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// sensorWindowSize is the number of readings in the moving average
// window of every sensor.
const sensorWindowSize = 10

func RunDaemon() {
	if getProcessOwner() != "root" {
		ui.Warning("Not running as root, device access may fail unless udev rules allow it")
	}

	config := &configuration.CurrentConfig

	pers := persistence.NewPersistence(config.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to prepare db path %s: %v", config.DbPath, err)
	}

	dev := createDevice(config)
	// some devices report garbage until initialized once after boot
	if _, err := dev.Initialize(); err != nil {
		ui.Warning("Device initialization failed: %v", err)
	}

	coolerController := initializeObjects(config, dev, pers)

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		// === control loop
		g.Add(func() error {
			err := coolerController.Run(ctx)
			ui.Info("Control loop stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error in control loop: %v", err)
			}
		})
	}
	{
		// === REST api
		if config.Api.Enabled {
			restService := api.NewRestService(coolerController, pers, config)
			echoRest := restService.CreateRestService()

			g.Add(func() error {
				addr := fmt.Sprintf("localhost:%d", config.Api.Port)
				ui.Info("Starting api server on %s", addr)
				if err := echoRest.Start(addr); err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			}, func(err error) {
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := echoRest.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping api server: %v", err)
				} else {
					ui.Info("Api server stopped.")
				}
			})
		}
	}
	{
		// === Prometheus Exporter
		if config.Statistics.Enabled {
			port := config.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			addr := fmt.Sprintf(":%d", port)
			server := &http.Server{Addr: addr, Handler: promhttp.Handler()}

			g.Add(func() error {
				ui.Info("Starting statistics server on %s", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			<-sig
			ui.Info("Received SIGTERM signal, exiting...")
			return nil
		}, func(err error) {
			defer close(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// CreateDevice builds the device handle the way the daemon does, for
// one-shot CLI commands.
func CreateDevice(config *configuration.Configuration) *device.LiquidctlDevice {
	return createDevice(config)
}

func createDevice(config *configuration.Configuration) *device.LiquidctlDevice {
	parser := telemetry.NewParser(FanScale(config), PumpScale(config))
	return device.NewLiquidctlDevice(config.Device, parser)
}

func FanScale(config *configuration.Configuration) duty.Scale {
	return duty.Scale{MinRpm: config.FanScale.MinRpm, MaxRpm: config.FanScale.MaxRpm}
}

func PumpScale(config *configuration.Configuration) duty.Scale {
	return duty.Scale{MinRpm: config.PumpScale.MinRpm, MaxRpm: config.PumpScale.MaxRpm}
}

func initializeObjects(
	config *configuration.Configuration,
	dev device.Device,
	pers persistence.Persistence,
) controller.Controller {
	if err := configuration.Validate(); err != nil {
		ui.Fatal("Invalid configuration: %v", err)
	}

	sensors.InitSensors(sensorWindowSize)
	if err := curves.InitCurves(config.Curves.Definitions); err != nil {
		ui.Fatal("Unable to process curve configuration: %v", err)
	}

	coolerController := controller.NewController(
		config,
		dev,
		pers,
		safety.NewController(config.Safety),
	)

	statistics.Register(statistics.NewSensorCollector())
	statistics.Register(statistics.NewCurveCollector())
	statistics.Register(statistics.NewChannelCollector(coolerController))
	statistics.Register(statistics.NewControllerCollector(coolerController))

	return coolerController
}

func getProcessOwner() string {
	stdout, err := exec.Command("ps", "-o", "user=", "-p", strconv.Itoa(os.Getpid())).Output()
	if err != nil {
		ui.Warning("Error checking process owner: %v", err)
		return ""
	}
	return strings.TrimSpace(string(stdout))
}
