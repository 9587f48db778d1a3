package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/simtools/canbridge/internal/bridge"
	"github.com/simtools/canbridge/internal/config"
	"github.com/simtools/canbridge/internal/hardware"
	"github.com/simtools/canbridge/internal/virtualbus"
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *config.DebugFlag {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg, err := config.Load(*config.ConfigFileFlag)
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log.Info("configuration loaded",
		"path", *config.ConfigFileFlag, "app", cfg.App,
		"hardware_buses", len(cfg.Hardware), "virtual_buses", len(cfg.Virtual),
		"frames", len(cfg.Frames))

	reg, err := bridge.RegistryFromConfig(cfg)
	if err != nil {
		log.Error("failed to build registry", "error", err)
		os.Exit(1)
	}

	// Hardware endpoints.
	for _, hwCfg := range cfg.Hardware {
		iface := hwCfg.Interface
		if *config.CanIfaceFlag != "" {
			iface = *config.CanIfaceFlag
		}
		ep, err := hardware.NewSocketCAN(iface, hwCfg.QueueSize, log)
		if err != nil {
			log.Error("failed to open hardware CAN bus", "interface", iface, "error", err)
			os.Exit(1)
		}
		defer ep.Close()
		reg.AddHardware(ep)
	}

	// Uplink to the simulation host carrying the virtual buses and the
	// power state.
	broker := cfg.Uplink.BrokerURL
	if *config.BrokerFlag != "" {
		broker = *config.BrokerFlag
	}
	clientID := cfg.Uplink.ClientID
	if clientID == "" {
		clientID = *config.ClientIDFlag
	}
	client, err := virtualbus.NewMQTTClient(broker, clientID, log)
	if err != nil {
		log.Error("failed to connect uplink", "broker", broker, "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(250)

	for _, vbCfg := range cfg.Virtual {
		section := vbCfg.Section
		if section == "" {
			section = bridge.SectionCanCommunication
		}
		bus, err := virtualbus.NewMQTTBus(client, vbCfg.Name, vbCfg.Index, vbCfg.FDBaudRate, vbCfg.TopicPrefix, log)
		if err != nil {
			log.Error("failed to attach virtual CAN bus", "name", vbCfg.Name, "error", err)
			os.Exit(1)
		}
		reg.AddVirtual(section, bus)
	}

	// Power state of the attached system, supplied by the host.
	power := virtualbus.NewPowerFlag(cfg.Uplink.PowerTopic == "")
	if cfg.Uplink.PowerTopic != "" {
		if err := power.BindMQTT(client, cfg.Uplink.PowerTopic, log); err != nil {
			log.Error("failed to subscribe to power topic", "topic", cfg.Uplink.PowerTopic, "error", err)
			os.Exit(1)
		}
	}

	b, err := bridge.New(reg, bridge.Options{
		Name:              cfg.Bridge.Name,
		Index:             cfg.Bridge.Index,
		UpdateInterval:    cfg.Bridge.UpdateInterval(),
		SuppressionWindow: cfg.Bridge.SuppressionWindow,
		Powered:           power.Powered,
		Logger:            log,
	})
	if err != nil {
		log.Error("failed to initialize bridge", "error", err)
		os.Exit(1)
	}

	go b.Run()
	waitForSignal()
	b.Stop()
	log.Info("shutting down")
}

// waitForSignal blocks until an OS signal is received for termination.
func waitForSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
}
