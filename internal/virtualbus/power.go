package virtualbus

import (
	"log/slog"
	"strings"
	"sync/atomic"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

// PowerFlag tracks whether the attached system is currently powered.
// The bridge queries it on every forwarding attempt; the state itself
// is supplied externally, typically by the simulation host.
type PowerFlag struct {
	on atomic.Bool
}

// NewPowerFlag returns a flag with the given initial state.
func NewPowerFlag(on bool) *PowerFlag {
	p := &PowerFlag{}
	p.on.Store(on)
	return p
}

func (p *PowerFlag) Set(on bool) { p.on.Store(on) }

func (p *PowerFlag) Powered() bool { return p.on.Load() }

// BindMQTT subscribes the flag to a power-state topic. Payloads "on",
// "1" and "true" power the system; "off", "0" and "false" unpower it.
// Anything else is ignored with a warning.
func (p *PowerFlag) BindMQTT(client MQTT.Client, topic string, log *slog.Logger) error {
	token := client.Subscribe(topic, 0, func(_ MQTT.Client, msg MQTT.Message) {
		switch strings.ToLower(strings.TrimSpace(string(msg.Payload()))) {
		case "on", "1", "true":
			p.Set(true)
			log.Info("power state changed", "powered", true)
		case "off", "0", "false":
			p.Set(false)
			log.Info("power state changed", "powered", false)
		default:
			log.Warn("ignoring unrecognized power state payload", "topic", topic, "payload", string(msg.Payload()))
		}
	})
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}
