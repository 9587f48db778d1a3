package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HardwareBus describes one physical CAN interface attached to the bridge.
type HardwareBus struct {
	Name      string `json:"name" yaml:"name"`
	Interface string `json:"interface" yaml:"interface"`
	QueueSize int    `json:"queue_size" yaml:"queue_size"`
}

// VirtualBus describes one software-modeled CAN bus in the configuration
// tree. Section selects where it is registered ("CanCommunication" or
// "ComSpec"); name resolution for the bridge looks in CanCommunication
// first and only falls back to an index match under ComSpec.
type VirtualBus struct {
	Name        string `json:"name" yaml:"name"`
	Section     string `json:"section" yaml:"section"`
	Index       int    `json:"index" yaml:"index"`
	FDBaudRate  int    `json:"fd_baud_rate" yaml:"fd_baud_rate"`
	TopicPrefix string `json:"topic_prefix" yaml:"topic_prefix"`
}

// FrameDescriptor declares the transmit format of one CAN identifier.
// The identifier is written as a hex string ("0x123") like the rest of
// the tooling around these config files.
type FrameDescriptor struct {
	CanID string `json:"canid" yaml:"canid"`
	FD    bool   `json:"fd" yaml:"fd"`
}

// Uplink holds the MQTT connection to the simulation host.
type Uplink struct {
	BrokerURL  string `json:"broker" yaml:"broker"`
	ClientID   string `json:"client_id" yaml:"client_id"`
	PowerTopic string `json:"power_topic" yaml:"power_topic"`
}

// Bridge holds the settings of the bridge instance itself.
type Bridge struct {
	Name              string `json:"name" yaml:"name"`
	Index             int    `json:"index" yaml:"index"`
	UpdateIntervalMs  int    `json:"update_interval_ms" yaml:"update_interval_ms"`
	SuppressionWindow int    `json:"suppression_window" yaml:"suppression_window"`
}

// Config is the whole configuration tree of one canbridge process.
type Config struct {
	App      string            `json:"app" yaml:"app"`
	Bridge   Bridge            `json:"bridge" yaml:"bridge"`
	Hardware []HardwareBus     `json:"hardware" yaml:"hardware"`
	Virtual  []VirtualBus      `json:"virtual" yaml:"virtual"`
	Frames   []FrameDescriptor `json:"frames" yaml:"frames"`
	Uplink   Uplink            `json:"uplink" yaml:"uplink"`
}

// UpdateInterval returns the drain tick period, defaulting to 10ms.
func (b Bridge) UpdateInterval() time.Duration {
	if b.UpdateIntervalMs <= 0 {
		return 10 * time.Millisecond
	}
	return time.Duration(b.UpdateIntervalMs) * time.Millisecond
}

// Load reads the configuration file at path. The decoder is picked by
// file extension: .yaml/.yml files are parsed as YAML, everything else
// as JSON.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode YAML config from '%s': %w", path, err)
		}
	default:
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode JSON config from '%s': %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.App == "" {
		return fmt.Errorf("app name is empty")
	}
	if c.Bridge.Name == "" {
		return fmt.Errorf("bridge name is empty")
	}
	for i, f := range c.Frames {
		if _, err := ParseCanID(f.CanID); err != nil {
			return fmt.Errorf("frames[%d]: %w", i, err)
		}
	}
	return nil
}

// ParseCanID parses a CAN identifier written as a hex string, with or
// without a 0x prefix.
func ParseCanID(s string) (uint32, error) {
	hexStr := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if hexStr == "" {
		return 0, fmt.Errorf("empty CAN ID")
	}
	id, err := strconv.ParseUint(hexStr, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid CAN ID '%s': %w", s, err)
	}
	return uint32(id), nil
}
