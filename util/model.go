package util

import (
	"fmt"
)

// DeviceSpec is the config-file shape of one dashboard row.
type DeviceSpec struct {
	Feed_key       string `mapstructure:"feed_key"`
	Default_text   string `mapstructure:"default_text"`
	Formatted_text string `mapstructure:"formatted_text"`
	Toggle         bool   `mapstructure:"toggle"`
}

// Dashboard is the device list as loaded from config. Order in the file is
// display order.
type Dashboard struct {
	Devices []DeviceSpec `mapstructure:"devices"`
}

func (d *Dashboard) Load() error {
	if err := Config.UnmarshalKey("devices", &d.Devices); err != nil {
		return fmt.Errorf("unable to load devices from config: %v", err)
	}
	return d.Validate()
}

// Validate catches config mistakes before they reach the registry.
func (d Dashboard) Validate() error {
	seen := make(map[string]bool, len(d.Devices))
	for _, spec := range d.Devices {
		if spec.Feed_key == "" {
			return fmt.Errorf("device with empty feed_key in config")
		}
		if seen[spec.Feed_key] {
			return fmt.Errorf("duplicate feed_key %q in config", spec.Feed_key)
		}
		seen[spec.Feed_key] = true
	}
	return nil
}

func (d Dashboard) FindDeviceByKey(key string) *DeviceSpec {
	for i, spec := range d.Devices {
		if spec.Feed_key == key {
			return &d.Devices[i]
		}
	}
	return nil
}

// EditableKeys lists the feed keys of rows that publish back.
func (d Dashboard) EditableKeys() []string {
	var keys []string
	for _, spec := range d.Devices {
		if spec.Toggle {
			keys = append(keys, spec.Feed_key)
		}
	}
	return keys
}
