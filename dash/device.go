package dash

import (
	"fmt"
	"strings"
)

// PubFunc is the publish callback attached to an editable device. It
// receives the device's current value and owns whatever transformation gets
// published - the controller never interprets the value itself.
type PubFunc func(current Value)

// Device binds one feed to one display row.
type Device struct {
	Key         string
	DefaultText string
	Format      string
	Pub         PubFunc

	verb  byte
	value Value
}

func (d *Device) Editable() bool {
	return d.Pub != nil
}

func (d *Device) Value() Value {
	return d.value
}

func (d *Device) SetValue(v Value) {
	d.value = v
}

// Text renders the device's display line. A feed value that doesn't fit the
// template falls back to the raw payload, and a device with no value yet
// shows its default text.
func (d *Device) Text() string {
	if !d.value.IsSet() {
		return d.DefaultText
	}
	line := fmt.Sprintf(d.Format, d.value.arg(d.verb))
	if !strings.Contains(line, "%!") {
		return line
	}
	line = fmt.Sprintf(d.Format, d.value.Payload())
	if !strings.Contains(line, "%!") {
		return line
	}
	return d.DefaultText
}

// formatVerb validates that format contains exactly one fmt slot and returns
// its verb letter. "%%" escapes don't count as slots.
func formatVerb(format string) (byte, error) {
	var verb byte
	slots := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		if i+1 >= len(format) {
			return 0, fmt.Errorf("template %q ends mid-verb", format)
		}
		if format[i+1] == '%' {
			i++
			continue
		}
		j := i + 1
		for j < len(format) && strings.ContainsRune("+-# 0123456789.", rune(format[j])) {
			j++
		}
		if j >= len(format) {
			return 0, fmt.Errorf("template %q ends mid-verb", format)
		}
		verb = format[j]
		slots++
		i = j
	}
	if slots != 1 {
		return 0, fmt.Errorf("template %q has %d format slots, want exactly 1", format, slots)
	}
	return verb, nil
}

// Registry is the ordered set of dashboard rows. Insertion order is display
// and navigation order; devices are never removed or reordered.
type Registry struct {
	devices []*Device
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Add(key, defaultText, format string, pub PubFunc) (*Device, error) {
	if key == "" {
		return nil, fmt.Errorf("feed key must not be empty")
	}
	if r.Find(key) != nil {
		return nil, fmt.Errorf("duplicate feed key %q", key)
	}
	if defaultText == "" {
		defaultText = key
	}
	if format == "" {
		format = key + ": %v"
	}
	verb, err := formatVerb(format)
	if err != nil {
		return nil, err
	}
	d := &Device{
		Key:         key,
		DefaultText: defaultText,
		Format:      format,
		Pub:         pub,
		verb:        verb,
	}
	r.devices = append(r.devices, d)
	return d, nil
}

func (r *Registry) Len() int {
	return len(r.devices)
}

func (r *Registry) At(i int) *Device {
	return r.devices[i]
}

// Find returns the device bound to key, or nil. Linear scan - the registry
// holds a handful of rows.
func (r *Registry) Find(key string) *Device {
	for _, d := range r.devices {
		if d.Key == key {
			return d
		}
	}
	return nil
}

func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.devices))
	for _, d := range r.devices {
		keys = append(keys, d.Key)
	}
	return keys
}

// IndexOf returns the row index for key, or -1.
func (r *Registry) IndexOf(key string) int {
	for i, d := range r.devices {
		if d.Key == key {
			return i
		}
	}
	return -1
}
