package main

import (
	"fmt"
	"os"
	"text/template"
)

type GenData struct {
	Devices  []GenDevice
	Broker   string
	Username string
	Prefix   string
	Port     int
}

type GenDevice struct {
	Key     string
	Default string
	Format  string
	Toggle  bool
}

const configTemplate = `# dash_display configuration
broker_uri: {{.Broker}}
username: {{.Username}}
password: ""
feed_prefix: {{.Prefix}}
log_level: info
tick_ms: 10
debounce_samples: 3
fetch_timeout_ms: 1500
details_port: {{.Port}}
screen_width: 240
screen_height: 240

devices:
{{- range .Devices}}
  - feed_key: {{.Key}}
    default_text: "{{.Default}}"
    formatted_text: "{{.Format}}"
    toggle: {{.Toggle}}
{{- end}}
`

func main() {
	data := GenData{
		Broker:   "tcp://mqtt:1883",
		Username: "dash",
		Prefix:   "dash",
		Port:     8089,
		Devices: []GenDevice{{
			Key:     "lamp",
			Default: "Lamp: ",
			Format:  "Lamp: %v",
			Toggle:  true,
		}, {
			Key:     "temperature",
			Default: "Temperature: ",
			Format:  "Temperature: %.1f C",
		}, {
			Key:     "humidity",
			Default: "Humidity: ",
			Format:  "Humidity: %.2f%%",
		}},
	}
	t, err := template.New("dash_display").Parse(configTemplate)
	if err != nil {
		fmt.Printf("Error parsing template: %v\n", err)
		return
	}
	t.Option("missingkey=zero")
	if e := t.Execute(os.Stdout, data); e != nil {
		fmt.Printf("Template execution error: %v\n", e)
	}
}
