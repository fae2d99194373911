package util

import (
	"encoding/json"
	"fmt"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

type HAAvailability struct {
	Topic               string `json:"topic"`
	PayloadAvailable    string `json:"payload_available"`
	PayloadNotAvailable string `json:"payload_not_available"`
}

type HADeviceSpec struct {
	Name        string   `json:"name"`
	Identifiers []string `json:"ids"`
}

// HAAdvertisement is a Home Assistant MQTT discovery payload for one
// editable dashboard row, advertised as a switch.
type HAAdvertisement struct { //nolint:govet // struct layout optimized for JSON field order
	Availability []HAAvailability `json:"availability"`
	Device       HADeviceSpec     `json:"device"`
	UniqueID     string           `json:"uniq_id"`
	Name         string           `json:"name"`
	StateTopic   string           `json:"state_topic"`
	CommandTopic string           `json:"command_topic"`
	PayloadOn    string           `json:"payload_on"`
	PayloadOff   string           `json:"payload_off"`
	Platform     string           `json:"platform"`
	Qos          int              `json:"qos"`
}

func (ha HAAdvertisement) ToJson() string {
	data, err := json.Marshal(ha)
	if err != nil {
		Logger.Error().Msgf("Error marshalling HAAdvertisement: %v", err)
		return ""
	}
	return string(data)
}

// ConstructHAAdvertisement builds the discovery payload for one editable
// feed. The dashboard publishes "True"/"False" on the feed topic, so those
// are the switch payloads.
func ConstructHAAdvertisement(key, topic string) HAAdvertisement {
	return HAAdvertisement{
		Name:         key,
		StateTopic:   topic,
		CommandTopic: topic,
		PayloadOn:    "True",
		PayloadOff:   "False",
		Availability: []HAAvailability{
			{
				Topic:               OnlineTopic(),
				PayloadAvailable:    "online",
				PayloadNotAvailable: "offline",
			},
		},
		Qos:      0,
		UniqueID: "dash_display-" + key,
		Platform: "switch",
		Device: HADeviceSpec{
			Name:        "dash_display",
			Identifiers: []string{"dash_display"},
		},
	}
}

// AdvertiseHA announces every editable row to Home Assistant discovery.
// Called from the MQTT connect hook so advertisements survive reconnects.
func AdvertiseHA(keys []string, topicFor func(string) string, client MQTT.Client) {
	for _, key := range keys {
		ad := ConstructHAAdvertisement(key, topicFor(key))
		topic := fmt.Sprintf("homeassistant/switch/dash_display/%s/config", key)
		if token := client.Publish(topic, 0, true, ad.ToJson()); token.Wait() && token.Error() != nil {
			Logger.Warn().Msgf("Error advertising %s to home assistant: %v", key, token.Error())
		}
	}
}
