package feed

import (
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/elijahnyp/dash_display/dash"
	"github.com/elijahnyp/dash_display/util"
)

// Bridge adapts the shared MQTT client to the hub's FeedBridge contract.
// Subscriptions are registered through the util registry so they are
// (re)applied on every connect; delivered values queue in a buffered channel
// that Poll drains without blocking.
type Bridge struct {
	updates chan dash.Update
}

const updateQueueDepth = 64

func NewBridge() *Bridge {
	return &Bridge{updates: make(chan dash.Update, updateQueueDepth)}
}

// TopicFor maps a feed key onto its MQTT topic.
func TopicFor(key string) string {
	return util.Config.GetString("feed_prefix") + "/" + key
}

func (b *Bridge) Subscribe(key string) error {
	topic := TopicFor(key)
	handler := func(client MQTT.Client, message MQTT.Message) {
		b.deliver(key, string(message.Payload()))
	}
	util.RegisterMQTTSubscription(topic, handler)
	if util.Client != nil && util.Client.IsConnected() {
		if token := util.Client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
			return token.Error()
		}
	}
	return nil
}

func (b *Bridge) deliver(key, payload string) {
	select {
	case b.updates <- dash.Update{Key: key, Value: dash.ParseValue(payload)}:
	default:
		util.Logger.Warn().Msgf("update queue full - dropping %s", key)
	}
}

// Poll drains whatever has arrived since the last tick.
func (b *Bridge) Poll() []dash.Update {
	var out []dash.Update
	for {
		select {
		case u := <-b.updates:
			out = append(out, u)
		default:
			return out
		}
	}
}

// FetchAll requests each feed's retained value by publishing to its /get
// topic, then collects answers until every key has reported or the window
// closes. Feeds that stay silent are simply absent from the result.
func (b *Bridge) FetchAll(keys []string) map[string]dash.Value {
	got := make(map[string]dash.Value)
	if util.Client == nil || !util.Client.IsConnected() {
		util.Logger.Warn().Msg("fetch requested without a connected client")
		return got
	}
	want := make(map[string]bool, len(keys))
	for _, key := range keys {
		want[key] = true
		if token := util.Client.Publish(TopicFor(key)+"/get", 0, false, ""); token.Wait() && token.Error() != nil {
			util.Logger.Warn().Msgf("get request for %s failed: %v", key, token.Error())
		}
	}
	deadline := time.After(time.Duration(util.Config.GetInt("fetch_timeout_ms")) * time.Millisecond)
	remaining := len(keys)
	for remaining > 0 {
		select {
		case u := <-b.updates:
			if want[u.Key] && !isSet(got, u.Key) {
				remaining--
			}
			got[u.Key] = u.Value
		case <-deadline:
			return got
		}
	}
	return got
}

func isSet(m map[string]dash.Value, key string) bool {
	_, ok := m[key]
	return ok
}

// Publish sends the value to the feed topic, retained so late subscribers
// and the /get convention see the latest state. The token wait happens off
// the tick loop; failure is logged, never surfaced.
func (b *Bridge) Publish(key string, v dash.Value) error {
	if util.Client == nil || !util.Client.IsConnected() {
		util.Logger.Warn().Msgf("publish to %s skipped - not connected", key)
		return nil // auto-reconnect owns recovery; the row keeps its local value
	}
	token := util.Client.Publish(TopicFor(key), 0, true, v.Payload())
	go func() {
		if token.Wait() && token.Error() != nil {
			util.Logger.Warn().Msgf("publish to %s failed: %v", key, token.Error())
		}
	}()
	return nil
}
