package feed

import (
	"strconv"
	"sync"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/elijahnyp/dash_display/dash"
	"github.com/elijahnyp/dash_display/util"
)

var channelNames = map[string]int{
	"up":     dash.CHAN_UP,
	"select": dash.CHAN_SELECT,
	"down":   dash.CHAN_DOWN,
	"back":   dash.CHAN_BACK,
	"submit": dash.CHAN_SUBMIT,
}

// ChannelByName resolves a button name from config or a press request.
func ChannelByName(name string) (int, bool) {
	ch, ok := channelNames[name]
	return ch, ok
}

// Buttons is a Sampler whose levels are latched from outside the tick loop:
// MQTT button topics, the monitor server's /press endpoint, or a real GPIO
// shim calling Set. Reads are instantaneous levels; the mux does the
// debouncing.
type Buttons struct {
	mu    sync.Mutex
	state [dash.NUM_CHANNELS]bool
}

func NewButtons() *Buttons {
	return &Buttons{}
}

func (b *Buttons) Read(channel int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if channel < 0 || channel >= dash.NUM_CHANNELS {
		return false
	}
	return b.state[channel]
}

func (b *Buttons) Set(channel int, pressed bool) {
	if channel < 0 || channel >= dash.NUM_CHANNELS {
		return
	}
	b.mu.Lock()
	b.state[channel] = pressed
	b.mu.Unlock()
}

// Pulse holds a channel high long enough for the debouncer to accept it,
// then releases.
func (b *Buttons) Pulse(channel int, hold time.Duration) {
	b.Set(channel, true)
	time.AfterFunc(hold, func() { b.Set(channel, false) })
}

// RegisterTopics latches <feed_prefix>/buttons/<name> payloads ("1"/"0",
// "true"/"false") into channel levels, for driving the dashboard without
// hardware attached.
func (b *Buttons) RegisterTopics() {
	prefix := util.Config.GetString("feed_prefix") + "/buttons/"
	for name, channel := range channelNames {
		ch := channel
		util.RegisterMQTTSubscription(prefix+name, func(client MQTT.Client, message MQTT.Message) {
			pressed, err := strconv.ParseBool(string(message.Payload()))
			if err != nil {
				util.Logger.Debug().Msgf("ignoring button payload %q on %s", message.Payload(), message.Topic())
				return
			}
			b.Set(ch, pressed)
		})
	}
}
