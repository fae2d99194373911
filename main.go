package main

// TODO  changes to the devices list in config require a restart

import (
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	. "github.com/elijahnyp/dash_display/util"

	"github.com/elijahnyp/dash_display/dash"
	"github.com/elijahnyp/dash_display/display"
	"github.com/elijahnyp/dash_display/feed"
)

var (
	hub       *dash.Hub
	frame     *display.Frame
	buttons   *feed.Buttons
	bridge    *feed.Bridge
	dashboard Dashboard
)

// monitorView fans renders out to the framebuffer and to any attached
// websocket clients.
type monitorView struct{}

func (monitorView) Render(row int, text string) {
	frame.Render(row, text)
	wsHub.BroadcastUpdate("row", RowUpdate{Row: row, Text: text})
}

func buildHub() error {
	bridge = feed.NewBridge()
	buttons = feed.NewButtons()
	buttons.RegisterTopics()
	frame = display.NewFrame(Config.GetInt("screen_width"), Config.GetInt("screen_height"))
	hub = dash.NewHub(bridge, monitorView{}, buttons, Config.GetInt("debounce_samples"))

	if err := dashboard.Load(); err != nil {
		return err
	}
	for _, spec := range dashboard.Devices {
		var pub dash.PubFunc
		if spec.Toggle {
			key := spec.Feed_key
			pub = func(current dash.Value) {
				hub.Publish(key, dash.BoolValue(!current.Bool()))
			}
		}
		if err := hub.AddDevice(spec.Feed_key, spec.Default_text, spec.Formatted_text, pub); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	LogInit("trace")
	SetupConfig()
	RegisterNewConfigListener(func() { LogInit(Config.GetString("log_level")) })
	if err := buildHub(); err != nil {
		Logger.Fatal().Msgf("Error building dashboard: %v", err)
	}
	RegisterMQTTConnectHook("haadvertise", func(client MQTT.Client) {
		AdvertiseHA(dashboard.EditableKeys(), feed.TopicFor, client)
	})
	MqttInit()
	RegisterNewConfigListener(MqttInit)

	monitor := NewMonitorServer()
	monitor.AddHandler("/ws", ServeWebSocket)
	monitor.AddHandler("/api/status", APIStatus)
	monitor.AddHandler("/screen.png", ScreenHandler)
	monitor.AddHandler("/press", PressHandler)
	if err := monitor.Start(); err != nil {
		Logger.Error().Msgf("Error starting monitor server: %v", err)
	}
	RegisterNewConfigListener(func() { monitor.Restart() })

	hub.Get()
	frame.SetCursor(hub.CurrentIndex())
	Logger.Info().Msg("ready")
	go OnlinePinger()

	lastCursor, lastMode := hub.CurrentIndex(), hub.Mode()
	ticker := time.NewTicker(time.Duration(Config.GetInt("tick_ms")) * time.Millisecond)
	for range ticker.C {
		hub.Loop()
		if cursor, mode := hub.CurrentIndex(), hub.Mode(); cursor != lastCursor || mode != lastMode {
			lastCursor, lastMode = cursor, mode
			frame.SetCursor(cursor)
			wsHub.BroadcastUpdate("cursor", DashStatus{Cursor: cursor, Mode: modeName(mode), Timestamp: time.Now().Unix()})
		}
	}
}

// online pinger
func OnlinePinger() {
	for {
		if token := Client.Publish(OnlineTopic(), 0, true, "online"); token.Wait() && token.Error() != nil {
			Logger.Error().Msgf("Error publishing online message: %v", token.Error())
		}
		time.Sleep(10 * time.Second)
	}
}
