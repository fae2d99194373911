package dash

const ( // input channels
	CHAN_UP = iota
	CHAN_SELECT
	CHAN_DOWN
	CHAN_BACK
	CHAN_SUBMIT
	NUM_CHANNELS
)

const ( // navigation events
	EVENT_NONE = iota
	SCROLL_UP
	SCROLL_DOWN
	SELECT
	BACK
	SUBMIT
)

// Sampler reads the instantaneous level of one input channel. Raw and
// possibly bouncy - debouncing happens in the Mux, not here. Read must not
// block; it is called once per channel per tick.
type Sampler interface {
	Read(channel int) bool
}

// DefaultDebounceSamples is the number of consecutive identical samples a
// channel must show before a level change is considered stable. At the
// usual 10ms polling cadence three samples is roughly 30ms.
const DefaultDebounceSamples = 3

// eventPriority resolves simultaneous presses deterministically.
var eventPriority = [NUM_CHANNELS]int{CHAN_SUBMIT, CHAN_BACK, CHAN_SELECT, CHAN_DOWN, CHAN_UP}

var channelEvents = [NUM_CHANNELS]int{
	CHAN_UP:     SCROLL_UP,
	CHAN_SELECT: SELECT,
	CHAN_DOWN:   SCROLL_DOWN,
	CHAN_BACK:   BACK,
	CHAN_SUBMIT: SUBMIT,
}

type debounce struct {
	stable    bool // last debounced level
	candidate bool // level currently being counted
	count     int  // consecutive samples at candidate
}

// Mux turns five raw input channels into discrete navigation events. A
// channel emits exactly one event when it rises from stable-low to
// stable-high and nothing more until it has returned to stable-low - no
// auto-repeat while held.
type Mux struct {
	sampler  Sampler
	window   int
	channels [NUM_CHANNELS]debounce
}

func NewMux(sampler Sampler, window int) *Mux {
	if window < 1 {
		window = DefaultDebounceSamples
	}
	return &Mux{sampler: sampler, window: window}
}

// PollOnce samples every channel, advances the debouncers, and returns at
// most one event. When several channels rise on the same tick the fixed
// priority submit > back > select > down > up decides.
func (m *Mux) PollOnce() int {
	var rose [NUM_CHANNELS]bool
	for ch := 0; ch < NUM_CHANNELS; ch++ {
		rose[ch] = m.channels[ch].sample(m.sampler.Read(ch), m.window)
	}
	for _, ch := range eventPriority {
		if rose[ch] {
			return channelEvents[ch]
		}
	}
	return EVENT_NONE
}

// sample feeds one raw reading into the debouncer and reports whether the
// stable level just rose.
func (d *debounce) sample(raw bool, window int) bool {
	if raw == d.stable {
		// jitter back to the stable level resets the count
		d.candidate = raw
		d.count = 0
		return false
	}
	if raw != d.candidate {
		d.candidate = raw
		d.count = 0
	}
	d.count++
	if d.count < window {
		return false
	}
	d.stable = raw
	d.count = 0
	return raw
}
