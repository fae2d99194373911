package dash

import (
	"github.com/elijahnyp/dash_display/util"
)

// Update is one asynchronous value delivery from the feed side.
type Update struct {
	Key   string
	Value Value
}

// FeedBridge is the hub's view of the pub/sub transport. Poll and Publish
// must not block the tick; anything slow belongs inside the bridge.
type FeedBridge interface {
	// Subscribe registers interest in a feed key.
	Subscribe(key string) error
	// FetchAll requests the last known value for every key and returns the
	// ones that answered. Missing keys are simply absent.
	FetchAll(keys []string) map[string]Value
	// Poll drains any updates that arrived since the last call.
	Poll() []Update
	// Publish sends a value to a feed.
	Publish(key string, v Value) error
}

// View renders one text row. It knows nothing about feeds or input and is
// assumed idempotent and cheap.
type View interface {
	Render(row int, text string)
}

// Hub composes the registry, the selection controller, the input mux, and
// the feed bridge into the dashboard. All methods are intended for a single
// caller goroutine driving Loop at a fixed cadence.
type Hub struct {
	registry   *Registry
	controller *Controller
	mux        *Mux
	bridge     FeedBridge
	view       View
}

func NewHub(bridge FeedBridge, view View, sampler Sampler, debounceSamples int) *Hub {
	registry := NewRegistry()
	return &Hub{
		registry:   registry,
		controller: NewController(registry),
		mux:        NewMux(sampler, debounceSamples),
		bridge:     bridge,
		view:       view,
	}
}

// AddDevice registers one row. Append-only; a duplicate key or a bad
// template is a configuration mistake and comes back as an error. Passing a
// pub method makes the row editable.
func (h *Hub) AddDevice(key, defaultText, format string, pub PubFunc) error {
	d, err := h.registry.Add(key, defaultText, format, pub)
	if err != nil {
		return err
	}
	if err := h.bridge.Subscribe(key); err != nil {
		util.Logger.Warn().Msgf("subscribe %s failed: %v", key, err)
	}
	h.view.Render(h.registry.Len()-1, d.Text())
	return nil
}

// Get performs the one-time bulk fetch and renders the row under the
// cursor. Feeds that don't answer keep their default text - one unreachable
// feed never aborts the rest.
func (h *Hub) Get() {
	keys := h.registry.Keys()
	values := h.bridge.FetchAll(keys)
	for key, v := range values {
		if d := h.registry.Find(key); d != nil {
			d.SetValue(v)
		}
	}
	for _, key := range keys {
		if _, ok := values[key]; !ok {
			util.Logger.Warn().Msgf("no value for feed %s - keeping default text", key)
		}
	}
	h.renderCurrent()
}

// Loop runs one non-blocking tick: apply any asynchronous feed updates,
// then at most one debounced input event. Updates are applied first so a
// submit landing on the same tick wins (last write in tick order). Nothing
// a collaborator does can make Loop fail; bad rows degrade instead.
func (h *Hub) Loop() {
	for _, u := range h.bridge.Poll() {
		d := h.registry.Find(u.Key)
		if d == nil {
			util.Logger.Debug().Msgf("update for unknown feed %s dropped", u.Key)
			continue
		}
		d.SetValue(u.Value)
		if h.registry.IndexOf(u.Key) == h.controller.CurrentIndex() {
			h.renderCurrent()
		}
	}
	if event := h.mux.PollOnce(); event != EVENT_NONE {
		if h.controller.Handle(event) {
			h.renderCurrent()
		}
	}
}

// Publish hands a value to the bridge and optimistically applies it to the
// local row. Meant to be called from a device's pub method; the submit
// transition that invoked the pub method does the single re-render, so the
// row is drawn once per tick with the submitted value.
func (h *Hub) Publish(key string, v Value) {
	if err := h.bridge.Publish(key, v); err != nil {
		util.Logger.Warn().Msgf("publish to %s failed: %v", key, err)
	}
	if d := h.registry.Find(key); d != nil {
		d.SetValue(v)
	}
}

func (h *Hub) renderCurrent() {
	if h.registry.Len() == 0 {
		h.view.Render(0, "")
		return
	}
	row := h.controller.CurrentIndex()
	h.view.Render(row, h.registry.At(row).Text())
}

// CurrentIndex exposes the controller's cursor for render decisions made
// outside the hub (status pages, highlight bars).
func (h *Hub) CurrentIndex() int {
	return h.controller.CurrentIndex()
}

func (h *Hub) Mode() int {
	return h.controller.Mode()
}

func (h *Hub) Registry() *Registry {
	return h.registry
}
