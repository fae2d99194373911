package dash

import (
	"github.com/elijahnyp/dash_display/util"
)

const ( // selection modes
	BROWSE = iota
	EDIT
)

// Controller owns the cursor and the Browse/Edit mode and maps navigation
// events onto them. Transitions never move the cursor while editing, and
// Edit is only reachable on a row that has a publish method.
type Controller struct {
	registry *Registry
	cursor   int
	mode     int
}

func NewController(registry *Registry) *Controller {
	return &Controller{registry: registry}
}

// CurrentIndex returns the row under the cursor so callers can decide
// whether an async update touches the visible row. Meaningless when the
// registry is empty.
func (c *Controller) CurrentIndex() int {
	return c.cursor
}

func (c *Controller) Mode() int {
	return c.mode
}

// Handle applies one navigation event and reports whether the visible row
// needs a re-render. An empty registry ignores everything.
func (c *Controller) Handle(event int) bool {
	n := c.registry.Len()
	if n == 0 || event == EVENT_NONE {
		return false
	}
	switch c.mode {
	case BROWSE:
		return c.handleBrowse(event, n)
	case EDIT:
		return c.handleEdit(event)
	}
	return false
}

func (c *Controller) handleBrowse(event, n int) bool {
	switch event {
	case SCROLL_UP:
		c.cursor = (c.cursor - 1 + n) % n
		return true
	case SCROLL_DOWN:
		c.cursor = (c.cursor + 1) % n
		return true
	case SELECT:
		if !c.registry.At(c.cursor).Editable() {
			// no visual affordance marks editable rows, so a select on a
			// read-only row is a quiet no-op rather than an error
			return false
		}
		c.mode = EDIT
		util.Logger.Debug().Msgf("editing %s", c.registry.At(c.cursor).Key)
		return true
	default: // BACK and SUBMIT are no-ops at top level
		return false
	}
}

func (c *Controller) handleEdit(event int) bool {
	switch event {
	case BACK:
		c.mode = BROWSE
		return true
	case SUBMIT:
		d := c.registry.At(c.cursor)
		if d.Pub != nil {
			d.Pub(d.Value())
		}
		return true
	default: // scrolling is disabled mid-edit
		return false
	}
}
