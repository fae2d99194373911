package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/elijahnyp/dash_display/util"

	"github.com/elijahnyp/dash_display/dash"
	"github.com/elijahnyp/dash_display/display"
	"github.com/elijahnyp/dash_display/feed"
)

type stubBridge struct{}

func (stubBridge) Subscribe(key string) error              { return nil }
func (stubBridge) FetchAll(keys []string) map[string]dash.Value { return nil }
func (stubBridge) Poll() []dash.Update                     { return nil }
func (stubBridge) Publish(key string, v dash.Value) error  { return nil }

func setupWebTest(t *testing.T) {
	t.Helper()
	Config.Set("debounce_samples", 3)
	Config.Set("tick_ms", 10)

	frame = display.NewFrame(240, 240)
	buttons = feed.NewButtons()
	hub = dash.NewHub(stubBridge{}, frame, buttons, 3)

	if err := hub.AddDevice("lamp", "Lamp: ", "Lamp: %v", func(dash.Value) {}); err != nil {
		t.Fatalf("AddDevice failed: %v", err)
	}
	if err := hub.AddDevice("temperature", "Temperature: ", "Temperature: %.1f C", nil); err != nil {
		t.Fatalf("AddDevice failed: %v", err)
	}
}

func TestAPIStatus(t *testing.T) {
	setupWebTest(t)

	req := httptest.NewRequest("GET", "/api/status", nil)
	rec := httptest.NewRecorder()
	APIStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var status DashStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(status.Rows) != 2 {
		t.Fatalf("rows = %d, expected 2", len(status.Rows))
	}
	if status.Mode != "browse" || status.Cursor != 0 {
		t.Errorf("mode/cursor = %s/%d, expected browse/0", status.Mode, status.Cursor)
	}
	if !status.Rows[0].Editable || status.Rows[1].Editable {
		t.Errorf("editable flags wrong: %+v", status.Rows)
	}
	if status.Rows[0].Text != "Lamp: " {
		t.Errorf("row 0 text = %q, expected default text", status.Rows[0].Text)
	}
}

func TestScreenHandler(t *testing.T) {
	setupWebTest(t)

	req := httptest.NewRequest("GET", "/screen.png", nil)
	rec := httptest.NewRecorder()
	ScreenHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty PNG body")
	}
}

func TestPressHandler(t *testing.T) {
	setupWebTest(t)

	req := httptest.NewRequest("GET", "/press?btn=down", nil)
	rec := httptest.NewRecorder()
	PressHandler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, expected 204", rec.Code)
	}
	if !buttons.Read(dash.CHAN_DOWN) {
		t.Error("press did not latch the channel")
	}

	// pulse releases on its own
	deadline := time.Now().Add(time.Second)
	for buttons.Read(dash.CHAN_DOWN) {
		if time.Now().After(deadline) {
			t.Fatal("channel still high one second after press pulse")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPressHandlerUnknownButton(t *testing.T) {
	setupWebTest(t)

	req := httptest.NewRequest("GET", "/press?btn=sideways", nil)
	rec := httptest.NewRecorder()
	PressHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
}
