// Package plotview serializes a plot configuration (parameter states, window
// selection, axis modes) so a view can be saved and restored later. The
// caller supplies the storage as an io.Reader/io.Writer; this package never
// touches disk or global state on its own.
package plotview

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aquamon/MarineDataViewer/src/series"
)

// View is the JSON-compatible snapshot of everything a plot needs to be
// reproduced over the same dataset.
type View struct {
	Name          string                         `json:"name,omitempty"`
	Parameters    map[string]series.ParamState   `json:"parameters"`
	OverlayStyles map[string]series.OverlayStyle `json:"overlayStyles,omitempty"`
	Window        series.Window                  `json:"window"`
	TimeAxisMode  series.TimeAxisMode            `json:"timeAxisMode,omitempty"`
	AxisMode      string                         `json:"axisMode,omitempty"` // "single" or "multi"
	ScalePolicy   string                         `json:"scalePolicy,omitempty"`
}

// Snapshot captures the current store state into a view.
func Snapshot(name string, store *series.Store, win series.Window) *View {
	return &View{
		Name:          name,
		Parameters:    store.Snapshot(),
		OverlayStyles: store.OverlaySnapshot(),
		Window:        win,
	}
}

// Save writes the view as indented JSON.
func Save(w io.Writer, v *View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("save plot view: %w", err)
	}
	return nil
}

// Load reads a view written by Save.
func Load(r io.Reader) (*View, error) {
	var v View
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("load plot view: %w", err)
	}
	return &v, nil
}

// Apply restores the view into a store. Parameters the store no longer knows
// are ignored so views saved against an older dataset degrade gracefully.
// The window selection is returned for the caller to apply to its brush.
func Apply(v *View, store *series.Store) series.Window {
	store.Restore(v.Parameters, v.OverlayStyles)
	return v.Window
}
