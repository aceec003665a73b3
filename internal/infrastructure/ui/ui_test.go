package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
)

func TestNewReporter_SelectsImplementation(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		mode string
		want any
	}{
		{mode: ModeAuto, want: &BarReporter{}},
		{mode: ModePlain, want: &BarReporter{}},
		{mode: ModeFancy, want: &TeaReporter{}},
		{mode: ModeNone, want: NopReporter{}},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			assert.IsType(t, tt.want, NewReporter(tt.mode, &buf))
		})
	}
	assert.False(t, IsTerminal(&buf))
}

func TestBarReporter_PrintsOutcomes(t *testing.T) {
	var buf bytes.Buffer
	r := NewBarReporter(&buf)

	r.Begin("Installing plugins", 2)
	gut := r.Task(0, "Gut")
	gut.Status("Downloading...")
	gut.Complete("9.1.0")
	r.Task(1, "Dialogic").Fail(errors.New("download failed"))
	r.End()

	out := buf.String()
	assert.Contains(t, out, "✓ [1/2] Gut 9.1.0")
	assert.Contains(t, out, "✗ [2/2] Dialogic download failed")
}

func TestNopReporter(t *testing.T) {
	var r ports.Reporter = NopReporter{}
	r.Begin("x", 1)
	task := r.Task(0, "a")
	task.Status("s")
	task.SetTotal(1)
	task.Advance(1)
	task.Complete("")
	task.Fail(nil)
	r.End()
}

func TestProgressModel_TracksTasks(t *testing.T) {
	var m tea.Model = newProgressModel("Installing plugins", 3)

	m, _ = m.Update(taskStartMsg{index: 0, name: "Gut"})
	m, _ = m.Update(taskTotalMsg{index: 0, total: 100})
	m, _ = m.Update(taskAdvanceMsg{index: 0, n: 50})
	m, _ = m.Update(taskStatusMsg{index: 0, status: "Downloading..."})
	m, _ = m.Update(taskStartMsg{index: 1, name: "Dialogic"})
	m, _ = m.Update(taskDoneMsg{index: 1, err: errors.New("boom")})
	m, _ = m.Update(taskAdvanceMsg{index: 7, n: 1})

	pm := m.(progressModel)
	assert.InDelta(t, 0.5, pm.rows[0].percent(), 0.001)
	assert.Equal(t, taskFailed, pm.rows[1].state)
	assert.Equal(t, taskPending, pm.rows[2].state)

	view := pm.View()
	assert.Contains(t, view, "Installing plugins")
	assert.Contains(t, view, "Gut")
	assert.Contains(t, view, "Downloading...")
	assert.Contains(t, view, "boom")

	_, cmd := m.Update(finishMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderOutdated(t *testing.T) {
	out := RenderOutdated([]OutdatedRow{
		{Plugin: "Gut", Current: "9.1.0", Latest: "9.5.0", UpdateAvailable: true},
		{Plugin: "Dialogic", Current: "2.0", Latest: "2.0"},
	})

	for _, want := range []string{"Plugin", "Current", "Latest", "9.5.0 (update available)", "Dialogic"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, "(update available)"))
}

func TestRenderSearch(t *testing.T) {
	out := RenderSearch([]ports.Asset{{AssetID: "1709", Title: "Gut", Author: "bitwes", VersionString: "9.5.0", GodotVersion: "4.5", Cost: "MIT"}})
	for _, want := range []string{"Asset ID", "1709", "bitwes", "MIT"} {
		assert.Contains(t, out, want)
	}
}
