package ui

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleList() ListView {
	return ListView{
		Now: now,
		Links: []types.LinkStatus{
			{Name: "plan.md", Target: "/work/docs/plan.md", Timestamp: now.Add(-5 * time.Minute)},
			{Name: "b-x.txt", Target: "/work/b/x.txt", Timestamp: now.Add(-3 * time.Hour), Broken: true},
		},
	}
}

func sampleStatus() StatusView {
	return StatusView{
		Service:     ServiceView{State: ServiceRunning, PID: 321},
		Summary:     types.Summary{Tracked: 2, Broken: 1, MaxFiles: 100},
		MaxAgeHours: 48,
		WatchDirs: []WatchDir{
			{Path: "/work", Exists: true},
			{Path: "/gone", Exists: false},
		},
		OutputDir:  "/out/RecentWork",
		ConfigFile: "/cfg/config.toml",
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "auto", FormatAuto.String())
	assert.Equal(t, "term", FormatTerminal.String())
	assert.Equal(t, "text", FormatText.String())
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "unknown", Format(99).String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"TERM", FormatTerminal, false},
		{"terminal", FormatTerminal, false},
		{"plain", FormatText, false},
		{"json", FormatJSON, false},
		{"xml", FormatAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelativeAge(t *testing.T) {
	assert.Equal(t, "0s ago", RelativeAge(now.Add(time.Second), now))
	assert.Equal(t, "42s ago", RelativeAge(now.Add(-42*time.Second), now))
	assert.Equal(t, "5m ago", RelativeAge(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", RelativeAge(now.Add(-3*time.Hour-10*time.Minute), now))
	assert.Equal(t, "2d ago", RelativeAge(now.Add(-50*time.Hour), now))
}

func TestNewRenderer_AutoOnBufferIsText(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatAuto, &buf)
	require.NoError(t, err)
	_, ok := r.(*textRenderer)
	assert.True(t, ok)

	_, err = NewRenderer(Format(42), &buf)
	assert.Error(t, err)
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := newTextRenderer(&buf)

	require.NoError(t, r.RenderList(sampleList()))
	assert.Equal(t, "plan.md\n  → /work/docs/plan.md  (5m ago)\n"+
		"b-x.txt [broken]\n  → /work/b/x.txt  (3h ago)\n"+
		"\n2 file(s)\n", buf.String())

	buf.Reset()
	require.NoError(t, r.RenderList(ListView{Now: now}))
	assert.Equal(t, "No tracked files.\n", buf.String())

	buf.Reset()
	require.NoError(t, r.RenderStatus(sampleStatus()))
	out := buf.String()
	assert.Contains(t, out, "Service: running (pid 321)")
	assert.Contains(t, out, "Tracked files: 2 / 100 max")
	assert.Contains(t, out, "Broken links: 1")
	assert.Contains(t, out, "Max age: 48 hours")
	assert.Contains(t, out, "  ✓ /work\n")
	assert.Contains(t, out, "  ✗ /gone\n")
	assert.Contains(t, out, "Output: /out/RecentWork")

	buf.Reset()
	require.NoError(t, r.RenderError(stderrors.New("boom")))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := newJSONRenderer(&buf)

	require.NoError(t, r.RenderList(sampleList()))
	var list struct {
		Links []types.LinkStatus `json:"links"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &list))
	require.Len(t, list.Links, 2)
	assert.True(t, list.Links[1].Broken)

	buf.Reset()
	require.NoError(t, r.RenderStatus(sampleStatus()))
	var status StatusView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &status))
	assert.Equal(t, 321, status.Service.PID)
	assert.Equal(t, 2, status.Summary.Tracked)

	buf.Reset()
	require.NoError(t, r.RenderError(errors.New(errors.ErrNoWatchDirs, "nothing to watch")))
	var payload map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "NO_WATCH_DIRS", payload["code"])
}

func TestTerminalRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := newTerminalRenderer(&buf)
	r.glamourStyle = "notty"

	require.NoError(t, r.RenderList(sampleList()))
	out := buf.String()
	assert.Contains(t, out, "plan.md")
	assert.Contains(t, out, "[broken]")
	assert.Contains(t, out, "2 file(s)")

	buf.Reset()
	require.NoError(t, r.RenderStatus(sampleStatus()))
	out = buf.String()
	assert.Contains(t, out, "Watched directories")
	assert.Contains(t, out, "/work")
	assert.Contains(t, out, "running (pid 321)")
}

func TestStatusMarkdown(t *testing.T) {
	md := StatusMarkdown(sampleStatus())
	assert.Contains(t, md, "# recent-work")
	assert.Contains(t, md, "- **Tracked files:** 2 / 100 max")
	assert.Contains(t, md, "- ✗ `/gone`")
	assert.Contains(t, md, "- **Config:** `/cfg/config.toml`")
}
