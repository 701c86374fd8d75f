package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/deeptime/core/deeptime"
	"github.com/huangsam/deeptime/core/timeline"
	"github.com/huangsam/deeptime/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renderedFrame is the subset of the JSON render output the tests inspect.
type renderedFrame struct {
	Width  float64 `json:"width"`
	Ticks  []struct {
		Position float64 `json:"position"`
		Label    string  `json:"label"`
	} `json:"ticks"`
	Events []struct {
		X     float64 `json:"x"`
		Event struct {
			Name string `json:"name"`
		} `json:"event"`
	} `json:"events"`
}

func readFrame(t *testing.T, path string) renderedFrame {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var frame renderedFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestExecuteRenderWritesJSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.EventsPath = writeEvents(t, eventsYAML)
	cfg.OutputFile = filepath.Join(t.TempDir(), "render.json")

	ctx := WithSuppressHeader(context.Background())
	require.NoError(t, ExecuteRender(ctx, cfg, nil))

	frame := readFrame(t, cfg.OutputFile)
	assert.Equal(t, 1000.0, frame.Width)
	assert.NotEmpty(t, frame.Ticks)
	require.Len(t, frame.Events, 2)
	assert.Equal(t, "Battle of Hastings", frame.Events[0].Event.Name)
	assert.Equal(t, "Black Death", frame.Events[1].Event.Name)
	assert.Less(t, frame.Events[0].X, frame.Events[1].X)
}

func TestExecuteTicksWritesCSV(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "ticks.csv")

	require.NoError(t, ExecuteTicks(context.Background(), cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "position,label,date", lines[0])
	assert.Greater(t, len(lines), 1)
	assert.LessOrEqual(t, len(lines)-1, cfg.MaxTicks)
}

func TestConvertTime(t *testing.T) {
	cfg := testConfig(t)
	ref := deeptime.FromTime(referenceInstant)

	t.Run("calendar date", func(t *testing.T) {
		r, err := ConvertTime("1969-07-20", ref, cfg)
		require.NoError(t, err)
		assert.Equal(t, schema.CalendarLabel, r.Precision)
		assert.Equal(t, "1969-07-20", r.Input)
		assert.True(t, strings.HasPrefix(r.ISO, "1969-07-20"), r.ISO)
		assert.InDelta(t, 1969.55, r.Year, 0.01)
		assert.Greater(t, r.Log, 0.0)
		assert.NotEmpty(t, r.Relative)
		assert.NotEmpty(t, r.Locale)
	})

	t.Run("magnitude", func(t *testing.T) {
		r, err := ConvertTime("13.8 billion years ago", ref, cfg)
		require.NoError(t, err)
		assert.Equal(t, schema.MagnitudeLabel, r.Precision)
		assert.InDelta(t, -13.8e9, r.Year, 1e3)
		assert.Contains(t, r.Relative, "billion")
	})

	t.Run("reference itself", func(t *testing.T) {
		r, err := ConvertTime(ref.String(), ref, cfg)
		require.NoError(t, err)
		assert.InDelta(t, 0, r.Log, 1e-9)
	})

	t.Run("unparseable", func(t *testing.T) {
		_, err := ConvertTime("the day after tomorrow", ref, cfg)
		var parseErr *deeptime.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestExecuteConvert(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputFile = filepath.Join(t.TempDir(), "convert.json")

	require.NoError(t, ExecuteConvert(context.Background(), cfg, []string{"1000 BC", "2000"}))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var results []schema.ConvertResult
	require.NoError(t, json.Unmarshal(data, &results))
	require.Len(t, results, 2)
	assert.Equal(t, "1000 BC", results[0].Input)

	err = ExecuteConvert(context.Background(), cfg, []string{"2000", "not a time"})
	assert.ErrorContains(t, err, `cannot convert "not a time"`)

	cfg.Output = schema.ParquetOut
	assert.Error(t, ExecuteConvert(context.Background(), cfg, []string{"2000"}))
}

func TestPixelLookups(t *testing.T) {
	tl, err := timeline.New(800, deeptime.FromYear(1000), deeptime.FromYear(2000),
		timeline.WithReference(deeptime.FromYear(2000)))
	require.NoError(t, err)

	results := PixelLookups(tl, []float64{-5, 0, 400, 800, 900})
	require.Len(t, results, 5)
	assert.True(t, results[0].Time.Equal(tl.Leftmost()))
	assert.True(t, results[1].Time.Equal(tl.Leftmost()))
	assert.InDelta(t, 400, tl.PixelPosition(results[2].Time), 1e-6)
	assert.True(t, results[3].Time.Equal(tl.Rightmost()))
	assert.True(t, results[4].Time.Equal(tl.Rightmost()))
	assert.Equal(t, 400.0, results[2].Pixel)
	for _, r := range results {
		assert.NotEmpty(t, r.Relative)
	}
}

func TestExecutePixels(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "pixels.csv")

	require.NoError(t, ExecutePixels(context.Background(), cfg, []float64{0, 500, 1000}))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "pixel,time,relative", lines[0])

	cfg.Width = -1
	assert.Error(t, ExecutePixels(context.Background(), cfg, []float64{1}))
}
