package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/huangsam/deeptime/core"
	"github.com/huangsam/deeptime/core/deeptime"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.EventStore
}

// pixelPosition is the result of the pixel_position tool.
type pixelPosition struct {
	Time     deeptime.Time `json:"time"`
	Position float64       `json:"position"`
	Relative string        `json:"relative"`
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

func parseTimeArg(request mcp.CallToolRequest, name string) (deeptime.Time, bool, error) {
	s := strings.TrimSpace(request.GetString(name, ""))
	if s == "" {
		return deeptime.Time{}, false, nil
	}
	t, err := deeptime.Parse(s)
	if err != nil {
		return deeptime.Time{}, false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return t, true, nil
}

// viewport applies the shared viewport arguments to a copy of the base config.
func (h *toolHandler) viewport(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	for _, arg := range []struct {
		name   string
		target *deeptime.Time
	}{
		{"reference", &cfg.Reference},
		{"start", &cfg.Start},
		{"end", &cfg.End},
	} {
		t, ok, err := parseTimeArg(request, arg.name)
		if err != nil {
			return nil, err
		}
		if ok {
			*arg.target = t
		}
	}
	if w := request.GetFloat("width", 0); w != 0 {
		if !(w > 0) {
			return nil, fmt.Errorf("width must be a positive number of pixels (received %v)", w)
		}
		cfg.Width = w
	}
	if cfg.Start.After(cfg.End) {
		return nil, fmt.Errorf("start (%s) cannot be after end (%s)", cfg.Start, cfg.End)
	}
	return cfg, nil
}

func (h *toolHandler) handleConvertTime(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input := request.GetString("input", "")
	if strings.TrimSpace(input) == "" {
		return mcp.NewToolResultError("input is required"), nil
	}
	ref := h.baseCfg.Reference
	if t, ok, err := parseTimeArg(request, "reference"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if ok {
		ref = t
	}

	result, err := core.ConvertTime(input, ref, h.baseCfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("conversion failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleTimeAtPixel(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pixel, err := request.RequireFloat("pixel")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg, err := h.viewport(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid viewport: %v", err)), nil
	}
	tl, err := core.NewTimeline(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid viewport: %v", err)), nil
	}
	return jsonResult(core.PixelLookups(tl, []float64{pixel})[0]), nil
}

func (h *toolHandler) handlePixelPosition(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, ok, err := parseTimeArg(request, "time")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("time is required"), nil
	}
	cfg, err := h.viewport(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid viewport: %v", err)), nil
	}
	tl, err := core.NewTimeline(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid viewport: %v", err)), nil
	}
	return jsonResult(pixelPosition{
		Time:     t,
		Position: tl.PixelPosition(t),
		Relative: t.RelativeString(tl.Anchor()),
	}), nil
}

func (h *toolHandler) handleGenerateTicks(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.viewport(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid viewport: %v", err)), nil
	}
	if n := request.GetInt("max_ticks", 0); n != 0 {
		if n < 0 || n > contract.MaxTicksLimit {
			return mcp.NewToolResultError(fmt.Sprintf("max_ticks must be between 1 and %d (received %d)", contract.MaxTicksLimit, n)), nil
		}
		cfg.MaxTicks = n
	}
	tl, err := core.NewTimeline(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid viewport: %v", err)), nil
	}
	return jsonResult(tl.GenerateLogTicks(cfg.MaxTicks)), nil
}

func (h *toolHandler) handleVisibleEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.viewport(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid viewport: %v", err)), nil
	}
	if c := request.GetString("categories", ""); c != "" {
		cfg.Filter.Categories = nil
		for p := range strings.SplitSeq(c, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Filter.Categories = append(cfg.Filter.Categories, trimmed)
			}
		}
	}
	if s := request.GetInt("min_significance", 0); s != 0 {
		if s < schema.MinSignificance || s > schema.MaxSignificance {
			return mcp.NewToolResultError(fmt.Sprintf("min_significance must be between %d and %d (received %d)",
				schema.MinSignificance, schema.MaxSignificance, s)), nil
		}
		cfg.Filter.MinSignificance = s
	}

	result, err := core.GetRenderResults(core.WithSuppressHeader(ctx), cfg, h.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return jsonResult(result), nil
}
