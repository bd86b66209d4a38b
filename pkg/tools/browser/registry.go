package browser

import (
	"github.com/entrhq/pyforge/pkg/agent/tools"
)

// ToolConfig selects and parameterizes the browser tools handed to an agent.
type ToolConfig struct {
	// Allowlist restricts browser_navigate. Nil allows any http(s) URL.
	Allowlist *URLAllowlist

	// Code, when set, adds browser_type_code bound to this program.
	Code string

	// ScreenshotDir, when set, adds browser_screenshot writing there.
	ScreenshotDir string
}

// Tools returns the browser tools operating on page.
func Tools(page Page, cfg ToolConfig) []tools.Tool {
	list := []tools.Tool{
		NewNavigateTool(page, cfg.Allowlist),
		NewExtractContentTool(page),
		NewClickTool(page),
		NewFillTool(page),
		NewPressKeyTool(page),
		NewWaitTool(page),
		NewEvaluateTool(page),
	}
	if cfg.Code != "" {
		list = append(list, NewTypeCodeTool(page, cfg.Code))
	}
	if cfg.ScreenshotDir != "" {
		list = append(list, NewScreenshotTool(page, cfg.ScreenshotDir))
	}
	return list
}
