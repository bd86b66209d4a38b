package prompts

import (
	"errors"
	"strings"
	"testing"

	"github.com/entrhq/pyforge/pkg/agent/tools"
	"github.com/entrhq/pyforge/pkg/types"
)

func TestFormatToolSchema(t *testing.T) {
	formatted := FormatToolSchema(tools.NewTaskCompletionTool())

	for _, want := range []string{"task_completion", "Signal that your browser task is done", "Parameters", "loop-breaking", "Example", "<result>"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("formatted schema should contain %q\n%s", want, formatted)
		}
	}
}

func TestFormatToolSchemas(t *testing.T) {
	t.Run("MultipleTools", func(t *testing.T) {
		formatted := FormatToolSchemas([]tools.Tool{
			tools.NewTaskCompletionTool(),
			tools.NewTaskFailureTool(),
		})

		if !strings.Contains(formatted, "task_completion") || !strings.Contains(formatted, "task_failed") {
			t.Error("should contain every tool")
		}
		if !strings.Contains(formatted, "AVAILABLE TOOLS") {
			t.Error("should contain AVAILABLE TOOLS header")
		}
	})

	t.Run("NoTools", func(t *testing.T) {
		if !strings.Contains(FormatToolSchemas(nil), "No tools available") {
			t.Error("should indicate no tools available")
		}
	})
}

func TestGenerateXMLExample(t *testing.T) {
	schema := tools.BaseToolSchema(
		map[string]interface{}{
			"url":      map[string]interface{}{"type": "string"},
			"selector": map[string]interface{}{"type": "string"},
			"count":    map[string]interface{}{"type": "integer"},
			"optional": map[string]interface{}{"type": "string"},
		},
		[]string{"url", "selector", "count"},
	)

	got := GenerateXMLExample(schema, "demo")
	want := "<tool>\n" +
		"<server_name>local</server_name>\n" +
		"<tool_name>demo</tool_name>\n" +
		"<arguments>\n" +
		"  <count>1</count>\n" +
		"  <selector>#run-button</selector>\n" +
		"  <url>https://trinket.io/features/pygame</url>\n" +
		"</arguments>\n" +
		"</tool>"
	if got != want {
		t.Errorf("GenerateXMLExample() =\n%s\nwant\n%s", got, want)
	}

	if _, call, err := tools.ExtractThinkingAndToolCall(got); err != nil || call.ToolName != "demo" {
		t.Errorf("example should parse as a tool call, got %v, %v", call, err)
	}
}

func TestPromptBuilder(t *testing.T) {
	prompt := NewPromptBuilder().
		WithRole("Navigator").
		WithTask("Go to https://trinket.io/features/pygame").
		WithTools([]tools.Tool{tools.NewTaskCompletionTool()}).
		Build()

	for _, want := range []string{
		"You are the Navigator",
		"<task>\nGo to https://trinket.io/features/pygame\n</task>",
		"<system_capabilities>",
		"<chain_of_thought>",
		"<available_tools>",
		"task_completion",
		"<browser_guidance>",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}

	if strings.Contains(NewPromptBuilder().Build(), "<available_tools>") {
		t.Error("prompt without tools should not contain an available_tools section")
	}
}

func TestBuildMessages(t *testing.T) {
	history := []*types.Message{
		types.NewSystemMessage("stale"),
		types.NewAssistantMessage("a"),
		types.NewUserMessage("b"),
	}

	msgs := BuildMessages("sys", history, "")
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Role != types.RoleSystem || msgs[0].Content != "sys" {
		t.Errorf("first message should be the system prompt, got %+v", msgs[0])
	}

	msgs = BuildMessages("sys", history, "ERROR: x")
	if last := msgs[len(msgs)-1]; last.Role != types.RoleUser || last.Content != "ERROR: x" {
		t.Errorf("error context should be the last user message, got %+v", last)
	}
	if len(history) != 3 {
		t.Error("history must not be modified")
	}
}

func TestBuildErrorRecoveryMessage(t *testing.T) {
	tests := []struct {
		name string
		ctx  ErrorRecoveryContext
		want string
	}{
		{"no tool call", ErrorRecoveryContext{Type: ErrorTypeNoToolCall}, "did not contain a tool call"},
		{"invalid xml", ErrorRecoveryContext{Type: ErrorTypeInvalidXML, Error: errors.New("unexpected EOF")}, "unexpected EOF"},
		{"unknown tool", ErrorRecoveryContext{
			Type:           ErrorTypeUnknownTool,
			ToolName:       "read_file",
			AvailableTools: []tools.Tool{tools.NewTaskCompletionTool()},
		}, "Unknown tool 'read_file'. Available tools: task_completion"},
		{"execution", ErrorRecoveryContext{Type: ErrorTypeToolExecution, ToolName: "browser_click", Error: errors.New("timeout")}, "Tool 'browser_click' failed: timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildErrorRecoveryMessage(tt.ctx); !strings.Contains(got, tt.want) {
				t.Errorf("message %q should contain %q", got, tt.want)
			}
		})
	}
}
