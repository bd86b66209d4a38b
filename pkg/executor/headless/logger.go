package headless

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/entrhq/pyforge/pkg/types"
)

// LogLevel represents the console verbosity level
type LogLevel int

const (
	// LogLevelQuiet shows errors, warnings and the final summary
	LogLevelQuiet LogLevel = iota
	// LogLevelNormal shows run progress (default)
	LogLevelNormal
	// LogLevelVerbose adds tool calls and step details
	LogLevelVerbose
	// LogLevelDebug adds agent reasoning and token usage
	LogLevelDebug
)

const rule = 70

// Logger prints colored progress for headless runs.
type Logger struct {
	level  LogLevel
	writer io.Writer

	colorReset     string
	colorCyan      string
	colorSalmon    string
	colorYellow    string
	colorRed       string
	colorGray      string
	colorBoldGreen string
	colorBoldRed   string
	colorBoldWhite string

	stepCount int
}

// NewLogger creates a logger writing to stdout.
func NewLogger(level LogLevel) *Logger {
	return NewLoggerTo(level, os.Stdout)
}

// NewLoggerTo creates a logger writing to w.
func NewLoggerTo(level LogLevel, w io.Writer) *Logger {
	return &Logger{
		level:          level,
		writer:         w,
		colorReset:     "\033[0m",
		colorCyan:      "\033[36m",
		colorSalmon:    "\033[38;5;217m",
		colorYellow:    "\033[33m",
		colorRed:       "\033[31m",
		colorGray:      "\033[90m",
		colorBoldGreen: "\033[1;32m",
		colorBoldRed:   "\033[1;31m",
		colorBoldWhite: "\033[1;37m",
	}
}

// Header prints a banner.
func (l *Logger) Header(message string) {
	if l.level >= LogLevelNormal {
		fmt.Fprintf(l.writer, "\n%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", rule), l.colorReset)
		fmt.Fprintf(l.writer, "%s  %s%s\n", l.colorBoldWhite, message, l.colorReset)
		fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", rule), l.colorReset)
	}
}

// Section prints a section divider
func (l *Logger) Section(title string) {
	if l.level >= LogLevelNormal {
		fmt.Fprintln(l.writer)
		fmt.Fprintf(l.writer, "%s▶ %s%s\n", l.colorCyan, title, l.colorReset)
		fmt.Fprintf(l.writer, "%s%s%s\n", l.colorGray, strings.Repeat("─", 50), l.colorReset)
	}
}

// Step prints a numbered step
func (l *Logger) Step(message string) {
	if l.level >= LogLevelNormal {
		l.stepCount++
		fmt.Fprintf(l.writer, "\n%s[%d] %s%s\n", l.colorCyan, l.stepCount, message, l.colorReset)
	}
}

// Successf prints a success message
func (l *Logger) Successf(format string, args ...interface{}) {
	if l.level >= LogLevelNormal {
		fmt.Fprintf(l.writer, "%s✓ %s%s\n", l.colorBoldGreen, fmt.Sprintf(format, args...), l.colorReset)
	}
}

// Infof prints an informational message
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level >= LogLevelNormal {
		fmt.Fprintf(l.writer, "%s%s%s\n", l.colorSalmon, fmt.Sprintf(format, args...), l.colorReset)
	}
}

// Warningf prints a warning at every level
func (l *Logger) Warningf(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "%s⚠ Warning: %s%s\n", l.colorYellow, fmt.Sprintf(format, args...), l.colorReset)
}

// Errorf prints an error at every level
func (l *Logger) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "%s✗ Error: %s%s\n", l.colorBoldRed, fmt.Sprintf(format, args...), l.colorReset)
}

// Verbosef prints detail shown in verbose mode
func (l *Logger) Verbosef(format string, args ...interface{}) {
	if l.level >= LogLevelVerbose {
		fmt.Fprintf(l.writer, "%s→ %s%s\n", l.colorGray, fmt.Sprintf(format, args...), l.colorReset)
	}
}

// Debugf prints debug information
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		fmt.Fprintf(l.writer, "%s[DEBUG] %s%s\n", l.colorGray, fmt.Sprintf(format, args...), l.colorReset)
	}
}

// ToolCall logs a browser tool call with detail depending on verbosity.
func (l *Logger) ToolCall(role types.AgentRole, toolName string, count int) {
	switch l.level {
	case LogLevelQuiet:
	case LogLevelNormal:
		fmt.Fprintf(l.writer, "%s  • %s (#%d)%s\n", l.colorGray, toolName, count, l.colorReset)
	case LogLevelVerbose, LogLevelDebug:
		fmt.Fprintf(l.writer, "%s  🔧 %s: %s (call #%d)%s\n", l.colorCyan, role.Title(), toolName, count, l.colorReset)
	}
}

// Check logs one check result.
func (l *Logger) Check(result CheckResult) {
	if l.level < LogLevelNormal {
		return
	}
	if result.Passed {
		fmt.Fprintf(l.writer, "%s  ✓ %s: passed%s\n", l.colorBoldGreen, result.Name, l.colorReset)
		return
	}
	fmt.Fprintf(l.writer, "%s  ✗ %s: failed%s\n", l.colorBoldRed, result.Name, l.colorReset)
	if result.Error != "" && l.level >= LogLevelVerbose {
		fmt.Fprintf(l.writer, "%s    %s%s\n", l.colorGray, result.Error, l.colorReset)
	}
}

// Summary prints the final run summary at every level.
func (l *Logger) Summary(summary *ExecutionSummary) {
	fmt.Fprintln(l.writer)
	fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", rule), l.colorReset)
	fmt.Fprintf(l.writer, "%s  RUN SUMMARY%s\n", l.colorBoldWhite, l.colorReset)
	fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", rule), l.colorReset)

	l.printStatus(summary.Status)
	fmt.Fprintf(l.writer, "  Query: %s\n", summary.Query)
	fmt.Fprintf(l.writer, "  Provider: %s\n", summary.Provider)
	fmt.Fprintf(l.writer, "  Duration: %s\n", summary.Duration.Round(time.Second))
	l.printCode(summary)
	l.printVisualization(summary)
	l.printError(summary)

	fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", rule), l.colorReset)
	fmt.Fprintln(l.writer)
}

func (l *Logger) printStatus(status string) {
	fmt.Fprint(l.writer, "  Status: ")
	switch status {
	case statusSuccess:
		fmt.Fprintf(l.writer, "%s✓ SUCCESS%s\n", l.colorBoldGreen, l.colorReset)
	case statusPartialSuccess:
		fmt.Fprintf(l.writer, "%s⚠ PARTIAL SUCCESS%s\n", l.colorYellow, l.colorReset)
	case statusFailed:
		fmt.Fprintf(l.writer, "%s✗ FAILED%s\n", l.colorBoldRed, l.colorReset)
	default:
		fmt.Fprintln(l.writer, status)
	}
}

func (l *Logger) printCode(summary *ExecutionSummary) {
	if summary.CodeFile == "" {
		return
	}
	fmt.Fprintf(l.writer, "\n  📄 Code: %s (%d lines, %s tokens)\n", summary.CodeFile, summary.CodeLines, formatNumber(summary.TokenCount))
	if summary.Attempts > 1 {
		fmt.Fprintf(l.writer, "    Generation attempts: %d\n", summary.Attempts)
	}
}

func (l *Logger) printVisualization(summary *ExecutionSummary) {
	v := summary.Visualization
	if v == nil {
		return
	}

	fmt.Fprintf(l.writer, "\n  🎮 Visualization:\n")
	for _, step := range v.Steps {
		if step.Error == "" {
			fmt.Fprintf(l.writer, "%s    ✓ %s%s\n", l.colorBoldGreen, step.Role.Title(), l.colorReset)
			if step.Summary != "" && l.level >= LogLevelVerbose {
				fmt.Fprintf(l.writer, "%s      %s%s\n", l.colorGray, step.Summary, l.colorReset)
			}
		} else {
			fmt.Fprintf(l.writer, "%s    ✗ %s%s\n", l.colorBoldRed, step.Role.Title(), l.colorReset)
		}
	}
	fmt.Fprintf(l.writer, "    Tool calls: %d\n", summary.ToolCallCount)
	if summary.TokensUsed > 0 {
		fmt.Fprintf(l.writer, "    Tokens used: %s\n", formatNumber(summary.TokensUsed))
	}
}

func (l *Logger) printError(summary *ExecutionSummary) {
	if summary.Error == "" {
		return
	}

	fmt.Fprintln(l.writer)
	fmt.Fprintf(l.writer, "%s  Error Details:%s\n", l.colorBoldRed, l.colorReset)
	fmt.Fprintf(l.writer, "%s    %s%s\n", l.colorRed, summary.Error, l.colorReset)
	if summary.Advice != "" {
		fmt.Fprintf(l.writer, "%s    %s%s\n", l.colorYellow, summary.Advice, l.colorReset)
	}
}

// ParseLogLevel converts a verbosity name to a LogLevel. Unknown names map
// to LogLevelNormal.
func ParseLogLevel(level string) LogLevel {
	switch level {
	case "quiet":
		return LogLevelQuiet
	case "normal":
		return LogLevelNormal
	case "verbose":
		return LogLevelVerbose
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelNormal
	}
}

// formatNumber formats large numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}
