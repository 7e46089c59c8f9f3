package status

import (
	"fmt"

	"github.com/walteh/rewriterc/pkg/rule"
)

// FileFormatter defines how file results and progress are rendered
type FileFormatter interface {
	// FormatFileResult formats the status column of a file result
	FormatFileResult(r FileResult) string

	// FormatRuleCount formats one line of the per-rule breakdown
	FormatRuleCount(c rule.Count) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileResult formats the status column of a file result
func (f *DefaultFileFormatter) FormatFileResult(r FileResult) string {
	switch r.Status {
	case StatusPreview:
		return fmt.Sprintf("would make %s", plural(r.Changes, "change"))
	case StatusModified:
		return plural(r.Changes, "change")
	case StatusFailed:
		return "failed"
	case StatusUnchanged:
		return "no change"
	default:
		return "unknown"
	}
}

// FormatRuleCount formats one line of the per-rule breakdown
func (f *DefaultFileFormatter) FormatRuleCount(c rule.Count) string {
	return fmt.Sprintf("- %s: %s", c.Description, plural(c.Changes, "replacement"))
}

// FormatProgress formats a progress message with percentage.
// Negative values count as zero and the percentage never exceeds 100.
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	current, total = max(current, 0), max(total, 0)

	percentage := 100.0
	if total > 0 {
		percentage = min(float64(current)/float64(total)*100, 100)
	}

	emoji := "⏳"
	if current >= total {
		emoji = "✅"
	}
	return fmt.Sprintf("%s Progress: %d/%d (%.0f%%)", emoji, current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
