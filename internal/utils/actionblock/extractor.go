// Package actionblock separates the prose of an agent reply from the fenced
// JSON command blocks embedded in it.
package actionblock

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

const openFence = "```json"

var fencedBlock = regexp.MustCompile("(?s)```json\\s*(.*?)```")

// Result is the outcome of one extraction.
type Result struct {
	CleanText string
	Actions   []domain.StructuredAction
}

// Extractor finds structured actions in agent text.
type Extractor interface {
	Extract(text string) Result
}

// FenceExtractor recognises ```json ... ``` blocks. The zero value is ready to use.
type FenceExtractor struct{}

// NewFenceExtractor returns a FenceExtractor.
func NewFenceExtractor() *FenceExtractor {
	return &FenceExtractor{}
}

// Extract returns the text with every fenced block removed and the actions of
// the blocks that decode into an object with both "action" and "data". Blocks
// that do not are removed from the text and otherwise ignored. An opening
// fence with no closing fence truncates the clean text at that point, and so
// does a trailing fragment of an opening fence that is still arriving.
func (FenceExtractor) Extract(text string) Result {
	var actions []domain.StructuredAction
	for _, m := range fencedBlock.FindAllStringSubmatch(text, -1) {
		if action, ok := decodeBlock(m[1]); ok {
			actions = append(actions, action)
		}
	}

	clean := fencedBlock.ReplaceAllString(text, "")
	if idx := strings.Index(clean, openFence); idx >= 0 {
		clean = clean[:idx]
	}
	for {
		trimmed := trimPartialFence(strings.TrimRightFunc(clean, unicode.IsSpace))
		if trimmed == clean {
			break
		}
		clean = trimmed
	}

	return Result{
		CleanText: strings.TrimSpace(clean),
		Actions:   actions,
	}
}

// trimPartialFence drops a suffix of text that could still grow into an opening
// fence. A lone backtick counts only at the start of a word, so the closing
// backtick of inline code survives.
func trimPartialFence(text string) string {
	for n := len(openFence) - 1; n > 0; n-- {
		if !strings.HasSuffix(text, openFence[:n]) {
			continue
		}
		head := text[:len(text)-n]
		if n == 1 && head != "" && !strings.ContainsAny(head[len(head)-1:], " \t\n") {
			return text
		}
		return head
	}
	return text
}

func decodeBlock(body string) (domain.StructuredAction, bool) {
	var action domain.StructuredAction
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &action); err != nil {
		return domain.StructuredAction{}, false
	}
	if action.Kind == "" || len(action.Data) == 0 || string(action.Data) == "null" {
		return domain.StructuredAction{}, false
	}
	return action, true
}
