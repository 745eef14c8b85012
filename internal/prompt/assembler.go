// Package prompt builds the final LLM prompt from the system prompt,
// retrieved document context, trimmed conversation history and the current
// user turn. Assembly is deterministic and bounded: the output never exceeds
// the configured maximum length as long as the load-bearing sections fit.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ragbot/internal/vectorstore"
)

const (
	contextHeader    = "Document Context %d:\n"
	historyHeader    = "Conversation History:\n"
	generationCue    = "Assistant:"
	contextTruncated = "[document context truncated]\n"
	historyTruncated = "[earlier messages truncated]\n"
)

// Message is one conversation turn as seen by the assembler.
type Message struct {
	Role    string
	Content string
}

// Assembler builds prompts. HistoryWindow caps how many recent messages are
// considered at all; windowing happens before any budget truncation.
type Assembler struct {
	historyWindow int
}

// NewAssembler creates an Assembler keeping the historyWindow most recent
// messages.
func NewAssembler(historyWindow int) *Assembler {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &Assembler{historyWindow: historyWindow}
}

// Build assembles the prompt. Section order is fixed: system prompt, document
// context, conversation history, current user turn, generation cue.
//
// The system prompt and the current user turn are never truncated. When the
// whole prompt exceeds maxLength, the context block may use up to half of the
// remaining budget and the history block whatever is left, truncated from the
// oldest end. Best-effort truncated output is returned rather than an error.
func (a *Assembler) Build(systemPrompt string, history []Message, chunks []vectorstore.Chunk, userInput string, maxLength int) string {
	var head string
	if systemPrompt != "" {
		head = systemPrompt + "\n\n"
	}
	tail := "User: " + userInput + "\n" + generationCue

	remaining := maxLength - len(head) - len(tail)
	if remaining < 0 {
		// The load-bearing sections alone exceed the budget; they are still
		// emitted verbatim.
		return head + tail
	}

	contextBlock := buildContextBlock(chunks, remaining/2)
	historyBlock := a.buildHistoryBlock(history, userInput, remaining-len(contextBlock))

	return head + contextBlock + historyBlock + tail
}

// buildContextBlock renders numbered document sections within budget.
func buildContextBlock(chunks []vectorstore.Chunk, budget int) string {
	if len(chunks) == 0 || budget <= 0 {
		return ""
	}

	var b strings.Builder
	for i, chunk := range chunks {
		b.WriteString(fmt.Sprintf(contextHeader, i+1))
		b.WriteString(chunk.Text)
		b.WriteString("\n\n")
	}
	block := b.String()
	if len(block) <= budget {
		return block
	}

	// Cut to budget keeping room for the visible marker, backing up to a
	// rune boundary so a multi-byte character is never split.
	keep := budget - len(contextTruncated) - 1
	if keep <= 0 {
		return ""
	}
	for keep > 0 && !utf8.RuneStart(block[keep]) {
		keep--
	}
	return block[:keep] + "\n" + contextTruncated
}

// buildHistoryBlock renders the windowed history within budget, dropping the
// oldest turns first so the most recent context survives.
func (a *Assembler) buildHistoryBlock(history []Message, userInput string, budget int) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		// The current user turn is rendered separately; a persisted duplicate
		// would otherwise appear twice.
		if msg.Role == "user" && msg.Content == userInput {
			continue
		}
		lines = append(lines, roleLabel(msg.Role)+": "+msg.Content+"\n")
	}
	// Window after dropping the current turn so its persisted copy does not
	// consume a slot.
	if len(lines) > a.historyWindow {
		lines = lines[len(lines)-a.historyWindow:]
	}
	if len(lines) == 0 || budget <= 0 {
		return ""
	}

	total := len(historyHeader) + 1 // trailing blank line
	for _, line := range lines {
		total += len(line)
	}
	if total <= budget {
		return historyHeader + strings.Join(lines, "") + "\n"
	}

	// Keep the newest suffix of lines that fits alongside the marker.
	used := len(historyHeader) + len(historyTruncated) + 1
	start := len(lines)
	for start > 0 && used+len(lines[start-1]) <= budget {
		used += len(lines[start-1])
		start--
	}
	if start == len(lines) {
		return ""
	}
	return historyHeader + historyTruncated + strings.Join(lines[start:], "") + "\n"
}

func roleLabel(role string) string {
	switch role {
	case "assistant":
		return "Assistant"
	default:
		return "User"
	}
}
