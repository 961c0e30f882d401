package engine

import "strings"

// EmptyCommand is shown while the command buffer is empty.
const EmptyCommand = "_"

// Buffer accumulates the pending command.
type Buffer struct {
	b strings.Builder
}

// Add appends input to the command.
func (b *Buffer) Add(s string) {
	b.b.WriteString(s)
}

// Backspace removes the last character.
func (b *Buffer) Backspace() {
	s := []rune(b.b.String())
	if len(s) == 0 {
		return
	}
	b.b.Reset()
	b.b.WriteString(string(s[:len(s)-1]))
}

// Clear empties the command.
func (b *Buffer) Clear() {
	b.b.Reset()
}

func (b *Buffer) String() string {
	return b.b.String()
}

// Empty reports whether nothing has been entered.
func (b *Buffer) Empty() bool {
	return b.b.Len() == 0
}

// Display is the command as shown on the command screen.
func (b *Buffer) Display() string {
	if b.Empty() {
		return EmptyCommand
	}
	return b.String()
}
