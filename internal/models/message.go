package models

import "time"

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerBot  Speaker = "bot"
	SpeakerUser Speaker = "user"
)

// Message is one turn in the conversation transcript.
type Message struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageLog is the ordered, append-only transcript of a session. Insertion
// order is display order. Appending an entry identical to the last one (same
// speaker, same text) is coalesced into a single entry, which guards against
// double-submission artifacts from UI re-renders.
type MessageLog struct {
	messages []Message
}

// Append adds a message to the log. It returns false when the entry was
// coalesced with the previous one and nothing was added.
func (l *MessageLog) Append(speaker Speaker, text string) bool {
	if n := len(l.messages); n > 0 {
		last := l.messages[n-1]
		if last.Speaker == speaker && last.Text == text {
			return false
		}
	}
	l.messages = append(l.messages, Message{
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now(),
	})
	return true
}

// Messages returns a copy of the transcript in display order.
func (l *MessageLog) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of entries in the log.
func (l *MessageLog) Len() int {
	return len(l.messages)
}

// Last returns the most recent entry, or a zero Message when empty.
func (l *MessageLog) Last() (Message, bool) {
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}

// Clear empties the transcript (used by "new search").
func (l *MessageLog) Clear() {
	l.messages = nil
}
