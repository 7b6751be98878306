package domain

// Message type tags on the player wire.
const (
	MessageInfo     = "info"
	MessageQuestion = "question"
	MessageAck      = "ack"
	MessageEnd      = "end"
)

// Message is the outbound envelope sent to players. Options carries the
// answer texts in display order for question messages and is omitted
// otherwise. Correctness never travels on this type.
type Message struct {
	Type    string   `json:"type"`
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
}

// InfoMessage builds an informational notice.
func InfoMessage(text string) Message {
	return Message{Type: MessageInfo, Text: text}
}

// QuestionMessage builds the player-facing view of a question.
func QuestionMessage(q Question) Message {
	return Message{Type: MessageQuestion, Text: q.Text, Options: q.OptionTexts()}
}

// Answer is the inbound shape accepted from players. Anything that does not
// decode into it is treated as a stray message.
type Answer struct {
	Answer string `json:"answer"`
}
