package schema

// Messages is the ordered conversation exchanged with the model during one
// query. It is append-only: entries are never mutated in place, only added
// through the typed appenders. A fresh Messages is created per query and
// discarded when the query completes.
type Messages struct {
	Messages []Message
}

// NewMessages returns a Messages initialised with the given messages.
// Called with no arguments it returns an empty conversation.
func NewMessages(msgs ...Message) Messages {
	if len(msgs) == 0 {
		return Messages{Messages: make([]Message, 0)}
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return Messages{Messages: out}
}

// AddSystem appends a system message.
func (mh *Messages) AddSystem(content string) {
	mh.Messages = append(mh.Messages, NewSystemMessage(content))
}

// AddUser appends a user message.
func (mh *Messages) AddUser(content string) {
	mh.Messages = append(mh.Messages, NewUserMessage(content))
}

// AddAssistant appends an assistant message with optional tool calls.
func (mh *Messages) AddAssistant(content *string, toolCalls []ToolCall) {
	mh.Messages = append(mh.Messages, NewAssistantMessage(content, toolCalls))
}

// AddToolResults appends the complete result set of one assistant turn as a
// single message. Callers must pass one result per tool call of the turn,
// in the order the calls appeared.
func (mh *Messages) AddToolResults(results []ToolResult) {
	mh.Messages = append(mh.Messages, NewToolResultsMessage(results))
}

// Len returns the number of messages in the conversation.
func (mh *Messages) Len() int { return len(mh.Messages) }

// Clone returns a deep copy of mh with an independent backing slice.
func (mh *Messages) Clone() Messages {
	cloned := make([]Message, len(mh.Messages))
	copy(cloned, mh.Messages)
	return Messages{Messages: cloned}
}
