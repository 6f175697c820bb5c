package completion

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged unit of a conversation sent to the completion
// provider. Messages are ephemeral; nothing here is stored.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
