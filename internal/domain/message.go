package domain

// TargetKind distinguishes direct messages from channel messages
type TargetKind int

const (
	TargetChannel TargetKind = iota
	TargetUser
)

// Target is where a chat message is delivered
type Target struct {
	Kind TargetKind
	ID   string
}

// UserTarget addresses a member directly
func UserTarget(id MemberID) Target {
	return Target{Kind: TargetUser, ID: string(id)}
}

// ChannelTarget addresses a channel
func ChannelTarget(id string) Target {
	return Target{Kind: TargetChannel, ID: id}
}

func (t Target) String() string {
	if t.Kind == TargetUser {
		return "@" + t.ID
	}
	return "#" + t.ID
}

// Message is one inbound chat message
type Message struct {
	Sender     MemberID
	SenderName string
	Channel    Target
	Text       string
}

// DisplayName returns the sender's display name, falling back to the id
func (m Message) DisplayName() string {
	if m.SenderName != "" {
		return m.SenderName
	}
	return string(m.Sender)
}
