package bot

// Message is one reply message. It is either Text or Image.
type Message interface {
	message()
}

// QuickReply is a suggested reply button; tapping it sends Text.
type QuickReply struct {
	Label string
	Text  string
}

// Text is a text message with optional quick reply buttons.
type Text struct {
	Text         string
	QuickReplies []QuickReply
}

// Image is an image message.
type Image struct {
	OriginalURL string
	PreviewURL  string
}

func (Text) message()  {}
func (Image) message() {}

// quickReplies builds buttons whose label and sent text are both the option.
func quickReplies(options []string) []QuickReply {
	items := make([]QuickReply, 0, len(options))
	for _, o := range options {
		items = append(items, QuickReply{Label: o, Text: o})
	}
	return items
}
