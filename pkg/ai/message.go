package ai

import (
	"encoding/json"
	"errors"
)

// Role tags a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PartType identifies a content part.
type PartType string

const (
	PartText     PartType = "text"
	PartImageURL PartType = "image_url"
	PartFile     PartType = "file"
)

// ImageURL carries a remote url or a data uri.
type ImageURL struct {
	URL string `json:"url"`
}

// FileData carries an inline document as a data uri.
type FileData struct {
	FileData string `json:"file_data"`
}

// Part is one element of a multi-part message.
type Part struct {
	Type     PartType  `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
	File     *FileData `json:"file,omitempty"`
}

// TextPart builds a text content part.
func TextPart(text string) Part {
	return Part{Type: PartText, Text: text}
}

// ImagePart builds an image content part from a url or data uri.
func ImagePart(url string) Part {
	return Part{Type: PartImageURL, ImageURL: &ImageURL{URL: url}}
}

// FilePart builds a document content part from a data uri.
func FilePart(dataURI string) Part {
	return Part{Type: PartFile, File: &FileData{FileData: dataURI}}
}

// AttachmentPart picks an image part for image data uris and a file part otherwise.
func AttachmentPart(dataURI string) Part {
	if IsImageDataURI(dataURI) {
		return ImagePart(dataURI)
	}
	return FilePart(dataURI)
}

// Message is a role-tagged chat message. Content is either plain text or a list of parts.
type Message struct {
	Role  Role
	Text  string
	Parts []Part
}

func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Text: text}
}

func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Text: text}
}

// UserParts builds a user message with multi-part content.
func UserParts(parts ...Part) Message {
	return Message{Role: RoleUser, Parts: parts}
}

type wireMessage struct {
	Role    Role            `json:"role"`
	Content json.RawMessage `json:"content"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	var (
		content []byte
		err     error
	)
	if len(m.Parts) > 0 {
		content, err = json.Marshal(m.Parts)
	} else {
		content, err = json.Marshal(m.Text)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireMessage{Role: m.Role, Content: content})
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var wire wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	m.Role = wire.Role
	m.Text = ""
	m.Parts = nil
	if len(wire.Content) == 0 || string(wire.Content) == "null" {
		return nil
	}
	switch wire.Content[0] {
	case '"':
		return json.Unmarshal(wire.Content, &m.Text)
	case '[':
		return json.Unmarshal(wire.Content, &m.Parts)
	default:
		return errors.New("message content must be a string or a list of parts")
	}
}
