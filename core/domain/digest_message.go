// Package domain holds the core types of the digest pipeline.
package domain

// Header is a single name/value pair from a provider message header list.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Part is one node of a provider message part tree. A node with a non-empty
// Parts slice is a container; a node without children is a leaf carrying
// MIME-typed body data. Leaf data arrives URL-safe base64 encoded, exactly
// as the provider delivers it.
type Part struct {
	MimeType string  `json:"mime_type"`
	Filename string  `json:"filename,omitempty"`
	Data     string  `json:"data,omitempty"`
	Parts    []*Part `json:"parts,omitempty"`
}

// IsLeaf reports whether the part carries body data instead of children.
func (p *Part) IsLeaf() bool {
	return len(p.Parts) == 0
}

// RawMessage is one mail item as delivered by the provider: an opaque stable
// ID, the flat header list, and the nested part tree.
type RawMessage struct {
	ID      string   `json:"id"`
	Headers []Header `json:"headers"`
	Payload *Part    `json:"payload"`
}

// Defaults used when a header is absent from the raw message.
const (
	DefaultSubject = "No Subject"
	DefaultSender  = "Unknown Sender"
)

// EmailContent is the flat record extracted from one RawMessage.
// Body is the normalized concatenation of all readable text parts.
type EmailContent struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	Body    string `json:"body"`
}

// FindHeader returns the value of the first header whose name matches
// exactly, or "" when no such header exists. Matching is case-sensitive,
// mirroring the provider's canonical header names.
func (m *RawMessage) FindHeader(name string) string {
	for _, h := range m.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}
