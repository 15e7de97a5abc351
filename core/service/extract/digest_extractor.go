// Package extract turns raw provider messages into flat text records.
package extract

import (
	"encoding/base64"
	"regexp"
	"strings"

	"digest_server/core/domain"
)

const (
	mimeTextPlain = "text/plain"
	mimeTextHTML  = "text/html"
)

var (
	// Non-nesting-aware tag removal, same pass for every text/html leaf.
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

	// Runs of blank (possibly whitespace-carrying) lines collapse to one.
	blankLinePattern = regexp.MustCompile(`\n\s*\n`)
)

// Extractor flattens a RawMessage part tree into an EmailContent record.
// Extraction is total: missing headers fall back to defaults, unreadable
// parts are skipped, and decoding problems never surface as errors.
type Extractor struct{}

// NewExtractor creates a new content extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the flat record for one raw message. It never fails; the
// worst case is a record with default headers and an empty body.
func (e *Extractor) Extract(raw *domain.RawMessage) *domain.EmailContent {
	content := &domain.EmailContent{
		ID:      raw.ID,
		Subject: domain.DefaultSubject,
		Sender:  domain.DefaultSender,
	}

	if subject := raw.FindHeader("Subject"); subject != "" {
		content.Subject = subject
	}
	if sender := raw.FindHeader("From"); sender != "" {
		content.Sender = sender
	}

	content.Body = normalizeBody(collectText(raw.Payload))
	return content
}

// collectText walks the part tree depth-first with an explicit stack and
// accumulates readable leaf text in traversal order, one line break after
// each contribution. An explicit stack keeps traversal depth independent of
// goroutine stack limits since the tree shape is provider-controlled.
func collectText(root *domain.Part) string {
	if root == nil {
		return ""
	}

	var sb strings.Builder
	stack := []*domain.Part{root}

	for len(stack) > 0 {
		part := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !part.IsLeaf() {
			// Push children in reverse so they pop in declaration order.
			for i := len(part.Parts) - 1; i >= 0; i-- {
				if part.Parts[i] != nil {
					stack = append(stack, part.Parts[i])
				}
			}
			continue
		}

		switch part.MimeType {
		case mimeTextPlain:
			if text := decodeLeaf(part.Data); text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		case mimeTextHTML:
			if text := decodeLeaf(part.Data); text != "" {
				sb.WriteString(htmlTagPattern.ReplaceAllString(text, ""))
				sb.WriteString("\n")
			}
		}
		// Attachments, images and every other MIME type are skipped.
	}

	return sb.String()
}

// decodeLeaf decodes URL-safe base64 leaf data to text. Gmail emits both
// padded and unpadded encodings, so both are tried; invalid UTF-8 sequences
// are replaced rather than rejected. Undecodable data degrades to "".
func decodeLeaf(data string) string {
	if data == "" {
		return ""
	}

	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}

	return strings.ToValidUTF8(string(decoded), "�")
}

// normalizeBody trims surrounding whitespace and collapses every run of two
// or more blank lines into exactly one blank line.
func normalizeBody(body string) string {
	return blankLinePattern.ReplaceAllString(strings.TrimSpace(body), "\n\n")
}
