package extract

import (
	"encoding/base64"
	"strings"
	"testing"

	"digest_server/core/domain"
)

func encode(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func textPart(mime, body string) *domain.Part {
	return &domain.Part{MimeType: mime, Data: encode(body)}
}

func TestExtractHeaders(t *testing.T) {
	extractor := NewExtractor()

	tests := []struct {
		name        string
		headers     []domain.Header
		wantSubject string
		wantSender  string
	}{
		{
			name: "both headers present",
			headers: []domain.Header{
				{Name: "Subject", Value: "Meetup Friday"},
				{Name: "From", Value: "events@example.com"},
			},
			wantSubject: "Meetup Friday",
			wantSender:  "events@example.com",
		},
		{
			name: "subject present, sender absent",
			headers: []domain.Header{
				{Name: "Subject", Value: "Meetup Friday"},
			},
			wantSubject: "Meetup Friday",
			wantSender:  "Unknown Sender",
		},
		{
			name:        "no headers at all",
			headers:     nil,
			wantSubject: "No Subject",
			wantSender:  "Unknown Sender",
		},
		{
			name: "header match is case-sensitive",
			headers: []domain.Header{
				{Name: "subject", Value: "lowercase name"},
				{Name: "FROM", Value: "uppercase name"},
			},
			wantSubject: "No Subject",
			wantSender:  "Unknown Sender",
		},
		{
			name: "first match wins",
			headers: []domain.Header{
				{Name: "Subject", Value: "first"},
				{Name: "Subject", Value: "second"},
			},
			wantSubject: "first",
			wantSender:  "Unknown Sender",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &domain.RawMessage{ID: "m1", Headers: tt.headers}
			got := extractor.Extract(raw)

			if got.Subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", got.Subject, tt.wantSubject)
			}
			if got.Sender != tt.wantSender {
				t.Errorf("sender = %q, want %q", got.Sender, tt.wantSender)
			}
			if got.ID != "m1" {
				t.Errorf("id = %q, want m1", got.ID)
			}
		})
	}
}

func TestExtractBody(t *testing.T) {
	extractor := NewExtractor()

	tests := []struct {
		name     string
		payload  *domain.Part
		wantBody string
	}{
		{
			name: "two plain parts under one parent",
			payload: &domain.Part{
				MimeType: "multipart/alternative",
				Parts: []*domain.Part{
					textPart("text/plain", "Hello"),
					textPart("text/plain", "World"),
				},
			},
			wantBody: "Hello\nWorld",
		},
		{
			name:     "single plain leaf as root",
			payload:  textPart("text/plain", "Just one line"),
			wantBody: "Just one line",
		},
		{
			name:     "html tags stripped",
			payload:  textPart("text/html", "<html><body><p>Big <b>sale</b> today</p></body></html>"),
			wantBody: "Big sale today",
		},
		{
			name: "attachments and images skipped",
			payload: &domain.Part{
				MimeType: "multipart/mixed",
				Parts: []*domain.Part{
					textPart("text/plain", "See attachment"),
					{MimeType: "application/pdf", Filename: "invoice.pdf", Data: encode("%PDF-1.4")},
					{MimeType: "image/png", Data: encode("\x89PNG")},
				},
			},
			wantBody: "See attachment",
		},
		{
			name: "deeply nested parts in traversal order",
			payload: &domain.Part{
				MimeType: "multipart/mixed",
				Parts: []*domain.Part{
					{
						MimeType: "multipart/alternative",
						Parts: []*domain.Part{
							textPart("text/plain", "first"),
							textPart("text/html", "<p>second</p>"),
						},
					},
					textPart("text/plain", "third"),
				},
			},
			wantBody: "first\nsecond\nthird",
		},
		{
			name: "blank line runs collapse to one",
			payload: &domain.Part{
				MimeType: "multipart/alternative",
				Parts: []*domain.Part{
					textPart("text/plain", "para one\n\n\n\npara two"),
				},
			},
			wantBody: "para one\n\npara two",
		},
		{
			name:     "surrounding whitespace trimmed",
			payload:  textPart("text/plain", "  \n trimmed \n  "),
			wantBody: "trimmed",
		},
		{
			name: "undecodable leaf degrades silently",
			payload: &domain.Part{
				MimeType: "multipart/mixed",
				Parts: []*domain.Part{
					{MimeType: "text/plain", Data: "!!!not-base64!!!"},
					textPart("text/plain", "still here"),
				},
			},
			wantBody: "still here",
		},
		{
			name:     "nil payload yields empty body",
			payload:  nil,
			wantBody: "",
		},
		{
			name: "unpadded base64 accepted",
			payload: &domain.Part{
				MimeType: "text/plain",
				Data:     base64.RawURLEncoding.EncodeToString([]byte("no padding")),
			},
			wantBody: "no padding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &domain.RawMessage{ID: "m1", Payload: tt.payload}
			got := extractor.Extract(raw)

			if got.Body != tt.wantBody {
				t.Errorf("body = %q, want %q", got.Body, tt.wantBody)
			}
		})
	}
}

func TestExtractReplacesInvalidUTF8(t *testing.T) {
	extractor := NewExtractor()
	raw := &domain.RawMessage{
		ID:      "m1",
		Payload: &domain.Part{MimeType: "text/plain", Data: encode("ok\xff\xfeok")},
	}

	got := extractor.Extract(raw)
	if !strings.Contains(got.Body, "ok") {
		t.Fatalf("body lost valid content: %q", got.Body)
	}
	if strings.Contains(got.Body, "\xff") {
		t.Errorf("body still contains invalid bytes: %q", got.Body)
	}
}

func TestExtractBodyNeverContainsTags(t *testing.T) {
	extractor := NewExtractor()
	raw := &domain.RawMessage{
		ID: "m1",
		Payload: &domain.Part{
			MimeType: "multipart/alternative",
			Parts: []*domain.Part{
				textPart("text/html", "<div class=\"x\"><a href=\"https://e.co\">RSVP</a><br/></div>"),
				textPart("text/html", "<p>unclosed <b>bold"),
			},
		},
	}

	got := extractor.Extract(raw)
	if strings.Contains(got.Body, "<") && strings.Contains(got.Body, ">") {
		t.Errorf("body contains raw tag markup: %q", got.Body)
	}
	if !strings.Contains(got.Body, "RSVP") {
		t.Errorf("tag stripping removed text content: %q", got.Body)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	extractor := NewExtractor()
	raw := &domain.RawMessage{
		ID: "m1",
		Headers: []domain.Header{
			{Name: "Subject", Value: "Same every time"},
			{Name: "From", Value: "someone@example.com"},
		},
		Payload: &domain.Part{
			MimeType: "multipart/alternative",
			Parts: []*domain.Part{
				textPart("text/plain", "body\n\n\ntext"),
				textPart("text/html", "<p>more</p>"),
			},
		},
	}

	first := extractor.Extract(raw)
	second := extractor.Extract(raw)

	if *first != *second {
		t.Errorf("repeated extraction differs: %+v vs %+v", first, second)
	}
}
