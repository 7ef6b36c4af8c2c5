package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCompany(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name    string
		subject string
		body    string
		want    string
	}{
		{
			name: "at pattern",
			body: "Thank you for your interest in working at Acme Corp.",
			want: "Acme Corp",
		},
		{
			name: "team signature",
			body: "Best regards,\nThe Globex Team",
			want: "The Globex",
		},
		{
			name: "careers sender",
			body: "This message was sent by Initech Careers on behalf of the hiring manager.",
			want: "Initech",
		},
		{
			name:    "subject scanned before body",
			subject: "Update from Hooli",
			body:    "We reviewed your application at Pied Piper.",
			want:    "Hooli",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.subject, tt.body)
			require.NotNil(t, got.Company)
			assert.Equal(t, tt.want, *got.Company)
		})
	}
}

func TestExtractCompanyAbsent(t *testing.T) {
	e := NewExtractor()

	// A lone capitalized stopword after "at" is not a company.
	got := e.Extract("", "we will reach out at The earliest convenience")
	assert.Nil(t, got.Company)

	got = e.Extract("", "no capitalized names anywhere here")
	assert.Nil(t, got.Company)
}

func TestExtractPosition(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "for the X position",
			body: "Thank you for applying for the Software Engineer position.",
			want: "Software Engineer",
		},
		{
			name: "for the X role",
			body: "We received your application for the Backend Developer role.",
			want: "Backend Developer",
		},
		{
			name: "X position at",
			body: "Data Scientist position at Globex.",
			want: "Data Scientist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract("", tt.body)
			require.NotNil(t, got.Position)
			assert.Equal(t, tt.want, *got.Position)
		})
	}
}

func TestExtractDate(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name string
		body string
		want time.Time
	}{
		{
			name: "slash format",
			body: "Your interview is scheduled for 03/15/2026 at 10am.",
			want: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "dash format",
			body: "Please confirm by 9-30-2026.",
			want: time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month name with ordinal",
			body: "We will meet on January 5th, 2026.",
			want: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month name without comma",
			body: "Offer valid until December 31 2026.",
			want: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract("", tt.body)
			require.NotNil(t, got.Date)
			assert.True(t, tt.want.Equal(*got.Date), "got %v", *got.Date)
		})
	}
}

func TestExtractDateInvalidIsDiscarded(t *testing.T) {
	e := NewExtractor()

	// Values that do not survive a calendar round trip are dropped, never
	// defaulted to a bogus date.
	tests := []string{
		"reply by 13/45/2026 please",
		"reply by 02/30/2026 please",
		"reply by February 30, 2026 please",
	}
	for _, body := range tests {
		got := e.Extract("", body)
		assert.Nil(t, got.Date, "body %q", body)
	}
}

func TestExtractAbsentFieldsAreNil(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("hello", "nothing to see here")
	assert.Nil(t, got.Company)
	assert.Nil(t, got.Position)
	assert.Nil(t, got.Date)
	assert.Nil(t, got.Interviewer)
	assert.Nil(t, got.Location)
}
