package intake

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseMessage(t *testing.T, raw string) *mail.Message {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	require.NoError(t, err)
	return msg
}

func TestExtractTextPlainMessage(t *testing.T) {
	raw := "From: jobs@acme.com\r\n" +
		"Subject: Thank you for your application\r\n" +
		"\r\n" +
		"Thank you for your application to Acme Corp.\r\n"

	msg := parseMessage(t, raw)
	text, err := extractTextFromMessage(msg)
	require.NoError(t, err)
	assert.Contains(t, text, "Thank you for your application to Acme Corp.")
}

func TestExtractTextMultipart(t *testing.T) {
	raw := "From: jobs@acme.com\r\n" +
		"Subject: Interview Invitation\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"We would like to invite you for an interview.\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<p>We would like to invite you for an interview.</p>\r\n" +
		"--b1--\r\n"

	msg := parseMessage(t, raw)
	text, err := extractTextFromMessage(msg)
	require.NoError(t, err)
	assert.Contains(t, text, "We would like to invite you for an interview.")
	assert.NotContains(t, text, "<p>")
}

func TestExtractTextMultipartMissingBoundary(t *testing.T) {
	raw := "From: jobs@acme.com\r\n" +
		"Subject: Update\r\n" +
		"Content-Type: multipart/mixed\r\n" +
		"\r\n" +
		"raw body without boundary\r\n"

	msg := parseMessage(t, raw)
	text, err := extractTextFromMessage(msg)
	require.NoError(t, err)
	assert.Contains(t, text, "raw body without boundary")
}

func TestDecodeEncodedHeader(t *testing.T) {
	decoded, err := decodeEncodedHeader("=?utf-8?q?Entretien_chez_Soci=C3=A9t=C3=A9?=")
	require.NoError(t, err)
	assert.Equal(t, "Entretien chez Société", decoded)

	// Plain headers pass through unchanged.
	decoded, err = decodeEncodedHeader("Interview Invitation")
	require.NoError(t, err)
	assert.Equal(t, "Interview Invitation", decoded)
}
