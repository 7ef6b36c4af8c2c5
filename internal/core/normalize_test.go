package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCompany(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Inc.", "acme"},
		{"Acme, LLC", "acme"},
		{"ACME Corp", "acme"},
		{"Zürich Labs", "zurich labs"},
		{"Crème Brûlée Co", "creme brulee"},
		{"Globex", "globex"},
		{"Inc", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCompany(tt.in), "input %q", tt.in)
	}
}

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Senior Software Engineer", "software engineer"},
		{"Jr. Backend Developer", "backend developer"},
		{"Lead Data Scientist", "data scientist"},
		{"Principal Engineer", "engineer"},
		{"Software Engineer", "software engineer"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePosition(tt.in), "input %q", tt.in)
	}
}

func TestWordOverlap(t *testing.T) {
	assert.Equal(t, 1.0, wordOverlap("acme labs", "acme labs"))
	assert.Equal(t, 0.5, wordOverlap("acme labs", "acme systems"))
	assert.Equal(t, 0.0, wordOverlap("acme", "globex"))
	assert.Equal(t, 0.0, wordOverlap("", "globex"))

	// Measured against the longer list, so a one-word subset of a
	// three-word name scores a third.
	assert.InDelta(t, 1.0/3.0, wordOverlap("acme", "acme research labs"), 1e-9)
}
