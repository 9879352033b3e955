package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestNotePatch_Empty(t *testing.T) {
	assert.True(t, NotePatch{}.Empty())
	assert.False(t, NotePatch{IsPinned: ptr(false)}.Empty())
	assert.False(t, NotePatch{Image: ptr("uploads/1.png")}.Empty())
}

func TestNotePatch_ApplyKeepsAbsentFields(t *testing.T) {
	n := Note{Title: "t", Content: "c", Tags: []string{"a"}, IsPinned: true}

	NotePatch{Tags: ptr([]string{"x", "y"})}.Apply(&n)

	assert.Equal(t, "t", n.Title)
	assert.Equal(t, "c", n.Content)
	assert.True(t, n.IsPinned)
	assert.Equal(t, []string{"x", "y"}, n.Tags)
}

func TestNotePatch_ApplyZeroValues(t *testing.T) {
	n := Note{IsPinned: true, Tags: []string{"a"}}

	NotePatch{IsPinned: ptr(false), Tags: ptr([]string{})}.Apply(&n)

	assert.False(t, n.IsPinned)
	assert.Empty(t, n.Tags)
	assert.NotNil(t, n.Tags)
}
