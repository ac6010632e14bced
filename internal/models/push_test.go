package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitFilesOrder(t *testing.T) {
	c := Commit{
		Added:    []string{"a/new.go"},
		Removed:  []string{"b/old.go", "b/older.go"},
		Modified: []string{"c/main.go"},
	}

	assert.Equal(t, []string{"a/new.go", "b/old.go", "b/older.go", "c/main.go"}, c.Files())
}

func TestCommitFilesEmpty(t *testing.T) {
	assert.Empty(t, Commit{}.Files())
}
