package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialQuestion(t *testing.T) {
	assert.Equal(t, "", initialQuestion("", nil))
	assert.Equal(t, "What is 2+2?", initialQuestion("", []string{"?question=What%20is%202%2B2%3F"}))
	assert.Equal(t, "typed", initialQuestion("typed", []string{"?question=linked"}))
}
