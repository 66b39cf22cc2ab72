package niulog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBuildsAndSyncsWithoutPanicking(t *testing.T) {
	log := New(false)
	assert.NotNil(t, log)
	log.Warn("a test warning")
	log.PassDecision("hoist-globals", "did something")
	log.ParseError(Location{Line: 1, Column: 2, Text: "x"}, "unexpected token")
	log.Sync()
}

func TestNewVerboseBuildsWithoutPanicking(t *testing.T) {
	log := New(true)
	assert.NotNil(t, log)
	log.Sync()
}
