package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllTools(t *testing.T) {
	tools := AllTools()
	assert.Len(t, tools, 23)

	seen := make(map[string]bool)
	for _, tool := range tools {
		assert.False(t, seen[tool], "duplicate tool %s", tool)
		seen[tool] = true
		assert.True(t, IsTool(tool))
	}
}

func TestToolsetTools(t *testing.T) {
	for _, ts := range AllToolsets() {
		assert.True(t, IsToolset(ts))
		assert.NotEmpty(t, ToolsetTools(ts), ts)
	}
	assert.Nil(t, ToolsetTools("calendar"))
	assert.False(t, IsToolset("calendar"))
}

func TestMetaToolsAreNotRegularTools(t *testing.T) {
	meta := MetaTools()
	assert.Len(t, meta, 5)
	for _, name := range meta {
		assert.False(t, IsTool(name), name)
	}
}
