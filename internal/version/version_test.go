package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionStrings(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "dev"
	assert.Equal(t, "KatFlow dev", GetShortVersion())
	assert.Contains(t, GetVersionInfo(), "KatFlow dev")

	Version = "1.2.0"
	Commit = "abc123"
	assert.Equal(t, "1.2.0", GetVersion())
	assert.Contains(t, GetVersionInfo(), "commit: abc123")
}
