package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, "1.3.0", info.SchemaVersion)
	assert.Greater(t, info.BuilderCount, 40)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestString(t *testing.T) {
	info := Info{Version: "v0.3.1", CommitHash: "0123456789abcdef", BuildTime: "2026-10-01", SchemaVersion: "1.2.0"}
	assert.Equal(t, "astbuild v0.3.1 (commit 0123456, built 2026-10-01, schema 1.2.0)", info.String())

	info.CommitHash = "dev"
	assert.Equal(t, "dev", info.Short())
}
