package version

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBuildInfo(t *testing.T, version, commit, date, branch, treeState string) {
	t.Helper()
	origVersion, origCommit, origDate, origBranch, origTree := Version, Commit, Date, Branch, TreeState
	t.Cleanup(func() {
		Version, Commit, Date, Branch, TreeState = origVersion, origCommit, origDate, origBranch, origTree
	})
	Version, Commit, Date, Branch, TreeState = version, commit, date, branch, treeState
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)
}

func TestString(t *testing.T) {
	t.Run("dev build", func(t *testing.T) {
		setBuildInfo(t, "dev", "unknown", "unknown", "unknown", "unknown")

		s := String()
		assert.Contains(t, s, ApplicationName)
		assert.Contains(t, s, "version")
	})

	t.Run("release build", func(t *testing.T) {
		setBuildInfo(t, "1.0.0", "abc123def456789", "2024-01-15T10:30:00Z", "main", "clean")

		s := String()
		assert.Contains(t, s, "abc123de")
		assert.Contains(t, s, "2024-01-15")
		assert.Contains(t, s, "branch: main")
	})

	t.Run("dirty tree marks the commit", func(t *testing.T) {
		setBuildInfo(t, "1.0.0", "abc123def456789", "unknown", "unknown", "dirty")

		assert.Contains(t, String(), "abc123de*")
		assert.Contains(t, Short(), "(abc123de*)")
	})
}

func TestShort(t *testing.T) {
	// Short omits the application name; Cobra prepends it.
	setBuildInfo(t, "1.0.0", "unknown", "unknown", "unknown", "unknown")
	assert.Equal(t, "1.0.0", Short())
}

func TestJSON(t *testing.T) {
	setBuildInfo(t, "1.2.3", "abc123def456789", "2024-01-15T10:30:00Z", "feature-branch", "clean")

	var info Info
	require.NoError(t, json.Unmarshal([]byte(JSON()), &info))

	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123def456789", info.Commit)
	assert.Equal(t, "abc123de", info.CommitSHA)
	assert.Equal(t, "2024-01-15T10:30:00Z", info.Date)
	assert.Equal(t, "feature-branch", info.Branch)
	assert.Equal(t, "clean", info.TreeState)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)
}

func TestUserAgent(t *testing.T) {
	setBuildInfo(t, "2.0.0", "unknown", "unknown", "unknown", "unknown")
	assert.Equal(t, ApplicationName+"/2.0.0", UserAgent())
}

func TestIsSnapshot(t *testing.T) {
	tests := []struct {
		version  string
		expected bool
	}{
		{"dev", true},
		{"1.0.0", false},
		{"1.0.1-SNAPSHOT.abc1234", true},
		{"0.1.0", false},
		{"2.0.0-SNAPSHOT.def5678", true},
		{"1.2.3-alpha.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			setBuildInfo(t, tt.version, "unknown", "unknown", "unknown", "unknown")
			assert.Equal(t, tt.expected, IsSnapshot())
			assert.Equal(t, tt.version != "dev" && !tt.expected, IsRelease())
		})
	}
}
