package runner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for File Discovery:
// - Code patterns select files at any depth
// - Root-level files match **/ patterns too
// - Ignore patterns drop files and whole directories
// - The tool's own .codebuddy directory is always ignored
// - Invalid glob patterns fail construction

func TestFileDiscovery_MatchesPatterns(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"main.py":        "x = 1\n",
		"pkg/deep/m.py":  "y = 2\n",
		"pkg/readme.md":  "# doc\n",
		"scripts/run.sh": "echo\n",
	})

	fd, err := NewFileDiscovery(root, []string{"**/*.py"}, nil)
	require.NoError(t, err)

	files, err := fd.Discover()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(root, "main.py"), files[0])
	assert.Equal(t, filepath.Join(root, "pkg", "deep", "m.py"), files[1])
}

func TestFileDiscovery_IgnoreRules(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"keep.py":             "x = 1\n",
		"venv/lib/site.py":    "ignored\n",
		"__pycache__/m.py":    "ignored\n",
		"build/generated.pyc": "ignored\n",
	})

	fd, err := NewFileDiscovery(root,
		[]string{"**/*.py", "**/*.pyc"},
		[]string{"venv/**", "__pycache__/**", "*.pyc", "**/*.pyc"})
	require.NoError(t, err)

	files, err := fd.Discover()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "keep.py"), files[0])
}

func TestFileDiscovery_OwnDirectoryAlwaysIgnored(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"main.py":               "x = 1\n",
		".codebuddy/staging.py": "internal\n",
	})

	fd, err := NewFileDiscovery(root, []string{"**/*.py"}, nil)
	require.NoError(t, err)

	files, err := fd.Discover()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "main.py"), files[0])
}

func TestFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery(t.TempDir(), []string{"[unclosed"}, nil)
	require.Error(t, err)
}
