package todosync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    CommandConfiguration
		expected CommandConfiguration
	}{
		{
			name:     "defaults survive",
			input:    DefaultCommandConfiguration(),
			expected: DefaultCommandConfiguration(),
		},
		{
			name: "blank values restored",
			input: CommandConfiguration{
				ChecklistPath:     "  ",
				Repository:        " octo/tasks ",
				CompletedHeading:  "### Completed ✓",
				RequestsPerSecond: -2,
				IssueCacheSize:    -1,
				DefaultIssueBody:  "",
			},
			expected: CommandConfiguration{
				ChecklistPath:    "TODO.md",
				MirrorDirectory:  ".todo",
				Repository:       "octo/tasks",
				RemoteName:       "origin",
				CompletedMarker:  "### Completed",
				CompletedHeading: "### Completed ✓",
			},
		},
		{
			name: "heading not matching marker falls back to marker",
			input: CommandConfiguration{
				ChecklistPath:    "docs/TODO.md",
				MirrorDirectory:  "mirror",
				RemoteName:       "upstream",
				CompletedMarker:  "## Done",
				CompletedHeading: "### Completed ✓",
				IssueCacheSize:   8,
			},
			expected: CommandConfiguration{
				ChecklistPath:    "docs/TODO.md",
				MirrorDirectory:  "mirror",
				RemoteName:       "upstream",
				CompletedMarker:  "## Done",
				CompletedHeading: "## Done",
				IssueCacheSize:   8,
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expected, testCase.input.sanitize())
		})
	}
}

func TestDefaultConfigurationValues(testInstance *testing.T) {
	defaults := DefaultConfigurationValues("sync")
	require.Equal(testInstance, "TODO.md", defaults["sync.checklist_path"])
	require.Equal(testInstance, ".todo", defaults["sync.mirror_directory"])
	require.Equal(testInstance, "### Completed ✓", defaults["sync.completed_heading"])
	require.Equal(testInstance, 256, defaults["sync.issue_cache_size"])
	require.Len(testInstance, defaults, 11)
	require.Equal(testInstance, "sync.repository", RepositoryConfigurationKey("sync"))
}

func TestIssueCacheNilSafety(testInstance *testing.T) {
	cache, cacheError := NewIssueCache(0)
	require.NoError(testInstance, cacheError)
	require.Nil(testInstance, cache)

	_, found := cache.Get(1)
	require.False(testInstance, found)
	cache.Purge()
	require.Zero(testInstance, cache.Len())
}
