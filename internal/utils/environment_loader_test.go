package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/todosync/internal/utils"
)

func TestEnvironmentFileLoaderLoad(testInstance *testing.T) {
	testCases := []struct {
		name              string
		sharedContent     string
		localContent      string
		presetValue       string
		expectedValue     string
		expectedFileCount int
	}{
		{name: "no files", expectedValue: "", expectedFileCount: 0},
		{name: "shared file", sharedContent: "TODOSYNC_TEST_TOKEN=shared\n", expectedValue: "shared", expectedFileCount: 1},
		{name: "local file wins", sharedContent: "TODOSYNC_TEST_TOKEN=shared\n", localContent: "TODOSYNC_TEST_TOKEN=local\n", expectedValue: "local", expectedFileCount: 2},
		{name: "process environment wins", sharedContent: "TODOSYNC_TEST_TOKEN=shared\n", presetValue: "preset", expectedValue: "preset", expectedFileCount: 1},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			subTest.Setenv("TODOSYNC_TEST_TOKEN", testCase.presetValue)
			if len(testCase.presetValue) == 0 {
				require.NoError(subTest, os.Unsetenv("TODOSYNC_TEST_TOKEN"))
			}

			directory := subTest.TempDir()
			if len(testCase.sharedContent) > 0 {
				require.NoError(subTest, os.WriteFile(filepath.Join(directory, utils.EnvironmentFileName), []byte(testCase.sharedContent), 0o600))
			}
			if len(testCase.localContent) > 0 {
				require.NoError(subTest, os.WriteFile(filepath.Join(directory, utils.LocalEnvironmentFileName), []byte(testCase.localContent), 0o600))
			}

			loadedFiles, loadError := utils.NewEnvironmentFileLoader(directory).Load()
			require.NoError(subTest, loadError)
			require.Len(subTest, loadedFiles, testCase.expectedFileCount)
			require.Equal(subTest, testCase.expectedValue, os.Getenv("TODOSYNC_TEST_TOKEN"))
		})
	}
}

func TestEnvironmentFileLoaderReportsMalformedFile(testInstance *testing.T) {
	directory := testInstance.TempDir()
	require.NoError(testInstance, os.Mkdir(filepath.Join(directory, utils.EnvironmentFileName), 0o755))

	_, loadError := utils.NewEnvironmentFileLoader(directory).Load()
	require.Error(testInstance, loadError)
}
