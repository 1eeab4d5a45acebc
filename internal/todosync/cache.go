package todosync

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/temirov/todosync/internal/githubcli"
)

// IssueCache keeps issues already seen in the current run. A nil cache stores nothing.
type IssueCache struct {
	entries *lru.Cache[int, githubcli.Issue]
}

// NewIssueCache constructs a cache bounded to size issues. Non-positive sizes yield a nil cache.
func NewIssueCache(size int) (*IssueCache, error) {
	if size <= 0 {
		return nil, nil
	}
	entries, creationError := lru.New[int, githubcli.Issue](size)
	if creationError != nil {
		return nil, creationError
	}
	return &IssueCache{entries: entries}, nil
}

// Get returns a cached issue.
func (cache *IssueCache) Get(issueNumber int) (githubcli.Issue, bool) {
	if cache == nil {
		return githubcli.Issue{}, false
	}
	return cache.entries.Get(issueNumber)
}

// Add stores the issue under its number.
func (cache *IssueCache) Add(issue githubcli.Issue) {
	if cache == nil || issue.Number <= 0 {
		return
	}
	cache.entries.Add(issue.Number, issue)
}

// Purge forgets every cached issue.
func (cache *IssueCache) Purge() {
	if cache == nil {
		return
	}
	cache.entries.Purge()
}

// Len reports how many issues are cached.
func (cache *IssueCache) Len() int {
	if cache == nil {
		return 0
	}
	return cache.entries.Len()
}
