package releases

import (
	"errors"
	"fmt"
	"strings"
)

// GitHubURL is the web address repositories are recorded under
const GitHubURL = "https://github.com"

// ErrInvalidRepository is returned for strings that do not name a GitHub repository
var ErrInvalidRepository = errors.New("invalid repository")

// ParseRepository extracts owner and repository from "owner/repo" or a GitHub URL
// such as "https://github.com/owner/repo.git" or ".../owner/repo/releases".
func ParseRepository(s string) (owner, repo string, err error) {
	trimmed := strings.TrimSpace(s)
	for _, prefix := range []string{"https://", "http://"} {
		trimmed = strings.TrimPrefix(trimmed, prefix)
	}
	trimmed = strings.TrimPrefix(trimmed, "www.")
	trimmed = strings.TrimPrefix(trimmed, "github.com/")
	trimmed = strings.TrimPrefix(trimmed, "git@github.com:")
	trimmed = strings.Trim(trimmed, "/")

	parts := strings.Split(trimmed, "/")
	if len(parts) > 2 && parts[2] == "releases" {
		parts = parts[:2]
	}
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: '%s', expected owner/repo", ErrInvalidRepository, s)
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// RepositoryURL returns the web URL recorded for a release component
func RepositoryURL(owner, repo string) string {
	return GitHubURL + "/" + owner + "/" + repo
}
