package git

import (
	"regexp"
	"strings"

	"github.com/superscript-dev/superscript/internal/config"
)

var (
	// sshPattern matches git, ssh and scp-like repository URLs ending in .git,
	// e.g. ssh://git@git.example.com:2222/team/repo.git
	sshPattern = regexp.MustCompile(
		`(?i)^(?:git|ssh|https?|git@[-\w.]+):(//)?(.*?)(\.git)(/?|#[-\d\w._]+?)$`)

	// webPattern matches http(s) and ftp(s) URLs with a domain, localhost or IPv4 host
	webPattern = regexp.MustCompile(
		`(?i)^(?:http|ftp)s?://` +
			`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?)|` +
			`localhost|` +
			`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
			`(?::\d+)?` +
			`(?:/?|[/?]\S+)$`)
)

// IsValidURL reports whether url looks like a web or git repository URL
func IsValidURL(url string) bool {
	return webPattern.MatchString(url) || sshPattern.MatchString(url)
}

// IsWebURL reports whether url is an http(s) or ftp(s) URL
func IsWebURL(url string) bool {
	return webPattern.MatchString(url)
}

// NameFromURL derives the repository name from its URL:
// "https://github.com/fortra/impacket.git/" yields "impacket".
func NameFromURL(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if idx := strings.LastIndexAny(trimmed, "/:"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return strings.TrimSuffix(trimmed, config.GitEnding)
}

// TrimGitSuffix removes a trailing .git from a repository URL
func TrimGitSuffix(url string) string {
	return strings.TrimSuffix(strings.TrimRight(url, "/"), config.GitEnding)
}

// WebURL converts a repository URL to the web address of the repository:
// "git@github.com:owner/repo.git" yields "https://github.com/owner/repo".
func WebURL(url string) string {
	trimmed := TrimGitSuffix(url)
	if rest, ok := strings.CutPrefix(trimmed, "git@"); ok {
		host, path, _ := strings.Cut(rest, ":")
		return "https://" + host + "/" + strings.TrimPrefix(path, "/")
	}
	if rest, ok := strings.CutPrefix(trimmed, "ssh://"); ok {
		rest = strings.TrimPrefix(rest, "git@")
		host, path, _ := strings.Cut(rest, "/")
		host, _, _ = strings.Cut(host, ":")
		return "https://" + host + "/" + path
	}
	if rest, ok := strings.CutPrefix(trimmed, "git://"); ok {
		return "https://" + rest
	}
	return trimmed
}
