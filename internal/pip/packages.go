package pip

import (
	"strings"
)

// IndexURL is the project page prefix recorded as url of pip components
const IndexURL = "https://pypi.org/project/"

// PackageURL returns the index page of pkg. A version specifier is dropped.
func PackageURL(pkg string) string {
	return IndexURL + PackageName(pkg) + "/"
}

// PackageName strips extras and version specifiers: "requests[socks]>=2.0" yields "requests"
func PackageName(pkg string) string {
	name := strings.TrimSpace(pkg)
	if idx := strings.IndexAny(name, "[<>=!~; "); idx >= 0 {
		name = name[:idx]
	}
	return name
}

// PackageFromURL returns the package recorded in a pip component url. Anything
// that is not an index URL is taken as the package itself.
func PackageFromURL(url string) string {
	rest, ok := strings.CutPrefix(url, IndexURL)
	if !ok {
		return url
	}
	name, _, _ := strings.Cut(rest, "/")
	return name
}
