package sync

import (
	"context"
	"log/slog"
	"strings"

	"github.com/superscript-dev/superscript/internal/httpclient"
	"github.com/superscript-dev/superscript/internal/versions"
)

// maxVersionSteps bounds the number of successive newer versions followed
const maxVersionSteps = 64

// Candidate is a newer download found next to a versioned file URL
type Candidate struct {
	URL      string
	Filename string
	Version  versions.Version
}

// VersionDetector finds newer versions of a versioned download URL
type VersionDetector interface {
	// NewestVersion returns the newest available version of fileURL, or nil if
	// none is newer or the file name carries no version
	NewestVersion(ctx context.Context, fileURL string) (*Candidate, error)
}

// URLVersionDetector looks for "<name>_<version>.<ext>" files with a bumped version
type URLVersionDetector struct {
	httpClient httpclient.Client
}

// NewURLVersionDetector creates a detector sending its existence checks through httpClient
func NewURLVersionDetector(httpClient httpclient.Client) *URLVersionDetector {
	return &URLVersionDetector{httpClient: httpClient}
}

// NewestVersion tries the next fix, minor and major version in this order. The
// first one found becomes the new base and probing continues from there.
func (d *URLVersionDetector) NewestVersion(ctx context.Context, fileURL string) (*Candidate, error) {
	idx := strings.LastIndex(fileURL, "/")
	if idx < 0 {
		return nil, nil
	}
	base, fileName := fileURL[:idx+1], fileURL[idx+1:]

	name, versionString, ext := versions.SplitFileName(fileName)
	if versionString == "" {
		slog.Debug("File name carries no version", "url", fileURL)
		return nil, nil
	}
	current, err := versions.Parse(versionString)
	if err != nil {
		slog.Debug("File name carries no parsable version", "url", fileURL, "error", err)
		return nil, nil
	}

	var newest *Candidate
	for range maxVersionSteps {
		next, err := d.nextExisting(ctx, base, name, ext, current)
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		newest = next
		current = next.Version
	}
	return newest, nil
}

// nextExisting returns the first existing candidate following current
func (d *URLVersionDetector) nextExisting(
	ctx context.Context, base, name, ext string, current versions.Version,
) (*Candidate, error) {
	for _, candidate := range current.Candidates() {
		fileName := versions.JoinFileName(name, candidate.Render(), ext)
		exists, err := d.httpClient.Exists(ctx, base+fileName)
		if err != nil {
			return nil, err
		}
		slog.Debug("Checked candidate version", "file", fileName, "exists", exists)
		if exists {
			return &Candidate{URL: base + fileName, Filename: fileName, Version: candidate}, nil
		}
	}
	return nil, nil
}
