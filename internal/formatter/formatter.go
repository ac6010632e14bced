// Package formatter renders commits as CIA.vc style announcement lines:
//
//	SpikeLite: Greg master * 86445ed / (2 files): Remove mono config - http://git.io/x
package formatter

import (
	"context"
	"fmt"
	"strings"

	"github.com/nahidhasan98/webhook-shunt/internal/models"
	"github.com/nahidhasan98/webhook-shunt/internal/validation"
)

// rootDir stands in for the parent of paths without a "/"
const rootDir = "/"

// Shortener turns a long URL into a short one, returning the input when it can't
type Shortener interface {
	Shorten(ctx context.Context, longURL string) string
}

// Formatter builds one announcement line per commit
type Formatter struct {
	shortener Shortener
	validator *validation.Validator
}

// New creates a formatter that shortens commit links with s
func New(s Shortener) *Formatter {
	return &Formatter{
		shortener: s,
		validator: validation.New(),
	}
}

// Format renders commit as a single line. It fails with INVALID_HASH when
// the commit hash is shorter than seven characters.
func (f *Formatter) Format(ctx context.Context, event *models.PushEvent, commit models.Commit) (string, error) {
	shortHash, appErr := f.validator.ShortHash(commit.Hash)
	if appErr != nil {
		return "", appErr
	}

	link := f.shortener.Shorten(ctx, CommitURL(event.RepositoryURL, shortHash))

	line := fmt.Sprintf("%s: %s %s * %s / %s: %s - %s",
		event.RepositoryName,
		commit.AuthorName,
		event.Branch,
		shortHash,
		DescribeFiles(commit.Files()),
		commit.Message,
		link,
	)

	return f.validator.SanitizeLine(line), nil
}

// CommitURL builds the link to a commit page
func CommitURL(repositoryURL, shortHash string) string {
	return fmt.Sprintf("%s/commit/%s", repositoryURL, shortHash)
}

// DescribeFiles summarises changed paths. A single path is shown as is,
// otherwise "(N files)" when all share a parent directory and
// "(N files in D dirs)" when they don't.
func DescribeFiles(files []string) string {
	if len(files) == 1 {
		return files[0]
	}

	dirs := make(map[string]struct{}, len(files))
	for _, file := range files {
		dir := rootDir
		if idx := strings.LastIndex(file, "/"); idx > -1 {
			dir = file[:idx]
		}
		dirs[dir] = struct{}{}
	}

	if len(dirs) > 1 {
		return fmt.Sprintf("(%d files in %d dirs)", len(files), len(dirs))
	}
	return fmt.Sprintf("(%d files)", len(files))
}
