package models

// ShortHashLength is the number of hash characters shown in an announcement
const ShortHashLength = 7

// PushEvent is one decoded push webhook payload
type PushEvent struct {
	RepositoryName string
	// Branch is the last "/" segment of the ref, e.g. "main" for refs/heads/main
	Branch string
	// RepositoryURL is the base for per-commit links
	RepositoryURL string
	// Commits keep payload order
	Commits []Commit
}

// Commit is one entry of a push event
type Commit struct {
	AuthorName string
	Hash       string
	Message    string
	Added      []string
	Removed    []string
	Modified   []string
}

// Files returns the changed paths as added, then removed, then modified
func (c Commit) Files() []string {
	files := make([]string, 0, len(c.Added)+len(c.Removed)+len(c.Modified))
	files = append(files, c.Added...)
	files = append(files, c.Removed...)
	files = append(files, c.Modified...)
	return files
}
