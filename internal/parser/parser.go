// Package parser turns push webhook JSON into a models.PushEvent.
package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/nahidhasan98/webhook-shunt/internal/errors"
	"github.com/nahidhasan98/webhook-shunt/internal/models"
)

// Parse decodes a push payload. It fails with MALFORMED_PAYLOAD when the
// text is not JSON or lacks repository.name, repository.url, ref or commits.
func Parse(payload string) (*models.PushEvent, error) {
	var raw github.PushEvent
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, errors.MalformedPayload("invalid push payload JSON", err)
	}

	if err := checkRequired(&raw); err != nil {
		return nil, err
	}

	event := &models.PushEvent{
		RepositoryName: raw.GetRepo().GetName(),
		RepositoryURL:  raw.GetRepo().GetURL(),
		Branch:         BranchFromRef(raw.GetRef()),
		Commits:        make([]models.Commit, 0, len(raw.Commits)),
	}

	for i, c := range raw.Commits {
		if c == nil {
			return nil, errors.MalformedPayload(fmt.Sprintf("commits[%d] is null", i), nil)
		}
		event.Commits = append(event.Commits, models.Commit{
			AuthorName: c.GetAuthor().GetName(),
			Hash:       c.GetID(),
			Message:    c.GetMessage(),
			Added:      c.Added,
			Removed:    c.Removed,
			Modified:   c.Modified,
		})
	}

	return event, nil
}

func checkRequired(raw *github.PushEvent) error {
	var missing []string

	if raw.Repo == nil || raw.Repo.Name == nil {
		missing = append(missing, "repository.name")
	}
	if raw.Repo == nil || raw.Repo.URL == nil {
		missing = append(missing, "repository.url")
	}
	if raw.Ref == nil {
		missing = append(missing, "ref")
	}
	if raw.Commits == nil {
		missing = append(missing, "commits")
	}

	if len(missing) > 0 {
		return errors.MalformedPayload("push payload is missing "+strings.Join(missing, ", "), nil)
	}
	return nil
}

// BranchFromRef returns the last "/" separated segment of a git ref
func BranchFromRef(ref string) string {
	return ref[strings.LastIndex(ref, "/")+1:]
}
