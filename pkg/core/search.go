package core

import (
	"context"
	"strings"
)

// Search matches query case-insensitively against every title and against
// the text of every unprotected note. Protected notes are matched on title
// only, so their passwords are never needed. A note whose content cannot be
// read is skipped.
func (s *NoteStore) Search(ctx context.Context, query string, masterKey []byte) ([]SearchResult, error) {
	metas, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	results := make([]SearchResult, 0, len(metas))

	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if q == "" {
			results = append(results, SearchResult{NoteMetadata: m})
			continue
		}

		if strings.Contains(strings.ToLower(m.Title), q) {
			results = append(results, SearchResult{NoteMetadata: m, MatchedIn: MatchTitle})
			continue
		}
		if m.HasPassword {
			continue
		}

		text, err := s.contentText(ctx, m.ID, masterKey)
		if err != nil {
			s.logger.Warn("search skipped unreadable note", "id", m.ID, "error", err)
			continue
		}
		if strings.Contains(strings.ToLower(text), q) {
			results = append(results, SearchResult{NoteMetadata: m, MatchedIn: MatchContent})
		}
	}
	return results, nil
}

func (s *NoteStore) contentText(ctx context.Context, id string, masterKey []byte) (string, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.open(ctx, id, masterKey)
	if err != nil {
		return "", err
	}
	return p.Content.Text(), nil
}
