// Package core holds the vault and note domain: the records persisted on
// disk, the stores that keep them consistent, and the ports the
// storage adapters implement.
package core

import (
	"fmt"
	"time"
)

// VaultVersion is written into every new vault record.
const VaultVersion = "1.0.0"

// MinPasswordLength is the minimum length of a master password, in characters.
const MinPasswordLength = 4

// DefaultNoteTitle is used by the boundary when a note is created without a title.
const DefaultNoteTitle = "Untitled note"

// VaultRecord is the single vault metadata record.
type VaultRecord struct {
	Version      string
	CreatedAt    time.Time
	PasswordHash string
	MasterSalt   []byte
	NotesCount   int
	// UpdatedAt stays zero until the first count refresh.
	UpdatedAt time.Time
}

// VaultStatus is the non-secret view of the vault record.
type VaultStatus struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	NotesCount int       `json:"notesCount"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

// NoteMetadata is the plaintext record stored next to each encrypted note.
// PasswordHash and NoteSalt are set only when HasPassword is true and are
// never exposed outside the process.
type NoteMetadata struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	HasPassword  bool      `json:"hasPassword"`
	Encrypted    bool      `json:"encrypted"`
	PasswordHash string    `json:"-"`
	NoteSalt     []byte    `json:"-"`
}

// NotePayload is the plaintext that gets encrypted into a note's content blob.
type NotePayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   Document  `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Note is what callers see when they read a note. A locked note carries no
// content and a Message telling the caller a password is needed.
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     Document  `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	HasPassword bool      `json:"hasPassword"`
	Locked      bool      `json:"locked"`
	Message     string    `json:"message,omitempty"`
}

// LockedMessage is returned with the stub of a protected note read without its password.
const LockedMessage = "This note is password protected"

// CreateNote is the input to NoteStore.Create.
type CreateNote struct {
	Title       string   `json:"title"`
	Content     Document `json:"content,omitempty"`
	HasPassword bool     `json:"hasPassword"`
	Password    string   `json:"password,omitempty"`
}

// NoteUpdate carries the fields to change. A nil field is left untouched.
type NoteUpdate struct {
	Title   *string  `json:"title,omitempty"`
	Content Document `json:"content,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u NoteUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil
}

// TitleOnly reports whether only the title changes, which never touches the
// encrypted blob.
func (u NoteUpdate) TitleOnly() bool {
	return u.Title != nil && u.Content == nil
}

// SearchResult is a listing entry annotated with where the query matched.
type SearchResult struct {
	NoteMetadata
	MatchedIn MatchLocation `json:"matchedIn,omitempty"`
}

// MatchLocation says whether a search hit came from the title or the content.
type MatchLocation string

const (
	MatchTitle   MatchLocation = "title"
	MatchContent MatchLocation = "content"
)

// RecordPair tells which halves of a note's on-disk pair exist.
type RecordPair struct {
	ID          string
	HasMetadata bool
	HasContent  bool
}

// Problem classifies an on-disk inconsistency found by NoteStore.Check.
type Problem string

const (
	ProblemMissingContent      Problem = "missing_content"
	ProblemMissingMetadata     Problem = "missing_metadata"
	ProblemUnreadableMetadata  Problem = "unreadable_metadata"
	ProblemMissingProtection   Problem = "missing_protection"
	ProblemUnexpectedProtected Problem = "unexpected_protection"
)

// Inconsistency is a single finding of NoteStore.Check.
type Inconsistency struct {
	ID      string  `json:"id"`
	Problem Problem `json:"problem"`
	Detail  string  `json:"detail,omitempty"`
}

// EventType represents the type of change in the notes directory.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a note observed on disk.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
