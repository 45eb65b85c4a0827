package entity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Each entity kind has its own identifier type so a project id cannot be
// passed where a note id is expected. All of them are UUID strings except
// FileID, which is an object-storage key.
type (
	UserID        string
	ProjectID     string
	ScriptID      string
	NoteID        string
	InspirationID string
	TagID         string
	FileID        string
)

func NewUserID() UserID               { return UserID(uuid.NewString()) }
func NewProjectID() ProjectID         { return ProjectID(uuid.NewString()) }
func NewScriptID() ScriptID           { return ScriptID(uuid.NewString()) }
func NewNoteID() NoteID               { return NoteID(uuid.NewString()) }
func NewInspirationID() InspirationID { return InspirationID(uuid.NewString()) }
func NewTagID() TagID                 { return TagID(uuid.NewString()) }

func (id UserID) String() string        { return string(id) }
func (id ProjectID) String() string     { return string(id) }
func (id ScriptID) String() string      { return string(id) }
func (id NoteID) String() string        { return string(id) }
func (id InspirationID) String() string { return string(id) }
func (id TagID) String() string         { return string(id) }
func (id FileID) String() string        { return string(id) }

func (id UserID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

// ParseUUID validates the textual form of an entity id.
func ParseUUID(kind, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid %s id: %w", kind, err)
	}
	return id.String(), nil
}

// ProjectRef converts an optional raw project id into the nullable column
// value. Empty strings mean "no project".
func ProjectRef(raw *string) *ProjectID {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	id := ProjectID(trimmed)
	return &id
}
