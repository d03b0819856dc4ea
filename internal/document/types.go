// Package document holds the in-memory model of the currently open project:
// the project metadata, its ordered sections, and per-section comments.
package document

import (
	"fmt"
	"time"
)

// DocType is the output format a project is authored for.
type DocType string

const (
	DocTypeWord  DocType = "docx"
	DocTypeSlide DocType = "pptx"
)

// Valid reports whether the type is one the backend accepts.
func (t DocType) Valid() bool {
	return t == DocTypeWord || t == DocTypeSlide
}

// ParseDocType validates a user-supplied type string.
func ParseDocType(s string) (DocType, error) {
	t := DocType(s)
	if !t.Valid() {
		return "", fmt.Errorf("document: unknown type %q (want %s or %s)", s, DocTypeWord, DocTypeSlide)
	}
	return t, nil
}

// Project mirrors the backend's project record. The client treats it as
// immutable metadata once created.
type Project struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id,omitempty"`
	Title     string     `json:"title"`
	Type      DocType    `json:"type"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ExportFilename is the default name for a saved export: "{title}.{type}".
func (p Project) ExportFilename() string {
	return fmt.Sprintf("%s.%s", p.Title, p.Type)
}

// Section is one ordered sub-unit of a project. Content stays empty until a
// generation call completes.
type Section struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content,omitempty"`
	OrderIndex int        `json:"order_index"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	Comments   []Comment  `json:"comments,omitempty"`
}

// HasContent reports whether generation has produced anything yet.
func (s Section) HasContent() bool {
	return s.Content != ""
}

// Comment is a free-text annotation on a section, independent of content.
type Comment struct {
	ID        string     `json:"id"`
	SectionID string     `json:"section_id,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
