// Package workflow sequences the multi-step flows of the client: the
// project-creation wizard and the steady-state per-section operations. It
// translates backend responses into document store mutations and gates
// conflicting per-section work through the operation tracker.
package workflow

import (
	"context"

	"github.com/nexwrit/scribe/internal/document"
)

// Backend is the slice of the API client the workflow layer depends on.
// Tests substitute fakes; *api.Client satisfies it.
type Backend interface {
	GenerateOutline(ctx context.Context, topic string, docType document.DocType, numSections int) ([]string, error)
	CreateProject(ctx context.Context, title string, docType document.DocType) (document.Project, error)
	ListProjects(ctx context.Context) ([]document.Project, error)
	GetProject(ctx context.Context, projectID string) (document.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
	ListSections(ctx context.Context, projectID string) ([]document.Section, error)
	CreateSection(ctx context.Context, projectID, title string, orderIndex int) (document.Section, error)
	UpdateSectionTitle(ctx context.Context, projectID, sectionID, title string) (document.Section, error)
	GenerateSection(ctx context.Context, sectionID string) (document.Section, error)
	RefineSection(ctx context.Context, sectionID, instruction string) (document.Section, error)
	SendFeedback(ctx context.Context, sectionID string, positive bool) error
	AddComment(ctx context.Context, sectionID, text string) (document.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}
