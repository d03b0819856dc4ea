package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/nexwrit/scribe/internal/document"
)

// fakeBackend records every call and serves canned responses. Error hooks
// let individual tests fail specific operations.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	outline     []string
	outlineErr  error
	project     document.Project
	projectErr  error
	sectionErr  func(title string) error
	sections    []document.Section
	listErr     error
	getErr      error
	created     []createdSection
	generated   document.Section
	generateErr error
	refined     document.Section
	refineErr   error
	comment     document.Comment
	commentErr  error
	deleteErr   error
	feedbackErr error
	renameErr   error
	projects    []document.Project

	feedback []bool
}

type createdSection struct {
	projectID  string
	title      string
	orderIndex int
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) GenerateOutline(ctx context.Context, topic string, docType document.DocType, n int) ([]string, error) {
	f.record("outline")
	return f.outline, f.outlineErr
}

func (f *fakeBackend) CreateProject(ctx context.Context, title string, docType document.DocType) (document.Project, error) {
	f.record("create-project")
	if f.projectErr != nil {
		return document.Project{}, f.projectErr
	}
	project := f.project
	if project.ID == "" {
		project = document.Project{ID: "proj-1", Title: title, Type: docType}
	}
	return project, nil
}

func (f *fakeBackend) ListProjects(ctx context.Context) ([]document.Project, error) {
	f.record("list-projects")
	return f.projects, nil
}

func (f *fakeBackend) GetProject(ctx context.Context, projectID string) (document.Project, error) {
	f.record("get-project")
	if f.getErr != nil {
		return document.Project{}, f.getErr
	}
	if f.project.ID != "" {
		return f.project, nil
	}
	return document.Project{ID: projectID, Title: "Untitled", Type: document.DocTypeWord}, nil
}

func (f *fakeBackend) DeleteProject(ctx context.Context, projectID string) error {
	f.record("delete-project")
	return f.deleteErr
}

func (f *fakeBackend) ListSections(ctx context.Context, projectID string) ([]document.Section, error) {
	f.record("list-sections")
	return f.sections, f.listErr
}

func (f *fakeBackend) CreateSection(ctx context.Context, projectID, title string, orderIndex int) (document.Section, error) {
	f.record("create-section")
	if f.sectionErr != nil {
		if err := f.sectionErr(title); err != nil {
			return document.Section{}, err
		}
	}
	f.mu.Lock()
	f.created = append(f.created, createdSection{projectID: projectID, title: title, orderIndex: orderIndex})
	f.mu.Unlock()
	return document.Section{
		ID:         fmt.Sprintf("sec-%d", orderIndex),
		ProjectID:  projectID,
		Title:      title,
		OrderIndex: orderIndex,
	}, nil
}

func (f *fakeBackend) UpdateSectionTitle(ctx context.Context, projectID, sectionID, title string) (document.Section, error) {
	f.record("rename-section")
	if f.renameErr != nil {
		return document.Section{}, f.renameErr
	}
	return document.Section{ID: sectionID, ProjectID: projectID, Title: title}, nil
}

func (f *fakeBackend) GenerateSection(ctx context.Context, sectionID string) (document.Section, error) {
	f.record("generate")
	return f.generated, f.generateErr
}

func (f *fakeBackend) RefineSection(ctx context.Context, sectionID, instruction string) (document.Section, error) {
	f.record("refine")
	return f.refined, f.refineErr
}

func (f *fakeBackend) SendFeedback(ctx context.Context, sectionID string, positive bool) error {
	f.record("feedback")
	f.mu.Lock()
	f.feedback = append(f.feedback, positive)
	f.mu.Unlock()
	return f.feedbackErr
}

func (f *fakeBackend) AddComment(ctx context.Context, sectionID, text string) (document.Comment, error) {
	f.record("add-comment")
	if f.commentErr != nil {
		return document.Comment{}, f.commentErr
	}
	comment := f.comment
	if comment.ID == "" {
		comment = document.Comment{ID: "com-1", SectionID: sectionID, Text: text}
	}
	return comment, nil
}

func (f *fakeBackend) DeleteComment(ctx context.Context, commentID string) error {
	f.record("delete-comment")
	return f.deleteErr
}
