package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nexwrit/scribe/internal/document"
	"github.com/nexwrit/scribe/internal/logging"
	"github.com/nexwrit/scribe/internal/tracker"
)

// ErrSectionBusy rejects a second operation on a section whose previous
// operation has not settled.
var ErrSectionBusy = errors.New("workflow: an operation is already running for this section")

// ErrEmptyComment rejects blank comment text before any network call.
var ErrEmptyComment = errors.New("workflow: comment text is required")

// Orchestrator runs the steady-state editor operations: it validates and
// dispatches backend calls, reconciles responses into the document store,
// and keeps the operation tracker honest on every exit path.
type Orchestrator struct {
	backend Backend
	store   *document.Store
	ops     *tracker.Tracker
	logger  *zap.SugaredLogger
}

// OrchestratorOption customizes construction.
type OrchestratorOption func(*Orchestrator)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *zap.SugaredLogger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator wires the editor workflow to its collaborators.
func NewOrchestrator(backend Backend, store *document.Store, ops *tracker.Tracker, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		backend: backend,
		store:   store,
		ops:     ops,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Store exposes the document store for rendering.
func (o *Orchestrator) Store() *document.Store { return o.store }

// Ops exposes the tracker for rendering.
func (o *Orchestrator) Ops() *tracker.Tracker { return o.ops }

// Load fetches the project metadata and its section list in parallel and
// installs them in the store. Either fetch failing fails the whole load:
// a project is never shown without its sections or vice versa.
func (o *Orchestrator) Load(ctx context.Context, projectID string) error {
	var (
		project  document.Project
		sections []document.Section
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		project, err = o.backend.GetProject(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		sections, err = o.backend.ListSections(gctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("workflow: load project %s: %w", projectID, err)
	}
	o.store.Replace(project, sections)
	return nil
}

// Close drops the open project. Late completions for it become no-ops.
func (o *Orchestrator) Close() {
	o.store.Clear()
}

// Generate produces content for a section. The section's prior content, if
// any, is fully replaced. Busy sections reject the call up front.
func (o *Orchestrator) Generate(ctx context.Context, sectionID string) error {
	if !o.ops.Begin(sectionID, tracker.OpGenerating) {
		return ErrSectionBusy
	}
	defer o.ops.End(sectionID)

	section, err := o.backend.GenerateSection(ctx, sectionID)
	if err != nil {
		o.logger.Warnw("generate failed", "section", sectionID, "err", err)
		return fmt.Errorf("workflow: generate section: %w", err)
	}
	o.store.ReplaceSectionContent(sectionID, section.Content)
	return nil
}

// Refine applies a free-text instruction to a section's existing content.
// A blank instruction is a no-op. On failure the caller keeps the typed
// instruction around for retry; only a nil return should clear the input.
func (o *Orchestrator) Refine(ctx context.Context, sectionID, instruction string) error {
	if strings.TrimSpace(instruction) == "" {
		return nil
	}
	if !o.ops.Begin(sectionID, tracker.OpRefining) {
		return ErrSectionBusy
	}
	defer o.ops.End(sectionID)

	section, err := o.backend.RefineSection(ctx, sectionID, instruction)
	if err != nil {
		o.logger.Warnw("refine failed", "section", sectionID, "err", err)
		return fmt.Errorf("workflow: refine section: %w", err)
	}
	o.store.ReplaceSectionContent(sectionID, section.Content)
	return nil
}

// AddComment posts a note and appends it to the store once the backend has
// confirmed it. Comments are never applied optimistically.
func (o *Orchestrator) AddComment(ctx context.Context, sectionID, text string) (document.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return document.Comment{}, ErrEmptyComment
	}
	comment, err := o.backend.AddComment(ctx, sectionID, strings.TrimSpace(text))
	if err != nil {
		return document.Comment{}, fmt.Errorf("workflow: add comment: %w", err)
	}
	o.store.AppendComment(sectionID, comment)
	return comment, nil
}

// DeleteComment removes a comment, updating the store only after the
// backend confirmed the delete.
func (o *Orchestrator) DeleteComment(ctx context.Context, sectionID, commentID string) error {
	if err := o.backend.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("workflow: delete comment: %w", err)
	}
	o.store.RemoveComment(sectionID, commentID)
	return nil
}

// SendFeedback records a thumbs up or down. Feedback is fire-and-
// acknowledge: the UI reports success immediately and a backend failure is
// only logged, never surfaced or rolled back.
func (o *Orchestrator) SendFeedback(ctx context.Context, sectionID string, positive bool) {
	if err := o.backend.SendFeedback(ctx, sectionID, positive); err != nil {
		o.logger.Warnw("feedback not recorded", "section", sectionID, "positive", positive, "err", err)
	}
}

// RenameSection changes a section title, keeping content and position.
func (o *Orchestrator) RenameSection(ctx context.Context, sectionID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrBlankSection
	}
	project, ok := o.store.Project()
	if !ok {
		return fmt.Errorf("workflow: no project open")
	}
	section, err := o.backend.UpdateSectionTitle(ctx, project.ID, sectionID, title)
	if err != nil {
		return fmt.Errorf("workflow: rename section: %w", err)
	}
	o.store.RenameSection(sectionID, section.Title)
	return nil
}

// DeleteProject removes a project. The store is cleared when the deleted
// project is the open one.
func (o *Orchestrator) DeleteProject(ctx context.Context, projectID string) error {
	if err := o.backend.DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("workflow: delete project: %w", err)
	}
	if project, ok := o.store.Project(); ok && project.ID == projectID {
		o.store.Clear()
	}
	return nil
}
