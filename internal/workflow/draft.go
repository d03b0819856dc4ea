package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nexwrit/scribe/internal/document"
)

// Stage names the wizard's position in the project-creation flow.
type Stage string

const (
	StageBasics     Stage = "basics"
	StageStructure  Stage = "structure"
	StageSubmitting Stage = "submitting"
	StageDone       Stage = "done"
)

// Validation failures surfaced to the user before any network call.
var (
	ErrMissingTitle   = errors.New("workflow: document title is required")
	ErrMissingType    = errors.New("workflow: document type is required")
	ErrNoSections     = errors.New("workflow: add at least one section before creating the project")
	ErrBlankSection   = errors.New("workflow: every section needs a non-empty title")
	ErrNotEditable    = errors.New("workflow: draft is no longer editable")
	ErrAlreadyCreated = errors.New("workflow: project was already created")
)

// Entry is one outline title in the wizard's working memory. The id is
// client-local, only used to keep list selection stable across reorders;
// nothing is persisted until Submit.
type Entry struct {
	ID    string
	Title string
}

// Draft holds the wizard state: Basics -> Structure -> Submitting -> Done.
// It is confined to the UI goroutine and has no lock: BeginSuggest and
// BeginSubmit hand out detached calls carrying snapshots, so the network
// goroutines running them never touch draft fields.
type Draft struct {
	backend     Backend
	stage       Stage
	docType     document.DocType
	title       string
	entries     []Entry
	outlineSize int

	project document.Project
}

// NewDraft starts a wizard at the basics stage. outlineSize is how many
// titles to request from the AI suggester.
func NewDraft(backend Backend, outlineSize int) *Draft {
	if outlineSize <= 0 {
		outlineSize = 5
	}
	return &Draft{
		backend:     backend,
		stage:       StageBasics,
		docType:     document.DocTypeWord,
		outlineSize: outlineSize,
	}
}

// Stage reports the wizard's position.
func (d *Draft) Stage() Stage { return d.stage }

// Title reports the working document title.
func (d *Draft) Title() string { return d.title }

// DocType reports the working document type.
func (d *Draft) DocType() document.DocType { return d.docType }

// Project returns the created project after Submit has succeeded.
func (d *Draft) Project() (document.Project, bool) {
	if d.stage != StageDone {
		return document.Project{}, false
	}
	return d.project, true
}

// SetBasics validates the type/title pair and advances to the structure
// stage. A failed validation leaves the stage unchanged.
func (d *Draft) SetBasics(docType document.DocType, title string) error {
	if d.stage != StageBasics {
		return ErrNotEditable
	}
	if !docType.Valid() {
		return ErrMissingType
	}
	if strings.TrimSpace(title) == "" {
		return ErrMissingTitle
	}
	d.docType = docType
	d.title = strings.TrimSpace(title)
	d.stage = StageStructure
	return nil
}

// Back returns from the structure stage to basics, keeping the outline.
func (d *Draft) Back() {
	if d.stage == StageStructure {
		d.stage = StageBasics
	}
}

// Entries returns a copy of the draft outline.
func (d *Draft) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Add appends an outline entry. Blank titles are ignored.
func (d *Draft) Add(title string) {
	if d.stage != StageStructure {
		return
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	d.entries = append(d.entries, Entry{ID: uuid.NewString(), Title: title})
}

// Rename edits an entry's title in place.
func (d *Draft) Rename(index int, title string) {
	if d.stage != StageStructure || index < 0 || index >= len(d.entries) {
		return
	}
	d.entries[index].Title = strings.TrimSpace(title)
}

// Remove deletes the entry at index.
func (d *Draft) Remove(index int) {
	if d.stage != StageStructure || index < 0 || index >= len(d.entries) {
		return
	}
	d.entries = append(d.entries[:index], d.entries[index+1:]...)
}

// MoveUp swaps the entry with its predecessor. Moving the first entry is a
// no-op. Reports whether anything moved.
func (d *Draft) MoveUp(index int) bool {
	if d.stage != StageStructure || index <= 0 || index >= len(d.entries) {
		return false
	}
	d.entries[index-1], d.entries[index] = d.entries[index], d.entries[index-1]
	return true
}

// MoveDown swaps the entry with its successor. Moving the last entry is a
// no-op.
func (d *Draft) MoveDown(index int) bool {
	if d.stage != StageStructure || index < 0 || index >= len(d.entries)-1 {
		return false
	}
	d.entries[index], d.entries[index+1] = d.entries[index+1], d.entries[index]
	return true
}

// ReplaceAll swaps the entire outline for the given titles. This is a full
// replace, not a merge: manual edits made before an AI suggestion are
// discarded, matching the product's observed behavior.
func (d *Draft) ReplaceAll(titles []string) {
	if d.stage != StageStructure {
		return
	}
	entries := make([]Entry, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		entries = append(entries, Entry{ID: uuid.NewString(), Title: title})
	}
	d.entries = entries
}

// OutlineCall is a detached outline request. Run only reads its own copies,
// so it is safe to invoke from a command goroutine while the UI keeps
// rendering the draft.
type OutlineCall struct {
	backend Backend
	topic   string
	docType document.DocType
	size    int
}

// BeginSuggest snapshots the outline request. The caller runs the returned
// call off-thread and applies its titles with ReplaceAll back on the UI
// goroutine.
func (d *Draft) BeginSuggest() (*OutlineCall, error) {
	if d.stage != StageStructure {
		return nil, ErrNotEditable
	}
	if strings.TrimSpace(d.title) == "" {
		return nil, ErrMissingTitle
	}
	return &OutlineCall{
		backend: d.backend,
		topic:   d.title,
		docType: d.docType,
		size:    d.outlineSize,
	}, nil
}

// Run asks the backend for an AI-suggested outline.
func (c *OutlineCall) Run(ctx context.Context) ([]string, error) {
	titles, err := c.backend.GenerateOutline(ctx, c.topic, c.docType, c.size)
	if err != nil {
		return nil, fmt.Errorf("workflow: suggest outline: %w", err)
	}
	return titles, nil
}

// SubmitCall is a detached project submission carrying copies of everything
// the network fan-out needs.
type SubmitCall struct {
	backend Backend
	title   string
	docType document.DocType
	titles  []string
}

// BeginSubmit validates the draft and moves it to the submitting stage. A
// validation failure leaves the stage unchanged. The outcome of running the
// returned call is applied with FinishSubmit.
func (d *Draft) BeginSubmit() (*SubmitCall, error) {
	switch d.stage {
	case StageStructure:
	case StageDone:
		return nil, ErrAlreadyCreated
	default:
		return nil, ErrNotEditable
	}
	if len(d.entries) == 0 {
		return nil, ErrNoSections
	}
	titles := make([]string, len(d.entries))
	for i, entry := range d.entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			return nil, ErrBlankSection
		}
		titles[i] = title
	}
	d.stage = StageSubmitting
	return &SubmitCall{
		backend: d.backend,
		title:   d.title,
		docType: d.docType,
		titles:  titles,
	}, nil
}

// Run creates the project, then creates every outline title as a section
// concurrently, each carrying its array position as order_index. The flow
// succeeds only when the project and all sections were created. There is no
// compensating delete when some section calls fail after the project
// exists; the error names the titles that failed so the user can follow up.
func (c *SubmitCall) Run(ctx context.Context) (document.Project, error) {
	project, err := c.backend.CreateProject(ctx, c.title, c.docType)
	if err != nil {
		return document.Project{}, fmt.Errorf("workflow: create project: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	failed := make([]string, len(c.titles))
	for i, title := range c.titles {
		g.Go(func() error {
			if _, err := c.backend.CreateSection(gctx, project.ID, title, i); err != nil {
				failed[i] = title
				return fmt.Errorf("workflow: create section %q: %w", title, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var names []string
		for _, title := range failed {
			if title != "" {
				names = append(names, title)
			}
		}
		if len(names) > 0 {
			return document.Project{}, fmt.Errorf("%w (project %s created, failed sections: %s)",
				err, project.ID, strings.Join(names, ", "))
		}
		return document.Project{}, err
	}
	return project, nil
}

// FinishSubmit applies a submission outcome on the UI goroutine: Done on
// success, back to Structure on failure so the outline stays editable for
// retry. Outcomes arriving in any other stage are ignored.
func (d *Draft) FinishSubmit(project document.Project, err error) {
	if d.stage != StageSubmitting {
		return
	}
	if err != nil {
		d.stage = StageStructure
		return
	}
	d.project = project
	d.stage = StageDone
}
