package workflow

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexwrit/scribe/internal/document"
)

func titles(d *Draft) []string {
	entries := d.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

func structureDraft(t *testing.T, backend Backend) *Draft {
	t.Helper()
	d := NewDraft(backend, 5)
	require.NoError(t, d.SetBasics(document.DocTypeWord, "EV Market 2025"))
	return d
}

// submitDraft drives the full submit flow synchronously, the same
// begin/run/finish sequence the wizard spreads across Update cycles.
func submitDraft(d *Draft) (document.Project, error) {
	call, err := d.BeginSubmit()
	if err != nil {
		return document.Project{}, err
	}
	project, err := call.Run(context.Background())
	d.FinishSubmit(project, err)
	return project, err
}

func suggestOutline(d *Draft) error {
	call, err := d.BeginSuggest()
	if err != nil {
		return err
	}
	suggested, err := call.Run(context.Background())
	if err != nil {
		return err
	}
	d.ReplaceAll(suggested)
	return nil
}

func TestDraftBasicsValidation(t *testing.T) {
	d := NewDraft(&fakeBackend{}, 5)

	require.ErrorIs(t, d.SetBasics(document.DocTypeWord, "   "), ErrMissingTitle)
	assert.Equal(t, StageBasics, d.Stage())

	require.ErrorIs(t, d.SetBasics(document.DocType("pdf"), "Title"), ErrMissingType)
	assert.Equal(t, StageBasics, d.Stage())

	require.NoError(t, d.SetBasics(document.DocTypeSlide, "  Quarterly Review  "))
	assert.Equal(t, StageStructure, d.Stage())
	assert.Equal(t, "Quarterly Review", d.Title())
	assert.Equal(t, document.DocTypeSlide, d.DocType())
}

func TestDraftOutlineEditing(t *testing.T) {
	d := structureDraft(t, &fakeBackend{})

	d.Add("Intro")
	d.Add("  Market Size ")
	d.Add("   ") // blank titles are ignored
	d.Add("Conclusion")
	assert.Equal(t, []string{"Intro", "Market Size", "Conclusion"}, titles(d))

	d.Rename(1, "Sizing")
	assert.Equal(t, []string{"Intro", "Sizing", "Conclusion"}, titles(d))

	d.Remove(0)
	assert.Equal(t, []string{"Sizing", "Conclusion"}, titles(d))

	d.Remove(7) // out of range: no-op
	assert.Equal(t, []string{"Sizing", "Conclusion"}, titles(d))
}

func TestDraftReorderBoundaries(t *testing.T) {
	d := structureDraft(t, &fakeBackend{})
	d.Add("A")
	d.Add("B")
	d.Add("C")

	assert.False(t, d.MoveUp(0), "moving the first entry up must be a no-op")
	assert.False(t, d.MoveDown(2), "moving the last entry down must be a no-op")
	assert.Equal(t, []string{"A", "B", "C"}, titles(d))

	assert.True(t, d.MoveUp(2))
	assert.Equal(t, []string{"A", "C", "B"}, titles(d))
	assert.True(t, d.MoveDown(0))
	assert.Equal(t, []string{"C", "A", "B"}, titles(d))
}

func TestDraftSuggestReplacesManualEntries(t *testing.T) {
	backend := &fakeBackend{outline: []string{"X", "Y", "Z"}}
	d := structureDraft(t, backend)
	d.Add("A")
	d.Add("B")

	require.NoError(t, suggestOutline(d))
	// Full replace, not a merge: the manual entries are gone.
	assert.Equal(t, []string{"X", "Y", "Z"}, titles(d))
}

func TestDraftSuggestErrorKeepsEntries(t *testing.T) {
	backend := &fakeBackend{outlineErr: errors.New("model unavailable")}
	d := structureDraft(t, backend)
	d.Add("A")

	require.Error(t, suggestOutline(d))
	assert.Equal(t, []string{"A"}, titles(d))
}

func TestBeginSuggestRequiresStructureStage(t *testing.T) {
	d := NewDraft(&fakeBackend{}, 5)

	_, err := d.BeginSuggest()
	require.ErrorIs(t, err, ErrNotEditable)
}

func TestDraftSubmitRequiresSections(t *testing.T) {
	backend := &fakeBackend{}
	d := structureDraft(t, backend)

	_, err := d.BeginSubmit()
	require.ErrorIs(t, err, ErrNoSections)
	assert.Zero(t, backend.callCount(), "validation failures must not reach the network")
	assert.Equal(t, StageStructure, d.Stage())
}

func TestDraftSubmitRejectsBlankTitles(t *testing.T) {
	backend := &fakeBackend{}
	d := structureDraft(t, backend)
	d.Add("Intro")
	d.entries = append(d.entries, Entry{ID: "x", Title: "   "})

	_, err := d.BeginSubmit()
	require.ErrorIs(t, err, ErrBlankSection)
	assert.Zero(t, backend.callCount())
	assert.Equal(t, StageStructure, d.Stage())
}

func TestDraftSubmitCreatesProjectThenSections(t *testing.T) {
	backend := &fakeBackend{}
	d := structureDraft(t, backend)
	d.Add("Intro")
	d.Add("Market Size")
	d.Add("Conclusion")

	project, err := submitDraft(d)
	require.NoError(t, err)
	assert.Equal(t, "EV Market 2025", project.Title)
	assert.Equal(t, document.DocTypeWord, project.Type)
	assert.Equal(t, StageDone, d.Stage())

	got, ok := d.Project()
	require.True(t, ok)
	assert.Equal(t, project.ID, got.ID)

	// The project call must come first; section calls run concurrently and
	// may land in any order, but each carries its array position.
	require.NotEmpty(t, backend.calls)
	assert.Equal(t, "create-project", backend.calls[0])
	require.Len(t, backend.created, 3)

	byIndex := make(map[int]string)
	for _, c := range backend.created {
		assert.Equal(t, project.ID, c.projectID)
		byIndex[c.orderIndex] = c.title
	}
	assert.Equal(t, map[int]string{0: "Intro", 1: "Market Size", 2: "Conclusion"}, byIndex)
}

func TestDraftSubmitProjectFailure(t *testing.T) {
	backend := &fakeBackend{projectErr: errors.New("quota exceeded")}
	d := structureDraft(t, backend)
	d.Add("Intro")

	_, err := submitDraft(d)
	require.Error(t, err)
	assert.Equal(t, StageStructure, d.Stage(), "a failed submit stays editable for retry")
	assert.Empty(t, backend.created)
}

func TestDraftSubmitPartialSectionFailure(t *testing.T) {
	backend := &fakeBackend{
		sectionErr: func(title string) error {
			if title == "Market Size" {
				return errors.New("backend hiccup")
			}
			return nil
		},
	}
	d := structureDraft(t, backend)
	d.Add("Intro")
	d.Add("Market Size")
	d.Add("Conclusion")

	_, err := submitDraft(d)
	require.Error(t, err)
	// No rollback: the project exists, the error names the failed title.
	assert.Contains(t, err.Error(), "Market Size")
	assert.Equal(t, StageStructure, d.Stage())

	var createdTitles []string
	for _, c := range backend.created {
		createdTitles = append(createdTitles, c.title)
	}
	sort.Strings(createdTitles)
	assert.NotContains(t, createdTitles, "Market Size")
}

func TestDraftSubmitTwice(t *testing.T) {
	d := structureDraft(t, &fakeBackend{})
	d.Add("Intro")

	_, err := submitDraft(d)
	require.NoError(t, err)
	_, err = d.BeginSubmit()
	require.ErrorIs(t, err, ErrAlreadyCreated)
}

func TestBeginSubmitMovesToSubmitting(t *testing.T) {
	d := structureDraft(t, &fakeBackend{})
	d.Add("Intro")

	call, err := d.BeginSubmit()
	require.NoError(t, err)
	require.NotNil(t, call)
	assert.Equal(t, StageSubmitting, d.Stage())

	// A second begin while one is in flight is rejected.
	_, err = d.BeginSubmit()
	require.ErrorIs(t, err, ErrNotEditable)
}

func TestFinishSubmitIgnoresOutcomesOutsideSubmitting(t *testing.T) {
	d := structureDraft(t, &fakeBackend{})
	d.Add("Intro")

	d.FinishSubmit(document.Project{ID: "proj-9"}, nil)
	assert.Equal(t, StageStructure, d.Stage())
	_, ok := d.Project()
	assert.False(t, ok)
}

// The submit call must be fully detached from the draft: the UI goroutine
// keeps rendering (reading stage, title, entries) while the network fan-out
// runs. Run with -race.
func TestDraftReadableWhileSubmitRuns(t *testing.T) {
	backend := &fakeBackend{}
	d := structureDraft(t, backend)
	d.Add("Intro")
	d.Add("Conclusion")

	call, err := d.BeginSubmit()
	require.NoError(t, err)

	type outcome struct {
		project document.Project
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		project, err := call.Run(context.Background())
		done <- outcome{project: project, err: err}
	}()

	for {
		select {
		case res := <-done:
			d.FinishSubmit(res.project, res.err)
			require.NoError(t, res.err)
			assert.Equal(t, StageDone, d.Stage())
			return
		default:
			// Render-style reads while the call is in flight.
			_ = d.Stage()
			_ = d.Title()
			_ = d.DocType()
			_ = d.Entries()
		}
	}
}
