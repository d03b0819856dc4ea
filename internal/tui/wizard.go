package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nexwrit/scribe/internal/document"
	"github.com/nexwrit/scribe/internal/workflow"
)

type outlineSuggestedMsg struct {
	titles []string
	err    error
}

type draftSubmittedMsg struct {
	project document.Project
	err     error
}

// wizardFocus tracks which control owns keystrokes on the structure stage.
type wizardFocus int

const (
	focusAddInput wizardFocus = iota
	focusOutline
	focusEditInput
)

// wizardView drives the create-project flow on top of workflow.Draft.
type wizardView struct {
	app   *App
	draft *workflow.Draft

	docType    document.DocType
	titleInput textinput.Model
	addInput   textinput.Model
	editInput  textinput.Model

	focus      wizardFocus
	selection  int
	editIndex  int
	aiLoading  bool
	submitting bool
	spin       spinner.Model
}

func newWizardView(app *App) *wizardView {
	v := &wizardView{app: app}
	v.reset()
	return v
}

// reset discards any previous draft and returns to the basics stage.
func (v *wizardView) reset() {
	v.draft = workflow.NewDraft(v.app.backend, v.app.config.Outline.SuggestedSections)
	v.docType = document.DocTypeWord

	v.titleInput = textinput.New()
	v.titleInput.Placeholder = "e.g. Market Analysis of the EV Industry in 2025"
	v.titleInput.CharLimit = 200
	v.titleInput.Focus()

	v.addInput = textinput.New()
	v.addInput.Placeholder = "Add section title..."
	v.addInput.CharLimit = 200

	v.editInput = textinput.New()
	v.editInput.CharLimit = 200

	v.focus = focusAddInput
	v.selection = 0
	v.editIndex = -1
	v.aiLoading = false
	v.submitting = false
	v.spin = spinner.New()
	v.spin.Spinner = spinner.Dot
}

func (v *wizardView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.aiLoading && !v.submitting {
			return nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return cmd

	case outlineSuggestedMsg:
		v.aiLoading = false
		if msg.err != nil {
			return v.app.showNotice("Failed to generate outline: "+msg.err.Error(), true)
		}
		// Full replace: manual entries are intentionally discarded.
		v.draft.ReplaceAll(msg.titles)
		v.selection = 0
		return nil

	case draftSubmittedMsg:
		v.submitting = false
		v.draft.FinishSubmit(msg.project, msg.err)
		if msg.err != nil {
			return v.app.showNotice("Failed to create project: "+msg.err.Error(), true)
		}
		return tea.Batch(
			v.app.showNotice(fmt.Sprintf("Created %q", msg.project.Title), false),
			v.app.gotoEditor(msg.project.ID),
		)

	case tea.KeyMsg:
		if v.submitting || v.aiLoading {
			// Ignore input while a call is in flight for the whole draft.
			return nil
		}
		switch v.draft.Stage() {
		case workflow.StageBasics:
			return v.updateBasics(msg)
		case workflow.StageStructure:
			return v.updateStructure(msg)
		}
	}
	return nil
}

func (v *wizardView) updateBasics(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return v.app.gotoDashboard()
	case "tab", "left", "right":
		if v.docType == document.DocTypeWord {
			v.docType = document.DocTypeSlide
		} else {
			v.docType = document.DocTypeWord
		}
		return nil
	case "enter":
		if err := v.draft.SetBasics(v.docType, v.titleInput.Value()); err != nil {
			return v.app.showNotice(err.Error(), true)
		}
		v.titleInput.Blur()
		v.addInput.Focus()
		v.focus = focusAddInput
		return nil
	}
	var cmd tea.Cmd
	v.titleInput, cmd = v.titleInput.Update(msg)
	return cmd
}

func (v *wizardView) updateStructure(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if v.focus == focusEditInput {
		switch key {
		case "esc":
			v.focus = focusOutline
			v.editIndex = -1
			v.editInput.Blur()
			return nil
		case "enter":
			v.draft.Rename(v.editIndex, v.editInput.Value())
			v.focus = focusOutline
			v.editIndex = -1
			v.editInput.Blur()
			return nil
		}
		var cmd tea.Cmd
		v.editInput, cmd = v.editInput.Update(msg)
		return cmd
	}

	switch key {
	case "esc":
		v.draft.Back()
		v.titleInput.Focus()
		v.addInput.Blur()
		return nil
	case "tab":
		if v.focus == focusAddInput {
			v.focus = focusOutline
			v.addInput.Blur()
		} else {
			v.focus = focusAddInput
			v.addInput.Focus()
		}
		return nil
	case "ctrl+s":
		return v.suggest()
	case "ctrl+d":
		return v.submit()
	}

	if v.focus == focusAddInput {
		if key == "enter" {
			v.draft.Add(v.addInput.Value())
			v.addInput.SetValue("")
			return nil
		}
		var cmd tea.Cmd
		v.addInput, cmd = v.addInput.Update(msg)
		return cmd
	}

	entries := v.draft.Entries()
	switch key {
	case "up", "k":
		if v.selection > 0 {
			v.selection--
		}
	case "down", "j":
		if v.selection < len(entries)-1 {
			v.selection++
		}
	case "K":
		if v.draft.MoveUp(v.selection) {
			v.selection--
		}
	case "J":
		if v.draft.MoveDown(v.selection) {
			v.selection++
		}
	case "x":
		v.draft.Remove(v.selection)
		if n := len(v.draft.Entries()); v.selection >= n && n > 0 {
			v.selection = n - 1
		}
	case "e":
		if v.selection < len(entries) {
			v.editIndex = v.selection
			v.editInput.SetValue(entries[v.selection].Title)
			v.editInput.Focus()
			v.focus = focusEditInput
		}
	case "s":
		return v.suggest()
	case "enter":
		return v.submit()
	}
	return nil
}

// suggest requests an AI outline. The returned titles wholly replace the
// draft once they arrive. Only the detached call crosses into the command
// goroutine; the draft itself stays on the UI goroutine.
func (v *wizardView) suggest() tea.Cmd {
	call, err := v.draft.BeginSuggest()
	if err != nil {
		return v.app.showNotice(err.Error(), true)
	}
	v.aiLoading = true
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		titles, err := call.Run(context.Background())
		return outlineSuggestedMsg{titles: titles, err: err}
	})
}

// submit validates and creates the project plus all sections. Validation and
// the stage flip happen here, synchronously; the goroutine runs only the
// detached call and the outcome is applied in Update.
func (v *wizardView) submit() tea.Cmd {
	call, err := v.draft.BeginSubmit()
	if err != nil {
		return v.app.showNotice(err.Error(), true)
	}
	v.submitting = true
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		project, err := call.Run(context.Background())
		return draftSubmittedMsg{project: project, err: err}
	})
}

func (v *wizardView) view() string {
	switch v.draft.Stage() {
	case workflow.StageBasics:
		return v.viewBasics()
	default:
		return v.viewStructure()
	}
}

func (v *wizardView) viewBasics() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create New Project") + "\n\n")

	word := "  Word Document (.docx)"
	slide := "  PowerPoint (.pptx)"
	if v.docType == document.DocTypeWord {
		word = selectedStyle.Render("▸ Word Document (.docx)")
	} else {
		slide = selectedStyle.Render("▸ PowerPoint (.pptx)")
	}
	b.WriteString(word + "\n" + slide + "\n\n")

	b.WriteString(subtitleStyle.Render("Document Title / Topic") + "\n")
	b.WriteString(paneStyle.Render(v.titleInput.View()) + "\n")
	b.WriteString(helpStyle.Render("tab switch type · enter continue · esc back"))
	return b.String()
}

func (v *wizardView) viewStructure() string {
	var b strings.Builder
	kind := "Section"
	if v.draft.DocType() == document.DocTypeSlide {
		kind = "Slide"
	}
	b.WriteString(titleStyle.Render(v.draft.Title()) + "  " +
		badgeStyle.Render(string(v.draft.DocType())) + "\n\n")
	b.WriteString(subtitleStyle.Render(kind+" Titles") + "\n")

	entries := v.draft.Entries()
	if len(entries) == 0 {
		b.WriteString(dimStyle.Render("  (no sections yet: add one below or press ctrl+s for an AI outline)") + "\n")
	}
	for i, entry := range entries {
		line := fmt.Sprintf("%2d. %s", i+1, entry.Title)
		if v.focus == focusEditInput && i == v.editIndex {
			line = fmt.Sprintf("%2d. %s", i+1, v.editInput.View())
			b.WriteString(selectedStyle.Render("▸") + line + "\n")
			continue
		}
		if v.focus == focusOutline && i == v.selection {
			b.WriteString(selectedStyle.Render("▸"+line) + "\n")
		} else {
			b.WriteString(" " + line + "\n")
		}
	}

	b.WriteString("\n" + v.addInput.View() + "\n")

	switch {
	case v.aiLoading:
		b.WriteString("\n" + v.spin.View() + busyStyle.Render(" Generating outline..."))
	case v.submitting:
		b.WriteString("\n" + v.spin.View() + busyStyle.Render(" Creating project..."))
	}

	b.WriteString("\n" + helpStyle.Render(
		"tab focus · enter add/create · e edit · x delete · K/J reorder · s AI suggest · esc back"))
	return b.String()
}
