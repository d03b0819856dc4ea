package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nexwrit/scribe/internal/document"
	"github.com/nexwrit/scribe/internal/tracker"
	"github.com/nexwrit/scribe/internal/workflow"
)

type projectOpenedMsg struct {
	projectID string
	err       error
}

// Completion messages carry the project id they belong to. A completion
// from a previously opened project is dropped on arrival; the store
// mutation already no-oped, so all that is suppressed is a stray notice.
type sectionGeneratedMsg struct {
	projectID string
	sectionID string
	err       error
}

type sectionRefinedMsg struct {
	projectID string
	sectionID string
	err       error
}

type commentAddedMsg struct {
	projectID string
	sectionID string
	err       error
}

type commentDeletedMsg struct {
	projectID string
	sectionID string
	commentID string
	err       error
}

type sectionRenamedMsg struct {
	projectID string
	sectionID string
	err       error
}

type exportDoneMsg struct {
	projectID string
	path      string
	err       error
}

// editorMode says which control owns keystrokes inside the editor.
type editorMode int

const (
	modeBrowse editorMode = iota
	modeRefine
	modeComment
	modeRename
	modeComments // navigating a section's comment list
)

// editorView is the steady-state screen: ordered sections with per-section
// generate/refine/comment/feedback actions and document export.
type editorView struct {
	app *App

	loading   bool
	loadErr   error
	projectID string

	selection  int
	mode       editorMode
	commentSel int

	refineInput  textinput.Model
	commentInput textinput.Model
	renameInput  textinput.Model

	// Unsent refine instructions per section id. An instruction survives a
	// failed refine so the user can retry without retyping.
	refineDrafts map[string]string
	// Comment-box visibility per section id. UI state only, never persisted.
	commentsOpen map[string]bool

	exporting bool
	spin      spinner.Model
}

func newEditorView(app *App) *editorView {
	refine := textinput.New()
	refine.Placeholder = "Refine instruction..."
	refine.CharLimit = 500
	comment := textinput.New()
	comment.Placeholder = "Add a note..."
	comment.CharLimit = 500
	rename := textinput.New()
	rename.CharLimit = 200
	return &editorView{
		app:          app,
		refineInput:  refine,
		commentInput: comment,
		renameInput:  rename,
		refineDrafts: make(map[string]string),
		commentsOpen: make(map[string]bool),
		spin:         spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// open loads the project and resets per-project UI state.
func (v *editorView) open(projectID string) tea.Cmd {
	v.loading = true
	v.loadErr = nil
	v.projectID = projectID
	v.selection = 0
	v.mode = modeBrowse
	v.refineDrafts = make(map[string]string)
	v.commentsOpen = make(map[string]bool)
	v.exporting = false
	orch := v.app.orch
	return func() tea.Msg {
		err := orch.Load(context.Background(), projectID)
		return projectOpenedMsg{projectID: projectID, err: err}
	}
}

func (v *editorView) sections() []document.Section {
	return v.app.orch.Store().Sections()
}

func (v *editorView) selectedSection() (document.Section, bool) {
	sections := v.sections()
	if v.selection < 0 || v.selection >= len(sections) {
		return document.Section{}, false
	}
	return sections[v.selection], true
}

func (v *editorView) anyBusy() bool {
	return len(v.app.orch.Ops().Snapshot()) > 0 || v.exporting
}

func (v *editorView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.anyBusy() {
			return nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return cmd

	case projectOpenedMsg:
		if msg.projectID != v.projectID {
			// Stale completion from a previously opened project.
			return nil
		}
		v.loading = false
		if msg.err != nil {
			v.loadErr = msg.err
			return v.app.showNotice("Failed to load project data", true)
		}
		return nil

	case sectionGeneratedMsg:
		if msg.projectID != v.projectID {
			return nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, workflow.ErrSectionBusy) {
				return v.app.showNotice("That section is still working", true)
			}
			return v.app.showNotice("Failed to generate content", true)
		}
		return v.app.showNotice("Content generated successfully", false)

	case sectionRefinedMsg:
		if msg.projectID != v.projectID {
			return nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, workflow.ErrSectionBusy) {
				return v.app.showNotice("That section is still working", true)
			}
			// The instruction stays in refineDrafts for retry.
			return v.app.showNotice("Failed to refine content", true)
		}
		delete(v.refineDrafts, msg.sectionID)
		return v.app.showNotice("Content refined successfully", false)

	case commentAddedMsg:
		if msg.projectID != v.projectID {
			return nil
		}
		if msg.err != nil {
			return v.app.showNotice("Failed to add comment", true)
		}
		v.commentsOpen[msg.sectionID] = true
		return v.app.showNotice("Comment added", false)

	case commentDeletedMsg:
		if msg.projectID != v.projectID {
			return nil
		}
		if msg.err != nil {
			return v.app.showNotice("Failed to delete comment", true)
		}
		if v.mode == modeComments {
			if section, ok := v.selectedSection(); ok {
				if n := len(section.Comments); v.commentSel >= n && n > 0 {
					v.commentSel = n - 1
				} else if n == 0 {
					v.mode = modeBrowse
				}
			}
		}
		return v.app.showNotice("Comment deleted", false)

	case sectionRenamedMsg:
		if msg.projectID != v.projectID {
			return nil
		}
		if msg.err != nil {
			return v.app.showNotice("Failed to rename section", true)
		}
		return v.app.showNotice("Section renamed", false)

	case exportDoneMsg:
		if msg.projectID != v.projectID {
			return nil
		}
		v.exporting = false
		if msg.err != nil {
			return v.app.showNotice("Failed to export document", true)
		}
		return v.app.showNotice("Exported to "+msg.path, false)

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return nil
}

func (v *editorView) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	switch v.mode {
	case modeRefine:
		return v.handleRefineKey(msg, key)
	case modeComment:
		return v.handleCommentKey(msg, key)
	case modeRename:
		return v.handleRenameKey(msg, key)
	case modeComments:
		return v.handleCommentsKey(key)
	}

	sections := v.sections()
	switch key {
	case "esc", "q":
		return v.app.gotoDashboard()
	case "up", "k":
		if v.selection > 0 {
			v.selection--
		}
	case "down", "j":
		if v.selection < len(sections)-1 {
			v.selection++
		}
	case "g":
		return v.generateSelected()
	case "f":
		if section, ok := v.selectedSection(); ok && section.HasContent() {
			v.mode = modeRefine
			v.refineInput.SetValue(v.refineDrafts[section.ID])
			v.refineInput.Focus()
			return tea.Batch(textinput.Blink)
		}
	case "c":
		if section, ok := v.selectedSection(); ok {
			v.commentsOpen[section.ID] = !v.commentsOpen[section.ID]
		}
	case "a":
		if _, ok := v.selectedSection(); ok {
			v.mode = modeComment
			v.commentInput.SetValue("")
			v.commentInput.Focus()
			return tea.Batch(textinput.Blink)
		}
	case "C":
		if section, ok := v.selectedSection(); ok && len(section.Comments) > 0 {
			v.commentsOpen[section.ID] = true
			v.mode = modeComments
			v.commentSel = 0
		}
	case "R":
		if section, ok := v.selectedSection(); ok {
			v.mode = modeRename
			v.renameInput.SetValue(section.Title)
			v.renameInput.Focus()
			return tea.Batch(textinput.Blink)
		}
	case "+", "=":
		return v.sendFeedback(true)
	case "-", "_":
		return v.sendFeedback(false)
	case "x":
		return v.export()
	case "r":
		return v.open(v.projectID)
	}
	return nil
}

func (v *editorView) handleRefineKey(msg tea.KeyMsg, key string) tea.Cmd {
	section, ok := v.selectedSection()
	if !ok {
		v.mode = modeBrowse
		return nil
	}
	switch key {
	case "esc":
		v.refineDrafts[section.ID] = v.refineInput.Value()
		v.mode = modeBrowse
		v.refineInput.Blur()
		return nil
	case "enter":
		instruction := v.refineInput.Value()
		v.refineDrafts[section.ID] = instruction
		v.mode = modeBrowse
		v.refineInput.Blur()
		if strings.TrimSpace(instruction) == "" {
			return nil
		}
		orch := v.app.orch
		projectID := v.projectID
		sectionID := section.ID
		return tea.Batch(v.spin.Tick, func() tea.Msg {
			err := orch.Refine(context.Background(), sectionID, instruction)
			return sectionRefinedMsg{projectID: projectID, sectionID: sectionID, err: err}
		})
	}
	var cmd tea.Cmd
	v.refineInput, cmd = v.refineInput.Update(msg)
	return cmd
}

func (v *editorView) handleCommentKey(msg tea.KeyMsg, key string) tea.Cmd {
	section, ok := v.selectedSection()
	if !ok {
		v.mode = modeBrowse
		return nil
	}
	switch key {
	case "esc":
		v.mode = modeBrowse
		v.commentInput.Blur()
		return nil
	case "enter":
		text := v.commentInput.Value()
		v.mode = modeBrowse
		v.commentInput.Blur()
		if strings.TrimSpace(text) == "" {
			return nil
		}
		orch := v.app.orch
		projectID := v.projectID
		sectionID := section.ID
		return func() tea.Msg {
			_, err := orch.AddComment(context.Background(), sectionID, text)
			return commentAddedMsg{projectID: projectID, sectionID: sectionID, err: err}
		}
	}
	var cmd tea.Cmd
	v.commentInput, cmd = v.commentInput.Update(msg)
	return cmd
}

func (v *editorView) handleRenameKey(msg tea.KeyMsg, key string) tea.Cmd {
	section, ok := v.selectedSection()
	if !ok {
		v.mode = modeBrowse
		return nil
	}
	switch key {
	case "esc":
		v.mode = modeBrowse
		v.renameInput.Blur()
		return nil
	case "enter":
		title := v.renameInput.Value()
		v.mode = modeBrowse
		v.renameInput.Blur()
		orch := v.app.orch
		projectID := v.projectID
		sectionID := section.ID
		return func() tea.Msg {
			err := orch.RenameSection(context.Background(), sectionID, title)
			return sectionRenamedMsg{projectID: projectID, sectionID: sectionID, err: err}
		}
	}
	var cmd tea.Cmd
	v.renameInput, cmd = v.renameInput.Update(msg)
	return cmd
}

func (v *editorView) handleCommentsKey(key string) tea.Cmd {
	section, ok := v.selectedSection()
	if !ok || len(section.Comments) == 0 {
		v.mode = modeBrowse
		return nil
	}
	switch key {
	case "esc":
		v.mode = modeBrowse
	case "up", "k":
		if v.commentSel > 0 {
			v.commentSel--
		}
	case "down", "j":
		if v.commentSel < len(section.Comments)-1 {
			v.commentSel++
		}
	case "x", "enter":
		if v.commentSel < len(section.Comments) {
			comment := section.Comments[v.commentSel]
			orch := v.app.orch
			projectID := v.projectID
			sectionID := section.ID
			return func() tea.Msg {
				err := orch.DeleteComment(context.Background(), sectionID, comment.ID)
				return commentDeletedMsg{projectID: projectID, sectionID: sectionID, commentID: comment.ID, err: err}
			}
		}
	}
	return nil
}

// generateSelected starts content generation for the selected section.
func (v *editorView) generateSelected() tea.Cmd {
	section, ok := v.selectedSection()
	if !ok {
		return nil
	}
	orch := v.app.orch
	projectID := v.projectID
	sectionID := section.ID
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		err := orch.Generate(context.Background(), sectionID)
		return sectionGeneratedMsg{projectID: projectID, sectionID: sectionID, err: err}
	})
}

// sendFeedback fires a thumbs up/down. The UI reports success immediately;
// delivery failures are only logged.
func (v *editorView) sendFeedback(positive bool) tea.Cmd {
	section, ok := v.selectedSection()
	if !ok {
		return nil
	}
	orch := v.app.orch
	sectionID := section.ID
	label := "Thanks for the feedback"
	notice := v.app.showNotice(label, false)
	return tea.Batch(notice, func() tea.Msg {
		orch.SendFeedback(context.Background(), sectionID, positive)
		return nil
	})
}

// export downloads the rendered document to the download directory.
func (v *editorView) export() tea.Cmd {
	project, ok := v.app.orch.Store().Project()
	if !ok {
		return nil
	}
	v.exporting = true
	exporter := v.app.exporter
	fallback := project.ExportFilename()
	projectID := project.ID
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		path, err := exporter.Save(context.Background(), projectID, fallback)
		return exportDoneMsg{projectID: projectID, path: path, err: err}
	})
}

func (v *editorView) view() string {
	if v.loading {
		return dimStyle.Render("Loading project...")
	}
	if v.loadErr != nil {
		return errorStyle.Render("Could not load project.") + "\n" +
			dimStyle.Render("Press r to retry, esc for the dashboard.")
	}
	project, ok := v.app.orch.Store().Project()
	if !ok {
		return dimStyle.Render("No project open.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(project.Title) + "  " +
		badgeStyle.Render(string(project.Type)))
	if v.exporting {
		b.WriteString("  " + v.spin.View() + busyStyle.Render("exporting..."))
	}
	b.WriteString("\n\n")

	sections := v.sections()
	ops := v.app.orch.Ops().Snapshot()
	width := v.app.contentWidth() - 6

	for i, section := range sections {
		b.WriteString(v.renderSection(i, section, ops[section.ID], width))
	}

	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *editorView) renderSection(i int, section document.Section, op tracker.Op, width int) string {
	var b strings.Builder

	marker := "  "
	titleLine := fmt.Sprintf("%d. %s", i+1, section.Title)
	if i == v.selection {
		marker = selectedStyle.Render("▸ ")
		titleLine = selectedStyle.Render(titleLine)
	} else {
		titleLine = titleStyle.Render(titleLine)
	}
	if section.HasContent() {
		titleLine += " " + successStyle.Render("✓")
	}
	switch op {
	case tracker.OpGenerating:
		titleLine += "  " + v.spin.View() + busyStyle.Render("generating...")
	case tracker.OpRefining:
		titleLine += "  " + v.spin.View() + busyStyle.Render("refining...")
	}
	b.WriteString(marker + titleLine + "\n")

	if i == v.selection && v.mode == modeRename {
		b.WriteString("    " + v.renameInput.View() + "\n")
	}

	if i == v.selection {
		b.WriteString(indent(renderContent(section.Content, width), "    ") + "\n")
		if v.mode == modeRefine {
			b.WriteString("    " + v.refineInput.View() + "\n")
		}
		if v.mode == modeComment {
			b.WriteString("    " + v.commentInput.View() + "\n")
		}
	}

	if v.commentsOpen[section.ID] {
		b.WriteString(v.renderComments(i, section))
	}
	b.WriteString("\n")
	return b.String()
}

func (v *editorView) renderComments(i int, section document.Section) string {
	var b strings.Builder
	if len(section.Comments) == 0 {
		b.WriteString("    " + dimStyle.Render("(no comments)") + "\n")
		return b.String()
	}
	for j, comment := range section.Comments {
		line := "· " + comment.Text
		if i == v.selection && v.mode == modeComments && j == v.commentSel {
			b.WriteString("    " + selectedStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("    " + subtitleStyle.Render(line) + "\n")
		}
	}
	return b.String()
}

func (v *editorView) renderHelp() string {
	switch v.mode {
	case modeRefine:
		return helpStyle.Render("enter refine · esc keep instruction for later")
	case modeComment:
		return helpStyle.Render("enter add comment · esc cancel")
	case modeRename:
		return helpStyle.Render("enter rename · esc cancel")
	case modeComments:
		return helpStyle.Render("j/k select comment · x delete · esc done")
	}
	return helpStyle.Render(
		"j/k section · g generate · f refine · a comment · c notes · C manage notes · " +
			"+/- feedback · R rename · x export · r reload · esc dashboard")
}

// indent prefixes every line, keeping rendered section bodies aligned under
// their titles.
func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
