package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nexwrit/scribe/internal/document"
)

type projectsLoadedMsg struct {
	projects []document.Project
	err      error
}

type projectDeletedMsg struct {
	projectID string
	title     string
	err       error
}

// projectItem implements list.Item for the dashboard.
type projectItem struct {
	project document.Project
}

func (i projectItem) Title() string {
	return i.project.Title
}

func (i projectItem) Description() string {
	desc := string(i.project.Type)
	if i.project.CreatedAt != nil {
		desc += " · " + i.project.CreatedAt.Format("2006-01-02")
	}
	if i.project.Status != "" {
		desc += " · " + i.project.Status
	}
	return desc
}

func (i projectItem) FilterValue() string { return i.project.Title }

// dashboardView lists the user's projects.
type dashboardView struct {
	app     *App
	list    list.Model
	loading bool
	err     error

	// Set while waiting for the user to confirm a delete.
	confirmDelete string
}

func newDashboardView(app *App) *dashboardView {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "My Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return &dashboardView{app: app, list: l, loading: true}
}

func (v *dashboardView) setSize(width, height int) {
	v.list.SetSize(max(0, width-4), max(0, height-8))
}

// load fetches the project list.
func (v *dashboardView) load() tea.Cmd {
	v.loading = true
	v.err = nil
	backend := v.app.backend
	return func() tea.Msg {
		projects, err := backend.ListProjects(context.Background())
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (v *dashboardView) selected() (document.Project, bool) {
	item, ok := v.list.SelectedItem().(projectItem)
	if !ok {
		return document.Project{}, false
	}
	return item.project, true
}

func (v *dashboardView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v.app.showNotice("Failed to load projects: "+msg.err.Error(), true)
		}
		v.err = nil
		items := make([]list.Item, len(msg.projects))
		for i, p := range msg.projects {
			items[i] = projectItem{project: p}
		}
		v.list.SetItems(items)
		return nil

	case projectDeletedMsg:
		if msg.err != nil {
			return v.app.showNotice("Failed to delete project: "+msg.err.Error(), true)
		}
		return tea.Batch(
			v.app.showNotice(fmt.Sprintf("Deleted %q", msg.title), false),
			v.load(),
		)

	case tea.KeyMsg:
		key := msg.String()

		// A pending delete confirmation swallows every key.
		if v.confirmDelete != "" {
			switch key {
			case "y", "Y":
				projectID := v.confirmDelete
				title := ""
				if p, ok := v.selected(); ok && p.ID == projectID {
					title = p.Title
				}
				v.confirmDelete = ""
				orch := v.app.orch
				return func() tea.Msg {
					err := orch.DeleteProject(context.Background(), projectID)
					return projectDeletedMsg{projectID: projectID, title: title, err: err}
				}
			default:
				v.confirmDelete = ""
				return nil
			}
		}

		switch key {
		case "q":
			return tea.Quit
		case "n":
			return v.app.gotoWizard()
		case "r":
			return v.load()
		case "d":
			if p, ok := v.selected(); ok {
				v.confirmDelete = p.ID
			}
			return nil
		case "enter":
			if p, ok := v.selected(); ok {
				return v.app.gotoEditor(p.ID)
			}
			return nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *dashboardView) view() string {
	header := accentStyle.Render("NexWrit") + "  " +
		subtitleStyle.Render("AI-powered documents")
	if email := v.app.config.Auth.Email; email != "" {
		header += "  " + dimStyle.Render(email)
	}

	var body string
	switch {
	case v.loading:
		body = dimStyle.Render("Loading projects...")
	case v.err != nil:
		body = errorStyle.Render("Could not load projects.") + "\n" +
			dimStyle.Render("Press r to retry.")
	case len(v.list.Items()) == 0:
		body = dimStyle.Render("No projects yet. Press n to create your first document.")
	default:
		body = v.list.View()
	}

	if v.confirmDelete != "" {
		body += "\n" + errorStyle.Render("Delete this project? (y/N)")
	}

	help := helpStyle.Render("enter open · n new · d delete · r refresh · q quit")
	return header + "\n\n" + body + "\n" + help
}
