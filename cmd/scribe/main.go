// cmd/scribe/main.go
//
// Entry point for the scribe client. Running `scribe` with no arguments
// starts the TUI; `scribe projects` and `scribe export` are headless
// commands for scripting.

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nexwrit/scribe/internal/api"
	"github.com/nexwrit/scribe/internal/config"
	"github.com/nexwrit/scribe/internal/export"
	"github.com/nexwrit/scribe/internal/logging"
	"github.com/nexwrit/scribe/internal/session"
	"github.com/nexwrit/scribe/internal/tui"
)

var (
	debug bool

	cfg    *config.Config
	logger *zap.SugaredLogger
	client *api.Client
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Terminal client for NexWrit AI-assisted documents",
	Long: `scribe is a terminal client for the NexWrit document-authoring service.

Browse your projects, create a new document from a manual or AI-suggested
outline, generate and refine per-section content, annotate sections with
notes and feedback, and export the finished document.

Authentication: drop your access token in ~/.scribe/token or set
SCRIBE_TOKEN.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; explicit config still applies.
		_ = godotenv.Load()

		dir, err := config.Dir()
		if err != nil {
			return err
		}
		if err := config.InitDir(dir); err != nil {
			return err
		}
		cfg, err = config.Load(dir)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogDir(), debug)
		if err != nil {
			return err
		}
		tokens := session.Default(cfg.TokenPath())
		client = api.New(cfg.Backend.URL, tokens,
			api.WithTimeout(cfg.RequestTimeout()),
			api.WithLogger(logger))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		saver := export.NewSaver(client, cfg.DownloadDir())
		app := tui.NewApp(cfg, client, saver, tui.WithLogger(logger))
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List your projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := client.ListProjects(context.Background())
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects yet.")
			return nil
		}
		for _, p := range projects {
			created := ""
			if p.CreatedAt != nil {
				created = p.CreatedAt.Format("2006-01-02")
			}
			fmt.Printf("%s\t%s\t%s\t%s\n", p.ID, p.Type, created, p.Title)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <project-id>",
	Short: "Export a project to the download directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID := args[0]
		project, err := client.GetProject(context.Background(), projectID)
		if err != nil {
			return err
		}
		saver := export.NewSaver(client, cfg.DownloadDir())
		path, err := saver.Save(context.Background(), projectID, project.ExportFilename())
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(projectsCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
