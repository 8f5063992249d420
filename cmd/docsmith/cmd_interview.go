package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docsmith/internal/catalog"
	"docsmith/internal/session"
	"docsmith/internal/store"
	"docsmith/internal/tui"
)

var (
	interviewTags   []string
	interviewResume string
	interviewWatch  bool
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Start or resume an interactive design interview",
	Long: `Runs the interactive interview. Answers are persisted after every
question, so an interrupted interview can be resumed with --resume.

Use --tags to restrict the interview to focus areas; foundation
questions are always asked. Use --watch to reload the question catalog
live while editing it.`,
	RunE: runInterview,
}

func init() {
	interviewCmd.Flags().StringSliceVarP(&interviewTags, "tags", "t", nil, "focus areas (e.g. security,operations)")
	interviewCmd.Flags().StringVar(&interviewResume, "resume", "", "session ID to resume")
	interviewCmd.Flags().BoolVar(&interviewWatch, "watch", false, "reload the catalog when it changes on disk")
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, args []string) error {
	loader := catalog.NewLoader()
	catalogPath := resolvePath(cfg.Catalog.Path)
	schemaPath := resolvePath(cfg.Catalog.SchemaPath)

	bundle, err := loader.LoadBundle(cmd.Context(), catalogPath, schemaPath)
	if err != nil {
		return err
	}

	sessions, err := store.Open(resolvePath(cfg.Storage.DatabasePath))
	if err != nil {
		return err
	}
	defer sessions.Close()

	var controller *session.Controller
	if interviewResume != "" {
		sess, err := sessions.Load(interviewResume)
		if err != nil {
			return err
		}
		controller = session.Resume(bundle, sess)
		tracker.SessionResumed()
		logger.Info("resumed session", zap.String("id", sess.ID))
	} else {
		controller = session.New(bundle, interviewTags)
		tracker.SessionStarted()
		logger.Info("started session", zap.String("id", controller.Session().ID))
	}

	model := tui.NewInterview(controller)
	model.OnAnswer = func(revealed int) {
		tracker.AnswerRecorded(revealed)
		if err := sessions.Save(controller.Session()); err != nil {
			logger.Warn("save session", zap.Error(err))
		}
	}

	program := tea.NewProgram(model)

	if interviewWatch || cfg.Catalog.Watch {
		watcher, err := catalog.Watch(loader, []string{catalogPath, schemaPath}, func(path string) {
			reloaded, err := loader.LoadBundle(cmd.Context(), catalogPath, schemaPath)
			if err != nil {
				logger.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
				return
			}
			program.Send(tui.CatalogReloadedMsg{Bundle: reloaded})
		})
		if err != nil {
			return fmt.Errorf("watch catalog: %w", err)
		}
		defer watcher.Close()
	}

	if _, err := program.Run(); err != nil {
		return err
	}

	// Final save covers the quit-before-answering case.
	if err := sessions.Save(controller.Session()); err != nil {
		return err
	}

	analysis := controller.Analyze()
	progress := controller.Progress()
	fmt.Printf("\nSession %s saved (%d answers).\n", controller.Session().ID, progress.Answered)
	fmt.Printf("Recommended level: %s — run \"docsmith render --session %s\" to assemble the document.\n",
		analysis.RecommendedLevel, controller.Session().ID)
	return nil
}
