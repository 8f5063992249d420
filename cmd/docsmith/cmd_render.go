package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docsmith/internal/catalog"
	"docsmith/internal/flow"
	"docsmith/internal/store"
	"docsmith/internal/template"
)

var (
	renderSession string
	renderLevel   string
	renderOutput  string
	renderPreview bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Assemble the design document from a session's answers",
	Long: `Populates the section templates with the session's answers and
writes the assembled markdown document.

The sections included are chosen by the recommended complexity level;
override with --level to force a deeper or shallower document.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderSession, "session", "s", "", "session ID (required)")
	renderCmd.Flags().StringVarP(&renderLevel, "level", "l", "", "override level (minimal, basic, standard, advanced, enterprise)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output path (default from config)")
	renderCmd.Flags().BoolVar(&renderPreview, "preview", false, "render to the terminal instead of a file")
	renderCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	sessions, err := store.Open(resolvePath(cfg.Storage.DatabasePath))
	if err != nil {
		return err
	}
	defer sessions.Close()

	sess, err := sessions.Load(renderSession)
	if err != nil {
		return err
	}

	var schema *catalog.TagSchema
	if path := resolvePath(cfg.Catalog.SchemaPath); path != "" {
		if schema, err = catalog.NewLoader().LoadTagSchema(path); err != nil {
			logger.Warn("tag schema unavailable", zap.Error(err))
		}
	}

	analysis := flow.Analyze(sess.Answers, schema)
	level := analysis.RecommendedLevel
	if renderLevel != "" {
		level = catalog.ParseLevel(renderLevel)
	}

	lib, err := template.LoadLibrary(resolvePath(cfg.Document.TemplateDir))
	if err != nil {
		return err
	}

	doc := lib.Assemble(cfg.Document.Title, flow.SectionsForLevel(level), sess.Answers)
	markdown := doc.Markdown()
	tracker.DocumentRendered(level.String())
	logger.Info("document assembled",
		zap.String("session", sess.ID),
		zap.String("level", level.String()),
		zap.Int("sections", len(doc.Sections)))

	if renderPreview {
		out, err := template.RenderPreview(markdown)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	output := renderOutput
	if output == "" {
		output = resolvePath(cfg.Document.OutputPath)
	}
	if err := os.WriteFile(output, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	fmt.Printf("Wrote %s (%s level, %d sections).\n", output, level, len(doc.Sections))
	return nil
}
