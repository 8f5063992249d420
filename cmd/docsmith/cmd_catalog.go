package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docsmith/internal/catalog"
	"docsmith/internal/flow"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the question catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the catalog and tag schema files",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := catalog.NewLoader()
		questions, err := loader.LoadCatalog(resolvePath(cfg.Catalog.Path))
		if err != nil {
			return err
		}
		fmt.Printf("Catalog OK: %d questions.\n", len(questions))

		lookup := catalog.NewLookup(questions)
		invalid := 0
		for _, q := range questions {
			if q.SkipIf != nil && q.SkipIf.Kind == catalog.ExprInvalid {
				fmt.Printf("  warning: %s has a malformed skip condition (treated as never-skip)\n", q.ID)
				invalid++
			}
			for value, targets := range q.Triggers {
				for _, target := range targets {
					if _, ok := lookup[target]; !ok {
						fmt.Printf("  warning: %s trigger %q points at unknown question %s\n", q.ID, value, target)
					}
				}
			}
		}

		if path := resolvePath(cfg.Catalog.SchemaPath); path != "" {
			schema, err := loader.LoadTagSchema(path)
			if err != nil {
				return err
			}
			fmt.Printf("Schema OK: %d tags, %d field entries.\n", len(schema.Tags), len(schema.Fields))
		}
		if invalid == 0 {
			fmt.Println("No malformed conditions.")
		}
		return nil
	},
}

var catalogShowStage string

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List catalog questions by stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, err := catalog.NewLoader().LoadCatalog(resolvePath(cfg.Catalog.Path))
		if err != nil {
			return err
		}
		if catalogShowStage != "" {
			questions = flow.FilterQuestions(questions, flow.FilterOptions{Stage: catalogShowStage})
		}
		for _, q := range questions {
			line := fmt.Sprintf("%-28s [%s/%s]", q.ID, q.Stage, q.Kind)
			if len(q.Tags) > 0 {
				line += "  tags: " + strings.Join(q.Tags, ",")
			}
			if len(q.Triggers) > 0 {
				line += fmt.Sprintf("  (%d triggers)", len(q.Triggers))
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	catalogShowCmd.Flags().StringVar(&catalogShowStage, "stage", "", "only show one stage")
	catalogCmd.AddCommand(catalogValidateCmd, catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}
