package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docsmith/internal/catalog"
	"docsmith/internal/flow"
	"docsmith/internal/store"
)

var analyzeSession string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show the complexity analysis for a session",
	Long: `Recomputes the complexity analysis from a session's answers and
prints the detected risk factors, the weighted score, and what the
recommended level unlocks.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSession, "session", "s", "", "session ID (required)")
	analyzeCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	sessions, err := store.Open(resolvePath(cfg.Storage.DatabasePath))
	if err != nil {
		return err
	}
	defer sessions.Close()

	sess, err := sessions.Load(analyzeSession)
	if err != nil {
		return err
	}

	var schema *catalog.TagSchema
	if path := resolvePath(cfg.Catalog.SchemaPath); path != "" {
		schema, _ = catalog.NewLoader().LoadTagSchema(path)
	}

	analysis := flow.Analyze(sess.Answers, schema)

	fmt.Printf("Session:  %s (%d answers)\n", sess.ID, len(sess.Answers))
	fmt.Printf("Level:    %s (score %d, threshold %d)\n",
		analysis.RecommendedLevel, analysis.Score, flow.LevelThreshold(analysis.RecommendedLevel))
	fmt.Printf("          %s\n\n", analysis.Description)

	fmt.Println("Risk factors:")
	lines := riskLines(analysis.Risk)
	for _, line := range lines {
		fmt.Printf("  - %s\n", line)
	}
	if len(lines) == 0 {
		fmt.Println("  (none detected)")
	}

	answered := len(sess.Answers.AnsweredFields())
	required := flow.MinAnsweredFields(analysis.RecommendedLevel)
	fmt.Printf("\nData completeness: %d/%d answered fields", answered, required)
	if answered < required {
		fmt.Printf(" — answer more questions for a reliable recommendation")
	}
	fmt.Println()

	fmt.Printf("\nDocument sections: %s\n", strings.Join(flow.SectionsForLevel(analysis.RecommendedLevel), ", "))
	fmt.Printf("Question tags:     %s\n", strings.Join(flow.TagsForLevel(analysis.RecommendedLevel), ", "))
	return nil
}

func riskLines(risk flow.RiskFactors) []string {
	var lines []string
	add := func(on bool, label string) {
		if on {
			lines = append(lines, label)
		}
	}
	add(risk.HandlesPII, "handles personally identifiable information")
	add(risk.HandlesHealthData, "handles health data")
	add(risk.HandlesPaymentData, "handles payment data")
	add(risk.UnderCompliance, "subject to compliance regulations")
	add(risk.RegulatedIndustry, "operates in a regulated industry")
	add(risk.MultiRegion, "deploys to multiple regions")
	add(risk.HighAvailability, "high availability target")
	add(risk.LargeScale, "large user scale")
	add(risk.MultiTenant, "multi-tenant architecture")
	if risk.IntegrationCount > 0 {
		lines = append(lines, fmt.Sprintf("%d external integrations", risk.IntegrationCount))
	}
	return lines
}
