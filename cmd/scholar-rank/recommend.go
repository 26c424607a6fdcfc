// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-rank/internal/recommend"
	"github.com/pdiddy/scholar-rank/internal/store"
	"github.com/pdiddy/scholar-rank/internal/vector"
	"github.com/pdiddy/scholar-rank/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Personalized paper recommendations from interaction history",
	Long: `Recommend scores papers for a user by blending strategies: content matching
against a taste profile built from interactions and preferred categories,
citation-graph traversal from the heaviest interacted papers, and semantic
similarity to their titles. Merged candidates go through diversity-aware
selection so one topic cannot dominate the list.

Users with no interaction history get trending papers instead. Available
strategies: content, graph, semantic, trending.`,
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		return fmt.Errorf("--user required")
	}

	var strategies []recommend.Strategy
	if names, _ := cmd.Flags().GetString("strategies"); names != "" {
		var err error
		strategies, err = recommend.ParseStrategies(strings.Split(names, ","))
		if err != nil {
			return err
		}
	}

	st, err := store.NewStore(storeConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	var graph recommend.GraphStore
	if noGraph, _ := cmd.Flags().GetBool("no-graph"); !noGraph {
		graph = st
	}

	var index recommend.VectorIndex
	if noIndex, _ := cmd.Flags().GetBool("no-index"); !noIndex {
		index = vector.NewClient(vectorConfigFromFlags(cmd))
	}

	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	rec := recommend.NewRecommender(st, graph, index, recommendConfig())
	recs, err := rec.Recommend(context.Background(), userID, recommend.Options{
		Limit:      limit,
		Offset:     offset,
		Strategies: strategies,
	}, os.Stderr)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRecommendOutput(recs, jsonOutput)
}

func recommendConfig() types.RecommendConfig {
	return types.RecommendConfig{
		Limit:             viper.GetInt("recommend.limit"),
		LookbackDays:      viper.GetInt("recommend.lookback_days"),
		MMRLambda:         viper.GetFloat64("recommend.mmr_lambda"),
		CandidatePoolSize: viper.GetInt("recommend.candidate_pool_size"),
	}
}

func formatRecommendOutput(recs []types.Recommendation, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	if len(recs) == 0 {
		fmt.Println("No recommendations available.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-8s  %-14s  %s\n", "Rank", "Score", "Paper", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for i, r := range recs {
		title := r.Title
		if len(title) > 56 {
			title = title[:53] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-8.3f  %-14s  %s\n", i+1, r.Score, r.PaperID, title)
		if len(r.Reasons) > 0 {
			fmt.Fprintf(os.Stdout, "%32s%s\n", "", strings.Join(r.Reasons, "; "))
		}
	}

	fmt.Fprintf(os.Stdout, "\n%d recommendations\n", len(recs))
	return nil
}

func init() {
	recommendCmd.Flags().String("user", "", "user to recommend for (required)")
	recommendCmd.Flags().Int("limit", 20, "number of recommendations to return")
	recommendCmd.Flags().Int("offset", 0, "skip the first N recommendations")
	recommendCmd.Flags().String("strategies", "", "comma-separated strategies: content, graph, semantic, trending")
	recommendCmd.Flags().Bool("no-graph", false, "disable the graph strategy")
	recommendCmd.Flags().Bool("no-index", false, "disable the semantic strategy")
	recommendCmd.Flags().String("index-url", "", "vector index service URL")
	recommendCmd.Flags().String("data-dir", "", "data directory containing the SQLite store")
	recommendCmd.Flags().String("papers-dir", "", "directory with paper metadata YAML files")
	recommendCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(recommendCmd)
}
