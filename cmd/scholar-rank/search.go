// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-rank/internal/rank"
	"github.com/pdiddy/scholar-rank/internal/store"
	"github.com/pdiddy/scholar-rank/internal/vector"
	"github.com/pdiddy/scholar-rank/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Graph-enhanced semantic search over indexed papers",
	Long: `Search queries the vector index for excerpts matching a free-text query,
re-ranks them with citation-graph boosts (seminal papers, in-result
centrality, recency), injects foundational papers the results build on, and
selects a diverse final set grouped by paper.

Use --save to write the results to a YAML query file and --load to display a
previously saved file without re-querying.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if load, _ := cmd.Flags().GetString("load"); load != "" {
		qf, err := rank.ReadQueryFile(load)
		if err != nil {
			return err
		}
		resp := types.SearchResponse{Query: qf.Query, Results: qf.Results, Insights: qf.Insights}
		return formatSearchOutput(resp, jsonOutput)
	}

	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	if query == "" {
		return fmt.Errorf("query required: pass it as an argument or with --query")
	}

	opts := searchOptsFromFlags(cmd)
	index := vector.NewClient(vectorConfigFromFlags(cmd))

	var graph rank.GraphStore
	if noGraph, _ := cmd.Flags().GetBool("no-graph"); !noGraph {
		st, err := store.NewStore(storeConfigFromFlags(cmd))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: graph store unavailable, searching without graph signals: %v\n", err)
		} else {
			defer st.Close()
			graph = st
		}
	}

	engine := rank.NewEngine(index, graph)
	resp, err := engine.Search(context.Background(), query, opts, os.Stderr)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := rank.WriteQueryFile(save, opts, resp); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved query to %s\n", save)
	}

	return formatSearchOutput(resp, jsonOutput)
}

func formatSearchOutput(resp types.SearchResponse, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if len(resp.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-7s  %-14s  %-6s  %s\n",
		"Rank", "Score", "Paper", "Flags", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for i, r := range resp.Results {
		title := r.Title
		if len(title) > 52 {
			title = title[:49] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-7.3f  %-14s  %-6s  %s\n",
			i+1, r.MaxScore, r.PaperID, resultFlags(r.Graph), title)
	}

	in := resp.Insights
	fmt.Fprintf(os.Stdout, "\n%d papers; %d internal citations; %d foundational paper(s) added\n",
		len(resp.Results), in.InternalCitations, in.FoundationalPapersAdded)
	if len(in.CentralPapers) > 0 {
		fmt.Fprintf(os.Stdout, "Central papers: %s\n", strings.Join(in.CentralPapers, ", "))
	}
	return nil
}

// resultFlags renders graph markers: S seminal, F foundational.
func resultFlags(g types.GraphMetadata) string {
	var b strings.Builder
	if g.IsSeminal {
		b.WriteByte('S')
	}
	if g.IsFoundational {
		b.WriteByte('F')
	}
	return b.String()
}

func searchOptsFromFlags(cmd *cobra.Command) rank.Options {
	limit, _ := cmd.Flags().GetInt("limit")
	overfetch, _ := cmd.Flags().GetInt("overfetch")
	foundations, _ := cmd.Flags().GetBool("foundations")
	minFoundationCitations, _ := cmd.Flags().GetInt("min-foundation-citations")
	maxFoundations, _ := cmd.Flags().GetInt("max-foundations")

	return rank.Options{
		Limit:                  limit,
		Overfetch:              overfetch,
		IncludeFoundations:     foundations,
		MinFoundationCitations: minFoundationCitations,
		MaxFoundations:         maxFoundations,
	}
}

// --- shared config helpers ---

func vectorConfigFromFlags(cmd *cobra.Command) types.VectorIndexConfig {
	baseURL, _ := cmd.Flags().GetString("index-url")
	if baseURL == "" {
		baseURL = viper.GetString("vector.base_url")
	}
	if baseURL == "" {
		baseURL = "http://localhost:6333"
	}

	apiKey := secretDefault("vector-index-api-key", viper.GetString("vector.api_key"))

	return types.VectorIndexConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "scholar-rank/" + version,
		},
		BaseURL: baseURL,
		APIKey:  apiKey,
	}
}

func storeConfigFromFlags(cmd *cobra.Command) types.StoreConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("store.data_dir")
	}
	if dataDir == "" {
		dataDir = "data"
	}

	papersDir, _ := cmd.Flags().GetString("papers-dir")
	if papersDir == "" {
		papersDir = viper.GetString("store.papers_dir")
	}
	if papersDir == "" {
		papersDir = "papers/metadata"
	}

	return types.StoreConfig{DataDir: dataDir, PapersDir: papersDir}
}

func init() {
	searchCmd.Flags().String("query", "", "free-text search query")
	searchCmd.Flags().Int("limit", 10, "number of results to return")
	searchCmd.Flags().Int("overfetch", 3, "pool multiplier for the initial vector query")
	searchCmd.Flags().Bool("foundations", true, "inject missing foundational papers")
	searchCmd.Flags().Int("min-foundation-citations", 3, "in-result citations required to count as foundational")
	searchCmd.Flags().Int("max-foundations", 2, "maximum foundational papers to inject")
	searchCmd.Flags().Bool("no-graph", false, "skip citation-graph boosts and foundations")
	searchCmd.Flags().String("index-url", "", "vector index service URL")
	searchCmd.Flags().String("data-dir", "", "data directory containing the SQLite store")
	searchCmd.Flags().String("papers-dir", "", "directory with paper metadata YAML files")
	searchCmd.Flags().String("save", "", "save results to a YAML query file")
	searchCmd.Flags().String("load", "", "display a previously saved query file")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
