// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-rank/internal/store"
	"github.com/pdiddy/scholar-rank/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local paper store (ingest, track, prefs)",
	Long: `Store manages the local SQLite database of papers, citation edges, user
interactions, and category preferences that feeds ranking and
recommendations.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest paper metadata YAML files into the store",
	Long: `Ingest reads paper metadata YAML files (including outbound citations) from
the papers directory into the SQLite store. Files unchanged since the last
run are skipped.`,
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(storeConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := st.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d paper(s) failed ingest", summary.Failed)
	}
	return nil
}

// --- track subcommand ---

var storeTrackCmd = &cobra.Command{
	Use:   "track",
	Short: "Record a user interaction with a paper",
	Long: `Track records one interaction event (saved, liked, or viewed) for a user.
Interactions feed the recommendation engine: saved weighs most, viewed
least, and all weights decay over time.`,
	RunE: runStoreTrack,
}

func runStoreTrack(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	paperID, _ := cmd.Flags().GetString("paper")
	kind, _ := cmd.Flags().GetString("kind")
	if userID == "" || paperID == "" || kind == "" {
		return fmt.Errorf("--user, --paper, and --kind are all required")
	}

	st, err := store.NewStore(storeConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	event := types.InteractionEvent{
		UserID:  userID,
		PaperID: paperID,
		Kind:    types.InteractionKind(kind),
	}
	if err := st.RecordInteraction(context.Background(), event); err != nil {
		return err
	}
	fmt.Printf("Recorded %s interaction for %s\n", kind, paperID)
	return nil
}

// --- prefs subcommand ---

var storePrefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Set a user's preferred categories",
	Long: `Prefs replaces the user's preferred arXiv categories. Preferred categories
strengthen the content strategy and pre-filter trending recommendations.`,
	RunE: runStorePrefs,
}

func runStorePrefs(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		return fmt.Errorf("--user required")
	}
	raw, _ := cmd.Flags().GetString("categories")

	var categories []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	st, err := store.NewStore(storeConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SetPreferences(context.Background(), userID, categories); err != nil {
		return err
	}
	fmt.Printf("Preferences for %s: %s\n", userID, strings.Join(categories, ", "))
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("data-dir", "", "data directory containing the SQLite store")
	storeCmd.PersistentFlags().String("papers-dir", "", "directory with paper metadata YAML files")

	storeTrackCmd.Flags().String("user", "", "user the interaction belongs to")
	storeTrackCmd.Flags().String("paper", "", "paper id (arXiv id, version suffix allowed)")
	storeTrackCmd.Flags().String("kind", "", "interaction kind: saved, liked, or viewed")

	storePrefsCmd.Flags().String("user", "", "user the preferences belong to")
	storePrefsCmd.Flags().String("categories", "", "comma-separated arXiv categories (empty clears)")

	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeTrackCmd)
	storeCmd.AddCommand(storePrefsCmd)

	rootCmd.AddCommand(storeCmd)
}
