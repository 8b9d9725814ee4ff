package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adour/souvenir/internal/config"
	"github.com/adour/souvenir/internal/engine"
	"github.com/adour/souvenir/internal/llm"
	"github.com/spf13/cobra"
)

var (
	listCategory string
	clearYes     bool
)

func init() {
	triggersCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	memoriesCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Skip the confirmation prompt")
}

// buildEngine opens the store and constructs an engine for one-shot CLI
// commands. The oracle is optional; commands degrade to lexical matching
// when no LLM is configured.
func buildEngine(withOracle bool) (*engine.Engine, func(), error) {
	cfg := config.Load()

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}

	var oracle llm.Oracle
	if withOracle {
		if client, err := llm.NewClient(cfg.LLM); err != nil {
			fmt.Fprintf(os.Stderr, "note: LLM not configured (%v)\n", err)
		} else {
			oracle = llm.NewAnalyzer(client)
		}
	}

	eng, err := engine.New(db, oracle)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("start engine: %w", err)
	}
	return eng, func() { db.Close() }, nil
}

func oracleContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// --- scan command ---

var scanCmd = &cobra.Command{
	Use:   "scan [message]",
	Short: "Match a message against stored triggers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")

	eng, cleanup, err := buildEngine(true)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := oracleContext()
	defer cancel()

	result, err := eng.Scan(ctx, message)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if len(result.ActivatedTriggers) == 0 {
		fmt.Println("No triggers matched.")
		return nil
	}

	fmt.Printf("Activated %d trigger(s):\n", len(result.ActivatedTriggers))
	for _, t := range result.ActivatedTriggers {
		fmt.Printf("  %s [%s] used %d time(s)\n", t.Word, t.Category, t.UsageCount)
	}
	if len(result.RelevantMemories) > 0 {
		fmt.Printf("\nRelevant memories:\n")
		for _, m := range result.RelevantMemories {
			fmt.Printf("  [%s/%d] %s\n", m.Category, m.Importance, m.Content)
		}
	}
	return nil
}

// --- remember command ---

var rememberCmd = &cobra.Command{
	Use:   "remember [message]",
	Short: "Extract and store memories from a message",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemember,
}

func runRemember(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")

	eng, cleanup, err := buildEngine(true)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := oracleContext()
	defer cancel()

	result, err := eng.ExtractAndStore(ctx, message)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	if len(result.Triggers) == 0 && result.Memory == nil {
		fmt.Println("Nothing worth remembering.")
		return nil
	}

	for _, t := range result.Triggers {
		fmt.Printf("trigger: %s [%s] score %d\n", t.Word, t.Category, t.Score)
	}
	if result.Memory != nil {
		fmt.Printf("memory: [%s/%d] %s\n", result.Memory.Category, result.Memory.Importance, result.Memory.Content)
	}
	return nil
}

// --- context command ---

var contextCmd = &cobra.Command{
	Use:   "context [message]",
	Short: "Build the context block for a message",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runContext,
}

func runContext(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")

	eng, cleanup, err := buildEngine(true)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := oracleContext()
	defer cancel()

	text, err := eng.ContextForMessage(ctx, message)
	if err != nil {
		return fmt.Errorf("context: %w", err)
	}
	if text == "" {
		fmt.Println("No context available.")
		return nil
	}
	fmt.Print(text)
	return nil
}

// --- triggers command ---

var triggersCmd = &cobra.Command{
	Use:   "triggers",
	Short: "List stored triggers",
	RunE:  runTriggers,
}

func runTriggers(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := buildEngine(false)
	if err != nil {
		return err
	}
	defer cleanup()

	triggers := eng.ListTriggers(engine.Category(listCategory))
	if len(triggers) == 0 {
		fmt.Println("No triggers stored.")
		return nil
	}

	for _, t := range triggers {
		score := eng.CurrentScore(&t)
		status := "archived"
		if score >= engine.ActiveThreshold {
			status = "active"
		} else if score >= engine.ArchiveThreshold {
			status = "eligible"
		}
		fmt.Printf("%-20s [%s] score %3d (%s), %d memories\n", t.Word, t.Category, score, status, len(t.MemoryLinks))
		if len(t.Synonyms) > 0 {
			fmt.Printf("  synonyms: %s\n", strings.Join(t.Synonyms, ", "))
		}
	}
	return nil
}

// --- memories command ---

var memoriesCmd = &cobra.Command{
	Use:   "memories",
	Short: "List stored memories",
	RunE:  runMemories,
}

func runMemories(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := buildEngine(false)
	if err != nil {
		return err
	}
	defer cleanup()

	memories := eng.ListMemories(engine.Category(listCategory))
	if len(memories) == 0 {
		fmt.Println("No memories stored.")
		return nil
	}

	for _, m := range memories {
		fmt.Printf("[%s/%d] %s\n", m.Category, m.Importance, m.Content)
		fmt.Printf("  created %s, surfaced %d time(s)\n", m.CreatedAt.Format("2006-01-02"), m.AccessCount)
	}
	return nil
}

// --- stats command ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := buildEngine(false)
	if err != nil {
		return err
	}
	defer cleanup()

	stats := eng.ComputeStats()
	fmt.Printf("Triggers: %d (%d active, %d high priority, %d archived)\n",
		stats.TriggerCount, stats.ActiveTriggers, stats.HighPriority, stats.ArchivedTriggers)
	fmt.Printf("Memories: %d\n", stats.MemoryCount)

	for _, cat := range engine.Categories {
		tc, mc := stats.TriggersByCategory[cat], stats.MemoriesByCategory[cat]
		if tc == 0 && mc == 0 {
			continue
		}
		fmt.Printf("  %-10s %d trigger(s), %d memory(ies)\n", cat, tc, mc)
	}
	return nil
}

// --- export / import commands ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full dataset as JSON to stdout",
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := buildEngine(false)
	if err != nil {
		return err
	}
	defer cleanup()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(eng.Export())
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a dataset exported by souvenir",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	var ds engine.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return fmt.Errorf("parse dataset: %w", err)
	}

	eng, cleanup, err := buildEngine(false)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := eng.Import(&ds); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	fmt.Printf("Imported %d trigger(s) and %d memory(ies).\n", len(ds.Triggers), len(ds.Memories))
	return nil
}

// --- clear command ---

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all triggers and memories",
	RunE:  runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		fmt.Print("This deletes all stored triggers and memories. Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(answer, "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	eng, cleanup, err := buildEngine(false)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := eng.Clear(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	fmt.Println("All data cleared.")
	return nil
}
