// Package main provides the CLI entrypoint for hantui.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/hantui/internal/config"
	"github.com/verte-zerg/hantui/internal/content"
	"github.com/verte-zerg/hantui/internal/item"
	"github.com/verte-zerg/hantui/internal/lesson"
	"github.com/verte-zerg/hantui/internal/model"
	"github.com/verte-zerg/hantui/internal/picker"
	"github.com/verte-zerg/hantui/internal/stats"
	"github.com/verte-zerg/hantui/internal/statsui"
	"github.com/verte-zerg/hantui/internal/store"
	"github.com/verte-zerg/hantui/internal/tui"
)

const (
	defaultLesson      = "default"
	defaultItems       = 10
	defaultAttempts    = 3
	defaultReps        = 3
	defaultRecordWait  = 4 * time.Second
	defaultConfirmWait = time.Second
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	defaultEndpoint    = "http://localhost:8700"
	lookupTimeout      = 30 * time.Second
)

var (
	practiceLesson     string
	practiceItems      int
	practiceAttempts   int
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
	practiceEndpoint   string

	drillReps        int
	drillRecordWait  time.Duration
	drillConfirmWait time.Duration

	statsLesson      string
	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int

	enrichEndpoint string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hantui",
		Short:         "TUI trainer for Mandarin written recall",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	addPracticeFlags(rootCmd)

	rootCmd.AddCommand(newDrillCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLessonsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newEnrichCmd())

	return rootCmd
}

func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceLesson, "lesson", defaultLesson, "lesson name")
	cmd.Flags().IntVar(&practiceItems, "items", defaultItems, "items per session (0 = whole lesson in order)")
	cmd.Flags().IntVar(&practiceAttempts, "attempts", defaultAttempts, "attempts before an item is marked wrong")
	cmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias selection toward weak items")
	cmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak items to focus on")
	cmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak items")
	cmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak items")
	cmd.Flags().StringVar(&practiceEndpoint, "endpoint", defaultEndpoint, "content-lookup service endpoint")
}

func newDrillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Deep drill: write, transcribe, speak, and assemble each item",
		Args:  cobra.NoArgs,
		RunE:  runDrillCmd,
	}
	addPracticeFlags(cmd)
	cmd.Flags().IntVar(&drillReps, "reps", defaultReps, "writing repetitions per item")
	cmd.Flags().DurationVar(&drillRecordWait, "record-wait", defaultRecordWait, "spoken-production recording window")
	cmd.Flags().DurationVar(&drillConfirmWait, "confirm-wait", defaultConfirmWait, "spoken-production confirmation window")
	return cmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}

	entries, err := loadLessonEntries(cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	entries = selectEntries(st, cfg, entries)

	answers, info := resolveLookups(cfg, entries)

	m := tui.NewModel(cfg, st, entries, cfg.Lesson, answers, info, nil)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "reps", &drillReps, fileCfg.Drill.Repetitions)
	if err := applyDurationConfig(cmd, "record-wait", &drillRecordWait, fileCfg.Drill.RecordWait); err != nil {
		return err
	}
	if err := applyDurationConfig(cmd, "confirm-wait", &drillConfirmWait, fileCfg.Drill.ConfirmWait); err != nil {
		return err
	}
	if drillReps <= 0 {
		return fmt.Errorf("--reps must be > 0")
	}
	if drillRecordWait <= 0 || drillConfirmWait <= 0 {
		return fmt.Errorf("--record-wait and --confirm-wait must be > 0")
	}
	cfg.Repetitions = drillReps
	cfg.RecordWait = drillRecordWait
	cfg.ConfirmWait = drillConfirmWait

	entries, err := loadLessonEntries(cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	entries = selectEntries(st, cfg, entries)

	m := tui.NewDrillModel(cfg, st, entries, cfg.Lesson, nil)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func loadPracticeConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lesson", &practiceLesson, fileCfg.Practice.Lesson)
	applyIntConfig(cmd, "items", &practiceItems, fileCfg.Practice.Items)
	applyIntConfig(cmd, "attempts", &practiceAttempts, fileCfg.Practice.Attempts)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)
	applyStringConfig(cmd, "endpoint", &practiceEndpoint, fileCfg.Practice.Endpoint)

	cfg := model.Config{
		Lesson:     practiceLesson,
		Items:      practiceItems,
		Attempts:   practiceAttempts,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
		Endpoint:   practiceEndpoint,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func loadLessonEntries(cfg model.Config) ([]string, error) {
	path := config.DefaultLessonPath(cfg.Lesson)
	entries, err := lesson.LoadEntries(path)
	if err != nil {
		return nil, lessonLoadError(cfg.Lesson, path, err)
	}
	return entries, nil
}

func selectEntries(st *store.Store, cfg model.Config, entries []string) []string {
	p := picker.New()
	if !cfg.FocusWeak {
		return p.Pick(entries, cfg.Items)
	}
	aggs, err := st.GetWeakItems(context.Background(), cfg.WeakWindow, cfg.Lesson)
	if err != nil {
		logErrf("failed to load weak items: %v\n", err)
		return p.Pick(entries, cfg.Items)
	}
	weakSet := stats.SelectWeakItems(aggs, cfg.WeakTop)
	if len(weakSet) == 0 {
		logErrln("no stats available for weak-item focus yet; using plain selection")
		return p.Pick(entries, cfg.Items)
	}
	return p.PickWeighted(entries, cfg.Items, weakSet, cfg.WeakFactor)
}

// resolveLookups fetches phonetic targets and character metadata for the
// selected entries. Failures degrade: a missing answer makes grading accept
// any non-empty input for that item.
func resolveLookups(cfg model.Config, entries []string) (map[string]string, map[string]content.CharInfo) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	client := content.NewClient(cfg.Endpoint, config.DefaultContentCacheDir())
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	answers := make(map[string]string)
	info := make(map[string]content.CharInfo)
	misses := 0
	for _, it := range item.ParseAll(entries) {
		if _, ok := answers[it.Key()]; !ok {
			ans, err := client.Phrase(ctx, it.DisplayPhrase)
			if err != nil {
				misses++
			} else {
				answers[it.Key()] = ans
			}
		}
		for _, r := range it.TargetWord {
			unit := string(r)
			if _, ok := info[unit]; ok {
				continue
			}
			ci, err := client.Char(ctx, unit)
			if err != nil {
				continue
			}
			info[unit] = ci
		}
	}
	if misses > 0 {
		logErrf("content lookup unavailable for %d item(s); grading degrades to any non-empty answer\n", misses)
	}
	return answers, info
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLessonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List available lessons",
		Args:  cobra.NoArgs,
		RunE:  runLessonsCmd,
	}
}

func runLessonsCmd(cmd *cobra.Command, _ []string) error {
	lessonDir := config.DefaultLessonDir()
	entries, err := os.ReadDir(lessonDir)
	if err != nil {
		if os.IsNotExist(err) {
			logErrf("No lessons found. Put lesson files under %s\n", lessonDir)
			return fmt.Errorf("lesson directory does not exist")
		}
		return fmt.Errorf("failed to read lesson directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".txt"))
	}
	if len(names) == 0 {
		logErrf("No lessons found. Put lesson files under %s\n", lessonDir)
		return fmt.Errorf("no lessons found")
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLesson, "lesson", "", "lesson filter")
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter (transcribe or drill)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsMode != "" && statsMode != "transcribe" && statsMode != "drill" {
		return fmt.Errorf("invalid --mode value (use transcribe or drill)")
	}

	cfg := model.StatsConfig{
		Lesson:      statsLesson,
		Mode:        statsMode,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newEnrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Prefetch character metadata for a lesson",
		Args:  cobra.NoArgs,
		RunE:  runEnrichCmd,
	}
	cmd.Flags().StringVar(&practiceLesson, "lesson", defaultLesson, "lesson name")
	cmd.Flags().StringVar(&enrichEndpoint, "endpoint", defaultEndpoint, "content-lookup service endpoint")
	return cmd
}

func runEnrichCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lesson", &practiceLesson, fileCfg.Practice.Lesson)
	applyStringConfig(cmd, "endpoint", &enrichEndpoint, fileCfg.Practice.Endpoint)
	if enrichEndpoint == "" {
		return fmt.Errorf("--endpoint must not be empty")
	}

	path := config.DefaultLessonPath(practiceLesson)
	entries, err := lesson.LoadEntries(path)
	if err != nil {
		return lessonLoadError(practiceLesson, path, err)
	}

	var units []string
	for _, it := range item.ParseAll(entries) {
		units = append(units, it.Units...)
	}
	units = lesson.Filter(units, lesson.HanFilter)
	if len(units) == 0 {
		return fmt.Errorf("lesson %q has no units to enrich", practiceLesson)
	}

	client := content.NewClient(enrichEndpoint, config.DefaultContentCacheDir())
	logErrf("Fetching metadata for %d unit(s)...\n", len(units))
	failed, err := client.Prefetch(context.Background(), units)
	if err != nil {
		return fmt.Errorf("failed to prefetch metadata: %w", err)
	}
	if len(failed) > 0 {
		logErrf("Failed to fetch %d unit(s): %s\n", len(failed), strings.Join(failed, " "))
		return fmt.Errorf("enrich finished with failures")
	}
	logErrln("Cache is warm.")
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = parsed
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# hantui configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lesson = %q         # Lesson name (file under lessons directory)
# items = %d               # Items per session (0 = whole lesson in order)
# attempts = %d             # Attempts before an item is marked wrong
# focus-weak = false       # Bias selection toward weak items
# weak-top = %d             # Number of weak items to focus on
# weak-factor = %.1f        # Weight factor for weak items
# weak-window = %d         # Number of recent sessions to compute weak items
# endpoint = %q  # Content-lookup service endpoint

[drill]
# reps = %d                 # Writing repetitions per item
# record-wait = "4s"       # Spoken-production recording window
# confirm-wait = "1s"      # Spoken-production confirmation window
`,
		defaultLesson,
		defaultItems,
		defaultAttempts,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultEndpoint,
		defaultReps,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Items < 0 {
		return fmt.Errorf("--items must be >= 0")
	}
	if cfg.Attempts <= 0 {
		return fmt.Errorf("--attempts must be > 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func lessonLoadError(name, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load lesson: %v", err),
		fmt.Sprintf("expected lesson file at: %s", path),
		fmt.Sprintf("lesson %q not found", name),
		"Run: hantui lessons",
		"Then: hantui --lesson <name>",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
