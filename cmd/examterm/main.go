package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/examterm/internal/bank"
	"github.com/pavelanni/examterm/internal/exam"
	"github.com/pavelanni/examterm/internal/handshake"
	appI18n "github.com/pavelanni/examterm/internal/i18n"
	"github.com/pavelanni/examterm/internal/input"
	"github.com/pavelanni/examterm/internal/loader"
	"github.com/pavelanni/examterm/internal/mode"
	"github.com/pavelanni/examterm/internal/model"
	"github.com/pavelanni/examterm/internal/store"
	"github.com/pavelanni/examterm/internal/timer"
	"github.com/pavelanni/examterm/internal/tui"
)

func main() {
	_ = godotenv.Load() // .env is optional
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "examterm",
		Short: "Timed multiple-choice and fill-in examinations in the terminal",
	}

	run := runCmd()
	root.AddCommand(run, importCmd(), checkCmd())

	// Make "run" the default when no subcommand is given.
	root.RunE = run.RunE

	// Register run flags on root so bare `examterm --duration 30m` still works.
	root.Flags().AddFlagSet(run.Flags())

	return root
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Take an examination",
		RunE:  runExam,
	}
	f := cmd.Flags()
	f.StringP("title", "t", "", "Examination title (default: stored title or the localized app title)")
	f.DurationP("duration", "d", 0, "Time limit, e.g. 45m (0 = untimed)")
	f.Int("single-select", 10, "Number of single choice questions")
	f.Int("multi-select", 5, "Number of multiple choice questions")
	f.Int("judge", 10, "Number of true or false questions")
	f.Int("fill-in", 5, "Number of fill in the blank questions")
	f.Uint64("seed", 0, "Sampling seed (0 = random)")
	f.StringP("lang", "l", "en", "UI language (en, zh)")
	f.String("db", "examterm.db", "SQLite pool database path (empty = read question files directly)")
	f.StringSliceP("questions", "q", nil, "Question pool JSON files to import before the exam (repeatable)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	f.String("log-file", "examterm.log", "Log destination (- for stderr)")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import question pool files into the pool database",
		RunE:  runImport,
	}
	f := cmd.Flags()
	f.String("db", "examterm.db", "SQLite pool database path")
	f.StringSliceP("questions", "q", nil, "Question pool JSON files (repeatable)")
	f.StringP("title", "t", "", "Store a default examination title")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	f.String("log-file", "-", "Log destination (- for stderr)")
	return cmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check files...",
		Short: "Validate question pool files and print per-category counts",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	f := cmd.Flags()
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	f.String("log-file", "-", "Log destination (- for stderr)")
	return cmd
}

// setupLogging installs the default slog logger. The returned function
// closes the log file, if one was opened.
func setupLogging(cmd *cobra.Command) (func(), error) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if path := v.GetString("log-file"); path != "" && path != "-" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(out, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(out, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
	return closeFn, nil
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMTERM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("examterm")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/examterm")
	v.AddConfigPath("/etc/examterm")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func quotasFrom(v *viper.Viper) map[model.Category]int {
	return map[model.Category]int{
		model.SingleSelect: v.GetInt("single-select"),
		model.MultiSelect:  v.GetInt("multi-select"),
		model.Judge:        v.GetInt("judge"),
		model.FillIn:       v.GetInt("fill-in"),
	}
}

func runExam(cmd *cobra.Command, _ []string) error {
	closeLog, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	ctx := appI18n.WithLocalizer(cmd.Context(), appI18n.NewLocalizer(lang))

	src, storedTitle, closeSrc, err := openSource(v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeSrc()

	title := v.GetString("title")
	if title == "" {
		title = storedTitle
	}
	if title == "" {
		title = appI18n.T(ctx, "AppTitle")
	}
	examCfg := model.ExamConfig{
		Title:    title,
		Duration: v.GetDuration("duration"),
		Quotas:   quotasFrom(v),
		Seed:     v.GetUint64("seed"),
	}
	if err := examCfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	b, err := bank.Load(ctx, src, examCfg.Quotas, bank.NewRand(examCfg.Seed))
	if err != nil {
		return err
	}
	if b.Len() == 0 {
		return fmt.Errorf("no questions available: import a pool with --questions")
	}

	modes := mode.NewCoordinator()
	answers, editorSide := handshake.New()
	session := exam.New(exam.Config{
		Title:    examCfg.Title,
		Bank:     b,
		Modes:    modes,
		Answer:   answers,
		Alerts:   exam.NewAlertBox(modes),
		Messages: appI18n.NewMessages(ctx),
	})
	m := tui.New(tui.Config{
		Ctx:     ctx,
		Session: session,
		Editor:  input.NewEditor(editorSide, modes),
		Clock:   timer.Start(examCfg.Duration),
	})

	slog.Info("starting examination",
		"attempt", session.ID(),
		"title", examCfg.Title,
		"duration", examCfg.Duration,
		"questions", b.Len(),
		"lang", lang,
	)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	if err := m.Err(); err != nil {
		return err
	}
	if score, ok := session.Score(); ok {
		fmt.Fprintln(cmd.OutOrStdout(), appI18n.NewMessages(ctx).FinalScore(score, session.MaxScore()))
	}
	return nil
}

// openSource returns the question source for a run: the pool database, after
// importing any --questions files into it, or the files themselves when no
// database is configured. Import results are reported to w.
func openSource(v *viper.Viper, w io.Writer) (bank.Source, string, func(), error) {
	paths := v.GetStringSlice("questions")
	dbPath := v.GetString("db")
	if dbPath == "" {
		if len(paths) == 0 {
			return nil, "", nil, fmt.Errorf("either --db or --questions is required")
		}
		return loader.FilePool{Paths: paths}, "", func() {}, nil
	}

	db, err := store.New(dbPath)
	if err != nil {
		return nil, "", nil, fmt.Errorf("open database: %w", err)
	}
	if err := importFiles(w, db, paths); err != nil {
		db.Close()
		return nil, "", nil, err
	}
	count, err := db.QuestionCount()
	if err != nil {
		db.Close()
		return nil, "", nil, fmt.Errorf("count questions: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, "", nil, fmt.Errorf("pool database %s is empty: import question files with --questions", dbPath)
	}
	title, err := db.Title()
	if err != nil {
		db.Close()
		return nil, "", nil, fmt.Errorf("read stored title: %w", err)
	}
	return db, title, func() { db.Close() }, nil
}

// importFiles imports each file and writes one line per file to w.
func importFiles(w io.Writer, db *store.Store, paths []string) error {
	for _, path := range paths {
		res, n, err := db.ImportFile(path)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		switch res {
		case store.Imported:
			fmt.Fprintf(w, "%s: imported %d questions\n", path, n)
		case store.Unchanged:
			fmt.Fprintf(w, "%s: unchanged, already imported\n", path)
		case store.ChangedSkipped:
			fmt.Fprintf(w, "warning: %s changed since it was imported; the stored questions are used\n", path)
		}
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	paths := append(v.GetStringSlice("questions"), args...)
	if len(paths) == 0 && v.GetString("title") == "" {
		return fmt.Errorf("nothing to import: pass pool files or --title")
	}
	if err := importFiles(cmd.OutOrStdout(), db, paths); err != nil {
		return err
	}
	if title := v.GetString("title"); title != "" {
		if err := db.SetTitle(title); err != nil {
			return fmt.Errorf("store title: %w", err)
		}
	}

	counts, err := db.CountByCategory()
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	printCounts(cmd.OutOrStdout(), v.GetString("db"), counts)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	var failed int
	for _, path := range args {
		qs, err := loader.ReadFile(path)
		if err != nil {
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			continue
		}
		counts := make(map[model.Category]int)
		for c, bucket := range loader.Group(qs) {
			counts[c] = len(bucket)
		}
		printCounts(cmd.OutOrStdout(), path, counts)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}

func printCounts(w io.Writer, name string, counts map[model.Category]int) {
	total := 0
	parts := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		total += counts[c]
		parts = append(parts, fmt.Sprintf("%s=%d", c, counts[c]))
	}
	fmt.Fprintf(w, "%s: %d questions (%s)\n", name, total, strings.Join(parts, " "))
}
