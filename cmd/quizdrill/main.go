package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"quizdrill/internal/bank"
	"quizdrill/internal/cli"
	"quizdrill/internal/config"
	"quizdrill/internal/quiz"
	"quizdrill/internal/settings"
	"quizdrill/internal/storage"
	"quizdrill/internal/storage/sqlite"
	"quizdrill/internal/tui"
)

func main() {
	log.SetFlags(log.LstdFlags)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[CONFIG] skipping .env: %v", err)
	}

	configPath := flag.String("config", envDefault("QUIZDRILL_CONFIG", "quizdrill.yaml"), "path to yaml config")
	dbPath := flag.String("db", os.Getenv("QUIZDRILL_DB"), "path to database file (overrides config)")
	bankArg := flag.String("bank", "", "bank file to load")
	mode := flag.String("mode", "", "selection mode: random or sequential")
	numQuestions := flag.Int("n", 0, "number of questions for this run")
	start := flag.Int("start", 0, "first original question number (sequential mode)")
	plain := flag.Bool("plain", false, "line-mode interface instead of the full-screen UI")
	ephemeral := flag.Bool("ephemeral", false, "keep nothing on disk for this run")
	yes := flag.Bool("yes", false, "confirm destructive operations")
	limit := flag.Int("limit", 10, "maximum rows for history output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}

	kv, history, closeStore, err := openStore(cfg.Database, *ephemeral)
	if err != nil {
		log.Fatalf("[STARTUP] open store: %v", err)
	}
	defer closeStore()

	switch flag.Arg(0) {
	case "history":
		err = showHistory(history, *limit)
	case "wrong":
		if flag.Arg(1) == "clear" {
			err = clearWrongLog(kv, *yes)
		} else {
			err = showWrongLog(kv)
		}
	default:
		err = runQuiz(cfg, kv, history, runOptions{
			bankArg:   firstNonEmpty(*bankArg, flag.Arg(0)),
			mode:      *mode,
			questions: *numQuestions,
			start:     *start,
			plain:     *plain,
		})
	}
	if err != nil {
		log.Fatalf("error: %v", err)
	}
}

type runOptions struct {
	bankArg   string
	mode      string
	questions int
	start     int
	plain     bool
}

func runQuiz(cfg config.Config, kv storage.KV, history quiz.History, opts runOptions) error {
	bankPath, err := resolveBank(cfg.BankDir, opts.bankArg)
	if err != nil {
		return err
	}

	questions, err := bank.ParseFile(bankPath)
	if err != nil {
		return fmt.Errorf("load bank %s: %w", bankPath, err)
	}
	log.Printf("[BANK] %s: %d questions", filepath.Base(bankPath), len(questions))

	runCfg := quiz.RunConfig{
		Mode:          quiz.Mode(firstNonEmpty(opts.mode, cfg.Defaults.Mode)),
		NumQuestions:  firstPositive(opts.questions, cfg.Defaults.Questions),
		StartQuestion: firstPositive(opts.start, cfg.Defaults.Start),
	}
	if runCfg.Mode != quiz.ModeRandom && runCfg.Mode != quiz.ModeSequential {
		return fmt.Errorf("unknown mode %q", runCfg.Mode)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	prepared := quiz.PrepareAll(quiz.Select(questions, runCfg, rng), rng)

	wrongLog, err := quiz.LoadWrongLog(kv)
	if err != nil {
		return err
	}
	font, err := settings.Load(kv)
	if err != nil {
		log.Printf("[CONFIG] font settings unavailable, using defaults: %v", err)
	}

	sessionOpts := []quiz.SessionOption{quiz.WithWrongLog(wrongLog)}
	if opts.plain {
		sessionOpts = append(sessionOpts, quiz.WithScheduler(quiz.NoopScheduler{}))
	}
	session := quiz.NewSession(prepared, sessionOpts...)
	defer session.Close()

	if opts.plain {
		err = cli.Run(context.Background(), session, os.Stdin, os.Stdout)
	} else {
		err = tui.Run(session, wrongLog, kv, font)
	}
	if err != nil {
		return err
	}

	summary := session.Summary()
	if history != nil && session.Completed() {
		record := quiz.RecordFor(summary, filepath.Base(bankPath), runCfg.Mode)
		if recordErr := history.RecordRun(context.Background(), record); recordErr != nil {
			log.Printf("[HISTORY] run not recorded: %v", recordErr)
		}
	}
	return nil
}

// openStore picks the persistence backend. Ephemeral runs keep everything
// in memory and record no history.
func openStore(path string, ephemeral bool) (storage.KV, quiz.History, func(), error) {
	if ephemeral {
		return storage.NewMemory(), nil, func() {}, nil
	}
	store, err := sqlite.NewStore(path)
	if err != nil {
		return nil, nil, nil, err
	}
	return store, store, func() { _ = store.Close() }, nil
}

// resolveBank accepts either a path to a bank file, or a bare bank name
// looked up under the configured bank directory.
func resolveBank(bankDir, arg string) (string, error) {
	if arg == "" {
		return "", errors.New("no bank file given (pass a path or a bank name)")
	}
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}
	candidate := filepath.Join(bankDir, arg+".md")
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("bank %q not found (also tried %s)", arg, candidate)
}

func showHistory(history quiz.History, limit int) error {
	if history == nil {
		return errors.New("history is unavailable for ephemeral storage")
	}
	records, err := history.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No recorded runs yet.")
		return nil
	}
	for _, record := range records {
		percent := float64(record.Correct) * 100 / float64(record.Total)
		fmt.Printf("%s  %-24s %-10s %d/%d (%.0f%%)\n",
			record.FinishedAt.Format("2006-01-02 15:04"),
			record.Bank, record.Mode, record.Correct, record.Total, percent)
	}
	return nil
}

func showWrongLog(kv storage.KV) error {
	wrongLog, err := quiz.LoadWrongLog(kv)
	if err != nil {
		return err
	}
	entries := wrongLog.Entries()
	if len(entries) == 0 {
		fmt.Println("Missed-question log is empty.")
		return nil
	}
	for _, entry := range entries {
		fmt.Printf("#%d  yours=%s correct=%s  %s\n",
			entry.OriginalNumber, entry.UserAnswer, entry.CorrectAnswer, entry.QuestionText)
	}
	return nil
}

func clearWrongLog(kv storage.KV, confirmed bool) error {
	wrongLog, err := quiz.LoadWrongLog(kv)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Printf("Refusing to clear %d entries without -yes.\n", wrongLog.Len())
		return nil
	}
	count := wrongLog.Len()
	if err := wrongLog.Clear(true); err != nil {
		return err
	}
	fmt.Printf("Cleared %d entries.\n", count)
	return nil
}

func envDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}
