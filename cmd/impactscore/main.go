package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/markotrapani/impact-score-calculator/config"
	"github.com/markotrapani/impact-score-calculator/internal/input/export"
	inputredis "github.com/markotrapani/impact-score-calculator/internal/input/redis"
	"github.com/markotrapani/impact-score-calculator/internal/labels"
	"github.com/markotrapani/impact-score-calculator/internal/logger"
	"github.com/markotrapani/impact-score-calculator/internal/metrics"
	"github.com/markotrapani/impact-score-calculator/internal/output/resultclickhouse"
	"github.com/markotrapani/impact-score-calculator/internal/output/resulthttp"
	"github.com/markotrapani/impact-score-calculator/internal/output/resultjson"
	"github.com/markotrapani/impact-score-calculator/internal/pipeline"
	"github.com/markotrapani/impact-score-calculator/internal/report"
	"github.com/markotrapani/impact-score-calculator/internal/rules"
	"github.com/markotrapani/impact-score-calculator/internal/scorestate"
	"github.com/markotrapani/impact-score-calculator/internal/scoring"
	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

func findConfigFile(configArg string) string {
	if configArg != "" {
		path := configArg
		if _, err := os.Stat(path); err == nil {
			return path
		}
		log.Printf("Warning: config file not found at %s, trying default locations", path)
	}

	if _, err := os.Stat("impactscore.yml"); err == nil {
		return "impactscore.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exePath)
		path := filepath.Join(exeDir, "impactscore.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "impactscore.yml"
}

func applyDefaults(cfg *config.Config) {
	if cfg.ImpactScore.Input.Redis.Addr == "" {
		cfg.ImpactScore.Input.Redis.Addr = "127.0.0.1:6379"
	}
	if cfg.ImpactScore.Input.Redis.Key == "" {
		cfg.ImpactScore.Input.Redis.Key = "ticket_events"
	}
	if cfg.ImpactScore.Input.Redis.BlockTimeout == 0 {
		cfg.ImpactScore.Input.Redis.BlockTimeout = 5 * time.Second
	}

	if cfg.ImpactScore.Pipeline.Workers <= 0 {
		cfg.ImpactScore.Pipeline.Workers = 4
	}
	if cfg.ImpactScore.Pipeline.BatchSize <= 0 {
		cfg.ImpactScore.Pipeline.BatchSize = 100
	}
	if cfg.ImpactScore.Pipeline.FlushInterval <= 0 {
		cfg.ImpactScore.Pipeline.FlushInterval = 2 * time.Second
	}

	if cfg.ImpactScore.Output.Mode == "" {
		cfg.ImpactScore.Output.Mode = "file"
	}
	if cfg.ImpactScore.Output.File.Path == "" {
		cfg.ImpactScore.Output.File.Path = "output/scores.jsonl"
	}
	if cfg.ImpactScore.Output.ClickHouse.Database == "" {
		cfg.ImpactScore.Output.ClickHouse.Database = "impactscore"
	}
	if cfg.ImpactScore.Output.ClickHouse.Table == "" {
		cfg.ImpactScore.Output.ClickHouse.Table = "impact_scores"
	}

	if cfg.ImpactScore.State.Addr == "" {
		cfg.ImpactScore.State.Addr = cfg.ImpactScore.Input.Redis.Addr
	}
	if cfg.ImpactScore.State.KeyPrefix == "" {
		cfg.ImpactScore.State.KeyPrefix = "impactscore:ticket_state"
	}

	if cfg.ImpactScore.Metrics.Addr == "" {
		cfg.ImpactScore.Metrics.Addr = ":9094"
	}

	if cfg.ImpactScore.Logging.Level == "" {
		cfg.ImpactScore.Logging.Level = "info"
	}
}

func scorerFromConfig(cfg *config.Config) *scoring.Scorer {
	return scoring.NewScorer(scoring.Config{
		VIPCustomers:         cfg.ImpactScore.Scoring.VIPCustomers,
		ManagedServiceLabels: cfg.ImpactScore.Scoring.ManagedServiceLabels,
	})
}

func baseOverrides(cfg *config.Config) models.Overrides {
	return models.Overrides{
		SupportMultiplier: cfg.ImpactScore.Scoring.SupportMultiplier,
		AccountMultiplier: cfg.ImpactScore.Scoring.AccountMultiplier,
	}
}

func runScore(args []string) int {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	input := fs.String("input", "", "JSON ticket file to score (reads flags when empty)")
	summary := fs.String("summary", "", "Ticket summary")
	description := fs.String("description", "", "Ticket description")
	priority := fs.String("priority", "", "Ticket priority (Blocker..Trivial)")
	severity := fs.String("severity", "", "Ticket severity field")
	customer := fs.String("customer", "", "Customer name")
	workaround := fs.String("workaround", "", "Workaround description")
	rca := fs.String("rca", "", "RCA text")
	labelList := fs.String("labels", "", "Comma-separated ticket labels")
	arrBucket := fs.String("arr-bucket", "", "Explicit ARR bucket (arr_gt_1m, arr_500k_1m, arr_100k_500k, many_low, few_low, single_low)")
	arrValue := fs.Float64("arr-value", 0, "Explicit ARR amount in dollars")
	customerCount := fs.Int("customer-count", 0, "Number of affected low-ARR customers")
	occurrences := fs.Int("occurrences", 0, "Explicit occurrence count (0 = derive from text)")
	managedNoSLA := fs.Bool("managed-no-sla", false, "Managed-service variant without our SLA ownership")
	supportMult := fs.Float64("support-mult", 0, "Support multiplier (0-0.15)")
	accountMult := fs.Float64("account-mult", 0, "Account multiplier (0-0.15)")
	autoLabels := fs.Bool("auto-labels", false, "Extract keyword labels before scoring")
	rulesPath := fs.String("rules", "", "Sigma tag rules file or directory")
	asJSON := fs.Bool("json", false, "Emit the result as JSON instead of the breakdown")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var ticket *models.Ticket
	if *input != "" {
		tickets, err := export.ReadFile(*input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read ticket: %v\n", err)
			return 1
		}
		if len(tickets) == 0 {
			fmt.Fprintln(os.Stderr, "no tickets found in input")
			return 1
		}
		ticket = tickets[0]
	} else {
		ticket = &models.Ticket{
			Summary:      *summary,
			Description:  *description,
			Priority:     *priority,
			Severity:     *severity,
			CustomerName: *customer,
			Workaround:   *workaround,
			RCA:          *rca,
			Labels:       splitList(*labelList),
		}
	}

	if *autoLabels {
		extracted := labels.Extract(labels.Request{
			Summary:      ticket.Summary,
			Description:  ticket.Description,
			CustomerName: ticket.CustomerName,
		})
		for _, l := range extracted {
			if !ticket.HasLabel(l) {
				ticket.Labels = append(ticket.Labels, l)
			}
		}
	}

	overrides := models.Overrides{
		ARRBucket:           *arrBucket,
		ARRValue:            *arrValue,
		CustomerCount:       *customerCount,
		ManagedServiceNoSLA: *managedNoSLA,
		SupportMultiplier:   *supportMult,
		AccountMultiplier:   *accountMult,
	}
	if *occurrences > 0 {
		overrides.OccurrenceCount = occurrences
	}

	var tags []models.TicketTag
	if strings.TrimSpace(*rulesPath) != "" {
		engine, _, err := rules.NewSigmaEngine(*rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load tag rules: %v\n", err)
			return 1
		}
		tags = engine.Apply(ticket)
		overrides = pipeline.ApplyTags(ticket, tags, overrides)
	}

	scorer := scoring.NewScorer(scoring.Config{})
	result := scorer.Evaluate(ticket, overrides)
	result.Tags = tags

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
			return 1
		}
		return 0
	}

	report.RenderBreakdown(os.Stdout, result)
	return 0
}

func runBatch(args []string) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	input := fs.String("input", "", "Ticket export to score (.csv, .xlsx, .xml, .json, .jsonl)")
	output := fs.String("output", "", "Result output path (.jsonl or .xlsx); empty writes no file")
	topN := fs.Int("top", 0, "Print the N highest-scoring tickets")
	priorityFilter := fs.String("priority", "", "Only output tickets at this priority level")
	statsOnly := fs.Bool("stats-only", false, "Print summary statistics only")
	rulesPath := fs.String("rules", "", "Sigma tag rules file or directory")
	extractLabels := fs.Bool("extract-labels", false, "Extract keyword labels before scoring")
	supportMult := fs.Float64("support-mult", 0, "Support multiplier applied to every ticket")
	accountMult := fs.Float64("account-mult", 0, "Account multiplier applied to every ticket")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *input == "" {
		fmt.Fprintln(os.Stderr, "batch requires -input")
		return 2
	}

	tickets, err := export.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read export: %v\n", err)
		return 1
	}

	var engine rules.Engine = &rules.NoopEngine{}
	if strings.TrimSpace(*rulesPath) != "" {
		sigmaEngine, stats, err := rules.NewSigmaEngine(*rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load tag rules: %v\n", err)
			return 1
		}
		engine = sigmaEngine
		fmt.Printf("tag rules loaded=%d skipped=%d files=%d\n",
			stats.Loaded,
			stats.SkippedComplex+stats.SkippedDatasource+stats.SkippedInvalid,
			stats.TotalFiles,
		)
	}

	scorer := scoring.NewScorer(scoring.Config{})
	base := models.Overrides{SupportMultiplier: *supportMult, AccountMultiplier: *accountMult}

	results := make([]*models.Result, 0, len(tickets))
	for _, ticket := range tickets {
		if *extractLabels {
			for _, l := range labels.Extract(labels.Request{
				Summary:      ticket.Summary,
				Description:  ticket.Description,
				CustomerName: ticket.CustomerName,
			}) {
				if !ticket.HasLabel(l) {
					ticket.Labels = append(ticket.Labels, l)
				}
			}
		}
		tags := engine.Apply(ticket)
		overrides := pipeline.ApplyTags(ticket, tags, base)
		result := scorer.Evaluate(ticket, overrides)
		result.Tags = tags
		results = append(results, result)
	}

	filtered := report.FilterPriority(results, *priorityFilter)

	if *statsOnly {
		report.RenderStats(os.Stdout, report.Summarize(filtered))
		return 0
	}

	if *output != "" {
		switch strings.ToLower(filepath.Ext(*output)) {
		case ".xlsx":
			err = report.ExportExcel(*output, filtered)
		default:
			err = writeJSONLines(*output, filtered)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to write results: %v\n", err)
			return 1
		}
		fmt.Printf("scored tickets=%d output=%s\n", len(filtered), *output)
	}

	if *topN > 0 {
		report.RenderTop(os.Stdout, report.TopN(filtered, *topN))
	}
	if *output == "" && *topN == 0 {
		report.RenderStats(os.Stdout, report.Summarize(filtered))
	}
	return 0
}

func runTop(args []string) int {
	fs := flag.NewFlagSet("top", flag.ContinueOnError)
	configArg := fs.String("config", "", "Config file path")
	n := fs.Int("n", 20, "Number of tickets to list")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadConfig(findConfigFile(*configArg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	applyDefaults(cfg)

	store, err := scorestate.NewRedisStore(scorestate.RedisConfig{
		Addr:      cfg.ImpactScore.State.Addr,
		Password:  cfg.ImpactScore.State.Password,
		DB:        cfg.ImpactScore.State.DB,
		KeyPrefix: cfg.ImpactScore.State.KeyPrefix,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open score state: %v\n", err)
		return 1
	}
	defer store.Close()

	entries, err := store.FetchTop(context.Background(), int64(*n))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch ranked tickets: %v\n", err)
		return 1
	}

	fmt.Printf("%-4s %-12s %-9s %-8s %s\n", "#", "TICKET", "SCORE", "LEVEL", "SUMMARY")
	for i, e := range entries {
		summary := e.Summary
		if len(summary) > 60 {
			summary = summary[:57] + "..."
		}
		fmt.Printf("%-4d %-12s %-9.1f %-8s %s\n", i+1, e.IssueKey, e.FinalScore, e.PriorityLevel, summary)
	}
	return 0
}

func runServe(args []string) {
	configArg := ""
	if len(args) > 0 {
		configArg = args[0]
	}

	configPath := findConfigFile(configArg)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyDefaults(cfg)

	if err := logger.Init(cfg.ImpactScore.Logging.Enabled, cfg.ImpactScore.Logging.Level, cfg.ImpactScore.Logging.File, cfg.ImpactScore.Logging.Console); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Infof("Impact score pipeline starting")
	logger.Infof("Config loaded from: %s", configPath)

	consumer, err := inputredis.NewConsumer(inputredis.Config{
		Addr:         cfg.ImpactScore.Input.Redis.Addr,
		Password:     cfg.ImpactScore.Input.Redis.Password,
		DB:           cfg.ImpactScore.Input.Redis.DB,
		Key:          cfg.ImpactScore.Input.Redis.Key,
		BlockTimeout: cfg.ImpactScore.Input.Redis.BlockTimeout,
	})
	if err != nil {
		logger.Errorf("Failed to create Redis consumer: %v", err)
		log.Fatalf("Failed to create Redis consumer: %v", err)
	}

	var engine rules.Engine
	if cfg.ImpactScore.Rules.Enabled {
		if strings.TrimSpace(cfg.ImpactScore.Rules.Path) == "" {
			logger.Warnf("Rules enabled but rules.path is empty; ticket tagging disabled")
		} else {
			sigmaEngine, stats, err := rules.NewSigmaEngine(cfg.ImpactScore.Rules.Path)
			if err != nil {
				logger.Errorf("Failed to load Sigma rules from %s: %v", cfg.ImpactScore.Rules.Path, err)
				log.Fatalf("Failed to load Sigma rules: %v", err)
			}
			engine = sigmaEngine
			logger.Infof("Sigma rules loaded: loaded=%d skipped_complex=%d skipped_datasource=%d skipped_invalid=%d files=%d",
				stats.Loaded,
				stats.SkippedComplex,
				stats.SkippedDatasource,
				stats.SkippedInvalid,
				stats.TotalFiles,
			)
			if stats.Loaded == 0 {
				logger.Warnf("No compatible Sigma rules loaded; ticket tagging is effectively disabled")
			}
		}
	}

	var writer pipeline.ResultWriter
	switch cfg.ImpactScore.Output.Mode {
	case "file":
		w, err := resultjson.NewWriter(cfg.ImpactScore.Output.File.Path)
		if err != nil {
			logger.Errorf("Failed to create result file writer: %v", err)
			log.Fatalf("Failed to create result file writer: %v", err)
		}
		writer = w
		logger.Infof("Output mode: file (%s)", cfg.ImpactScore.Output.File.Path)
	case "http":
		w, err := resulthttp.NewWriter(resulthttp.Config{
			URL:     cfg.ImpactScore.Output.HTTP.URL,
			Timeout: cfg.ImpactScore.Output.HTTP.Timeout,
			Headers: cfg.ImpactScore.Output.HTTP.Headers,
		})
		if err != nil {
			logger.Errorf("Failed to create result HTTP writer: %v", err)
			log.Fatalf("Failed to create result HTTP writer: %v", err)
		}
		writer = w
		logger.Infof("Output mode: http (%s)", cfg.ImpactScore.Output.HTTP.URL)
	case "clickhouse":
		w, err := resultclickhouse.NewWriter(resultclickhouse.Config{
			URL:      cfg.ImpactScore.Output.ClickHouse.URL,
			Database: cfg.ImpactScore.Output.ClickHouse.Database,
			Table:    cfg.ImpactScore.Output.ClickHouse.Table,
			Username: cfg.ImpactScore.Output.ClickHouse.Username,
			Password: cfg.ImpactScore.Output.ClickHouse.Password,
			Timeout:  cfg.ImpactScore.Output.ClickHouse.Timeout,
			Headers:  cfg.ImpactScore.Output.ClickHouse.Headers,
		})
		if err != nil {
			logger.Errorf("Failed to create ClickHouse writer: %v", err)
			log.Fatalf("Failed to create ClickHouse writer: %v", err)
		}
		writer = w
		logger.Infof("Output mode: clickhouse (%s/%s.%s)", cfg.ImpactScore.Output.ClickHouse.URL, cfg.ImpactScore.Output.ClickHouse.Database, cfg.ImpactScore.Output.ClickHouse.Table)
	default:
		log.Fatalf("Unknown output mode: %s", cfg.ImpactScore.Output.Mode)
	}

	var state *scorestate.RedisStore
	if cfg.ImpactScore.State.Enabled {
		state, err = scorestate.NewRedisStore(scorestate.RedisConfig{
			Addr:      cfg.ImpactScore.State.Addr,
			Password:  cfg.ImpactScore.State.Password,
			DB:        cfg.ImpactScore.State.DB,
			KeyPrefix: cfg.ImpactScore.State.KeyPrefix,
		})
		if err != nil {
			logger.Errorf("Failed to open score state: %v", err)
			log.Fatalf("Failed to open score state: %v", err)
		}
		logger.Infof("Score state enabled (prefix %s)", cfg.ImpactScore.State.KeyPrefix)
	}

	if cfg.ImpactScore.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.ImpactScore.Metrics.Addr); err != nil {
				logger.Errorf("Metrics server stopped: %v", err)
			}
		}()
	}

	pipe := pipeline.NewRedisScorePipeline(
		consumer,
		engine,
		scorerFromConfig(cfg),
		writer,
		state,
		baseOverrides(cfg),
		cfg.ImpactScore.Pipeline.Workers,
		cfg.ImpactScore.Pipeline.BatchSize,
		cfg.ImpactScore.Pipeline.FlushInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := pipe.Run(ctx); err != nil && err != context.Canceled {
			logger.Errorf("Pipeline error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Infof("Shutting down")
	cancel()
	time.Sleep(1 * time.Second)

	if err := pipe.Close(); err != nil {
		logger.Errorf("Error closing pipeline: %v", err)
	}

	logger.Infof("Impact score pipeline stopped")
}

func writeJSONLines[T any](path string, rows []T) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, item := range rows {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encode row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: impactscore <score|batch|top|serve> [flags]")
	fmt.Fprintln(os.Stderr, "  score  Score a single ticket from flags or a JSON file")
	fmt.Fprintln(os.Stderr, "  batch  Score a ticket export and summarize or write results")
	fmt.Fprintln(os.Stderr, "  top    List the highest-scored tickets from the score state")
	fmt.Fprintln(os.Stderr, "  serve  Run the streaming scoring pipeline")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "score":
		os.Exit(runScore(os.Args[2:]))
	case "batch":
		os.Exit(runBatch(os.Args[2:]))
	case "top":
		os.Exit(runTop(os.Args[2:]))
	case "serve":
		runServe(os.Args[2:])
	default:
		// Backward compatible: a bare config path runs the streaming pipeline.
		if strings.HasSuffix(os.Args[1], ".yml") || strings.HasSuffix(os.Args[1], ".yaml") {
			runServe(os.Args[1:])
			return
		}
		usage()
		os.Exit(2)
	}
}
