package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/marketbrief/marketbrief/internal/agent"
	"github.com/marketbrief/marketbrief/internal/llm"
	"github.com/marketbrief/marketbrief/internal/research"
	"github.com/marketbrief/marketbrief/internal/session"
	"github.com/marketbrief/marketbrief/internal/tickers"
	"github.com/marketbrief/marketbrief/internal/tools"
)

func main() {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("research failed: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("research", flag.ExitOnError)
	stream := fs.Bool("stream", false, "Stream the answer incrementally with progress events")
	verbose := fs.Bool("verbose", false, "Log phase and task transitions")
	maxIterations := fs.Int("max-iterations", research.DefaultMaxIterations, "Plan/execute/reflect iteration bound")
	history := fs.Bool("history", false, "Print recent runs and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		log.Printf("run history disabled: %v", err)
	} else {
		defer store.Close()
	}

	if *history {
		if store == nil {
			return fmt.Errorf("run history unavailable")
		}
		return printHistory(ctx, store)
	}

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return fmt.Errorf("usage: research [flags] <question>")
	}

	client, model, err := llm.NewClientFromEnv()
	if err != nil {
		return err
	}

	apiURL := os.Getenv("DATA_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	registry := tools.NewRegistry(tools.NewAPIClient(apiURL, http.DefaultClient))

	dir, err := tickers.NewDirectory()
	if err != nil {
		return fmt.Errorf("building ticker directory: %w", err)
	}
	if overrides := os.Getenv("TICKER_OVERRIDES"); overrides != "" {
		if err := tickers.Watch(ctx, dir, overrides, log.Default()); err != nil {
			log.Printf("ticker overrides unavailable: %v", err)
		}
	}

	cfg := agent.Config{
		Model:         model,
		FastModel:     os.Getenv("FAST_MODEL"),
		MaxIterations: *maxIterations,
	}
	if *verbose {
		cfg.Logger = log.Default()
		cfg.Callbacks = agent.LogCallbacks(log.Default())
	}
	planCount := 0
	prevOnPhase := cfg.Callbacks.OnPhase
	cfg.Callbacks.OnPhase = func(p research.Phase) {
		if p == research.PhasePlan {
			planCount++
		}
		if prevOnPhase != nil {
			prevOnPhase(p)
		}
	}
	a := agent.New(client, registry, dir, cfg)

	start := time.Now()
	var answer string
	if *stream {
		answer, err = runStreaming(ctx, a, query)
	} else {
		answer, err = a.Run(ctx, query, nil)
		fmt.Println(answer)
	}
	if err != nil {
		return err
	}

	if store != nil {
		if _, serr := store.Save(ctx, session.Record{
			Query:      query,
			Answer:     answer,
			Model:      model,
			Iterations: planCount,
			Duration:   time.Since(start),
		}); serr != nil {
			log.Printf("saving run record: %v", serr)
		}
	}
	return nil
}

// runStreaming consumes the event stream, printing answer text as it
// arrives and progress lines for the other events.
func runStreaming(ctx context.Context, a *agent.Agent, query string) (string, error) {
	var answer strings.Builder
	var runErr error

	for ev := range a.RunStreaming(ctx, query, nil) {
		switch ev.Type {
		case agent.EventPhase:
			if p, ok := ev.Data.(research.Phase); ok {
				fmt.Fprintf(os.Stderr, "-- %s\n", p)
			}
		case agent.EventPlan:
			if p, ok := ev.Data.(research.Plan); ok {
				fmt.Fprintf(os.Stderr, "   plan: %s (%d tasks)\n", p.Summary, len(p.Tasks))
			}
		case agent.EventTaskComplete:
			if t, ok := ev.Data.(research.Task); ok {
				fmt.Fprintf(os.Stderr, "   task %s: %s\n", t.Status, t.Description)
			}
		case agent.EventAnswerChunk:
			if s, ok := ev.Data.(string); ok {
				answer.WriteString(s)
				fmt.Print(s)
			}
		case agent.EventError:
			if err, ok := ev.Data.(error); ok {
				runErr = err
			}
		}
	}
	fmt.Println()
	return answer.String(), runErr
}

func openStore() (*session.Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return session.Open(filepath.Join(home, ".marketbrief", "runs.db"))
}

func printHistory(ctx context.Context, store *session.Store) error {
	records, err := store.Recent(ctx, 20)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Printf("%s  %s  (%d iterations, %s)\n  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Query, r.Iterations, r.Duration.Round(time.Millisecond), firstLine(r.Answer))
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 140 {
		s = s[:140] + "..."
	}
	return s
}
