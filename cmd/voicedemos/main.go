package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voice-demos/config"
	"voice-demos/internal/catalog"
	"voice-demos/internal/generator"
	"voice-demos/internal/verifier"
	"voice-demos/log"
	"voice-demos/pkg/openai"
)

// Exit codes: 0 success / verify clean, 1 configuration error, 2 strict-mode
// abort, 3 verify found problems, 4 batch finished with failures.
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, err := parseFlags(args)
	if err != nil {
		return 1
	}

	log.InitLogger(flags.Debug)
	defer log.GetLogger().Sync()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	if len(cfg.Voices) > 0 {
		for voice, suggestion := range catalog.SuggestVoices(cfg.Voices) {
			if suggestion != "" {
				log.GetLogger().Warn("unknown voice in --voices filter",
					zap.String("voice", voice), zap.String("didYouMean", suggestion))
			} else {
				log.GetLogger().Warn("unknown voice in --voices filter",
					zap.String("voice", voice))
			}
		}
	}

	work, err := catalog.BuildWorklist(cfg.OnlyLang, cfg.Voices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	if cfg.Verify {
		fmt.Printf("Verifying %d expected demo clips in %s ...\n", len(work), cfg.OutputDir)
		res := verifier.Check(cfg.OutputDir, cfg.Format, work)
		res.Print(cfg.Format)
		if res.OK() {
			return 0
		}
		return 3
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: create output dir: %v\n", err)
		return 1
	}

	client := openai.NewClient(openai.Options{
		APIKey:    cfg.APIKey,
		ProjectID: cfg.ProjectID,
		OrgID:     cfg.OrgID,
		Format:    cfg.Format,
		Speed:     cfg.Speed,
		Retries:   cfg.Retries,
		Backoff:   cfg.RetryBackoff,
	})

	runID := uuid.New().String()[:8]
	log.GetLogger().Debug("starting batch",
		zap.String("run", runID),
		zap.String("model", cfg.Model),
		zap.Int("items", len(work)))

	fmt.Printf("Generating %d demo clips -> %s\n", len(work), cfg.OutputDir)
	gen := generator.New(generator.Config{
		OutputDir:     cfg.OutputDir,
		Format:        cfg.Format,
		Model:         cfg.Model,
		FallbackModel: cfg.FallbackModel,
		RequireBetter: cfg.RequireBetter,
		Force:         cfg.Force,
		Strict:        cfg.Strict,
		Sleep:         cfg.Sleep,
	}, client, runID)

	out := gen.Run(context.Background(), work)
	out.Print()
	return out.ExitCode()
}

func parseFlags(args []string) (config.Flags, error) {
	fs := flag.NewFlagSet("voicedemos", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var f config.Flags
	fs.BoolVar(&f.Force, "force", false, "re-generate even if the file already exists")
	fs.BoolVar(&f.Strict, "strict", false, "abort on first failure (default is continue)")
	fs.Float64Var(&f.Sleep, "sleep", -1, "sleep seconds between API calls to avoid rate limits (default 0.75)")
	fs.StringVar(&f.OnlyLang, "only-lang", "", "limit to a single language code")
	fs.StringVar(&f.Voices, "voices", "", "comma-separated subset of voices to process (applies after language filter)")
	fs.IntVar(&f.Retries, "retries", -1, "retries for retriable errors (default 2)")
	fs.Float64Var(&f.RetryBackoff, "retry-backoff", -1, "exponential backoff factor base (default 1.5)")
	fs.BoolVar(&f.Verify, "verify", false, "verify existing files (present and >= 2KB) without regenerating")
	fs.StringVar(&f.Out, "out", "", "output directory (default public/demos)")
	fs.StringVar(&f.Model, "model", "", "override TTS model (allowlisted only)")
	fs.BoolVar(&f.RequireBetter, "require-better", false, "require the preview TTS model and disallow fallback")
	fs.BoolVar(&f.Debug, "debug", false, "verbose debug logging for failures")
	fs.StringVar(&f.ConfigPath, "config", "", "path to an optional config.toml")
	fs.StringVar(&f.Format, "format", "", "audio format (default mp3)")

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	return f, nil
}
