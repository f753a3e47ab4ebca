// Package generator runs the sequential batch: one synthesis per work item,
// a one-shot model fallback on model rejection, and failure accounting that
// drives the process exit code.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"voice-demos/internal/catalog"
	"voice-demos/log"
	apperrors "voice-demos/pkg/errors"
)

// Synthesizer is what the generator needs from the TTS client.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice, model string) ([]byte, error)
}

// sleepFn is the inter-item rate-limit delay, a seam for tests.
var sleepFn = time.Sleep

// Failure records one work item that could not be completed.
type Failure struct {
	Item catalog.WorkItem
	Err  error
}

// Outcome accumulates the batch result.
type Outcome struct {
	Done     int
	Total    int
	Failures []Failure
	// Halted is set when strict mode aborted the batch; items after the
	// halting one were never attempted and appear in no count.
	Halted bool
}

// Config is the subset of the run configuration the generator acts on.
type Config struct {
	OutputDir     string
	Format        string
	Model         string
	FallbackModel string
	RequireBetter bool
	Force         bool
	Strict        bool
	Sleep         float64
}

type Generator struct {
	cfg    Config
	client Synthesizer
	runID  string
}

func New(cfg Config, client Synthesizer, runID string) *Generator {
	return &Generator{cfg: cfg, client: client, runID: runID}
}

// Run processes the worklist in order. Strict mode returns on the first
// unrecoverable item; otherwise every item is attempted. The fixed delay
// between items applies regardless of per-item success or failure.
func (g *Generator) Run(ctx context.Context, work []catalog.WorkItem) Outcome {
	out := Outcome{Total: len(work)}

	for idx, item := range work {
		g.processItem(ctx, idx, item, &out)
		if out.Halted {
			return out
		}
		if idx < len(work)-1 {
			sleepFn(time.Duration(g.cfg.Sleep * float64(time.Second)))
		}
	}
	return out
}

func (g *Generator) processItem(ctx context.Context, idx int, item catalog.WorkItem, out *Outcome) {
	path := filepath.Join(g.cfg.OutputDir, item.Filename(g.cfg.Format))

	if !g.cfg.Force {
		if info, err := os.Stat(path); err == nil {
			fmt.Printf("[%d/%d] %s-%s ... skip (exists, %.1f KB)\n",
				idx+1, out.Total, item.Lang, item.Voice, float64(info.Size())/1024)
			out.Done++
			return
		}
	}

	sentence := catalog.Sentence(item.Lang)
	model := g.cfg.Model
	attemptedFallback := false

	for {
		fmt.Printf("[%d/%d] %s-%s (%s) ...", idx+1, out.Total, item.Lang, item.Voice, model)

		audio, err := g.client.Synthesize(ctx, sentence, item.Voice, model)
		if err == nil {
			err = os.WriteFile(path, audio, 0o644)
			if err != nil {
				err = apperrors.Wrap(apperrors.CodeFileWriteError, "write "+path, err)
			} else {
				fmt.Printf(" ok (%.1f KB)\n", float64(len(audio))/1024)
				out.Done++
				return
			}
		}

		if apperrors.GetCode(err) == apperrors.CodeModelNotFound &&
			!g.cfg.RequireBetter && !attemptedFallback && model != g.cfg.FallbackModel {
			fmt.Printf(" fallback->%s\n", g.cfg.FallbackModel)
			log.GetLogger().Warn("model rejected, retrying item with fallback model",
				zap.String("run", g.runID),
				zap.String("lang", item.Lang),
				zap.String("voice", item.Voice),
				zap.String("model", model),
				zap.String("fallback", g.cfg.FallbackModel))
			model = g.cfg.FallbackModel
			attemptedFallback = true
			continue
		}

		fmt.Println(" FAIL")
		log.GetLogger().Error("work item failed",
			zap.String("run", g.runID),
			zap.String("lang", item.Lang),
			zap.String("voice", item.Voice),
			zap.String("model", model),
			zap.Error(err))
		out.Failures = append(out.Failures, Failure{Item: item, Err: err})
		if g.cfg.Strict {
			out.Halted = true
		}
		return
	}
}
