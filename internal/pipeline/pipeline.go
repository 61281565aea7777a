// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the translation delivery chain: fingerprint →
// cache lookup → batch scheduling → retried upstream call → response
// parse → merge → cache write-through, with the vocabulary estimator
// consuming known/unknown feedback from the results.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/meshintelligence/lexiflow/internal/cache"
	"github.com/meshintelligence/lexiflow/internal/fingerprint"
	"github.com/meshintelligence/lexiflow/internal/merge"
	"github.com/meshintelligence/lexiflow/internal/provider"
	"github.com/meshintelligence/lexiflow/internal/retry"
	"github.com/meshintelligence/lexiflow/internal/sched"
	"github.com/meshintelligence/lexiflow/internal/vocab"
	"github.com/meshintelligence/lexiflow/pkg/types"
)

// Pipeline owns one page-translation session. The cache and profile are
// single-writer stores shared with the CLI surface.
type Pipeline struct {
	cfg     types.PipelineConfig
	cache   *cache.Cache
	profile *vocab.Store
	backend provider.Backend
	sched   *sched.Scheduler
	logW    io.Writer

	mu      sync.Mutex
	results map[int]types.TranslationResult
	missing []types.Paragraph
}

// New assembles a pipeline over the given collaborators. logW receives
// retry and degradation diagnostics (typically stderr).
func New(cfg types.PipelineConfig, c *cache.Cache, profile *vocab.Store, backend provider.Backend, logW io.Writer) *Pipeline {
	if cfg.Mode == "" {
		cfg.Mode = types.ModeSelective
	}
	p := &Pipeline{
		cfg:     cfg,
		cache:   c,
		profile: profile,
		backend: backend,
		logW:    logW,
		results: make(map[int]types.TranslationResult),
	}
	p.sched = sched.New(cfg.Batch, p.dispatchBatch)
	return p
}

// PageResult is the outcome of translating one page of paragraphs.
type PageResult struct {
	// Results maps paragraph id to its annotated translation, filtered
	// by the known-word predicate in selective mode.
	Results map[int]types.TranslationResult

	// Untranslated lists paragraphs whose batches failed after retry
	// exhaustion, or that the upstream response omitted. They are
	// individually retryable by the caller.
	Untranslated []types.Paragraph

	// Errors carries one error per failed batch.
	Errors []error

	// CacheHits and CacheMisses count lookup outcomes for this page.
	CacheHits   int
	CacheMisses int
}

// Options tunes one Translate call.
type Options struct {
	// Force bypasses cache lookups, re-translating every paragraph.
	// Fresh results still merge over cached ones, so annotations from
	// earlier passes survive.
	Force bool
}

// Translate runs the full pipeline over a page of paragraphs and blocks
// until every batch settles.
func (p *Pipeline) Translate(ctx context.Context, paragraphs []types.Paragraph, opts Options) PageResult {
	out := PageResult{Results: make(map[int]types.TranslationResult)}

	p.mu.Lock()
	p.results = make(map[int]types.TranslationResult)
	p.missing = nil
	p.mu.Unlock()

	var misses []types.Paragraph
	for _, para := range paragraphs {
		if !opts.Force {
			if result, ok := p.cache.Get(fingerprint.Key(para.Text, p.cfg.Mode)); ok {
				out.Results[para.ID] = result
				out.CacheHits++
				continue
			}
		}
		out.CacheMisses++
		misses = append(misses, para)
	}

	if len(misses) > 0 {
		for _, para := range misses {
			p.sched.Add(ctx, para)
		}
		failures := p.sched.Flush(ctx)

		for _, f := range failures {
			out.Untranslated = append(out.Untranslated, f.Paragraphs...)
			out.Errors = append(out.Errors, f.Err)
		}

		p.mu.Lock()
		for id, result := range p.results {
			out.Results[id] = result
		}
		out.Untranslated = append(out.Untranslated, p.missing...)
		p.mu.Unlock()
	}

	if p.cfg.Mode == types.ModeSelective {
		profile := p.profile.Profile()
		for id, result := range out.Results {
			out.Results[id] = filterKnown(result, &profile)
		}
	}
	return out
}

// dispatchBatch performs one upstream call for one batch: render, call
// with retry, parse, merge into the cache. A batch failure leaves prior
// cache entries untouched.
func (p *Pipeline) dispatchBatch(ctx context.Context, batch sched.Batch) error {
	profile := p.profile.Profile()

	prompt, err := provider.RenderPrompt(provider.PromptRequest{
		VocabularySize: profile.EstimatedVocabulary,
		ExamLevel:      examLabel(profile.ExamType),
		FullText:       p.cfg.Mode == types.ModeFull,
		Paragraphs:     batch.Paragraphs,
	})
	if err != nil {
		return err
	}

	raw, err := retry.Do(ctx, func(ctx context.Context) (string, error) {
		return p.backend.Translate(ctx, prompt)
	}, retry.Options{
		MaxRetries:        p.cfg.Retry.MaxRetries,
		InitialDelay:      p.cfg.Retry.InitialDelay,
		BackoffMultiplier: p.cfg.Retry.BackoffMultiplier,
		MaxDelay:          p.cfg.Retry.MaxDelay,
		ShouldRetry:       provider.Retryable,
		OnRetry: func(err error, attempt int, delay time.Duration) {
			if p.logW != nil {
				fmt.Fprintf(p.logW, "retrying batch of %d paragraphs in %v (attempt %d): %v\n",
					len(batch.Paragraphs), delay.Round(time.Millisecond), attempt+1, err)
			}
		},
	})
	if err != nil {
		return err
	}

	parsed, err := provider.ParseResponse(raw)
	if err != nil {
		return err
	}

	// A response for a cancelled cycle must not touch newer state.
	if !p.sched.Current(batch.Epoch) {
		return nil
	}

	byID := make(map[int]types.TranslationResult, len(parsed))
	for _, pr := range parsed {
		byID[pr.ID] = pr.Result
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, para := range batch.Paragraphs {
		incoming, ok := byID[para.ID]
		if !ok {
			p.missing = append(p.missing, para)
			continue
		}

		key := fingerprint.Key(para.Text, p.cfg.Mode)
		merged := incoming
		if existing, ok := p.cache.Get(key); ok {
			existing.Cached = false
			merged = merge.Results(existing, incoming)
		}
		p.cache.Put(ctx, key, merged)
		p.results[para.ID] = merged
	}
	return nil
}

// RecordFeedback folds one learner verdict on an annotated word into
// the profile: list membership, the context snippet, and the vocabulary
// estimate all update together.
func (p *Pipeline) RecordFeedback(ctx context.Context, word string, difficulty int, known bool, snippet, translation string) {
	if known {
		p.profile.MarkKnown(ctx, word)
	} else {
		p.profile.MarkUnknown(ctx, word, snippet, translation)
	}
	p.profile.Observe(ctx, difficulty, known)
}

// filterKnown drops word annotations the learner already knows, so
// selective mode only highlights what needs attention. Sentences and
// grammar notes always survive.
func filterKnown(result types.TranslationResult, profile *types.UserProfile) types.TranslationResult {
	if len(result.Words) == 0 {
		return result
	}
	kept := make([]types.WordAnnotation, 0, len(result.Words))
	for _, w := range result.Words {
		if !vocab.IsLikelyKnown(w.Original, profile, w.Difficulty) {
			kept = append(kept, w)
		}
	}
	filtered := result
	filtered.Words = kept
	return filtered
}

// examLabel renders the exam context for the prompt, empty for none.
func examLabel(exam types.ExamType) string {
	switch exam {
	case types.ExamCET4:
		return "CET-4"
	case types.ExamCET6:
		return "CET-6"
	case types.ExamIELTS:
		return "IELTS"
	case types.ExamTOEFL:
		return "TOEFL"
	default:
		return ""
	}
}
