package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"health-coach/internal/coach"
	"health-coach/internal/llm"
)

type variant struct {
	Label   string
	Options llm.Options
}

type Result struct {
	Label          string
	Duration       time.Duration
	Tokens         int
	ResponseLength int
	Err            error
}

type Summary struct {
	Tests       int
	Failed      int
	AvgTokens   int
	AvgLength   int
	AvgDuration time.Duration
	MinDuration time.Duration
	MaxDuration time.Duration
}

func temperatureVariants(maxTokens int) []variant {
	out := make([]variant, 0, len(temperatureValues))
	for _, t := range temperatureValues {
		out = append(out, variant{
			Label:   fmt.Sprintf("temperature=%.1f", t),
			Options: llm.Options{Temperature: t, MaxTokens: maxTokens},
		})
	}
	return out
}

func maxTokensVariants(temperature float32) []variant {
	out := make([]variant, 0, len(maxTokensValues))
	for _, n := range maxTokensValues {
		out = append(out, variant{
			Label:   fmt.Sprintf("max_tokens=%d", n),
			Options: llm.Options{Temperature: temperature, MaxTokens: n},
		})
	}
	return out
}

// runSweep asks the same question once per variant in parallel. Results keep
// the order of variants.
func runSweep(ctx context.Context, newClient func(llm.Options) (llm.Client, error), persona, question string, variants []variant) []Result {
	results := make([]Result, len(variants))
	messages := coach.BuildMessages(persona, question, nil)

	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		go func(i int, v variant) {
			defer wg.Done()
			results[i] = runOne(ctx, newClient, messages, v)
		}(i, v)
	}
	wg.Wait()
	return results
}

func runOne(ctx context.Context, newClient func(llm.Options) (llm.Client, error), messages []llm.Message, v variant) Result {
	res := Result{Label: v.Label}
	client, err := newClient(v.Options)
	if err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	resp, err := client.Generate(ctx, messages)
	res.Duration = time.Since(start)
	if err != nil {
		log.Printf("  ❌ %s failed: %v", v.Label, err)
		res.Err = err
		return res
	}
	res.Tokens = resp.TotalTokens
	res.ResponseLength = len([]rune(resp.Content))
	log.Printf("  ✅ %s: %v, %d tokens, %d chars", v.Label, res.Duration, res.Tokens, res.ResponseLength)
	return res
}

// summarize aggregates the successful results.
func summarize(results []Result) Summary {
	s := Summary{Tests: len(results)}
	var ok int
	var total time.Duration
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		if ok == 0 || r.Duration < s.MinDuration {
			s.MinDuration = r.Duration
		}
		if r.Duration > s.MaxDuration {
			s.MaxDuration = r.Duration
		}
		ok++
		total += r.Duration
		s.AvgTokens += r.Tokens
		s.AvgLength += r.ResponseLength
	}
	if ok > 0 {
		s.AvgTokens /= ok
		s.AvgLength /= ok
		s.AvgDuration = total / time.Duration(ok)
	}
	return s
}

func printSummary(name string, results []Result) {
	s := summarize(results)
	log.Printf("\n📊 %s Results:", name)
	log.Printf("  Tests: %d (failed: %d)", s.Tests, s.Failed)
	log.Printf("  Avg Tokens: %d", s.AvgTokens)
	log.Printf("  Avg Duration: %v", s.AvgDuration)
	log.Printf("  Avg Length: %d chars", s.AvgLength)
	log.Printf("  Duration Range: %v - %v", s.MinDuration, s.MaxDuration)
}
