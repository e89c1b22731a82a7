package correction

import (
	"context"
	"sort"
	"sync"

	"rrlfit/internal/fittable"
)

// Outcome pairs a source with its correction result or failure.
type Outcome struct {
	Source string
	Result *Result
	Err    error
}

// ApplyAll corrects every table, running up to workers sources at once.
// A failing source does not stop the others. Outcomes are sorted by source.
func (c *Corrector) ApplyAll(ctx context.Context, tables map[string]*fittable.Table, elements []string, workers int) []Outcome {
	sources := make([]string, 0, len(tables))
	for source := range tables {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	if workers <= 0 {
		workers = 1
	}
	if workers > len(sources) {
		workers = len(sources)
	}

	outcomes := make([]Outcome, len(sources))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				source := sources[i]
				if err := ctx.Err(); err != nil {
					outcomes[i] = Outcome{Source: source, Err: err}
					continue
				}
				res, err := c.Apply(tables[source], source, elements)
				outcomes[i] = Outcome{Source: source, Result: res, Err: err}
			}
		}()
	}
	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

// Entries merges the subsets of every successful outcome.
func Entries(outcomes []Outcome) Set {
	merged := Set{}
	for _, o := range outcomes {
		if o.Err != nil || o.Result == nil {
			continue
		}
		merged.Merge(o.Result.Entries)
	}
	return merged
}
