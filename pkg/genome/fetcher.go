package genome

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/cache"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/entrez"
	apperrors "github.com/tasnimul-arabi-anik/fetchm/pkg/errors"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/observability"
)

// Source retrieves assembly and sample metadata. *entrez.Client satisfies
// this; tests substitute a fake.
type Source interface {
	FetchAssemblyByAccession(ctx context.Context, accession string, refresh bool) (*entrez.AssemblySummary, error)
	FetchBioSample(ctx context.Context, accession string, refresh bool) (*entrez.BioSample, error)
}

var _ Source = (*entrez.Client)(nil)

// Fetcher builds Datasets by fetching metadata for accession lists.
type Fetcher struct {
	source Source
}

// NewFetcher creates a Fetcher backed by the given source.
func NewFetcher(source Source) *Fetcher {
	return &Fetcher{source: source}
}

// Fetch retrieves metadata for each accession concurrently and assembles a
// Dataset. Input order is preserved and duplicates are dropped.
//
// Individual accession failures become Dataset warnings; Fetch returns an
// error only when the context is cancelled or every accession fails.
func (f *Fetcher) Fetch(ctx context.Context, accessions []string, opts Options) (*Dataset, error) {
	opts = opts.WithDefaults()

	accessions = Dedupe(accessions)
	for _, acc := range accessions {
		if !ValidAccession(acc) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidAccession, "invalid accession %q", acc)
		}
	}
	if len(accessions) == 0 {
		return nil, errors.New("no accessions to fetch")
	}

	ds := &Dataset{
		RunID:     uuid.NewString(),
		Query:     opts.Query,
		FetchedAt: time.Now().UTC(),
	}

	start := time.Now()
	observability.Fetch().OnFetchStart(ctx, ds.RunID, len(accessions))

	results := make([]*Record, len(accessions))
	warnings := make([]string, len(accessions))
	jobs := make(chan int)
	var done int32

	var wg sync.WaitGroup
	for range opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec, err := f.fetchOne(ctx, accessions[i], opts)
				if err != nil {
					if ctx.Err() != nil {
						continue
					}
					opts.Logger("fetch failed: %s: %v", accessions[i], err)
					warnings[i] = fmt.Sprintf("%s: %v", accessions[i], err)
				} else {
					results[i] = rec
				}
				opts.Progress(int(atomic.AddInt32(&done, 1)), len(accessions))
			}
		}()
	}

feed:
	for i := range accessions {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		observability.Fetch().OnFetchComplete(ctx, ds.RunID, 0, 0, time.Since(start), err)
		return nil, err
	}

	for i, rec := range results {
		if rec != nil {
			ds.Records = append(ds.Records, *rec)
		} else if warnings[i] != "" {
			ds.Warnings = append(ds.Warnings, warnings[i])
		}
	}

	var err error
	if len(ds.Records) == 0 {
		err = fmt.Errorf("all %d accessions failed", len(accessions))
	}
	observability.Fetch().OnFetchComplete(ctx, ds.RunID, len(ds.Records), len(ds.Warnings), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// fetchOne resolves a single accession: assembly summary plus, when
// available and requested, the linked BioSample.
func (f *Fetcher) fetchOne(ctx context.Context, accession string, opts Options) (*Record, error) {
	start := time.Now()

	sum, err := f.source.FetchAssemblyByAccession(ctx, accession, opts.Refresh)
	observability.Fetch().OnRecordFetched(ctx, accession, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	var bs *entrez.BioSample
	if !opts.SkipBioSample && sum.BioSample != "" {
		bs, err = f.source.FetchBioSample(ctx, sum.BioSample, opts.Refresh)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			// A missing or unparsable BioSample degrades the record, it
			// doesn't sink it.
			if !errors.Is(err, cache.ErrNotFound) {
				opts.Logger("biosample fetch failed: %s: %v", sum.BioSample, err)
			}
			bs = nil
		}
	}

	rec := merge(sum, bs)
	return &rec, nil
}
