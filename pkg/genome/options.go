package genome

// DefaultWorkers is the default fetch concurrency. The Entrez rate limiter
// is the real throughput bound; workers only overlap network latency.
const DefaultWorkers = 4

// Options controls a fetch run.
type Options struct {
	// Workers is the number of concurrent fetch goroutines.
	Workers int

	// Refresh bypasses the HTTP response cache.
	Refresh bool

	// SkipBioSample skips the per-assembly BioSample lookup, roughly
	// halving the request count when sample attributes aren't needed.
	SkipBioSample bool

	// Query records the provenance of the accession list (e.g. the
	// esearch term) in the resulting Dataset.
	Query string

	// Logger receives warnings for accessions that fail to resolve.
	Logger func(msg string, args ...any)

	// Progress, if set, is called after each accession completes.
	Progress func(done, total int)
}

// WithDefaults fills in zero values.
func (o Options) WithDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = func(string, ...any) {}
	}
	if o.Progress == nil {
		o.Progress = func(int, int) {}
	}
	return o
}
