// Package entrez implements a client for the NCBI Entrez E-utilities API.
//
// The client covers the three endpoints fetchm needs:
//   - esearch: resolve a query or an accession to Entrez UIDs
//   - esummary: fetch assembly document summaries (JSON)
//   - efetch: fetch BioSample records (XML)
//
// All requests go through a shared rate limiter honoring NCBI's usage
// policy (3 requests/second anonymous, 10 with an API key), are cached
// via a cache.Cache backend, and retried with exponential backoff on
// transient failures.
//
// # Example
//
//	backend, _ := cache.NewFileCache(dir)
//	client := entrez.NewClient(backend, entrez.Config{Email: "me@example.org"})
//
//	res, err := client.Search(ctx, "assembly", `Klebsiella pneumoniae[Organism]`, 100, false)
//	sums, err := client.AssemblySummaries(ctx, res.IDs, false)
package entrez
