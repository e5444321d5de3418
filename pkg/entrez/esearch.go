package entrez

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/cache"
)

// SearchResult holds the outcome of an esearch request.
type SearchResult struct {
	Count            int      // Total matching records (may exceed len(IDs))
	IDs              []string // Entrez UIDs, up to the requested retmax
	QueryTranslation string   // How Entrez interpreted the query
}

// Search runs an esearch query against the given database and returns up to
// retmax UIDs. Queries use standard Entrez syntax, e.g.
// `Klebsiella pneumoniae[Organism] AND complete genome[Assembly Level]`.
func (c *Client) Search(ctx context.Context, db, term string, retmax int, refresh bool) (*SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("empty search term")
	}
	if retmax <= 0 {
		retmax = 20
	}

	q := url.Values{}
	q.Set("db", db)
	q.Set("term", term)
	q.Set("retmax", strconv.Itoa(retmax))
	q.Set("retmode", "json")

	body, err := c.get(ctx, "esearch.fcgi", q, cache.TTLSearch, refresh)
	if err != nil {
		return nil, err
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode esearch response: %w", err)
	}
	if resp.Result.Error != "" {
		return nil, fmt.Errorf("esearch: %s", resp.Result.Error)
	}

	count, _ := strconv.Atoi(resp.Result.Count)
	return &SearchResult{
		Count:            count,
		IDs:              resp.Result.IDList,
		QueryTranslation: resp.Result.QueryTranslation,
	}, nil
}

// UID resolves a single accession to its Entrez UID in db using a fielded
// accession search. Returns cache.ErrNotFound if nothing matches.
func (c *Client) UID(ctx context.Context, db, accession, field string, refresh bool) (string, error) {
	term := fmt.Sprintf("%s[%s]", accession, field)
	res, err := c.Search(ctx, db, term, 1, refresh)
	if err != nil {
		return "", err
	}
	if len(res.IDs) == 0 {
		return "", fmt.Errorf("%w: %s in %s", cache.ErrNotFound, accession, db)
	}
	return res.IDs[0], nil
}

type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count            string   `json:"count"`
	IDList           []string `json:"idlist"`
	QueryTranslation string   `json:"querytranslation"`
	Error            string   `json:"ERROR"`
}
