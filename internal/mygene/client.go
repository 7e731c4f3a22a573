// Package mygene provides a client for the MyGene.info gene query service.
package mygene

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MyGene.info defaults.
const (
	DefaultBaseURL = "https://mygene.info/v3"
	DefaultScopes  = "symbol,alias,ensemblgene,entrezgene"
	DefaultFields  = "symbol,name,entrezgene,ensembl.gene,summary,alias,taxid"
	DefaultSpecies = "human"

	// MaxBatchSize is the largest number of terms the service accepts per query.
	MaxBatchSize = 1000
)

// Options controls what a query searches and returns.
type Options struct {
	Species string // species name or taxonomy ID, e.g. "human" or "9606"
	Scopes  string // comma-separated fields the query terms are matched against
	Fields  string // comma-separated fields returned for each hit
}

// DefaultOptions returns the options used for human gene symbol lookup.
func DefaultOptions() Options {
	return Options{
		Species: DefaultSpecies,
		Scopes:  DefaultScopes,
		Fields:  DefaultFields,
	}
}

// WithDefaults fills empty fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Species == "" {
		o.Species = d.Species
	}
	if o.Scopes == "" {
		o.Scopes = d.Scopes
	}
	if o.Fields == "" {
		o.Fields = d.Fields
	}
	return o
}

// Client queries MyGene.info in batches.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	batchSize   int
	concurrency int
	userAgent   string
	logger      *zap.Logger
}

// NewClient creates a client for the service at baseURL.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		batchSize:   MaxBatchSize,
		concurrency: 1,
		userAgent:   "gene-annot",
		logger:      zap.NewNop(),
	}
}

// SetTimeout sets the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// SetBatchSize sets the number of terms sent per request, capped at MaxBatchSize.
func (c *Client) SetBatchSize(n int) {
	if n <= 0 || n > MaxBatchSize {
		n = MaxBatchSize
	}
	c.batchSize = n
}

// SetConcurrency sets how many batch requests may be in flight at once.
func (c *Client) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	c.concurrency = n
}

// SetUserAgent sets the User-Agent header sent with each request.
func (c *Client) SetUserAgent(ua string) {
	c.userAgent = ua
}

// SetLogger sets the logger for warning and debug messages.
func (c *Client) SetLogger(l *zap.Logger) {
	c.logger = l
}

// QueryMany looks up each term and returns one Hit per input term, in
// input order. Terms the service does not know are returned with
// NotFound set. Repeated terms are sent once. When the service returns
// several hits for a term, the first is kept. Terms containing a comma
// cannot be sent in a batch and are returned as NotFound.
func (c *Client) QueryMany(ctx context.Context, terms []string, opts Options) ([]Hit, error) {
	opts = opts.WithDefaults()

	unique := uniqueTerms(terms)
	sendable := unique[:0:0]
	for _, term := range unique {
		// The service splits q on commas.
		if strings.Contains(term, ",") {
			c.logger.Warn("query contains a comma, not sent", zap.String("query", term))
			continue
		}
		sendable = append(sendable, term)
	}
	batches := splitBatches(sendable, c.batchSize)
	results := make([][]Hit, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			hits, err := c.query(gctx, batch, opts)
			if err != nil {
				return err
			}
			results[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byQuery := make(map[string]Hit, len(unique))
	dups := make(map[string]int)
	for _, hits := range results {
		for _, h := range hits {
			if _, seen := byQuery[h.Query]; seen {
				dups[h.Query]++
				continue
			}
			byQuery[h.Query] = h
		}
	}
	for q, n := range dups {
		c.logger.Warn("query matched several genes, keeping the first",
			zap.String("query", q),
			zap.Int("hits", n+1))
	}

	out := make([]Hit, len(terms))
	missing := 0
	for i, term := range terms {
		h, ok := byQuery[term]
		if !ok {
			h = Hit{Query: term, NotFound: true}
		}
		if h.NotFound {
			missing++
		}
		out[i] = h
	}
	if missing > 0 {
		c.logger.Info("some queries found no hit",
			zap.Int("missing", missing),
			zap.Int("total", len(terms)))
	}

	return out, nil
}

// query sends a single batch.
func (c *Client) query(ctx context.Context, terms []string, opts Options) ([]Hit, error) {
	form := url.Values{}
	form.Set("q", strings.Join(terms, ","))
	form.Set("scopes", opts.Scopes)
	form.Set("fields", opts.Fields)
	form.Set("species", opts.Species)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build mygene request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("querying mygene",
		zap.Int("terms", len(terms)),
		zap.String("species", opts.Species))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mygene request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read mygene response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mygene error %d: %s", resp.StatusCode, excerpt(body, 200))
	}

	return ParseHits(body)
}

// ParseHits decodes a query response body: a JSON array with one object
// per hit, each carrying the "query" term it matched.
func ParseHits(body []byte) ([]Hit, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decode mygene response: invalid JSON")
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("decode mygene response: expected array, got %s", excerpt(body, 80))
	}

	var hits []Hit
	parsed.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		hits = append(hits, Hit{
			Query:    item.Get("query").String(),
			NotFound: item.Get("notfound").Bool(),
			Raw:      item.Raw,
		})
		return true
	})
	return hits, nil
}

func uniqueTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func splitBatches(terms []string, size int) [][]string {
	var batches [][]string
	for i := 0; i < len(terms); i += size {
		end := min(i+size, len(terms))
		batches = append(batches, terms[i:end])
	}
	return batches
}

func excerpt(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
