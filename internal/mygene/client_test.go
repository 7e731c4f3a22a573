package mygene

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testResponse = `[
  {"query": "COX4I2", "_id": "84701", "_score": 22.1, "symbol": "COX4I2",
   "name": "cytochrome c oxidase subunit 4I2", "entrezgene": "84701",
   "ensembl": {"gene": "ENSG00000131055"}, "alias": ["COX4", "COX4B", "COX4-2"], "taxid": 9606},
  {"query": "MT-ND1", "_id": "4535", "_score": 19.0, "symbol": "MT-ND1", "entrezgene": "4535", "taxid": 9606},
  {"query": "MT-ND1", "_id": "999", "_score": 2.0, "symbol": "OTHER"},
  {"query": "MT-ATP6", "notfound": true}
]`

// fakeService records each request form and answers with respond.
type fakeService struct {
	mu       sync.Mutex
	requests []map[string]string
	respond  func(terms []string) (int, string)
}

func (f *fakeService) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		assert.NoError(t, r.ParseForm())

		req := map[string]string{
			"q":       r.PostForm.Get("q"),
			"scopes":  r.PostForm.Get("scopes"),
			"fields":  r.PostForm.Get("fields"),
			"species": r.PostForm.Get("species"),
		}
		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		status, body := f.respond(strings.Split(req["q"], ","))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func newTestClient(t *testing.T, f *fakeService) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestQueryMany(t *testing.T) {
	f := &fakeService{respond: func([]string) (int, string) { return http.StatusOK, testResponse }}
	c := newTestClient(t, f)

	hits, err := c.QueryMany(context.Background(), []string{"COX4I2", "MT-ND1", "MT-ATP6"}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, hits, 3)

	require.Len(t, f.requests, 1)
	assert.Equal(t, "COX4I2,MT-ND1,MT-ATP6", f.requests[0]["q"])
	assert.Equal(t, DefaultScopes, f.requests[0]["scopes"])
	assert.Equal(t, DefaultFields, f.requests[0]["fields"])
	assert.Equal(t, "human", f.requests[0]["species"])

	assert.True(t, hits[0].Found())
	assert.Equal(t, "84701", hits[0].ID())
	assert.Equal(t, "ENSG00000131055", hits[0].Field("ensembl.gene").String())

	// First duplicate hit wins.
	assert.Equal(t, "MT-ND1", hits[1].Field("symbol").String())

	assert.Equal(t, "MT-ATP6", hits[2].Query)
	assert.True(t, hits[2].NotFound)
	assert.False(t, hits[2].Found())
}

func TestQueryMany_RepeatedTermsSentOnce(t *testing.T) {
	f := &fakeService{respond: func([]string) (int, string) { return http.StatusOK, testResponse }}
	c := newTestClient(t, f)

	hits, err := c.QueryMany(context.Background(), []string{"COX4I2", "COX4I2"}, Options{})
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "COX4I2", f.requests[0]["q"])
	assert.Equal(t, hits[0], hits[1])
}

func TestQueryMany_CommaTermNotSent(t *testing.T) {
	f := &fakeService{respond: func([]string) (int, string) { return http.StatusOK, testResponse }}
	c := newTestClient(t, f)
	core, logs := observer.New(zap.WarnLevel)
	c.SetLogger(zap.New(core))

	hits, err := c.QueryMany(context.Background(), []string{"COX4I2", "MT-ND1,MT-ATP6"}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, hits, 2)

	require.Len(t, f.requests, 1)
	assert.Equal(t, "COX4I2", f.requests[0]["q"])
	assert.True(t, hits[0].Found())
	assert.Equal(t, Hit{Query: "MT-ND1,MT-ATP6", NotFound: true}, hits[1])

	warned := logs.FilterField(zap.String("query", "MT-ND1,MT-ATP6")).All()
	require.Len(t, warned, 1)
	assert.Equal(t, zap.WarnLevel, warned[0].Level)
}

func TestQueryMany_OnlyCommaTerms(t *testing.T) {
	f := &fakeService{respond: func([]string) (int, string) { return http.StatusOK, `[]` }}
	c := newTestClient(t, f)

	hits, err := c.QueryMany(context.Background(), []string{"A,B"}, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, f.requests)
	assert.Equal(t, []Hit{{Query: "A,B", NotFound: true}}, hits)
}

func TestQueryMany_MissingFromResponse(t *testing.T) {
	f := &fakeService{respond: func([]string) (int, string) { return http.StatusOK, `[]` }}
	c := newTestClient(t, f)

	hits, err := c.QueryMany(context.Background(), []string{"NOPE"}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, Hit{Query: "NOPE", NotFound: true}, hits[0])
}

func TestQueryMany_Batches(t *testing.T) {
	f := &fakeService{respond: func(terms []string) (int, string) {
		var sb strings.Builder
		sb.WriteString("[")
		for i, term := range terms {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(`{"query":"` + term + `","symbol":"` + term + `"}`)
		}
		sb.WriteString("]")
		return http.StatusOK, sb.String()
	}}
	c := newTestClient(t, f)
	c.SetBatchSize(2)
	c.SetConcurrency(3)

	terms := []string{"A", "B", "C", "D", "E"}
	hits, err := c.QueryMany(context.Background(), terms, DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, f.requests, 3)
	require.Len(t, hits, len(terms))
	for i, term := range terms {
		assert.Equal(t, term, hits[i].Field("symbol").String())
	}
}

func TestQueryMany_HTTPError(t *testing.T) {
	f := &fakeService{respond: func([]string) (int, string) {
		return http.StatusTooManyRequests, `{"error": "rate limited"}`
	}}
	c := newTestClient(t, f)

	_, err := c.QueryMany(context.Background(), []string{"COX4I2"}, DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestQueryMany_Canceled(t *testing.T) {
	f := &fakeService{respond: func([]string) (int, string) { return http.StatusOK, `[]` }}
	c := newTestClient(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.QueryMany(ctx, []string{"COX4I2"}, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseHits_Invalid(t *testing.T) {
	_, err := ParseHits([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseHits([]byte(`{"query": "x"}`))
	assert.Error(t, err)
}

func TestSetBatchSize_Capped(t *testing.T) {
	c := NewClient("")
	c.SetBatchSize(5000)
	assert.Equal(t, MaxBatchSize, c.batchSize)
	c.SetBatchSize(0)
	assert.Equal(t, MaxBatchSize, c.batchSize)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}

func TestSplitBatches(t *testing.T) {
	assert.Nil(t, splitBatches(nil, 10))
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, splitBatches([]string{"a", "b", "c"}, 2))
}
