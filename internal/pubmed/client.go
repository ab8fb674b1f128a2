// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed fetches article records from the NCBI E-utilities API and
// normalizes them into scored Paper records.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/toxassess/internal/httputil"
	"github.com/pdiddy/toxassess/pkg/types"
)

// eutilsBase is the NCBI E-utilities endpoint prefix. Declared as a var so
// tests can substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// Client queries PubMed through the two-step ESearch + EFetch flow.
type Client struct {
	cfg     types.PubMedConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient builds a PubMed client. Calls are throttled to
// cfg.RequestsPerSecond (default 3/s, the NCBI limit without an API key).
func NewClient(cfg types.PubMedConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 3
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Fetch searches PubMed for query and returns up to maxResults normalized,
// scored papers. An empty result set is not an error.
func (c *Client) Fetch(ctx context.Context, query string, maxResults int) ([]types.Paper, error) {
	if maxResults <= 0 {
		maxResults = c.cfg.MaxResults
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	start := time.Now()
	pmids, err := c.search(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching PubMed: %w", err)
	}
	if len(pmids) == 0 {
		slog.Info("pubmed_search_empty", slog.String("query", query))
		return nil, nil
	}

	records, err := c.fetchRecords(ctx, pmids)
	if err != nil {
		return nil, fmt.Errorf("fetching PubMed records: %w", err)
	}

	papers := make([]types.Paper, 0, len(records))
	for _, rec := range records {
		papers = append(papers, Normalize(rec))
	}

	slog.Info("pubmed_fetch_completed",
		slog.String("query", query),
		slog.Int("papers", len(papers)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return papers, nil
}

// search runs ESearch and returns the matching PMIDs sorted by relevance.
func (c *Client) search(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {fmt.Sprintf("%d", maxResults)},
		"sort":    {"relevance"},
		"retmode": {"json"},
	}
	c.addIdentity(params)

	body, err := c.get(ctx, eutilsBase+"/esearch.fcgi?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sr esearchResponse
	if err := json.NewDecoder(body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing ESearch response: %w", err)
	}
	return sr.Result.IDList, nil
}

// fetchRecords runs EFetch for the given PMIDs and parses the article XML.
func (c *Client) fetchRecords(ctx context.Context, pmids []string) ([]Record, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"rettype": {"xml"},
		"retmode": {"xml"},
	}
	c.addIdentity(params)

	body, err := c.get(ctx, eutilsBase+"/efetch.fcgi?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var set articleSet
	if err := xml.NewDecoder(body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing EFetch response: %w", err)
	}
	return set.Articles, nil
}

func (c *Client) get(ctx context.Context, reqURL string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("E-utilities request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("E-utilities returned HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// addIdentity attaches the NCBI identification parameters when configured.
func (c *Client) addIdentity(params url.Values) {
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
}

// esearchResponse is the JSON shape of an ESearch result.
type esearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// PubMed EFetch XML structures.
type articleSet struct {
	Articles []Record `xml:"PubmedArticle"`
}

// Record is one raw PubmedArticle as it appears in the EFetch XML.
type Record struct {
	PMID             string   `xml:"MedlineCitation>PMID"`
	Title            string   `xml:"MedlineCitation>Article>ArticleTitle"`
	Journal          string   `xml:"MedlineCitation>Article>Journal>Title"`
	Year             string   `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
	AbstractTexts    []string `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	PublicationTypes []string `xml:"MedlineCitation>Article>PublicationTypeList>PublicationType"`
}
