// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/toxassess/pkg/types"
)

const efetchFixture = `<?xml version="1.0"?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID Version="1">31852345</PMID>
      <Article>
        <Journal>
          <Title>Food and Chemical Toxicology</Title>
          <JournalIssue>
            <PubDate><Year>2021</Year><Month>Mar</Month></PubDate>
          </JournalIssue>
        </Journal>
        <ArticleTitle>Safety evaluation of titanium dioxide in food.</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">Background fragment.</AbstractText>
          <AbstractText Label="RESULTS">Results fragment.</AbstractText>
        </Abstract>
        <PublicationTypeList>
          <PublicationType UI="D016449">Randomized Controlled Trial</PublicationType>
          <PublicationType UI="D016428">Journal Article</PublicationType>
        </PublicationTypeList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID Version="1">22334455</PMID>
      <Article>
        <Journal>
          <Title>Obscure Quarterly</Title>
          <JournalIssue><PubDate><MedlineDate>2004-2005</MedlineDate></PubDate></JournalIssue>
        </Journal>
        <ArticleTitle></ArticleTitle>
        <PublicationTypeList>
          <PublicationType UI="D016428">Journal Article</PublicationType>
        </PublicationTypeList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func newTestServer(t *testing.T, idlist string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/esearch.fcgi"):
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"esearchresult":{"idlist":[` + idlist + `]}}`))
		case strings.HasSuffix(r.URL.Path, "/efetch.fcgi"):
			w.Header().Set("Content-Type", "text/xml")
			w.Write([]byte(efetchFixture))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func testClient() *Client {
	return NewClient(types.PubMedConfig{
		HTTPConfig:        types.HTTPConfig{UserAgent: "test/0.1"},
		Email:             "test@example.com",
		RequestsPerSecond: 1000,
	})
}

func TestFetchParsesRecords(t *testing.T) {
	ts := newTestServer(t, `"31852345","22334455"`)
	defer ts.Close()

	orig := eutilsBase
	eutilsBase = ts.URL
	defer func() { eutilsBase = orig }()

	papers, err := testClient().Fetch(context.Background(), "titanium dioxide toxicity", 20)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}

	p := papers[0]
	if p.PMID != "31852345" {
		t.Errorf("PMID = %q, want 31852345", p.PMID)
	}
	if p.Abstract != "Background fragment. Results fragment." {
		t.Errorf("abstract fragments not joined: %q", p.Abstract)
	}
	if !p.IsRCT || !p.IsClinicalTrial {
		t.Errorf("RCT flags = (%v, %v), want (true, true)", p.IsRCT, p.IsClinicalTrial)
	}
	// RCT 40 + year 2021 20 + short abstract 10 + toxicology journal 20.
	if p.QualityScore != 90 {
		t.Errorf("QualityScore = %d, want 90", p.QualityScore)
	}

	q := papers[1]
	if q.Title != "No title" {
		t.Errorf("missing title default = %q, want \"No title\"", q.Title)
	}
	if q.Year != "" {
		t.Errorf("MedlineDate-only record should have empty year, got %q", q.Year)
	}
	if q.IsClinicalTrial || q.IsRCT {
		t.Errorf("plain journal article flagged as trial")
	}
	// Untagged 20 + no year 5 + empty abstract 10 + plain journal 10.
	if q.QualityScore != 45 {
		t.Errorf("QualityScore = %d, want 45", q.QualityScore)
	}
}

func TestFetchEmptySearchIsNotAnError(t *testing.T) {
	ts := newTestServer(t, ``)
	defer ts.Close()

	orig := eutilsBase
	eutilsBase = ts.URL
	defer func() { eutilsBase = orig }()

	papers, err := testClient().Fetch(context.Background(), "nonexistent substance", 20)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if papers != nil {
		t.Errorf("papers = %v, want nil", papers)
	}
}

func TestFetchUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	orig := eutilsBase
	eutilsBase = ts.URL
	defer func() { eutilsBase = orig }()

	_, err := testClient().Fetch(context.Background(), "anything", 20)
	if err == nil {
		t.Fatal("Fetch() expected error on HTTP 500")
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("error = %v, want mention of HTTP 500", err)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	p := Normalize(Record{PMID: " 123 "})
	if p.PMID != "123" {
		t.Errorf("PMID = %q, want trimmed", p.PMID)
	}
	if p.Title != "No title" {
		t.Errorf("Title = %q, want default", p.Title)
	}
	if p.Abstract != "" || p.Journal != "" || p.Year != "" {
		t.Errorf("empty fields should stay empty: %+v", p)
	}
	if len(p.PublicationTypes) != 0 {
		t.Errorf("PublicationTypes = %v, want empty", p.PublicationTypes)
	}
	if p.QualityScore != 45 {
		t.Errorf("QualityScore = %d, want 45", p.QualityScore)
	}
}
