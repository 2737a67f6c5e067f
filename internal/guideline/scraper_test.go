package guideline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<html><body>
<h1>Fever in adults</h1>
<p>Fever is a temperature above 38C. Most fevers resolve on their own.</p>
<script>var tracking = true;</script>
<ul><li>Drink fluids</li><li>Rest well</li></ul>
<div>navigation noise</div>
</body></html>`

func TestExtractTextOrderAndFiltering(t *testing.T) {
	got, err := ExtractText(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	want := "Fever in adults Fever is a temperature above 38C. Most fevers resolve on their own. Drink fluids Rest well"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestFetchAllChunksPerSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	s := NewScraper()
	chunks, err := s.FetchAll(context.Background(), []Source{{Label: "nice", URL: srv.URL}}, 500, wordCount)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("no chunks")
	}
	for _, c := range chunks {
		if c.Source != "nice" {
			t.Fatalf("source=%q", c.Source)
		}
	}
}

func TestFetchPropagatesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewScraper().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestSourcesFromEnv(t *testing.T) {
	t.Setenv("MEDBOT_GUIDELINE_URLS", "nice=https://a.example/x, who=https://b.example/y,,bad")
	src := SourcesFromEnv()
	if len(src) != 2 {
		t.Fatalf("sources=%v", src)
	}
	if src[0].Label != "nice" || src[0].URL != "https://a.example/x" {
		t.Fatalf("src[0]=%v", src[0])
	}
	if src[1].Label != "who" || src[1].URL != "https://b.example/y" {
		t.Fatalf("src[1]=%v", src[1])
	}
}
