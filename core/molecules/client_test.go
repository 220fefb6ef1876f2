package molecules

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestImageReturnsRawBody(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	var gotPath, gotSMILES string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSMILES = r.URL.Query().Get("smiles")
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	body, err := client.Image(context.Background(), "CC(=O)O")
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if !bytes.Equal(body, png) {
		t.Fatalf("image bytes corrupted: %q", body)
	}
	if gotPath != "/api/visualize" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotSMILES != "CC(=O)O" {
		t.Fatalf("structure not delivered verbatim: %q", gotSMILES)
	}
}

func TestSynthesizabilityScoreDecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sa-score" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"score":3.42}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	score, err := client.SynthesizabilityScore(context.Background(), "c1ccccc1")
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if score != 3.42 {
		t.Fatalf("expected score 3.42, got %v", score)
	}
}

func TestLookupRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid SMILES", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Image(context.Background(), "not-a-molecule"); err == nil {
		t.Fatal("expected an error for a rejected structure")
	}
	if _, err := client.SynthesizabilityScore(context.Background(), "not-a-molecule"); err == nil {
		t.Fatal("expected an error for a rejected structure")
	}
}

func TestSynthesizabilityScoreRejectsUndecodablePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.SynthesizabilityScore(context.Background(), "CCO"); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestLookupEscapesStructureQuery(t *testing.T) {
	gotRawQuery := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawQuery <- r.URL.RawQuery
		w.Write([]byte(`{"score":1}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.SynthesizabilityScore(context.Background(), "C1=CC=CC=C1 C#N"); err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if raw := <-gotRawQuery; raw != "smiles=C1%3DCC%3DCC%3DC1+C%23N" {
		t.Fatalf("structure not escaped: %s", raw)
	}
}
