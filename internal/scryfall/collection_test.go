package scryfall

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetCardsByNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/collection" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}

		var req collectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Identifiers) != 2 {
			t.Errorf("identifiers = %d, want 2", len(req.Identifiers))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"not_found": [{"name": "Fake Card"}],
			"data": [{
				"id": "abc",
				"name": "Sol Ring",
				"mana_cost": "{1}",
				"cmc": 1,
				"type_line": "Artifact",
				"color_identity": [],
				"legalities": {"commander": "legal"}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	cards, notFound, err := client.GetCardsByNames(context.Background(), []string{"Sol Ring", "Fake Card"})
	if err != nil {
		t.Fatalf("GetCardsByNames() error: %v", err)
	}
	if len(cards) != 1 || cards[0].Name != "Sol Ring" {
		t.Errorf("cards = %+v", cards)
	}
	if len(notFound) != 1 || notFound[0] != "Fake Card" {
		t.Errorf("notFound = %v", notFound)
	}
}

func TestGetCardsByNamesBatching(t *testing.T) {
	batches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		batches++
		var req collectionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Identifiers) > MaxBatchSize {
			t.Errorf("batch of %d exceeds limit %d", len(req.Identifiers), MaxBatchSize)
		}
		_, _ = w.Write([]byte(`{"object":"list","not_found":[],"data":[]}`))
	}))
	defer server.Close()

	names := make([]string, 100)
	for i := range names {
		names[i] = "Card"
	}

	client := NewClient(WithBaseURL(server.URL))
	if _, _, err := client.GetCardsByNames(context.Background(), names); err != nil {
		t.Fatalf("GetCardsByNames() error: %v", err)
	}
	if batches != 2 {
		t.Errorf("batches = %d, want 2 for 100 names", batches)
	}
}

func TestGetCardsByNamesEmpty(t *testing.T) {
	client := NewClient()
	cards, notFound, err := client.GetCardsByNames(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetCardsByNames() error: %v", err)
	}
	if len(cards) != 0 || len(notFound) != 0 {
		t.Errorf("expected empty results, got %v / %v", cards, notFound)
	}
}

func TestFetchFacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"object": "list",
			"not_found": [],
			"data": [
				{
					"id": "a",
					"name": "Sol Ring",
					"cmc": 1,
					"type_line": "Artifact",
					"color_identity": [],
					"legalities": {"commander": "legal"}
				},
				{
					"id": "b",
					"name": "Delver of Secrets // Insectile Aberration",
					"cmc": 1,
					"color_identity": ["U"],
					"card_faces": [
						{"name": "Delver of Secrets", "mana_cost": "{U}", "type_line": "Creature — Human Wizard"},
						{"name": "Insectile Aberration", "type_line": "Creature — Human Insect"}
					],
					"legalities": {"commander": "legal"}
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	facts, notFound, err := client.FetchFacts(context.Background(), []string{"Sol Ring", "Delver of Secrets"})
	if err != nil {
		t.Fatalf("FetchFacts() error: %v", err)
	}
	if len(notFound) != 0 {
		t.Errorf("notFound = %v", notFound)
	}

	if fact, ok := facts["Sol Ring"]; !ok || fact.TypeLine != "Artifact" {
		t.Errorf("Sol Ring fact = %+v", fact)
	}
	// A front-face query must resolve against the full DFC name.
	fact, ok := facts["Delver of Secrets"]
	if !ok {
		t.Fatal("Delver of Secrets not resolved by front face")
	}
	if fact.Name != "Delver of Secrets" {
		t.Errorf("fact keyed name = %q, want the queried name", fact.Name)
	}
	if fact.ManaCost != "{U}" {
		t.Errorf("ManaCost = %q, want front face cost", fact.ManaCost)
	}
}
