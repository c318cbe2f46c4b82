package embedder_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"conductor/internal/services/embedder"
)

func TestEmbedAndUpsert(t *testing.T) {
	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"vector": []float32{0.1, 0.2, 0.3}})
	}))
	defer embedSrv.Close()

	var upserted map[string]any
	storeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&upserted); err != nil {
			t.Fatalf("decode upsert: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer storeSrv.Close()

	client := embedder.NewClient(embedder.Config{
		Enabled:        true,
		URL:            embedSrv.URL,
		VectorStoreURL: storeSrv.URL,
		Collection:     "vault_files",
	})

	vector, err := client.Embed(context.Background(), "archived text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vector) != 3 {
		t.Fatalf("unexpected vector %v", vector)
	}

	if err := client.Upsert(context.Background(), "job-1", vector, map[string]any{"category": "Finanzen"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if upserted["collection"] != "vault_files" || upserted["id"] != "job-1" {
		t.Fatalf("unexpected upsert payload %#v", upserted)
	}
}

func TestEmbedDisabled(t *testing.T) {
	client := embedder.NewClient(embedder.Config{Enabled: false})
	if client.Enabled() {
		t.Fatal("expected disabled client")
	}
	if _, err := client.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error from disabled embedder")
	}
}
