package classifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"conductor/internal/services"
	"conductor/internal/services/classifier"
)

func TestClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["filename"] != "invoice.pdf" {
			t.Fatalf("unexpected filename %q", req["filename"])
		}
		_ = json.NewEncoder(w).Encode(classifier.Classification{
			Category:    "Finanzen",
			Subcategory: "Rechnung",
			Confidence:  0.85,
			Entities:    []string{"Bauhaus", "Gartenmaterial"},
			Tags:        []string{"invoice"},
		})
	}))
	defer server.Close()

	client := classifier.NewClient(classifier.Config{URL: server.URL})
	result, err := client.Classify(context.Background(), "some invoice text", "invoice.pdf")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Category != "Finanzen" || result.Confidence != 0.85 {
		t.Fatalf("unexpected result %#v", result)
	}
	if result.Entity() != "Bauhaus" {
		t.Fatalf("expected leading entity, got %q", result.Entity())
	}
}

func TestClassifyUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := classifier.NewClient(classifier.Config{URL: server.URL})
	_, err := client.Classify(context.Background(), "text", "doc.pdf")
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestEntityEmptyWithoutEntities(t *testing.T) {
	var c classifier.Classification
	if c.Entity() != "" {
		t.Fatalf("expected empty entity, got %q", c.Entity())
	}
}
