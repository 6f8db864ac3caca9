package labels

import (
	"reflect"
	"testing"
)

func TestExtractCustomerAndTechnicalKeywords(t *testing.T) {
	got := Extract(Request{
		Summary: "FedEx - CRDB slave OVC higher than master causing replication failure",
	})
	want := []string{"fedex", "crdb", "ovc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractExplicitCustomerNameNormalized(t *testing.T) {
	got := Extract(Request{
		Summary:      "Azure ACRE deployment timeout",
		CustomerName: "Wells Fargo",
	})
	want := []string{"wells-fargo", "acre", "azure", "timeout"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractSourceIsHighestPriority(t *testing.T) {
	got := Extract(Request{
		Summary: "FedEx - CRDB failover loop",
		Source:  "Zendesk",
	})
	if len(got) == 0 || got[0] != "zendesk" {
		t.Fatalf("expected zendesk first, got %v", got)
	}
	if got[1] != "fedex" {
		t.Fatalf("expected customer second, got %v", got)
	}
}

func TestExtractSkipsGenericKeywords(t *testing.T) {
	got := Extract(Request{
		Summary: "Replication sync conflict on master shard after restart",
	})
	if len(got) != 0 {
		t.Fatalf("expected no labels for generic text, got %v", got)
	}
}

func TestExtractCapsLabelCount(t *testing.T) {
	got := Extract(Request{
		Summary:     "FedEx - ACRE upgrade crash with TLS certificate timeout on Azure",
		Description: "Also saw failover and migration problems on kubernetes",
	})
	if len(got) != DefaultMaxLabels {
		t.Fatalf("expected %d labels, got %d: %v", DefaultMaxLabels, len(got), got)
	}
	if got[0] != "fedex" {
		t.Fatalf("expected customer first, got %v", got)
	}
}

func TestExtractDescriptionOnlyWhenUnderCap(t *testing.T) {
	got := Extract(Request{
		Summary:     "ACRE upgrade crash with TLS certificate timeout",
		Description: "kubernetes migration",
		MaxLabels:   3,
	})
	want := []string{"acre", "certificate", "crash"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
