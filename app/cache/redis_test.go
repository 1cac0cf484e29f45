package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/reddit-comb/app/thread"
)

func TestReportKey(t *testing.T) {
	rules := thread.Rules{Authors: []string{"Tricky_Troll", "Bitty_Bot"}, ScoreThreshold: -10}

	key1a := ReportKey("BitcoinMarkets", 24, rules)
	key1b := ReportKey("BitcoinMarkets", 24, thread.Rules{Authors: []string{"Bitty_Bot", "Tricky_Troll"}, ScoreThreshold: -10})

	if key1a != key1b {
		t.Errorf("Expected author order not to matter, got %s != %s", key1a, key1b)
	}

	if !strings.HasPrefix(key1a, "report:BitcoinMarkets:") {
		t.Errorf("Expected key to start with report:BitcoinMarkets:, got %s", key1a)
	}

	variants := []string{
		ReportKey("ethereum", 24, rules),
		ReportKey("BitcoinMarkets", 12, rules),
		ReportKey("BitcoinMarkets", 24, thread.Rules{Authors: rules.Authors, ScoreThreshold: -5}),
		ReportKey("BitcoinMarkets", 24, thread.Rules{ScoreThreshold: -10}),
	}
	for _, v := range variants {
		if v == key1a {
			t.Errorf("Expected different key for different arguments, got %s", v)
		}
	}
}

func TestReportKey_DoesNotMutateRules(t *testing.T) {
	authors := []string{"b", "a"}
	ReportKey("ethereum", 24, thread.Rules{Authors: authors})

	if authors[0] != "b" || authors[1] != "a" {
		t.Errorf("Expected authors to keep their order, got %v", authors)
	}
}

func TestEntryRoundTrip(t *testing.T) {
	result := &thread.Result{
		Content:  "# Reddit Comment Export\n",
		FileName: "reddit_ethereum_1_daily_24h.md",
		Included: 3,
		Excluded: 1,
		Total:    5,
	}

	data, err := encodeEntry(result, time.Unix(100, 0))
	if err != nil {
		t.Fatalf("encodeEntry failed: %v", err)
	}

	decoded, ok := decodeEntry(data)
	if !ok {
		t.Fatal("Expected entry to decode")
	}
	if *decoded != *result {
		t.Errorf("Expected %+v, got %+v", result, decoded)
	}
}

func TestDecodeEntry_Invalid(t *testing.T) {
	tests := []string{
		"not json",
		`{"file_name":"x.md"}`,
		`[]`,
	}

	for _, data := range tests {
		if _, ok := decodeEntry([]byte(data)); ok {
			t.Errorf("Expected %q to be rejected", data)
		}
	}
}
