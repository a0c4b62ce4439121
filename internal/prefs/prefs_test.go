package prefs

import (
	"testing"

	"github.com/meridian-erp/meridian/internal/testutil"
)

func TestStoreRoundTrip(t *testing.T) {
	_, client := testutil.Redis(t)
	store := NewStore(client, testutil.Logger(), "u1")

	if got := store.Get("geographyLastTab"); got != "" {
		t.Fatalf("missing key should return empty, got %q", got)
	}

	store.Set("geographyLastTab", "2")
	if got := store.Get("geographyLastTab"); got != "2" {
		t.Fatalf("get = %q, want 2", got)
	}
}

func TestStoreIsolatesUsers(t *testing.T) {
	_, client := testutil.Redis(t)
	alice := NewStore(client, testutil.Logger(), "alice")
	bob := NewStore(client, testutil.Logger(), "bob")

	alice.Set("tradeLastTab", "1")
	if got := bob.Get("tradeLastTab"); got != "" {
		t.Fatalf("bob sees alice's pref: %q", got)
	}
}

func TestStoreSurvivesRedisOutage(t *testing.T) {
	mr, client := testutil.Redis(t)
	store := NewStore(client, testutil.Logger(), "u1")
	mr.Close()

	store.Set("geographyLastTab", "1")
	if got := store.Get("geographyLastTab"); got != "" {
		t.Fatalf("outage should read as empty, got %q", got)
	}
}
