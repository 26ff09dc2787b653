package driver

import (
	"testing"

	"texfix/internal/diag"
	"texfix/internal/pipeline"
	"texfix/internal/rewrite"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fp, err := Fingerprint(pipeline.Config{})
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey([32]byte{1, 2, 3}, fp)

	var out DiskPayload
	if ok, err := cache.Get(key, &out); ok || err != nil {
		t.Fatalf("expected a miss, got ok=%v err=%v", ok, err)
	}

	adv := []rewrite.Advisory{{Code: diag.StyMultipleOver, Severity: diag.SevWarning, Start: 1, End: 4, Message: "m"}}
	if err := cache.Put(key, &DiskPayload{Text: "x", Changed: true, Advisories: toCachedAdvisories(adv)}); err != nil {
		t.Fatal(err)
	}
	ok, err := cache.Get(key, &out)
	if !ok || err != nil {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if out.Text != "x" || !out.Changed || fromCachedAdvisories(out.Advisories)[0] != adv[0] {
		t.Fatalf("unexpected payload %+v", out)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := cache.Get(key, &out); ok {
		t.Fatal("entry survived DropAll")
	}
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(pipeline.Config{})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Fingerprint(pipeline.Config{KeepDollar: true})
	c, _ := Fingerprint(pipeline.Config{
		Tables: rewrite.Tables{EnvironmentArguments: map[string]int{"a": 1, "b": 2, "c": 3, "d": 4}},
	})
	d, _ := Fingerprint(pipeline.Config{
		Tables: rewrite.Tables{EnvironmentArguments: map[string]int{"d": 4, "c": 3, "b": 2, "a": 1}},
	})
	if a == b {
		t.Error("KeepDollar must change the fingerprint")
	}
	if c != d {
		t.Error("fingerprint must not depend on map order")
	}
}
