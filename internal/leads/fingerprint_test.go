package leads

import (
	"strings"
	"testing"
)

func TestFingerprintUsesURLPostingID(t *testing.T) {
	job := &Job{
		Title:   "Engineer",
		Company: "Acme",
		URL:     "https://www.linkedin.com/jobs/view/engineer-at-acme-12345?refId=abc",
	}

	if got := job.Fingerprint(); got != "engineer_acme_12345" {
		t.Fatalf("unexpected fingerprint: %q", got)
	}
}

func TestFingerprintNormalizesTitleAndCompany(t *testing.T) {
	a := &Job{Title: "  Engineer ", Company: "ACME"}
	b := &Job{Title: "engineer", Company: "acme"}

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("expected equal fingerprints, got %q and %q", a.Fingerprint(), b.Fingerprint())
	}

	if got := a.Fingerprint(); got != "engineer_acme" {
		t.Fatalf("unexpected fingerprint: %q", got)
	}
}

func TestFingerprintFallsBackToURLHash(t *testing.T) {
	job := &Job{
		Title:   "Engineer",
		Company: "Acme",
		URL:     "https://example.com/postings/42",
	}

	got := job.Fingerprint()
	if !strings.HasPrefix(got, "engineer_acme_") {
		t.Fatalf("unexpected fingerprint: %q", got)
	}

	suffix := strings.TrimPrefix(got, "engineer_acme_")
	if len(suffix) != urlHashLen {
		t.Fatalf("expected %d char hash suffix, got %q", urlHashLen, suffix)
	}

	if again := job.Fingerprint(); again != got {
		t.Fatalf("fingerprint is not deterministic: %q vs %q", got, again)
	}

	other := &Job{Title: "Engineer", Company: "Acme", URL: "https://example.com/postings/43"}
	if other.Fingerprint() == got {
		t.Fatal("different urls produced the same fingerprint")
	}
}

func TestDedupKeepsFirstOccurrence(t *testing.T) {
	first := &Job{Title: "Engineer", Company: "Acme", Keyword: "golang"}
	repost := &Job{Title: " Engineer ", Company: "ACME", Keyword: "backend"}
	other := &Job{Title: "Analyst", Company: "Globex"}

	jobs := &Jobs{Items: []*Job{first, repost, other}}

	removed := jobs.Dedup()
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if jobs.Len() != 2 {
		t.Fatalf("expected 2 jobs, got %d", jobs.Len())
	}
	if jobs.Items[0].Keyword != "golang" {
		t.Fatalf("expected first occurrence kept, got keyword %q", jobs.Items[0].Keyword)
	}
}
