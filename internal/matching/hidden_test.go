package matching

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jobhuntd/leads/internal/leads"
)

func TestHiddenSetStartsEmptyWhenFileMissing(t *testing.T) {
	set := LoadHiddenSet(filepath.Join(t.TempDir(), "hidden.json"), nil)
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %d entries", set.Len())
	}
}

func TestHiddenSetToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hidden.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	set := LoadHiddenSet(path, nil)
	if set.Len() != 0 {
		t.Fatalf("expected empty set from corrupt file, got %d entries", set.Len())
	}
}

func TestHidePersistsImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hidden.json")
	job := &leads.Job{Title: "Engineer", Company: "Acme"}

	set := LoadHiddenSet(path, nil)
	if err := set.Hide(job); err != nil {
		t.Fatalf("hide: %v", err)
	}

	// A fresh load must already see the hidden job.
	reloaded := LoadHiddenSet(path, nil)
	if !reloaded.Contains(job) {
		t.Fatal("expected hidden job to survive reload")
	}
	if reloaded.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", reloaded.Len())
	}
}

func TestHideIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hidden.json")
	job := &leads.Job{Title: "Engineer", Company: "Acme"}

	set := LoadHiddenSet(path, nil)
	if err := set.Hide(job); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if err := set.Hide(job); err != nil {
		t.Fatalf("second hide: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", set.Len())
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hidden.json")
	set := LoadHiddenSet(path, nil)

	hiddenJob := &leads.Job{Title: "Hidden", Company: "Acme"}
	if err := set.Hide(hiddenJob); err != nil {
		t.Fatalf("hide: %v", err)
	}

	jobs := []*AnnotatedJob{
		{Job: &leads.Job{Title: "First", Company: "Globex"}},
		{Job: hiddenJob},
		{Job: &leads.Job{Title: "Second", Company: "Initech"}},
	}

	visible, removed := set.Filter(jobs)
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible, got %d", len(visible))
	}
	if visible[0].Job.Title != "First" || visible[1].Job.Title != "Second" {
		t.Fatalf("order not preserved: %s, %s", visible[0].Job.Title, visible[1].Job.Title)
	}
}
