package leads

// Job is a single scraped posting. Keyword and SearchLocation record which
// search produced it; IsTarget marks employers from the target-companies list.
type Job struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Posted         string `json:"posted"`
	URL            string `json:"url"`
	Keyword        string `json:"keyword"`
	SearchLocation string `json:"search_location"`
	IsTarget       bool   `json:"is_target"`
}

// Jobs is an ordered collection of postings.
type Jobs struct {
	Items []*Job
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

// Dedup removes postings that share a fingerprint, keeping the first
// occurrence. Returns the number of removed items.
func (j *Jobs) Dedup() int {
	seen := make(map[string]struct{}, len(j.Items))
	unique := make([]*Job, 0, len(j.Items))

	for _, job := range j.Items {
		key := job.Fingerprint()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, job)
	}

	removed := len(j.Items) - len(unique)
	j.Items = unique
	return removed
}
