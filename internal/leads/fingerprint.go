package leads

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// jobViewIDPattern extracts the numeric posting ID embedded in job-view URLs,
// e.g. ".../jobs/view/staff-engineer-at-acme-4012345678".
var jobViewIDPattern = regexp.MustCompile(`/jobs/view/.*?-(\d+)`)

const urlHashLen = 8

// Fingerprint derives a stable identity key for the posting from its
// normalized title and company, suffixed with the numeric ID from the posting
// URL when one can be extracted, or a short hash of the URL otherwise.
// Postings that normalize to the same key are treated as the same job; that
// collision is the dedup mechanism, reposts included.
func (j *Job) Fingerprint() string {
	key := normalizeKeyPart(j.Title) + "_" + normalizeKeyPart(j.Company)

	if j.URL == "" {
		return key
	}

	if m := jobViewIDPattern.FindStringSubmatch(j.URL); m != nil {
		return key + "_" + m[1]
	}

	sum := sha256.Sum256([]byte(j.URL))
	return key + "_" + hex.EncodeToString(sum[:])[:urlHashLen]
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
