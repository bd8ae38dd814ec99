package coverletters

// Entry is one generated letter recorded under a job description.
type Entry struct {
	ReturnedQuery string `json:"returnedQuery"`
}

// Mapping is the full cache: job description to its letters, oldest first.
type Mapping map[string][]Entry

// Result is the outcome of a successful pipeline run.
type Result struct {
	CoverLetter string
	// Persisted is false when the letter was generated but could not be cached.
	Persisted bool
}

func (m Mapping) clone() Mapping {
	out := make(Mapping, len(m))
	for k, entries := range m {
		out[k] = append([]Entry(nil), entries...)
	}
	return out
}
