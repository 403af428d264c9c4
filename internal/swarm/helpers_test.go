package swarm

import "testing"

func mustRecord(t *testing.T, doc string) Record {
	t.Helper()

	rec, err := ParseRecord([]byte(doc))
	if err != nil {
		t.Fatalf("failed to parse record: %v", err)
	}
	return rec
}

func mustRecords(t *testing.T, docs ...string) []Record {
	t.Helper()

	recs := make([]Record, 0, len(docs))
	for _, doc := range docs {
		recs = append(recs, mustRecord(t, doc))
	}
	return recs
}

func intPtr(v int) *int {
	return &v
}
