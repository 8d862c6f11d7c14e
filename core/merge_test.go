/*
merge_test.go - Executable specification of the reconciler

Each test states a merge property: existing records always survive,
incoming records are admitted only for unseen signatures, the result
never exceeds |A|+|B|, and merging a batch with itself is a no-op.
*/
package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ev(id int, date, title string) Event {
	return Event{ID: id, Date: date, Title: title}
}

func span(id int, date, title, start, end string) Event {
	return Event{ID: id, Date: date, Title: title, StartDate: start, EndDate: end}
}

func TestSignature_Composition(t *testing.T) {
	e := Event{Date: " 2025-03-10 ", Title: "수양회", StartDate: "2025-03-10", EndDate: "2025-03-14", Description: " 여름 수양회 "}
	assert.Equal(t, "2025-03-10|수양회|2025-03-10|2025-03-14|여름 수양회", e.Signature())

	// Ids do not participate: same content, different ids, same signature.
	a := ev(1, "2025-01-26", "주일예배")
	b := ev(99, "2025-01-26", "주일예배")
	assert.Equal(t, a.Signature(), b.Signature())
}

func TestMergeEvents_ExistingAlwaysWins(t *testing.T) {
	// GIVEN: an existing event and an incoming event with the same
	// signature but a different id
	// WHEN: merging
	// THEN: the existing record survives untouched (first-write-wins)
	existing := []Event{ev(1, "2025-01-26", "주일예배")}
	incoming := []Event{ev(777, "2025-01-26", "주일예배")}

	merged := MergeEvents(existing, incoming)

	assert.Len(t, merged, 1)
	assert.Equal(t, 1, merged[0].ID)
}

func TestMergeEvents_AdmitsOnlyNewSignatures(t *testing.T) {
	existing := []Event{ev(1, "2025-01-26", "주일예배"), ev(2, "2025-02-01", "생일파티")}
	incoming := []Event{ev(3, "2025-01-26", "주일예배"), ev(4, "2025-02-15", "교사회의")}

	merged := MergeEvents(existing, incoming)

	assert.Len(t, merged, 3)
	// Existing order preserved, genuinely new records appended.
	assert.Equal(t, []int{1, 2, 4}, []int{merged[0].ID, merged[1].ID, merged[2].ID})
}

func TestMergeEvents_Idempotent(t *testing.T) {
	// merge(A, A) == A, so repeated identical imports accumulate nothing.
	a := []Event{ev(1, "2025-01-26", "주일예배"), span(2, "2025-03-10", "수양회", "2025-03-10", "2025-03-14")}

	once := MergeEvents(a, a)
	twice := MergeEvents(once, a)

	assert.Equal(t, a, once)
	assert.Equal(t, a, twice)
}

func TestMergeEvents_BoundedBySumOfInputs(t *testing.T) {
	a := []Event{ev(1, "2025-01-01", "a"), ev(2, "2025-01-02", "b")}
	b := []Event{ev(3, "2025-01-02", "b"), ev(4, "2025-01-03", "c"), ev(5, "2025-01-03", "c")}

	merged := MergeEvents(a, b)

	assert.LessOrEqual(t, len(merged), len(a)+len(b))
	assert.Len(t, merged, 3)
}

func TestMergeEvents_RowOrderAcrossImportsDoesNotDuplicate(t *testing.T) {
	// Two rows sharing date+title+blank span arrive in different order
	// across two successive imports: the store must hold exactly one.
	first := []Event{ev(1, "2025-05-05", "어린이날 행사"), ev(2, "2025-05-11", "어버이주일")}
	second := []Event{ev(3, "2025-05-11", "어버이주일"), ev(4, "2025-05-05", "어린이날 행사")}

	merged := MergeEvents(MergeEvents(nil, first), second)

	assert.Len(t, merged, 2)
}

func TestDedupEvents_CollapsesAccumulatedDuplicates(t *testing.T) {
	events := []Event{
		ev(1, "2025-01-26", "주일예배"),
		ev(2, "2025-01-26", "주일예배"),
		ev(3, "2025-02-01", "생일파티"),
		ev(4, "2025-01-26", "주일예배"),
	}

	deduped := DedupEvents(events)

	assert.Len(t, deduped, 2)
	assert.Equal(t, 1, deduped[0].ID)
	assert.Equal(t, 3, deduped[1].ID)
}

func TestDedupEvents_EmptyAndNil(t *testing.T) {
	assert.Empty(t, DedupEvents(nil))
	assert.Empty(t, DedupEvents([]Event{}))
}
