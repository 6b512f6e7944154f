package integrity_test

import (
	"testing"
	"time"

	"github.com/sarrafx/recon_backend/internal/core/domain"
	"github.com/sarrafx/recon_backend/internal/utils/integrity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry() domain.JournalEntry {
	txID := "txn-1"
	return domain.JournalEntry{
		EntryID:       "entry-1",
		TenantID:      "tenant-x",
		TransactionID: &txID,
		SequenceNo:    1,
		Description:   "exchange settlement",
		Reference:     "ref-001",
		Currency:      "USD",
		Lines: []domain.JournalLine{
			{AccountID: "acc-cash", Debit: 100000},
			{AccountID: "acc-receivable", Credit: 100000},
		},
		PostedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCanonicalIsLineOrderIndependent(t *testing.T) {
	a := sampleEntry()
	b := sampleEntry()
	b.Lines = []domain.JournalLine{b.Lines[1], b.Lines[0]}

	assert.Equal(t, integrity.Canonical(a), integrity.Canonical(b))
	assert.Equal(t, integrity.Seal(a, ""), integrity.Seal(b, ""))
}

func TestSealDependsOnContentAndPrevHash(t *testing.T) {
	a := sampleEntry()
	h1 := integrity.Seal(a, "")
	h2 := integrity.Seal(a, h1)
	assert.NotEqual(t, h1, h2)

	b := sampleEntry()
	b.Description = "tampered"
	assert.NotEqual(t, h1, integrity.Seal(b, ""))
}

func TestVerifyDetectsTampering(t *testing.T) {
	e := sampleEntry()
	e.Hash = integrity.Seal(e, "")
	require.True(t, integrity.Verify(e))

	e.Description = "tampered description"
	assert.False(t, integrity.Verify(e))
}

func TestVerifyChain(t *testing.T) {
	e1 := sampleEntry()
	e1.Hash = integrity.Seal(e1, "")

	e2 := sampleEntry()
	e2.EntryID = "entry-2"
	e2.SequenceNo = 2
	e2.Reference = "ref-002"
	e2.PrevHash = e1.Hash
	e2.Hash = integrity.Seal(e2, e2.PrevHash)

	assert.Empty(t, integrity.VerifyChain([]domain.JournalEntry{e2, e1}))

	// Break the link.
	e2.PrevHash = "bogus"
	e2.Hash = integrity.Seal(e2, e2.PrevHash)
	findings := integrity.VerifyChain([]domain.JournalEntry{e1, e2})
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "prevHash")

	// Tamper an entry without resealing.
	e1.Description = "tampered"
	findings = integrity.VerifyChain([]domain.JournalEntry{e1, e2})
	assert.Len(t, findings, 2)
}
