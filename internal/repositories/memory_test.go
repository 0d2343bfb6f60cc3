package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFound(t *testing.T, docs *MemoryDocumentRepository) *models.DocumentReport {
	t.Helper()
	doc := &models.DocumentReport{
		DocumentType: "passport",
		Status:       models.DocumentStatusFound,
		ReportedByID: 1,
	}
	require.NoError(t, docs.CreateDocument(context.Background(), doc))
	return doc
}

func TestConcurrentDuplicateSubmissions(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryDocumentRepository()
	claims := NewMemoryClaimRepository(docs)
	doc := seedFound(t, docs)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = claims.CreateClaim(ctx, &models.ClaimRequest{
				DocumentID: doc.ID,
				ClaimantID: 5,
				Status:     models.ClaimStatusPending,
			})
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch err {
		case nil:
			created++
		case storage.ErrConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)
}

func TestConcurrentApprovals(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryDocumentRepository()
	claims := NewMemoryClaimRepository(docs)
	doc := seedFound(t, docs)

	const claimants = 10
	pending := make([]*models.ClaimRequest, claimants)
	for i := 0; i < claimants; i++ {
		pending[i] = &models.ClaimRequest{
			DocumentID: doc.ID,
			ClaimantID: uint(i + 1),
			Status:     models.ClaimStatusPending,
		}
		require.NoError(t, claims.CreateClaim(ctx, pending[i]))
	}

	var wg sync.WaitGroup
	errs := make([]error, claimants)
	for i := range pending {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = claims.ApproveClaim(ctx, pending[i])
		}(i)
	}
	wg.Wait()

	var approved, conflicts int
	for _, err := range errs {
		switch err {
		case nil:
			approved++
		case storage.ErrConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, approved, "exactly one approval wins")
	assert.Equal(t, claimants-1, conflicts)

	stored, err := docs.GetDocumentByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusClaimed, stored.Status)
	require.NotNil(t, stored.ClaimedByID)

	// The winner's claimant is the one recorded on the document.
	var winner *models.ClaimRequest
	for i, claim := range pending {
		if errs[i] == nil {
			winner = claim
		}
	}
	require.NotNil(t, winner)
	assert.Equal(t, winner.ClaimantID, *stored.ClaimedByID)

	list, err := claims.GetClaimsByDocument(ctx, doc.ID)
	require.NoError(t, err)
	var approvedCount int
	for _, c := range list {
		if c.Status == models.ClaimStatusApproved {
			approvedCount++
		}
	}
	assert.Equal(t, 1, approvedCount)
}

func TestStatusWriteCannotRevertClaimedDocument(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryDocumentRepository()
	claims := NewMemoryClaimRepository(docs)
	doc := seedFound(t, docs)

	claim := &models.ClaimRequest{DocumentID: doc.ID, ClaimantID: 5, Status: models.ClaimStatusPending}
	require.NoError(t, claims.CreateClaim(ctx, claim))
	require.NoError(t, claims.ApproveClaim(ctx, claim))

	// A late status write must bounce off the claimed row instead of
	// clearing the status while claimed_by stays set.
	assert.ErrorIs(t, docs.SetStatus(ctx, doc.ID, models.DocumentStatusFound), storage.ErrInvalidState)
	assert.ErrorIs(t, docs.SetStatus(ctx, doc.ID, models.DocumentStatusLost), storage.ErrInvalidState)

	stored, err := docs.GetDocumentByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusClaimed, stored.Status)
	require.NotNil(t, stored.ClaimedByID)
	assert.Equal(t, uint(5), *stored.ClaimedByID)
}

func TestRejectedClaimantMayFileAgain(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryDocumentRepository()
	claims := NewMemoryClaimRepository(docs)
	doc := seedFound(t, docs)

	first := &models.ClaimRequest{DocumentID: doc.ID, ClaimantID: 5, Status: models.ClaimStatusPending}
	require.NoError(t, claims.CreateClaim(ctx, first))
	require.NoError(t, claims.RejectClaim(ctx, first))

	second := &models.ClaimRequest{DocumentID: doc.ID, ClaimantID: 5, Status: models.ClaimStatusPending}
	assert.NoError(t, claims.CreateClaim(ctx, second))

	count, err := claims.CountActiveClaims(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
