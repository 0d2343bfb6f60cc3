package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository implementations mirroring the database-level
// constraint semantics (unique pending claim, conditional document update).
// Used by unit tests and local development without a database.

// MemoryUserRepository is an in-memory UserRepository
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[uint]models.User
	nextID uint
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uint]models.User), nextID: 1}
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.users {
		if u.Email == user.Email {
			return storage.ErrConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *MemoryUserRepository) GetUsers(_ context.Context, role, status string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []models.User
	for _, u := range r.users {
		if role != "" && u.Role != role {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (r *MemoryUserRepository) UpdateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) ArchiveUser(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.Status = models.UserStatusArchived
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

// MemoryDocumentRepository is an in-memory DocumentRepository
type MemoryDocumentRepository struct {
	mu     sync.RWMutex
	docs   map[uint]models.DocumentReport
	nextID uint
}

func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{docs: make(map[uint]models.DocumentReport), nextID: 1}
}

func (r *MemoryDocumentRepository) CreateDocument(_ context.Context, doc *models.DocumentReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.ID = r.nextID
	r.nextID++
	if doc.Status == "" {
		doc.Status = models.DocumentStatusLost
	}
	if doc.ReportDate.IsZero() {
		doc.ReportDate = time.Now()
	}
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	r.docs[doc.ID] = *doc
	return nil
}

func (r *MemoryDocumentRepository) GetDocumentByID(_ context.Context, id uint) (*models.DocumentReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &d, nil
}

func (r *MemoryDocumentRepository) GetDocuments(_ context.Context, filter models.DocumentFilter, page, limit int) ([]models.DocumentReport, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var docs []models.DocumentReport
	for _, d := range r.docs {
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.DocumentType != "" && d.DocumentType != filter.DocumentType {
			continue
		}
		if filter.StartDate != nil && (d.DateLost == nil || d.DateLost.Before(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && (d.DateLost == nil || d.DateLost.After(*filter.EndDate)) {
			continue
		}
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ReportDate.After(docs[j].ReportDate) })
	total := int64(len(docs))
	start := (page - 1) * limit
	if start > len(docs) {
		start = len(docs)
	}
	end := start + limit
	if end > len(docs) {
		end = len(docs)
	}
	return docs[start:end], total, nil
}

func (r *MemoryDocumentRepository) UpdateDocument(_ context.Context, doc *models.DocumentReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return storage.ErrNotFound
	}
	doc.UpdatedAt = time.Now()
	r.docs[doc.ID] = *doc
	return nil
}

func (r *MemoryDocumentRepository) DeleteDocument(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *MemoryDocumentRepository) SetStatus(_ context.Context, id uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return storage.ErrNotFound
	}
	// Claimed rows are immutable here, matching the conditional update in
	// the Postgres implementation.
	if d.Status == models.DocumentStatusClaimed {
		return storage.ErrInvalidState
	}
	d.Status = status
	d.UpdatedAt = time.Now()
	r.docs[id] = d
	return nil
}

// claimDocument is the conditional update backing MemoryClaimRepository's
// approve path. Returns false when the document is already claimed.
func (r *MemoryDocumentRepository) claimDocument(id, claimantID uint, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return false, storage.ErrNotFound
	}
	if d.Status == models.DocumentStatusClaimed {
		return false, nil
	}
	d.Status = models.DocumentStatusClaimed
	d.ClaimedByID = &claimantID
	d.ClaimedAt = &at
	d.UpdatedAt = at
	r.docs[id] = d
	return true, nil
}

// MemoryClaimRepository is an in-memory ClaimRepository. It shares the
// document store so approvals update the claim and the document as a unit,
// matching the Postgres transaction.
type MemoryClaimRepository struct {
	mu     sync.Mutex
	claims map[uint]models.ClaimRequest
	docs   *MemoryDocumentRepository
	nextID uint
}

func NewMemoryClaimRepository(docs *MemoryDocumentRepository) *MemoryClaimRepository {
	return &MemoryClaimRepository{claims: make(map[uint]models.ClaimRequest), docs: docs, nextID: 1}
}

func (r *MemoryClaimRepository) CreateClaim(_ context.Context, claim *models.ClaimRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.claims {
		if c.DocumentID == claim.DocumentID && c.ClaimantID == claim.ClaimantID && c.Status == models.ClaimStatusPending {
			return storage.ErrConflict
		}
	}
	claim.ID = r.nextID
	r.nextID++
	if claim.Status == "" {
		claim.Status = models.ClaimStatusPending
	}
	claim.CreatedAt = time.Now()
	claim.UpdatedAt = claim.CreatedAt
	r.claims[claim.ID] = *claim
	return nil
}

func (r *MemoryClaimRepository) GetClaimByID(_ context.Context, id uint) (*models.ClaimRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (r *MemoryClaimRepository) GetClaimsByDocument(_ context.Context, documentID uint) ([]models.ClaimRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claims []models.ClaimRequest
	for _, c := range r.claims {
		if c.DocumentID == documentID {
			claims = append(claims, c)
		}
	}
	sort.Slice(claims, func(i, j int) bool {
		if claims[i].CreatedAt.Equal(claims[j].CreatedAt) {
			return claims[i].ID > claims[j].ID
		}
		return claims[i].CreatedAt.After(claims[j].CreatedAt)
	})
	return claims, nil
}

func (r *MemoryClaimRepository) HasPendingClaim(_ context.Context, documentID, claimantID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.claims {
		if c.DocumentID == documentID && c.ClaimantID == claimantID && c.Status == models.ClaimStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryClaimRepository) CountActiveClaims(_ context.Context, documentID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.claims {
		if c.DocumentID == documentID && c.Status != models.ClaimStatusRejected {
			count++
		}
	}
	return count, nil
}

func (r *MemoryClaimRepository) ApproveClaim(_ context.Context, claim *models.ClaimRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.claims[claim.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if stored.Status != models.ClaimStatusPending {
		return storage.ErrInvalidState
	}
	now := time.Now()
	claimed, err := r.docs.claimDocument(stored.DocumentID, stored.ClaimantID, now)
	if err != nil {
		return err
	}
	if !claimed {
		return storage.ErrConflict
	}
	stored.Status = models.ClaimStatusApproved
	stored.UpdatedAt = now
	r.claims[claim.ID] = stored
	claim.Status = models.ClaimStatusApproved
	claim.UpdatedAt = now
	return nil
}

func (r *MemoryClaimRepository) RejectClaim(_ context.Context, claim *models.ClaimRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.claims[claim.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if stored.Status != models.ClaimStatusPending {
		return storage.ErrInvalidState
	}
	now := time.Now()
	stored.Status = models.ClaimStatusRejected
	stored.UpdatedAt = now
	r.claims[claim.ID] = stored
	claim.Status = models.ClaimStatusRejected
	claim.UpdatedAt = now
	return nil
}

// MemoryNotificationRepository is an in-memory NotificationRepository
type MemoryNotificationRepository struct {
	mu            sync.Mutex
	notifications map[uint]models.Notification
	nextID        uint
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{notifications: make(map[uint]models.Notification), nextID: 1}
}

func (r *MemoryNotificationRepository) CreateNotification(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = r.nextID
	r.nextID++
	n.CreatedAt = time.Now()
	r.notifications[n.ID] = *n
	return nil
}

func (r *MemoryNotificationRepository) GetNotificationByID(_ context.Context, id uint) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &n, nil
}

func (r *MemoryNotificationRepository) GetByUserID(_ context.Context, userID uint) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *MemoryNotificationRepository) GetUnreadCount(_ context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *MemoryNotificationRepository) MarkAsRead(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return storage.ErrNotFound
	}
	n.IsRead = true
	r.notifications[id] = n
	return nil
}

func (r *MemoryNotificationRepository) MarkAllAsRead(_ context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var modified int64
	for id, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			r.notifications[id] = n
			modified++
		}
	}
	return modified, nil
}

// MemoryActivityLogRepository is an in-memory ActivityLogRepository
type MemoryActivityLogRepository struct {
	mu   sync.Mutex
	logs []models.ActivityLog
}

func NewMemoryActivityLogRepository() *MemoryActivityLogRepository {
	return &MemoryActivityLogRepository{}
}

func (r *MemoryActivityLogRepository) InsertLog(_ context.Context, entry *models.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	r.logs = append(r.logs, *entry)
	return nil
}

func (r *MemoryActivityLogRepository) GetLogsByUser(_ context.Context, userID uint, limit int64) ([]models.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ActivityLog
	for i := len(r.logs) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.logs[i].UserID != nil && *r.logs[i].UserID == userID {
			out = append(out, r.logs[i])
		}
	}
	return out, nil
}
