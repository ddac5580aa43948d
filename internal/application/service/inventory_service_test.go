package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invstore/inventory-approval/internal/domain/apperror"
	"github.com/invstore/inventory-approval/internal/domain/entity"
	"github.com/invstore/inventory-approval/internal/domain/fingerprint"
	"github.com/invstore/inventory-approval/internal/domain/workflow"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

// Mock item repository
type mockItemRepo struct {
	createFunc              func(ctx context.Context, item *entity.InventoryItem) error
	existsBySKUFunc         func(ctx context.Context, sku string) (bool, error)
	getByIDFunc             func(ctx context.Context, id int64) (*entity.InventoryItem, error)
	listByStatusFunc        func(ctx context.Context, status workflow.Status) ([]*entity.InventoryItem, error)
	listPendingFoldFunc     func(ctx context.Context) ([]*entity.InventoryItem, error)
	listRecentFunc          func(ctx context.Context, limit int) ([]*entity.InventoryItem, error)
	listRecentByCreatorFunc func(ctx context.Context, createdBy string, limit int) ([]*entity.InventoryItem, error)
	listAllByCreatorFunc    func(ctx context.Context, createdBy string) ([]*entity.InventoryItem, error)
	listPageFunc            func(ctx context.Context, status workflow.Status, limit, offset int) ([]*entity.InventoryItem, int64, error)
	updateDecisionFunc      func(ctx context.Context, item *entity.InventoryItem, expectedRevision int64) error
}

func (m *mockItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, item)
	}
	item.ID = 1
	return nil
}

func (m *mockItemRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	if m.existsBySKUFunc != nil {
		return m.existsBySKUFunc(ctx, sku)
	}
	return false, nil
}

func (m *mockItemRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockItemRepo) ListByStatus(ctx context.Context, status workflow.Status) ([]*entity.InventoryItem, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status)
	}
	return nil, nil
}

func (m *mockItemRepo) ListPendingFold(ctx context.Context) ([]*entity.InventoryItem, error) {
	if m.listPendingFoldFunc != nil {
		return m.listPendingFoldFunc(ctx)
	}
	return nil, nil
}

func (m *mockItemRepo) ListRecent(ctx context.Context, limit int) ([]*entity.InventoryItem, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockItemRepo) ListRecentByCreator(ctx context.Context, createdBy string, limit int) ([]*entity.InventoryItem, error) {
	if m.listRecentByCreatorFunc != nil {
		return m.listRecentByCreatorFunc(ctx, createdBy, limit)
	}
	return nil, nil
}

func (m *mockItemRepo) ListAllByCreator(ctx context.Context, createdBy string) ([]*entity.InventoryItem, error) {
	if m.listAllByCreatorFunc != nil {
		return m.listAllByCreatorFunc(ctx, createdBy)
	}
	return nil, nil
}

func (m *mockItemRepo) ListPage(ctx context.Context, status workflow.Status, limit, offset int) ([]*entity.InventoryItem, int64, error) {
	if m.listPageFunc != nil {
		return m.listPageFunc(ctx, status, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockItemRepo) UpdateDecision(ctx context.Context, item *entity.InventoryItem, expectedRevision int64) error {
	if m.updateDecisionFunc != nil {
		return m.updateDecisionFunc(ctx, item, expectedRevision)
	}
	item.Revision = expectedRevision + 1
	return nil
}

func price(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func intPtr(v int) *int { return &v }

func validInput(t *testing.T) CreateItemInput {
	return CreateItemInput{
		SKU:       "A-1",
		Name:      "Widget",
		Quantity:  intPtr(5),
		UnitPrice: price(t, "10.00"),
	}
}

func pendingItem(t *testing.T) *entity.InventoryItem {
	up := price(t, "10.00")
	item := &entity.InventoryItem{
		ID:        7,
		SKU:       "A-1",
		Name:      "Widget",
		Quantity:  5,
		UnitPrice: *up,
		Status:    workflow.StatusPending,
		CreatedBy: "maker1",
		CreatedAt: time.Now().Add(-time.Hour),
		Revision:  1,
	}
	item.Fingerprint = fingerprint.Compute(
		item.SKU, item.Name, item.Quantity, item.UnitPrice,
		item.Description, item.Category, item.Location,
	)
	return item
}

func newTestService(repo *mockItemRepo) InventoryService {
	return NewInventoryService(repo, nopLogger{})
}

func TestCreateItem_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *CreateItemInput)
	}{
		{"blank sku", func(in *CreateItemInput) { in.SKU = "  " }},
		{"blank name", func(in *CreateItemInput) { in.Name = "" }},
		{"missing quantity", func(in *CreateItemInput) { in.Quantity = nil }},
		{"negative quantity", func(in *CreateItemInput) { in.Quantity = intPtr(-1) }},
		{"missing price", func(in *CreateItemInput) { in.UnitPrice = nil }},
		{"negative price", func(in *CreateItemInput) { in.UnitPrice = price(t, "-0.01") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&mockItemRepo{})
			input := validInput(t)
			tt.mutate(&input)

			_, err := svc.CreateItem(context.Background(), input, "maker1")
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestCreateItem_DuplicateSKU(t *testing.T) {
	repo := &mockItemRepo{
		existsBySKUFunc: func(ctx context.Context, sku string) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.CreateItem(context.Background(), validInput(t), "maker1")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateItem_Success(t *testing.T) {
	var persisted *entity.InventoryItem
	repo := &mockItemRepo{
		createFunc: func(ctx context.Context, item *entity.InventoryItem) error {
			item.ID = 42
			persisted = item
			return nil
		},
	}
	svc := newTestService(repo)

	input := validInput(t)
	input.SKU = "  A-1 "
	input.Description = " left over stock "

	item, err := svc.CreateItem(context.Background(), input, "maker1")
	require.NoError(t, err)
	require.NotNil(t, persisted)

	assert.Equal(t, int64(42), item.ID)
	assert.Equal(t, "A-1", item.SKU, "sku is trimmed")
	assert.Equal(t, "left over stock", item.Description)
	assert.Equal(t, workflow.StatusPending, item.Status)
	assert.Equal(t, "maker1", item.CreatedBy)
	assert.Equal(t, int64(1), item.Revision)
	assert.Empty(t, item.DecidedBy)
	assert.Nil(t, item.DecidedAt)

	want := fingerprint.Compute("A-1", "Widget", 5, *price(t, "10.00"), "left over stock", "", "")
	assert.Equal(t, want, item.Fingerprint)
}

func TestCreateItem_BlankIdentityFallsBackToSystem(t *testing.T) {
	svc := newTestService(&mockItemRepo{})

	item, err := svc.CreateItem(context.Background(), validInput(t), "   ")
	require.NoError(t, err)
	assert.Equal(t, SystemIdentity, item.CreatedBy)
}

func TestApprove_Success(t *testing.T) {
	stored := pendingItem(t)
	originalFingerprint := stored.Fingerprint

	var gotRevision int64
	repo := &mockItemRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.InventoryItem, error) {
			return stored, nil
		},
		updateDecisionFunc: func(ctx context.Context, item *entity.InventoryItem, expectedRevision int64) error {
			gotRevision = expectedRevision
			item.Revision = expectedRevision + 1
			return nil
		},
	}
	svc := newTestService(repo)

	item, err := svc.Approve(context.Background(), 7, "checker1")
	require.NoError(t, err)

	assert.Equal(t, workflow.StatusApproved, item.Status)
	assert.Equal(t, "checker1", item.DecidedBy)
	require.NotNil(t, item.DecidedAt)
	assert.Equal(t, originalFingerprint, item.Fingerprint, "untampered record keeps its fingerprint")
	assert.Equal(t, int64(1), gotRevision, "write carries the revision read at load time")
	assert.Equal(t, int64(2), item.Revision)
}

func TestReject_Success(t *testing.T) {
	repo := &mockItemRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.InventoryItem, error) {
			return pendingItem(t), nil
		},
	}
	svc := newTestService(repo)

	item, err := svc.Reject(context.Background(), 7, "checker1")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusRejected, item.Status)
	assert.Equal(t, "checker1", item.DecidedBy)
}

func TestDecide_NotFound(t *testing.T) {
	svc := newTestService(&mockItemRepo{})

	_, err := svc.Approve(context.Background(), 99, "checker1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDecide_AlreadyDecided(t *testing.T) {
	decided := pendingItem(t)
	decided.Status = workflow.StatusApproved
	decided.DecidedBy = "checker1"

	repo := &mockItemRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.InventoryItem, error) {
			return decided, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Reject(context.Background(), 7, "checker2")
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	assert.Equal(t, "checker1", decided.DecidedBy, "decision fields stay untouched")
}

func TestDecide_HealsTamperedFingerprint(t *testing.T) {
	// The record's fields were mutated after proposal: the stored
	// fingerprint no longer matches. The decision proceeds and the stored
	// fingerprint is overwritten with the recomputation.
	stored := pendingItem(t)
	stored.Fingerprint = "0000000000000000000000000000000000000000000000000000000000000000"

	repo := &mockItemRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.InventoryItem, error) {
			return stored, nil
		},
	}
	svc := newTestService(repo)

	item, err := svc.Approve(context.Background(), 7, "checker1")
	require.NoError(t, err)

	want := fingerprint.Compute(
		stored.SKU, stored.Name, stored.Quantity, stored.UnitPrice,
		stored.Description, stored.Category, stored.Location,
	)
	assert.Equal(t, want, item.Fingerprint)
	assert.Equal(t, workflow.StatusApproved, item.Status)
}

func TestDecide_AdoptsMissingFingerprint(t *testing.T) {
	stored := pendingItem(t)
	stored.Fingerprint = ""

	repo := &mockItemRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.InventoryItem, error) {
			return stored, nil
		},
	}
	svc := newTestService(repo)

	item, err := svc.Approve(context.Background(), 7, "checker1")
	require.NoError(t, err)
	assert.NotEmpty(t, item.Fingerprint)
}

func TestDecide_ConcurrentModification(t *testing.T) {
	repo := &mockItemRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.InventoryItem, error) {
			return pendingItem(t), nil
		},
		updateDecisionFunc: func(ctx context.Context, item *entity.InventoryItem, expectedRevision int64) error {
			return apperror.ErrConcurrentModification
		},
	}
	svc := newTestService(repo)

	_, err := svc.Approve(context.Background(), 7, "checker1")
	assert.ErrorIs(t, err, apperror.ErrConcurrentModification)
}

func TestListPending_FallsBackToCaseInsensitiveScan(t *testing.T) {
	legacy := pendingItem(t)
	legacy.Status = workflow.Status("pending")

	foldCalled := false
	repo := &mockItemRepo{
		listByStatusFunc: func(ctx context.Context, status workflow.Status) ([]*entity.InventoryItem, error) {
			return nil, nil
		},
		listPendingFoldFunc: func(ctx context.Context) ([]*entity.InventoryItem, error) {
			foldCalled = true
			return []*entity.InventoryItem{legacy}, nil
		},
	}
	svc := newTestService(repo)

	items, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.True(t, foldCalled)
	require.Len(t, items, 1)
}

func TestListPending_PrimaryHitSkipsFallback(t *testing.T) {
	repo := &mockItemRepo{
		listByStatusFunc: func(ctx context.Context, status workflow.Status) ([]*entity.InventoryItem, error) {
			return []*entity.InventoryItem{pendingItem(t)}, nil
		},
		listPendingFoldFunc: func(ctx context.Context) ([]*entity.InventoryItem, error) {
			t.Fatal("fallback must not run when the primary lookup matched")
			return nil, nil
		},
	}
	svc := newTestService(repo)

	items, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestListByCreator_BlankIdentityYieldsEmpty(t *testing.T) {
	repo := &mockItemRepo{
		listAllByCreatorFunc: func(ctx context.Context, createdBy string) ([]*entity.InventoryItem, error) {
			t.Fatal("repository must not be queried for a blank identity")
			return nil, nil
		},
		listRecentByCreatorFunc: func(ctx context.Context, createdBy string, limit int) ([]*entity.InventoryItem, error) {
			t.Fatal("repository must not be queried for a blank identity")
			return nil, nil
		},
	}
	svc := newTestService(repo)

	for _, identity := range []string{"", "   "} {
		items, err := svc.ListAllByCreator(context.Background(), identity)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)

		items, err = svc.ListRecentByCreator(context.Background(), identity)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	}
}

func TestListRecent_UsesDefaultLimit(t *testing.T) {
	var gotLimit int
	repo := &mockItemRepo{
		listRecentFunc: func(ctx context.Context, limit int) ([]*entity.InventoryItem, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := newTestService(repo)

	items, err := svc.ListRecent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, gotLimit)
	assert.NotNil(t, items, "empty listing is a sequence, not an error")
}

// Full maker/checker walkthrough: create, approve, then a second decision
// attempt fails.
func TestApprovalScenario(t *testing.T) {
	var store *entity.InventoryItem
	repo := &mockItemRepo{
		createFunc: func(ctx context.Context, item *entity.InventoryItem) error {
			item.ID = 1
			store = item
			return nil
		},
		getByIDFunc: func(ctx context.Context, id int64) (*entity.InventoryItem, error) {
			return store, nil
		},
		updateDecisionFunc: func(ctx context.Context, item *entity.InventoryItem, expectedRevision int64) error {
			if store.Revision != expectedRevision {
				return apperror.ErrConcurrentModification
			}
			item.Revision = expectedRevision + 1
			store = item
			return nil
		},
	}
	svc := newTestService(repo)

	created, err := svc.CreateItem(context.Background(), validInput(t), "maker1")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPending, created.Status)
	fp := created.Fingerprint

	approved, err := svc.Approve(context.Background(), 1, "checker1")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusApproved, approved.Status)
	assert.Equal(t, "checker1", approved.DecidedBy)
	assert.Equal(t, fp, approved.Fingerprint)

	_, err = svc.Reject(context.Background(), 1, "checker2")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}
