package quota

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"model3d-ai-api/internal/domain/entity"
	"model3d-ai-api/internal/domain/repository"
	apperrors "model3d-ai-api/pkg/errors"
)

// fakeUserRepo 以内存 map 模拟用户仓储的计费相关行为
type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id string) error         { return nil }
func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) AddTokens(ctx context.Context, id string, amount int) (int, error) {
	user, ok := r.users[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	user.TokenBalance += amount
	return user.TokenBalance, nil
}

func (r *fakeUserRepo) DeductTokens(ctx context.Context, id string, amount int) (int, error) {
	user, ok := r.users[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	if user.TokenBalance < amount {
		return 0, fmt.Errorf("insufficient token balance for user %s", id)
	}
	user.TokenBalance -= amount
	return user.TokenBalance, nil
}

func (r *fakeUserRepo) IncrementFreeGenerations(ctx context.Context, id string) (int, error) {
	user, ok := r.users[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	user.FreeGenerationsUsed++
	return user.FreeGenerationsUsed, nil
}

type fakeLedger struct {
	entries []*entity.TokenTransaction
	err     error
}

func (l *fakeLedger) Create(ctx context.Context, tx *entity.TokenTransaction) error {
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, tx)
	return nil
}

func (l *fakeLedger) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.TokenTransaction], error) {
	return repository.NewPagedResult(l.entries, int64(len(l.entries)), pagination), nil
}

func memberUser(id string, balance, freeUsed int) *entity.User {
	return &entity.User{
		ID:                  id,
		Email:               id + "@example.com",
		Role:                entity.UserRoleMember,
		TokenBalance:        balance,
		FreeGenerationsUsed: freeUsed,
	}
}

func TestGateCanAffordFreeAllowance(t *testing.T) {
	users := newFakeUserRepo(memberUser("u1", 0, 2))
	gate := NewGate(users, &fakeLedger{}, nil, nil, 5)

	assert.NoError(t, gate.CanAfford(context.Background(), "u1", FeatureGeneration))
}

func TestGateCanAffordInsufficientBalance(t *testing.T) {
	// 免费额度已用尽且余额不足
	users := newFakeUserRepo(memberUser("u1", 3, 5))
	gate := NewGate(users, &fakeLedger{}, nil, nil, 5)

	err := gate.CanAfford(context.Background(), "u1", FeatureGeneration)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientTokens)
}

func TestGateCanAffordAnonymousBypass(t *testing.T) {
	users := newFakeUserRepo()
	gate := NewGate(users, &fakeLedger{}, nil, nil, 5)

	// 未注册的会话用户没有用户记录，不计费
	assert.NoError(t, gate.CanAfford(context.Background(), "session-abc", FeatureGeneration))
}

func TestGateCanAffordZeroCostFeature(t *testing.T) {
	gate := NewGate(newFakeUserRepo(), &fakeLedger{}, nil, nil, 5)

	assert.NoError(t, gate.CanAfford(context.Background(), "u1", "unknown_feature"))
}

func TestGateChargeConsumesFreeAllowanceFirst(t *testing.T) {
	users := newFakeUserRepo(memberUser("u1", 100, 0))
	ledger := &fakeLedger{}
	gate := NewGate(users, ledger, nil, nil, 5)

	require.NoError(t, gate.Charge(context.Background(), "u1", FeatureGeneration))

	user := users.users["u1"]
	assert.Equal(t, 100, user.TokenBalance)
	assert.Equal(t, 1, user.FreeGenerationsUsed)
	require.Len(t, ledger.entries, 1)
	assert.Equal(t, entity.TokenTransactionTypeFree, ledger.entries[0].Type)
	assert.Equal(t, 0, ledger.entries[0].Amount)
}

func TestGateChargeDeductsAfterFreeAllowance(t *testing.T) {
	users := newFakeUserRepo(memberUser("u1", 100, 5))
	ledger := &fakeLedger{}
	gate := NewGate(users, ledger, nil, nil, 5)

	require.NoError(t, gate.Charge(context.Background(), "u1", FeatureGeneration))

	user := users.users["u1"]
	assert.Equal(t, 95, user.TokenBalance)
	require.Len(t, ledger.entries, 1)
	assert.Equal(t, entity.TokenTransactionTypeCharge, ledger.entries[0].Type)
	assert.Equal(t, -5, ledger.entries[0].Amount)
	assert.Equal(t, 95, ledger.entries[0].Balance)
}

func TestGateChargeInsufficientBalance(t *testing.T) {
	users := newFakeUserRepo(memberUser("u1", 3, 5))
	gate := NewGate(users, &fakeLedger{}, nil, nil, 5)

	err := gate.Charge(context.Background(), "u1", FeatureGeneration)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientTokens)
	assert.Equal(t, 3, users.users["u1"].TokenBalance)
}

func TestGateChargeAnonymousBypass(t *testing.T) {
	users := newFakeUserRepo()
	ledger := &fakeLedger{}
	gate := NewGate(users, ledger, nil, nil, 5)

	require.NoError(t, gate.Charge(context.Background(), "session-abc", FeatureGeneration))
	assert.Empty(t, ledger.entries)
}

func TestGateChargeCustomCosts(t *testing.T) {
	users := newFakeUserRepo(memberUser("u1", 100, 5))
	gate := NewGate(users, &fakeLedger{}, nil, map[string]int{FeatureGeneration: 12}, 5)

	require.NoError(t, gate.Charge(context.Background(), "u1", FeatureGeneration))
	assert.Equal(t, 88, users.users["u1"].TokenBalance)
}

func TestGateTopUp(t *testing.T) {
	users := newFakeUserRepo(memberUser("u1", 10, 0))
	ledger := &fakeLedger{}
	gate := NewGate(users, ledger, nil, nil, 5)

	balance, err := gate.TopUp(context.Background(), "u1", 50)
	require.NoError(t, err)
	assert.Equal(t, 60, balance)
	require.Len(t, ledger.entries, 1)
	assert.Equal(t, entity.TokenTransactionTypeTopUp, ledger.entries[0].Type)
	assert.Equal(t, 50, ledger.entries[0].Amount)
}

func TestGateTopUpRejectsNonPositive(t *testing.T) {
	gate := NewGate(newFakeUserRepo(), &fakeLedger{}, nil, nil, 5)

	_, err := gate.TopUp(context.Background(), "u1", 0)
	require.Error(t, err)
	_, err = gate.TopUp(context.Background(), "u1", -5)
	require.Error(t, err)
}

func TestGenerationGateDelegates(t *testing.T) {
	users := newFakeUserRepo(memberUser("u1", 0, 5))
	gate := NewGenerationGate(NewGate(users, &fakeLedger{}, nil, nil, 5))

	err := gate.Authorize(context.Background(), "u1")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientTokens)
}
