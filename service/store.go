package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samukadias/contract-management-system/model"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// ContractStore persists contract records. All queries go through the
// caller's context so cancellation propagates to the database.
type ContractStore struct {
	db *gorm.DB
}

func NewContractStore(gormDB *gorm.DB) *ContractStore {
	return &ContractStore{db: gormDB}
}

// List returns every contract, newest first
func (s *ContractStore) List(ctx context.Context) ([]model.Contract, error) {
	var contracts []model.Contract
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&contracts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

// ListByCliente returns the contracts of one client, newest first.
// Used to scope CLIENTE accounts to their own records.
func (s *ContractStore) ListByCliente(ctx context.Context, cliente string) ([]model.Contract, error) {
	var contracts []model.Contract
	err := s.db.WithContext(ctx).
		Where("cliente = ?", cliente).
		Order("created_at DESC").
		Find(&contracts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts for cliente: %w", err)
	}
	return contracts, nil
}

func (s *ContractStore) Get(ctx context.Context, id string) (*model.Contract, error) {
	var contract model.Contract
	err := s.db.WithContext(ctx).First(&contract, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return &contract, nil
}

// Create assigns an id and default status before inserting
func (s *ContractStore) Create(ctx context.Context, contract *model.Contract) error {
	if contract.ID == "" {
		contract.ID = uuid.New().String()
	}
	if contract.Status == "" {
		contract.Status = model.StatusAtivo
	}
	if err := s.db.WithContext(ctx).Create(contract).Error; err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

func (s *ContractStore) Update(ctx context.Context, contract *model.Contract) error {
	if err := s.db.WithContext(ctx).Save(contract).Error; err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	return nil
}

func (s *ContractStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&model.Contract{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete contract: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkCreate inserts the contracts from a CSV import in one transaction.
// Returns the number of inserted records.
func (s *ContractStore) BulkCreate(ctx context.Context, contracts []model.Contract) (int, error) {
	if len(contracts) == 0 {
		return 0, nil
	}
	for i := range contracts {
		if contracts[i].ID == "" {
			contracts[i].ID = uuid.New().String()
		}
		if contracts[i].Status == "" {
			contracts[i].Status = model.StatusAtivo
		}
	}
	if err := s.db.WithContext(ctx).Create(&contracts).Error; err != nil {
		return 0, fmt.Errorf("failed to bulk create contracts: %w", err)
	}
	return len(contracts), nil
}

// TermoStore persists confirmation-term records
type TermoStore struct {
	db *gorm.DB
}

func NewTermoStore(gormDB *gorm.DB) *TermoStore {
	return &TermoStore{db: gormDB}
}

func (s *TermoStore) List(ctx context.Context) ([]model.TermoConfirmacao, error) {
	var termos []model.TermoConfirmacao
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&termos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list termos: %w", err)
	}
	return termos, nil
}

func (s *TermoStore) Get(ctx context.Context, id string) (*model.TermoConfirmacao, error) {
	var termo model.TermoConfirmacao
	err := s.db.WithContext(ctx).First(&termo, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get termo: %w", err)
	}
	return &termo, nil
}

func (s *TermoStore) Create(ctx context.Context, termo *model.TermoConfirmacao) error {
	if termo.ID == "" {
		termo.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(termo).Error; err != nil {
		return fmt.Errorf("failed to create termo: %w", err)
	}
	return nil
}

func (s *TermoStore) Update(ctx context.Context, termo *model.TermoConfirmacao) error {
	if err := s.db.WithContext(ctx).Save(termo).Error; err != nil {
		return fmt.Errorf("failed to update termo: %w", err)
	}
	return nil
}

func (s *TermoStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&model.TermoConfirmacao{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete termo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UserStore persists user accounts
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(gormDB *gorm.DB) *UserStore {
	return &UserStore{db: gormDB}
}

func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail looks a user up for login. Returns ErrNotFound for unknown
// emails so the handler can answer with a uniform credential error.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
