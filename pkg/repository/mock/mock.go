package mock

import (
	"context"

	"github.com/aiktc/portal/pkg/models"
	"github.com/aiktc/portal/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	IdentRepo *mockIdentityRepo
	ProfRepo  *mockProfileRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		IdentRepo: &mockIdentityRepo{},
		ProfRepo:  &mockProfileRepo{},
	}
}

type mockIdentityRepo struct {
	Stored    *models.Identity
	CreateErr error
}

var _ repository.IdentityRepo = (*mockIdentityRepo)(nil)

func (m *mockIdentityRepo) CreateIdentity(ctx context.Context, ident *models.Identity) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if m.Stored != nil && m.Stored.Email == ident.Email {
		return repository.ErrConflict
	}
	cp := *ident
	m.Stored = &cp
	return nil
}

func (m *mockIdentityRepo) GetIdentity(ctx context.Context, id string) (*models.Identity, error) {
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *mockIdentityRepo) GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error) {
	if m.Stored != nil && m.Stored.Email == email {
		return m.Stored, nil
	}
	return nil, nil
}

type mockProfileRepo struct {
	Stored    *models.Profile
	CreateErr error
	UpsertErr error
	GetErr    error
}

var _ repository.ProfileRepo = (*mockProfileRepo)(nil)

func (m *mockProfileRepo) CreateProfile(ctx context.Context, p *models.Profile) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if m.Stored != nil && m.Stored.ID == p.ID {
		return repository.ErrConflict
	}
	cp := *p
	m.Stored = &cp
	return nil
}

func (m *mockProfileRepo) UpsertProfile(ctx context.Context, p *models.Profile) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	cp := *p
	m.Stored = &cp
	return nil
}

func (m *mockProfileRepo) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}
