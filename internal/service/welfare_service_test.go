package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/villageflow/villageflow-api/internal/dto"
	"github.com/villageflow/villageflow-api/internal/models"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
)

type welfareRepoStub struct {
	byID   map[string]*models.WelfareBeneficiary
	filter models.WelfareFilter
}

func newWelfareRepoStub() *welfareRepoStub {
	return &welfareRepoStub{byID: make(map[string]*models.WelfareBeneficiary)}
}

func (r *welfareRepoStub) Create(ctx context.Context, b *models.WelfareBeneficiary) error {
	if b.ID == "" {
		b.ID = "wf-" + b.NIC
	}
	r.byID[b.ID] = b
	return nil
}

func (r *welfareRepoStub) GetByID(ctx context.Context, id string) (*models.WelfareBeneficiary, error) {
	if b, ok := r.byID[id]; ok {
		copy := *b
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r *welfareRepoStub) FindByNICAndScheme(ctx context.Context, nic string, scheme models.WelfareScheme) (*models.WelfareBeneficiary, error) {
	for _, b := range r.byID {
		if b.NIC == nic && b.Scheme == scheme {
			return b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *welfareRepoStub) List(ctx context.Context, filter models.WelfareFilter) ([]models.WelfareBeneficiary, error) {
	r.filter = filter
	result := make([]models.WelfareBeneficiary, 0, len(r.byID))
	for _, b := range r.byID {
		result = append(result, *b)
	}
	return result, nil
}

func (r *welfareRepoStub) Update(ctx context.Context, b *models.WelfareBeneficiary) error {
	r.byID[b.ID] = b
	return nil
}

func (r *welfareRepoStub) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func TestWelfareServiceApply(t *testing.T) {
	repo := newWelfareRepoStub()
	audit := &auditRecorderStub{}
	svc := NewWelfareService(repo, audit, nil, nil)

	b, err := svc.Apply(context.Background(), dto.CreateWelfareRequest{
		FullName:    "Kamala Perera",
		NIC:         "575678901v",
		HouseholdNo: "HH-42",
		Scheme:      models.SchemeSamurdhi,
	}, citizenClaims())
	require.NoError(t, err)
	require.Equal(t, models.WelfareActive, b.Status)
	require.Equal(t, "575678901V", b.NIC)
	require.Len(t, audit.entries, 1)

	// same NIC and scheme is a conflict
	_, err = svc.Apply(context.Background(), dto.CreateWelfareRequest{
		FullName:    "Kamala Perera",
		NIC:         "575678901V",
		HouseholdNo: "HH-42",
		Scheme:      models.SchemeSamurdhi,
	}, citizenClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestWelfareServiceListOfficerOnly(t *testing.T) {
	repo := newWelfareRepoStub()
	svc := NewWelfareService(repo, &auditRecorderStub{}, nil, nil)

	_, err := svc.List(context.Background(), dto.WelfareQuery{MaxIncome: 30000}, citizenClaims())
	require.Error(t, err)

	_, err = svc.List(context.Background(), dto.WelfareQuery{MaxIncome: 30000}, officerClaims())
	require.NoError(t, err)
	require.Equal(t, int64(30000), repo.filter.MaxIncome)
}

func TestWelfareServiceUpdateStatus(t *testing.T) {
	repo := newWelfareRepoStub()
	repo.byID["wf-1"] = &models.WelfareBeneficiary{
		ID: "wf-1", NIC: "575678901V", Scheme: models.SchemeAswasuma, Status: models.WelfareActive,
	}
	svc := NewWelfareService(repo, &auditRecorderStub{}, nil, nil)

	inactive := models.WelfareInactive
	amount := int64(7500)
	b, err := svc.Update(context.Background(), "wf-1", dto.UpdateWelfareRequest{
		Amount: &amount,
		Status: &inactive,
	}, officerClaims())
	require.NoError(t, err)
	require.Equal(t, models.WelfareInactive, b.Status)
	require.Equal(t, int64(7500), b.Amount)
}
