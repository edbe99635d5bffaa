package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/villageflow/villageflow-api/internal/dto"
	"github.com/villageflow/villageflow-api/internal/models"
)

type assetRepoStub struct {
	assets map[string]*models.Asset
}

func newAssetRepoStub() *assetRepoStub {
	return &assetRepoStub{assets: make(map[string]*models.Asset)}
}

func (r *assetRepoStub) Create(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = "asset-" + asset.ItemName
	}
	r.assets[asset.ID] = asset
	return nil
}

func (r *assetRepoStub) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	if asset, ok := r.assets[id]; ok {
		copy := *asset
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r *assetRepoStub) List(ctx context.Context) ([]models.Asset, error) {
	result := make([]models.Asset, 0, len(r.assets))
	for _, asset := range r.assets {
		result = append(result, *asset)
	}
	return result, nil
}

func (r *assetRepoStub) Update(ctx context.Context, asset *models.Asset) error {
	r.assets[asset.ID] = asset
	return nil
}

func (r *assetRepoStub) Delete(ctx context.Context, id string) error {
	delete(r.assets, id)
	return nil
}

func TestHealthScore(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, -1, 0)
	stale := now.AddDate(0, -8, 0)

	cases := []struct {
		name     string
		asset    models.Asset
		expected int
	}{
		{"good and recently serviced", models.Asset{Condition: models.ConditionGood, LastServiceDate: recent}, 100},
		{"good but overdue", models.Asset{Condition: models.ConditionGood, LastServiceDate: stale}, 70},
		{"damaged", models.Asset{Condition: models.ConditionDamaged, LastServiceDate: recent}, 50},
		{"needs repair and overdue", models.Asset{Condition: models.ConditionNeedRepair, LastServiceDate: stale}, 30},
		{"damaged and overdue floors at ten", models.Asset{Condition: models.ConditionDamaged, LastServiceDate: stale}, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, HealthScore(&tc.asset, now))
		})
	}
}

func TestAssetServiceCreateComputesScore(t *testing.T) {
	repo := newAssetRepoStub()
	svc := NewAssetService(repo, &auditRecorderStub{}, nil, nil)

	asset, err := svc.Create(context.Background(), dto.CreateAssetRequest{
		ItemName:        "Water pump",
		Quantity:        2,
		Condition:       models.ConditionNeedRepair,
		LastServiceDate: time.Now().UTC().AddDate(0, -1, 0),
	}, officerClaims())
	require.NoError(t, err)
	require.Equal(t, 60, asset.HealthScore)
	require.Equal(t, "officer-1", asset.CreatedBy)
}

func TestAssetServiceOfficerOnly(t *testing.T) {
	svc := NewAssetService(newAssetRepoStub(), &auditRecorderStub{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateAssetRequest{
		ItemName:        "Chairs",
		Quantity:        20,
		Condition:       models.ConditionGood,
		LastServiceDate: time.Now().UTC(),
	}, citizenClaims())
	require.Error(t, err)

	_, err = svc.List(context.Background(), citizenClaims())
	require.Error(t, err)
}
