package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"evac-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type mockResidentRepo struct {
	residents map[int]*models.Resident
}

func (m *mockResidentRepo) Get(_ context.Context, id int) (*models.Resident, error) {
	if r, ok := m.residents[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockResidentRepo) Update(_ context.Context, res *models.Resident) error {
	if _, ok := m.residents[res.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *res
	m.residents[res.ID] = &copied
	return nil
}

func setupResidentService() (*ResidentService, *mockResidentRepo, *mockCache) {
	suffix := "Jr."
	repo := &mockResidentRepo{residents: map[int]*models.Resident{
		100: {
			ID: 100, FirstName: "Juan", LastName: "Dela Cruz", Suffix: &suffix,
			Birthdate: time.Date(1990, 3, 20, 0, 0, 0, 0, time.UTC),
			Sex:       "Male", BarangayOfOriginID: 4,
		},
	}}
	store := &mockCache{}
	return NewResidentService(repo, store, zap.NewNop()), repo, store
}

func TestResidentService_Update(t *testing.T) {
	svc, repo, store := setupResidentService()

	blank := ""
	res, err := svc.Update(context.Background(), 100, &UpdateResidentRequest{
		FirstName:          "Juanito",
		LastName:           "Dela Cruz",
		Suffix:             &blank,
		Birthdate:          "1990-03-21",
		Sex:                "Male",
		BarangayOfOriginID: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FirstName != "Juanito" || res.BarangayOfOriginID != 7 {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Suffix != nil {
		t.Error("blank suffix must normalize to nil")
	}
	if stored := repo.residents[100]; stored.FirstName != "Juanito" {
		t.Error("expected the repository row to be rewritten")
	}
	if store.invalidates != 1 {
		t.Errorf("expected 1 cache invalidation, got %d", store.invalidates)
	}
}

func TestResidentService_Update_Validation(t *testing.T) {
	svc, _, _ := setupResidentService()
	ctx := context.Background()

	_, err := svc.Update(ctx, 100, &UpdateResidentRequest{LastName: "X", Sex: "Male", Birthdate: "1990-01-01"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = svc.Update(ctx, 100, &UpdateResidentRequest{FirstName: "A", LastName: "B", Sex: "Male", Birthdate: "not-a-date"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = svc.Update(ctx, 999, &UpdateResidentRequest{FirstName: "A", LastName: "B", Sex: "Male", Birthdate: "1990-01-01"})
	assertStatus(t, err, http.StatusNotFound)
}

func TestResidentService_Get_NotFound(t *testing.T) {
	svc, _, _ := setupResidentService()

	_, err := svc.Get(context.Background(), 999)
	assertStatus(t, err, http.StatusNotFound)
}
