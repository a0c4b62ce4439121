package paymentterms

import (
	"context"
	"errors"
	"testing"

	"github.com/meridian-erp/meridian/internal/masterdata/shared"
)

type stubRepo struct {
	created []PaymentTermInput
}

func (s *stubRepo) List(context.Context, shared.ListFilters) ([]PaymentTerm, int, error) {
	return nil, 0, nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (PaymentTerm, error) {
	if int(id) > len(s.created) {
		return PaymentTerm{}, shared.ErrNotFound
	}
	in := s.created[id-1]
	return PaymentTerm{ID: id, Name: in.Name, Days: in.Days, Active: in.Active}, nil
}

func (s *stubRepo) Create(_ context.Context, in PaymentTermInput) (PaymentTerm, error) {
	s.created = append(s.created, in)
	return PaymentTerm{ID: int64(len(s.created)), Name: in.Name, Days: in.Days, Active: in.Active}, nil
}

func (s *stubRepo) Update(_ context.Context, id int64, in PaymentTermInput) (PaymentTerm, error) {
	return PaymentTerm{ID: id, Name: in.Name, Days: in.Days, Active: in.Active}, nil
}

func (s *stubRepo) Delete(context.Context, int64) error { return nil }

func TestImportRowsParsesDays(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	rows := [][]string{
		{"Net 30", "30"},
		{"Cash on delivery", "0", "false"},
	}
	n, err := svc.ImportRows(context.Background(), rows)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 || len(repo.created) != 2 {
		t.Fatalf("imported %d rows", n)
	}
	if repo.created[0].Days != 30 || !repo.created[0].Active {
		t.Fatalf("first row not parsed: %+v", repo.created[0])
	}
	if repo.created[1].Active {
		t.Fatalf("explicit active flag ignored: %+v", repo.created[1])
	}
}

func TestImportRowsRejectsBadDays(t *testing.T) {
	svc := NewService(&stubRepo{})
	_, err := svc.ImportRows(context.Background(), [][]string{{"Net 30", "thirty"}})
	if !errors.Is(err, shared.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestGetRejectsInvalidID(t *testing.T) {
	svc := NewService(&stubRepo{})
	if _, err := svc.Get(context.Background(), 0); !errors.Is(err, shared.ErrInvalidID) {
		t.Fatalf("err = %v, want invalid id", err)
	}
}
