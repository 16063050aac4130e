package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type linkKey struct{ caretaker, patient uuid.UUID }

type mockRepo struct {
	reports []*Report
	links   map[linkKey]bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{links: make(map[linkKey]bool)}
}

func (m *mockRepo) Insert(ctx context.Context, r *Report) error {
	r.ID = uuid.New()
	r.DateCreated = time.Now()
	m.reports = append(m.reports, r)
	return nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, reportType *string, limit, offset int) ([]*Report, int, error) {
	out := []*Report{}
	for _, r := range m.reports {
		if r.PatientID != patientID {
			continue
		}
		if reportType != nil && r.ReportType != *reportType {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (m *mockRepo) Summary(ctx context.Context, patientID uuid.UUID) ([]*TypeSummary, error) {
	counts := map[string]*TypeSummary{}
	for _, r := range m.reports {
		if r.PatientID != patientID {
			continue
		}
		s, ok := counts[r.ReportType]
		if !ok {
			s = &TypeSummary{ReportType: r.ReportType}
			counts[r.ReportType] = s
		}
		s.Count++
		if r.DateCreated.After(s.LatestAt) {
			s.LatestNote = r.Notes
			s.LatestAt = r.DateCreated
		}
	}
	out := []*TypeSummary{}
	for _, s := range counts {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockRepo) IsLinkedCaretaker(ctx context.Context, caretakerID, patientID uuid.UUID) (bool, error) {
	return m.links[linkKey{caretakerID, patientID}], nil
}

func TestCreate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	patientID := uuid.New()

	rep, err := svc.Create(context.Background(), patientID, CreateInput{
		PatientID:  patientID,
		ReportType: TypeMedicationLog,
		Notes:      "Took morning dose",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if rep.ID == uuid.Nil {
		t.Error("report id not assigned")
	}
	if rep.CreatorID != patientID {
		t.Errorf("creator = %s, want caller", rep.CreatorID)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	patientID := uuid.New()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"unknown type", CreateInput{PatientID: patientID, ReportType: "Diary", Notes: "x"}},
		{"empty notes", CreateInput{PatientID: patientID, ReportType: TypeMedicationLog, Notes: "  "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), patientID, tc.in); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCreate_Authorization(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	patientID := uuid.New()

	in := CreateInput{PatientID: patientID, ReportType: TypeInventoryUpdate, Notes: "Refilled"}

	stranger := uuid.New()
	if _, err := svc.Create(context.Background(), stranger, in); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: error = %v, want ErrForbidden", err)
	}

	caretaker := uuid.New()
	repo.links[linkKey{caretaker, patientID}] = true
	if _, err := svc.Create(context.Background(), caretaker, in); err != nil {
		t.Errorf("linked caretaker: error = %v", err)
	}
}

func TestListByPatient_TypeFilter(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	patientID := uuid.New()

	for _, rt := range []string{TypeMedicationLog, TypeMedicationLog, TypeInventoryUpdate} {
		if _, err := svc.Create(context.Background(), patientID, CreateInput{
			PatientID: patientID, ReportType: rt, Notes: "n",
		}); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	logType := TypeMedicationLog
	reports, total, err := svc.ListByPatient(context.Background(), patientID, patientID, &logType, 20, 0)
	if err != nil {
		t.Fatalf("ListByPatient() error: %v", err)
	}
	if total != 2 || len(reports) != 2 {
		t.Errorf("filtered = %d/%d, want 2", len(reports), total)
	}

	bad := "Diary"
	if _, _, err := svc.ListByPatient(context.Background(), patientID, patientID, &bad, 20, 0); err == nil {
		t.Error("invalid type filter accepted")
	}
}

func TestSummary(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	patientID := uuid.New()

	for i, rt := range []string{TypeMedicationLog, TypeMedicationLog, TypeReminderUpdate} {
		repo.reports = append(repo.reports, &Report{
			ID: uuid.New(), ReportType: rt, CreatorID: patientID, PatientID: patientID,
			Notes: "n", DateCreated: time.Now().Add(time.Duration(i) * time.Minute),
		})
	}

	summary, err := svc.Summary(context.Background(), patientID, patientID)
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("types = %d, want 2", len(summary))
	}
	for _, s := range summary {
		if s.ReportType == TypeMedicationLog && s.Count != 2 {
			t.Errorf("%s count = %d, want 2", s.ReportType, s.Count)
		}
	}
}
