package medicine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/remed/remed/internal/platform/auth"
)

type report struct {
	reportType string
	creatorID  uuid.UUID
	patientID  uuid.UUID
	notes      string
}

type mockRepo struct {
	medicines map[uuid.UUID]*Medicine
	freqs     map[uuid.UUID][]*Frequency
	vaults    map[uuid.UUID]int
	reports   []report
	links     map[[2]uuid.UUID]bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		medicines: make(map[uuid.UUID]*Medicine),
		freqs:     make(map[uuid.UUID][]*Frequency),
		vaults:    make(map[uuid.UUID]int),
		links:     make(map[[2]uuid.UUID]bool),
	}
}

func (m *mockRepo) Create(ctx context.Context, med *Medicine) error {
	med.ID = uuid.New()
	m.medicines[med.ID] = med
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	med, ok := m.medicines[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *med
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, med *Medicine) error {
	if _, ok := m.medicines[med.ID]; !ok {
		return ErrNotFound
	}
	m.medicines[med.ID] = med
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.medicines, id)
	return nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*CabinetEntry, error) {
	var out []*CabinetEntry
	for _, med := range m.medicines {
		if med.PatientID == patientID {
			out = append(out, &CabinetEntry{Medicine: *med, Frequencies: m.freqs[med.ID]})
		}
	}
	return out, nil
}

func (m *mockRepo) InsertFrequency(ctx context.Context, f *Frequency) error {
	f.ID = uuid.New()
	m.freqs[f.MedicineID] = append(m.freqs[f.MedicineID], f)
	return nil
}

func (m *mockRepo) ListFrequencies(ctx context.Context, medicineID uuid.UUID) ([]*Frequency, error) {
	return m.freqs[medicineID], nil
}

func (m *mockRepo) DeleteFrequencies(ctx context.Context, medicineID uuid.UUID) error {
	delete(m.freqs, medicineID)
	return nil
}

func (m *mockRepo) UpsertVault(ctx context.Context, medicineID, patientID, createdBy uuid.UUID, pieces int) error {
	m.vaults[medicineID] = pieces
	return nil
}

func (m *mockRepo) DeleteVault(ctx context.Context, medicineID uuid.UUID) error {
	delete(m.vaults, medicineID)
	return nil
}

func (m *mockRepo) InsertReport(ctx context.Context, reportType string, creatorID, patientID uuid.UUID, notes string) error {
	m.reports = append(m.reports, report{reportType, creatorID, patientID, notes})
	return nil
}

func (m *mockRepo) IsLinkedCaretaker(ctx context.Context, caretakerID, patientID uuid.UUID) (bool, error) {
	return m.links[[2]uuid.UUID{caretakerID, patientID}], nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestAdd(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)
	patientID := uuid.New()
	loggedBy := uuid.New()

	id, err := svc.Add(context.Background(), loggedBy, AddInput{
		PatientID:       patientID,
		MedicineName:    "Aspirin",
		InitialQuantity: 30,
		Frequencies: []FrequencyInput{
			{Time: "08:00", Day: "Daily", Options: &ReminderOptions{SnoozeEnabled: true}},
			{Time: "20:00", Day: "Daily"},
		},
	})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	if repo.vaults[id] != 30 {
		t.Errorf("vault pieces = %d, want 30", repo.vaults[id])
	}
	if len(repo.freqs[id]) != 2 {
		t.Fatalf("frequencies = %d, want 2", len(repo.freqs[id]))
	}
	f := repo.freqs[id][0]
	if f.Status != "Active" {
		t.Errorf("frequency status = %q, want Active", f.Status)
	}
	if f.Options.AlarmSound != "default" || f.Options.SnoozeInterval != 5 {
		t.Errorf("option defaults not applied: %+v", f.Options)
	}
	if len(repo.reports) != 1 || repo.reports[0].reportType != reportMedicationLog {
		t.Errorf("audit report missing or wrong type: %+v", repo.reports)
	}
}

func TestAdd_NoVaultWhenZeroQuantity(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)

	id, err := svc.Add(context.Background(), uuid.New(), AddInput{
		PatientID:    uuid.New(),
		MedicineName: "Ibuprofen",
	})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if _, ok := repo.vaults[id]; ok {
		t.Error("vault row created for zero initial quantity")
	}
}

func TestAdd_Validation(t *testing.T) {
	svc := NewService(newMockRepo(), passthroughTx)

	cases := []AddInput{
		{PatientID: uuid.New()},
		{MedicineName: "Aspirin"},
		{PatientID: uuid.New(), MedicineName: "Aspirin", InitialQuantity: -1},
		{PatientID: uuid.New(), MedicineName: "Aspirin", Frequencies: []FrequencyInput{{Time: "08:00"}}},
	}
	for i, in := range cases {
		if _, err := svc.Add(context.Background(), uuid.New(), in); err == nil {
			t.Errorf("case %d: Add() succeeded, want validation error", i)
		}
	}
}

func seedMedicine(repo *mockRepo, patientID, loggedBy uuid.UUID) *Medicine {
	m := &Medicine{ID: uuid.New(), PatientID: patientID, LoggedByID: loggedBy, MedicineName: "Aspirin"}
	repo.medicines[m.ID] = m
	return m
}

func TestUpdate_Authorization(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)
	patientID := uuid.New()
	loggedBy := uuid.New()
	m := seedMedicine(repo, patientID, loggedBy)

	in := UpdateInput{MedicineName: "Aspirin 100mg"}

	// the user who logged the medicine may update it
	if err := svc.Update(context.Background(), m.ID, loggedBy, auth.RolePatient, in); err != nil {
		t.Errorf("logger update: %v", err)
	}

	// an unlinked nurse may not
	nurseID := uuid.New()
	if err := svc.Update(context.Background(), m.ID, nurseID, auth.RoleNurse, in); !errors.Is(err, ErrForbidden) {
		t.Errorf("unlinked nurse: error = %v, want ErrForbidden", err)
	}

	// a linked nurse may
	repo.links[[2]uuid.UUID{nurseID, patientID}] = true
	if err := svc.Update(context.Background(), m.ID, nurseID, auth.RoleNurse, in); err != nil {
		t.Errorf("linked nurse update: %v", err)
	}

	// anyone else may not
	if err := svc.Update(context.Background(), m.ID, uuid.New(), auth.RoleFamily, in); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: error = %v, want ErrForbidden", err)
	}
}

func TestUpdate_QuantityWritesReport(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)
	loggedBy := uuid.New()
	m := seedMedicine(repo, uuid.New(), loggedBy)

	qty := 12
	err := svc.Update(context.Background(), m.ID, loggedBy, auth.RolePatient, UpdateInput{
		MedicineName: "Aspirin",
		Quantity:     &qty,
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if repo.vaults[m.ID] != 12 {
		t.Errorf("vault pieces = %d, want 12", repo.vaults[m.ID])
	}
	if len(repo.reports) != 1 || repo.reports[0].reportType != reportInventoryUpdate {
		t.Errorf("inventory report missing: %+v", repo.reports)
	}
}

func TestUpdate_ReplacesFrequencies(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)
	loggedBy := uuid.New()
	m := seedMedicine(repo, uuid.New(), loggedBy)
	repo.freqs[m.ID] = []*Frequency{{ID: uuid.New(), MedicineID: m.ID, Time: "08:00", Day: "Daily"}}

	newFreqs := []FrequencyInput{
		{Time: "09:00", Day: "Monday"},
		{Time: "21:00", Day: "Monday"},
	}
	err := svc.Update(context.Background(), m.ID, loggedBy, auth.RolePatient, UpdateInput{
		MedicineName: "Aspirin",
		Frequencies:  &newFreqs,
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if len(repo.freqs[m.ID]) != 2 {
		t.Fatalf("frequencies = %d, want 2 after replace", len(repo.freqs[m.ID]))
	}
	if repo.freqs[m.ID][0].Time != "09:00" {
		t.Errorf("old schedule not replaced: %+v", repo.freqs[m.ID][0])
	}
}

func TestDelete(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)
	patientID := uuid.New()
	loggedBy := uuid.New()
	m := seedMedicine(repo, patientID, loggedBy)
	repo.vaults[m.ID] = 5
	repo.freqs[m.ID] = []*Frequency{{ID: uuid.New(), MedicineID: m.ID}}

	if err := svc.Delete(context.Background(), m.ID, loggedBy, auth.RolePatient); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok := repo.medicines[m.ID]; ok {
		t.Error("medicine not deleted")
	}
	if _, ok := repo.vaults[m.ID]; ok {
		t.Error("vault not deleted")
	}
	if _, ok := repo.freqs[m.ID]; ok {
		t.Error("frequencies not deleted")
	}
	if len(repo.reports) != 1 || repo.reports[0].notes != "Removed medicine: Aspirin" {
		t.Errorf("audit report missing: %+v", repo.reports)
	}

	if err := svc.Delete(context.Background(), uuid.New(), loggedBy, auth.RolePatient); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing medicine: error = %v, want ErrNotFound", err)
	}
}
