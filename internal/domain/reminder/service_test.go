package reminder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/remed/remed/internal/domain/medicine"
)

type report struct {
	reportType string
	notes      string
}

type mockRepo struct {
	freqs      map[uuid.UUID]*frequencyRef
	medicines  map[uuid.UUID]*frequencyRef
	vaults     map[uuid.UUID]*vaultState // by medicine id
	slots      map[uuid.UUID][]ScheduleInput
	reports    []report
	links      map[[2]uuid.UUID]bool
	lastDayArg string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		freqs:     make(map[uuid.UUID]*frequencyRef),
		medicines: make(map[uuid.UUID]*frequencyRef),
		vaults:    make(map[uuid.UUID]*vaultState),
		slots:     make(map[uuid.UUID][]ScheduleInput),
		links:     make(map[[2]uuid.UUID]bool),
	}
}

func (m *mockRepo) ListForDay(ctx context.Context, patientID uuid.UUID, day string) ([]*Reminder, error) {
	m.lastDayArg = day
	return []*Reminder{}, nil
}

func (m *mockRepo) ListAll(ctx context.Context, patientID uuid.UUID) ([]*Reminder, error) {
	return []*Reminder{}, nil
}

func (m *mockRepo) GetFrequencyRef(ctx context.Context, id uuid.UUID) (*frequencyRef, error) {
	if ref, ok := m.freqs[id]; ok {
		return ref, nil
	}
	return nil, ErrNotFound
}

func (m *mockRepo) GetMedicineRef(ctx context.Context, id uuid.UUID) (*frequencyRef, error) {
	if ref, ok := m.medicines[id]; ok {
		return ref, nil
	}
	return nil, ErrMedicineNotFound
}

func (m *mockRepo) GetVaultByMedicine(ctx context.Context, medicineID uuid.UUID) (*vaultState, error) {
	if v, ok := m.vaults[medicineID]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (m *mockRepo) DecrementVault(ctx context.Context, vaultID uuid.UUID) error {
	for _, v := range m.vaults {
		if v.ID == vaultID && v.Pieces > 0 {
			v.Pieces--
		}
	}
	return nil
}

func (m *mockRepo) ReplaceFrequencies(ctx context.Context, medicineID uuid.UUID, slots []ScheduleInput) error {
	m.slots[medicineID] = slots
	return nil
}

func (m *mockRepo) InsertReport(ctx context.Context, reportType string, creatorID, patientID uuid.UUID, notes string) error {
	m.reports = append(m.reports, report{reportType, notes})
	return nil
}

func (m *mockRepo) IsLinkedCaretaker(ctx context.Context, caretakerID, patientID uuid.UUID) (bool, error) {
	return m.links[[2]uuid.UUID{caretakerID, patientID}], nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func seed(repo *mockRepo, pieces int) (frequencyID, patientID uuid.UUID) {
	frequencyID = uuid.New()
	medicineID := uuid.New()
	patientID = uuid.New()
	ref := &frequencyRef{
		FrequencyID:  frequencyID,
		MedicineID:   medicineID,
		PatientID:    patientID,
		MedicineName: "Aspirin",
	}
	repo.freqs[frequencyID] = ref
	repo.medicines[medicineID] = ref
	if pieces >= 0 {
		repo.vaults[medicineID] = &vaultState{ID: uuid.New(), Pieces: pieces}
	}
	return frequencyID, patientID
}

func countReports(reports []report, reportType, substr string) int {
	n := 0
	for _, r := range reports {
		if r.reportType == reportType && strings.Contains(r.notes, substr) {
			n++
		}
	}
	return n
}

// Taking repeatedly from a vault of 8: the first dose produces no inventory
// report, the low warnings start once the pre-decrement count reaches 7, the
// empty report fires when the last piece goes, and the count never drops
// below zero.
func TestTake_InventoryLifecycle(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)
	frequencyID, patientID := seed(repo, 8)

	var medicineID uuid.UUID
	for id := range repo.vaults {
		medicineID = id
	}

	for i := 0; i < 9; i++ {
		if err := svc.Take(context.Background(), frequencyID, patientID, true, ""); err != nil {
			t.Fatalf("call %d: Take() error: %v", i+1, err)
		}
	}

	if got := repo.vaults[medicineID].Pieces; got != 0 {
		t.Errorf("pieces = %d, want 0 (clamped)", got)
	}
	if got := countReports(repo.reports, reportInventoryUpdate, "Low inventory"); got != 7 {
		t.Errorf("low inventory reports = %d, want 7 (pre-decrement 7..1)", got)
	}
	// pre-decrement 1 and the clamped call at 0
	if got := countReports(repo.reports, reportInventoryUpdate, "Empty inventory"); got != 2 {
		t.Errorf("empty inventory reports = %d, want 2", got)
	}
	if got := countReports(repo.reports, reportMedicationLog, "Taken Aspirin"); got != 9 {
		t.Errorf("medication log reports = %d, want 9", got)
	}
}

func TestTake_SkippedLeavesInventory(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)
	frequencyID, patientID := seed(repo, 5)

	if err := svc.Take(context.Background(), frequencyID, patientID, false, "felt fine"); err != nil {
		t.Fatalf("Take() error: %v", err)
	}

	for _, v := range repo.vaults {
		if v.Pieces != 5 {
			t.Errorf("pieces = %d, want 5 untouched", v.Pieces)
		}
	}
	if got := countReports(repo.reports, reportMedicationLog, "Skipped Aspirin: felt fine"); got != 1 {
		t.Errorf("skip log missing: %+v", repo.reports)
	}
}

func TestTake_NoVault(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)
	frequencyID, patientID := seed(repo, -1) // no vault row

	if err := svc.Take(context.Background(), frequencyID, patientID, true, ""); err != nil {
		t.Fatalf("Take() error: %v", err)
	}
	if len(repo.reports) != 1 || repo.reports[0].reportType != reportMedicationLog {
		t.Errorf("want only a medication log, got %+v", repo.reports)
	}
}

func TestTake_Authorization(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)
	frequencyID, patientID := seed(repo, 5)

	if err := svc.Take(context.Background(), frequencyID, uuid.New(), true, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: error = %v, want ErrForbidden", err)
	}

	caretakerID := uuid.New()
	repo.links[[2]uuid.UUID{caretakerID, patientID}] = true
	if err := svc.Take(context.Background(), frequencyID, caretakerID, true, ""); err != nil {
		t.Errorf("linked caretaker: %v", err)
	}

	if err := svc.Take(context.Background(), uuid.New(), patientID, true, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown frequency: error = %v, want ErrNotFound", err)
	}
}

func TestReplaceSchedule(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)
	_, patientID := seed(repo, 5)

	var medicineID uuid.UUID
	for id := range repo.medicines {
		medicineID = id
	}

	slots := []ScheduleInput{
		{Time: "08:00", Day: "Monday"},
		{Time: "20:00", Day: "Monday", Options: &medicine.ReminderOptions{Critical: true}},
	}
	if err := svc.ReplaceSchedule(context.Background(), medicineID, patientID, slots); err != nil {
		t.Fatalf("ReplaceSchedule() error: %v", err)
	}

	stored := repo.slots[medicineID]
	if len(stored) != 2 {
		t.Fatalf("stored slots = %d, want 2", len(stored))
	}
	if stored[0].Options == nil || stored[0].Options.AlarmSound != "default" || stored[0].Options.SnoozeInterval != 5 {
		t.Errorf("option defaults not applied: %+v", stored[0].Options)
	}
	if !stored[1].Options.Critical {
		t.Error("explicit option lost")
	}
	if got := countReports(repo.reports, reportReminderUpdate, "Updated reminder schedule"); got != 1 {
		t.Errorf("reminder update report missing: %+v", repo.reports)
	}

	if err := svc.ReplaceSchedule(context.Background(), medicineID, patientID, nil); err == nil {
		t.Error("nil slots accepted, want validation error")
	}
	if err := svc.ReplaceSchedule(context.Background(), medicineID, uuid.New(), slots); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: error = %v, want ErrForbidden", err)
	}
}

func TestToday_UsesCurrentWeekday(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) // a Monday
	}

	if _, err := svc.Today(context.Background(), uuid.New()); err != nil {
		t.Fatalf("Today() error: %v", err)
	}
	if repo.lastDayArg != "Monday" {
		t.Errorf("day = %q, want Monday", repo.lastDayArg)
	}
}
