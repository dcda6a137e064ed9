package booking

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/kv"
)

const testLedgerKey = "booked_appointments"

func newTestLedger(t *testing.T) (Ledger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewKVLedger(kv.NewRedisStore(client), testLedgerKey, zap.NewNop()), mr
}

func testAppointment(providerID, slotID string, start time.Time) Appointment {
	return Appointment{
		Provider: Provider{ID: providerID, Name: providerID},
		Doctor:   Doctor{ID: "doc-1"},
		Slot: Slot{
			SlotID:    slotID,
			DoctorID:  "doc-1",
			StartTime: start,
			EndTime:   start.Add(30 * time.Minute),
			Branch:    Clinic{ID: "b1", Name: "Main Clinic"},
			Available: true,
		},
	}
}

func TestReadAllEmptyLedger(t *testing.T) {
	ledger, _ := newTestLedger(t)

	appts, err := ledger.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if len(appts) != 0 {
		t.Fatalf("expected empty ledger, got %d entries", len(appts))
	}
}

func TestAppendPreservesInsertionOrder(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	first := testAppointment("maccabi", "s1", start)
	second := testAppointment("clalit", "s2", start.Add(time.Hour))

	if err := ledger.Append(ctx, first); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := ledger.Append(ctx, second); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	appts, err := ledger.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(appts))
	}
	if appts[0].Slot.SlotID != "s1" || appts[1].Slot.SlotID != "s2" {
		t.Fatalf("insertion order not preserved: %s, %s", appts[0].Slot.SlotID, appts[1].Slot.SlotID)
	}
}

func TestRemoveBySlotIDIsIdempotent(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	if err := ledger.Append(ctx, testAppointment("maccabi", "s1", start)); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := ledger.Append(ctx, testAppointment("maccabi", "s2", start.Add(time.Hour))); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	removed, err := ledger.RemoveBySlotID(ctx, "s1")
	if err != nil {
		t.Fatalf("first remove returned error: %v", err)
	}
	if !removed {
		t.Fatal("expected first remove to report a removal")
	}

	removed, err = ledger.RemoveBySlotID(ctx, "s1")
	if err != nil {
		t.Fatalf("second remove returned error: %v", err)
	}
	if removed {
		t.Fatal("expected second remove of the same slot to be a no-op")
	}

	appts, err := ledger.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if len(appts) != 1 || appts[0].Slot.SlotID != "s2" {
		t.Fatalf("expected only s2 to remain, got %+v", appts)
	}
}

func TestCorruptDocumentReadsAsEmpty(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()

	mr.Set(testLedgerKey, "{not json")

	appts, err := ledger.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll returned error on corrupt doc: %v", err)
	}
	if len(appts) != 0 {
		t.Fatalf("expected corrupt ledger to read as empty, got %d entries", len(appts))
	}

	// The next append starts a fresh sequence.
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	if err := ledger.Append(ctx, testAppointment("maccabi", "s1", start)); err != nil {
		t.Fatalf("Append after corruption returned error: %v", err)
	}
	appts, err = ledger.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("expected 1 entry after recovery, got %d", len(appts))
	}
}

func TestClearRemovesKey(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	if err := ledger.Append(ctx, testAppointment("maccabi", "s1", start)); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	if err := ledger.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if mr.Exists(testLedgerKey) {
		t.Fatal("expected ledger key to be removed entirely")
	}
}
