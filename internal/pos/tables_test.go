package pos_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
)

func floor() []domain.Table {
	return []domain.Table{
		{ID: "t1", Number: 1, Seats: 2, Status: domain.TableAvailable},
		{ID: "t2", Number: 2, Seats: 4, Status: domain.TableAvailable},
		{ID: "t3", Number: 3, Seats: 6, Status: domain.TableAvailable},
	}
}

func TestSeatGuests_CapacityLeavesTableUntouched(t *testing.T) {
	tbl := floor()[0]
	before := tbl

	err := pos.SeatGuests(&tbl, 5, "Sarah", time.Now())
	if !errors.Is(err, pos.ErrCapacityExceeded) {
		t.Fatalf("want ErrCapacityExceeded, got %v", err)
	}
	if tbl != before {
		t.Fatalf("table mutated: %+v", tbl)
	}
}

func TestSeatGuests_Flow(t *testing.T) {
	tbl := floor()[1]
	now := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)

	if err := pos.SeatGuests(&tbl, 0, "Sarah", now); !errors.Is(err, pos.ErrInvalidInput) {
		t.Fatalf("zero guests: want ErrInvalidInput, got %v", err)
	}
	if err := pos.SeatGuests(&tbl, 2, "  ", now); !errors.Is(err, pos.ErrInvalidInput) {
		t.Fatalf("blank server: want ErrInvalidInput, got %v", err)
	}
	if err := pos.SeatGuests(&tbl, 4, " Sarah ", now); err != nil {
		t.Fatal(err)
	}
	if tbl.Status != domain.TableOccupied || tbl.Server != "Sarah" || tbl.OccupiedSince == nil || !tbl.OccupiedSince.Equal(now) {
		t.Fatalf("unexpected seated table: %+v", tbl)
	}
	if !pos.Consistent(tbl) {
		t.Fatal("seated table inconsistent")
	}
	if err := pos.SeatGuests(&tbl, 2, "Mike", now); !errors.Is(err, pos.ErrAlreadyOccupied) {
		t.Fatalf("want ErrAlreadyOccupied, got %v", err)
	}

	if err := pos.LinkOrder(&tbl, "ORD-007"); err != nil {
		t.Fatal(err)
	}
	if tbl.CurrentOrderID != "ORD-007" {
		t.Fatalf("order not linked: %+v", tbl)
	}

	if err := pos.ClearTable(&tbl); err != nil {
		t.Fatal(err)
	}
	if tbl.Status != domain.TableAvailable || tbl.Server != "" || tbl.CurrentOrderID != "" || tbl.OccupiedSince != nil {
		t.Fatalf("table not reset: %+v", tbl)
	}
	if !pos.Consistent(tbl) {
		t.Fatal("cleared table inconsistent")
	}
	if err := pos.ClearTable(&tbl); !errors.Is(err, pos.ErrNotOccupied) {
		t.Fatalf("want ErrNotOccupied, got %v", err)
	}
	if err := pos.LinkOrder(&tbl, "ORD-008"); !errors.Is(err, pos.ErrNotOccupied) {
		t.Fatalf("link on free table: want ErrNotOccupied, got %v", err)
	}
}

func TestAddTable(t *testing.T) {
	tables := floor()

	got, err := pos.AddTable(tables, "t4", 4, -1)
	if !errors.Is(err, pos.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
	if !slices.Equal(got, tables) || len(got) != 3 {
		t.Fatalf("list changed on error: %+v", got)
	}

	if _, err := pos.AddTable(tables, "dup", 2, 4); !errors.Is(err, pos.ErrDuplicateTableNumber) {
		t.Fatalf("want ErrDuplicateTableNumber, got %v", err)
	}

	n := pos.NextTableNumber(tables)
	if n != 4 {
		t.Fatalf("next number: want 4, got %d", n)
	}
	got, err = pos.AddTable(tables, "t4", n, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 || got[3].Number != 4 || got[3].Status != domain.TableAvailable {
		t.Fatalf("unexpected tables: %+v", got)
	}
	if len(tables) != 3 {
		t.Fatal("input slice must not grow")
	}
}

func TestNextTableNumber_Empty(t *testing.T) {
	if n := pos.NextTableNumber(nil); n != 1 {
		t.Fatalf("want 1, got %d", n)
	}
}

func TestDeleteTable(t *testing.T) {
	tables := floor()
	if err := pos.SeatGuests(&tables[2], 3, "Lisa", time.Now()); err != nil {
		t.Fatal(err)
	}

	if _, err := pos.DeleteTable(tables, "t3"); !errors.Is(err, pos.ErrTableOccupied) {
		t.Fatalf("want ErrTableOccupied, got %v", err)
	}
	if _, err := pos.DeleteTable(tables, "nope"); !errors.Is(err, pos.ErrTableNotFound) {
		t.Fatalf("want ErrTableNotFound, got %v", err)
	}

	got, err := pos.DeleteTable(tables, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "t2" || got[1].ID != "t3" {
		t.Fatalf("unexpected tables: %+v", got)
	}
	if tables[0].ID != "t1" {
		t.Fatal("input slice was modified")
	}
}
