package repos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
)

func TestTableRepo_SeatClearRoundTrip(t *testing.T) {
	_, st := openStore(t)
	ctx := context.Background()

	tables, err := st.Tables.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 12 || tables[0].Number != 1 || tables[11].Number != 12 {
		t.Fatalf("unexpected floor: %d tables", len(tables))
	}

	tbl := tables[0]
	seatedAt := time.Date(2026, 3, 1, 19, 15, 0, 0, time.UTC)
	if err := pos.SeatGuests(&tbl, 2, "John", seatedAt); err != nil {
		t.Fatal(err)
	}
	if err := st.Tables.Save(ctx, &tbl); err != nil {
		t.Fatal(err)
	}

	got, err := st.Tables.Get(ctx, tbl.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.TableOccupied || got.Server != "John" || got.OccupiedSince == nil || !got.OccupiedSince.Equal(seatedAt) {
		t.Fatalf("seat not persisted: %+v", got)
	}

	if err := pos.ClearTable(&got); err != nil {
		t.Fatal(err)
	}
	if err := st.Tables.Save(ctx, &got); err != nil {
		t.Fatal(err)
	}
	got, _ = st.Tables.Get(ctx, tbl.ID)
	if got.Status != domain.TableAvailable || got.OccupiedSince != nil || got.Server != "" || got.Version != 2 {
		t.Fatalf("clear not persisted: %+v", got)
	}
}

func TestTableRepo_InsertDelete(t *testing.T) {
	_, st := openStore(t)
	ctx := context.Background()

	tbl := domain.Table{ID: uuid.NewString(), Number: 13, Seats: 4, Status: domain.TableAvailable}
	if err := st.Tables.Insert(ctx, tbl); err != nil {
		t.Fatal(err)
	}
	dup := domain.Table{ID: uuid.NewString(), Number: 13, Seats: 2, Status: domain.TableAvailable}
	if err := st.Tables.Insert(ctx, dup); err == nil {
		t.Fatal("unique number not enforced")
	}

	stale := tbl
	stale.Version = 5
	if err := st.Tables.Delete(ctx, stale); !errors.Is(err, pos.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	if err := st.Tables.Delete(ctx, tbl); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Tables.Get(ctx, tbl.ID); !errors.Is(err, pos.ErrTableNotFound) {
		t.Fatalf("want ErrTableNotFound, got %v", err)
	}
}
