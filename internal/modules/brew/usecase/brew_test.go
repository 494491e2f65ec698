package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	brewstore "brewlog/internal/modules/brew/adapter/out"
	"brewlog/internal/modules/brew/domain"
	brewdto "brewlog/internal/modules/brew/dto"
	brewin "brewlog/internal/modules/brew/port/in"
	brewout "brewlog/internal/modules/brew/port/out"
	"brewlog/internal/modules/brew/service"
	"brewlog/internal/modules/brew/usecase"
	apperrors "brewlog/internal/platform/errors"
	"brewlog/internal/platform/tx"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return "brew-" + strconv.Itoa(s.n)
}

func newInteractor(t *testing.T, clk *fakeClock) (brewin.Usecase, brewout.SessionRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo := brewstore.NewCollectionRepository(brewstore.NewMemoryKVStore(), tx.NewMutexManager(), clk, hclog.NewNullLogger())
	svc := service.NewBrewService(clk, &seqID{}, repo, brewstore.NewMarkdownJournalExporter(dir), hclog.NewNullLogger())
	return usecase.NewInteractor(svc), repo, dir
}

func strPtr(v string) *string { return &v }

func TestSundayStoutWalksThroughEveryPhase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}}
	uc, _, _ := newInteractor(t, clk)

	created, err := uc.Create(ctx, brewdto.CreateInput{Name: "Sunday Stout", Style: "Irish Dry Stout"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CurrentPhase != "Mashing" || created.Step != 1 {
		t.Fatalf("expected new brew at Mashing step 1, got %s step %d", created.CurrentPhase, created.Step)
	}
	for _, p := range created.Phases {
		if p.Recorded {
			t.Fatalf("new brew must have an empty data mapping, %s is recorded", p.Phase)
		}
	}

	moved, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: created.ID, Edit: brewdto.PhaseInput{Notes: strPtr("mashed at 152F")}})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if moved.Session.CurrentPhase != "Sparging" || !moved.Transition || moved.From != "Mashing" {
		t.Fatalf("expected Mashing -> Sparging, got %+v", moved)
	}
	if got := moved.Session.Phases[0]; got.Notes != "mashed at 152F" || !got.Recorded {
		t.Fatalf("expected mashing notes persisted, got %+v", got)
	}

	for i := 0; i < 6; i++ {
		if _, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: created.ID}); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	done, err := uc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if done.CurrentPhase != "Completed" || !done.Completed || done.Progress != 100 {
		t.Fatalf("expected Completed at 100%%, got %s %.1f", done.CurrentPhase, done.Progress)
	}

	final, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: created.ID, Edit: brewdto.PhaseInput{Notes: strPtr("tasted great")}})
	if err != nil {
		t.Fatalf("advance at terminal: %v", err)
	}
	if final.Transition || final.Session.CurrentPhase != "Completed" {
		t.Fatalf("advance at terminal must not move, got %+v", final)
	}
	if final.Session.Phases[7].Notes != "tasted great" {
		t.Fatalf("terminal advance must still persist edits, got %+v", final.Session.Phases[7])
	}
}

func TestAdvanceThenRetreatRestoresPhaseAndKeepsData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}}
	uc, _, _ := newInteractor(t, clk)
	created, _ := uc.Create(ctx, brewdto.CreateInput{Name: "Pale", Style: "APA"})

	if _, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: created.ID, Edit: brewdto.PhaseInput{Notes: strPtr("strike 165"), WaterBottlesCount: strPtr("4")}}); err != nil {
		t.Fatalf("advance: %v", err)
	}
	back, err := uc.Retreat(ctx, brewdto.TransitionInput{SessionID: created.ID, Edit: brewdto.PhaseInput{Temperature: strPtr("170")}})
	if err != nil {
		t.Fatalf("retreat: %v", err)
	}
	if back.Session.CurrentPhase != "Mashing" {
		t.Fatalf("expected retreat back to Mashing, got %s", back.Session.CurrentPhase)
	}
	mash := back.Session.Phases[0]
	if mash.Notes != "strike 165" || mash.WaterBottlesCount != 4 || mash.TotalWater != "6.00" {
		t.Fatalf("mashing data lost in round trip: %+v", mash)
	}
	if back.Session.Phases[1].Temperature != "170" {
		t.Fatalf("sparging edits must be saved on retreat: %+v", back.Session.Phases[1])
	}

	first, err := uc.Retreat(ctx, brewdto.TransitionInput{SessionID: created.ID})
	if err != nil {
		t.Fatalf("retreat at first: %v", err)
	}
	if first.Transition || first.Session.CurrentPhase != "Mashing" {
		t.Fatalf("retreat at first phase must not move, got %+v", first)
	}
}

func TestAdvanceMergesOverConcurrentTimerWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}}
	uc, repo, _ := newInteractor(t, clk)
	created, _ := uc.Create(ctx, brewdto.CreateInput{Name: "Stout", Style: "Stout"})

	// the timer writes while the phase form is open
	end := int64(600000)
	if _, err := repo.Update(ctx, created.ID, func(s *domain.Session) error {
		s.TimerIsRunning = true
		s.TimerEndTime = &end
		return nil
	}); err != nil {
		t.Fatalf("timer write: %v", err)
	}

	if _, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: created.ID, FromPhase: "Mashing", Edit: brewdto.PhaseInput{Notes: strPtr("doughed in")}}); err != nil {
		t.Fatalf("advance: %v", err)
	}
	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.TimerIsRunning || stored.TimerEndTime == nil || *stored.TimerEndTime != end {
		t.Fatalf("timer fields clobbered by advance: %+v", stored)
	}
	if stored.Data[domain.PhaseMashing].Notes != "doughed in" {
		t.Fatalf("phase edit lost: %+v", stored.Data)
	}
}

func TestAdvanceOverlaysOnlyEditedFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}}
	uc, _, _ := newInteractor(t, clk)
	created, _ := uc.Create(ctx, brewdto.CreateInput{Name: "Stout", Style: "Stout"})

	if _, err := uc.SavePhase(ctx, brewdto.SavePhaseInput{SessionID: created.ID, Phase: "mashing", Edit: brewdto.PhaseInput{InitialTemperature: strPtr("165"), TempUnit: strPtr("F")}}); err != nil {
		t.Fatalf("save phase: %v", err)
	}
	moved, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: created.ID, Edit: brewdto.PhaseInput{FinalTemperature: strPtr("152")}})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	mash := moved.Session.Phases[0]
	if mash.InitialTemperature != "165" || mash.FinalTemperature != "152" {
		t.Fatalf("expected both readings kept, got %+v", mash)
	}
	if mash.Converted["finalTemperature"] != "66.7 °C" {
		t.Fatalf("expected converted reading, got %+v", mash.Converted)
	}
}

func TestStaleViewNeverMovesPhaseBackwards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}}
	uc, repo, _ := newInteractor(t, clk)
	created, _ := uc.Create(ctx, brewdto.CreateInput{Name: "Stout", Style: "Stout"})

	// another view already moved the brew on to Chilling
	for i := 0; i < 3; i++ {
		if _, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: created.ID}); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	moved, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: created.ID, FromPhase: "Mashing", Edit: brewdto.PhaseInput{Notes: strPtr("late note")}})
	if err != nil {
		t.Fatalf("stale advance: %v", err)
	}
	if moved.Transition || moved.Session.CurrentPhase != "Chilling" {
		t.Fatalf("stale advance must leave the brew at Chilling, got %s (moved=%v)", moved.Session.CurrentPhase, moved.Transition)
	}
	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.CurrentPhase.Step() != 4 {
		t.Fatalf("phase index changed by a stale advance: %s", stored.CurrentPhase)
	}
	if stored.Data[domain.PhaseMashing].Notes != "late note" {
		t.Fatalf("late mashing note lost: %+v", stored.Data[domain.PhaseMashing])
	}

	back, err := uc.Retreat(ctx, brewdto.TransitionInput{SessionID: created.ID, FromPhase: "Fermentation"})
	if err != nil {
		t.Fatalf("stale retreat: %v", err)
	}
	if back.Transition || back.Session.CurrentPhase != "Chilling" {
		t.Fatalf("retreat from a phase not yet reached must not move, got %s", back.Session.CurrentPhase)
	}

	current, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: created.ID, FromPhase: "Chilling"})
	if err != nil {
		t.Fatalf("current advance: %v", err)
	}
	if !current.Transition || current.Session.CurrentPhase != "Fermentation" {
		t.Fatalf("advance from the stored phase should step once, got %s", current.Session.CurrentPhase)
	}
}

// flakyStore fails the next failGets reads and then behaves like its inner store.
type flakyStore struct {
	brewout.KeyValueStore
	failGets int
	sets     int
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGets > 0 {
		f.failGets--
		return nil, errors.New("database is locked")
	}
	return f.KeyValueStore.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	f.sets++
	return f.KeyValueStore.Set(ctx, key, value)
}

func TestFailedReadAbortsWritesInsteadOfReplacingCollection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}}
	store := &flakyStore{KeyValueStore: brewstore.NewMemoryKVStore()}
	repo := brewstore.NewCollectionRepository(store, tx.NewMutexManager(), clk, hclog.NewNullLogger())
	uc := usecase.NewInteractor(service.NewBrewService(clk, &seqID{}, repo, brewstore.NewMarkdownJournalExporter(t.TempDir()), hclog.NewNullLogger()))

	var first brewdto.SessionOutput
	for _, name := range []string{"Stout", "Porter", "Mild"} {
		out, err := uc.Create(ctx, brewdto.CreateInput{Name: name, Style: "Dark"})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if first.ID == "" {
			first = out
		}
	}
	writes := store.sets

	store.failGets = 1
	if _, err := uc.Create(ctx, brewdto.CreateInput{Name: "Bitter", Style: "Pale"}); err == nil {
		t.Fatalf("create must fail when the collection cannot be read")
	}
	store.failGets = 1
	if _, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: first.ID}); err == nil {
		t.Fatalf("advance must fail when the collection cannot be read")
	}
	store.failGets = 1
	if err := uc.Delete(ctx, first.ID); err == nil {
		t.Fatalf("delete must fail when the collection cannot be read")
	}
	if store.sets != writes {
		t.Fatalf("no write may follow a failed read, got %d extra", store.sets-writes)
	}

	store.failGets = 1
	listed, err := uc.List(ctx)
	if err != nil || len(listed) != 0 {
		t.Fatalf("list soft-fails to empty, got %d sessions, err %v", len(listed), err)
	}
	listed, err = uc.List(ctx)
	if err != nil || len(listed) != 3 {
		t.Fatalf("all three brews must survive, got %d, err %v", len(listed), err)
	}
}

func TestCreateValidationAndMissingSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}}
	uc, _, _ := newInteractor(t, clk)

	if _, err := uc.Create(ctx, brewdto.CreateInput{Name: " ", Style: "Stout"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty name, got %v", err)
	}
	if _, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: "missing"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := uc.Advance(ctx, brewdto.TransitionInput{SessionID: "missing", FromPhase: "Kegging"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown phase, got %v", err)
	}
	if _, err := uc.Get(ctx, ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty id, got %v", err)
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{values: []time.Time{
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}}
	uc, _, _ := newInteractor(t, clk)
	for _, name := range []string{"March", "Later March", "February"} {
		if _, err := uc.Create(ctx, brewdto.CreateInput{Name: name, Style: "Ale"}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	list, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{list[0].Name, list[1].Name, list[2].Name}
	if strings.Join(got, ",") != "Later March,March,February" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestImportUpsertsOriginalDumpAndExportWritesJournal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}}
	uc, _, dir := newInteractor(t, clk)

	dump := `[
  {"id":"9f1c","name":"Sunday Stout","style":"Irish Dry Stout","createdAt":"2026-03-01T09:00:00.000Z","currentPhase":"Boiling",
   "data":{"Mashing":{"notes":"mashed at 152F","waterBottlesCount":3,"tempUnit":"F"}},
   "timerRemainingSeconds":300,"timerDurationMinutes":5,"timerIsRunning":false},
  {"id":"","name":"broken","style":"x","createdAt":"2026-03-01T09:00:00.000Z","currentPhase":"Mashing","data":{}}
]`
	path := filepath.Join(dir, "dump.json")
	if err := os.WriteFile(path, []byte(dump), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	res, err := uc.Import(ctx, brewdto.ImportInput{Path: path})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 1 || len(res.Skipped) != 1 {
		t.Fatalf("expected 1 imported and 1 skipped, got %+v", res)
	}
	got, err := uc.Get(ctx, "9f1c")
	if err != nil {
		t.Fatalf("get imported: %v", err)
	}
	if got.CurrentPhase != "Boiling" || got.Phases[0].WaterBottlesCount != 3 {
		t.Fatalf("unexpected imported brew %+v", got)
	}

	exported, err := uc.Export(ctx, brewdto.ExportInput{SessionID: "9f1c"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(exported.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(b), "current_phase: Boiling") || !strings.Contains(string(b), "mashed at 152F") {
		t.Fatalf("unexpected journal note:\n%s", b)
	}

	if err := uc.Delete(ctx, "9f1c"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := uc.Get(ctx, "9f1c"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
