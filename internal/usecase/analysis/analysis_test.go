package analysis

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"go.uber.org/zap"

	"go_tactics/internal/domain/analysis"
	tacticserrors "go_tactics/internal/errors"
	"go_tactics/internal/statuses"
	"go_tactics/internal/tactics"
)

type fakeStore struct {
	cache   map[string]analysis.CachedVerdict
	records []analysis.Record
}

func newFakeStore() *fakeStore {
	return &fakeStore{cache: make(map[string]analysis.CachedVerdict)}
}

func (f *fakeStore) CacheKey(req analysis.ClassifyRequest) string {
	return strings.Join(req.Diagram, "/") + "|" + req.Color + "|" + req.Coordinates
}

func (f *fakeStore) GetCachedVerdict(_ context.Context, key string) (analysis.CachedVerdict, bool) {
	v, ok := f.cache[key]
	return v, ok
}

func (f *fakeStore) StoreCachedVerdict(_ context.Context, key string, verdict analysis.CachedVerdict) error {
	f.cache[key] = verdict
	return nil
}

func (f *fakeStore) SaveRecord(_ context.Context, rec analysis.Record) error {
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeStore) GetRecordByID(_ context.Context, requestID string) (analysis.Record, error) {
	for _, rec := range f.records {
		if rec.RequestID == requestID {
			return rec, nil
		}
	}
	return analysis.Record{}, tacticserrors.ErrAnalysisNotFound
}

func (f *fakeStore) GetArchive(_ context.Context, pageNum int) (*analysis.ArchiveResponse, error) {
	return &analysis.ArchiveResponse{Analyses: f.records, PageNum: pageNum, TotalPages: 1}, nil
}

func newTestUseCase(store AnalysisStore) *AnalysisUseCase {
	log := zap.NewNop().Sugar()
	return NewAnalysisUseCase(store, tactics.NewClassifier(log, rand.New(rand.NewSource(1))), log)
}

// A black connection at cc leaves the pair with one liberty for nothing;
// db is the sensible liberty to fill instead.
var badMoveRequest = analysis.ClassifyRequest{
	Diagram: []string{
		"OOO..",
		"OXX..",
		"OO.O.",
	},
	Color:       "b",
	Coordinates: "cc",
}

func TestClassifyBadMoveWithCousin(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(store)
	ctx := context.Background()

	resp, err := uc.Classify(ctx, badMoveRequest)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !resp.Bad {
		t.Fatal("move should be classified bad")
	}
	if resp.Cousin != "db" {
		t.Fatalf("cousin = %q, want %q", resp.Cousin, "db")
	}
	if resp.Cached {
		t.Fatal("first classification must not be a cache hit")
	}
	if len(store.records) != 1 || store.records[0].Status != statuses.StatusDone {
		t.Fatalf("expected one archived record with status done, got %+v", store.records)
	}

	again, err := uc.Classify(ctx, badMoveRequest)
	if err != nil {
		t.Fatalf("Classify (cached): %v", err)
	}
	if !again.Cached || again.Bad != resp.Bad || again.Cousin != resp.Cousin {
		t.Fatalf("cached response mismatch: %+v vs %+v", again, resp)
	}
	if len(store.records) != 2 || store.records[1].Status != statuses.StatusCached {
		t.Fatalf("expected a second record with status cached, got %+v", store.records)
	}
}

func TestClassifySnapbackIsNotBad(t *testing.T) {
	uc := newTestUseCase(newFakeStore())

	resp, err := uc.Classify(context.Background(), analysis.ClassifyRequest{
		Diagram: []string{
			".XXX..",
			"XOOOX.",
			"XO.OX.",
			".XOOX.",
			"XO.XO.",
		},
		Color:       "b",
		Coordinates: "ce",
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if resp.Bad {
		t.Fatal("snapback setup should not be classified bad")
	}
	if resp.Cousin != "" {
		t.Fatalf("no cousin expected for a playable move, got %q", resp.Cousin)
	}
}

func TestClassifyRejections(t *testing.T) {
	uc := newTestUseCase(newFakeStore())
	ctx := context.Background()

	cases := []struct {
		name    string
		req     analysis.ClassifyRequest
		wantErr error
	}{
		{
			name: "not a self-atari",
			req: analysis.ClassifyRequest{
				Diagram:     []string{"...", "...", "..."},
				Color:       "b",
				Coordinates: "bb",
			},
			wantErr: tacticserrors.ErrNotSelfAtari,
		},
		{
			name: "occupied point",
			req: analysis.ClassifyRequest{
				Diagram:     badMoveRequest.Diagram,
				Color:       "b",
				Coordinates: "aa",
			},
			wantErr: tacticserrors.ErrOccupiedPoint,
		},
		{
			name: "ragged diagram",
			req: analysis.ClassifyRequest{
				Diagram:     []string{"XX", "X"},
				Color:       "b",
				Coordinates: "aa",
			},
			wantErr: tacticserrors.ErrBadDiagram,
		},
		{
			name: "unknown color",
			req: analysis.ClassifyRequest{
				Diagram:     []string{"...", "...", "..."},
				Color:       "g",
				Coordinates: "bb",
			},
			wantErr: tacticserrors.ErrBadColor,
		},
		{
			name: "coordinates off the board",
			req: analysis.ClassifyRequest{
				Diagram:     []string{"...", "...", "..."},
				Color:       "b",
				Coordinates: "zz",
			},
			wantErr: tacticserrors.ErrBadCoordinates,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Classify(ctx, tc.req); !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCousinEndpoint(t *testing.T) {
	uc := newTestUseCase(newFakeStore())

	resp, err := uc.Cousin(context.Background(), badMoveRequest)
	if err != nil {
		t.Fatalf("Cousin: %v", err)
	}
	if resp.Cousin != "db" {
		t.Fatalf("cousin = %q, want %q", resp.Cousin, "db")
	}
	if resp.RequestID == "" {
		t.Fatal("request id missing")
	}
}

func TestGetAnalysisById(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(store)
	ctx := context.Background()

	resp, err := uc.Classify(ctx, badMoveRequest)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	rec, err := uc.GetAnalysisById(ctx, resp.RequestID)
	if err != nil {
		t.Fatalf("GetAnalysisById: %v", err)
	}
	if rec.Bad != resp.Bad || rec.Cousin != resp.Cousin {
		t.Fatalf("archived record does not match response: %+v vs %+v", rec, resp)
	}

	if _, err = uc.GetAnalysisById(ctx, "missing"); !errors.Is(err, tacticserrors.ErrAnalysisNotFound) {
		t.Fatalf("err = %v, want ErrAnalysisNotFound", err)
	}
}

func TestClassifyBatchItem(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(store)
	ctx := context.Background()

	good := uc.ClassifyBatchItem(ctx, analysis.BatchItem{ID: "m1", ClassifyRequest: badMoveRequest})
	if good.Error != "" || !good.Bad || good.ID != "m1" {
		t.Fatalf("unexpected verdict: %+v", good)
	}

	broken := uc.ClassifyBatchItem(ctx, analysis.BatchItem{
		ID: "m2",
		ClassifyRequest: analysis.ClassifyRequest{
			Diagram:     []string{"X?"},
			Color:       "b",
			Coordinates: "aa",
		},
	})
	if broken.Error == "" || broken.ID != "m2" {
		t.Fatalf("expected an error verdict, got %+v", broken)
	}

	last := store.records[len(store.records)-1]
	if last.Status != statuses.StatusFailed || last.Error == "" {
		t.Fatalf("failed item not archived correctly: %+v", last)
	}
}
