package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go_tactics/internal/board"
	"go_tactics/internal/domain/analysis"
	tacticserrors "go_tactics/internal/errors"
	"go_tactics/internal/statuses"
	"go_tactics/internal/tactics"
)

type AnalysisStore interface {
	CacheKey(req analysis.ClassifyRequest) string
	GetCachedVerdict(ctx context.Context, key string) (analysis.CachedVerdict, bool)
	StoreCachedVerdict(ctx context.Context, key string, verdict analysis.CachedVerdict) error
	SaveRecord(ctx context.Context, rec analysis.Record) error
	GetRecordByID(ctx context.Context, requestID string) (analysis.Record, error)
	GetArchive(ctx context.Context, pageNum int) (*analysis.ArchiveResponse, error)
}

type AnalysisUseCase struct {
	store      AnalysisStore
	classifier *tactics.Classifier
	log        *zap.SugaredLogger
}

func NewAnalysisUseCase(store AnalysisStore, classifier *tactics.Classifier, log *zap.SugaredLogger) *AnalysisUseCase {
	return &AnalysisUseCase{store: store, classifier: classifier, log: log}
}

// parseRequest turns the transport payload into a position and a candidate
// point. The point must be an empty cell.
func (u *AnalysisUseCase) parseRequest(req analysis.ClassifyRequest) (*board.Position, board.Color, board.Coord, error) {
	p, err := board.FromDiagram(req.Diagram)
	if err != nil {
		return nil, board.Empty, board.Pass, err
	}

	color, err := board.ColorFromString(req.Color)
	if err != nil {
		return nil, board.Empty, board.Pass, fmt.Errorf("%w: %v", tacticserrors.ErrBadColor, err)
	}

	to, err := p.CoordFromSGF(req.Coordinates)
	if err != nil {
		return nil, board.Empty, board.Pass, err
	}

	if p.ColorAt(to) != board.Empty {
		return nil, board.Empty, board.Pass, tacticserrors.ErrOccupiedPoint
	}

	return p, color, to, nil
}

// Classify runs the full pipeline: parse, enforce the self-atari
// precondition, consult the verdict cache, classify, suggest a cousin for
// bad moves and archive the result.
func (u *AnalysisUseCase) Classify(ctx context.Context, req analysis.ClassifyRequest) (analysis.ClassifyResponse, error) {
	p, color, to, err := u.parseRequest(req)
	if err != nil {
		return analysis.ClassifyResponse{}, err
	}

	if !p.IsSelfAtari(color, to) {
		return analysis.ClassifyResponse{}, tacticserrors.ErrNotSelfAtari
	}

	requestID := uuid.New().String()
	key := u.store.CacheKey(req)

	if verdict, ok := u.store.GetCachedVerdict(ctx, key); ok {
		u.log.Infof("verdict cache hit for %s", key)
		u.archive(ctx, requestID, req, verdict, statuses.StatusCached)
		return analysis.ClassifyResponse{
			RequestID: requestID,
			Bad:       verdict.Bad,
			Cousin:    verdict.Cousin,
			Cached:    true,
		}, nil
	}

	verdict := analysis.CachedVerdict{
		Bad: u.classifier.IsBadSelfAtari(p, color, to),
	}
	if verdict.Bad {
		if cousin := u.classifier.SelfAtariCousin(p, color, to); cousin != board.Pass {
			verdict.Cousin = p.SGFFromCoord(cousin)
		}
	}

	if err = u.store.StoreCachedVerdict(ctx, key, verdict); err != nil {
		u.log.Errorf("verdict cache store failed: %v", err)
	}
	u.archive(ctx, requestID, req, verdict, statuses.StatusDone)

	return analysis.ClassifyResponse{
		RequestID: requestID,
		Bad:       verdict.Bad,
		Cousin:    verdict.Cousin,
	}, nil
}

// Cousin suggests an alternative liberty without requiring the original
// move to be a strict self-atari.
func (u *AnalysisUseCase) Cousin(ctx context.Context, req analysis.ClassifyRequest) (analysis.CousinResponse, error) {
	p, color, to, err := u.parseRequest(req)
	if err != nil {
		return analysis.CousinResponse{}, err
	}

	resp := analysis.CousinResponse{RequestID: uuid.New().String()}
	if cousin := u.classifier.SelfAtariCousin(p, color, to); cousin != board.Pass {
		resp.Cousin = p.SGFFromCoord(cousin)
	}
	return resp, nil
}

func (u *AnalysisUseCase) GetAnalysisById(ctx context.Context, requestID string) (analysis.Record, error) {
	return u.store.GetRecordByID(ctx, requestID)
}

func (u *AnalysisUseCase) GetArchive(ctx context.Context, pageNum int) (*analysis.ArchiveResponse, error) {
	return u.store.GetArchive(ctx, pageNum)
}

// ClassifyBatchItem serves the websocket stream: errors are reported in the
// verdict instead of tearing the connection down, and failed items are
// archived for inspection.
func (u *AnalysisUseCase) ClassifyBatchItem(ctx context.Context, item analysis.BatchItem) analysis.BatchVerdict {
	resp, err := u.Classify(ctx, item.ClassifyRequest)
	if err != nil {
		u.log.Errorf("batch item %s failed: %v", item.ID, err)
		rec := analysis.Record{
			RequestID:   uuid.New().String(),
			Diagram:     item.Diagram,
			Color:       item.Color,
			Coordinates: item.Coordinates,
			Status:      statuses.StatusFailed,
			Error:       err.Error(),
			CreatedAt:   time.Now(),
		}
		if saveErr := u.store.SaveRecord(ctx, rec); saveErr != nil {
			u.log.Errorf("failed to archive failed batch item: %v", saveErr)
		}
		return analysis.BatchVerdict{ID: item.ID, Error: err.Error()}
	}

	return analysis.BatchVerdict{
		ID:     item.ID,
		Bad:    resp.Bad,
		Cousin: resp.Cousin,
	}
}

func (u *AnalysisUseCase) archive(ctx context.Context, requestID string, req analysis.ClassifyRequest, verdict analysis.CachedVerdict, status string) {
	rec := analysis.Record{
		RequestID:   requestID,
		Diagram:     req.Diagram,
		Color:       req.Color,
		Coordinates: req.Coordinates,
		Bad:         verdict.Bad,
		Cousin:      verdict.Cousin,
		Status:      status,
		CreatedAt:   time.Now(),
	}
	if err := u.store.SaveRecord(ctx, rec); err != nil {
		u.log.Errorf("failed to archive analysis %s: %v", requestID, err)
	}
}
