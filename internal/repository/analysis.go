package repo

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"go_tactics/internal/bootstrap"
	"go_tactics/internal/domain/analysis"
	tacticserrors "go_tactics/internal/errors"
)

// AnalysisRepository keeps classification verdicts in two places: a redis
// cache keyed by a digest of the request, and a mongo archive queried by
// request id and by page.
type AnalysisRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewAnalysisRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *AnalysisRepository {
	return &AnalysisRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

// CacheKey digests the full request; two identical positions with the same
// move share a cache slot.
func (a *AnalysisRepository) CacheKey(req analysis.ClassifyRequest) string {
	h := md5.New()
	h.Write([]byte(strings.Join(req.Diagram, "/")))
	h.Write([]byte("|" + req.Color + "|" + req.Coordinates))
	return "verdict:" + hex.EncodeToString(h.Sum(nil))
}

func (a *AnalysisRepository) GetCachedVerdict(ctx context.Context, key string) (analysis.CachedVerdict, bool) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var verdict analysis.CachedVerdict
	v, err := a.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			a.log.Errorf("redis get failed: %v", err)
		}
		return verdict, false
	}
	if err = json.Unmarshal([]byte(v), &verdict); err != nil {
		a.log.Errorf("cached verdict unmarshal failed: %v", err)
		return verdict, false
	}
	return verdict, true
}

func (a *AnalysisRepository) StoreCachedVerdict(ctx context.Context, key string, verdict analysis.CachedVerdict) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	raw, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("verdict marshal failed: %w", err)
	}

	ttl := time.Duration(a.cfg.CacheTTLSeconds) * time.Second
	if err = a.redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (a *AnalysisRepository) SaveRecord(ctx context.Context, rec analysis.Record) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := a.mongo.Collection("analyses")

	if _, err := collection.InsertOne(ctx, rec); err != nil {
		a.log.Errorf("failed to insert analysis: %v", err)
		return err
	}

	a.log.Infof("analysis archived with id %s", rec.RequestID)
	return nil
}

func (a *AnalysisRepository) GetRecordByID(ctx context.Context, requestID string) (analysis.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := a.mongo.Collection("analyses")
	filter := bson.M{"request_id": requestID}

	var rec analysis.Record
	err := collection.FindOne(ctx, filter).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rec, tacticserrors.ErrAnalysisNotFound
	} else if err != nil {
		a.log.Error(err)
		return rec, err
	}

	return rec, nil
}

func (a *AnalysisRepository) GetArchive(ctx context.Context, pageNum int) (*analysis.ArchiveResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if pageNum < 1 {
		pageNum = 1
	}
	limit := int64(a.cfg.PageLimitAnalyses)

	collection := a.mongo.Collection("analyses")

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		a.log.Error(err)
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(pageNum-1) * limit).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		a.log.Error(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	result := &analysis.ArchiveResponse{
		PageNum:    pageNum,
		TotalPages: int((total + limit - 1) / limit),
	}
	for cursor.Next(ctx) {
		var rec analysis.Record
		if err = cursor.Decode(&rec); err != nil {
			a.log.Error(err)
			return nil, err
		}
		result.Analyses = append(result.Analyses, rec)
	}

	return result, nil
}
