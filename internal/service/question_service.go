package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/saitama-on/AssessmentAssist/internal/config"
	"github.com/saitama-on/AssessmentAssist/internal/model"
	"github.com/saitama-on/AssessmentAssist/internal/repository"
	"github.com/saitama-on/AssessmentAssist/internal/response"
)

// QuestionService serves persisted questions with a Redis read-through cache
// on single-document reads.
type QuestionService struct {
	cfg          *config.Config
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(cfg *config.Config, questionRepo *repository.QuestionRepository, rdb *redis.Client, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		cfg:          cfg,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// List retrieves an author's persisted questions with pagination.
func (s *QuestionService) List(ctx context.Context, authorID, page, perPage int, search string) ([]model.Question, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	questions, total, err := s.questionRepo.ListByAuthor(ctx, authorID, limit, offset, search)
	if err != nil {
		return nil, nil, err
	}

	if questions == nil {
		questions = []model.Question{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return questions, pagination, nil
}

// Get retrieves a single question, serving from cache when possible.
func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	key := config.CacheKey.QuestionPayloadKey(id.String())

	raw, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var q model.Question
		if jsonErr := json.Unmarshal([]byte(raw), &q); jsonErr == nil {
			return &q, nil
		}
		// Corrupt cache entry; fall through to the repository.
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Question cache read failed")
	}

	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(q); err == nil {
		if err := s.rdb.Set(ctx, key, encoded, s.cfg.QuestionCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Question cache write failed")
		}
	}

	return q, nil
}

// Delete removes a persisted question and drops its cache entry.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Invalidate(ctx, id)
	return nil
}

// Invalidate drops the cached payload for a question, e.g. after a save.
func (s *QuestionService) Invalidate(ctx context.Context, id uuid.UUID) {
	key := config.CacheKey.QuestionPayloadKey(id.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Str("id", id.String()).Msg("Question cache invalidation failed")
	}
}
