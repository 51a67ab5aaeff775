package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"math-routing-agent/internal/models"
	"math-routing-agent/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KBStore is the persistence contract of the knowledge base. The Postgres
// repository implements it; tests substitute an in-memory fake.
type KBStore interface {
	Create(ctx context.Context, entry *models.KBEntry) error
	Update(ctx context.Context, entry *models.KBEntry) error
	List(ctx context.Context) ([]*models.KBEntry, error)
}

// Embedder maps text to fixed-length vectors, deterministically for the
// same input and model version.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// SearchHit pairs a knowledge-base entry with its cosine similarity to the
// query vector.
type SearchHit struct {
	Entry      *models.KBEntry
	Similarity float64
}

// QAPair is a seed-corpus item for BulkLoad.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// KnowledgeService is the searchable corpus that the routing pipeline reads
// and the feedback loop writes. All reads go through an in-memory index
// kept in insertion order; writes persist to the store first and then
// mutate the index under the write lock, so a correction is queryable the
// moment Upsert returns. Indexed KBEntry structs are never mutated after
// publication, so hits returned by Search stay valid to read after the
// read lock is released.
type KnowledgeService struct {
	store    KBStore
	embedder Embedder
	config   *config.KnowledgeConfig
	logger   *zap.Logger

	mu      sync.RWMutex
	entries []*models.KBEntry
}

func NewKnowledgeService(store KBStore, embedder Embedder, cfg *config.KnowledgeConfig, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{
		store:    store,
		embedder: embedder,
		config:   cfg,
		logger:   logger,
	}
}

// Load populates the in-memory index from the store. Entries embedded
// under a different model than the configured one are skipped: a mixed
// index would make similarities meaningless, and those entries need
// re-seeding instead.
func (s *KnowledgeService) Load(ctx context.Context) error {
	entries, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}

	model := s.embedder.Model()
	kept := make([]*models.KBEntry, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		if entry.EmbeddingModel != model {
			skipped++
			continue
		}
		kept = append(kept, entry)
	}
	if skipped > 0 {
		s.logger.Warn("Skipped entries embedded under a different model; re-seed to restore them",
			zap.Int("skipped", skipped),
			zap.String("configured_model", model),
		)
	}

	s.mu.Lock()
	s.entries = kept
	s.mu.Unlock()

	s.logger.Info("Knowledge base loaded", zap.Int("entries", len(kept)))
	return nil
}

// Search returns up to topK entries ordered by descending cosine
// similarity. Ties are broken by insertion order, earlier entry first.
func (s *KnowledgeService) Search(vector []float32, topK int) []SearchHit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]SearchHit, 0, len(s.entries))
	for _, entry := range s.entries {
		hits = append(hits, SearchHit{
			Entry:      entry,
			Similarity: cosineSimilarity(vector, entry.Vector),
		})
	}

	// stable sort keeps insertion order on equal similarity
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// SearchText embeds the question and searches the index.
func (s *KnowledgeService) SearchText(ctx context.Context, question string, topK int) ([]SearchHit, error) {
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}
	return s.Search(vector, topK), nil
}

// Upsert writes a corrected answer into the knowledge base. If an existing
// entry is a near-duplicate of the question (similarity above the dedup
// threshold) its answer and vector are replaced in place, preserving the
// id; otherwise a new correction entry is inserted. Upserts are serialized
// by the write lock so two simultaneous corrections for highly similar
// questions cannot both insert.
func (s *KnowledgeService) Upsert(ctx context.Context, question, answer string) (*models.KBEntry, error) {
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	// dedup scan against the full index
	existingIdx := -1
	bestSim := s.config.DedupThreshold
	for i, entry := range s.entries {
		if sim := cosineSimilarity(vector, entry.Vector); sim >= bestSim {
			existingIdx, bestSim = i, sim
		}
	}

	if existingIdx >= 0 {
		updated := *s.entries[existingIdx]
		updated.Answer = answer
		updated.Vector = vector
		updated.EmbeddingModel = s.embedder.Model()
		updated.UpdatedAt = now

		if err := s.store.Update(ctx, &updated); err != nil {
			return nil, fmt.Errorf("failed to update knowledge entry: %w", err)
		}
		// replace the slice element instead of mutating the old struct:
		// hits already handed out keep pointing at an unchanging snapshot
		s.entries[existingIdx] = &updated

		s.logger.Info("Knowledge entry updated",
			zap.String("id", updated.ID.String()),
			zap.Float64("similarity", bestSim),
		)
		return &updated, nil
	}

	entry := &models.KBEntry{
		ID:             uuid.New(),
		Question:       question,
		Answer:         answer,
		Vector:         vector,
		EmbeddingModel: s.embedder.Model(),
		Origin:         models.KBOriginCorrection,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to insert knowledge entry: %w", err)
	}
	s.entries = append(s.entries, entry)

	s.logger.Info("Knowledge entry inserted", zap.String("id", entry.ID.String()))
	return entry, nil
}

// BulkLoad seeds the knowledge base from a fixed corpus. Questions are
// embedded in one batch call; pairs whose question already has a
// near-duplicate in the index are skipped, so re-running the seeder is
// harmless. Returns the number of entries added.
func (s *KnowledgeService) BulkLoad(ctx context.Context, pairs []QAPair) (int, error) {
	if len(pairs) == 0 {
		return 0, nil
	}

	questions := make([]string, len(pairs))
	for i, pair := range pairs {
		questions[i] = pair.Question
	}
	vectors, err := s.embedder.EmbedBatch(ctx, questions)
	if err != nil {
		return 0, fmt.Errorf("failed to embed seed corpus: %w", err)
	}
	if len(vectors) != len(pairs) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d questions", len(vectors), len(pairs))
	}

	added := 0
	for i, pair := range pairs {
		vector := vectors[i]

		s.mu.Lock()
		duplicate := false
		for _, entry := range s.entries {
			if cosineSimilarity(vector, entry.Vector) >= s.config.DedupThreshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			s.mu.Unlock()
			s.logger.Debug("Seed entry already present, skipping", zap.String("question", pair.Question))
			continue
		}

		now := time.Now().UTC()
		entry := &models.KBEntry{
			ID:             uuid.New(),
			Question:       pair.Question,
			Answer:         pair.Answer,
			Vector:         vector,
			EmbeddingModel: s.embedder.Model(),
			Origin:         models.KBOriginSeed,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.store.Create(ctx, entry); err != nil {
			s.mu.Unlock()
			return added, fmt.Errorf("failed to insert seed entry %q: %w", pair.Question, err)
		}
		s.entries = append(s.entries, entry)
		s.mu.Unlock()
		added++
	}
	return added, nil
}

// Size returns the number of indexed entries.
func (s *KnowledgeService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
