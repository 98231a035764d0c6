// Package services – DocumentService
//
// DocumentService stores immutable user documents and answers free-text
// searches over them. Search indexes are built per user from the stored
// documents and cached in an LRU keyed by user; a cached index is reused
// while the user's document count and latest update are unchanged.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"
	"github.com/tbourn/go-health-backend/internal/search"
)

// DocumentInput is the payload of a new document.
type DocumentInput struct {
	Title        string
	Content      string
	FilePath     *string
	DocumentType *string
}

// DocumentHit is one document matching a search, with its best passage.
type DocumentHit struct {
	DocumentID uint    `json:"document_id"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
}

type cachedIndex struct {
	stats repo.CollectionStats
	index search.Index
}

// DocumentService manages documents and document search.
type DocumentService struct {
	DB *gorm.DB

	// MaxContentBytes caps stored document bodies (0 disables the check).
	MaxContentBytes int
	// SearchLimit is the number of documents returned when the caller asks
	// for none.
	SearchLimit int

	indexes *lru.Cache[uint, cachedIndex]
}

// NewDocumentService constructs a DocumentService caching up to cacheSize
// per-user indexes.
func NewDocumentService(db *gorm.DB, cacheSize int) (*DocumentService, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	c, err := lru.New[uint, cachedIndex](cacheSize)
	if err != nil {
		return nil, err
	}
	return &DocumentService{
		DB:              db,
		MaxContentBytes: 1 << 20,
		SearchLimit:     5,
		indexes:         c,
	}, nil
}

// Create validates in and stores the document.
func (s *DocumentService) Create(ctx context.Context, userID uint, in DocumentInput) (*domain.Document, error) {
	title, err := requiredText("title", in.Title, maxTitleRunes)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, invalid("content", "is required")
	}
	if s.MaxContentBytes > 0 && len(content) > s.MaxContentBytes {
		return nil, invalid("content", "is too large")
	}
	if !utf8.ValidString(content) {
		return nil, invalid("content", "must be UTF-8 text")
	}
	d := &domain.Document{
		UserID:   userID,
		Title:    title,
		Content:  content,
		FilePath: optionalText(in.FilePath),
	}
	if t := optionalText(in.DocumentType); t != nil {
		d.DocumentType = strings.ToLower(*t)
	}
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	if err := repo.CreateDocument(ctx, s.DB, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns one of the user's documents or ErrDocumentNotFound.
func (s *DocumentService) Get(ctx context.Context, userID, id uint) (*domain.Document, error) {
	d, err := repo.FindDocumentByID(ctx, s.DB, userID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDocumentNotFound
	}
	return d, nil
}

// List returns the user's documents newest first.
func (s *DocumentService) List(ctx context.Context, userID uint) ([]domain.Document, error) {
	return repo.FindDocumentsByUserID(ctx, s.DB, userID)
}

// Stats fingerprints the user's documents for conditional responses.
func (s *DocumentService) Stats(ctx context.Context, userID uint) (repo.CollectionStats, error) {
	return repo.DocumentsStats(ctx, s.DB, userID)
}

// Search ranks the user's documents against query and returns at most limit
// documents, each with its best-matching passage.
func (s *DocumentService) Search(ctx context.Context, userID uint, query string, limit int) ([]DocumentHit, error) {
	tr := otel.Tracer("services/DocumentService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	query = normalizeText(query)
	if query == "" {
		return nil, invalid("q", "is required")
	}
	limit = clampLimit(limit, s.SearchLimit, 50)

	idx, err := s.indexFor(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	// Several passages can come from one document; over-fetch before grouping.
	results := search.BestPerDocument(idx.TopK(query, limit*8))
	if len(results) > limit {
		results = results[:limit]
	}
	hits := make([]DocumentHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, DocumentHit{DocumentID: r.DocID, Title: r.Title, Snippet: r.Snippet, Score: r.Score})
	}
	span.SetAttributes(attribute.Int("hits", len(hits)))
	return hits, nil
}

func (s *DocumentService) indexFor(ctx context.Context, userID uint) (search.Index, error) {
	st, err := repo.DocumentsStats(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if c, ok := s.indexes.Get(userID); ok && sameStats(c.stats, st) {
		return c.index, nil
	}
	docs, err := repo.FindDocumentsByUserID(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	in := make([]search.Document, 0, len(docs))
	for _, d := range docs {
		in = append(in, search.Document{ID: d.ID, Title: d.Title, Text: d.Content})
	}
	idx := search.NewIndexFromDocuments(in, search.WithStopwords(search.EnglishStopwords))
	s.indexes.Add(userID, cachedIndex{stats: st, index: idx})
	return idx, nil
}

func sameStats(a, b repo.CollectionStats) bool {
	if a.Count != b.Count {
		return false
	}
	if a.MaxUpdatedAt == nil || b.MaxUpdatedAt == nil {
		return a.MaxUpdatedAt == nil && b.MaxUpdatedAt == nil
	}
	return a.MaxUpdatedAt.Equal(*b.MaxUpdatedAt)
}
