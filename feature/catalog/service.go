package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"library-rental/core/cache"
	"library-rental/core/errs"
	"library-rental/core/storage"
	"library-rental/feature/catalog/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultPageSize is the page size used when the caller does not pass one.
const DefaultPageSize = 10

// Service serves catalog reads with cache-aside acceleration and owns the
// book cover objects in storage.
type Service struct {
	db      *gorm.DB
	cache   cache.Store
	storage storage.Client
	bucket  string
	logger  *zap.Logger
	sf      singleflight.Group
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB, cacheStore cache.Store, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		db:      db,
		cache:   cacheStore,
		storage: client,
		bucket:  bucket,
		logger:  logger,
	}
}

// ListBooks returns one page of the catalog ordered by newest first.
// The cursor is an opaque offset token; after=c resumes at offset c+1.
// Pages are cached per (pageSize, cursor); list caches are allowed to go
// stale until TTL expiry, they are never invalidated on writes.
func (s *Service) ListBooks(ctx context.Context, first int, after string) (*models.BookConnection, error) {
	if first <= 0 {
		first = DefaultPageSize
	}

	skip := 0
	if after != "" {
		offset, err := strconv.Atoi(after)
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("invalid cursor %q: %w", after, errs.ErrNotFound)
		}
		skip = offset + 1
	}

	key := cache.BooksPageKey(first, after)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var conn models.BookConnection
		if uerr := json.Unmarshal(data, &conn); uerr == nil {
			return &conn, nil
		}
		s.logger.Warn("Discarding corrupt cache entry", zap.String("key", key))
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("Cache read failed, falling back to store", zap.String("key", key), zap.Error(err))
	}

	// singleflight keeps concurrent misses for the same page from stampeding
	// the store.
	result, err, _ := s.sf.Do(key, func() (any, error) {
		return s.loadBooksPage(ctx, key, first, skip)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.BookConnection), nil
}

func (s *Service) loadBooksPage(ctx context.Context, key string, first, skip int) (*models.BookConnection, error) {
	var books []models.Book
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(skip).
		Limit(first + 1). // one extra row decides hasNextPage
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	hasNextPage := len(books) > first
	if hasNextPage {
		books = books[:first]
	}

	var totalCount int64
	if err := s.db.WithContext(ctx).Model(&models.Book{}).Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	edges := make([]models.BookEdge, 0, len(books))
	for i := range books {
		edges = append(edges, models.BookEdge{
			Node:   books[i].View(),
			Cursor: strconv.Itoa(skip + i),
		})
	}

	pageInfo := models.PageInfo{
		HasNextPage:     hasNextPage,
		HasPreviousPage: skip > 0,
	}
	if skip > 0 {
		start := strconv.Itoa(skip)
		pageInfo.StartCursor = &start
	}
	if len(edges) > 0 {
		end := edges[len(edges)-1].Cursor
		pageInfo.EndCursor = &end
	}

	conn := &models.BookConnection{
		Edges:      edges,
		PageInfo:   pageInfo,
		TotalCount: int(totalCount),
	}

	if data, err := json.Marshal(conn); err == nil {
		if serr := s.cache.Set(ctx, key, data, cache.DefaultTTL); serr != nil {
			s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(serr))
		}
	}

	return conn, nil
}

// GetBook returns a single book by id, cache-aside per entity id.
// The point-read key is invalidated synchronously by every write that changes
// the book's visible fields, so this read never trails its own writes.
func (s *Service) GetBook(ctx context.Context, id string) (*models.BookView, error) {
	key := cache.BookKey(id)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var view models.BookView
		if uerr := json.Unmarshal(data, &view); uerr == nil {
			return &view, nil
		}
		s.logger.Warn("Discarding corrupt cache entry", zap.String("key", key))
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("Cache read failed, falling back to store", zap.String("key", key), zap.Error(err))
	}

	var book models.Book
	if err := s.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %s: %w", id, errs.ErrNotFound)
		}
		return nil, err
	}

	view := book.View()
	if data, err := json.Marshal(view); err == nil {
		if serr := s.cache.Set(ctx, key, data, cache.DefaultTTL); serr != nil {
			s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(serr))
		}
	}
	return view, nil
}

// UploadCover stores a cover image for the book and records its serving path.
func (s *Service) UploadCover(ctx context.Context, bookID string, r io.Reader, size int64, contentType string) (*models.BookView, error) {
	var book models.Book
	if err := s.db.WithContext(ctx).First(&book, "id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %s: %w", bookID, errs.ErrNotFound)
		}
		return nil, err
	}

	objectName := coverObjectName(bookID)
	_, err := s.storage.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store cover for book %s: %w", bookID, err)
	}

	coverPath := "/books/" + bookID + "/cover"
	if err := s.db.WithContext(ctx).Model(&book).Update("cover_image", coverPath).Error; err != nil {
		return nil, fmt.Errorf("failed to record cover for book %s: %w", bookID, err)
	}
	book.CoverImage = &coverPath

	// The cover changes a cached visible field.
	if err := s.cache.Del(ctx, cache.BookKey(bookID)); err != nil {
		s.logger.Warn("Cache invalidation failed, stale entry until TTL",
			zap.String("key", cache.BookKey(bookID)), zap.Error(err))
	}

	return book.View(), nil
}

// GetCover streams the stored cover image for the book.
func (s *Service) GetCover(ctx context.Context, bookID string) (io.ReadCloser, error) {
	var book models.Book
	if err := s.db.WithContext(ctx).First(&book, "id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %s: %w", bookID, errs.ErrNotFound)
		}
		return nil, err
	}
	if book.CoverImage == nil {
		return nil, fmt.Errorf("cover for book %s: %w", bookID, errs.ErrNotFound)
	}

	rc, err := s.storage.GetObject(ctx, s.bucket, coverObjectName(bookID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read cover for book %s: %w", bookID, err)
	}
	return rc, nil
}

func coverObjectName(bookID string) string {
	return "covers/" + bookID
}
