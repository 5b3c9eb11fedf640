package ports

import (
	"context"
	"time"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

// ListAlbumsFilter carries the normalized query parameters for listing the
// catalog. Zero values mean "no filter"; unknown parameters never reach this
// struct — the handler drops them.
type ListAlbumsFilter struct {
	Query      string   // free-text search; when set, results rank by relevance
	Artista    string   // case-insensitive substring match
	Categorias []string // entry matches if any of its categories is in the set
	PrecioMin  *float64 // inclusive lower bound
	PrecioMax  *float64 // inclusive upper bound
	Disponible bool     // stock > 0 and sale deadline >= Now
	Now        time.Time
	Page       int // 1-based
	Limit      int // capped at 100 by the service
}

// CategoriaCount is one row of the per-category aggregation.
type CategoriaCount struct {
	Categoria string `json:"categoria"`
	Count     int64  `json:"count"`
}

// AlbumStats is the aggregate view behind GET /albums/stats.
type AlbumStats struct {
	TotalAlbumes       int64            `json:"totalAlbumes"`
	AlbumesDisponibles int64            `json:"albumesDisponibles"`
	AlbumesAgotados    int64            `json:"albumesAgotados"`
	PorCategoria       []CategoriaCount `json:"estadisticasPorCategoria"`
	MasCaros           []*domain.Album  `json:"albumesMasCaros"`
}

// AlbumRepository defines persistence operations for catalog entries.
type AlbumRepository interface {
	Create(ctx context.Context, album *domain.Album) (*domain.Album, error)
	FindByID(ctx context.Context, id string) (*domain.Album, error)
	// List returns one page of matching albums plus the total match count.
	List(ctx context.Context, filter ListAlbumsFilter) ([]*domain.Album, int64, error)
	// FindByArtista returns all albums whose artist contains the given
	// substring (case-insensitive), newest release first.
	FindByArtista(ctx context.Context, artista string) ([]*domain.Album, error)
	FindByCategoria(ctx context.Context, categoria string) ([]*domain.Album, error)
	// Update applies the given normalized fields and returns the updated album.
	Update(ctx context.Context, id string, campos map[string]any) (*domain.Album, error)
	// IncrementStock atomically adds cantidad (may be negative) to the stock.
	IncrementStock(ctx context.Context, id string, cantidad int) (*domain.Album, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, now time.Time) (*AlbumStats, error)
}
