package ports

import (
	"context"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

// CreateAlbumInput carries the raw create fields. The create endpoint is
// multipart, so every scalar arrives as a string; validation normalizes
// numbers and dates and reports all failures at once.
type CreateAlbumInput struct {
	NombreAlbum      string
	Artista          string
	VersionAlbum     string
	FechaLanzamiento string
	Idioma           []string
	Duracion         string
	PesoGramos       string
	Precio           string
	Stock            string
	Categoria        []string
	Descripcion      string
	FotoAlbum        string
	FechaAdquisicion string
	FechaLimiteVenta string
}

// Pagination describes one page of a filtered listing.
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// ListAlbumsInput carries the query parameters accepted by the list and
// search endpoints.
type ListAlbumsInput struct {
	Q          string
	Artista    string
	Categorias []string
	PrecioMin  *float64
	PrecioMax  *float64
	Disponible bool
	Page       int
	Limit      int
}

// ListAlbumsResult is one page of catalog entries.
type ListAlbumsResult struct {
	Items      []*domain.Album
	Pagination Pagination
}

// DeletedAlbum is the summary returned after a hard delete.
type DeletedAlbum struct {
	ID          string `json:"id"`
	NombreAlbum string `json:"nombreAlbum"`
	Artista     string `json:"artista"`
}

// AlbumService defines catalog use-cases.
type AlbumService interface {
	List(ctx context.Context, input ListAlbumsInput) (*ListAlbumsResult, error)
	GetByID(ctx context.Context, id string) (*domain.Album, error)
	Create(ctx context.Context, input CreateAlbumInput) (*domain.Album, error)
	// Update applies a partial patch. Unknown field names reject the whole
	// request; cross-field date rules are re-checked against the stored record.
	Update(ctx context.Context, id string, patch map[string]any) (*domain.Album, error)
	AdjustStock(ctx context.Context, id string, cantidad int) (*domain.Album, error)
	Delete(ctx context.Context, id string) (*DeletedAlbum, error)
	ByArtista(ctx context.Context, artista string) ([]*domain.Album, error)
	ByCategoria(ctx context.Context, categoria string) ([]*domain.Album, error)
	Stats(ctx context.Context) (*AlbumStats, error)
}
