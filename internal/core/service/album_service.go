package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
	"github.com/productosnova/kpop-albums-api/internal/core/validate"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// AlbumService implements the catalog use-cases.
type AlbumService struct {
	repo   ports.AlbumRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewAlbumService(repo ports.AlbumRepository, logger zerolog.Logger) *AlbumService {
	return &AlbumService{repo: repo, logger: logger, now: time.Now}
}

// List returns one page of the catalog. Page and limit are clamped here so
// the repository never sees out-of-range pagination.
func (s *AlbumService) List(ctx context.Context, input ports.ListAlbumsInput) (*ports.ListAlbumsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListAlbumsFilter{
		Query:      strings.TrimSpace(input.Q),
		Artista:    strings.TrimSpace(input.Artista),
		Categorias: input.Categorias,
		PrecioMin:  input.PrecioMin,
		PrecioMax:  input.PrecioMax,
		Disponible: input.Disponible,
		Now:        s.now().UTC(),
		Page:       page,
		Limit:      limit,
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListAlbumsResult{
		Items: items,
		Pagination: ports.Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			Pages:   pages,
			HasNext: page < pages,
			HasPrev: page > 1,
		},
	}, nil
}

func (s *AlbumService) GetByID(ctx context.Context, id string) (*domain.Album, error) {
	return s.repo.FindByID(ctx, id)
}

// Create runs every create-mode rule, aggregating all failures, then persists.
func (s *AlbumService) Create(ctx context.Context, input ports.CreateAlbumInput) (*domain.Album, error) {
	album, verr := validate.NewAlbum(input, s.now())
	if verr != nil {
		return nil, verr
	}

	now := s.now().UTC()
	album.CreatedAt = now
	album.UpdatedAt = now

	created, err := s.repo.Create(ctx, album)
	if err != nil {
		s.logger.Error().Err(err).Msg("no se pudo crear el álbum")
		return nil, err
	}

	s.logger.Info().Str("id", created.ID).Str("nombreAlbum", created.NombreAlbum).Msg("álbum creado")
	return created, nil
}

// Update applies a partial patch. The stored record is fetched first so the
// cross-field date rules can be evaluated even when only one side of a pair
// is present in the patch.
func (s *AlbumService) Update(ctx context.Context, id string, patch map[string]any) (*domain.Album, error) {
	existente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	campos, verr := validate.AlbumPatch(patch, existente, s.now())
	if verr != nil {
		return nil, verr
	}

	// Derived keywords follow the title, artist and categories.
	if keywordsTouched(campos) {
		merged := *existente
		if v, ok := campos["nombreAlbum"].(string); ok {
			merged.NombreAlbum = v
		}
		if v, ok := campos["artista"].(string); ok {
			merged.Artista = v
		}
		if v, ok := campos["categoria"].([]string); ok {
			merged.Categoria = v
		}
		merged.RebuildPalabrasClave()
		campos["palabrasClave"] = merged.PalabrasClave
	}
	campos["updatedAt"] = s.now().UTC()

	updated, err := s.repo.Update(ctx, id, campos)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", id).Int("campos", len(patch)).Msg("álbum actualizado")
	return updated, nil
}

// AdjustStock applies a relative stock change, rejecting any adjustment that
// would leave the count negative.
func (s *AlbumService) AdjustStock(ctx context.Context, id string, cantidad int) (*domain.Album, error) {
	existente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existente.Stock+cantidad < 0 {
		return nil, domain.NewValidationError("El stock no puede quedar negativo")
	}

	return s.repo.IncrementStock(ctx, id, cantidad)
}

// Delete removes the album permanently and returns a summary of what was lost.
func (s *AlbumService) Delete(ctx context.Context, id string) (*ports.DeletedAlbum, error) {
	album, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", id).Str("nombreAlbum", album.NombreAlbum).Msg("álbum eliminado")
	return &ports.DeletedAlbum{
		ID:          album.ID,
		NombreAlbum: album.NombreAlbum,
		Artista:     album.Artista,
	}, nil
}

func (s *AlbumService) ByArtista(ctx context.Context, artista string) ([]*domain.Album, error) {
	artista = strings.TrimSpace(artista)
	if artista == "" {
		return nil, domain.NewValidationError("El artista es requerido")
	}
	return s.repo.FindByArtista(ctx, artista)
}

func (s *AlbumService) ByCategoria(ctx context.Context, categoria string) ([]*domain.Album, error) {
	categoria = strings.TrimSpace(categoria)
	if categoria == "" {
		return nil, domain.NewValidationError("La categoría es requerida")
	}
	return s.repo.FindByCategoria(ctx, categoria)
}

func (s *AlbumService) Stats(ctx context.Context) (*ports.AlbumStats, error) {
	return s.repo.Stats(ctx, s.now().UTC())
}

func keywordsTouched(campos map[string]any) bool {
	for _, campo := range []string{"nombreAlbum", "artista", "categoria"} {
		if _, ok := campos[campo]; ok {
			return true
		}
	}
	return false
}
