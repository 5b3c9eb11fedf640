package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
)

type stubAlbumRepo struct {
	albums     map[string]*domain.Album
	nextID     int
	lastFilter ports.ListAlbumsFilter
	lastCampos map[string]any
}

func newStubAlbumRepo() *stubAlbumRepo {
	return &stubAlbumRepo{albums: make(map[string]*domain.Album), nextID: 1}
}

func cloneAlbum(a *domain.Album) *domain.Album {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAlbumRepo) Create(_ context.Context, album *domain.Album) (*domain.Album, error) {
	copy := cloneAlbum(album)
	copy.ID = strconv.Itoa(r.nextID)
	r.nextID++
	r.albums[copy.ID] = cloneAlbum(copy)
	return cloneAlbum(copy), nil
}

func (r *stubAlbumRepo) FindByID(_ context.Context, id string) (*domain.Album, error) {
	if a, ok := r.albums[id]; ok {
		return cloneAlbum(a), nil
	}
	return nil, domain.ErrAlbumNotFound
}

func (r *stubAlbumRepo) List(_ context.Context, filter ports.ListAlbumsFilter) ([]*domain.Album, int64, error) {
	r.lastFilter = filter
	all := make([]*domain.Album, 0, len(r.albums))
	for _, a := range r.albums {
		all = append(all, cloneAlbum(a))
	}

	start := (filter.Page - 1) * filter.Limit
	if start > len(all) {
		return nil, int64(len(all)), nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *stubAlbumRepo) FindByArtista(_ context.Context, artista string) ([]*domain.Album, error) {
	var out []*domain.Album
	for _, a := range r.albums {
		if a.Artista == artista {
			out = append(out, cloneAlbum(a))
		}
	}
	return out, nil
}

func (r *stubAlbumRepo) FindByCategoria(_ context.Context, _ string) ([]*domain.Album, error) {
	return nil, nil
}

func (r *stubAlbumRepo) Update(_ context.Context, id string, campos map[string]any) (*domain.Album, error) {
	a, ok := r.albums[id]
	if !ok {
		return nil, domain.ErrAlbumNotFound
	}
	r.lastCampos = campos
	if v, ok := campos["precio"].(float64); ok {
		a.Precio = v
	}
	if v, ok := campos["nombreAlbum"].(string); ok {
		a.NombreAlbum = v
	}
	if v, ok := campos["palabrasClave"].([]string); ok {
		a.PalabrasClave = v
	}
	return cloneAlbum(a), nil
}

func (r *stubAlbumRepo) IncrementStock(_ context.Context, id string, cantidad int) (*domain.Album, error) {
	a, ok := r.albums[id]
	if !ok {
		return nil, domain.ErrAlbumNotFound
	}
	a.Stock += cantidad
	return cloneAlbum(a), nil
}

func (r *stubAlbumRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.albums[id]; !ok {
		return domain.ErrAlbumNotFound
	}
	delete(r.albums, id)
	return nil
}

func (r *stubAlbumRepo) Stats(_ context.Context, _ time.Time) (*ports.AlbumStats, error) {
	return &ports.AlbumStats{TotalAlbumes: int64(len(r.albums))}, nil
}

func validCreateInput() ports.CreateAlbumInput {
	return ports.CreateAlbumInput{
		NombreAlbum:      "Face the Sun",
		Artista:          "SEVENTEEN",
		VersionAlbum:     "Deluxe",
		FechaLanzamiento: "2022-05-27",
		Idioma:           []string{"Coreano"},
		Duracion:         "45:30",
		PesoGramos:       "500",
		Precio:           "29.99",
		Stock:            "40",
		Categoria:        []string{"K-Pop"},
		Descripcion:      "Cuarto álbum de estudio con trece pistas.",
		FechaAdquisicion: "2026-08-01",
		FechaLimiteVenta: "2026-12-31",
	}
}

func newAlbumServiceAt(repo ports.AlbumRepository, now time.Time) *AlbumService {
	svc := NewAlbumService(repo, zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc
}

var fixedNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func seedAlbums(t *testing.T, svc *AlbumService, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		input := validCreateInput()
		input.NombreAlbum = "Album " + strconv.Itoa(i)
		if _, err := svc.Create(context.Background(), input); err != nil {
			t.Fatalf("seed create %d failed: %v", i, err)
		}
	}
}

func TestAlbumService_List_PaginationMath(t *testing.T) {
	repo := newStubAlbumRepo()
	svc := newAlbumServiceAt(repo, fixedNow)
	seedAlbums(t, svc, 25)

	res, err := svc.List(context.Background(), ports.ListAlbumsInput{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	p := res.Pagination
	if p.Total != 25 || p.Pages != 3 {
		t.Fatalf("expected total=25 pages=3, got %+v", p)
	}
	if !p.HasNext || !p.HasPrev {
		t.Fatalf("page 2 of 3 must have both neighbours: %+v", p)
	}

	res, _ = svc.List(context.Background(), ports.ListAlbumsInput{Page: 3, Limit: 10})
	if res.Pagination.HasNext || !res.Pagination.HasPrev {
		t.Fatalf("last page flags wrong: %+v", res.Pagination)
	}
	if len(res.Items) != 5 {
		t.Fatalf("expected 5 items on last page, got %d", len(res.Items))
	}
}

func TestAlbumService_List_ClampsPageAndLimit(t *testing.T) {
	repo := newStubAlbumRepo()
	svc := newAlbumServiceAt(repo, fixedNow)
	seedAlbums(t, svc, 3)

	if _, err := svc.List(context.Background(), ports.ListAlbumsInput{Page: -4, Limit: 1000}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Page != 1 || repo.lastFilter.Limit != 100 {
		t.Fatalf("expected clamped page=1 limit=100, got %+v", repo.lastFilter)
	}
	if repo.lastFilter.Now.IsZero() {
		t.Fatalf("expected Now to be stamped on the filter")
	}
}

func TestAlbumService_Create_AggregatesValidation(t *testing.T) {
	svc := newAlbumServiceAt(newStubAlbumRepo(), fixedNow)

	input := validCreateInput()
	input.PesoGramos = "2001"
	input.Precio = "-5"

	_, err := svc.Create(context.Background(), input)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Errores) != 2 {
		t.Fatalf("expected both failures reported, got %v", verr.Errores)
	}
}

func TestAlbumService_Update_RebuildsKeywords(t *testing.T) {
	repo := newStubAlbumRepo()
	svc := newAlbumServiceAt(repo, fixedNow)
	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(context.Background(), created.ID, map[string]any{"nombreAlbum": "Sector 17"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	claves, ok := repo.lastCampos["palabrasClave"].([]string)
	if !ok || claves[0] != "sector 17" {
		t.Fatalf("expected keywords rebuilt from new title, got %v", repo.lastCampos["palabrasClave"])
	}
	if _, ok := repo.lastCampos["updatedAt"]; !ok {
		t.Fatalf("expected updatedAt stamped")
	}
}

func TestAlbumService_Update_PriceOnlyLeavesKeywords(t *testing.T) {
	repo := newStubAlbumRepo()
	svc := newAlbumServiceAt(repo, fixedNow)
	created, _ := svc.Create(context.Background(), validCreateInput())

	if _, err := svc.Update(context.Background(), created.ID, map[string]any{"precio": float64(19.99)}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, ok := repo.lastCampos["palabrasClave"]; ok {
		t.Fatalf("price change must not touch keywords")
	}
}

func TestAlbumService_Update_NotFound(t *testing.T) {
	svc := newAlbumServiceAt(newStubAlbumRepo(), fixedNow)
	if _, err := svc.Update(context.Background(), "nope", map[string]any{"precio": float64(1)}); !errors.Is(err, domain.ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound, got %v", err)
	}
}

func TestAlbumService_AdjustStock(t *testing.T) {
	repo := newStubAlbumRepo()
	svc := newAlbumServiceAt(repo, fixedNow)
	created, _ := svc.Create(context.Background(), validCreateInput()) // stock 40

	album, err := svc.AdjustStock(context.Background(), created.ID, -15)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if album.Stock != 25 {
		t.Fatalf("expected stock 25, got %d", album.Stock)
	}

	_, err = svc.AdjustStock(context.Background(), created.ID, -26)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for negative stock, got %v", err)
	}
	if got, _ := repo.FindByID(context.Background(), created.ID); got.Stock != 25 {
		t.Fatalf("rejected adjustment must not change stock, got %d", got.Stock)
	}
}

func TestAlbumService_Delete_ReturnsSummary(t *testing.T) {
	repo := newStubAlbumRepo()
	svc := newAlbumServiceAt(repo, fixedNow)
	created, _ := svc.Create(context.Background(), validCreateInput())

	deleted, err := svc.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted.ID != created.ID || deleted.NombreAlbum != created.NombreAlbum {
		t.Fatalf("unexpected summary: %+v", deleted)
	}
	if _, err := repo.FindByID(context.Background(), created.ID); !errors.Is(err, domain.ErrAlbumNotFound) {
		t.Fatalf("album should be gone, got %v", err)
	}
}

func TestAlbumService_ByArtista_RequiresValue(t *testing.T) {
	svc := newAlbumServiceAt(newStubAlbumRepo(), fixedNow)
	var verr *domain.ValidationError
	if _, err := svc.ByArtista(context.Background(), "  "); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
