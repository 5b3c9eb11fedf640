package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
)

type stubAlbumService struct {
	album      *domain.Album
	listResult *ports.ListAlbumsResult
	lastInput  ports.ListAlbumsInput
	lastCreate ports.CreateAlbumInput
	lastStock  int
}

func (s *stubAlbumService) List(_ context.Context, input ports.ListAlbumsInput) (*ports.ListAlbumsResult, error) {
	s.lastInput = input
	if s.listResult != nil {
		return s.listResult, nil
	}
	return &ports.ListAlbumsResult{Pagination: ports.Pagination{Page: 1, Limit: 10}}, nil
}

func (s *stubAlbumService) GetByID(_ context.Context, _ string) (*domain.Album, error) {
	if s.album == nil {
		return nil, domain.ErrAlbumNotFound
	}
	return s.album, nil
}

func (s *stubAlbumService) Create(_ context.Context, input ports.CreateAlbumInput) (*domain.Album, error) {
	s.lastCreate = input
	return s.album, nil
}

func (s *stubAlbumService) Update(_ context.Context, _ string, _ map[string]any) (*domain.Album, error) {
	return s.album, nil
}

func (s *stubAlbumService) AdjustStock(_ context.Context, _ string, cantidad int) (*domain.Album, error) {
	s.lastStock = cantidad
	return s.album, nil
}

func (s *stubAlbumService) Delete(_ context.Context, id string) (*ports.DeletedAlbum, error) {
	return &ports.DeletedAlbum{ID: id}, nil
}

func (s *stubAlbumService) ByArtista(_ context.Context, _ string) ([]*domain.Album, error) {
	return []*domain.Album{s.album}, nil
}

func (s *stubAlbumService) ByCategoria(_ context.Context, _ string) ([]*domain.Album, error) {
	return []*domain.Album{s.album}, nil
}

func (s *stubAlbumService) Stats(_ context.Context) (*ports.AlbumStats, error) {
	return &ports.AlbumStats{}, nil
}

func testAlbum() *domain.Album {
	return &domain.Album{
		ID:               "a1",
		NombreAlbum:      "Face the Sun",
		Artista:          "SEVENTEEN",
		Stock:            5,
		FechaLimiteVenta: time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func albumContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestParseListInput_Defaults(t *testing.T) {
	c, _ := albumContext(t, http.MethodGet, "/api/albums", "")
	input, err := parseListInput(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Page != 1 || input.Limit != 10 {
		t.Fatalf("unexpected defaults: %+v", input)
	}
}

func TestParseListInput_PriceBounds(t *testing.T) {
	c, _ := albumContext(t, http.MethodGet, "/api/albums?precioMin=10&precioMax=15", "")
	input, err := parseListInput(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *input.PrecioMin != 10 || *input.PrecioMax != 15 {
		t.Fatalf("bounds not parsed: %+v", input)
	}
}

func TestParseListInput_InvertedRangeRejected(t *testing.T) {
	c, _ := albumContext(t, http.MethodGet, "/api/albums?precioMin=20&precioMax=10", "")
	_, err := parseListInput(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted range, got %v", err)
	}
}

func TestParseListInput_InvalidValues(t *testing.T) {
	for _, target := range []string{
		"/api/albums?page=0",
		"/api/albums?page=abc",
		"/api/albums?limit=0",
		"/api/albums?limit=101",
		"/api/albums?precioMin=-3",
		"/api/albums?precioMax=caro",
	} {
		c, _ := albumContext(t, http.MethodGet, target, "")
		if _, err := parseListInput(c); err == nil {
			t.Fatalf("expected %s to be rejected", target)
		}
	}
}

func TestParseListInput_CategoriasAndDisponible(t *testing.T) {
	c, _ := albumContext(t, http.MethodGet, "/api/albums?categoria=K-Pop,Dance&disponible=true", "")
	input, err := parseListInput(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(input.Categorias) != 2 || !input.Disponible {
		t.Fatalf("filters not parsed: %+v", input)
	}
}

func TestAlbumHandler_List_UnknownFiltersIgnored(t *testing.T) {
	svc := &stubAlbumService{}
	h := NewAlbumHandler(svc, t.TempDir())

	c, rec := albumContext(t, http.MethodGet, "/api/albums?color=azul&page=2", "")
	if err := h.List(c); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastInput.Page != 2 {
		t.Fatalf("known filter lost: %+v", svc.lastInput)
	}
}

func TestAlbumHandler_Get_AddsAvailabilityFields(t *testing.T) {
	h := NewAlbumHandler(&stubAlbumService{album: testAlbum()}, t.TempDir())

	c, rec := albumContext(t, http.MethodGet, "/api/albums/a1", "")
	c.SetParamNames("id")
	c.SetParamValues("a1")

	if err := h.Get(c); err != nil {
		t.Fatalf("get failed: %v", err)
	}

	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Data["disponibleVenta"] != true {
		t.Fatalf("expected disponibleVenta=true, got %v", body.Data["disponibleVenta"])
	}
	if _, ok := body.Data["diasRestantesVenta"]; !ok {
		t.Fatalf("expected diasRestantesVenta in response")
	}
}

func TestAlbumHandler_Create_Multipart(t *testing.T) {
	svc := &stubAlbumService{album: testAlbum()}
	h := NewAlbumHandler(svc, t.TempDir())

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	_ = form.WriteField("nombreAlbum", "Face the Sun")
	_ = form.WriteField("artista", "SEVENTEEN")
	_ = form.WriteField("idioma", "Coreano,Inglés")
	_ = form.WriteField("precio", "29.99")
	_ = form.Close()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/albums", &buf)
	req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(svc.lastCreate.Idioma) != 2 {
		t.Fatalf("comma-separated idioma not split: %+v", svc.lastCreate.Idioma)
	}
	if svc.lastCreate.Precio != "29.99" {
		t.Fatalf("precio not forwarded: %q", svc.lastCreate.Precio)
	}
}

func TestAlbumHandler_UpdateStock_RequiresCantidad(t *testing.T) {
	h := NewAlbumHandler(&stubAlbumService{album: testAlbum()}, t.TempDir())

	c, _ := albumContext(t, http.MethodPatch, "/api/albums/a1/stock", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("a1")

	err := h.UpdateStock(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing cantidad, got %v", err)
	}
}

func TestAlbumHandler_UpdateStock_NegativeAdjustment(t *testing.T) {
	svc := &stubAlbumService{album: testAlbum()}
	h := NewAlbumHandler(svc, t.TempDir())

	c, rec := albumContext(t, http.MethodPatch, "/api/albums/a1/stock", `{"cantidad":-3}`)
	c.SetParamNames("id")
	c.SetParamValues("a1")

	if err := h.UpdateStock(c); err != nil {
		t.Fatalf("update stock failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastStock != -3 {
		t.Fatalf("expected -3 forwarded, got %d", svc.lastStock)
	}
}

func TestAlbumHandler_Delete(t *testing.T) {
	h := NewAlbumHandler(&stubAlbumService{album: testAlbum()}, t.TempDir())

	c, rec := albumContext(t, http.MethodDelete, "/api/albums/a1", "")
	c.SetParamNames("id")
	c.SetParamValues("a1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var body albumDeletedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !body.Success || body.Data.ID != "a1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
