package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/productosnova/kpop-albums-api/internal/api/metrics"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
)

const maxUploadBytes = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// AlbumHandler handles HTTP requests for the catalog.
type AlbumHandler struct {
	albums    ports.AlbumService
	uploadDir string
	now       func() time.Time
}

func NewAlbumHandler(albums ports.AlbumService, uploadDir string) *AlbumHandler {
	return &AlbumHandler{albums: albums, uploadDir: uploadDir, now: time.Now}
}

// --- Request / Response types ---

type stockRequest struct {
	Cantidad *int `json:"cantidad" validate:"required"`
}

type albumPageResponse struct {
	Success    bool             `json:"success"`
	Data       []albumView      `json:"data"`
	Pagination ports.Pagination `json:"pagination"`
}

type albumResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    albumView `json:"data"`
}

type albumsResponse struct {
	Success bool        `json:"success"`
	Total   int         `json:"total"`
	Data    []albumView `json:"data"`
}

type albumDeletedResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *ports.DeletedAlbum `json:"data"`
}

type albumStatsResponse struct {
	Success bool              `json:"success"`
	Data    *ports.AlbumStats `json:"data"`
}

// List returns one page of the catalog, optionally filtered.
//
// @Summary      Listar y buscar álbumes
// @Tags         albums
// @Produce      json
// @Security     BearerAuth
// @Param        q           query     string  false  "Búsqueda por texto"
// @Param        artista     query     string  false  "Filtro por artista"
// @Param        categoria   query     string  false  "Categorías separadas por coma"
// @Param        precioMin   query     number  false  "Precio mínimo (inclusivo)"
// @Param        precioMax   query     number  false  "Precio máximo (inclusivo)"
// @Param        disponible  query     bool    false  "Sólo álbumes disponibles para venta"
// @Param        page        query     int     false  "Página (desde 1)"
// @Param        limit       query     int     false  "Resultados por página (1-100)"
// @Success      200         {object}  albumPageResponse
// @Failure      400         {object}  map[string]any
// @Router       /api/albums [get]
func (h *AlbumHandler) List(c echo.Context) error {
	input, err := parseListInput(c)
	if err != nil {
		return err
	}

	result, err := h.albums.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, albumPageResponse{
		Success:    true,
		Data:       toAlbumViews(result.Items, h.now()),
		Pagination: result.Pagination,
	})
}

// Get returns a single album by id.
//
// @Summary      Obtener un álbum
// @Tags         albums
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID del álbum"
// @Success      200  {object}  albumResponse
// @Failure      404  {object}  map[string]any
// @Router       /api/albums/{id} [get]
func (h *AlbumHandler) Get(c echo.Context) error {
	album, err := h.albums.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, albumResponse{Success: true, Data: toAlbumView(album, h.now())})
}

// Create adds a catalog entry from a multipart form, cover image included.
// Every field rule runs and all failures come back in one response.
//
// @Summary      Crear un álbum
// @Tags         albums
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        nombreAlbum  formData  string  true   "Nombre del álbum"
// @Param        artista      formData  string  true   "Artista"
// @Param        fotoAlbum    formData  file    false  "Portada (jpg, jpeg, png, gif, webp, máx 5MB)"
// @Success      201          {object}  albumResponse
// @Failure      400          {object}  map[string]any
// @Router       /api/albums [post]
func (h *AlbumHandler) Create(c echo.Context) error {
	foto, err := h.saveUpload(c)
	if err != nil {
		return err
	}

	album, err := h.albums.Create(c.Request().Context(), ports.CreateAlbumInput{
		NombreAlbum:      c.FormValue("nombreAlbum"),
		Artista:          c.FormValue("artista"),
		VersionAlbum:     c.FormValue("versionAlbum"),
		FechaLanzamiento: c.FormValue("fechaLanzamiento"),
		Idioma:           formList(c, "idioma"),
		Duracion:         c.FormValue("duracion"),
		PesoGramos:       c.FormValue("pesoGramos"),
		Precio:           c.FormValue("precio"),
		Stock:            c.FormValue("stock"),
		Categoria:        formList(c, "categoria"),
		Descripcion:      c.FormValue("descripcion"),
		FotoAlbum:        foto,
		FechaAdquisicion: c.FormValue("fechaAdquisicion"),
		FechaLimiteVenta: c.FormValue("fechaLimiteVenta"),
	})
	if err != nil {
		return err
	}

	metrics.AlbumWritesTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, albumResponse{
		Success: true,
		Message: "Álbum creado exitosamente",
		Data:    toAlbumView(album, h.now()),
	})
}

// Update applies a partial patch. Unknown field names reject the whole
// request.
//
// @Summary      Actualizar un álbum
// @Tags         albums
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "ID del álbum"
// @Param        body  body      map[string]any  true  "Campos a actualizar"
// @Success      200   {object}  albumResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/albums/{id} [patch]
func (h *AlbumHandler) Update(c echo.Context) error {
	patch := map[string]any{}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	album, err := h.albums.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}

	metrics.AlbumWritesTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, albumResponse{
		Success: true,
		Message: "Álbum actualizado exitosamente",
		Data:    toAlbumView(album, h.now()),
	})
}

// UpdateStock applies a relative stock adjustment.
//
// @Summary      Ajustar stock
// @Tags         albums
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "ID del álbum"
// @Param        body  body      stockRequest  true  "Cantidad a sumar (puede ser negativa)"
// @Success      200   {object}  albumResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/albums/{id}/stock [patch]
func (h *AlbumHandler) UpdateStock(c echo.Context) error {
	var req stockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	album, err := h.albums.AdjustStock(c.Request().Context(), c.Param("id"), *req.Cantidad)
	if err != nil {
		return err
	}

	metrics.AlbumWritesTotal.WithLabelValues("stock").Inc()
	return c.JSON(http.StatusOK, albumResponse{
		Success: true,
		Message: "Stock actualizado exitosamente",
		Data:    toAlbumView(album, h.now()),
	})
}

// Delete removes an album permanently.
//
// @Summary      Eliminar un álbum
// @Tags         albums
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID del álbum"
// @Success      200  {object}  albumDeletedResponse
// @Failure      404  {object}  map[string]any
// @Router       /api/albums/{id} [delete]
func (h *AlbumHandler) Delete(c echo.Context) error {
	deleted, err := h.albums.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.AlbumWritesTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, albumDeletedResponse{
		Success: true,
		Message: "Álbum eliminado exitosamente",
		Data:    deleted,
	})
}

// ByArtista lists every album whose artist matches, newest release first.
//
// @Summary      Álbumes por artista
// @Tags         albums
// @Produce      json
// @Security     BearerAuth
// @Param        artista  path      string  true  "Nombre (o parte) del artista"
// @Success      200      {object}  albumsResponse
// @Router       /api/albums/artista/{artista} [get]
func (h *AlbumHandler) ByArtista(c echo.Context) error {
	items, err := h.albums.ByArtista(c.Request().Context(), c.Param("artista"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, albumsResponse{
		Success: true,
		Total:   len(items),
		Data:    toAlbumViews(items, h.now()),
	})
}

// ByCategoria lists every album carrying the given category.
//
// @Summary      Álbumes por categoría
// @Tags         albums
// @Produce      json
// @Security     BearerAuth
// @Param        categoria  path      string  true  "Categoría exacta"
// @Success      200        {object}  albumsResponse
// @Router       /api/albums/categoria/{categoria} [get]
func (h *AlbumHandler) ByCategoria(c echo.Context) error {
	items, err := h.albums.ByCategoria(c.Request().Context(), c.Param("categoria"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, albumsResponse{
		Success: true,
		Total:   len(items),
		Data:    toAlbumViews(items, h.now()),
	})
}

// Stats returns catalog-wide aggregates.
//
// @Summary      Estadísticas del catálogo
// @Tags         albums
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  albumStatsResponse
// @Router       /api/albums/stats [get]
func (h *AlbumHandler) Stats(c echo.Context) error {
	stats, err := h.albums.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, albumStatsResponse{Success: true, Data: stats})
}

// parseListInput validates the listing query parameters. Price bound errors
// are reported before any query runs; an inverted range is rejected even when
// both bounds are otherwise valid.
func parseListInput(c echo.Context) (ports.ListAlbumsInput, error) {
	input := ports.ListAlbumsInput{
		Q:          c.QueryParam("q"),
		Artista:    c.QueryParam("artista"),
		Categorias: splitList(c.QueryParam("categoria")),
		Disponible: c.QueryParam("disponible") == "true",
		Page:       1,
		Limit:      10,
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return input, echo.NewHTTPError(http.StatusBadRequest, "El número de página debe ser un entero positivo")
		}
		input.Page = page
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			return input, echo.NewHTTPError(http.StatusBadRequest, "El límite debe estar entre 1 y 100")
		}
		input.Limit = limit
	}

	if raw := c.QueryParam("precioMin"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil || min < 0 {
			return input, echo.NewHTTPError(http.StatusBadRequest, "El precio mínimo debe ser un número positivo")
		}
		input.PrecioMin = &min
	}
	if raw := c.QueryParam("precioMax"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil || max < 0 {
			return input, echo.NewHTTPError(http.StatusBadRequest, "El precio máximo debe ser un número positivo")
		}
		input.PrecioMax = &max
	}
	if input.PrecioMin != nil && input.PrecioMax != nil && *input.PrecioMin > *input.PrecioMax {
		return input, echo.NewHTTPError(http.StatusBadRequest, "El precio mínimo no puede ser mayor al precio máximo")
	}

	return input, nil
}

// formList reads a multi-value form field, also accepting a single
// comma-separated value.
func formList(c echo.Context, field string) []string {
	form, err := c.FormParams()
	if err != nil {
		return nil
	}
	values := form[field]
	if len(values) == 1 {
		return splitList(values[0])
	}
	items := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			items = append(items, v)
		}
	}
	return items
}

// saveUpload stores the optional cover image under a random name and returns
// its public path. A missing file is not an error.
func (h *AlbumHandler) saveUpload(c echo.Context) (string, error) {
	header, err := c.FormFile("fotoAlbum")
	if err != nil {
		return "", nil
	}

	if header.Size > maxUploadBytes {
		return "", echo.NewHTTPError(http.StatusBadRequest, "La imagen no debe superar los 5MB")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Formato de imagen no permitido (jpg, jpeg, png, gif, webp)")
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	metrics.UploadBytes.Observe(float64(header.Size))
	return "/uploads/" + name, nil
}
