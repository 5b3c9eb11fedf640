package domain

import (
	"strings"
	"time"
)

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Fixed enumerations for catalog entries. The values double as the stored
// representation, so they are kept in the store's original language.
var (
	AlbumVersions = []string{
		"Standard", "Deluxe", "Limited Edition", "Special Edition",
		"Repackage", "Mini Album", "Single",
	}
	AlbumIdiomas = []string{
		"Coreano", "Japonés", "Inglés", "Chino", "Tailandés", "Español", "Otro",
	}
	AlbumCategorias = []string{
		"K-Pop", "J-Pop", "Boy Group", "Girl Group", "Solista",
		"Ballad", "Dance", "R&B", "Hip-Hop", "Rock", "Indie",
	}
)

// Album is the catalog aggregate: a sellable record with pricing, inventory
// and an availability window bounded by FechaLimiteVenta.
type Album struct {
	ID               string    `json:"id"`
	NombreAlbum      string    `json:"nombreAlbum"`
	Artista          string    `json:"artista"`
	VersionAlbum     string    `json:"versionAlbum"`
	FechaLanzamiento time.Time `json:"fechaLanzamiento"`
	Idioma           []string  `json:"idioma"`
	Duracion         string    `json:"duracion"`
	PesoGramos       int       `json:"pesoGramos"`
	Precio           float64   `json:"precio"`
	Stock            int       `json:"stock"`
	Categoria        []string  `json:"categoria"`
	Descripcion      string    `json:"descripcion"`
	FotoAlbum        string    `json:"fotoAlbum"`
	FechaAdquisicion time.Time `json:"fechaAdquisicion"`
	FechaLimiteVenta time.Time `json:"fechaLimiteVenta"`
	PalabrasClave    []string  `json:"palabrasClave,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// StartOfDay truncates t to midnight UTC. All date invariants on the album
// are day-granular, never instant-granular.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DisponibleVenta reports whether the album can be sold right now: stock on
// hand and the sale deadline not yet passed. The deadline day itself still
// counts as sellable.
func (a *Album) DisponibleVenta(now time.Time) bool {
	return a.Stock > 0 && !StartOfDay(now).After(StartOfDay(a.FechaLimiteVenta))
}

// RebuildPalabrasClave regenerates the derived search keywords from the
// title, artist and categories. Called on every write path that touches one
// of those fields.
func (a *Album) RebuildPalabrasClave() {
	claves := make([]string, 0, 2+len(a.Categoria))
	claves = append(claves, lower(a.NombreAlbum), lower(a.Artista))
	for _, cat := range a.Categoria {
		claves = append(claves, lower(cat))
	}
	a.PalabrasClave = claves
}

// DiasRestantesVenta returns the number of days left to sell, rounded up.
// Negative when the deadline has passed.
func (a *Album) DiasRestantesVenta(now time.Time) int {
	diff := a.FechaLimiteVenta.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}
