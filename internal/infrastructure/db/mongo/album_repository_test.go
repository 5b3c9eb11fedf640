package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/productosnova/kpop-albums-api/internal/core/ports"
)

func TestBuildListFilter_Empty(t *testing.T) {
	filter := buildListFilter(ports.ListAlbumsFilter{})
	if len(filter) != 0 {
		t.Fatalf("expected empty filter, got %v", filter)
	}
}

func TestBuildListFilter_PriceBoundsInclusive(t *testing.T) {
	min, max := 10.0, 15.0
	filter := buildListFilter(ports.ListAlbumsFilter{PrecioMin: &min, PrecioMax: &max})

	precio, ok := filter["precio"].(bson.M)
	if !ok {
		t.Fatalf("expected precio clause, got %v", filter)
	}
	if precio["$gte"] != 10.0 || precio["$lte"] != 15.0 {
		t.Fatalf("expected inclusive bounds, got %v", precio)
	}
}

func TestBuildListFilter_SingleBound(t *testing.T) {
	min := 5.0
	filter := buildListFilter(ports.ListAlbumsFilter{PrecioMin: &min})

	precio := filter["precio"].(bson.M)
	if precio["$gte"] != 5.0 {
		t.Fatalf("expected $gte, got %v", precio)
	}
	if _, ok := precio["$lte"]; ok {
		t.Fatalf("unexpected $lte without a max bound: %v", precio)
	}
}

func TestBuildListFilter_Disponible(t *testing.T) {
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	filter := buildListFilter(ports.ListAlbumsFilter{Disponible: true, Now: now})

	stock, ok := filter["stock"].(bson.M)
	if !ok || stock["$gt"] != 0 {
		t.Fatalf("expected stock $gt 0, got %v", filter)
	}
	limite, ok := filter["fechaLimiteVenta"].(bson.M)
	if !ok || limite["$gte"] != now {
		t.Fatalf("expected deadline $gte now, got %v", filter)
	}
}

func TestBuildListFilter_ArtistaEscapesRegexMeta(t *testing.T) {
	filter := buildListFilter(ports.ListAlbumsFilter{Artista: "A.C.E"})

	artista := filter["artista"].(bson.M)
	if artista["$regex"] != `A\.C\.E` {
		t.Fatalf("regex metacharacters not escaped: %v", artista["$regex"])
	}
	if artista["$options"] != "i" {
		t.Fatalf("expected case-insensitive match, got %v", artista["$options"])
	}
}

func TestBuildListFilter_TextAndCategorias(t *testing.T) {
	filter := buildListFilter(ports.ListAlbumsFilter{
		Query:      "face the sun",
		Categorias: []string{"K-Pop", "Dance"},
	})

	text, ok := filter["$text"].(bson.M)
	if !ok || text["$search"] != "face the sun" {
		t.Fatalf("expected $text clause, got %v", filter)
	}
	categoria := filter["categoria"].(bson.M)
	in, ok := categoria["$in"].([]string)
	if !ok || len(in) != 2 {
		t.Fatalf("expected $in with both categories, got %v", categoria)
	}
}
