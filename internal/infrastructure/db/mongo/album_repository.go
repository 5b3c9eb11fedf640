package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
)

const albumsCollection = "albums"

// AlbumRepository persists catalog entries and owns the translation from the
// normalized filter struct into a Mongo query document.
type AlbumRepository struct {
	coll *mongo.Collection
}

func NewAlbumRepository(db *mongo.Database) *AlbumRepository {
	return &AlbumRepository{coll: db.Collection(albumsCollection)}
}

type albumDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	NombreAlbum      string             `bson:"nombreAlbum"`
	Artista          string             `bson:"artista"`
	VersionAlbum     string             `bson:"versionAlbum"`
	FechaLanzamiento time.Time          `bson:"fechaLanzamiento"`
	Idioma           []string           `bson:"idioma"`
	Duracion         string             `bson:"duracion"`
	PesoGramos       int                `bson:"pesoGramos"`
	Precio           float64            `bson:"precio"`
	Stock            int                `bson:"stock"`
	Categoria        []string           `bson:"categoria"`
	Descripcion      string             `bson:"descripcion"`
	FotoAlbum        string             `bson:"fotoAlbum,omitempty"`
	FechaAdquisicion time.Time          `bson:"fechaAdquisicion"`
	FechaLimiteVenta time.Time          `bson:"fechaLimiteVenta"`
	PalabrasClave    []string           `bson:"palabrasClave,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

func (d *albumDoc) toDomain() *domain.Album {
	return &domain.Album{
		ID:               d.ID.Hex(),
		NombreAlbum:      d.NombreAlbum,
		Artista:          d.Artista,
		VersionAlbum:     d.VersionAlbum,
		FechaLanzamiento: d.FechaLanzamiento,
		Idioma:           d.Idioma,
		Duracion:         d.Duracion,
		PesoGramos:       d.PesoGramos,
		Precio:           d.Precio,
		Stock:            d.Stock,
		Categoria:        d.Categoria,
		Descripcion:      d.Descripcion,
		FotoAlbum:        d.FotoAlbum,
		FechaAdquisicion: d.FechaAdquisicion,
		FechaLimiteVenta: d.FechaLimiteVenta,
		PalabrasClave:    d.PalabrasClave,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func fromDomain(a *domain.Album) albumDoc {
	return albumDoc{
		NombreAlbum:      a.NombreAlbum,
		Artista:          a.Artista,
		VersionAlbum:     a.VersionAlbum,
		FechaLanzamiento: a.FechaLanzamiento,
		Idioma:           a.Idioma,
		Duracion:         a.Duracion,
		PesoGramos:       a.PesoGramos,
		Precio:           a.Precio,
		Stock:            a.Stock,
		Categoria:        a.Categoria,
		Descripcion:      a.Descripcion,
		FotoAlbum:        a.FotoAlbum,
		FechaAdquisicion: a.FechaAdquisicion,
		FechaLimiteVenta: a.FechaLimiteVenta,
		PalabrasClave:    a.PalabrasClave,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// buildListFilter translates the normalized filter into a Mongo query
// document. Empty fields contribute nothing.
func buildListFilter(f ports.ListAlbumsFilter) bson.M {
	filter := bson.M{}

	if f.Query != "" {
		filter["$text"] = bson.M{"$search": f.Query}
	}
	if f.Artista != "" {
		filter["artista"] = bson.M{
			"$regex":   regexp.QuoteMeta(f.Artista),
			"$options": "i",
		}
	}
	if len(f.Categorias) > 0 {
		filter["categoria"] = bson.M{"$in": f.Categorias}
	}
	if f.Disponible {
		filter["stock"] = bson.M{"$gt": 0}
		filter["fechaLimiteVenta"] = bson.M{"$gte": f.Now}
	}
	if f.PrecioMin != nil || f.PrecioMax != nil {
		precio := bson.M{}
		if f.PrecioMin != nil {
			precio["$gte"] = *f.PrecioMin
		}
		if f.PrecioMax != nil {
			precio["$lte"] = *f.PrecioMax
		}
		filter["precio"] = precio
	}

	return filter
}

func (r *AlbumRepository) Create(ctx context.Context, album *domain.Album) (*domain.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, fromDomain(album))
	if err != nil {
		return nil, fmt.Errorf("insert album: %w", err)
	}

	created := *album
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AlbumRepository) FindByID(ctx context.Context, id string) (*domain.Album, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc albumDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAlbumNotFound
		}
		return nil, fmt.Errorf("find album: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns one page of matches plus the total count. When a free-text
// query is present, results rank by text relevance; otherwise newest first.
func (r *AlbumRepository) List(ctx context.Context, f ports.ListAlbumsFilter) ([]*domain.Album, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := buildListFilter(f)

	opts := options.Find().
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))
	if f.Query != "" {
		opts.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}})
		opts.SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})
	} else {
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list albums: %w", err)
	}
	defer cur.Close(ctx)

	albums, err := decodeAlbums(ctx, cur)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count albums: %w", err)
	}
	return albums, total, nil
}

func (r *AlbumRepository) FindByArtista(ctx context.Context, artista string) ([]*domain.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"artista": bson.M{
		"$regex":   regexp.QuoteMeta(artista),
		"$options": "i",
	}}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "fechaLanzamiento", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find by artista: %w", err)
	}
	defer cur.Close(ctx)
	return decodeAlbums(ctx, cur)
}

func (r *AlbumRepository) FindByCategoria(ctx context.Context, categoria string) ([]*domain.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"categoria": bson.M{"$in": []string{categoria}}}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find by categoria: %w", err)
	}
	defer cur.Close(ctx)
	return decodeAlbums(ctx, cur)
}

func (r *AlbumRepository) Update(ctx context.Context, id string, campos map[string]any) (*domain.Album, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	for campo, valor := range campos {
		set[campo] = valor
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc albumDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAlbumNotFound
		}
		return nil, fmt.Errorf("update album: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AlbumRepository) IncrementStock(ctx context.Context, id string, cantidad int) (*domain.Album, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"stock": cantidad},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc albumDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAlbumNotFound
		}
		return nil, fmt.Errorf("increment stock: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAlbumNotFound
	}
	return nil
}

// Stats computes the aggregate counts for the stats endpoint: totals,
// availability split, per-category counts and the five priciest entries.
func (r *AlbumRepository) Stats(ctx context.Context, now time.Time) (*ports.AlbumStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count total: %w", err)
	}

	disponibles, err := r.coll.CountDocuments(ctx, bson.M{
		"stock":            bson.M{"$gt": 0},
		"fechaLimiteVenta": bson.M{"$gte": now},
	})
	if err != nil {
		return nil, fmt.Errorf("count disponibles: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$categoria"}},
		{{Key: "$group", Value: bson.M{"_id": "$categoria", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate categorias: %w", err)
	}
	defer cur.Close(ctx)

	var porCategoria []ports.CategoriaCount
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode categoria count: %w", err)
		}
		porCategoria = append(porCategoria, ports.CategoriaCount{Categoria: row.ID, Count: row.Count})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	carosCur, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "precio", Value: -1}}).SetLimit(5))
	if err != nil {
		return nil, fmt.Errorf("find mas caros: %w", err)
	}
	defer carosCur.Close(ctx)

	masCaros, err := decodeAlbums(ctx, carosCur)
	if err != nil {
		return nil, err
	}

	return &ports.AlbumStats{
		TotalAlbumes:       total,
		AlbumesDisponibles: disponibles,
		AlbumesAgotados:    total - disponibles,
		PorCategoria:       porCategoria,
		MasCaros:           masCaros,
	}, nil
}

// EnsureIndexes creates the text index that powers free-text search and the
// single-field indexes behind the common filters.
func (r *AlbumRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "nombreAlbum", Value: "text"},
			{Key: "artista", Value: "text"},
			{Key: "descripcion", Value: "text"},
		}},
		{Keys: bson.D{{Key: "artista", Value: 1}}},
		{Keys: bson.D{{Key: "categoria", Value: 1}}},
		{Keys: bson.D{{Key: "precio", Value: 1}}},
		{Keys: bson.D{{Key: "fechaLanzamiento", Value: 1}}},
		{Keys: bson.D{{Key: "stock", Value: 1}}},
	})
	return err
}

func decodeAlbums(ctx context.Context, cur *mongo.Cursor) ([]*domain.Album, error) {
	var albums []*domain.Album
	for cur.Next(ctx) {
		var doc albumDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode album: %w", err)
		}
		albums = append(albums, doc.toDomain())
	}
	return albums, cur.Err()
}
