package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
)

const (
	nombreMin      = 2
	nombreMax      = 100
	artistaMin     = 2
	artistaMax     = 80
	pesoMin        = 1
	pesoMax        = 2000
	stockMax       = 10000
	descripcionMin = 10
	descripcionMax = 500
)

// albumPatchFields is the allow-list for PATCH /albums/:id. Any other field
// name rejects the whole request.
var albumPatchFields = map[string]bool{
	"nombreAlbum": true, "artista": true, "versionAlbum": true,
	"fechaLanzamiento": true, "idioma": true, "duracion": true,
	"pesoGramos": true, "precio": true, "stock": true, "categoria": true,
	"descripcion": true, "fotoAlbum": true, "fechaAdquisicion": true,
	"fechaLimiteVenta": true,
}

// NewAlbum validates every create-mode rule and collects all failures into a
// single error, so the caller gets complete feedback in one round trip. On
// success the fully built aggregate is returned with derived keywords set.
func NewAlbum(input ports.CreateAlbumInput, now time.Time) (*domain.Album, *domain.ValidationError) {
	var errores []string
	hoy := domain.StartOfDay(now)
	album := &domain.Album{FotoAlbum: strings.TrimSpace(input.FotoAlbum)}

	album.NombreAlbum = strings.TrimSpace(input.NombreAlbum)
	switch n := utf8.RuneCountInString(album.NombreAlbum); {
	case n == 0:
		errores = append(errores, "El campo 'nombreAlbum' es requerido")
	case n < nombreMin || n > nombreMax:
		errores = append(errores, fmt.Sprintf("El nombre del álbum debe tener entre %d y %d caracteres", nombreMin, nombreMax))
	}

	album.Artista = strings.TrimSpace(input.Artista)
	switch n := utf8.RuneCountInString(album.Artista); {
	case n == 0:
		errores = append(errores, "El campo 'artista' es requerido")
	case n < artistaMin || n > artistaMax:
		errores = append(errores, fmt.Sprintf("El nombre del artista debe tener entre %d y %d caracteres", artistaMin, artistaMax))
	}

	album.VersionAlbum = strings.TrimSpace(input.VersionAlbum)
	if album.VersionAlbum == "" {
		errores = append(errores, "El campo 'versionAlbum' es requerido")
	} else if !contains(domain.AlbumVersions, album.VersionAlbum) {
		errores = append(errores, "La versión debe ser: "+strings.Join(domain.AlbumVersions, ", "))
	}

	var lanzamientoOK bool
	if strings.TrimSpace(input.FechaLanzamiento) == "" {
		errores = append(errores, "El campo 'fechaLanzamiento' es requerido")
	} else if album.FechaLanzamiento, lanzamientoOK = parseFecha(input.FechaLanzamiento); !lanzamientoOK {
		errores = append(errores, "La fecha de lanzamiento no es válida")
	} else if album.FechaLanzamiento.After(hoy) {
		lanzamientoOK = false
		errores = append(errores, "La fecha de lanzamiento no puede ser futura")
	}

	album.Idioma = normalizeSet(input.Idioma)
	if len(album.Idioma) == 0 {
		errores = append(errores, "Debe especificar al menos un idioma")
	} else if invalidos := outsideEnum(album.Idioma, domain.AlbumIdiomas); len(invalidos) > 0 {
		errores = append(errores, "Idiomas no válidos: "+strings.Join(invalidos, ", "))
	}

	album.Duracion = strings.TrimSpace(input.Duracion)
	if album.Duracion == "" {
		errores = append(errores, "El campo 'duracion' es requerido")
	} else if !duracionRe.MatchString(album.Duracion) {
		errores = append(errores, "La duración debe estar en formato MM:SS o HH:MM:SS")
	}

	if strings.TrimSpace(input.PesoGramos) == "" {
		errores = append(errores, "El campo 'pesoGramos' es requerido")
	} else if peso, ok := asInt(input.PesoGramos); !ok || peso < pesoMin || peso > pesoMax {
		errores = append(errores, fmt.Sprintf("El peso debe ser un número entre %d y %d gramos", pesoMin, pesoMax))
	} else {
		album.PesoGramos = peso
	}

	if strings.TrimSpace(input.Precio) == "" {
		errores = append(errores, "El campo 'precio' es requerido")
	} else if precio, ok := asFloat(input.Precio); !ok || precio <= 0 {
		errores = append(errores, "El precio debe ser un número mayor a 0")
	} else {
		album.Precio = precio
	}

	if strings.TrimSpace(input.Stock) == "" {
		errores = append(errores, "El campo 'stock' es requerido")
	} else if stock, ok := asInt(input.Stock); !ok || stock < 0 || stock > stockMax {
		errores = append(errores, fmt.Sprintf("El stock debe ser un número entre 0 y %d", stockMax))
	} else {
		album.Stock = stock
	}

	album.Categoria = normalizeSet(input.Categoria)
	if len(album.Categoria) == 0 {
		errores = append(errores, "Debe especificar al menos una categoría")
	} else if invalidas := outsideEnum(album.Categoria, domain.AlbumCategorias); len(invalidas) > 0 {
		errores = append(errores, "Categorías no válidas: "+strings.Join(invalidas, ", "))
	}

	album.Descripcion = strings.TrimSpace(input.Descripcion)
	switch n := utf8.RuneCountInString(album.Descripcion); {
	case n == 0:
		errores = append(errores, "El campo 'descripcion' es requerido")
	case n < descripcionMin || n > descripcionMax:
		errores = append(errores, fmt.Sprintf("La descripción debe tener entre %d y %d caracteres", descripcionMin, descripcionMax))
	}

	var adquisicionOK bool
	if strings.TrimSpace(input.FechaAdquisicion) == "" {
		errores = append(errores, "El campo 'fechaAdquisicion' es requerido")
	} else if album.FechaAdquisicion, adquisicionOK = parseFecha(input.FechaAdquisicion); !adquisicionOK {
		errores = append(errores, "La fecha de adquisición no es válida")
	} else if album.FechaAdquisicion.After(hoy) {
		adquisicionOK = false
		errores = append(errores, "La fecha de adquisición no puede ser futura")
	} else if lanzamientoOK && album.FechaAdquisicion.Before(album.FechaLanzamiento) {
		adquisicionOK = false
		errores = append(errores, "La fecha de adquisición no puede ser anterior a la fecha de lanzamiento")
	}

	if strings.TrimSpace(input.FechaLimiteVenta) == "" {
		errores = append(errores, "El campo 'fechaLimiteVenta' es requerido")
	} else if limite, ok := parseFecha(input.FechaLimiteVenta); !ok {
		errores = append(errores, "La fecha límite de venta no es válida")
	} else if !limite.After(hoy) {
		errores = append(errores, "La fecha límite de venta debe ser una fecha futura")
	} else if adquisicionOK && !limite.After(album.FechaAdquisicion) {
		errores = append(errores, "La fecha límite de venta debe ser posterior a la fecha de adquisición")
	} else {
		album.FechaLimiteVenta = limite
	}

	if len(errores) > 0 {
		return nil, domain.NewValidationError(errores...)
	}

	album.RebuildPalabrasClave()
	return album, nil
}

// AlbumPatch validates a partial update. Only supplied fields are checked;
// the date-pair invariants are re-evaluated against the stored record when
// the counterpart field is absent from the patch. Returns the normalized
// field map for the repository's $set.
func AlbumPatch(patch map[string]any, existente *domain.Album, now time.Time) (map[string]any, *domain.ValidationError) {
	var desconocidos []string
	for campo := range patch {
		if !albumPatchFields[campo] {
			desconocidos = append(desconocidos, campo)
		}
	}
	if len(desconocidos) > 0 {
		return nil, domain.NewValidationError(
			"Campos no permitidos: " + strings.Join(desconocidos, ", "))
	}
	if len(patch) == 0 {
		return nil, domain.NewValidationError("No se recibieron campos para actualizar")
	}

	hoy := domain.StartOfDay(now)
	campos := make(map[string]any, len(patch))
	var errores []string

	if v, ok := patch["nombreAlbum"]; ok {
		nombre := strings.TrimSpace(asString(v))
		if n := utf8.RuneCountInString(nombre); n < nombreMin || n > nombreMax {
			errores = append(errores, fmt.Sprintf("El nombre del álbum debe tener entre %d y %d caracteres", nombreMin, nombreMax))
		} else {
			campos["nombreAlbum"] = nombre
		}
	}

	if v, ok := patch["artista"]; ok {
		artista := strings.TrimSpace(asString(v))
		if n := utf8.RuneCountInString(artista); n < artistaMin || n > artistaMax {
			errores = append(errores, fmt.Sprintf("El nombre del artista debe tener entre %d y %d caracteres", artistaMin, artistaMax))
		} else {
			campos["artista"] = artista
		}
	}

	if v, ok := patch["versionAlbum"]; ok {
		version := strings.TrimSpace(asString(v))
		if !contains(domain.AlbumVersions, version) {
			errores = append(errores, "La versión debe ser: "+strings.Join(domain.AlbumVersions, ", "))
		} else {
			campos["versionAlbum"] = version
		}
	}

	if v, ok := patch["idioma"]; ok {
		idiomas := normalizeSet(v)
		if len(idiomas) == 0 {
			errores = append(errores, "Debe especificar al menos un idioma")
		} else if invalidos := outsideEnum(idiomas, domain.AlbumIdiomas); len(invalidos) > 0 {
			errores = append(errores, "Idiomas no válidos: "+strings.Join(invalidos, ", "))
		} else {
			campos["idioma"] = idiomas
		}
	}

	if v, ok := patch["duracion"]; ok {
		duracion := strings.TrimSpace(asString(v))
		if !duracionRe.MatchString(duracion) {
			errores = append(errores, "La duración debe estar en formato MM:SS o HH:MM:SS")
		} else {
			campos["duracion"] = duracion
		}
	}

	if v, ok := patch["pesoGramos"]; ok {
		if peso, okNum := asInt(v); !okNum || peso < pesoMin || peso > pesoMax {
			errores = append(errores, fmt.Sprintf("El peso debe ser un número entre %d y %d gramos", pesoMin, pesoMax))
		} else {
			campos["pesoGramos"] = peso
		}
	}

	if v, ok := patch["precio"]; ok {
		if precio, okNum := asFloat(v); !okNum || precio <= 0 {
			errores = append(errores, "El precio debe ser un número mayor a 0")
		} else {
			campos["precio"] = precio
		}
	}

	if v, ok := patch["stock"]; ok {
		if stock, okNum := asInt(v); !okNum || stock < 0 || stock > stockMax {
			errores = append(errores, fmt.Sprintf("El stock debe ser un número entre 0 y %d", stockMax))
		} else {
			campos["stock"] = stock
		}
	}

	if v, ok := patch["categoria"]; ok {
		categorias := normalizeSet(v)
		if len(categorias) == 0 {
			errores = append(errores, "Debe especificar al menos una categoría")
		} else if invalidas := outsideEnum(categorias, domain.AlbumCategorias); len(invalidas) > 0 {
			errores = append(errores, "Categorías no válidas: "+strings.Join(invalidas, ", "))
		} else {
			campos["categoria"] = categorias
		}
	}

	if v, ok := patch["descripcion"]; ok {
		descripcion := strings.TrimSpace(asString(v))
		if n := utf8.RuneCountInString(descripcion); n < descripcionMin || n > descripcionMax {
			errores = append(errores, fmt.Sprintf("La descripción debe tener entre %d y %d caracteres", descripcionMin, descripcionMax))
		} else {
			campos["descripcion"] = descripcion
		}
	}

	if v, ok := patch["fotoAlbum"]; ok {
		foto := strings.TrimSpace(asString(v))
		if foto == "" {
			errores = append(errores, "La foto del álbum no puede estar vacía")
		} else {
			campos["fotoAlbum"] = foto
		}
	}

	// Date fields: validate each supplied date in isolation first, then the
	// cross-field pair rules against the effective (patched-or-stored) values.
	lanzamiento := existente.FechaLanzamiento
	adquisicion := existente.FechaAdquisicion
	limite := existente.FechaLimiteVenta
	lanzamientoPatched, adquisicionPatched, limitePatched := false, false, false

	if v, ok := patch["fechaLanzamiento"]; ok {
		if fecha, okFecha := parseFecha(asString(v)); !okFecha {
			errores = append(errores, "La fecha de lanzamiento no es válida")
		} else if fecha.After(hoy) {
			errores = append(errores, "La fecha de lanzamiento no puede ser futura")
		} else {
			lanzamiento, lanzamientoPatched = fecha, true
		}
	}
	if v, ok := patch["fechaAdquisicion"]; ok {
		if fecha, okFecha := parseFecha(asString(v)); !okFecha {
			errores = append(errores, "La fecha de adquisición no es válida")
		} else if fecha.After(hoy) {
			errores = append(errores, "La fecha de adquisición no puede ser futura")
		} else {
			adquisicion, adquisicionPatched = fecha, true
		}
	}
	if v, ok := patch["fechaLimiteVenta"]; ok {
		if fecha, okFecha := parseFecha(asString(v)); !okFecha {
			errores = append(errores, "La fecha límite de venta no es válida")
		} else if !fecha.After(hoy) {
			errores = append(errores, "La fecha límite de venta debe ser una fecha futura")
		} else {
			limite, limitePatched = fecha, true
		}
	}

	if adquisicionPatched || lanzamientoPatched {
		if adquisicion.Before(domain.StartOfDay(lanzamiento)) {
			errores = append(errores, "La fecha de adquisición no puede ser anterior a la fecha de lanzamiento")
		}
	}
	if limitePatched || adquisicionPatched {
		if !domain.StartOfDay(limite).After(domain.StartOfDay(adquisicion)) {
			errores = append(errores, "La fecha límite de venta debe ser posterior a la fecha de adquisición")
		}
	}

	if len(errores) > 0 {
		return nil, domain.NewValidationError(errores...)
	}

	if lanzamientoPatched {
		campos["fechaLanzamiento"] = lanzamiento
	}
	if adquisicionPatched {
		campos["fechaAdquisicion"] = adquisicion
	}
	if limitePatched {
		campos["fechaLimiteVenta"] = limite
	}
	return campos, nil
}

// outsideEnum returns the values not present in the fixed enumeration.
func outsideEnum(values, enum []string) []string {
	var out []string
	for _, v := range values {
		if !contains(enum, v) {
			out = append(out, v)
		}
	}
	return out
}
