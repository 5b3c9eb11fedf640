package handler

import (
	"time"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

// albumView is the wire shape of a catalog entry: the stored fields plus the
// two derived availability values, computed at response time so a stale
// document never reports itself sellable past its deadline.
type albumView struct {
	*domain.Album
	DisponibleVenta    bool `json:"disponibleVenta"`
	DiasRestantesVenta int  `json:"diasRestantesVenta"`
}

func toAlbumView(a *domain.Album, now time.Time) albumView {
	return albumView{
		Album:              a,
		DisponibleVenta:    a.DisponibleVenta(now),
		DiasRestantesVenta: a.DiasRestantesVenta(now),
	}
}

func toAlbumViews(items []*domain.Album, now time.Time) []albumView {
	views := make([]albumView, 0, len(items))
	for _, a := range items {
		views = append(views, toAlbumView(a, now))
	}
	return views
}
