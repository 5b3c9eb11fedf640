// Package validate holds the field rules for accounts and catalog entries as
// plain functions, decoupled from both the HTTP layer and the storage schema.
// Registration checks fail fast (first broken rule wins); catalog creation
// collects every failure so a form can be corrected in one round trip.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

var (
	nameRe     = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúñÑ\s]+$`)
	phoneRe    = regexp.MustCompile(`^\d{7,15}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	duracionRe = regexp.MustCompile(`^([0-9]{1,2}:)?[0-5]?[0-9]:[0-5][0-9]$`)
)

const (
	EdadMin        = 16
	EdadMax        = 99
	PasswordMinLen = 6
)

// NormalizeEmail trims and lowercases an address. Idempotent by construction.
func NormalizeEmail(correo string) string {
	return strings.ToLower(strings.TrimSpace(correo))
}

// ValidName reports whether s is non-empty and contains only letters and
// spaces (accented letters included).
func ValidName(s string) bool {
	return s != "" && nameRe.MatchString(s)
}

// ValidEmail performs the RFC-plausible format check used at registration.
func ValidEmail(correo string) bool {
	return emailRe.MatchString(correo)
}

// ParseEdad normalizes a string age and checks the 16–99 range. The second
// return value is a user-facing message when the age is rejected.
func ParseEdad(edad string) (int, string) {
	edad = strings.TrimSpace(edad)
	if edad == "" {
		return 0, "La edad es requerida"
	}
	n, err := strconv.Atoi(edad)
	if err != nil {
		return 0, "La edad debe ser un número entero"
	}
	if n < EdadMin || n > EdadMax {
		return 0, fmt.Sprintf("La edad debe estar entre %d y %d años", EdadMin, EdadMax)
	}
	return n, ""
}

// parseFecha accepts the two date formats the clients send and strips the
// time of day: every date rule in this system is day-granular.
func parseFecha(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.StartOfDay(t), true
		}
	}
	return time.Time{}, false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// --- Loose-typed input coercion -------------------------------------------
//
// Patch bodies are decoded into map[string]any, so numbers arrive as float64,
// sets as []any, and multipart forms deliver everything as strings. These
// helpers normalize before the rules run.

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	}
	return ""
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// normalizeSet flattens a raw value into a trimmed string slice. A single
// comma-separated string is split, matching what HTML forms send.
func normalizeSet(v any) []string {
	var raw []string
	switch s := v.(type) {
	case []string:
		raw = s
	case []any:
		for _, item := range s {
			raw = append(raw, asString(item))
		}
	case string:
		raw = strings.Split(s, ",")
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
