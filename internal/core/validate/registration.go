package validate

import (
	"fmt"
	"strings"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
)

// Registration checks the registration fields in a fixed order — nombre,
// apellido, edad, teléfono, correo, password — and stops at the first broken
// rule. On success it returns the partially built user (correo normalized,
// edad parsed, password still plaintext for the service to hash).
func Registration(input ports.RegisterInput) (*domain.User, *domain.ValidationError) {
	nombre := strings.TrimSpace(input.Nombre)
	if !ValidName(nombre) {
		return nil, domain.NewValidationError("El nombre sólo puede contener letras y espacios")
	}

	apellido := strings.TrimSpace(input.Apellido)
	if !ValidName(apellido) {
		return nil, domain.NewValidationError("El apellido sólo puede contener letras y espacios")
	}

	edad, msg := ParseEdad(input.Edad)
	if msg != "" {
		return nil, domain.NewValidationError(msg)
	}

	telefono := strings.TrimSpace(input.NumeroTelefono)
	if !phoneRe.MatchString(telefono) {
		return nil, domain.NewValidationError("El teléfono sólo puede contener dígitos (7 a 15 caracteres)")
	}

	correo := NormalizeEmail(input.Correo)
	if !ValidEmail(correo) {
		return nil, domain.NewValidationError("Ingresa un correo válido")
	}

	if len(input.Password) < PasswordMinLen {
		return nil, domain.NewValidationError(
			fmt.Sprintf("La contraseña debe tener al menos %d caracteres", PasswordMinLen))
	}

	return &domain.User{
		Nombre:         nombre,
		Apellido:       apellido,
		Edad:           edad,
		NumeroTelefono: telefono,
		Correo:         correo,
	}, nil
}

// UserPatch validates a partial account update. Only the allow-listed fields
// are accepted; correo is immutable and any unknown field rejects the whole
// request. Returns the normalized field map ready for the repository.
func UserPatch(patch map[string]any) (map[string]any, *domain.ValidationError) {
	allowed := map[string]bool{
		"nombre": true, "apellido": true, "edad": true,
		"numeroTelefono": true, "rol": true,
	}

	var desconocidos []string
	for campo := range patch {
		if !allowed[campo] {
			desconocidos = append(desconocidos, campo)
		}
	}
	if len(desconocidos) > 0 {
		return nil, domain.NewValidationError(
			"Campos no permitidos: " + strings.Join(desconocidos, ", "))
	}

	campos := make(map[string]any, len(patch))
	var errores []string

	if v, ok := patch["nombre"]; ok {
		nombre := strings.TrimSpace(asString(v))
		if !ValidName(nombre) {
			errores = append(errores, "El nombre sólo puede contener letras y espacios")
		} else {
			campos["nombre"] = nombre
		}
	}
	if v, ok := patch["apellido"]; ok {
		apellido := strings.TrimSpace(asString(v))
		if !ValidName(apellido) {
			errores = append(errores, "El apellido sólo puede contener letras y espacios")
		} else {
			campos["apellido"] = apellido
		}
	}
	if v, ok := patch["edad"]; ok {
		edad, msg := ParseEdad(asString(v))
		if msg != "" {
			errores = append(errores, msg)
		} else {
			campos["edad"] = edad
		}
	}
	if v, ok := patch["numeroTelefono"]; ok {
		telefono := strings.TrimSpace(asString(v))
		if !phoneRe.MatchString(telefono) {
			errores = append(errores, "El teléfono sólo puede contener dígitos (7 a 15 caracteres)")
		} else {
			campos["numeroTelefono"] = telefono
		}
	}
	if v, ok := patch["rol"]; ok {
		rol, valid := domain.ParseRole(asString(v))
		if !valid {
			errores = append(errores, "Rol inválido. Debe ser Usuario, Admin o Gerente")
		} else {
			campos["rol"] = string(rol)
		}
	}

	if len(errores) > 0 {
		return nil, domain.NewValidationError(errores...)
	}
	return campos, nil
}
