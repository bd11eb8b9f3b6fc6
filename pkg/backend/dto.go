package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActiveFlag decodes the backend "estado" field, which arrives as a boolean or as
// a string such as "Activo"/"Inactivo". It always encodes as a boolean.
type ActiveFlag bool

func (f *ActiveFlag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = ActiveFlag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("estado: unsupported value %s", string(data))
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "activo", "active", "true", "1", "habilitado":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Active returns a pointer flag, handy for building payloads.
func Active(v bool) *ActiveFlag {
	f := ActiveFlag(v)
	return &f
}

// isActive treats a missing flag as inactive, matching the back-office listings.
func isActive(f *ActiveFlag) bool {
	return f != nil && bool(*f)
}

// isDeactivated is true only when the backend explicitly reports the record as inactive.
func isDeactivated(f *ActiveFlag) bool {
	return f != nil && !bool(*f)
}

// RawProduct is an inventory record as served by GET /inventario.
type RawProduct struct {
	Code        int64   `json:"código"`
	Description string  `json:"descripción"`
	Stock       float64 `json:"s._ent"`
	Fraction    float64 `json:"s._fracc"`
	Cost        float64 `json:"costo"`
	NetPrice    float64 `json:"precio_neto"`
	TotalPrice  float64 `json:"total_precio"`
	Category    string  `json:"categoria,omitempty"`
}

// RawImage is one product image as served by GET /imagen/{id}.
type RawImage struct {
	ID   int64  `json:"id_imagen"`
	Code int64  `json:"código"`
	URL  string `json:"url"`
}

type User struct {
	ID           int64       `json:"idUsuario,omitempty"`
	FirstName    string      `json:"nombre"`
	LastName     string      `json:"apellido"`
	Email        string      `json:"email"`
	Phone        string      `json:"telefono"`
	Password     string      `json:"password,omitempty"`
	Address      string      `json:"direccion"`
	RegisteredOn string      `json:"fechaRegistro,omitempty"`
	Status       *ActiveFlag `json:"estado,omitempty"`
	Role         string      `json:"rol,omitempty"`
}

func (u User) FullName() string {
	return joinName(u.FirstName, u.LastName)
}

func (u User) IsActive() bool { return isActive(u.Status) }
func (u User) IsDeactivated() bool { return isDeactivated(u.Status) }

type Branch struct {
	ID       int64       `json:"idSucursal,omitempty"`
	Name     string      `json:"nombre"`
	Address  string      `json:"direccion"`
	City     string      `json:"ciudad"`
	OpensAt  string      `json:"horarioApertura"`
	ClosesAt string      `json:"horarioCierre"`
	Status   *ActiveFlag `json:"estado,omitempty"`
}

func (b Branch) IsActive() bool { return isActive(b.Status) }

type Driver struct {
	ID        int64       `json:"idDomiciliario,omitempty"`
	FirstName string      `json:"nombre"`
	LastName  string      `json:"apellido"`
	Phone     string      `json:"telefono"`
	Plate     string      `json:"placaVehiculo"`
	BranchID  int64       `json:"idSucursal"`
	Status    *ActiveFlag `json:"estado,omitempty"`
}

func (d Driver) FullName() string {
	return joinName(d.FirstName, d.LastName)
}

func (d Driver) IsActive() bool { return isActive(d.Status) }
func (d Driver) IsDeactivated() bool { return isDeactivated(d.Status) }

type Assistant struct {
	ID        int64       `json:"idAuxiliar,omitempty"`
	FirstName string      `json:"nombre"`
	LastName  string      `json:"apellido"`
	Phone     string      `json:"telefono"`
	BranchID  int64       `json:"idSucursal"`
	Status    *ActiveFlag `json:"estado,omitempty"`
}

func (a Assistant) FullName() string {
	return joinName(a.FirstName, a.LastName)
}

func (a Assistant) IsActive() bool { return isActive(a.Status) }

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
