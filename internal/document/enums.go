package document

import (
	"database/sql/driver"
	"fmt"
)

// Type is the closed set of document kinds. Unknown values are rejected when written to or
// read from the store.
type Type string

const (
	TypeInsurance           Type = "insurance"
	TypeVTV                 Type = "vtv"
	TypeDriversLicense      Type = "drivers_license"
	TypeVehicleRegistration Type = "vehicle_registration"
	TypeMedicalCertificate  Type = "medical_certificate"
	TypeWorkPermit          Type = "work_permit"
	TypeRegistration        Type = "registration"
	TypeOther               Type = "other"
)

var types = map[Type]struct{}{
	TypeInsurance: {}, TypeVTV: {}, TypeDriversLicense: {}, TypeVehicleRegistration: {},
	TypeMedicalCertificate: {}, TypeWorkPermit: {}, TypeRegistration: {}, TypeOther: {},
}

func (t Type) Valid() bool {
	_, ok := types[t]
	return ok
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown document type %q", s)
	}
	return t, nil
}

func (t Type) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown document type %q", string(t))
	}
	return string(t), nil
}

func (t *Type) Scan(src any) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	v, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Category says which entity table a document's entity_id points into.
type Category string

const (
	CategoryVehicle   Category = "vehicle"
	CategoryPersonnel Category = "personnel"
)

func (c Category) Valid() bool {
	return c == CategoryVehicle || c == CategoryPersonnel
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func (c Category) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown category %q", string(c))
	}
	return string(c), nil
}

func (c *Category) Scan(src any) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	v, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// RecordStatus is the stored lifecycle state. Only active documents take part in status,
// compliance and alert computation.
type RecordStatus string

const (
	RecordActive     RecordStatus = "active"
	RecordSuperseded RecordStatus = "superseded"
	RecordDeleted    RecordStatus = "deleted"
)

func (s RecordStatus) Valid() bool {
	return s == RecordActive || s == RecordSuperseded || s == RecordDeleted
}

func (s RecordStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown document status %q", string(s))
	}
	return string(s), nil
}

func (s *RecordStatus) Scan(src any) error {
	str, err := scanString(src)
	if err != nil {
		return err
	}
	v := RecordStatus(str)
	if !v.Valid() {
		return fmt.Errorf("unknown document status %q", str)
	}
	*s = v
	return nil
}

func scanString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot scan %T into an enum", src)
	}
}
