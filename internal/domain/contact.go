package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/tidwall/gjson"
)

// JSONMap stores schemaless contact attributes as JSONB.
type JSONMap json.RawMessage

func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return []byte(m), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
	*m = append((*m)[:0], b...)
	return nil
}

func (m JSONMap) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return []byte(m), nil
}

func (m *JSONMap) UnmarshalJSON(data []byte) error {
	*m = append((*m)[:0], data...)
	return nil
}

// Contact is a recipient. Email is the natural key within a project.
type Contact struct {
	Email      string    `json:"email"`
	ProjectID  string    `json:"project_id"`
	FirstName  *string   `json:"first_name,omitempty"`
	LastName   *string   `json:"last_name,omitempty"`
	Language   *string   `json:"language,omitempty"`
	CustomData JSONMap   `json:"custom_data,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Contact) Validate() error {
	if !govalidator.IsEmail(c.Email) {
		return fmt.Errorf("invalid contact: email is not valid")
	}
	if c.ProjectID == "" {
		return fmt.Errorf("invalid contact: project_id is required")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MergeScope exposes the contact fields addressable as {{contact.*}}.
// Custom data keys are overlaid on the built-in fields so a custom
// attribute can shadow nothing important but can add its own keys.
func (c *Contact) MergeScope() map[string]any {
	scope := map[string]any{
		"email":      c.Email,
		"first_name": deref(c.FirstName),
		"last_name":  deref(c.LastName),
		"language":   deref(c.Language),
	}
	for k, v := range c.CustomScope() {
		if _, reserved := scope[k]; !reserved {
			scope[k] = v
		}
	}
	return scope
}

// CustomScope flattens the top level of custom_data into scalar values.
// Nested objects and arrays are skipped; merge tags only resolve scalars.
func (c *Contact) CustomScope() map[string]any {
	if len(c.CustomData) == 0 {
		return nil
	}
	parsed := gjson.ParseBytes(c.CustomData)
	if !parsed.IsObject() {
		return nil
	}
	scope := make(map[string]any)
	parsed.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.String:
			scope[key.String()] = value.String()
		case gjson.Number:
			scope[key.String()] = value.Float()
		case gjson.True, gjson.False:
			scope[key.String()] = value.Bool()
		}
		return true
	})
	return scope
}

type ContactRepository interface {
	UpsertContact(ctx context.Context, contact *Contact) error
	GetContactByEmail(ctx context.Context, projectID, email string) (*Contact, error)
	DeleteContact(ctx context.Context, projectID, email string) error
	ListContacts(ctx context.Context, projectID string, limit, offset int) ([]*Contact, error)
}
