// Package types provides type definitions for the records exchanged with the resume API.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Resume is a resume record as stored by the backend.
// The backend identifies stored records by _id; create responses use id.
type Resume struct {
	ID          string       `json:"id,omitempty"`
	MongoID     string       `json:"_id,omitempty"`
	Name        string       `json:"name"`
	Keywords    []string     `json:"keywords,omitempty"`
	BasicInfo   *BasicInfo   `json:"basic_info,omitempty"`
	Education   []Education  `json:"education,omitempty"`
	Projects    []Project    `json:"projects,omitempty"`
	Experiences []Experience `json:"experiences,omitempty"`
}

// Identifier returns the record's id, preferring id over _id.
func (r *Resume) Identifier() string {
	if r.ID != "" {
		return r.ID
	}
	return r.MongoID
}

// BasicInfo holds the resume owner's contact details.
type BasicInfo struct {
	Name     string         `json:"name"`
	Address  string         `json:"address"`
	Email    string         `json:"email"`
	LinkedIn string         `json:"linkedin"`
	GitHub   string         `json:"github"`
	Phone    StringOrNumber `json:"phone"`
}

// Education is a single education entry.
type Education struct {
	University string          `json:"university"`
	Degree     string          `json:"degree"`
	Location   string          `json:"location,omitempty"`
	StartDate  string          `json:"start_date,omitempty"`
	EndDate    string          `json:"end_date,omitempty"`
	GPA        *StringOrNumber `json:"gpa,omitempty"`
}

// Project is a standalone project or a project within an experience.
type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Link         string   `json:"link,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Experience is a single work experience entry.
type Experience struct {
	Company   string    `json:"company,omitempty"`
	Title     string    `json:"title,omitempty"`
	Location  string    `json:"location,omitempty"`
	StartDate string    `json:"start_date,omitempty"`
	EndDate   string    `json:"end_date,omitempty"`
	Projects  []Project `json:"projects,omitempty"`
}

// StringOrNumber holds a JSON value the backend accepts as either a string or
// a number (phone numbers, GPAs). It round-trips in the form it was read.
type StringOrNumber struct {
	Text    string
	Numeric bool
}

// String returns the value as text.
func (v StringOrNumber) String() string {
	return v.Text
}

// MarshalJSON implements json.Marshaler.
func (v StringOrNumber) MarshalJSON() ([]byte, error) {
	if v.Numeric {
		if _, err := strconv.ParseFloat(v.Text, 64); err != nil {
			return nil, fmt.Errorf("numeric value %q is not a number", v.Text)
		}
		return []byte(v.Text), nil
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *StringOrNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringOrNumber{Text: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*v = StringOrNumber{Text: n.String(), Numeric: true}
	return nil
}
