package models

import "encoding/json"

// OptString is a JSON string field that distinguishes "absent" from an
// explicit null. An explicit null (Set && !Valid) means "clear the field",
// while an absent field (!Set) means "keep whatever is there".
type OptString struct {
	Set   bool
	Valid bool
	Value string
}

func (o *OptString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns the value as a *string, nil for absent or null.
func (o OptString) Ptr() *string {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// OptInt is the integer counterpart of OptString.
type OptInt struct {
	Set   bool
	Valid bool
	Value int
}

func (o *OptInt) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o OptInt) Ptr() *int {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
