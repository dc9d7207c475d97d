package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// StringList decodes a JSON column into a string slice, returning an empty
// slice for NULL or malformed values so callers never see nil.
func StringList(j datatypes.JSON) []string {
	out := []string{}
	if j == nil {
		return out
	}
	if err := json.Unmarshal(j, &out); err != nil {
		return []string{}
	}
	return out
}

// ToStringList encodes a string slice for storage in a JSON column.
func ToStringList(v []string) datatypes.JSON {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

// UintList decodes a JSON column of numeric ids.
func UintList(j datatypes.JSON) []uint {
	out := []uint{}
	if j == nil {
		return out
	}
	if err := json.Unmarshal(j, &out); err != nil {
		return []uint{}
	}
	return out
}

// ToUintList encodes a slice of ids for storage in a JSON column.
func ToUintList(v []uint) datatypes.JSON {
	if v == nil {
		v = []uint{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}
