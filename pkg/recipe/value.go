// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"strconv"
	"strings"
)

// Value is the selected value of a variant: a boolean for on/off variants, a
// string for enumerated or free-form ones.
type Value struct {
	text    string
	boolean bool
	isBool  bool
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{boolean: b, isBool: true} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{text: s} }

// IsBool reports whether v holds a boolean.
func (v Value) IsBool() bool { return v.isBool }

// Bool returns the boolean held by v. String values are never true.
func (v Value) Bool() bool { return v.isBool && v.boolean }

// String renders booleans as "true"/"false" and returns strings as-is.
func (v Value) String() string {
	if v.isBool {
		return strconv.FormatBool(v.boolean)
	}
	return v.text
}

// parseBool accepts the spellings recipes and spec strings use for booleans.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1":
		return true, true
	case "false", "off", "no", "0":
		return false, true
	}
	return false, false
}
