// SPDX-License-Identifier: EPL-2.0

package stats

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Optional is a float that may be undefined.
type Optional struct {
	Value float64
	Valid bool
}

// Some returns a defined Optional.
func Some(v float64) Optional { return Optional{Value: v, Valid: true} }

// Undefined is the zero Optional.
var Undefined = Optional{}

func (o Optional) String() string {
	if !o.Valid {
		return "undefined"
	}
	return strconv.FormatFloat(o.Value, 'f', -1, 64)
}

// Fixed renders a defined value with prec decimals, or "undefined".
func (o Optional) Fixed(prec int) string {
	if !o.Valid {
		return "undefined"
	}
	return strconv.FormatFloat(o.Value, 'f', prec, 64)
}

func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
