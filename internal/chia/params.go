package chia

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"moff.io/chia-walletconnect/pkg/errors"
)

// ErrInvalidParams marks params that can not be sent for a method.
var ErrInvalidParams = errors.New("invalid params")

// Sanitize encodes params as the JSON object sent to the wallet. Optional
// fields carrying a falsy value (null, false, 0, "", [] or {}) are dropped so
// the wallet applies its default; a required field that is absent, null or ""
// fails with ErrInvalidParams. Field order follows the encoded params.
func (d Descriptor) Sanitize(params interface{}) (json.RawMessage, error) {
	raw, err := encodeParams(params)
	if err != nil {
		return nil, err
	}
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() {
		return nil, errors.Wrapf(ErrInvalidParams, "%s: params must be a JSON object", d.Method)
	}

	var missing []string
	for _, field := range d.Required {
		if v := obj.Get(field); blank(v) {
			missing = append(missing, field)
		}
	}
	missing = append(missing, d.missingItemFields(obj, d.Required)...)
	missing = append(missing, d.missingItemFields(obj, d.Optional)...)
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrInvalidParams, "%s: missing required %s", d.Method, strings.Join(missing, ", "))
	}

	var out bytes.Buffer
	out.WriteByte('{')
	obj.ForEach(func(key, value gjson.Result) bool {
		if d.IsOptional(key.String()) && falsy(value) {
			return true
		}
		if out.Len() > 1 {
			out.WriteByte(',')
		}
		out.WriteString(key.Raw)
		out.WriteByte(':')
		out.WriteString(value.Raw)
		return true
	})
	out.WriteByte('}')
	return out.Bytes(), nil
}

// missingItemFields names, as field[i].key, every element field of the given
// array params that ItemRequired expects but the element leaves blank.
func (d Descriptor) missingItemFields(obj gjson.Result, fields []string) []string {
	var missing []string
	for _, field := range fields {
		keys := d.ItemRequired[field]
		if len(keys) == 0 {
			continue
		}
		for i, item := range obj.Get(field).Array() {
			for _, key := range keys {
				if blank(item.Get(key)) {
					missing = append(missing, fmt.Sprintf("%s[%d].%s", field, i, key))
				}
			}
		}
	}
	return missing
}

func encodeParams(params interface{}) ([]byte, error) {
	switch p := params.(type) {
	case nil:
		return []byte("{}"), nil
	case json.RawMessage:
		if len(bytes.TrimSpace(p)) == 0 {
			return []byte("{}"), nil
		}
		if !json.Valid(p) {
			return nil, errors.Wrap(ErrInvalidParams, "params are not valid JSON")
		}
		return p, nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidParams, "encode params: %v", err)
	}
	return raw, nil
}

func blank(v gjson.Result) bool {
	return !v.Exists() || v.Type == gjson.Null || (v.Type == gjson.String && v.Str == "")
}

func falsy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return v.Num == 0
	case gjson.String:
		return v.Str == ""
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) == 0
		}
		return len(v.Map()) == 0
	}
	return false
}
