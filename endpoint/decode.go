package endpoint

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// defaultFieldLimit bounds the byte length of a single decoded field value.
//
// This is a var (not const) so tests/callers can override it if needed.
var defaultFieldLimit = 16 * 1024 // 16KB

// Unmarshal populates dst (must be a non-nil pointer to a struct) from the
// request.
//
// Supported sources:
//   - query params: r.URL.Query() (via `query` tag)
//   - request body: r.Body (via `body` tag)
//
// Supported struct tags:
//   - `query:"name[,flag]"`
//   - `body:"name[,flag]"`
//   - `query:"-"` to ignore the field entirely
//   - `maxLength:"n"` to set the maximum byte length for a field value
//
// Where:
//   - name: parameter name; if empty, defaults to the struct field name
//     lowercased (ignored for body, which has no name)
//   - flag: `json` to decode the value as JSON into the field
//
// Notes:
//   - Body fields that are not string or []byte typed default to JSON
//     decoding; JSON-decoded bodies require an application/json media type.
//   - If no data is present for a field, it is left unchanged.
//   - Untagged non-struct fields default to query binding with the
//     lowercased field name.
//   - If the incoming value exceeds the field's maxLength (default 16KB),
//     Unmarshal returns a 400 Bad Request error. Use `maxLength:"0"` for
//     no limit.
func Unmarshal(r *http.Request, dst any) error {
	if r == nil {
		return newEndpointError(http.StatusInternalServerError, "", errors.New("endpoint: decode: nil request"))
	}
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return newEndpointError(http.StatusInternalServerError, "", errors.New("endpoint: decode: dst must be a non-nil pointer"))
	}

	// Support *P where P may be a struct or pointer-to-struct.
	root := v.Elem()
	if root.Kind() == reflect.Pointer {
		if root.IsNil() {
			root.Set(reflect.New(root.Type().Elem()))
		}
		root = root.Elem()
	}

	if root.Kind() != reflect.Struct {
		return newEndpointError(http.StatusInternalServerError, "", errors.New("endpoint: decode: dst must point to a struct (or pointer to struct)"))
	}

	q := url.Values{}
	if r.URL != nil {
		q = r.URL.Query()
	}

	return unmarshalStruct(r, root, q)
}

func requestBodyIsJSON(r *http.Request) bool {
	mt := requestBodyMediaType(r)
	if mt == "" {
		return false
	}
	if strings.HasPrefix(mt, "application/json") {
		return true
	}
	return strings.HasSuffix(mt, "+json")
}

func requestBodyMediaType(r *http.Request) string {
	ct := strings.TrimSpace(r.Header.Get("Content-Type"))
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		// If malformed, return the raw (lowercased) content-type.
		return strings.ToLower(ct)
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

func unmarshalStruct(r *http.Request, structVal reflect.Value, query url.Values) error {
	t := structVal.Type()
	bodyFieldSeen := false
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}
		fv := structVal.Field(i)

		defaultName := strings.ToLower(sf.Name)

		queryTag, hasQuery, err := parseSourceTag(sf, "query", defaultName)
		if err != nil {
			return newEndpointError(http.StatusInternalServerError, "", fmt.Errorf("endpoint: decode: field %s: %w", sf.Name, err))
		}
		bodyTag, hasBody, err := parseSourceTag(sf, "body", defaultName)
		if err != nil {
			return newEndpointError(http.StatusInternalServerError, "", fmt.Errorf("endpoint: decode: field %s: %w", sf.Name, err))
		}

		// Only one body field is supported; the body reader drains on first use.
		if hasBody && bodyTag.Name != "-" {
			if bodyFieldSeen {
				return newEndpointError(http.StatusInternalServerError, "", fmt.Errorf("endpoint: decode: multiple body fields in %s", t.Name()))
			}
			bodyFieldSeen = true
		}

		if (hasQuery && queryTag.Name == "-") || (hasBody && bodyTag.Name == "-") {
			continue
		}

		hasAnyTag := hasQuery || hasBody

		// Untagged non-struct fields default to query with the lowercased field name.
		isNonStructField := sf.Type.Kind() != reflect.Struct
		if sf.Type.Kind() == reflect.Pointer {
			isNonStructField = sf.Type.Elem().Kind() != reflect.Struct
		}
		if !hasAnyTag && isNonStructField {
			hasQuery = true
			queryTag = sourceTag{Source: "query", Name: defaultName}
		}

		limit, err := fieldLengthLimit(sf)
		if err != nil {
			return newEndpointError(http.StatusInternalServerError, "", fmt.Errorf("endpoint: decode: field %s: %w", sf.Name, err))
		}
		queryTag.MaxLength = limit
		bodyTag.MaxLength = limit

		// If a struct(-like) field can unmarshal itself from text, treat it as
		// a leaf value (e.g. time.Time) rather than recursing into its fields.
		implementsTextUnmarshaler := fieldImplementsTextUnmarshaler(fv)

		// Recurse into untagged nested structs; tagged struct fields are
		// leaves decoded according to their tags (including `body`).
		fv2 := fv
		if fv2.Kind() == reflect.Pointer {
			if fv2.IsNil() && fv2.Type().Elem().Kind() == reflect.Struct {
				fv2.Set(reflect.New(fv2.Type().Elem()))
			}
			if !fv2.IsNil() {
				fv2 = fv2.Elem()
			}
		}
		if fv2.IsValid() && fv2.Kind() == reflect.Struct && !hasAnyTag && !implementsTextUnmarshaler {
			if err := unmarshalStruct(r, fv2, query); err != nil {
				return err
			}
			continue
		}

		// Body default: for non-string/[]byte fields, default to JSON decoding.
		if hasBody && strings.TrimSpace(bodyTag.Encoding) == "" {
			ft := fv.Type()
			if fv.Kind() == reflect.Pointer {
				ft = fv.Type().Elem()
			}
			isStringOrBytes := ft.Kind() == reflect.String || (ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.Uint8)
			if !isStringOrBytes {
				bodyTag.Encoding = "json"
			}
		}

		if hasQuery {
			ok, err := setFieldFromSource(fv, queryTag, func(name string) ([][]byte, bool, error) {
				vs, present := query[name]
				if !present || len(vs) == 0 {
					return nil, false, nil
				}
				out := make([][]byte, len(vs))
				for i, s := range vs {
					out[i] = []byte(s)
				}
				return out, true, nil
			}, sf.Name)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
		}
		if hasBody {
			ok, err := setFieldFromSource(fv, bodyTag, fetchRequestBody(r, bodyTag.Encoding), sf.Name)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
		}
	}
	return nil
}

func fetchRequestBody(r *http.Request, encodingFlag string) func(name string) ([][]byte, bool, error) {
	return func(_ string) ([][]byte, bool, error) {
		if r.Body == nil || r.Body == http.NoBody {
			return nil, false, nil
		}

		// If JSON decoding is requested (or defaulted for non-string/byte
		// types), require a JSON content-type.
		if encodingFlag == "json" && !requestBodyIsJSON(r) {
			mt := requestBodyMediaType(r)
			if mt == "" {
				mt = "(missing)"
			}
			return nil, false, newEndpointError(http.StatusUnsupportedMediaType, "", fmt.Errorf("endpoint: decode: body: unsupported media type %s", mt))
		}

		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, false, newEndpointError(http.StatusBadRequest, "", fmt.Errorf("endpoint: decode: body: %w", err))
		}
		return [][]byte{b}, true, nil
	}
}

type sourceTag struct {
	Source    string
	Name      string
	Encoding  string
	MaxLength int
}

func fieldLengthLimit(sf reflect.StructField) (int, error) {
	val, has := sf.Tag.Lookup("maxLength")
	if !has {
		return defaultFieldLimit, nil
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("maxLength: invalid integer %q", val)
	}
	if n < 0 {
		return 0, fmt.Errorf("maxLength: must be >= 0")
	}
	return n, nil
}

func parseSourceTag(sf reflect.StructField, tagKey string, defaultName string) (cfg sourceTag, has bool, err error) {
	val, has := sf.Tag.Lookup(tagKey)
	if !has {
		return sourceTag{}, false, nil
	}

	parts := strings.Split(val, ",")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		name = defaultName
	}

	// For body tags the name is ignored for decoding purposes, but we still
	// parse it to keep option positioning consistent with other tags.

	cfg = sourceTag{Source: tagKey, Name: name, MaxLength: defaultFieldLimit}
	for _, p := range parts[1:] {
		flag := strings.ToLower(strings.TrimSpace(p))
		switch flag {
		case "":
			continue
		case "json":
			if cfg.Encoding != "" {
				return sourceTag{}, false, fmt.Errorf("multiple encoding flags")
			}
			cfg.Encoding = flag
		default:
			return sourceTag{}, false, fmt.Errorf("unknown %s tag flag %q", tagKey, flag)
		}
	}
	return cfg, true, nil
}

func fieldImplementsTextUnmarshaler(fv reflect.Value) bool {
	if !fv.IsValid() {
		return false
	}
	textUnmarshalerType := reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	if fv.Kind() == reflect.Pointer {
		return fv.Type().Implements(textUnmarshalerType)
	}
	if fv.CanAddr() && fv.Addr().Type().Implements(textUnmarshalerType) {
		return true
	}
	return fv.Type().Implements(textUnmarshalerType)
}

func setFieldFromSource(field reflect.Value, tag sourceTag, fetch func(name string) ([][]byte, bool, error), fieldName string) (bool, error) {
	raw, ok, err := fetch(tag.Name)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	for _, val := range raw {
		if tag.MaxLength > 0 && len(val) > tag.MaxLength {
			return false, newEndpointError(http.StatusBadRequest, "", fmt.Errorf("endpoint: decode: %s %q -> %s: value exceeds max length %d", tag.Source, tag.Name, fieldName, tag.MaxLength))
		}
	}

	if err := setFieldFromValues(field, raw, tag.Encoding); err != nil {
		return false, newEndpointError(http.StatusBadRequest, "", fmt.Errorf("endpoint: decode: %s %q -> %s: %w", tag.Source, tag.Name, fieldName, err))
	}
	return true, nil
}

func setFieldFromValues(v reflect.Value, values [][]byte, encodingFlag string) error {
	if len(values) == 0 {
		return nil
	}

	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}

	// Non-byte slice fields collect one element per matching value. A
	// JSON-decoded value is treated as a single payload instead, since the
	// JSON itself may be an array.
	isByteSlice := v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8
	if v.Kind() == reflect.Slice && !isByteSlice && encodingFlag != "json" {
		slice := v
		if slice.IsNil() {
			slice = reflect.MakeSlice(v.Type(), 0, len(values))
		} else {
			slice.SetLen(0)
		}

		for _, val := range values {
			elem := reflect.New(v.Type().Elem()).Elem()
			if err := setFieldFromBytesWithEncoding(elem, val, encodingFlag); err != nil {
				return err
			}
			slice = reflect.Append(slice, elem)
		}
		v.Set(slice)
		return nil
	}

	// Scalar field (or byte slice, or json): use the first value.
	return setFieldFromBytesWithEncoding(v, values[0], encodingFlag)
}

func setFieldFromBytesWithEncoding(v reflect.Value, b []byte, encodingFlag string) error {
	if !v.IsValid() {
		return errors.New("invalid value")
	}
	if !v.CanSet() {
		return errors.New("field is not settable")
	}
	if !v.CanAddr() {
		return errors.New("field is not addressable")
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return setFieldFromBytesWithEncoding(v.Elem(), b, encodingFlag)
	}

	if encodingFlag == "json" {
		dec := json.NewDecoder(bytes.NewReader(b))
		return dec.Decode(v.Addr().Interface())
	}

	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
		v.SetBytes(b)
		return nil
	}

	return setFieldFromBytes(v, b)
}

func setFieldFromBytes(v reflect.Value, b []byte) error {
	// Support encoding.TextUnmarshaler for custom types.
	//
	// Pointer receiver is tried first to match common patterns.
	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText(b)
		}
	}
	if u, ok := v.Interface().(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText(b)
	}

	s := string(b)

	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
		return nil
	case reflect.Bool:
		bb, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(bb)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil
	}

	return fmt.Errorf("unsupported kind %s", v.Kind())
}
