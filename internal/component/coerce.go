package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

type paramKind int

const (
	paramValue paramKind = iota
	paramFile
	paramFileList
	paramEnum
)

// Param describes one client-supplied parameter of a remote method.
type Param struct {
	// Position is the index of the argument token bound to this parameter.
	Position int
	Name     string
	Type     reflect.Type
	kind     paramKind
}

func newParam(pos int, t reflect.Type) (Param, error) {
	p := Param{Position: pos, Name: fmt.Sprintf("arg%d", pos), Type: t}

	switch {
	case t == fileType:
		p.kind = paramFile
	case t == fileListType:
		p.kind = paramFileList
	case isEnum(t):
		p.kind = paramEnum
	case supportedValueType(t):
		p.kind = paramValue
	default:
		return p, fmt.Errorf("parameter %d has unsupported type %s", pos, t)
	}
	return p, nil
}

func supportedValueType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Struct:
		return true
	case reflect.Map:
		return t.Key().Kind() == reflect.String
	case reflect.Interface:
		return t.NumMethod() == 0
	case reflect.Pointer:
		return t.Elem().Kind() != reflect.Pointer && supportedValueType(t.Elem())
	default:
		return false
	}
}

// coerce converts one argument token into a value of the parameter's type.
// Rules apply in order: single upload, upload list, object binding,
// enumeration member, scalar conversion.
func (s Settings) coerce(token any, p Param, files FileLookup) (reflect.Value, error) {
	switch p.kind {
	case paramFile:
		list, err := lookupFiles(token, files)
		if err != nil {
			return reflect.Value{}, err
		}
		if len(list) == 0 {
			return reflect.Zero(fileType), nil
		}
		return reflect.ValueOf(list[0]), nil

	case paramFileList:
		list, err := lookupFiles(token, files)
		if err != nil {
			return reflect.Value{}, err
		}
		out := make([]*multipart.FileHeader, 0, len(list))
		out = append(out, list...)
		return reflect.ValueOf(out), nil
	}

	if obj, ok := token.(map[string]any); ok {
		ptr := reflect.New(p.Type)
		if err := s.unmarshal(obj, ptr.Interface()); err != nil {
			return reflect.Value{}, fmt.Errorf("bind object to %s: %w", p.Type, err)
		}
		return ptr.Elem(), nil
	}

	if name, ok := token.(string); ok && p.kind == paramEnum {
		ptr := reflect.New(p.Type)
		if err := ptr.Interface().(Enum).ParseMember(name); err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", p.Type, err)
		}
		return ptr.Elem(), nil
	}

	return convertScalar(token, p.Type)
}

func lookupFiles(token any, files FileLookup) ([]*multipart.FileHeader, error) {
	slot, ok := token.(string)
	if !ok {
		return nil, fmt.Errorf("upload slot must be a string, got %T", token)
	}
	if files == nil {
		return nil, nil
	}
	return files.Files(slot), nil
}

func convertScalar(token any, t reflect.Type) (reflect.Value, error) {
	switch token.(type) {
	case nil, bool, string, json.Number:
	default:
		return reflect.Value{}, fmt.Errorf("cannot convert %T to %s", token, t)
	}

	switch t.Kind() {
	case reflect.Pointer:
		if token == nil {
			return reflect.Zero(t), nil
		}
		elem, err := convertScalar(token, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil

	case reflect.Interface:
		if token == nil {
			return reflect.Zero(t), nil
		}
		return reflect.ValueOf(token), nil
	}

	v := reflect.New(t).Elem()
	if token == nil {
		if t.Kind() == reflect.String {
			return v, nil
		}
		return reflect.Value{}, fmt.Errorf("null is not a valid %s", t)
	}

	switch t.Kind() {
	case reflect.Bool:
		b, err := cast.ToBoolE(scalarValue(token))
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := toInt64(token)
		if err != nil {
			return reflect.Value{}, err
		}
		if v.OverflowInt(i) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", i, t)
		}
		v.SetInt(i)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := toUint64(token)
		if err != nil {
			return reflect.Value{}, err
		}
		if v.OverflowUint(u) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", u, t)
		}
		v.SetUint(u)

	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(scalarValue(token))
		if err != nil {
			return reflect.Value{}, err
		}
		if v.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%v overflows %s", f, t)
		}
		v.SetFloat(f)

	case reflect.String:
		str, err := cast.ToStringE(scalarValue(token))
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetString(str)

	default:
		return reflect.Value{}, fmt.Errorf("cannot convert %T to %s", token, t)
	}

	return v, nil
}

// numericText returns the decimal text of a number or string token.
func numericText(token any) (string, bool) {
	switch x := token.(type) {
	case json.Number:
		return string(x), true
	case string:
		return strings.TrimSpace(x), true
	default:
		return "", false
	}
}

// toInt64 reads integers in base 10 only. Integral floats are accepted
// when they fit in int64.
func toInt64(token any) (int64, error) {
	text, ok := numericText(token)
	if !ok {
		return cast.ToInt64E(token)
	}

	i, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		return i, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%s overflows int64", text)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", text)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	// float64(math.MaxInt64) rounds up to 2^63
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%s overflows int64", text)
	}
	return int64(f), nil
}

func toUint64(token any) (uint64, error) {
	text, ok := numericText(token)
	if !ok {
		return cast.ToUint64E(token)
	}

	u, err := strconv.ParseUint(text, 10, 64)
	if err == nil {
		return u, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%s overflows uint64", text)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an unsigned integer", text)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	if f < 0 || f >= math.MaxUint64 {
		return 0, fmt.Errorf("%s is out of range for uint64", text)
	}
	return uint64(f), nil
}

// scalarValue turns json.Number into int64 or float64 so conversions see a
// native number.
func scalarValue(token any) any {
	num, ok := token.(json.Number)
	if !ok {
		return token
	}
	if i, err := num.Int64(); err == nil {
		return i
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return string(num)
}
