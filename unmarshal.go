package tcfg

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// Char selects character decoding when unmarshalling. Go's rune is an alias
// for int32, so a plain int32 field would be decoded as an integer; declare
// the field as tcfg.Char to accept char literals like 'a' or '\x41'.
type Char rune

var charType = reflect.TypeOf(Char(0))

// Unmarshal updates the value v with the data from the config document.
// v must be a non-nil pointer to a struct, or to a slice of structs when the
// document is a run of sibling blocks. Unmarshal acts similarly to
// json.Unmarshal.
//
// For struct fields, Unmarshal first looks for the name in a `tcfg:"name"`
// tag, then in a `json:"name"` tag, and finally uses the snake_case version
// of the field name or the field name itself. The type tag expected for the
// top-level block is the snake_case name of the Go type; nested blocks are
// matched against their field's config name, since in this format the field
// identifier doubles as the nested block's type tag.
//
// Every struct must declare the reserved "name" field (a string), which is
// filled from the optional quoted instance name after the type tag. Boolean
// fields are true when the bare field identifier is present and false when
// absent. string fields accept multi-segment literals; []byte fields accept
// exactly one segment. Fields and blocks not declared by the target type
// are rejected.
func Unmarshal(data []byte, v any) error {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return fmt.Errorf("invalid target, must be a non-nil pointer")
	}

	d := NewDecoder(string(data))
	elem := value.Elem()
	return unmarshalValue(d, elem, typeTag(elem.Type()))
}

// typeTag derives the block type tag expected for a target type: the
// snake_case of the element's type name.
func typeTag(t reflect.Type) string {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	return toSnakeCase(t.Name())
}

func unmarshalValue(d *Decoder, v reflect.Value, tag string) error {
	if !v.CanSet() {
		panic(fmt.Errorf("cannot set value of type: %v", v.Type()))
	}

	if v.Type() == charType {
		c, err := d.Char()
		if err != nil {
			return err
		}
		v.SetInt(int64(c))
		return nil
	}

	if tu, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
		s, err := d.Text()
		if err != nil {
			return err
		}
		return tu.UnmarshalText([]byte(s))
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return unmarshalValue(d, v.Elem(), tag)
	case reflect.Bool:
		b, err := d.Bool()
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := d.Int(v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := d.Uint(v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := d.Float(v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil
	case reflect.String:
		s, err := d.Text()
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			s, err := d.Str()
			if err != nil {
				return err
			}
			v.SetBytes([]byte(s))
			return nil
		}
		elemType := v.Type().Elem()
		if v.IsNil() {
			v.Set(reflect.MakeSlice(v.Type(), 0, 0))
		}
		return d.Seq(func(d *Decoder) error {
			elem := reflect.New(elemType).Elem()
			if err := unmarshalValue(d, elem, tag); err != nil {
				return err
			}
			v.Set(reflect.Append(v, elem))
			return nil
		})
	case reflect.Array:
		i := 0
		return d.Seq(func(d *Decoder) error {
			if i >= v.Len() {
				return fmt.Errorf("too many elements, limit %d", v.Len())
			}
			if err := unmarshalValue(d, v.Index(i), tag); err != nil {
				return err
			}
			i++
			return nil
		})
	case reflect.Struct:
		return unmarshalStruct(d, v, tag)
	}

	return fmt.Errorf("unsupported type: %v", v.Type())
}

func unmarshalStruct(d *Decoder, v reflect.Value, tag string) error {
	t := v.Type()
	fieldMap := make(map[string]reflect.Value)
	names := make([]string, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if fieldType.PkgPath != "" {
			continue
		}

		if ftag, ok := fieldType.Tag.Lookup("tcfg"); ok {
			if ftag == "-" {
				continue
			}
			name, _, _ := strings.Cut(ftag, ",")
			fieldMap[name] = field
			names = append(names, name)
			continue
		}

		if ftag, ok := fieldType.Tag.Lookup("json"); ok {
			if ftag == "-" {
				continue
			}
			name, _, _ := strings.Cut(ftag, ",")
			fieldMap[name] = field
			names = append(names, name)
			continue
		}

		fieldMap[fieldType.Name] = field
		fieldMap[toSnakeCase(fieldType.Name)] = field
		names = append(names, toSnakeCase(fieldType.Name))
	}

	return d.Struct(tag, names, func(name string, d *Decoder) error {
		field, ok := fieldMap[name]
		if !ok {
			return fmt.Errorf("unknown field %q in struct %s", name, tag)
		}
		return unmarshalValue(d, field, name)
	})
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}
