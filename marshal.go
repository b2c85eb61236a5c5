package tcfg

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Marshal converts a Go value to a config document that [Unmarshal] reads
// back. v must be a struct, a slice of structs, or a pointer to either;
// structs must declare the reserved "name" field.
//
// Boolean fields are written as a bare identifier when true and omitted
// when false. Quoted strings have no escape mechanism in this format, so a
// string containing a double quote cannot be marshalled.
func Marshal(v any) ([]byte, error) {
	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil, fmt.Errorf("unsupported value: nil")
		}
		val = val.Elem()
	}

	var b strings.Builder
	tag := typeTag(val.Type())
	switch val.Kind() {
	case reflect.Struct:
		if err := marshalBlock(&b, val, tag, ""); err != nil {
			return nil, err
		}
	case reflect.Slice, reflect.Array:
		for i := range val.Len() {
			if err := marshalBlock(&b, val.Index(i), tag, ""); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unsupported type: %s", val.Type())
	}
	return []byte(b.String()), nil
}

type fieldSpec struct {
	name      string
	value     reflect.Value
	omitEmpty bool
}

func structSpecs(v reflect.Value) (instance string, specs []fieldSpec, hasName bool) {
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup("tcfg")
		if !ok {
			tag, ok = field.Tag.Lookup("json")
		}
		if tag == "-" {
			continue
		}
		name, options, _ := strings.Cut(tag, ",")
		if name == "" {
			if ok {
				name = field.Name
			} else {
				name = toSnakeCase(field.Name)
			}
		}
		fv := v.Field(i)
		if name == NameField {
			hasName = true
			if fv.Kind() == reflect.String {
				instance = fv.String()
			}
			continue
		}
		specs = append(specs, fieldSpec{
			name:      name,
			value:     fv,
			omitEmpty: strings.Contains(options, "omitempty"),
		})
	}
	return instance, specs, hasName
}

func marshalBlock(b *strings.Builder, v reflect.Value, tag, indent string) error {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("unsupported block type: %s", v.Type())
	}

	instance, specs, hasName := structSpecs(v)
	if !hasName {
		return &MissingNameFieldError{Type: tag}
	}

	b.WriteString(indent)
	b.WriteString(tag)
	if instance != "" {
		quoted, err := quoteText(instance)
		if err != nil {
			return err
		}
		b.WriteString(" " + quoted)
	}
	b.WriteString(" {\n")
	inner := indent + "  "

	for _, spec := range specs {
		fv := spec.value
		for fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				fv = reflect.Value{}
				break
			}
			fv = fv.Elem()
		}
		if !fv.IsValid() || (spec.omitEmpty && fv.IsZero()) {
			continue
		}

		switch {
		case fv.Kind() == reflect.Bool:
			if fv.Bool() {
				b.WriteString(inner + spec.name + "\n")
			}
		case fv.Kind() == reflect.Struct && !implementsTextMarshaler(fv):
			if err := marshalBlock(b, fv, spec.name, inner); err != nil {
				return err
			}
		case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.Uint8:
			quoted, err := quoteText(string(fv.Bytes()))
			if err != nil {
				return err
			}
			b.WriteString(inner + spec.name + " = " + quoted + "\n")
		case fv.Kind() == reflect.Slice || fv.Kind() == reflect.Array:
			elemKind := fv.Type().Elem().Kind()
			if elemKind == reflect.Struct || elemKind == reflect.Pointer {
				for i := range fv.Len() {
					if err := marshalBlock(b, fv.Index(i), spec.name, inner); err != nil {
						return err
					}
				}
				continue
			}
			elems := make([]string, 0, fv.Len())
			for i := range fv.Len() {
				s, err := scalarString(fv.Index(i))
				if err != nil {
					return err
				}
				elems = append(elems, s)
			}
			b.WriteString(inner + spec.name + " = [" + strings.Join(elems, ", ") + "]\n")
		default:
			s, err := scalarString(fv)
			if err != nil {
				return err
			}
			b.WriteString(inner + spec.name + " = " + s + "\n")
		}
	}

	b.WriteString(indent + "}\n")
	return nil
}

func implementsTextMarshaler(v reflect.Value) bool {
	_, ok := v.Interface().(encoding.TextMarshaler)
	return ok
}

func scalarString(v reflect.Value) (string, error) {
	if v.Type() == charType {
		return quoteChar(rune(v.Int()))
	}
	if m, ok := v.Interface().(encoding.TextMarshaler); ok {
		text, err := m.MarshalText()
		if err != nil {
			return "", err
		}
		return quoteText(string(text))
	}

	switch v.Kind() {
	case reflect.String:
		return quoteText(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return formatFloat(v.Float(), v.Type().Bits()), nil
	default:
		return "", fmt.Errorf("unsupported type: %s", v.Type())
	}
}

func quoteText(s string) (string, error) {
	if strings.Contains(s, `"`) {
		return "", fmt.Errorf("string %q cannot be quoted: the format has no escapes", s)
	}
	return `"` + s + `"`, nil
}

func quoteChar(r rune) (string, error) {
	switch r {
	case '\n':
		return `'\n'`, nil
	case '\t':
		return `'\t'`, nil
	case '\r':
		return `'\r'`, nil
	case '\\':
		return `'\\'`, nil
	case '\'':
		return `'\''`, nil
	case '"':
		return `'\"'`, nil
	}
	if r >= 0x20 && r < 0x7f {
		return "'" + string(r) + "'", nil
	}
	if r >= 0 && r <= 0xff {
		return fmt.Sprintf(`'\x%02X'`, r), nil
	}
	return "", fmt.Errorf("char %q does not fit in a byte", r)
}

// formatFloat renders f so it lexes back as a Float token, which requires
// a '.' in the literal.
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
