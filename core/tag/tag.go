// Package tag fills zero-valued struct fields from `default:"..."` struct tags.
package tag

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTargetMustBePointer = errors.New("target must be a pointer to a struct")
	ErrUnsupportedType     = errors.New("unsupported type")
	ErrMaxDepthExceeded    = errors.New("max recursion depth exceeded")
)

// FieldError carries the path of the field whose default could not be applied.
type FieldError struct {
	Path  string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q (value %q): %v", e.Path, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

type options struct {
	tagName   string
	separator string
	maxDepth  int
}

type Option func(*options)

// WithTagName sets the tag to read (default "default").
func WithTagName(name string) Option {
	return func(o *options) {
		o.tagName = name
	}
}

// WithSeparator sets the separator for slice defaults (default ",").
func WithSeparator(sep string) Option {
	return func(o *options) {
		o.separator = sep
	}
}

// ApplyDefaults sets every zero-valued exported field of the struct pointed to by
// target to the value of its default tag. Nested structs and pointers to structs are
// walked; fields that already hold a value are left alone.
//
//	type Server struct {
//	    Addr    string        `default:":8000"`
//	    Timeout time.Duration `default:"5s"`
//	}
func ApplyDefaults(target any, opts ...Option) error {
	o := &options{tagName: "default", separator: ",", maxDepth: 32}
	for _, opt := range opts {
		opt(o)
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrTargetMustBePointer
	}
	return o.applyStruct(v.Elem(), "", 0)
}

func (o *options) applyStruct(v reflect.Value, path string, depth int) error {
	if depth >= o.maxDepth {
		return ErrMaxDepthExceeded
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}

		fieldPath := field.Name
		if path != "" {
			fieldPath = path + "." + field.Name
		}
		def := field.Tag.Get(o.tagName)

		switch {
		case fv.Kind() == reflect.Struct && !isText(fv):
			if err := o.applyStruct(fv, fieldPath, depth+1); err != nil {
				return err
			}
		case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct:
			if fv.IsNil() {
				fv.Set(reflect.New(fv.Type().Elem()))
			}
			if err := o.applyStruct(fv.Elem(), fieldPath, depth+1); err != nil {
				return err
			}
		case def != "" && fv.IsZero():
			if err := o.parse(fv, def); err != nil {
				return &FieldError{Path: fieldPath, Value: def, Err: err}
			}
		}
	}
	return nil
}

func isText(v reflect.Value) bool {
	_, ok := v.Addr().Interface().(encoding.TextUnmarshaler)
	return ok
}

func (o *options) parse(v reflect.Value, s string) error {
	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(s))
		}
	}

	s = strings.TrimSpace(s)
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Type() == reflect.TypeFor[time.Duration]() {
			d, err := time.ParseDuration(s)
			if err != nil {
				return err
			}
			v.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Slice:
		parts := strings.Split(s, o.separator)
		slice := reflect.MakeSlice(v.Type(), len(parts), len(parts))
		for i, part := range parts {
			if err := o.parse(slice.Index(i), part); err != nil {
				return err
			}
		}
		v.Set(slice)
	default:
		return ErrUnsupportedType
	}
	return nil
}
