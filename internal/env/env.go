// Package env loads configuration structs from environment variables.
package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

// Validator is implemented by config structs that need validation after
// loading.
type Validator interface {
	Validate() error
}

// Load fills the struct pointed to by v from environment variables named
// by `env:"VAR"` struct tags. Unset variables leave the field untouched,
// so defaults can be assigned before calling Load.
//
// Supported field types: string, bool, int, and time.Duration (Go duration
// strings such as "90s" or "1m"). Nested structs are loaded recursively.
// If v implements Validator, Validate is called after loading.
func Load(v any) error {
	ptr := reflect.ValueOf(v)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("env.Load: want pointer to struct, got %T", v)
	}

	if err := loadStruct(ptr.Elem()); err != nil {
		return err
	}

	if validator, ok := v.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func loadStruct(val reflect.Value) error {
	typ := val.Type()

	for i := range val.NumField() {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(field); err != nil {
				return err
			}
			continue
		}

		key := typ.Field(i).Tag.Get("env")
		if key == "" {
			continue
		}

		raw, ok := os.LookupEnv(key)
		if !ok {
			continue
		}

		if err := setField(field, raw); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", key, raw, err)
		}
	}

	return nil
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
		return nil

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
		return nil

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
		return nil

	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
}
