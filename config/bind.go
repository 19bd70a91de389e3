package config

import (
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// bindStruct 将结构体当前值注册为 viper 默认值, 使每个 key 都能被环境变量覆盖
func bindStruct(v *viper.Viper, target any) error {
	rv := reflect.ValueOf(target)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	bindValue(v, rv, "")
	return nil
}

func bindValue(v *viper.Viper, rv reflect.Value, prefix string) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		fv := rv.Field(i)
		if squashed(field) && fv.Kind() == reflect.Struct {
			bindValue(v, fv, prefix)
			continue
		}

		name := keyName(field)
		if name == "-" {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		if fv.Kind() == reflect.Pointer && !fv.IsNil() && fv.Elem().Kind() == reflect.Struct {
			fv = fv.Elem()
		}
		if fv.Kind() == reflect.Struct && fv.Type().PkgPath() != "time" {
			bindValue(v, fv, key)
			continue
		}
		v.SetDefault(key, fv.Interface())
	}
}

func keyName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("mapstructure"); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}
	return strings.ToLower(field.Name)
}

// squashed 对应 mapstructure 的 ",squash", 内嵌字段的 key 提升到外层
func squashed(field reflect.StructField) bool {
	tag := field.Tag.Get("mapstructure")
	_, opts, _ := strings.Cut(tag, ",")
	return strings.Contains(opts, "squash")
}
