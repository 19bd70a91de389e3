package validator

import (
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type customTag struct {
	tag      string
	fn       validator.Func
	messages map[string]string
}

var customTags = []customTag{
	{
		tag: "byte_aligned",
		fn:  byteAligned,
		messages: map[string]string{
			"en": "{0} must be a multiple of 8",
			"zh": "{0}必须是8的倍数",
		},
	},
}

// byteAligned accepts integer fields that are a multiple of 8.
func byteAligned(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return field.Int()%8 == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return field.Uint()%8 == 0
	}
	return false
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, msg string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return t
		},
	)
}
