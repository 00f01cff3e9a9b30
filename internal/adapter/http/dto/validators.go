package dto

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Exchange symbols are upper or lower case alphanumerics, e.g. BTCUSDT.
var symbolRe = regexp.MustCompile(`^[a-zA-Z0-9]{2,20}$`)

// Amounts are plain positive decimals; exponents and signs are rejected.
var amountRe = regexp.MustCompile(`^[0-9]{1,20}(\.[0-9]{1,18})?$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("symbol", validateSymbol)
		_ = v.RegisterValidation("notblank", validateNotBlank)
		_ = v.RegisterValidation("amount", validateAmount)
	}
}

// validateSymbol accepts a trading pair symbol, ignoring surrounding spaces.
func validateSymbol(fl validator.FieldLevel) bool {
	return symbolRe.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validateNotBlank rejects strings made only of whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateAmount accepts a positive decimal amount such as 0.5 or 100.
func validateAmount(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !amountRe.MatchString(s) {
		return false
	}
	return strings.Trim(s, "0.") != ""
}

// TrimStrings trims surrounding whitespace from the exported string and
// []string fields of a struct pointer, descending into embedded structs.
// Fields tagged trim:"-" are skipped so credentials reach the signer
// byte-for-byte.
func TrimStrings(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	trimStruct(rv.Elem())
}

func trimStruct(rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		sf := rt.Field(i)
		if !f.CanSet() || sf.Tag.Get("trim") == "-" {
			continue
		}
		if sf.Anonymous && f.Kind() == reflect.Struct {
			trimStruct(f)
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Slice:
			if f.Type().Elem().Kind() != reflect.String {
				continue
			}
			for j := 0; j < f.Len(); j++ {
				f.Index(j).SetString(strings.TrimSpace(f.Index(j).String()))
			}
		}
	}
}
