package req

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"dealsadmin/pkg/errcodes"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

func Read(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("json.Decode: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid JSON"),
		)
	}

	return Validate(r, dest)
}

// Form fills the string fields of the struct pointed to by dest from the
// request's form values, matched by their `form` tag, and validates it.
// Values are trimmed of surrounding whitespace unless the field is tagged
// `form:"name,raw"`.
func Form(r *http.Request, dest any) error {
	if err := r.ParseForm(); err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("r.ParseForm: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid form"),
		)
	}

	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("req.Form: dest must be a pointer to struct, got %T", dest)
	}

	v = v.Elem()

	for i := range v.NumField() {
		field := v.Type().Field(i)

		tag, ok := field.Tag.Lookup("form")
		if !ok || field.Type.Kind() != reflect.String {
			continue
		}

		name, opt, _ := strings.Cut(tag, ",")
		value := r.PostForm.Get(name)

		if opt != "raw" {
			value = strings.TrimSpace(value)
		}

		v.Field(i).SetString(value)
	}

	return Validate(r, dest)
}

func Validate(r *http.Request, dest any) error {
	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return failure.NewInvalidArgumentError(
			"validation error",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(err.Error()),
		)
	}

	return nil
}
