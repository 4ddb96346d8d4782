package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"gamasa/shared/constant"
	"gamasa/shared/failure"

	val "github.com/go-playground/validator/v10"
)

const megabyte = 1024 * 1024

var validate *val.Validate

var (
	dateRegex   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	uuidV4Regex = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	sqlMetaSequences = []string{"'", `"`, ";", "--", "/*", "*/", `\`}
)

// IsValidDate reports whether value is a YYYY-MM-DD string naming a real calendar day.
func IsValidDate(value string) bool {
	if !dateRegex.MatchString(value) {
		return false
	}

	_, err := time.Parse(constant.DateOnlyFormat, value)

	return err == nil
}

// IsValidUUID reports whether value is a version 4 UUID.
func IsValidUUID(value string) bool {
	return uuidV4Regex.MatchString(value)
}

func ContainsSQLMeta(value string) bool {
	for _, seq := range sqlMetaSequences {
		if strings.Contains(value, seq) {
			return true
		}
	}

	return false
}

// ValidateID rejects path identifiers that are not version 4 UUIDs.
func ValidateID(id string) error {
	if !IsValidUUID(id) {
		return failure.InvalidIDParam
	}

	return nil
}

func registerDateValidation(field val.FieldLevel) bool {
	return IsValidDate(field.Field().String())
}

func registerUUIDValidation(field val.FieldLevel) bool {
	return IsValidUUID(field.Field().String())
}

func registerSafeTextValidation(field val.FieldLevel) bool {
	return !ContainsSQLMeta(field.Field().String())
}

// registerMimetypeValidation checks the declared content type of an uploaded file against
// the space separated list in the tag.
func registerMimetypeValidation(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	contentType, _, _ := strings.Cut(file.Header.Get(constant.RequestHeaderContentType), ";")

	return slices.Contains(strings.Fields(field.Param()), strings.TrimSpace(contentType))
}

// registerFileSizeValidation bounds an uploaded file by the tag value in megabytes.
func registerFileSizeValidation(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return float64(file.Size) <= maxSizeMB*megabyte
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	rules := map[string]val.Func{
		"mimetypes":   registerMimetypeValidation,
		"maxfilesize": registerFileSizeValidation,
		"date_ymd":    registerDateValidation,
		"uuid4":       registerUUIDValidation,
		"safe_text":   registerSafeTextValidation,
	}

	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
