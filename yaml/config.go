// Package yaml loads crawl configuration files.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/kbase"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return kbase.IsHTTPURL(fl.Field().String())
	})
	return v
}

// LoadConfig reads, defaults and validates the crawl configuration at path.
// A missing file is ENOTFOUND; any other problem with its contents is
// EINVALID.
func LoadConfig(path string) (*kbase.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, kbase.Errorf(kbase.ENOTFOUND, "config file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(bytes.NewReader(data))
}

// ParseConfig decodes a crawl configuration. Unknown fields are rejected.
func ParseConfig(r io.Reader) (*kbase.Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg kbase.Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, kbase.Errorf(kbase.EINVALID, "config is empty")
		}
		return nil, kbase.Errorf(kbase.EINVALID, "parse config: %v", err)
	}
	cfg.ApplyDefaults()

	if err := validate.Struct(&cfg); err != nil {
		return nil, kbase.Errorf(kbase.EINVALID, "%s", validationMessage(err))
	}
	return &cfg, nil
}

// validationMessage lists every failed field and rule.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid config: " + err.Error()
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag())
	}
	return "invalid config: " + strings.Join(parts, "; ")
}
