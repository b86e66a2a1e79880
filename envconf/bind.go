// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package envconf

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Bind copies a validated Config onto a tagged struct. Fields bind by
// their `env:"NAME"` tags and the populated struct is then checked against
// its `validate` tags, so programs get compile-time names for schema
// fields without keeping a second source of truth for validation.
//
// Binding reads only from the Config, never from the live process
// environment.
func Bind(cfg *Config, target any) error {
	opts := env.Options{Environment: cfg.StringMap()}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("could not bind config to struct, err=%w", err)
	}
	if err := validator.New().Struct(target); err != nil {
		return fmt.Errorf("bound struct failed validation, err=%w", err)
	}
	return nil
}
