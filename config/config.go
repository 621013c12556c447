/*
Package config loads the verification policy from TOML files.
*/
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/crypto"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/integrity"
)

type file struct {
	MinValidSignatures int      `toml:"min_valid_signatures"`
	TrustedKeys        []string `toml:"trusted_keys"`
	TrustedKeyFiles    []string `toml:"trusted_key_files"`
}

// Load reads a TOML file and builds the verification policy. The
// min_valid_signatures key must be set: running without verification is an
// explicit choice, never a default. Trusted keys are PEM blocks, inline
// under trusted_keys or in files named by trusted_key_files.
func Load(path string) (integrity.Config, error) {
	var f file
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return integrity.Config{}, errors.Wrapf(errors.ErrInput, "read configuration: %v", err)
	}
	if !meta.IsDefined("min_valid_signatures") {
		return integrity.Config{}, errors.Field("min_valid_signatures", errors.ErrEmpty, "must be set explicitly")
	}

	cfg := integrity.Config{MinValidSignatures: f.MinValidSignatures}

	for i, block := range f.TrustedKeys {
		key, err := crypto.ParsePublicKey([]byte(block))
		if err != nil {
			return integrity.Config{}, errors.Wrapf(err, "trusted_keys.%d", i)
		}
		cfg.TrustedKeys = append(cfg.TrustedKeys, key)
	}
	for _, name := range f.TrustedKeyFiles {
		raw, err := os.ReadFile(name)
		if err != nil {
			return integrity.Config{}, errors.Wrapf(errors.ErrInput, "read key file: %v", err)
		}
		key, err := crypto.ParsePublicKey(raw)
		if err != nil {
			return integrity.Config{}, errors.Wrapf(err, "key file %s", name)
		}
		cfg.TrustedKeys = append(cfg.TrustedKeys, key)
	}

	if err := cfg.Validate(); err != nil {
		return integrity.Config{}, err
	}
	return cfg, nil
}
