// Package config loads cache configuration from YAML, fills documented
// defaults for unset fields and validates the result.
package config

import (
	"context"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/saiset-co/sai-cache/types"
)

type Loader struct {
	validator   *validator.Validate
	readTimeout time.Duration
}

func NewLoader() *Loader {
	return &Loader{
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		readTimeout: 30 * time.Second,
	}
}

// LoadFromFile reads a YAML cache configuration. Fields absent from the file
// keep their defaults.
func (l *Loader) LoadFromFile(configPath string) (*types.CacheConfig, error) {
	if configPath == "" {
		return nil, types.ErrConfigLoadFailed
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, pkgerrors.Wrap(types.ErrConfigLoadFailed, "file not found: "+configPath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.readTimeout)
	defer cancel()

	data, err := l.readFileWithTimeout(ctx, configPath)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read config file")
	}

	return l.Parse(data)
}

// Parse unmarshals YAML over the defaults and validates the result.
func (l *Loader) Parse(data []byte) (*types.CacheConfig, error) {
	config := types.DefaultCacheConfig()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, types.Errorf(types.ErrConfigParseFailed, "%v", err)
	}

	if err := l.validator.Struct(config); err != nil {
		return nil, types.Errorf(types.ErrConfigValidateFailed, "%v", err)
	}

	return config, nil
}

func (l *Loader) readFileWithTimeout(ctx context.Context, filepath string) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}

	resultChan := make(chan result, 1)

	go func() {
		data, err := os.ReadFile(filepath)
		resultChan <- result{data: data, err: err}
	}()

	select {
	case res := <-resultChan:
		return res.data, res.err
	case <-ctx.Done():
		return nil, types.WrapError(ctx.Err(), "file read timeout")
	}
}
