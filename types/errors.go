package types

import (
	"errors"
	"fmt"
)

var (
	ErrConfigIsNil          = errors.New("config is nil")
	ErrConfigLoadFailed     = errors.New("config load failed")
	ErrConfigParseFailed    = errors.New("config parse failed")
	ErrConfigValidateFailed = errors.New("config validate failed")
)

var (
	ErrCacheKeyEmpty           = errors.New("cache key empty")
	ErrCacheAlreadyRunning     = errors.New("cache already running")
	ErrCacheNotRunning         = errors.New("cache not running")
	ErrEvictionStrategyUnknown = errors.New("eviction strategy unknown")
	ErrSchedulerStopTimeout    = errors.New("scheduler stop timeout")
	ErrPresetUnknown           = errors.New("cache preset unknown")
)

func Errorf(baseErr error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", baseErr, fmt.Sprintf(format, args...))
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func IsError(err, target error) bool {
	return errors.Is(err, target)
}
