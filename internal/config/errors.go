package config

import (
	"errors"
	"fmt"
)

var (
	ErrConfigurationNotFound    = errors.New("configuration not found")
	ErrUnknownEnvironment       = errors.New("unknown environment")
	ErrMissingBaseURL           = errors.New("base_url not configured")
	ErrInvalidExecutionConfig   = errors.New("invalid execution config")
	ErrInvalidEnvironmentConfig = errors.New("invalid environment config")
)

type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return ErrConfigurationNotFound
}

type UnknownEnvironmentError struct {
	Name string
}

func (e *UnknownEnvironmentError) Error() string {
	if e.Name == "" {
		return "no environment selected and default_env is empty"
	}
	return fmt.Sprintf("environment %q is not defined", e.Name)
}

func (e *UnknownEnvironmentError) Unwrap() error {
	return ErrUnknownEnvironment
}
