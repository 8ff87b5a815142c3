package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "logo.yaml"

// runConfig models logo.yaml. Command-line flags override every field. A
// zero step_quota or recursion_limit leaves that bound off.
type runConfig struct {
	Program        string  `yaml:"program"`
	Output         string  `yaml:"output"`
	Seed           *uint64 `yaml:"seed"`
	StepQuota      int     `yaml:"step_quota"`
	RecursionLimit int     `yaml:"recursion_limit"`
	Verbose        bool    `yaml:"verbose"`
}

// loadRunConfig reads path, or logo.yaml in the working directory when
// path is empty. A missing default file yields a zero config.
func loadRunConfig(path string) (runConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return runConfig{}, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return runConfig{}, nil
		}
		return runConfig{}, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	var cfg runConfig
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return runConfig{}, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	if cfg.StepQuota < 0 {
		return runConfig{}, fmt.Errorf("config: step_quota must not be negative")
	}
	if cfg.RecursionLimit < 0 {
		return runConfig{}, fmt.Errorf("config: recursion_limit must not be negative")
	}
	return cfg, nil
}
