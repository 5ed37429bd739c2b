package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/testdeck/internal/domain"
)

func LoadSuite(path string) (domain.TestSuite, error) {
	var ys YAMLSuite
	if err := decodeFile("config.load_suite", path, &ys); err != nil {
		return domain.TestSuite{}, err
	}
	return MapSuite(path, ys)
}

func LoadEnvironment(path string) (domain.Environment, error) {
	var ye YAMLEnvironment
	if err := decodeFile("config.load_environment", path, &ye); err != nil {
		return domain.Environment{}, err
	}
	return MapEnvironment(path, ye), nil
}

func decodeFile(op, path string, into any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: path, Err: err}
	}
	if err := yaml.Unmarshal(b, into); err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Path: path, Err: err}
	}
	return nil
}
