package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Project is the optional .sel.yaml project file: module search roots and
// a default source extension override. Most invocations have none.
type Project struct {
	Roots     []string `yaml:"roots"`
	Extension string   `yaml:"extension"`
}

// LoadProject reads a project file at path. A missing file is not an error;
// it yields a zero Project.
func LoadProject(path string) (Project, error) {
	var p Project
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, err
	}
	return p, nil
}
