// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads the settings of the sdoc command.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/rupor-github/gencfg"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"zombiezen.com/go/sdoc"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	RenderConfig struct {
		BlockSeparator string `yaml:"block_separator"`
		Document       bool   `yaml:"document"`
		Title          string `yaml:"title" validate:"omitempty,max=256"`
	}

	ParseConfig struct {
		SingleLineSpans bool   `yaml:"single_line_spans"`
		Charset         string `yaml:"charset" validate:"omitempty,printascii"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Render  RenderConfig  `yaml:"render"`
		Parse   ParseConfig   `yaml:"parse"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

// MarshalYAML writes the block separator double-quoted,
// since yaml.v3 would emit a lone newline as a block scalar
// that does not read back as the same string.
func (rc RenderConfig) MarshalYAML() (any, error) {
	type plain RenderConfig
	var node yaml.Node
	if err := node.Encode(plain(rc)); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "block_separator" {
			value := node.Content[i+1]
			value.Kind = yaml.ScalarNode
			value.Tag = "!!str"
			value.Style = yaml.DoubleQuotedStyle
			value.Value = rc.BlockSeparator
		}
	}
	return &node, nil
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// Unknown keys are most likely typos, so yaml.Unmarshal is not enough.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the expanded configuration template
// and validates the result.
// An empty path yields the defaults.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare expands the configuration template and returns the defaults as YAML.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

// Dump returns cfg as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// Renderer returns an HTML renderer with the configured options.
func (cfg *Config) Renderer() *sdoc.HTMLRenderer {
	return &sdoc.HTMLRenderer{
		BlockSeparator: cfg.Render.BlockSeparator,
		Document:       cfg.Render.Document,
		Title:          cfg.Render.Title,
	}
}

// Parser returns a new parser with the configured options
// that logs warnings to log.
func (cfg *Config) Parser(log *zap.Logger) *sdoc.Parser {
	p := sdoc.NewParser()
	p.Log = log
	p.SingleLineSpans = cfg.Parse.SingleLineSpans
	return p
}
