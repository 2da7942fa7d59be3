// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package opts

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/catalogsync/pkg/config"
	"github.com/walteh/catalogsync/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
	NoColor    bool

	Stdout io.Writer // report and command output
	Stderr io.Writer // progress lines and structured logs
}

// 🎯 Context attaches the structured logger and the console logger.
// Structured logs go to stderr at warn level, or debug with Debug set.
func (o *RootOpts) Context(ctx context.Context) context.Context {
	if o.NoColor {
		color.NoColor = true
	}

	level := zerolog.WarnLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(o.Stderr).Level(level).With().Timestamp().Logger()

	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(o.Stderr, zlog))
}

// 📚 LoadConfig returns the defaults, overlaid with the config file when
// one was given.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	if o.ConfigFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
