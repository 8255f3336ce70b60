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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"zombiezen.com/go/sdoc"
)

// stdinName is the FILE argument that selects standard input.
const stdinName = "-"

func convert(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := envFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	in, err := openInput(src)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() {
		err = multierr.Append(err, in.Close())
	}()

	charset := cmd.String("charset")
	if charset == "" {
		charset = env.Cfg.Parse.Charset
	}
	r, err := decodeInput(in, charset)
	if err != nil {
		return err
	}

	p := env.Cfg.Parser(log.With(zap.String("source", src)))
	err = sdoc.ReadLines(r, func(line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.ParseLine(line)
		return nil
	})
	p.Close()
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", src, err)
	}
	if n := len(p.Warnings()); n > 0 {
		log.Info("Document converted with problems", zap.Int("warnings", n))
	}

	html := env.Cfg.Renderer().AppendEvents(nil, p.Events())
	if len(html) > 0 && html[len(html)-1] != '\n' {
		html = append(html, '\n')
	}
	if err := writeOutput(cmd.String("output"), html); err != nil {
		return err
	}
	log.Debug("Conversion completed", zap.String("source", src), zap.Duration("elapsed", env.uptime()))
	return nil
}

func openInput(src string) (io.ReadCloser, error) {
	if src == stdinName {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(src)
}

// decodeInput returns a reader that converts r from the named IANA character set to UTF-8.
func decodeInput(r io.Reader, charset string) (io.Reader, error) {
	if charset == "" {
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown character set %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported character set %q", charset)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

func writeOutput(dst string, data []byte) (err error) {
	if len(dst) == 0 {
		_, err = os.Stdout.Write(data)
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("unable to create destination file '%s': %w", dst, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("unable to write destination file '%s': %w", dst, err)
	}
	return nil
}
