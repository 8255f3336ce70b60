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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quietConfig turns off console logging.
const quietConfig = "version: 1\nlogging:\n  console:\n    level: none\n"

func runApp(t *testing.T, args ...string) error {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(quietConfig), 0o644))
	ctx := contextWithEnv(context.Background())
	return newApp().Run(ctx, append([]string{"sdoc", "--config", cfgPath}, args...))
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.adoc")
	dst := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(src, []byte("=== Title\n\nSome *bold* text.\n"), 0o644))

	require.NoError(t, runApp(t, "--output", dst, src))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "<h3>Title</h3>\n<p>Some <strong>bold</strong> text.</p>\n", string(got))
}

func TestConvertWarningsDoNotFail(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.adoc")
	dst := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(src, []byte("[bogus]\nA *lonely star\n"), 0o644))

	require.NoError(t, runApp(t, "-o", dst, src))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "<p>A *lonely star</p>\n", string(got))
}

func TestConvertStdin(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "stdin.adoc")
	dst := filepath.Join(dir, "out.html")
	require.NoError(t, os.WriteFile(src, []byte("* one\n* two\n"), 0o644))
	f, err := os.Open(src)
	require.NoError(t, err)
	defer f.Close()

	oldStdin := os.Stdin
	os.Stdin = f
	defer func() { os.Stdin = oldStdin }()

	require.NoError(t, runApp(t, "--output", dst, "-"))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>one</li><li>two</li></ul>\n", string(got))
}

func TestConvertCharset(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "latin1.adoc")
	dst := filepath.Join(dir, "out.html")
	require.NoError(t, os.WriteFile(src, []byte("caf\xe9 _cr\xe8me_\n"), 0o644))

	require.NoError(t, runApp(t, "--charset", "windows-1252", "--output", dst, src))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "<p>café <em>crème</em></p>\n", string(got))
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.adoc")
	require.NoError(t, os.WriteFile(src, []byte("text\n"), 0o644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "MissingFile", args: []string{filepath.Join(dir, "missing.adoc")}, wantErr: "open input"},
		{name: "NoInput", args: nil, wantErr: "no input source"},
		{name: "UnknownCharset", args: []string{"--charset", "no-such-charset", src}, wantErr: "character set"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := runApp(t, test.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.wantErr)
		})
	}
}

func TestDumpConfig(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, runApp(t, "dumpconfig", dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(got), "block_separator"), "dump missing render settings:\n%s", got)
	assert.Contains(t, string(got), "level: none")
}

func TestDumpConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "dump.yaml")
	require.NoError(t, runApp(t, "dumpconfig", dump))

	src := filepath.Join(dir, "doc.adoc")
	dst := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(src, []byte("= A\nB\n"), 0o644))
	ctx := contextWithEnv(context.Background())
	require.NoError(t, newApp().Run(ctx, []string{"sdoc", "--config", dump, "--output", dst, src}))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "<h1>A</h1>\n<p>B</p>\n", string(got))
}
