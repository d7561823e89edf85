// Package ztest runs formulaic tests ("ztests") of SPL queries in-process
// with the compiled-in code base.
//
// A ztest runs a query on an input and checks for an expected output.  It
// is defined in a YAML file.
//
//	spl: '| stats count by country'
//
//	input: |
//	  {"country":"US"}
//	  {"country":"CA"}
//	  {"country":"US"}
//
//	output: |
//	  {"country":"US","count":2}
//	  {"country":"CA","count":1}
//
// Input format is detected automatically and can be anything recognized by
// sio/anyio.  It may be given explicitly with input-format.  Output is
// newline-delimited JSON unless output-format selects csv or tsv.
//
// A test that expects a failure gives the text of the error in place of,
// or in addition to, the output.
//
//	spl: '| stats cnt(x)'
//
//	error: |
//	  compile error at offset 8: unknown aggregation "cnt" (did you mean "count"?)
//
// The config field holds settings for the compiler in the same form as a
// configuration file given to the spl command.
//
//	spl: '| eval y = x * 2 | sort y'
//	config:
//	  parallelism: 4
//
// Ztest YAML files for a package reside in a subdirectory named ztests.
//
//	pkg/
//	  pkg.go
//	  pkg_test.go
//	  ztests/
//	    test-1.yaml
//	    test-2.yaml
//	    ...
//
// Name YAML files descriptively since each ztest runs as a subtest
// named for the file that defines it.  TestSPL in the root package finds
// every ztests directory and calls Run for it.
//
// Tests can be skipped by setting the skip field to a non-empty string.  A
// message containing the string will be written to the test log.
package ztest

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/brimdata/spl/compiler"
	"github.com/brimdata/spl/runtime"
	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/sio/anyio"
	"github.com/brimdata/spl/zbuf"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

type Bundle struct {
	TestName string
	FileName string
	Test     *ZTest
	Error    error
}

func Load(dirname string) ([]Bundle, error) {
	var bundles []Bundle
	fileinfos, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}
	for _, fi := range fileinfos {
		filename := fi.Name()
		const dotyaml = ".yaml"
		if !strings.HasSuffix(filename, dotyaml) {
			continue
		}
		testname := strings.TrimSuffix(filename, dotyaml)
		filename = filepath.Join(dirname, filename)
		zt, err := FromYAMLFile(filename)
		bundles = append(bundles, Bundle{testname, filename, zt, err})
	}
	return bundles, nil
}

// Run runs the ztests in the directory named dirname.  For each file f.yaml in
// the directory, Run calls FromYAMLFile to load a ztest and then runs it in
// subtest named f.
func Run(t *testing.T, dirname string) {
	bundles, err := Load(dirname)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range bundles {
		t.Run(b.TestName, func(t *testing.T) {
			t.Parallel()
			if b.Error != nil {
				t.Fatalf("%s: %s", b.FileName, b.Error)
			}
			b.Test.Run(t, b.FileName)
		})
	}
}

// ZTest defines a ztest.
type ZTest struct {
	Skip string `yaml:"skip,omitempty"`

	SPL          string          `yaml:"spl"`
	Config       compiler.Config `yaml:"config,omitempty"`
	Input        *string         `yaml:"input,omitempty"`
	InputFormat  string          `yaml:"input-format,omitempty"`
	Output       string          `yaml:"output,omitempty"`
	OutputFormat string          `yaml:"output-format,omitempty"`
	Error        string          `yaml:"error,omitempty"`
}

func (z *ZTest) check() error {
	if z.SPL == "" {
		return errors.New("spl field must be present")
	}
	return nil
}

// FromYAMLFile loads a ZTest from the YAML file named filename.
func FromYAMLFile(filename string) (*ZTest, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var z ZTest
	if err := dec.Decode(&z); err != nil {
		return nil, err
	}
	var extra any
	if dec.Decode(&extra) == nil {
		return nil, errors.New("file must contain one YAML document")
	}
	return &z, nil
}

func (z *ZTest) RunInternal(ctx context.Context) error {
	if err := z.check(); err != nil {
		return fmt.Errorf("bad yaml format: %w", err)
	}
	return z.diffInternal(runInternal(ctx, z))
}

func (z *ZTest) diffInternal(out string, err error) error {
	var outDiffErr, errDiffErr error
	if z.Output != out {
		outDiffErr = diffErr("output", z.Output, out)
	}
	var errStr string
	if err != nil {
		// Append newline if err doesn't end with one.
		errStr = strings.TrimSuffix(err.Error(), "\n") + "\n"
	}
	if z.Error != errStr {
		errDiffErr = diffErr("error", z.Error, errStr)
	}
	return errors.Join(outDiffErr, errDiffErr)
}

func (z *ZTest) Run(t *testing.T, filename string) {
	if z.Skip != "" {
		t.Skip("skipping test:", z.Skip)
	}
	if err := z.RunInternal(t.Context()); err != nil {
		t.Fatalf("%s: %s", filename, err)
	}
}

func diffErr(name, expected, actual string) error {
	if !utf8.ValidString(expected) {
		expected = hex.Dump([]byte(expected))
		actual = hex.Dump([]byte(actual))
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		FromFile: "expected",
		B:        difflib.SplitLines(actual),
		ToFile:   "actual",
		Context:  5,
	})
	if err != nil {
		panic("ztest: " + err.Error())
	}
	return fmt.Errorf("expected and actual %s differ:\n%s", name, diff)
}

// runInternal runs the query of z over its input and returns the output
// written before any error.
func runInternal(ctx context.Context, z *ZTest) (string, error) {
	var readers []sio.Reader
	if z.Input != nil {
		r, err := anyio.NewReader(strings.NewReader(*z.Input), anyio.ReaderOpts{Format: z.InputFormat})
		if err != nil {
			return "", err
		}
		readers = []sio.Reader{r}
	}
	c, err := compiler.New(z.Config, nil)
	if err != nil {
		return "", err
	}
	rctx := runtime.NewContext(ctx)
	q, err := c.Compile(rctx, z.SPL, readers)
	if err != nil {
		return "", err
	}
	defer q.Close()
	var outbuf bytes.Buffer
	zw, err := anyio.NewWriter(sio.NopCloser(&outbuf), anyio.WriterOpts{Format: z.OutputFormat})
	if err != nil {
		return "", err
	}
	err = zbuf.CopyPuller(zw, q)
	if err2 := zw.Close(); err == nil {
		err = err2
	}
	return outbuf.String(), err
}
