// Package compiler turns query text into a runnable query.
package compiler

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/brimdata/spl/compiler/ast"
	"github.com/brimdata/spl/compiler/parser"
	"github.com/brimdata/spl/compiler/rungen"
	"github.com/brimdata/spl/runtime"
	"github.com/brimdata/spl/runtime/exec"
	"github.com/brimdata/spl/runtime/sam/expr/function"
	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/zbuf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type (
	Config       = rungen.Config
	CompileError = rungen.CompileError
)

// ParseConfig decodes a YAML configuration.  Unknown keys are an error.
func ParseConfig(b []byte) (Config, error) {
	var conf Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return conf, nil
}

func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(b)
}

// Compiler compiles queries with a common configuration.  Its compiled
// regular expressions are shared by the queries it compiles.
type Compiler struct {
	conf    Config
	regexps *function.RegexpCache
}

// New returns a Compiler whose regular expression cache metrics are
// registered with registerer, which may be nil.
func New(conf Config, registerer prometheus.Registerer) (*Compiler, error) {
	regexps, err := function.NewRegexpCache(function.DefaultRegexpCacheSize, registerer)
	if err != nil {
		return nil, err
	}
	return &Compiler{conf: conf.WithDefaults(), regexps: regexps}, nil
}

func (c *Compiler) Config() Config {
	return c.conf
}

// Compile parses query, prefixed by the contents of any include files, and
// compiles it into a query reading the concatenation of readers.
func (c *Compiler) Compile(rctx *runtime.Context, query string, readers []sio.Reader, filenames ...string) (*exec.Query, error) {
	q, _, err := parser.ParseQuery(query, filenames...)
	if err != nil {
		return nil, err
	}
	return c.CompileAST(rctx, q, readers)
}

func (c *Compiler) CompileAST(rctx *runtime.Context, q *ast.Query, readers []sio.Reader) (*exec.Query, error) {
	var source zbuf.Puller
	if len(readers) > 0 {
		source = zbuf.NewPuller(sio.ConcatReader(readers...), c.conf.BatchSize)
	}
	id := ksuid.New()
	rctx.Logger = rctx.Logger.With(zap.Stringer("query", id))
	puller, err := rungen.NewBuilder(rctx, c.conf, c.regexps).Build(q, source)
	if err != nil {
		return nil, err
	}
	return exec.NewQuery(rctx, id, puller), nil
}

// Compile compiles query with the default configuration.
func Compile(rctx *runtime.Context, query string, readers ...sio.Reader) (*exec.Query, error) {
	c, err := New(Config{}, nil)
	if err != nil {
		return nil, err
	}
	return c.Compile(rctx, query, readers)
}
