package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/reoring/goserde/cbor"
	"github.com/reoring/goserde/json"
)

// fileConfig is the YAML configuration accepted by --config. Flags given on
// the command line override it.
type fileConfig struct {
	JSON struct {
		IgnoreUnknownKeys  bool   `yaml:"ignoreUnknownKeys"`
		UnquotedPrint      bool   `yaml:"unquotedPrint"`
		PrettyPrint        bool   `yaml:"prettyPrint"`
		Indent             string `yaml:"indent"`
		OmitDefaults       bool   `yaml:"omitDefaults"`
		ClassDiscriminator string `yaml:"classDiscriminator"`
		MaxDepth           int    `yaml:"maxDepth"`
	} `yaml:"json"`
	CBOR struct {
		IgnoreUnknownKeys bool `yaml:"ignoreUnknownKeys"`
		OmitDefaults      bool `yaml:"omitDefaults"`
	} `yaml:"cbor"`
}

func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	verbose    bool
	pretty     bool
	unquoted   bool
	indent     string
	maxDepth   int
	hex        bool
	output     string

	flags *pflag.FlagSet
	log   *slog.Logger
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", os.Getenv("GOSERDE_CONFIG"), "YAML file with json and cbor option blocks")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log progress to stderr")
	fs.BoolVar(&o.pretty, "pretty", false, "pretty-print JSON output")
	fs.BoolVar(&o.unquoted, "unquoted", false, "leave plain JSON strings unquoted")
	fs.StringVar(&o.indent, "indent", "", "pretty-print indentation unit")
	fs.IntVar(&o.maxDepth, "max-depth", 0, "maximum nesting depth on input (0 = unlimited)")
	fs.BoolVar(&o.hex, "hex", false, "CBOR input and output are hex text")
	fs.StringVarP(&o.output, "output", "o", "", "write output to this file instead of stdout")
	o.flags = fs
}

// setup parses args, installs the logger and loads the config file.
func (o *options) setup(e *env, args []string) (*fileConfig, []string, error) {
	if err := o.flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil, nil, err
		}
		return nil, nil, usagef("%v", err)
	}
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	o.log = slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.configPath != "" {
		o.log.Debug("loaded config", "path", o.configPath)
	}
	rest := o.flags.Args()
	if len(rest) > 1 {
		return nil, nil, usagef("unexpected argument: %s", rest[1])
	}
	return cfg, rest, nil
}

// jsonFormat merges the config file with the flags that were set.
func (o *options) jsonFormat(cfg *fileConfig) *json.Format {
	c := json.Config{
		IgnoreUnknownKeys:  cfg.JSON.IgnoreUnknownKeys,
		UnquotedPrint:      cfg.JSON.UnquotedPrint,
		PrettyPrint:        cfg.JSON.PrettyPrint,
		Indent:             cfg.JSON.Indent,
		OmitDefaults:       cfg.JSON.OmitDefaults,
		ClassDiscriminator: cfg.JSON.ClassDiscriminator,
		MaxDepth:           cfg.JSON.MaxDepth,
	}
	if o.flags.Changed("pretty") {
		c.PrettyPrint = o.pretty
	}
	if o.flags.Changed("unquoted") {
		c.UnquotedPrint = o.unquoted
	}
	if o.flags.Changed("indent") {
		c.Indent = o.indent
	}
	if o.flags.Changed("max-depth") {
		c.MaxDepth = o.maxDepth
	}
	return json.New(c)
}

func (o *options) cborFormat(cfg *fileConfig) *cbor.Format {
	return cbor.New(cbor.Config{
		IgnoreUnknownKeys: cfg.CBOR.IgnoreUnknownKeys,
		OmitDefaults:      cfg.CBOR.OmitDefaults,
	})
}
