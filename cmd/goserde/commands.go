package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/pflag"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/cbor"
	"github.com/reoring/goserde/json"
	"github.com/reoring/goserde/jsonschema"
	"github.com/reoring/goserde/yaml"
)

func readInput(e *env, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(e.stdin)
		return data, "stdin", err
	}
	data, err := os.ReadFile(args[0])
	return data, args[0], err
}

func (o *options) writeOutput(e *env, data []byte) error {
	if o.output == "" {
		_, err := e.stdout.Write(data)
		return err
	}
	o.log.Debug("writing output", "path", o.output, "bytes", len(data))
	return os.WriteFile(o.output, data, 0o644)
}

func runFmt(e *env, args []string) error {
	var o options
	var strict bool
	fs := pflag.NewFlagSet("fmt", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	o.addFlags(fs)
	fs.BoolVar(&strict, "strict", false, "parse with a strict RFC 8259 reader (no bare literals)")
	cfg, rest, err := o.setup(e, args)
	if err != nil {
		return err
	}
	data, name, err := readInput(e, rest)
	if err != nil {
		return err
	}
	o.log.Debug("read input", "source", name, "bytes", len(data))
	f := o.jsonFormat(cfg)
	var doc json.Element
	if strict {
		doc, err = json.ReadElementStrict(bytes.NewReader(data))
	} else {
		doc, err = f.ParseElement(string(data))
	}
	if err != nil {
		return err
	}
	text, err := f.Print(doc)
	if err != nil {
		return err
	}
	return o.writeOutput(e, []byte(text+"\n"))
}

func runConvert(e *env, args []string) error {
	var o options
	var from, to string
	fs := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	o.addFlags(fs)
	fs.StringVar(&from, "from", "json", "input format: json, yaml or cbor")
	fs.StringVar(&to, "to", "cbor", "output format: json, yaml or cbor")
	cfg, rest, err := o.setup(e, args)
	if err != nil {
		return err
	}
	data, name, err := readInput(e, rest)
	if err != nil {
		return err
	}
	o.log.Debug("read input", "source", name, "bytes", len(data), "from", from, "to", to)

	jf := o.jsonFormat(cfg)
	var doc json.Element
	switch from {
	case "json":
		doc, err = jf.ParseElement(string(data))
	case "yaml":
		doc, err = yaml.ToElement(data)
	case "cbor":
		doc, err = cborToElement(data, o.hex)
	default:
		return usagef("unknown input format %q", from)
	}
	if err != nil {
		return err
	}

	var out []byte
	switch to {
	case "json":
		var text string
		text, err = jf.Print(doc)
		out = []byte(text + "\n")
	case "yaml":
		out, err = yaml.FromElement(doc)
	case "cbor":
		cf := o.cborFormat(cfg)
		if o.hex {
			var text string
			text, err = cbor.EncodeHex(cf, json.ElementSerializer(), doc)
			out = []byte(text + "\n")
		} else {
			out, err = cbor.Encode(cf, json.ElementSerializer(), doc)
		}
	default:
		return usagef("unknown output format %q", to)
	}
	if err != nil {
		return err
	}
	return o.writeOutput(e, out)
}

func cborToElement(data []byte, isHex bool) (json.Element, error) {
	if isHex {
		var err error
		if data, err = decodeHex(data); err != nil {
			return nil, err
		}
	}
	v, err := cbor.ToAny(data)
	if err != nil {
		return nil, goserde.WithCause(goserde.Fail(goserde.CodeParseError, err.Error()), err)
	}
	return json.FromAny(v)
}

func decodeHex(data []byte) ([]byte, error) {
	text := strings.Join(strings.Fields(string(data)), "")
	out, err := hex.DecodeString(text)
	if err != nil {
		return nil, goserde.WithCause(goserde.Fail(goserde.CodeParseError, "invalid hex input"), err)
	}
	return out, nil
}

func runDiag(e *env, args []string) error {
	var o options
	fs := pflag.NewFlagSet("diag", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	o.addFlags(fs)
	_, rest, err := o.setup(e, args)
	if err != nil {
		return err
	}
	data, name, err := readInput(e, rest)
	if err != nil {
		return err
	}
	if o.hex {
		if data, err = decodeHex(data); err != nil {
			return err
		}
	}
	o.log.Debug("read input", "source", name, "bytes", len(data))
	lines, err := cbor.Diagnose(data)
	if err != nil {
		return goserde.WithCause(goserde.Fail(goserde.CodeParseError, err.Error()), err)
	}
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintln(&b, l)
	}
	return o.writeOutput(e, []byte(b.String()))
}

func runSchema(e *env, args []string) error {
	var o options
	fs := pflag.NewFlagSet("schema", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	o.addFlags(fs)
	cfg, rest, err := o.setup(e, args)
	if err != nil {
		return err
	}
	data, name, err := readInput(e, rest)
	if err != nil {
		return err
	}
	o.log.Debug("read input", "source", name, "bytes", len(data))
	doc, err := o.jsonFormat(cfg).ParseElement(string(data))
	if err != nil {
		return err
	}
	out, err := gojson.MarshalIndent(jsonschema.Infer(doc), "", "  ")
	if err != nil {
		return err
	}
	return o.writeOutput(e, append(out, '\n'))
}
