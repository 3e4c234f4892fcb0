// Package compiler runs the odatagen pipeline: parse a metadata document,
// select one schema, validate its references and emit formatted Go source.
package compiler

import (
	stderrors "errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sapodata/odatagen/internal/compiler/codegen"
	"github.com/sapodata/odatagen/internal/compiler/errors"
	"github.com/sapodata/odatagen/internal/compiler/naming"
	"github.com/sapodata/odatagen/internal/compiler/resolve"
	"github.com/sapodata/odatagen/pkg/edmx"
)

// Options configures one compilation.
type Options struct {
	// Namespace selects the schema to compile.
	Namespace string
	// Package is the package clause of the generated files.
	Package string
	// SourcePath is recorded in the generated header, relative to the
	// output directory. It may be empty.
	SourcePath string
	// MetadataView also emits the <T>Metadata getters.
	MetadataView bool
	// Logger receives warnings as they are found. Nil discards them.
	Logger *zap.Logger
}

// Result is the output of a compilation.
type Result struct {
	// FileName is the name the data module should be written to. It ends in
	// _failed.go when the module could not be formatted.
	FileName string
	Source   []byte

	// MetadataFileName and MetadataSource are empty unless the metadata
	// view was requested.
	MetadataFileName string
	MetadataSource   []byte

	Diagnostics errors.ErrorList
	// Formatted reports whether every emitted module went through gofmt.
	Formatted bool
}

// FileNames returns the data and metadata file names for a namespace.
func FileNames(namespace string) (data, metadata string) {
	base := naming.ToSnakeCase(namespace)
	return base + ".go", base + "_metadata.go"
}

// CompileFile reads path and compiles it. SourcePath defaults to path.
func CompileFile(path string, opts Options) (*Result, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewReadFailed(path, err)
	}
	if opts.SourcePath == "" {
		opts.SourcePath = path
	}
	res, err := Compile(doc, opts)
	if err != nil {
		var cerr *errors.CompilerError
		if stderrors.As(err, &cerr) && cerr.File == "" {
			cerr.File = path
		}
		return nil, err
	}
	res.Diagnostics = res.Diagnostics.WithFile(path)
	return res, nil
}

// Compile turns a metadata document into Go source. The returned error is a
// *errors.CompilerError when the document cannot be compiled at all;
// everything else is reported in Result.Diagnostics.
func Compile(doc []byte, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Package == "" {
		return nil, fmt.Errorf("compile: package name is required")
	}

	parsed, err := edmx.Parse(doc)
	if err != nil {
		return nil, errors.NewParseFailed(err)
	}
	schema, ok := parsed.DataServices.Schema(opts.Namespace)
	if !ok {
		return nil, errors.NewNamespaceNotFound(opts.Namespace, parsed.DataServices.Namespaces())
	}

	res := &Result{Formatted: true}
	res.Diagnostics = append(res.Diagnostics, Validate(schema, logger)...)

	resolver := resolve.NewResolver(resolve.NewComplexIndex(schema), logger)
	gen := codegen.NewGenerator(schema, resolver, codegen.Options{
		Package:      opts.Package,
		SourcePath:   opts.SourcePath,
		MetadataView: opts.MetadataView,
	})

	dataName, metaName := FileNames(schema.Namespace)
	res.FileName, res.Source = res.format(dataName, gen.GenerateModule(), logger)
	if opts.MetadataView {
		res.MetadataFileName, res.MetadataSource = res.format(metaName, gen.GenerateMetadataModule(), logger)
	}
	res.Diagnostics = append(res.Diagnostics, resolver.Diagnostics()...)

	logger.Debug("compiled schema",
		zap.String("namespace", schema.Namespace),
		zap.Int("entity_types", len(schema.EntityTypes)),
		zap.Int("complex_types", len(schema.ComplexTypes)),
		zap.Int("diagnostics", len(res.Diagnostics)),
	)
	return res, nil
}

func (r *Result) format(name string, src []byte, logger *zap.Logger) (string, []byte) {
	out, diag := codegen.Format(name, src)
	if diag == nil {
		return name, out
	}
	logger.Error("generated source does not parse",
		zap.String("file", diag.File),
		zap.Error(diag.Unwrap()),
	)
	r.Formatted = false
	r.Diagnostics = append(r.Diagnostics, diag)
	return diag.File, out
}
