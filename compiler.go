package binstruct

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/internal/layout"
	"github.com/wippyai/binstruct/internal/types"
)

// Compiler turns field declarations into compiled schemas. Identical
// declarations compile once; the cache is safe for concurrent use.
type Compiler struct {
	cache sync.Map // signature -> *types.CompiledSchema
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

var (
	pkgCompiler     *Compiler
	pkgCompilerOnce sync.Once
)

func defaultCompiler() *Compiler {
	pkgCompilerOnce.Do(func() {
		pkgCompiler = NewCompiler()
	})
	return pkgCompiler
}

var primKeywords = map[string]types.PrimType{
	"Int8":        types.PrimInt8,
	"UInt8":       types.PrimUInt8,
	"Int16LE":     types.PrimInt16LE,
	"Int16BE":     types.PrimInt16BE,
	"UInt16LE":    types.PrimUInt16LE,
	"UInt16BE":    types.PrimUInt16BE,
	"Int32LE":     types.PrimInt32LE,
	"Int32BE":     types.PrimInt32BE,
	"UInt32LE":    types.PrimUInt32LE,
	"UInt32BE":    types.PrimUInt32BE,
	"BigInt64LE":  types.PrimInt64LE,
	"BigInt64BE":  types.PrimInt64BE,
	"BigUInt64LE": types.PrimUInt64LE,
	"BigUInt64BE": types.PrimUInt64BE,
	"FloatLE":     types.PrimFloat32LE,
	"FloatBE":     types.PrimFloat32BE,
	"DoubleLE":    types.PrimFloat64LE,
	"DoubleBE":    types.PrimFloat64BE,

	// Single-representation aliases.
	"Float":  types.PrimFloat32LE,
	"Double": types.PrimFloat64LE,
}

// CompileStruct compiles fields into a reusable Struct. No partially
// compiled schema is ever returned: any declaration error aborts the
// whole compile.
func (c *Compiler) CompileStruct(fields ...Field) (*Struct, error) {
	sig := structSignature(fields)
	if cached, ok := c.cache.Load(sig); ok {
		return &Struct{schema: cached.(*types.CompiledSchema)}, nil
	}

	schema, err := c.compileSchema(fields)
	if err != nil {
		return nil, err
	}

	c.cache.Store(sig, schema)
	debugf("compiled struct schema: fields=%d staticSize=%d dynamic=%t",
		len(schema.Fields), schema.StaticSize, schema.Dynamic)
	return &Struct{schema: schema}, nil
}

func (c *Compiler) compileSchema(fields []Field) (*types.CompiledSchema, error) {
	seen := make(map[string]struct{}, len(fields))
	out := make([]types.PositionedField, 0, len(fields))
	var run []layout.BitDecl

	flushBits := func() {
		for _, g := range layout.BuildGroups(run) {
			out = append(out, types.PositionedField{
				Desc: &types.Descriptor{
					Kind:       types.KindBits,
					Slots:      g.Slots,
					GroupWidth: g.Width,
					ByteSize:   g.Bytes,
					TypeName:   "bitfield",
				},
			})
		}
		run = run[:0]
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.Schema(nil, "field name cannot be empty")
		}
		if _, dup := seen[f.Name]; dup {
			return nil, errors.Schema([]string{f.Name}, "duplicate field name %q", f.Name)
		}
		seen[f.Name] = struct{}{}

		desc, bit, err := c.parseSpec(f.Name, f.Type)
		if err != nil {
			return nil, err
		}
		if bit != nil {
			run = append(run, *bit)
			continue
		}
		flushBits()
		out = append(out, types.PositionedField{Name: f.Name, Desc: desc})
	}
	flushBits()

	static, dynamic := layout.Resolve(out)
	return &types.CompiledSchema{
		Fields:     out,
		StaticSize: static,
		Dynamic:    dynamic,
	}, nil
}

// parseSpec classifies one declaration. Bitfield declarations come back
// as raw BitDecls so adjacent ones can merge into groups; every other
// kind yields a complete descriptor (sizes and offsets are resolved
// later in one pass).
func (c *Compiler) parseSpec(name string, spec any) (*types.Descriptor, *layout.BitDecl, error) {
	switch t := spec.(type) {
	case string:
		return c.parseKeyword(name, t, nil)
	case Descriptor:
		return c.parseDescriptor(name, t)
	case *Struct:
		if t == nil {
			return nil, nil, errors.Schema([]string{name}, "nested struct cannot be nil")
		}
		return &types.Descriptor{
			Kind:     types.KindStruct,
			Child:    t.schema,
			Dynamic:  t.schema.Dynamic,
			TypeName: "struct",
		}, nil, nil
	case *Union:
		if t == nil {
			return nil, nil, errors.Schema([]string{name}, "nested union cannot be nil")
		}
		return &types.Descriptor{
			Kind:     types.KindUnion,
			Members:  t.members,
			TypeName: "union",
		}, nil, nil
	default:
		return nil, nil, errors.New(errors.PhaseCompile, errors.KindSchema).
			Path(name).
			GoType(typeName(spec)).
			Detail("unsupported type spec").
			Build()
	}
}

func (c *Compiler) parseKeyword(name, kw string, bitPos *int) (*types.Descriptor, *layout.BitDecl, error) {
	// Bitfield suffix: "UInt8:4"
	if i := strings.IndexByte(kw, ':'); i >= 0 {
		base, sizeStr := kw[:i], kw[i+1:]
		prim, ok := primKeywords[base]
		if !ok {
			return nil, nil, errors.Schema([]string{name}, "unknown type keyword %q", base)
		}
		bits, err := strconv.Atoi(sizeStr)
		if err != nil {
			return nil, nil, errors.Schema([]string{name}, "invalid bit size %q", sizeStr)
		}
		return c.bitDecl(name, base, prim, bits, bitPos)
	}

	// Array suffix: "UInt8[10]", "String[16]"
	if i := strings.IndexByte(kw, '['); i >= 0 {
		if !strings.HasSuffix(kw, "]") {
			return nil, nil, errors.Schema([]string{name}, "malformed array suffix in %q", kw)
		}
		base := kw[:i]
		n, err := strconv.Atoi(kw[i+1 : len(kw)-1])
		if err != nil {
			return nil, nil, errors.Schema([]string{name}, "invalid array size in %q", kw)
		}
		if n <= 0 {
			return nil, nil, errors.Schema([]string{name}, "array size must be positive, got %d", n)
		}
		if base == "String" {
			return &types.Descriptor{
				Kind:     types.KindString,
				StrLen:   n,
				TypeName: kw,
			}, nil, nil
		}
		prim, ok := primKeywords[base]
		if !ok {
			return nil, nil, errors.Schema([]string{name}, "unknown type keyword %q", base)
		}
		return &types.Descriptor{
			Kind:      types.KindPrim,
			Prim:      prim,
			ArraySize: n,
			TypeName:  kw,
		}, nil, nil
	}

	if kw == "String" {
		// No declared length: consumes until its NUL terminator.
		return &types.Descriptor{
			Kind:     types.KindString,
			Dynamic:  true,
			TypeName: kw,
		}, nil, nil
	}

	prim, ok := primKeywords[kw]
	if !ok {
		return nil, nil, errors.Schema([]string{name}, "unknown type keyword %q", kw)
	}
	return &types.Descriptor{
		Kind:     types.KindPrim,
		Prim:     prim,
		TypeName: kw,
	}, nil, nil
}

func (c *Compiler) parseDescriptor(name string, d Descriptor) (*types.Descriptor, *layout.BitDecl, error) {
	if d.BitSize > 0 {
		kw, ok := d.Type.(string)
		if !ok {
			return nil, nil, errors.Schema([]string{name}, "bitfield type must be an integer keyword")
		}
		prim, known := primKeywords[kw]
		if !known {
			return nil, nil, errors.Schema([]string{name}, "unknown type keyword %q", kw)
		}
		return c.bitDecl(name, kw, prim, d.BitSize, d.BitPosition)
	}

	if d.ArraySize != 0 {
		if d.ArraySize < 0 {
			return nil, nil, errors.Schema([]string{name}, "array size must be positive, got %d", d.ArraySize)
		}
		switch t := d.Type.(type) {
		case string:
			if t == "String" {
				return &types.Descriptor{
					Kind:     types.KindString,
					StrLen:   d.ArraySize,
					TypeName: fmt.Sprintf("String[%d]", d.ArraySize),
				}, nil, nil
			}
			prim, ok := primKeywords[t]
			if !ok {
				return nil, nil, errors.Schema([]string{name}, "unknown type keyword %q", t)
			}
			return &types.Descriptor{
				Kind:      types.KindPrim,
				Prim:      prim,
				ArraySize: d.ArraySize,
				TypeName:  fmt.Sprintf("%s[%d]", t, d.ArraySize),
			}, nil, nil
		case *Struct:
			if t == nil {
				return nil, nil, errors.Schema([]string{name}, "nested struct cannot be nil")
			}
			return &types.Descriptor{
				Kind:      types.KindStruct,
				Child:     t.schema,
				ArraySize: d.ArraySize,
				Dynamic:   t.schema.Dynamic,
				TypeName:  fmt.Sprintf("struct[%d]", d.ArraySize),
			}, nil, nil
		default:
			return nil, nil, errors.Schema([]string{name}, "array element must be a primitive keyword or struct")
		}
	}

	return c.parseSpec(name, d.Type)
}

func (c *Compiler) bitDecl(name, kw string, prim types.PrimType, bits int, pos *int) (*types.Descriptor, *layout.BitDecl, error) {
	if prim.Float() {
		return nil, nil, errors.Schema([]string{name}, "bitfield requires an integer type, got %q", kw)
	}
	width := prim.Width() * 8
	if bits <= 0 || bits > width {
		return nil, nil, errors.Schema([]string{name}, "bit size %d exceeds %s width of %d bits", bits, kw, width)
	}
	p := -1
	if pos != nil {
		if *pos < 0 {
			return nil, nil, errors.Schema([]string{name}, "bit position cannot be negative")
		}
		p = *pos
	}
	return nil, &layout.BitDecl{Name: name, Width: width, Size: bits, Pos: p}, nil
}

// structSignature is the cache key for a declaration list. Nested
// compiled schemas key by identity, so equal declarations built around
// the same children always hit.
func structSignature(fields []Field) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(f.Name)
		b.WriteByte(0)
		writeSpecSignature(&b, f.Type)
		b.WriteByte(1)
	}
	return b.String()
}

func writeSpecSignature(b *strings.Builder, spec any) {
	switch t := spec.(type) {
	case string:
		b.WriteString("k:")
		b.WriteString(t)
	case Descriptor:
		fmt.Fprintf(b, "d:%d/%d/", t.BitSize, t.ArraySize)
		if t.BitPosition != nil {
			fmt.Fprintf(b, "%d", *t.BitPosition)
		}
		b.WriteByte('/')
		writeSpecSignature(b, t.Type)
	case *Struct:
		fmt.Fprintf(b, "s:%p", t)
	case *Union:
		fmt.Fprintf(b, "u:%p", t)
	default:
		fmt.Fprintf(b, "?:%T", spec)
	}
}
