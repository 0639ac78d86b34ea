package binstruct

import (
	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/internal/bytebuf"
	"github.com/wippyai/binstruct/internal/types"
)

// Union overlays named member schemas on one shared byte region. The
// format carries no discriminant; callers pick the interpretation.
type Union struct {
	members []types.UnionMember
	size    int
}

// NewUnion compiles the declared members with the package compiler.
func NewUnion(members ...Field) (*Union, error) {
	return defaultCompiler().CompileUnion(members...)
}

// CompileUnion compiles members into a Union. Each member reuses the
// struct machinery as a single-field schema anchored at offset 0.
func (c *Compiler) CompileUnion(members ...Field) (*Union, error) {
	if len(members) == 0 {
		return nil, errors.Schema(nil, "union requires at least one member")
	}

	seen := make(map[string]struct{}, len(members))
	compiled := make([]types.UnionMember, 0, len(members))
	size := 0
	for _, m := range members {
		if m.Name == "" {
			return nil, errors.Schema(nil, "union member name cannot be empty")
		}
		if _, dup := seen[m.Name]; dup {
			return nil, errors.Schema([]string{m.Name}, "duplicate member name %q", m.Name)
		}
		seen[m.Name] = struct{}{}

		st, err := c.CompileStruct(m)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, types.UnionMember{
			Name:   m.Name,
			Schema: st.schema,
		})
		if st.schema.StaticSize > size {
			size = st.schema.StaticSize
		}
	}

	return &Union{members: compiled, size: size}, nil
}

// Size returns the shared region size: the largest member's static size.
func (u *Union) Size() int {
	return u.size
}

// Members exposes the compiled members for tooling. Read-only.
func (u *Union) Members() []UnionMember {
	return u.members
}

// ToObject decodes the shared region once per member. Every entry is an
// interpretation of the same bytes; the caller picks the right one.
func (u *Union) ToObject(buf []byte) (map[string]any, error) {
	if len(buf) < u.size {
		return nil, errors.OutOfBounds(errors.PhaseDecode, nil, u.size, len(buf))
	}
	return decodeUnion(u.members, buf[:u.size], nil)
}

// ToBuffer encodes the member values present in obj into a fresh
// region. Members overlap; later declarations win where they share
// bytes.
func (u *Union) ToBuffer(obj map[string]any) ([]byte, error) {
	buf := make([]byte, u.size)
	if err := encodeUnion(buf, 0, u.size, u.members, obj, nil); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeInto writes the present member values over an existing region.
func (u *Union) EncodeInto(buf []byte, obj map[string]any) ([]byte, error) {
	if len(buf) < u.size {
		return nil, errors.OutOfBounds(errors.PhaseEncode, nil, u.size, len(buf))
	}
	if err := encodeUnion(buf, 0, u.size, u.members, obj, nil); err != nil {
		return nil, err
	}
	return buf, nil
}

// decodeUnion decodes every member against the same region. Nested
// members surface their full object; scalar members unwrap the single
// synthetic field.
func decodeUnion(members []types.UnionMember, region []byte, path []string) (map[string]any, error) {
	out := make(map[string]any, len(members))
	for _, m := range members {
		mObj, _, err := decodeStruct(m.Schema, region, 0, childPath(path, m.Name))
		if err != nil {
			return nil, err
		}
		out[m.Name] = mObj[m.Name]
	}
	return out, nil
}

// encodeUnion writes every present member over the shared region in
// declaration order, so later members win where they overlap.
func encodeUnion(buf []byte, abs, size int, members []types.UnionMember, obj map[string]any, path []string) error {
	region := bytebuf.View(buf, abs, size)
	for _, m := range members {
		v, ok := obj[m.Name]
		if !ok {
			continue
		}
		mpath := childPath(path, m.Name)
		wrapped := map[string]any{m.Name: v}

		if !m.Schema.Dynamic {
			if _, _, err := encodeStruct(m.Schema, region, 0, wrapped, mpath, false); err != nil {
				return err
			}
			continue
		}

		// Dynamic members encode standalone; the region never grows.
		tmp := make([]byte, m.Schema.StaticSize)
		tmp, actual, err := encodeStruct(m.Schema, tmp, 0, wrapped, mpath, false)
		if err != nil {
			return err
		}
		if actual > size {
			return errors.OutOfBounds(errors.PhaseEncode, mpath, actual, size)
		}
		copy(region, tmp)
	}
	return nil
}
