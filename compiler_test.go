package binstruct

import (
	"testing"

	"github.com/wippyai/binstruct/errors"
)

func TestCompileStruct_Offsets(t *testing.T) {
	s, err := NewStruct(
		F("id", "UInt16BE"),
		F("count", "UInt8"),
		F("value", "UInt32LE"),
	)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}

	if got := s.Size(); got != 7 {
		t.Errorf("Size() = %d, want 7", got)
	}
	if s.HasDynamicFields() {
		t.Error("HasDynamicFields() = true, want false")
	}

	wantOffsets := map[string]int{"id": 0, "count": 2, "value": 3}
	wantSizes := map[string]int{"id": 2, "count": 1, "value": 4}
	for _, f := range s.Schema().Fields {
		if off := f.Desc.ByteOffset; off != wantOffsets[f.Name] {
			t.Errorf("field %s: offset = %d, want %d", f.Name, off, wantOffsets[f.Name])
		}
		if sz := f.Desc.ByteSize; sz != wantSizes[f.Name] {
			t.Errorf("field %s: size = %d, want %d", f.Name, sz, wantSizes[f.Name])
		}
	}
}

func TestCompileStruct_BitGrouping(t *testing.T) {
	s, err := NewStruct(
		F("hi", "UInt8:4"),
		F("lo", "UInt8:4"),
		F("tail", "UInt8"),
	)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}

	// Adjacent bitfields share one byte; tail follows it.
	if got := s.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}
	fields := s.Schema().Fields
	if len(fields) != 2 {
		t.Fatalf("compiled fields = %d, want 2 (group + tail)", len(fields))
	}
	group := fields[0].Desc
	if len(group.Slots) != 2 {
		t.Fatalf("group slots = %d, want 2", len(group.Slots))
	}
	if group.Slots[0].Pos != 0 || group.Slots[1].Pos != 4 {
		t.Errorf("slot positions = %d,%d, want 0,4", group.Slots[0].Pos, group.Slots[1].Pos)
	}
	if fields[1].Desc.ByteOffset != 1 {
		t.Errorf("tail offset = %d, want 1", fields[1].Desc.ByteOffset)
	}
}

func TestCompileStruct_BitGroupCloses(t *testing.T) {
	// 6+6 bits do not fit a UInt8 group, so two groups form.
	s, err := NewStruct(
		F("a", "UInt8:6"),
		F("b", "UInt8:6"),
	)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	if got := s.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}
	if n := len(s.Schema().Fields); n != 2 {
		t.Errorf("compiled fields = %d, want 2", n)
	}
}

func TestCompileStruct_SixteenBitGroup(t *testing.T) {
	s, err := NewStruct(
		F("qr", "UInt16LE:1"),
		F("opcode", "UInt16LE:4"),
		F("aa", "UInt16LE:1"),
		F("tc", "UInt16LE:1"),
		F("rd", "UInt16LE:1"),
		F("ra", "UInt16LE:1"),
		F("z", "UInt16LE:3"),
		F("rcode", "UInt16LE:4"),
	)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	if got := s.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}
	if n := len(s.Schema().Fields); n != 1 {
		t.Errorf("compiled fields = %d, want 1 group", n)
	}
}

func TestCompileStruct_ExplicitBitPosition(t *testing.T) {
	s, err := NewStruct(
		F("flag", Descriptor{Type: "UInt8", BitSize: 1, BitPosition: BitPos(7)}),
	)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	slot := s.Schema().Fields[0].Desc.Slots[0]
	if slot.Pos != 7 || slot.Size != 1 {
		t.Errorf("slot = pos %d size %d, want pos 7 size 1", slot.Pos, slot.Size)
	}
	if got := s.Size(); got != 1 {
		t.Errorf("Size() = %d, want 1", got)
	}
}

func TestCompileStruct_DynamicString(t *testing.T) {
	s, err := NewStruct(
		F("lead", "UInt8"),
		F("name", "String"),
		F("trail", "UInt16LE"),
	)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	if !s.HasDynamicFields() {
		t.Fatal("HasDynamicFields() = false, want true")
	}
	// The dynamic string reserves no static bytes; trail sits right after
	// lead in the placeholder layout.
	if got := s.Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}
	fields := s.Schema().Fields
	if fields[1].Desc.ByteSize != 0 {
		t.Errorf("dynamic string size = %d, want 0", fields[1].Desc.ByteSize)
	}
	if fields[2].Desc.ByteOffset != 1 {
		t.Errorf("trail offset = %d, want 1", fields[2].Desc.ByteOffset)
	}
}

func TestCompileStruct_NestedDynamicPropagates(t *testing.T) {
	inner, err := NewStruct(F("s", "String"))
	if err != nil {
		t.Fatalf("inner: %v", err)
	}
	outer, err := NewStruct(F("inner", inner))
	if err != nil {
		t.Fatalf("outer: %v", err)
	}
	if !outer.HasDynamicFields() {
		t.Error("outer should be dynamic through its child")
	}
}

func TestCompiledSchema_FieldNames(t *testing.T) {
	s, err := NewStruct(
		F("a", "UInt8"),
		F("hi", "UInt8:4"),
		F("lo", "UInt8:4"),
		F("name", "String[4]"),
	)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	got := s.Schema().FieldNames()
	want := []string{"a", "hi", "lo", "name"}
	if len(got) != len(want) {
		t.Fatalf("FieldNames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FieldNames[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCompileStruct_Cache(t *testing.T) {
	c := NewCompiler()
	a, err := c.CompileStruct(F("x", "UInt32BE"), F("y", "UInt8"))
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	b, err := c.CompileStruct(F("x", "UInt32BE"), F("y", "UInt8"))
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if a.Schema() != b.Schema() {
		t.Error("identical declarations should share one compiled schema")
	}
}

func TestCompileStruct_Errors(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{"empty name", []Field{F("", "UInt8")}},
		{"duplicate name", []Field{F("a", "UInt8"), F("a", "UInt8")}},
		{"unknown keyword", []Field{F("a", "UInt24LE")}},
		{"bit size over width", []Field{F("a", "UInt8:9")}},
		{"zero bit size", []Field{F("a", "UInt8:0")}},
		{"float bitfield", []Field{F("a", "FloatLE:4")}},
		{"zero array size", []Field{F("a", "UInt8[0]")}},
		{"malformed array", []Field{F("a", "UInt8[3")}},
		{"nil nested struct", []Field{F("a", (*Struct)(nil))}},
		{"unsupported spec", []Field{F("a", 42)}},
		{"negative bit position", []Field{F("a", Descriptor{Type: "UInt8", BitSize: 2, BitPosition: BitPos(-1)})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStruct(tt.fields...)
			if err == nil {
				t.Fatal("expected schema error, got nil")
			}
			if !errors.IsSchema(err) {
				t.Errorf("error kind: got %v, want schema error", err)
			}
		})
	}
}

func TestCompileUnion_Errors(t *testing.T) {
	if _, err := NewUnion(); err == nil {
		t.Error("empty union should fail")
	}
	if _, err := NewUnion(F("a", "UInt8"), F("a", "UInt16LE")); err == nil {
		t.Error("duplicate member names should fail")
	}
}

func TestCompileUnion_Size(t *testing.T) {
	u, err := NewUnion(
		F("byte", "UInt8"),
		F("word", "UInt32LE"),
		F("half", "UInt16BE"),
	)
	if err != nil {
		t.Fatalf("NewUnion: %v", err)
	}
	if got := u.Size(); got != 4 {
		t.Errorf("Size() = %d, want 4 (largest member)", got)
	}
}
