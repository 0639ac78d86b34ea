package binstruct

import (
	"reflect"
	"testing"

	"github.com/wippyai/binstruct/errors"
)

func mustStruct(t *testing.T, fields ...Field) *Struct {
	t.Helper()
	s, err := NewStruct(fields...)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	return s
}

func TestToObject_Primitives(t *testing.T) {
	s := mustStruct(t,
		F("u8", "UInt8"),
		F("i8", "Int8"),
		F("u16", "UInt16BE"),
		F("i32", "Int32LE"),
		F("u64", "BigUInt64LE"),
	)

	buf := []byte{
		0xFF,                   // u8
		0x80,                   // i8 = -128
		0x01, 0x02,             // u16 BE = 258
		0xFE, 0xFF, 0xFF, 0xFF, // i32 LE = -2
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // u64 max
	}
	obj, err := s.ToObject(buf)
	if err != nil {
		t.Fatalf("ToObject: %v", err)
	}

	if got := obj["u8"]; got != uint8(255) {
		t.Errorf("u8 = %v (%T), want uint8 255", got, got)
	}
	if got := obj["i8"]; got != int8(-128) {
		t.Errorf("i8 = %v (%T), want int8 -128", got, got)
	}
	if got := obj["u16"]; got != uint16(258) {
		t.Errorf("u16 = %v (%T), want uint16 258", got, got)
	}
	if got := obj["i32"]; got != int32(-2) {
		t.Errorf("i32 = %v (%T), want int32 -2", got, got)
	}
	if got := obj["u64"]; got != uint64(18446744073709551615) {
		t.Errorf("u64 = %v (%T), want uint64 max", got, got)
	}
}

func TestToObject_Floats(t *testing.T) {
	s := mustStruct(t, F("f", "FloatBE"), F("d", "DoubleLE"))
	buf := []byte{
		0x3F, 0x80, 0x00, 0x00, // 1.0 big endian
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF0, 0x3F, // 1.0 little endian
	}
	obj, err := s.ToObject(buf)
	if err != nil {
		t.Fatalf("ToObject: %v", err)
	}
	if got := obj["f"]; got != float32(1.0) {
		t.Errorf("f = %v (%T), want float32 1.0", got, got)
	}
	if got := obj["d"]; got != float64(1.0) {
		t.Errorf("d = %v (%T), want float64 1.0", got, got)
	}
}

func TestToObject_BitfieldHeader(t *testing.T) {
	s := mustStruct(t,
		F("qr", "UInt16LE:1"),
		F("opcode", "UInt16LE:4"),
		F("aa", "UInt16LE:1"),
		F("tc", "UInt16LE:1"),
		F("rd", "UInt16LE:1"),
		F("ra", "UInt16LE:1"),
		F("z", "UInt16LE:3"),
		F("rcode", "UInt16LE:4"),
	)

	obj, err := s.ToObject([]byte{165, 52})
	if err != nil {
		t.Fatalf("ToObject: %v", err)
	}
	want := map[string]uint64{
		"qr": 1, "opcode": 4, "aa": 1, "tc": 0,
		"rd": 1, "ra": 0, "z": 2, "rcode": 12,
	}
	for name, w := range want {
		if got := obj[name]; got != w {
			t.Errorf("%s = %v, want %d", name, got, w)
		}
	}
}

func TestToObject_FixedStringTrimsPadding(t *testing.T) {
	s := mustStruct(t, F("name", "String[8]"), F("after", "UInt8"))
	buf := []byte{'a', 'b', 'c', 0, 0, 0, 0, 0, 9}
	obj, err := s.ToObject(buf)
	if err != nil {
		t.Fatalf("ToObject: %v", err)
	}
	if got := obj["name"]; got != "abc" {
		t.Errorf("name = %q, want %q", got, "abc")
	}
	if got := obj["after"]; got != uint8(9) {
		t.Errorf("after = %v, want 9", got)
	}
}

func TestToObject_DynamicStringShiftsLaterFields(t *testing.T) {
	s := mustStruct(t,
		F("lead", "UInt8"),
		F("name", "String"),
		F("trail", "UInt16LE"),
	)
	buf := []byte{7, 'h', 'e', 'y', 0, 0x34, 0x12}
	obj, err := s.ToObject(buf)
	if err != nil {
		t.Fatalf("ToObject: %v", err)
	}
	if got := obj["lead"]; got != uint8(7) {
		t.Errorf("lead = %v, want 7", got)
	}
	if got := obj["name"]; got != "hey" {
		t.Errorf("name = %q, want %q", got, "hey")
	}
	if got := obj["trail"]; got != uint16(0x1234) {
		t.Errorf("trail = %#x, want 0x1234", got)
	}
}

func TestToObject_DynamicStringMissingTerminator(t *testing.T) {
	s := mustStruct(t, F("name", "String"))
	_, err := s.ToObject([]byte{'n', 'o', 'p', 'e'})
	if err == nil {
		t.Fatal("expected error for missing terminator")
	}
	if !errors.IsDecode(err) {
		t.Errorf("error kind: got %v, want decode error", err)
	}
}

func TestToObject_ShortBuffer(t *testing.T) {
	s := mustStruct(t, F("a", "UInt32LE"))
	_, err := s.ToObject([]byte{1, 2})
	if err == nil {
		t.Fatal("expected error for short buffer")
	}
	if !errors.IsOutOfBounds(err) {
		t.Errorf("error kind: got %v, want out of bounds", err)
	}
}

func TestToObject_PrimitiveArrays(t *testing.T) {
	s := mustStruct(t, F("bytes", "UInt8[3]"), F("words", "UInt16LE[2]"))
	buf := []byte{1, 2, 3, 0x34, 0x12, 0x78, 0x56}
	obj, err := s.ToObject(buf)
	if err != nil {
		t.Fatalf("ToObject: %v", err)
	}
	if got := obj["bytes"]; !reflect.DeepEqual(got, []uint8{1, 2, 3}) {
		t.Errorf("bytes = %v (%T), want []uint8{1,2,3}", got, got)
	}
	if got := obj["words"]; !reflect.DeepEqual(got, []uint16{0x1234, 0x5678}) {
		t.Errorf("words = %v (%T), want []uint16{0x1234,0x5678}", got, got)
	}
}

func TestToObject_NestedStruct(t *testing.T) {
	point := mustStruct(t, F("x", "Int16LE"), F("y", "Int16LE"))
	s := mustStruct(t, F("id", "UInt8"), F("pos", point))

	buf := []byte{5, 0x0A, 0x00, 0xF6, 0xFF}
	obj, err := s.ToObject(buf)
	if err != nil {
		t.Fatalf("ToObject: %v", err)
	}
	pos, ok := obj["pos"].(map[string]any)
	if !ok {
		t.Fatalf("pos = %T, want map", obj["pos"])
	}
	if pos["x"] != int16(10) || pos["y"] != int16(-10) {
		t.Errorf("pos = %v, want x=10 y=-10", pos)
	}
}

func TestToObject_StructArray(t *testing.T) {
	entry := mustStruct(t, F("k", "UInt8"), F("v", "UInt8"))
	s := mustStruct(t,
		F("entries", Descriptor{Type: entry, ArraySize: 3}),
		F("tail", "UInt8"),
	)

	buf := []byte{1, 10, 2, 20, 3, 30, 99}
	obj, err := s.ToObject(buf)
	if err != nil {
		t.Fatalf("ToObject: %v", err)
	}
	entries, ok := obj["entries"].([]map[string]any)
	if !ok {
		t.Fatalf("entries = %T, want []map[string]any", obj["entries"])
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	for i, want := range []struct{ k, v uint8 }{{1, 10}, {2, 20}, {3, 30}} {
		if entries[i]["k"] != want.k || entries[i]["v"] != want.v {
			t.Errorf("entries[%d] = %v, want k=%d v=%d", i, entries[i], want.k, want.v)
		}
	}
	if got := obj["tail"]; got != uint8(99) {
		t.Errorf("tail = %v, want 99", got)
	}
}

func TestToObject_DynamicNestedShiftsSiblings(t *testing.T) {
	inner := mustStruct(t, F("label", "String"))
	s := mustStruct(t,
		F("head", "UInt8"),
		F("body", inner),
		F("foot", "UInt8"),
	)

	buf := []byte{1, 'x', 'y', 0, 2}
	obj, err := s.ToObject(buf)
	if err != nil {
		t.Fatalf("ToObject: %v", err)
	}
	body := obj["body"].(map[string]any)
	if body["label"] != "xy" {
		t.Errorf("label = %q, want %q", body["label"], "xy")
	}
	if got := obj["foot"]; got != uint8(2) {
		t.Errorf("foot = %v, want 2", got)
	}
}
