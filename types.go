package binstruct

import (
	"github.com/wippyai/binstruct/internal/types"
)

type Kind = types.Kind

const (
	KindPrimitive = types.KindPrim
	KindBitfield  = types.KindBits
	KindString    = types.KindString
	KindStruct    = types.KindStruct
	KindUnion     = types.KindUnion
)

type PrimType = types.PrimType

type CompiledSchema = types.CompiledSchema
type CompiledField = types.PositionedField
type CompiledDescriptor = types.Descriptor
type BitSlot = types.BitSlot
type UnionMember = types.UnionMember
