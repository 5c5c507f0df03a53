package node

import "testing"

func TestValueConstructorsRoundTrip(t *testing.T) {
	if Null().Type() != TypeNull {
		t.Error("Null()")
	}
	if !Bool(true).Bool() || Bool(false).Bool() {
		t.Error("Bool()")
	}
	if U8(200).U8() != 200 {
		t.Error("U8()")
	}
	if I8(-5).I8() != -5 {
		t.Error("I8()")
	}
	if U16Char('A').U16Char() != 'A' {
		t.Error("U16Char()")
	}
	if I16(-1234).I16() != -1234 {
		t.Error("I16()")
	}
	if U16(60000).U16() != 60000 {
		t.Error("U16()")
	}
	if I32(-70000).I32() != -70000 {
		t.Error("I32()")
	}
	if U32(4000000000).U32() != 4000000000 {
		t.Error("U32()")
	}
	if I64(-9000000000).I64() != -9000000000 {
		t.Error("I64()")
	}
	if U64(18000000000000000000).U64() != 18000000000000000000 {
		t.Error("U64()")
	}
	if F32(3.5).F32() != 3.5 {
		t.Error("F32()")
	}
	if F64(3.5).F64() != 3.5 {
		t.Error("F64()")
	}
	if String("hi").Str() != "hi" {
		t.Error("String()")
	}
	if string(Bytes([]byte("hi")).Byt()) != "hi" {
		t.Error("Bytes()")
	}
}

func TestValueIsZero(t *testing.T) {
	zero := []Value{Null(), Bool(false), U8(0), I8(0), U16Char(0), I16(0), U16(0), I32(0), U32(0), I64(0), U64(0), F32(0), F64(0), String(""), Bytes(nil)}
	for _, v := range zero {
		if !v.IsZero() {
			t.Errorf("%v.IsZero() = false, want true", v.Type())
		}
	}
	nonZero := []Value{U8(1), I8(-1), I16(-1), I32(5), String("x"), Bytes([]byte{1})}
	for _, v := range nonZero {
		if v.IsZero() {
			t.Errorf("%v.IsZero() = true, want false", v.Type())
		}
	}
	// True/False, like null, always count as zero-form: they carry no
	// payload to pool either way.
	if !Bool(true).IsZero() {
		t.Error("Bool(true).IsZero() = false, want true (no payload either way)")
	}
}

func TestSignedIntAccessorIgnoresWidth(t *testing.T) {
	if I32(-42).SignedInt() != -42 {
		t.Error("expected SignedInt() to return the i32 payload unchanged")
	}
	if I64(42).SignedInt() != 42 {
		t.Error("expected SignedInt() to return the i64 payload unchanged")
	}
}

func TestValueEqualToleranceAndType(t *testing.T) {
	a := F32(1.0)
	b := F32(1.0005)
	if !a.Equal(b, 0.001, 0.001) {
		t.Error("expected equal within tolerance")
	}
	if a.Equal(String("1.0"), 0.001, 0.001) {
		t.Error("different types must never compare equal")
	}
}

func TestBytesCloneIsIndependent(t *testing.T) {
	orig := Bytes([]byte{1, 2, 3})
	clone := orig.Clone()
	clone.Byt()[0] = 99
	if orig.Byt()[0] == 99 {
		t.Error("Clone() should copy the backing array")
	}
}

func TestFixedWidth(t *testing.T) {
	tests := []struct {
		t ValueType
		w int
	}{
		{TypeNull, 0}, {TypeU8, 1}, {TypeI8, 1}, {TypeU16, 2}, {TypeI16, 2},
		{TypeU16Char, 2}, {TypeI32, 4}, {TypeU32, 4}, {TypeF32, 4},
		{TypeI64, 8}, {TypeU64, 8}, {TypeF64, 8},
	}
	for _, tt := range tests {
		w, ok := tt.t.FixedWidth()
		if !ok || w != tt.w {
			t.Errorf("%v.FixedWidth() = (%d, %v), want (%d, true)", tt.t, w, ok, tt.w)
		}
	}
	if _, ok := TypeString.FixedWidth(); ok {
		t.Error("string should not have a fixed width")
	}
}
