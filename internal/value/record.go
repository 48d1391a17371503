package value

import (
	"fmt"

	"github.com/beatscript/beatscript/internal/ir"
)

// Field is one named slot of a record type.
type Field struct {
	Name string
	Type Type
}

// RecordType is a user-declared aggregate with named fields laid out
// contiguously. Records are reference types.
type RecordType struct {
	TypeName string
	Fields   []Field

	offsets []int
	size    int
}

// NewRecordType builds a record type. All field types must be concrete
// storage types.
func NewRecordType(name string, fields []Field) (*RecordType, error) {
	t := &RecordType{TypeName: name, Fields: fields}
	t.offsets = make([]int, len(fields))
	off := 0
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if seen[f.Name] {
			return nil, fmt.Errorf("record %s declares field %s twice", name, f.Name)
		}
		seen[f.Name] = true
		if !f.Type.Concrete() || f.Type.Size() == 0 {
			return nil, fmt.Errorf("record %s field %s has non-storable type %s",
				name, f.Name, f.Type.Name())
		}
		t.offsets[i] = off
		off += f.Type.Size()
	}
	t.size = off
	return t, nil
}

func (t *RecordType) Name() string         { return t.TypeName }
func (t *RecordType) Size() int            { return t.size }
func (t *RecordType) ValueSemantics() bool { return false }
func (t *RecordType) Concrete() bool       { return true }

func (t *RecordType) FromPlace(p ir.BlockPlace) Value {
	return &Record{typ: t, place: p}
}

func (t *RecordType) Accept(v Value) (Value, error) {
	if r, ok := v.(*Record); ok && r.typ == t {
		return r, nil
	}
	return nil, fmt.Errorf("cannot accept %s where %s is expected", v.Type().Name(), t.TypeName)
}

func (t *RecordType) fieldIndex(name string) (int, bool) {
	for i, f := range t.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Construct materializes a record instance from positional and keyword
// arguments, like calling the record's name.
func (t *RecordType) Construct(ec EmitContext, args []Value, kwargs map[string]Value) (Value, error) {
	if len(args) > len(t.Fields) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", t.TypeName, len(t.Fields), len(args))
	}
	byField := make([]Value, len(t.Fields))
	copy(byField, args)
	for name, v := range kwargs {
		i, ok := t.fieldIndex(name)
		if !ok {
			return nil, fmt.Errorf("%s has no field %s", t.TypeName, name)
		}
		if byField[i] != nil {
			return nil, fmt.Errorf("%s got multiple values for field %s", t.TypeName, name)
		}
		byField[i] = v
	}
	for i, v := range byField {
		if v == nil {
			return nil, fmt.Errorf("%s missing value for field %s", t.TypeName, t.Fields[i].Name)
		}
	}
	place := ec.Alloc(t.TypeName, t.size)
	rec := &Record{typ: t, place: place}
	for i, v := range byField {
		slot, err := rec.fieldAt(i)
		if err != nil {
			return nil, err
		}
		if err := slot.Set(ec, v); err != nil {
			return nil, fmt.Errorf("field %s: %w", t.Fields[i].Name, err)
		}
	}
	return rec, nil
}

// Record is a storage-backed instance of a RecordType.
type Record struct {
	typ   *RecordType
	place ir.BlockPlace
}

func (r *Record) Type() Type            { return r.typ }
func (r *Record) Comptime() (any, bool) { return nil, false }

func (r *Record) Place() ir.BlockPlace { return r.place }

func (r *Record) Get(EmitContext) (Value, error) { return r, nil }

// Set copies the contents of a same-typed record into this one's storage.
func (r *Record) Set(ec EmitContext, v Value) error {
	src, ok := v.(*Record)
	if !ok || src.typ != r.typ {
		return fmt.Errorf("cannot assign %s to %s", v.Type().Name(), r.typ.TypeName)
	}
	if src.place == r.place {
		return nil
	}
	for i := range r.typ.Fields {
		se, err := src.fieldAt(i)
		if err != nil {
			return err
		}
		de, err := r.fieldAt(i)
		if err != nil {
			return err
		}
		if err := de.Set(ec, se); err != nil {
			return err
		}
	}
	return nil
}

func (r *Record) Copy(ec EmitContext) (Value, error) {
	place := ec.Alloc(r.typ.TypeName, r.typ.size)
	fresh := &Record{typ: r.typ, place: place}
	if err := fresh.Set(ec, r); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (r *Record) fieldAt(i int) (Value, error) {
	if i < 0 || i >= len(r.typ.Fields) {
		return nil, fmt.Errorf("%s has no field at position %d", r.typ.TypeName, i)
	}
	f := r.typ.Fields[i]
	return f.Type.FromPlace(r.place.AddOffset(r.typ.offsets[i])), nil
}

// Attr resolves a field access by name.
func (r *Record) Attr(name string) (Value, bool, error) {
	i, ok := r.typ.fieldIndex(name)
	if !ok {
		return nil, false, nil
	}
	v, err := r.fieldAt(i)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// MatchArgs returns the positional field views used by class patterns.
func (r *Record) MatchArgs() ([]Value, error) {
	out := make([]Value, len(r.typ.Fields))
	for i := range r.typ.Fields {
		v, err := r.fieldAt(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
