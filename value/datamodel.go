package value

import (
	"io"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/pkg/errors"
)

// ToIPLD converts a Value into an IPLD data model node. The mapping is
// exact: every kind has a direct data model counterpart.
func ToIPLD(v Value) (datamodel.Node, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := assign(nb, v); err != nil {
		return nil, err
	}
	return nb.Build(), nil
}

func assign(na datamodel.NodeAssembler, v Value) error {
	switch v.Kind() {
	case KindNull:
		return na.AssignNull()
	case KindBool:
		b, _ := v.AsBool()
		return na.AssignBool(b)
	case KindInt:
		i, _ := v.AsInt()
		return na.AssignInt(i)
	case KindFloat:
		f, _ := v.AsFloat()
		return na.AssignFloat(f)
	case KindString:
		s, _ := v.AsString()
		return na.AssignString(s)
	case KindBytes:
		b, _ := v.AsBytes()
		return na.AssignBytes(b)
	case KindList:
		l, _ := v.AsList()
		la, err := na.BeginList(int64(len(l)))
		if err != nil {
			return err
		}
		for _, e := range l {
			if err := assign(la.AssembleValue(), e); err != nil {
				return err
			}
		}
		return la.Finish()
	case KindMap:
		m, _ := v.AsMap()
		ma, err := na.BeginMap(int64(m.Len()))
		if err != nil {
			return err
		}
		entries := m.Entries()
		for {
			k, e, err := entries.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			if err := ma.AssembleKey().AssignString(k); err != nil {
				return err
			}
			if err := assign(ma.AssembleValue(), e); err != nil {
				return err
			}
		}
		return ma.Finish()
	}
	return errors.Errorf("unexpected value kind: %s", v.Kind())
}

// FromIPLD converts an IPLD data model node into a Value. Link nodes have
// no counterpart in the value tree and are rejected.
func FromIPLD(n datamodel.Node) (Value, error) {
	switch n.Kind() {
	case datamodel.Kind_Null:
		return Null(), nil
	case datamodel.Kind_Bool:
		b, err := n.AsBool()
		if err != nil {
			return Value{}, err
		}
		return NewBool(b), nil
	case datamodel.Kind_Int:
		i, err := n.AsInt()
		if err != nil {
			return Value{}, err
		}
		return NewInt(i), nil
	case datamodel.Kind_Float:
		f, err := n.AsFloat()
		if err != nil {
			return Value{}, err
		}
		return NewFloat(f), nil
	case datamodel.Kind_String:
		s, err := n.AsString()
		if err != nil {
			return Value{}, err
		}
		return NewString(s), nil
	case datamodel.Kind_Bytes:
		b, err := n.AsBytes()
		if err != nil {
			return Value{}, err
		}
		return NewBytes(b), nil
	case datamodel.Kind_List:
		l := make([]Value, 0, n.Length())
		it := n.ListIterator()
		for !it.Done() {
			_, en, err := it.Next()
			if err != nil {
				return Value{}, err
			}
			e, err := FromIPLD(en)
			if err != nil {
				return Value{}, err
			}
			l = append(l, e)
		}
		return NewList(l), nil
	case datamodel.Kind_Map:
		m := &Map{}
		it := n.MapIterator()
		for !it.Done() {
			kn, vn, err := it.Next()
			if err != nil {
				return Value{}, err
			}
			k, err := kn.AsString()
			if err != nil {
				return Value{}, err
			}
			e, err := FromIPLD(vn)
			if err != nil {
				return Value{}, err
			}
			m.Set(k, e)
		}
		return NewMap(m), nil
	}
	return Value{}, errors.Errorf("unsupported node kind: %s", n.Kind())
}
