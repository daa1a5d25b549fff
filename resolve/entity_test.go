package resolve

import "testing"

func TestVariableValueType(t *testing.T) {
	v := newVariable(nil, nil, QualifiedType{Type: TypeInt, Const: true})
	if got := v.ValueType(); got.Type != TypeInt || !got.Const {
		t.Errorf("ValueType() = %+v, want const Int", got)
	}
}

func TestFunctionEntityValueTypeIsAlwaysConst(t *testing.T) {
	f := &FunctionEntity{Type: &FunctionType{Params: nil, Ret: TypeVoid}}
	got := f.ValueType()
	if !got.Const {
		t.Error("FunctionEntity.ValueType().Const = false, want true (functions are never reassignable)")
	}
	if got.Type != f.Type {
		t.Errorf("ValueType().Type = %v, want %v", got.Type, f.Type)
	}
}

func TestStructEntityNamedType(t *testing.T) {
	st := &StructType{Name: "Point"}
	e := &StructEntity{Type: st}
	if e.NamedType() != st {
		t.Errorf("NamedType() = %v, want %v", e.NamedType(), st)
	}
}

func TestClassEntityFullNameQualifiesThroughOwner(t *testing.T) {
	root := NewNamespace(true, nil, nil)
	cls := makeEntity(root, "Widget", nil, &ClassEntity{Type: &ClassType{Name: "Widget"}})
	members := NewNamespace(false, cls, nil)
	cls.Members = members

	field := makeMember(members, "size", nil, &Variable{Type: QualifiedType{Type: TypeInt}})
	if got, want := field.FullName(), "Widget::size"; got != want {
		t.Errorf("FullName() = %q, want %q", got, want)
	}
	if got, want := cls.FullName(), "Widget"; got != want {
		t.Errorf("owner.FullName() = %q, want %q (root namespace has no owner to qualify through)", got, want)
	}
}

func TestEntityLookupWalksParentsButNotChildren(t *testing.T) {
	root := NewNamespace(true, nil, nil)
	fileScope := NewNamespace(false, nil, root)

	gv := newVariable(nil, nil, QualifiedType{Type: TypeInt})
	makeEntity(root, "g", nil, gv)

	lv := newVariable(nil, nil, QualifiedType{Type: TypeString})
	makeEntity(fileScope, "local", nil, lv)

	if es := fileScope.Lookup("g"); len(es) != 1 || es[0] != gv {
		t.Errorf("fileScope.Lookup(g) = %v, want [%v] via parent walk", es, gv)
	}
	if es := root.Lookup("local"); es != nil {
		t.Errorf("root.Lookup(local) = %v, want nil (root must not see a child scope's bindings)", es)
	}
}
