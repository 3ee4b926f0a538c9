package ast

import (
	"fmt"
	"iter"
)

// Inspect walks the subtree rooted at root in pre-order, slot by slot. fn
// returning false prunes the children of that node. An explicit stack keeps
// deeply nested expressions off the goroutine stack.
func Inspect(t *Tree, root NodeID, fn func(id NodeID) bool) {
	if !root.IsValid() {
		return
	}
	stack := []NodeID{root}
	var kids []NodeID
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(id) {
			continue
		}
		kids = kids[:0]
		t.Each(id, func(_ Slot, c NodeID) { kids = append(kids, c) })
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
}

// ChildNodes yields the direct sub-expressions and sub-statements that a
// live statement keeps alive. Declarations yield nothing, closures yield the
// variables they capture, arrow functions their implicit captures. Auxiliary
// wrappers (arguments, array items, match arms) are looked through.
func ChildNodes(t *Tree, id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		k := t.Kind(id)
		switch {
		case k.IsDecl(), k == StmtClassMethod:
			return
		case k == ExprClosure:
			for _, use := range t.Sub(id, SlotUses) {
				if v := t.One(use, SlotVar); v.IsValid() && !yield(v) {
					return
				}
			}
			return
		case k == ExprArrowFunction:
			for _, v := range ArrowCaptures(t, id) {
				if !yield(v) {
					return
				}
			}
			return
		}
		yieldChildren(t, id, yield)
	}
}

func yieldChildren(t *Tree, id NodeID, yield func(NodeID) bool) bool {
	n := t.Get(id)
	if n == nil {
		return true
	}
	for i := range n.subs {
		for _, c := range n.subs[i] {
			ck := t.Kind(c)
			if ck.IsStmt() || ck.IsExpr() {
				if !yield(c) {
					return false
				}
				continue
			}
			if !yieldChildren(t, c, yield) {
				return false
			}
		}
	}
	return true
}

// LHSVariables returns the variables an assignment target writes.
// Property and array element writes define no local variable.
func LHSVariables(t *Tree, target NodeID) []NodeID {
	switch t.Kind(target) {
	case ExprVariable:
		return []NodeID{target}
	case ExprArray, ExprList:
		var out []NodeID
		for _, item := range t.Sub(target, SlotItems) {
			if t.Kind(item) == NodeArrayItem {
				out = append(out, LHSVariables(t, t.One(item, SlotValue))...)
			} else {
				out = append(out, LHSVariables(t, item)...)
			}
		}
		return out
	}
	return nil
}

// DefinedVariables returns the variable nodes that stmt writes.
func DefinedVariables(t *Tree, stmt NodeID) []NodeID {
	switch k := t.Kind(stmt); {
	case k == ExprAssign, k == ExprAssignRef, k == ExprAssignOp:
		return LHSVariables(t, t.One(stmt, SlotVar))
	case k == StmtPhi, k == NodeClosureUse, k == StmtCatch:
		if v := t.One(stmt, SlotVar); v.IsValid() {
			return []NodeID{v}
		}
	case k.IsIncDec(), k == NodeParam:
		if v := t.One(stmt, SlotVar); t.Kind(v) == ExprVariable {
			return []NodeID{v}
		}
	case k == StmtForeach:
		out := LHSVariables(t, t.One(stmt, SlotKeyVar))
		return append(out, LHSVariables(t, t.One(stmt, SlotValueVar))...)
	case k == StmtGlobal:
		var out []NodeID
		for _, v := range t.Sub(stmt, SlotVars) {
			if t.Kind(v) == ExprVariable {
				out = append(out, v)
			}
		}
		return out
	case k == StmtStatic:
		var out []NodeID
		for _, sv := range t.Sub(stmt, SlotVars) {
			if v := t.One(sv, SlotVar); v.IsValid() {
				out = append(out, v)
			}
		}
		return out
	}
	return nil
}

// IsReadWrite reports statements whose target is read before it is
// written: ++/-- and compound assignments.
func IsReadWrite(t *Tree, stmt NodeID) bool {
	k := t.Kind(stmt)
	return k.IsIncDec() || k == ExprAssignOp
}

// ArrowCaptures returns the variables an arrow function body reads from the
// enclosing scope: every statically named variable except its parameters.
func ArrowCaptures(t *Tree, arrow NodeID) []NodeID {
	params := make(map[string]struct{})
	for _, p := range t.Sub(arrow, SlotParams) {
		if name, ok := t.VarName(t.One(p, SlotVar)); ok {
			params[name] = struct{}{}
		}
	}
	var out []NodeID
	Inspect(t, t.One(arrow, SlotExpr), func(id NodeID) bool {
		switch k := t.Kind(id); {
		case k == ExprVariable:
			if name, ok := t.VarName(id); ok {
				if _, shadowed := params[name]; !shadowed {
					out = append(out, id)
				}
			}
			return true
		case k == ExprClosure:
			for _, use := range t.Sub(id, SlotUses) {
				v := t.One(use, SlotVar)
				if name, ok := t.VarName(v); ok {
					if _, shadowed := params[name]; !shadowed {
						out = append(out, v)
					}
				}
			}
			return false
		case k == ExprArrowFunction:
			for _, v := range ArrowCaptures(t, id) {
				name, _ := t.VarName(v)
				if _, shadowed := params[name]; !shadowed {
					out = append(out, v)
				}
			}
			return false
		case k.IsDecl():
			return false
		}
		return true
	})
	return out
}

// Unit is one analysable body: a function, a method or a closure.
type Unit struct {
	Node NodeID
	Name string
}

// FunctionLikes finds every function, method and closure under roots, in
// source order. Methods are named Class::method, closures {closure}@line.
func FunctionLikes(t *Tree, roots []NodeID) []Unit {
	type frame struct {
		id    NodeID
		class string
	}
	var out []Unit
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{id: roots[i]})
	}
	var kids []NodeID
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		class := f.class
		switch k := t.Kind(f.id); k {
		case StmtFunction:
			out = append(out, Unit{Node: f.id, Name: t.NameOf(f.id)})
		case StmtClassMethod:
			name := t.NameOf(f.id)
			if class != "" {
				name = class + "::" + name
			}
			out = append(out, Unit{Node: f.id, Name: name})
		case ExprClosure:
			out = append(out, Unit{Node: f.id, Name: fmt.Sprintf("{closure}@%d", t.Line(f.id))})
		case StmtClass, StmtInterface, StmtTrait, StmtEnum:
			class = t.NameOf(f.id)
			if class == "" {
				class = fmt.Sprintf("class@anonymous:%d", t.Line(f.id))
			}
		}
		kids = kids[:0]
		t.Each(f.id, func(_ Slot, c NodeID) { kids = append(kids, c) })
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: kids[i], class: class})
		}
	}
	return out
}
