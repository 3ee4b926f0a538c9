package cfg

import (
	"slices"

	"phpflow/internal/ast"
)

func (b *builder) lowerIf(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	t := b.t
	next := b.newBlock(succ)
	thenBlk := b.newBlock(next)
	elseBlk := b.newBlock(next)

	if err := b.condition(cur, thenBlk, elseBlk, t.One(id, ast.SlotCond), id, sc); err != nil {
		return cur, err
	}
	if _, err := b.lowerList(thenBlk, next, t.Sub(id, ast.SlotStmts), sc); err != nil {
		return cur, err
	}
	for _, elif := range t.Sub(id, ast.SlotElseIfs) {
		elifThen := b.newBlock(next)
		elifElse := b.newBlock(next)
		if err := b.condition(elseBlk, elifThen, elifElse, t.One(elif, ast.SlotCond), elif, sc); err != nil {
			return cur, err
		}
		if _, err := b.lowerList(elifThen, next, t.Sub(elif, ast.SlotStmts), sc); err != nil {
			return cur, err
		}
		elseBlk = elifElse
	}
	if els := t.One(id, ast.SlotElse); els.IsValid() {
		if _, err := b.lowerList(elseBlk, next, t.Sub(els, ast.SlotStmts), sc); err != nil {
			return cur, err
		}
	}
	return next, nil
}

func (b *builder) lowerFor(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	t := b.t
	next := b.newBlock(succ)
	tail := b.g.NewBlock()
	inner := sc.loop(next, tail)

	cur, err := b.lowerList(cur, succ, t.Sub(id, ast.SlotInit), sc)
	if err != nil {
		return cur, err
	}
	tailEnd, err := b.lowerList(tail, succ, t.Sub(id, ast.SlotLoop), sc)
	if err != nil {
		return cur, err
	}
	body := b.newBlock(tail)
	if _, err := b.lowerList(body, tail, t.Sub(id, ast.SlotStmts), inner); err != nil {
		return cur, err
	}

	test := b.newBlock(body)
	b.g.SetSuccessors(cur, test)
	b.g.SetSuccessors(tailEnd, test)

	conds := t.Sub(id, ast.SlotCond)
	if len(conds) == 0 {
		return next, nil
	}
	last, err := b.lowerList(test, succ, conds[:len(conds)-1], sc)
	if err != nil {
		return cur, err
	}
	if err := b.condition(last, body, next, conds[len(conds)-1], id, sc); err != nil {
		return cur, err
	}
	return next, nil
}

func (b *builder) lowerForeach(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	t := b.t
	next := b.newBlock(succ)
	head := b.g.NewBlock()

	cur, err := b.lower(cur, head, t.One(id, ast.SlotExpr), sc)
	if err != nil {
		return cur, err
	}
	b.g.SetSuccessors(cur, head)
	body := b.newBlock(head)
	b.g.SetTerminator(head, id, body, next)

	if _, err := b.lowerList(body, head, t.Sub(id, ast.SlotStmts), sc.loop(next, body)); err != nil {
		return cur, err
	}
	return next, nil
}

func (b *builder) lowerWhile(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	t := b.t
	next := b.newBlock(succ)
	head := b.g.NewBlock()
	b.g.SetSuccessors(cur, head)
	body := b.newBlock(head)

	if err := b.condition(head, body, next, t.One(id, ast.SlotCond), id, sc); err != nil {
		return cur, err
	}
	if _, err := b.lowerList(body, head, t.Sub(id, ast.SlotStmts), sc.loop(next, head)); err != nil {
		return cur, err
	}
	return next, nil
}

func (b *builder) lowerDo(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	t := b.t
	next := b.newBlock(succ)
	test := b.g.NewBlock()
	body := b.newBlock(test)
	b.g.SetSuccessors(cur, body)

	if _, err := b.lowerList(body, test, t.Sub(id, ast.SlotStmts), sc.loop(next, test)); err != nil {
		return cur, err
	}
	if err := b.condition(test, body, next, t.One(id, ast.SlotCond), id, sc); err != nil {
		return cur, err
	}
	return next, nil
}

// lowerSwitch builds case bodies back to front so each one falls through
// into the next, then chains the case tests. Failing every test lands in the
// default body, or after the switch when there is none.
func (b *builder) lowerSwitch(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	t := b.t
	next := b.newBlock(succ)
	cur, err := b.lower(cur, succ, t.One(id, ast.SlotCond), sc)
	if err != nil {
		return cur, err
	}
	inner := sc.loop(next, next)

	cases := t.Sub(id, ast.SlotCases)
	bodies := make([]BlockID, len(cases))
	fall := next
	miss := next
	for i := len(cases) - 1; i >= 0; i-- {
		body := b.newBlock(fall)
		if _, err := b.lowerList(body, fall, t.Sub(cases[i], ast.SlotStmts), inner); err != nil {
			return cur, err
		}
		bodies[i] = body
		fall = body
		if !t.One(cases[i], ast.SlotCond).IsValid() {
			miss = body
		}
	}
	for i := len(cases) - 1; i >= 0; i-- {
		cond := t.One(cases[i], ast.SlotCond)
		if !cond.IsValid() {
			continue
		}
		test := b.g.NewBlock()
		if err := b.condition(test, bodies[i], miss, cond, cases[i], sc); err != nil {
			return cur, err
		}
		miss = test
	}
	b.g.SetTerminator(cur, id, miss)
	return next, nil
}

// lowerMatch is lowerSwitch without fallthrough; an arm may list several
// conditions, each tested in its own block.
func (b *builder) lowerMatch(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	t := b.t
	next := b.newBlock(succ)
	cur, err := b.lower(cur, succ, t.One(id, ast.SlotCond), sc)
	if err != nil {
		return cur, err
	}

	arms := t.Sub(id, ast.SlotArms)
	bodies := make([]BlockID, len(arms))
	miss := next
	for i := len(arms) - 1; i >= 0; i-- {
		body := b.newBlock(next)
		if _, err := b.lower(body, next, t.One(arms[i], ast.SlotBody), sc); err != nil {
			return cur, err
		}
		bodies[i] = body
		if len(t.Sub(arms[i], ast.SlotConds)) == 0 {
			miss = body
		}
	}
	for i := len(arms) - 1; i >= 0; i-- {
		conds := t.Sub(arms[i], ast.SlotConds)
		for j := len(conds) - 1; j >= 0; j-- {
			test := b.g.NewBlock()
			if err := b.condition(test, bodies[i], miss, conds[j], arms[i], sc); err != nil {
				return cur, err
			}
			miss = test
		}
	}
	b.g.SetTerminator(cur, id, miss)
	b.g.AddStmt(next, id)
	return next, nil
}

// lowerBooleanOp handles && and || used as a value: both outcomes meet in a
// confluence block, which records the operator's result.
func (b *builder) lowerBooleanOp(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	join := b.newBlock(succ)
	if err := b.shortCircuit(cur, join, join, id, ast.NoNodeID, sc); err != nil {
		return cur, err
	}
	b.g.AddStmt(join, id)
	return join, nil
}

func (b *builder) lowerTernary(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	t := b.t
	next := b.newBlock(succ)
	then := t.One(id, ast.SlotIf)
	thenBlk := next
	if then.IsValid() {
		thenBlk = b.newBlock(next)
	}
	elseBlk := b.newBlock(next)

	if err := b.condition(cur, thenBlk, elseBlk, t.One(id, ast.SlotCond), id, sc); err != nil {
		return cur, err
	}
	if then.IsValid() {
		if _, err := b.lower(thenBlk, next, then, sc); err != nil {
			return cur, err
		}
	}
	if _, err := b.lower(elseBlk, next, t.One(id, ast.SlotElse), sc); err != nil {
		return cur, err
	}
	b.g.AddStmt(next, id)
	return next, nil
}

func (b *builder) condition(cur, thenBlk, elseBlk BlockID, cond, parent ast.NodeID, sc scope) error {
	return b.shortCircuit(cur, thenBlk, elseBlk, cond, parent, sc)
}

// shortCircuit lowers a boolean expression between two targets. && and ||
// split into cascades of two-way blocks; any other node is evaluated and,
// when parent is set, the final block branches on it.
func (b *builder) shortCircuit(cur, thenBlk, elseBlk BlockID, id, parent ast.NodeID, sc scope) error {
	t := b.t
	k := t.Kind(id)
	if k.IsBooleanOp() {
		right := b.newBlock(thenBlk)
		left := t.One(id, ast.SlotLeft)
		if k.IsAnd() {
			if err := b.shortCircuit(cur, right, elseBlk, left, id, sc); err != nil {
				return err
			}
		} else if err := b.shortCircuit(cur, thenBlk, right, left, id, sc); err != nil {
			return err
		}
		return b.shortCircuit(right, thenBlk, elseBlk, t.One(id, ast.SlotRight), parent, sc)
	}

	cur, err := b.lower(cur, thenBlk, id, sc)
	if err != nil {
		return err
	}
	if parent.IsValid() {
		b.g.SetTerminator(cur, parent, thenBlk, elseBlk)
	}
	return nil
}

// lowerTry: finally is lowered first so the body and catches can target it.
// Catch clauses hang off the try entry as extra successors; any statement of
// the body may throw, so edges are not placed per statement.
func (b *builder) lowerTry(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	t := b.t
	after := b.newBlock(succ)
	target := after
	inner := sc

	if fin := t.One(id, ast.SlotFinally); fin.IsValid() {
		finBlk := b.newBlock(after)
		if _, err := b.lowerList(finBlk, after, t.Sub(fin, ast.SlotStmts), sc); err != nil {
			return cur, err
		}
		target = finBlk
		inner = sc.withFinally(finBlk)
	}

	tryBlk := b.newBlock(target)
	if _, err := b.lowerList(tryBlk, target, t.Sub(id, ast.SlotStmts), inner); err != nil {
		return cur, err
	}

	succs := []BlockID{tryBlk}
	for _, c := range t.Sub(id, ast.SlotCatches) {
		entry := b.newBlock(target)
		if _, err := b.lower(entry, target, c, inner); err != nil {
			return cur, err
		}
		succs = append(succs, entry)
	}
	b.g.SetTerminator(cur, id, succs...)
	return after, nil
}

// lowerCatch binds the caught variable in the clause entry, then enters the
// clause body.
func (b *builder) lowerCatch(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	t := b.t
	cur, err := b.lower(cur, succ, t.One(id, ast.SlotVar), sc)
	if err != nil {
		return cur, err
	}
	body := b.newBlock(succ)
	b.g.SetTerminator(cur, id, body)
	return b.lowerList(body, succ, t.Sub(id, ast.SlotStmts), sc)
}

func (b *builder) lowerReturn(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	cur, err := b.lower(cur, succ, b.t.One(id, ast.SlotExpr), sc)
	if err != nil {
		return cur, err
	}
	target := b.g.exit
	if n := len(sc.finallies); n > 0 {
		target = sc.finallies[n-1]
	}
	b.g.SetTerminator(cur, id, target)
	// whatever follows a return is unreachable
	return b.newBlock(succ), nil
}

// lowerJump handles break and continue against the given target stack.
func (b *builder) lowerJump(cur, succ BlockID, id ast.NodeID, sc scope, targets []BlockID) (BlockID, error) {
	t := b.t
	after := b.newBlock(succ)
	num := t.One(id, ast.SlotNum)
	if !num.IsValid() {
		if n := len(targets); n > 0 {
			b.g.SetTerminator(cur, id, targets[n-1])
		} else {
			b.g.SetTerminator(cur, id)
		}
		return after, nil
	}

	cur, err := b.lower(cur, succ, num, sc)
	if err != nil {
		return cur, err
	}
	if t.Kind(num) == ast.ScalarInt {
		level := t.Get(num).Int
		if level >= 1 && level <= int64(len(targets)) {
			b.g.SetTerminator(cur, id, targets[int64(len(targets))-level])
			return after, nil
		}
	}
	// level unknown or out of range: any enclosing target
	b.g.SetTerminator(cur, id, slices.Clone(targets)...)
	return after, nil
}

func (b *builder) labelBlock(name string) BlockID {
	if id, ok := b.labels[name]; ok {
		return id
	}
	id := b.g.NewBlock()
	b.g.SetLabel(id, name)
	b.labels[name] = id
	return id
}

func (b *builder) lowerGoto(cur, succ BlockID, id ast.NodeID) (BlockID, error) {
	after := b.newBlock(succ)
	b.g.SetTerminator(cur, id, b.labelBlock(b.t.NameOf(id)))
	return after, nil
}

func (b *builder) lowerLabel(cur, succ BlockID, id ast.NodeID) (BlockID, error) {
	name := b.t.NameOf(id)
	if b.placed[name] {
		return cur, fmtLabelError(name, b.t.Line(id))
	}
	b.placed[name] = true
	lb := b.labelBlock(name)
	b.g.SetSuccessors(cur, lb)
	b.g.AddStmt(lb, id)
	b.g.SetSuccessors(lb, succ)
	return lb, nil
}
