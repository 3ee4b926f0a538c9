package ast

// Slot names one ordered sub-node list of a node. Every slot holds a list;
// single-child slots hold zero or one id.
type Slot uint8

const (
	SlotVar Slot = iota
	SlotExpr
	SlotExprs
	SlotCond
	SlotConds
	SlotStmts
	SlotElseIfs
	SlotElse
	SlotInit
	SlotLoop
	SlotKeyVar
	SlotValueVar
	SlotCases
	SlotArms
	SlotBody
	SlotLeft
	SlotRight
	SlotIf
	SlotCatches
	SlotFinally
	SlotTypes
	SlotNum
	SlotArgs
	SlotName
	SlotClass
	SlotUses
	SlotParams
	SlotDefault
	SlotDim
	SlotItems
	SlotKey
	SlotValue
	SlotVars
	SlotParts
	SlotSources

	slotCount
)

// slotNames are the sub-node keys used by the PHP-Parser JSON dump.
var slotNames = [slotCount]string{
	SlotVar:      "var",
	SlotExpr:     "expr",
	SlotExprs:    "exprs",
	SlotCond:     "cond",
	SlotConds:    "conds",
	SlotStmts:    "stmts",
	SlotElseIfs:  "elseifs",
	SlotElse:     "else",
	SlotInit:     "init",
	SlotLoop:     "loop",
	SlotKeyVar:   "keyVar",
	SlotValueVar: "valueVar",
	SlotCases:    "cases",
	SlotArms:     "arms",
	SlotBody:     "body",
	SlotLeft:     "left",
	SlotRight:    "right",
	SlotIf:       "if",
	SlotCatches:  "catches",
	SlotFinally:  "finally",
	SlotTypes:    "types",
	SlotNum:      "num",
	SlotArgs:     "args",
	SlotName:     "name",
	SlotClass:    "class",
	SlotUses:     "uses",
	SlotParams:   "params",
	SlotDefault:  "default",
	SlotDim:      "dim",
	SlotItems:    "items",
	SlotKey:      "key",
	SlotValue:    "value",
	SlotVars:     "vars",
	SlotParts:    "parts",
	SlotSources:  "sources",
}

func (s Slot) String() string {
	if s < slotCount {
		return slotNames[s]
	}
	return "slot(?)"
}

var (
	slotsExpr    = []Slot{SlotExpr}
	slotsStmts   = []Slot{SlotStmts}
	slotsVar     = []Slot{SlotVar}
	slotsBinary  = []Slot{SlotLeft, SlotRight}
	slotsAssign  = []Slot{SlotVar, SlotExpr}
	slotsInstCal = []Slot{SlotVar, SlotName, SlotArgs}
)

// kindSlots is the ordered slot layout of each kind. Generic lowering walks
// slots in this order, so it must match evaluation order.
var kindSlots = [kindCount][]Slot{
	StmtExpression:  slotsExpr,
	StmtEcho:        {SlotExprs},
	StmtReturn:      slotsExpr,
	StmtIf:          {SlotCond, SlotStmts, SlotElseIfs, SlotElse},
	StmtElseIf:      {SlotCond, SlotStmts},
	StmtElse:        slotsStmts,
	StmtFor:         {SlotInit, SlotCond, SlotLoop, SlotStmts},
	StmtForeach:     {SlotExpr, SlotKeyVar, SlotValueVar, SlotStmts},
	StmtWhile:       {SlotCond, SlotStmts},
	StmtDo:          {SlotStmts, SlotCond},
	StmtSwitch:      {SlotCond, SlotCases},
	StmtCase:        {SlotCond, SlotStmts},
	StmtBreak:       {SlotNum},
	StmtContinue:    {SlotNum},
	StmtTryCatch:    {SlotStmts, SlotCatches, SlotFinally},
	StmtCatch:       {SlotTypes, SlotVar, SlotStmts},
	StmtFinally:     slotsStmts,
	StmtFunction:    {SlotParams, SlotStmts},
	StmtClass:       slotsStmts,
	StmtInterface:   slotsStmts,
	StmtTrait:       slotsStmts,
	StmtEnum:        slotsStmts,
	StmtClassMethod: {SlotParams, SlotStmts},
	StmtUnset:       {SlotVars},
	StmtGlobal:      {SlotVars},
	StmtStatic:      {SlotVars},
	StmtNamespace:   slotsStmts,
	StmtDeclare:     slotsStmts,
	StmtThrow:       slotsExpr,
	StmtBlock:       slotsStmts,
	StmtPhi:         {SlotVar, SlotSources},

	ExprVariable:              {SlotName},
	ExprAssign:                slotsAssign,
	ExprAssignRef:             slotsAssign,
	ExprAssignOp:              slotsAssign,
	ExprPreInc:                slotsVar,
	ExprPreDec:                slotsVar,
	ExprPostInc:               slotsVar,
	ExprPostDec:               slotsVar,
	ExprBinaryOp:              slotsBinary,
	ExprBooleanAnd:            slotsBinary,
	ExprBooleanOr:             slotsBinary,
	ExprLogicalAnd:            slotsBinary,
	ExprLogicalOr:             slotsBinary,
	ExprUnaryOp:               slotsExpr,
	ExprTernary:               {SlotCond, SlotIf, SlotElse},
	ExprMatch:                 {SlotCond, SlotArms},
	ExprFuncCall:              {SlotName, SlotArgs},
	ExprMethodCall:            slotsInstCal,
	ExprNullsafeMethodCall:    slotsInstCal,
	ExprStaticCall:            {SlotClass, SlotName, SlotArgs},
	ExprNew:                   {SlotClass, SlotArgs},
	ExprClone:                 slotsExpr,
	ExprClosure:               {SlotParams, SlotUses, SlotStmts},
	ExprArrowFunction:         {SlotParams, SlotExpr},
	ExprPropertyFetch:         {SlotVar, SlotName},
	ExprNullsafePropertyFetch: {SlotVar, SlotName},
	ExprStaticPropertyFetch:   {SlotClass, SlotName},
	ExprArrayDimFetch:         {SlotVar, SlotDim},
	ExprArray:                 {SlotItems},
	ExprList:                  {SlotItems},
	ExprConstFetch:            {SlotName},
	ExprClassConstFetch:       {SlotClass, SlotName},
	ExprPrint:                 slotsExpr,
	ExprExit:                  slotsExpr,
	ExprInclude:               slotsExpr,
	ExprEval:                  slotsExpr,
	ExprShellExec:             {SlotParts},
	ExprIsset:                 {SlotVars},
	ExprEmpty:                 slotsExpr,
	ExprCast:                  slotsExpr,
	ExprInstanceof:            {SlotExpr, SlotClass},
	ExprYield:                 {SlotKey, SlotValue},
	ExprYieldFrom:             slotsExpr,
	ExprThrow:                 slotsExpr,
	ExprErrorSuppress:         slotsExpr,
	ScalarEncapsed:            {SlotParts},

	NodeArg:        {SlotValue},
	NodeArrayItem:  {SlotKey, SlotValue},
	NodeParam:      {SlotVar, SlotDefault},
	NodeClosureUse: slotsVar,
	NodeMatchArm:   {SlotConds, SlotBody},
	NodeStaticVar:  {SlotVar, SlotDefault},
}

// SlotsOf returns the slot layout of k. The slice is shared.
func SlotsOf(k Kind) []Slot {
	if k < kindCount {
		return kindSlots[k]
	}
	return nil
}

func slotIndex(k Kind, s Slot) int {
	for i, have := range SlotsOf(k) {
		if have == s {
			return i
		}
	}
	return -1
}

// HasSlot reports whether kind k carries slot s.
func HasSlot(k Kind, s Slot) bool { return slotIndex(k, s) >= 0 }

// SlotByName resolves a JSON sub-node key to its slot.
func SlotByName(name string) (Slot, bool) {
	s, ok := slotByName[name]
	return s, ok
}

var slotByName = func() map[string]Slot {
	m := make(map[string]Slot, slotCount)
	for s := Slot(0); s < slotCount; s++ {
		m[slotNames[s]] = s
	}
	return m
}()
