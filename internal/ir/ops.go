package ir

// Op names an engine operation. The vocabulary is closed: every Op carries
// static metadata registered in opInfos, and the compiler only ever emits
// references into this table.
type Op string

// opInfo holds the three independent classifications of an operation:
// whether invoking it has observable side effects, whether it is pure
// (reorderable and eliminable), and whether it affects control flow.
type opInfo struct {
	sideEffects bool
	pure        bool
	controlFlow bool
}

const (
	OpAbs              Op = "Abs"
	OpAdd              Op = "Add"
	OpAnd              Op = "And"
	OpArccos           Op = "Arccos"
	OpArcsin           Op = "Arcsin"
	OpArctan           Op = "Arctan"
	OpArctan2          Op = "Arctan2"
	OpBlock            Op = "Block"
	OpBreak            Op = "Break"
	OpCeil             Op = "Ceil"
	OpClamp            Op = "Clamp"
	OpCopy             Op = "Copy"
	OpCos              Op = "Cos"
	OpDebugLog         Op = "DebugLog"
	OpDebugPause       Op = "DebugPause"
	OpDestroyParticle  Op = "DestroyParticleEffect"
	OpDivide           Op = "Divide"
	OpDoWhile          Op = "DoWhile"
	OpDraw             Op = "Draw"
	OpEqual            Op = "Equal"
	OpExecute          Op = "Execute"
	OpExecute0         Op = "Execute0"
	OpExportValue      Op = "ExportValue"
	OpFloor            Op = "Floor"
	OpFrac             Op = "Frac"
	OpGet              Op = "Get"
	OpGetShifted       Op = "GetShifted"
	OpGreater          Op = "Greater"
	OpGreaterOr        Op = "GreaterOr"
	OpIf               Op = "If"
	OpJudge            Op = "Judge"
	OpJudgeSimple      Op = "JudgeSimple"
	OpJumpLoop         Op = "JumpLoop"
	OpLerp             Op = "Lerp"
	OpLess             Op = "Less"
	OpLessOr           Op = "LessOr"
	OpLog              Op = "Log"
	OpMax              Op = "Max"
	OpMin              Op = "Min"
	OpMod              Op = "Mod"
	OpMoveParticle     Op = "MoveParticleEffect"
	OpMultiply         Op = "Multiply"
	OpNegate           Op = "Negate"
	OpNot              Op = "Not"
	OpNotEqual         Op = "NotEqual"
	OpOr               Op = "Or"
	OpPlay             Op = "Play"
	OpPlayScheduled    Op = "PlayScheduled"
	OpPower            Op = "Power"
	OpRandom           Op = "Random"
	OpRandomInteger    Op = "RandomInteger"
	OpRem              Op = "Rem"
	OpRemap            Op = "Remap"
	OpRound            Op = "Round"
	OpSet              Op = "Set"
	OpSetShifted       Op = "SetShifted"
	OpSign             Op = "Sign"
	OpSin              Op = "Sin"
	OpSpawn            Op = "Spawn"
	OpSpawnParticle    Op = "SpawnParticleEffect"
	OpSubtract         Op = "Subtract"
	OpSwitch           Op = "Switch"
	OpSwitchInteger    Op = "SwitchInteger"
	OpSwitchWithDef    Op = "SwitchWithDefault"
	OpSwitchIntWithDef Op = "SwitchIntegerWithDefault"
	OpTan              Op = "Tan"
	OpTrunc            Op = "Trunc"
	OpUnlerp           Op = "Unlerp"
	OpWhile            Op = "While"
)

var opInfos = map[Op]opInfo{
	OpAbs:              {false, true, false},
	OpAdd:              {false, true, false},
	OpAnd:              {false, true, true},
	OpArccos:           {false, true, false},
	OpArcsin:           {false, true, false},
	OpArctan:           {false, true, false},
	OpArctan2:          {false, true, false},
	OpBlock:            {false, true, true},
	OpBreak:            {true, false, true},
	OpCeil:             {false, true, false},
	OpClamp:            {false, true, false},
	OpCopy:             {true, false, false},
	OpCos:              {false, true, false},
	OpDebugLog:         {true, false, false},
	OpDebugPause:       {true, false, false},
	OpDestroyParticle:  {true, false, false},
	OpDivide:           {false, true, false},
	OpDoWhile:          {false, true, true},
	OpDraw:             {true, false, false},
	OpEqual:            {false, true, false},
	OpExecute:          {false, true, false},
	OpExecute0:         {false, true, false},
	OpExportValue:      {true, false, false},
	OpFloor:            {false, true, false},
	OpFrac:             {false, true, false},
	OpGet:              {false, false, false},
	OpGetShifted:       {false, false, false},
	OpGreater:          {false, true, false},
	OpGreaterOr:        {false, true, false},
	OpIf:               {false, true, true},
	OpJudge:            {false, true, false},
	OpJudgeSimple:      {false, true, false},
	OpJumpLoop:         {false, true, true},
	OpLerp:             {false, true, false},
	OpLess:             {false, true, false},
	OpLessOr:           {false, true, false},
	OpLog:              {false, true, false},
	OpMax:              {false, true, false},
	OpMin:              {false, true, false},
	OpMod:              {false, true, false},
	OpMoveParticle:     {true, false, false},
	OpMultiply:         {false, true, false},
	OpNegate:           {false, true, false},
	OpNot:              {false, true, false},
	OpNotEqual:         {false, true, false},
	OpOr:               {false, true, true},
	OpPlay:             {true, false, false},
	OpPlayScheduled:    {true, false, false},
	OpPower:            {false, true, false},
	OpRandom:           {false, false, false},
	OpRandomInteger:    {false, false, false},
	OpRem:              {false, true, false},
	OpRemap:            {false, true, false},
	OpRound:            {false, true, false},
	OpSet:              {true, false, false},
	OpSetShifted:       {true, false, false},
	OpSign:             {false, true, false},
	OpSin:              {false, true, false},
	OpSpawn:            {true, false, false},
	OpSpawnParticle:    {true, false, false},
	OpSubtract:         {false, true, false},
	OpSwitch:           {false, true, true},
	OpSwitchInteger:    {false, true, true},
	OpSwitchWithDef:    {false, true, true},
	OpSwitchIntWithDef: {false, true, true},
	OpTan:              {false, true, false},
	OpTrunc:            {false, true, false},
	OpUnlerp:           {false, true, false},
	OpWhile:            {false, true, true},
}

// Known reports whether op is part of the registered vocabulary.
func (op Op) Known() bool {
	_, ok := opInfos[op]
	return ok
}

// SideEffects reports whether invoking op has an observable side effect.
func (op Op) SideEffects() bool {
	return opInfos[op].sideEffects
}

// Pure reports whether op is pure: it produces a value from its arguments
// alone and may be reordered or eliminated.
func (op Op) Pure() bool {
	return opInfos[op].pure
}

// ControlFlow reports whether op affects control flow when interpreted as
// an engine node.
func (op Op) ControlFlow() bool {
	return opInfos[op].controlFlow
}
