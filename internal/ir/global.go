package ir

import "github.com/kestrel-ir/kestrel/internal/irtype"

// GlobalKind distinguishes the two Global variants: a module-level
// variable with an optional constant initializer, or a function with
// arguments and a body of blocks.
type GlobalKind uint8

const (
	GlobalInvalid GlobalKind = iota
	GlobalVariable
	GlobalFunction
)

func (k GlobalKind) String() string {
	switch k {
	case GlobalVariable:
		return "variable"
	case GlobalFunction:
		return "function"
	default:
		return "invalid"
	}
}

// funcArgData anchors a function argument's own user-ring; FuncArg has no
// pool of its own (the data model's six classes don't name one), so an
// argument's Value variant resolves here via (GlobalID, index) rather than
// through a seventh EntityClass.
type funcArgData struct {
	name     string
	typ      irtype.Type
	userRing UseID
}

// globalData is the Global entity, covering both variants named above. A
// pinned global is a GC root regardless of its own user-ring occupancy.
type globalData struct {
	kind GlobalKind
	name string
	typ  irtype.Type

	pinned bool

	userRing UseID

	// GlobalVariable
	init UseID

	// GlobalFunction
	args   []funcArgData
	blocks []BlockID
	entry  BlockID
}

// NewGlobalVariable allocates a module-level variable of type typ with an
// unset initializer Use.
func (a *Allocs) NewGlobalVariable(name string, typ irtype.Type) GlobalID {
	id := GlobalID(a.Globals.Allocate(globalData{kind: GlobalVariable, name: name, typ: typ}))
	g := a.Globals.Deref(uint32(id))
	g.userRing = a.newUserRingSentinel(GlobalValue(id))
	g.init = a.allocUse(globalEntity(id), UseKindGlobalInit, 0)
	return id
}

// SetGlobalInit binds a global variable's initializer.
func (a *Allocs) SetGlobalInit(id GlobalID, v Value) error {
	g := a.Globals.Deref(uint32(id))
	return a.SetOperand(g.init, v)
}

func (a *Allocs) GlobalInit(id GlobalID) Value {
	g := a.Globals.Deref(uint32(id))
	return a.Operand(g.init)
}

// NewGlobalFunction allocates a function global with the given argument
// types; each argument gets its own user-ring sentinel immediately, since
// FuncArg values are traceable from the moment the function exists.
func (a *Allocs) NewGlobalFunction(name string, result irtype.Type, paramTypes []irtype.Type) GlobalID {
	id := GlobalID(a.Globals.Allocate(globalData{kind: GlobalFunction, name: name, typ: result}))
	g := a.Globals.Deref(uint32(id))
	g.userRing = a.newUserRingSentinel(GlobalValue(id))
	g.args = make([]funcArgData, len(paramTypes))
	for i, pt := range paramTypes {
		g.args[i].typ = pt
		g.args[i].userRing = a.newUserRingSentinel(FuncArgValue(id, i))
	}
	return id
}

func (a *Allocs) GlobalKindOf(id GlobalID) GlobalKind { return a.Globals.Deref(uint32(id)).kind }
func (a *Allocs) GlobalName(id GlobalID) string         { return a.Globals.Deref(uint32(id)).name }
func (a *Allocs) GlobalType(id GlobalID) irtype.Type     { return a.Globals.Deref(uint32(id)).typ }
func (a *Allocs) GlobalPinned(id GlobalID) bool          { return a.Globals.Deref(uint32(id)).pinned }
func (a *Allocs) GlobalUserRing(id GlobalID) UseID       { return a.Globals.Deref(uint32(id)).userRing }
func (a *Allocs) GlobalInitUse(id GlobalID) UseID        { return a.Globals.Deref(uint32(id)).init }
func (a *Allocs) FuncArgUserRing(id GlobalID, index int) UseID {
	return a.Globals.Deref(uint32(id)).args[index].userRing
}
func (a *Allocs) SetGlobalPinned(id GlobalID, pinned bool) {
	a.Globals.Deref(uint32(id)).pinned = pinned
}

func (a *Allocs) FuncArgCount(id GlobalID) int { return len(a.Globals.Deref(uint32(id)).args) }
func (a *Allocs) FuncArgType(id GlobalID, index int) irtype.Type {
	return a.Globals.Deref(uint32(id)).args[index].typ
}
func (a *Allocs) FuncArgName(id GlobalID, index int) string {
	return a.Globals.Deref(uint32(id)).args[index].name
}
func (a *Allocs) SetFuncArgName(id GlobalID, index int, name string) {
	a.Globals.Deref(uint32(id)).args[index].name = name
}

func (a *Allocs) FuncBlocks(id GlobalID) []BlockID { return a.Globals.Deref(uint32(id)).blocks }
func (a *Allocs) FuncEntry(id GlobalID) BlockID     { return a.Globals.Deref(uint32(id)).entry }

// AppendBlock attaches an already-allocated block to a function's body,
// making it the entry block if it is the first.
func (a *Allocs) AppendBlock(fn GlobalID, block BlockID) {
	g := a.Globals.Deref(uint32(fn))
	a.setBlockParent(block, fn)
	if len(g.blocks) == 0 {
		g.entry = block
	}
	g.blocks = append(g.blocks, block)
}

// InsertBlockAfter attaches an already-allocated block to fn's body
// immediately after an existing block in the list, used by SplitBlock to
// keep a new successor adjacent to the block it split from.
func (a *Allocs) InsertBlockAfter(fn GlobalID, after, block BlockID) {
	g := a.Globals.Deref(uint32(fn))
	a.setBlockParent(block, fn)
	for i, b := range g.blocks {
		if b == after {
			g.blocks = append(g.blocks[:i+1], append([]BlockID{block}, g.blocks[i+1:]...)...)
			return
		}
	}
	g.blocks = append(g.blocks, block)
}

// DetachBlock removes block from fn's block list without disposing it.
func (a *Allocs) DetachBlock(fn GlobalID, block BlockID) {
	g := a.Globals.Deref(uint32(fn))
	for i, b := range g.blocks {
		if b == block {
			g.blocks = append(g.blocks[:i], g.blocks[i+1:]...)
			break
		}
	}
	if g.entry == block {
		if len(g.blocks) > 0 {
			g.entry = g.blocks[0]
		} else {
			g.entry = BlockID(noIndex)
		}
	}
}

// DisposeGlobal disposes every block in a function's body (in list order),
// every function argument's user-ring sentinel, the variable initializer
// Use if present, the global's own user-ring sentinel, and queues the
// global's slot for reclamation. The caller (collector, or direct API use)
// is responsible for ensuring the global is unpinned and has no live
// users first.
func (a *Allocs) DisposeGlobal(id GlobalID) error {
	if a.Globals.IsDisposed(uint32(id)) {
		return ErrAlreadyDisposed
	}
	g := a.Globals.Deref(uint32(id))

	for _, b := range g.blocks {
		_ = a.DisposeBlock(b)
	}
	for _, arg := range g.args {
		if arg.userRing != 0 {
			_ = a.DisposeUse(arg.userRing)
		}
	}
	if g.init != 0 {
		_ = a.DisposeUse(g.init)
	}
	if g.userRing != 0 {
		_ = a.DisposeUse(g.userRing)
	}

	g.blocks = nil
	g.args = nil
	g.pinned = false
	a.Globals.MarkDisposed(uint32(id))
	a.disposal.Push(globalEntity(id))
	return nil
}
