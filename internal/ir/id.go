// Package ir implements the entity lifecycle, use-def, control-flow edge,
// and block/function substrate that the rest of a compiler's middle end is
// built on. Every mutation here — setting an operand, attaching a jump
// target, splicing an instruction into a block — goes through a small set
// of primitives that keep the pool, the intrusive rings, and the chain
// shape of a block consistent with each other.
package ir

import "fmt"

// EntityClass tags which of the six pools an EntityID belongs to.
type EntityClass uint8

const (
	ClassInvalid EntityClass = iota
	ClassExpr
	ClassInst
	ClassGlobal
	ClassBlock
	ClassUse
	ClassJumpTarget
)

var entityClassNames = [...]string{
	ClassInvalid:    "invalid",
	ClassExpr:       "expr",
	ClassInst:       "inst",
	ClassGlobal:     "global",
	ClassBlock:      "block",
	ClassUse:        "use",
	ClassJumpTarget: "jumptarget",
}

func (c EntityClass) String() string {
	if int(c) < len(entityClassNames) {
		return entityClassNames[c]
	}
	return "unknown"
}

// Every pool reserves index 0 as "no entity" so a zero-valued typed id
// reads naturally as None, without a separate option wrapper.
const noIndex = 0

// ExprID, InstID, GlobalID, BlockID, UseID and JumpTargetID are stable
// pool-local indices. The zero value of each means "none".
type (
	ExprID       uint32
	InstID       uint32
	GlobalID     uint32
	BlockID      uint32
	UseID        uint32
	JumpTargetID uint32
)

func (id ExprID) Valid() bool       { return id != noIndex }
func (id InstID) Valid() bool       { return id != noIndex }
func (id GlobalID) Valid() bool     { return id != noIndex }
func (id BlockID) Valid() bool      { return id != noIndex }
func (id UseID) Valid() bool        { return id != noIndex }
func (id JumpTargetID) Valid() bool { return id != noIndex }

func (id ExprID) String() string       { return fmt.Sprintf("%d", uint32(id)) }
func (id InstID) String() string       { return fmt.Sprintf("%d", uint32(id)) }
func (id GlobalID) String() string     { return fmt.Sprintf("%d", uint32(id)) }
func (id BlockID) String() string      { return fmt.Sprintf("%d", uint32(id)) }
func (id UseID) String() string        { return fmt.Sprintf("%d", uint32(id)) }
func (id JumpTargetID) String() string { return fmt.Sprintf("%d", uint32(id)) }

// EntityID is the type-erased identifier: a (class, index) pair that can
// name any of the six pool-allocated entity kinds uniformly. The collector
// uses this to push mixed-class work onto one FIFO queue.
type EntityID struct {
	Class EntityClass
	Index uint32
}

func (id EntityID) Valid() bool { return id.Index != noIndex }

func (id EntityID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("%s(none)", id.Class)
	}
	return fmt.Sprintf("%s#%d", id.Class, id.Index)
}

func exprEntity(id ExprID) EntityID             { return EntityID{ClassExpr, uint32(id)} }
func instEntity(id InstID) EntityID             { return EntityID{ClassInst, uint32(id)} }
func globalEntity(id GlobalID) EntityID         { return EntityID{ClassGlobal, uint32(id)} }
func blockEntity(id BlockID) EntityID           { return EntityID{ClassBlock, uint32(id)} }
func useEntity(id UseID) EntityID               { return EntityID{ClassUse, uint32(id)} }
func jumpTargetEntity(id JumpTargetID) EntityID { return EntityID{ClassJumpTarget, uint32(id)} }
