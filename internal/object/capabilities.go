package object

// CapName is the name of one entry in a type's capability table. Lower-
// case names (__add__) are ordinary implementations; upper-case names
// (__ADD__) are metafunctions that resolve, at compile time, which
// implementation a given call site should use. A lower-case capability
// with no explicit metafunction is auto-wrapped into a default one that
// always returns the same OpImpl regardless of call-site types.
type CapName string

const (
	CapNew       CapName = "__new__"
	CapCall      CapName = "__call__"
	CapGetAttr   CapName = "__getattr__"
	CapSetAttr   CapName = "__setattr__"
	CapGetItem   CapName = "__getitem__"
	CapSetItem   CapName = "__setitem__"
	CapEq        CapName = "__eq__"
	CapNe        CapName = "__ne__"
	CapLt        CapName = "__lt__"
	CapLe        CapName = "__le__"
	CapGt        CapName = "__gt__"
	CapGe        CapName = "__ge__"
	CapAdd       CapName = "__add__"
	CapSub       CapName = "__sub__"
	CapMul       CapName = "__mul__"
	CapTrueDiv   CapName = "__truediv__"
	CapFloorDiv  CapName = "__floordiv__"
	CapMod       CapName = "__mod__"
	CapNeg       CapName = "__neg__"
	CapStr       CapName = "__str__"
	CapRepr      CapName = "__repr__"
	CapLen       CapName = "__len__"
	CapHash      CapName = "__hash__"
	CapBool      CapName = "__bool__"
	CapIter      CapName = "__iter__"
	CapNext      CapName = "__next__"
	CapLift      CapName = "__lift__"
	CapUnlift    CapName = "__unlift__"
	CapModInit   CapName = "__INIT__"
)

// reflected holds the reflected-operand fallbacks consulted when the
// left operand's metafunction declines (returns nil), per the dispatch
// algorithm in spec §4.2 step 3.
var reflected = map[CapName]CapName{
	CapAdd:      "__radd__",
	CapSub:      "__rsub__",
	CapMul:      "__rmul__",
	CapTrueDiv:  "__rtruediv__",
	CapFloorDiv: "__rfloordiv__",
	CapMod:      "__rmod__",
	CapEq:       "__req__",
	CapLt:       "__rgt__",
	CapLe:       "__rge__",
	CapGt:       "__rlt__",
	CapGe:       "__rle__",
}

// Reflected returns the reflected counterpart of a binary capability, if
// one is defined, and whether one exists at all.
func Reflected(c CapName) (CapName, bool) {
	r, ok := reflected[c]
	return r, ok
}

// Metafunction is a blue function (vm, *OpArg) -> *OpImpl, i.e. a
// compile-time-only value. The concrete signature lives in package
// oparg to avoid an import cycle; here it is held as an opaque
// interface{} and type-asserted by the caller (astframe/doppler), the
// same pattern the capability table uses for ordinary function values.
type Metafunction interface {
	ResolveCapability(name CapName) interface{}
}

// Capabilities is a type's capability table: operator name -> either an
// ordinary function value or a metafunction. A nil entry (absent from the
// map) means "not implemented"; dispatch treats a present-but-declining
// metafunction result (nil OpImpl) identically to an absent one (spec
// §4.2: "NULL is the sentinel meaning try the next candidate").
type Capabilities struct {
	meta  map[CapName]interface{} // upper-case metafunctions
	plain map[CapName]interface{} // lower-case ordinary implementations
}

func NewCapabilities() *Capabilities {
	return &Capabilities{meta: map[CapName]interface{}{}, plain: map[CapName]interface{}{}}
}

// SetPlain registers an ordinary (non-metafunction) implementation. A
// lower-case capability with no explicit metafunction is looked up through
// the same Meta call, which auto-wraps it (see Meta).
func (c *Capabilities) SetPlain(name CapName, fn interface{}) {
	c.plain[name] = fn
}

// SetMeta registers an explicit metafunction for a capability.
func (c *Capabilities) SetMeta(name CapName, fn interface{}) {
	c.meta[name] = fn
}

// Meta returns the metafunction for name, auto-wrapping a plain
// implementation into one that always returns it, matching spec §4.1's
// "lower-case variants are auto-wrapped into a default metafunction".
// ok is false only when neither a metafunction nor a plain implementation
// is present.
func (c *Capabilities) Meta(name CapName) (fn interface{}, wrapped bool, ok bool) {
	if f, present := c.meta[name]; present {
		return f, false, true
	}
	if f, present := c.plain[name]; present {
		return f, true, true
	}
	return nil, false, false
}

// Plain returns the ordinary implementation for name, if any (used by the
// interpreter in interp mode once dispatch has already resolved which
// capability applies and just needs to invoke it).
func (c *Capabilities) Plain(name CapName) (interface{}, bool) {
	f, ok := c.plain[name]
	return f, ok
}
