package libspy

// FQN constants for the concrete, per-type arithmetic/comparison
// operator functions that redshift must resolve a BinOp/Compare node to
// (spec §4.5 invariant iii). i8 and bool follow the same
// operator::<type>_<op> naming scheme as i32/f64; there is no code
// generator behind any of these, each is just a distinct libspy entry
// point a redshifted node's ResolvedFQN can name.
const (
	FQNI32Add = "operator::i32_add"
	FQNI32Sub = "operator::i32_sub"
	FQNI32Mul = "operator::i32_mul"
	FQNI32Neg = "operator::i32_neg"
	FQNI32Eq  = "operator::i32_eq"
	FQNI32Lt  = "operator::i32_lt"

	FQNF64Add = "operator::f64_add"
	FQNF64Sub = "operator::f64_sub"
	FQNF64Mul = "operator::f64_mul"
	FQNF64Neg = "operator::f64_neg"
	FQNF64Eq  = "operator::f64_eq"
	FQNF64Lt  = "operator::f64_lt"

	FQNI8Add = "operator::i8_add"
	FQNI8Sub = "operator::i8_sub"
	FQNI8Mul = "operator::i8_mul"
	FQNI8Neg = "operator::i8_neg"
	FQNI8Eq  = "operator::i8_eq"
	FQNI8Lt  = "operator::i8_lt"

	FQNBoolEq = "operator::bool_eq"

	FQNStrAddOp = "operator::str_add" // operator-namespace name for
	// string concatenation. Redshift does not use it: a residual str `+`
	// BinOp names the libspy entry point str::add (FQNStrAdd in
	// libspy.go) as its ResolvedFQN.
)

func I32Add(a, b int32) int32 { return a + b }
func I32Sub(a, b int32) int32 { return a - b }
func I32Mul(a, b int32) int32 { return a * b }
func I32Neg(a int32) int32    { return -a }
func I32Eq(a, b int32) bool   { return a == b }
func I32Lt(a, b int32) bool   { return a < b }

func F64Add(a, b float64) float64 { return a + b }
func F64Sub(a, b float64) float64 { return a - b }
func F64Mul(a, b float64) float64 { return a * b }
func F64Neg(a float64) float64    { return -a }
func F64Eq(a, b float64) bool     { return a == b }
func F64Lt(a, b float64) bool     { return a < b }

// I8 arithmetic wraps on overflow the same way Go's int8 does, matching
// the checked-mode emitter's plain `int8_t` representation (spec §3.2).
func I8Add(a, b int8) int8 { return a + b }
func I8Sub(a, b int8) int8 { return a - b }
func I8Mul(a, b int8) int8 { return a * b }
func I8Neg(a int8) int8    { return -a }
func I8Eq(a, b int8) bool  { return a == b }
func I8Lt(a, b int8) bool  { return a < b }

func BoolEq(a, b bool) bool { return a == b }
