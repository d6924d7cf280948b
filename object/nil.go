package object

// NilType is the type of the singleton nil value. Representing it as a
// defined byte type (rather than a struct{}) lets Nil be a Go constant,
// comparable with == without an allocation, mirroring how the teacher
// represents its own nil singleton.
type NilType byte

// Nil is the unique empty-list / false value.
const Nil NilType = 0

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }

// TType is the type of the singleton t (canonical true) value.
type TType byte

// T is the canonical true value.
const T TType = 0

func (TType) String() string { return "t" }
func (TType) Type() string   { return "t" }
