package instruction

// Register identifies one of the 8 general purpose 16 bit registers.
// The values match the register field encoding for word operations.
type Register uint8

// General purpose registers.
const (
	AX Register = iota
	CX
	DX
	BX
	SP
	BP
	SI
	DI

	RegisterCount
)

var registerNames = [RegisterCount]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}

// byteRegisterNames contains the names of the addressable low and high
// bytes of ax, cx, dx and bx, indexed by offset and register.
var byteRegisterNames = [2][4]string{
	{"al", "cl", "dl", "bl"},
	{"ah", "ch", "dh", "bh"},
}

// String returns the name of the 16 bit register.
func (r Register) String() string {
	if r >= RegisterCount {
		return "unknown"
	}
	return registerNames[r]
}

// RegisterAccess describes an access to a full register or one of its bytes.
type RegisterAccess struct {
	Register Register
	Offset   uint8 // byte offset inside the register, 1 selects the high byte
	Width    uint8 // access width in bytes, 1 or 2
}

// Name returns the assembly name of the accessed register part.
func (a RegisterAccess) Name() string {
	if a.Width == 2 {
		return a.Register.String()
	}
	if a.Register > BX || a.Offset > 1 {
		return "unknown"
	}
	return byteRegisterNames[a.Offset][a.Register]
}
