package cpu6809

// Condition code register flag bits (spec §3: Entire, FIRQ-mask, Half-carry,
// IRQ-mask, Negative, Zero, oVerflow, Carry).
const (
	flagC uint8 = 1 << iota // Carry
	flagV                   // Overflow
	flagZ                   // Zero
	flagN                   // Negative
	flagI                   // IRQ mask
	flagH                   // Half-carry
	flagF                   // FIRQ mask
	flagE                   // Entire
)

// Canonical flag helpers. Most opcodes update flags through exactly one of
// these. Some do not: CLR sets its flags inline, and COM, INC, DEC and DAA
// call a helper and then adjust C or V inline; MUL sets Z and C inline.

// setFlagsArithmetic sets NZVC (and H for byte-width additions) after
// ADD/ADC/SUB/SBC/NEG/CMP.
func (c *CPU) setFlagsArithmetic(a, b, result uint32, sz Size, isAdd bool) {
	msb := sz.MSB()
	mask := sz.Mask()
	r := result & mask
	av := a & mask
	bv := b & mask

	c.CC &^= flagN | flagZ | flagV | flagC

	if r == 0 {
		c.CC |= flagZ
	}
	if r&msb != 0 {
		c.CC |= flagN
	}

	if isAdd {
		// Overflow: both operands same sign, result a different sign.
		if (av^r)&(bv^r)&msb != 0 {
			c.CC |= flagV
		}
		if result&(msb<<1) != 0 {
			c.CC |= flagC
		}
		if sz == Byte {
			c.CC &^= flagH
			if (av^bv^r)&0x10 != 0 {
				c.CC |= flagH
			}
		}
	} else {
		// Overflow: operands differ in sign, result differs from a (the
		// minuend/dst).
		if (av^bv)&(r^av)&msb != 0 {
			c.CC |= flagV
		}
		// Borrow: unsigned b > a.
		if bv > av {
			c.CC |= flagC
		}
	}
}

// setFlagsLogical sets NZ and clears V after AND/OR/EOR/BIT/LD/ST/TST. C is
// left unchanged, matching the 6809 datasheet (unlike the 6800, whose TST
// additionally clears C — a documented cross-family difference, see
// cpu6800).
func (c *CPU) setFlagsLogical(result uint32, sz Size) {
	c.CC &^= flagN | flagZ | flagV
	if result&sz.Mask() == 0 {
		c.CC |= flagZ
	}
	if result&sz.MSB() != 0 {
		c.CC |= flagN
	}
}

// setFlagsShiftLeft sets NZC after ASL/ROL; V = N xor C, computed from the
// flags just set.
func (c *CPU) setFlagsShiftLeft(result uint32, carryOut bool, sz Size) {
	c.CC &^= flagN | flagZ | flagV | flagC
	if result&sz.Mask() == 0 {
		c.CC |= flagZ
	}
	n := result&sz.MSB() != 0
	if n {
		c.CC |= flagN
	}
	if carryOut {
		c.CC |= flagC
	}
	if n != carryOut {
		c.CC |= flagV
	}
}

// setFlagsShiftRight sets NZC after LSR/ASR/ROR. V is never modified (spec
// invariant: "Right shifts ... never modify V").
func (c *CPU) setFlagsShiftRight(result uint32, carryOut bool, sz Size) {
	c.CC &^= flagN | flagZ | flagC
	if result&sz.Mask() == 0 {
		c.CC |= flagZ
	}
	if result&sz.MSB() != 0 {
		c.CC |= flagN
	}
	if carryOut {
		c.CC |= flagC
	}
}

// testCondition evaluates a 6809 branch condition against the current CC.
func (c *CPU) testCondition(cond uint8) bool {
	n := c.CC&flagN != 0
	z := c.CC&flagZ != 0
	v := c.CC&flagV != 0
	cy := c.CC&flagC != 0
	switch cond {
	case condRA: // BRA
		return true
	case condRN: // BRN
		return false
	case condHI:
		return !cy && !z
	case condLS:
		return cy || z
	case condCC: // HS
		return !cy
	case condCS: // LO
		return cy
	case condNE:
		return !z
	case condEQ:
		return z
	case condVC:
		return !v
	case condVS:
		return v
	case condPL:
		return !n
	case condMI:
		return n
	case condGE:
		return n == v
	case condLT:
		return n != v
	case condGT:
		return !z && n == v
	case condLE:
		return z || n != v
	}
	return false
}

// Branch condition codes, matching the low nibble of the 6809 branch opcode.
const (
	condRA = iota
	condRN
	condHI
	condLS
	condCC
	condCS
	condNE
	condEQ
	condVC
	condVS
	condPL
	condMI
	condGE
	condLT
	condGT
	condLE
)
