// License: GPLv3 Copyright: 2026, The vtdrive authors

package tty

import (
	"fmt"
	"sort"
)

var _ = fmt.Print

// Rate encodings from the Linux asm-generic termbits ABI
const (
	CBAUD   = 0o010017
	BOTHER  = 0o010000
	IBSHIFT = 16
)

type BaudRate struct {
	Speed uint32
	Bits  uint32
}

var baud_table = []BaudRate{
	{0, 0o000000},
	{50, 0o000001},
	{75, 0o000002},
	{110, 0o000003},
	{134, 0o000004},
	{150, 0o000005},
	{200, 0o000006},
	{300, 0o000007},
	{600, 0o000010},
	{1200, 0o000011},
	{1800, 0o000012},
	{2400, 0o000013},
	{4800, 0o000014},
	{9600, 0o000015},
	{19200, 0o000016},
	{38400, 0o000017},
	{57600, 0o010001},
	{115200, 0o010002},
	{230400, 0o010003},
	{460800, 0o010004},
	{500000, 0o010005},
	{576000, 0o010006},
	{921600, 0o010007},
	{1000000, 0o010010},
	{1152000, 0o010011},
	{1500000, 0o010012},
	{2000000, 0o010013},
	{2500000, 0o010014},
	{3000000, 0o010015},
	{3500000, 0o010016},
	{4000000, 0o010017},
}

func StandardRates() []BaudRate {
	return append([]BaudRate(nil), baud_table...)
}

// StandardRate returns the bit pattern for speed if it is exactly one of the
// standard rates.
func StandardRate(speed uint32) (bits uint32, found bool) {
	i := sort.Search(len(baud_table), func(i int) bool { return baud_table[i].Speed >= speed })
	if i < len(baud_table) && baud_table[i].Speed == speed {
		return baud_table[i].Bits, true
	}
	return 0, false
}

func abs_diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// closest table entry within tolerance, ties go to the lower rate
func match_rate(speed, tolerance uint32) (bits uint32, found bool) {
	best := uint32(0)
	for _, r := range baud_table {
		d := abs_diff(speed, r.Speed)
		if d > tolerance {
			continue
		}
		if !found || d < best {
			bits, best, found = r.Bits, d, true
		}
	}
	return
}

// ResolveBaud encodes speed into the rate bits of s.Cflag. Output is always
// encoded; input is encoded into the upper half only when the state already
// carries a split input rate, otherwise the kernel uses the output rate for
// input as well. The raw speed fields are always written, they are only
// consulted when BOTHER is set. Speed 0 leaves s untouched, B0 would hang
// up the line.
func ResolveBaud(s *LineState, speed uint32) {
	if speed == 0 {
		return
	}
	otolerance, itolerance := speed/50, speed/50
	if s.Cflag&CBAUD == BOTHER {
		otolerance = 0
	}
	input_bits := (s.Cflag >> IBSHIFT) & CBAUD
	if input_bits == BOTHER {
		itolerance = 0
	}
	split_input := input_bits != 0

	s.Cflag &^= CBAUD
	if bits, found := match_rate(speed, otolerance); found {
		s.Cflag |= bits
	} else {
		s.Cflag |= BOTHER
	}
	if split_input {
		s.Cflag &^= CBAUD << IBSHIFT
		if bits, found := match_rate(speed, itolerance); found {
			s.Cflag |= bits << IBSHIFT
		} else {
			s.Cflag |= BOTHER << IBSHIFT
		}
	}
	s.Ispeed = speed
	s.Ospeed = speed
}

func speed_for_bits(bits, raw uint32) uint32 {
	if bits == BOTHER {
		return raw
	}
	for _, r := range baud_table {
		if r.Bits == bits {
			return r.Speed
		}
	}
	return raw
}

// OutputSpeed decodes the effective output rate of s
func OutputSpeed(s *LineState) uint32 {
	return speed_for_bits(s.Cflag&CBAUD, s.Ospeed)
}

// InputSpeed decodes the effective input rate of s, which is the output rate
// unless a split input rate is present.
func InputSpeed(s *LineState) uint32 {
	bits := (s.Cflag >> IBSHIFT) & CBAUD
	if bits == 0 {
		return OutputSpeed(s)
	}
	return speed_for_bits(bits, s.Ispeed)
}
