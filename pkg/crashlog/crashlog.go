// Package crashlog extracts code addresses from crash reports printed by
// the V5 brain.
package crashlog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/grafana/regexp"
)

// UserSpaceStart is the lowest address of user program code. Anything
// below belongs to the VEXos firmware and cannot be symbolized against a
// project's artifacts.
const UserSpaceStart = 0x3800000

var ErrNotUserAddress = errors.New("address is below user program space")

// ParseAddress parses a hexadecimal address with or without a 0x prefix.
func ParseAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	digits := s
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}
	if digits == "" {
		return 0, fmt.Errorf("invalid address %q: no hex digits", s)
	}
	addr, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return addr, nil
}

func InUserSpace(addr uint64) bool {
	return addr >= UserSpaceStart
}

// ParseUserAddress is ParseAddress followed by the user space check.
func ParseUserAddress(s string) (uint64, error) {
	addr, err := ParseAddress(s)
	if err != nil {
		return 0, err
	}
	if !InUserSpace(addr) {
		return 0, fmt.Errorf("0x%x: %w (starts at 0x%x)", addr, ErrNotUserAddress, UserSpaceStart)
	}
	return addr, nil
}

// addressPattern accepts 0x prefixed words anywhere. Bare hex is only taken
// where the brain prints it: alone on a line or after a PC or LR label.
var addressPattern = regexp.MustCompile(`(?m)\b0[xX]([0-9a-fA-F]{7,8})\b` +
	`|^[ \t]*([0-9a-fA-F]{7,8})[ \t]*\r?$` +
	`|\b(?:PC|LR)[ \t]*[:=]?[ \t]*(?:0[xX])?([0-9a-fA-F]{7,8})\b`)

// Scan returns the distinct user space addresses found in text, in order
// of first appearance.
func Scan(text string) []uint64 {
	var (
		addrs []uint64
		seen  = make(map[uint64]struct{})
	)
	for _, m := range addressPattern.FindAllStringSubmatch(text, -1) {
		addr, err := strconv.ParseUint(firstGroup(m), 16, 64)
		if err != nil || !InUserSpace(addr) {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		addrs = append(addrs, addr)
	}
	return addrs
}

func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
