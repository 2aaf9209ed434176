package storage

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const idFragmentLength = 13 // longest base36 rendering of a uint64

// GenerateID concatenates two independent random base36 fragments. Existing
// keys are not consulted; collisions are considered negligible.
func GenerateID() string {
	return idFragment() + idFragment()
}

func idFragment() string {
	u := uuid.New()
	n := binary.BigEndian.Uint64(u[:8]) ^ binary.BigEndian.Uint64(u[8:])
	s := strconv.FormatUint(n, 36)
	if len(s) < idFragmentLength {
		s = strings.Repeat("0", idFragmentLength-len(s)) + s
	}
	return s
}
