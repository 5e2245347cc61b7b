package planner

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mr1hm/go-saferoute/internal/models"
)

var (
	ErrInvalidBudget = errors.New("budget must be a non-negative whole number")
	ErrNoCandidates  = errors.New("no stops found")
)

// NoCandidatesError means nothing in the catalog fits the request. It is an
// expected outcome and is reported to users as such.
type NoCandidatesError struct {
	Source      string
	Destination string
	Interest    string
	Budget      int
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("No stops matching your interest %q and budget (under ₹%s) were found between %s and %s.",
		models.Capitalize(e.Interest), groupThousands(e.Budget), e.Source, e.Destination)
}

func (e *NoCandidatesError) Is(target error) bool {
	return target == ErrNoCandidates
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
