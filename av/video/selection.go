package video

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opd-ai/vidstego/limits"
)

// Selection is the ordered list of frame indices that carry the payload.
// Order is significant: extraction must replay the order used for embedding.
type Selection []int

// All returns every frame index of an n-frame video in order.
func All(n int) Selection {
	sel := make(Selection, n)
	for i := range sel {
		sel[i] = i
	}
	return sel
}

// Validate checks that the selection is non-empty, in range for a video of
// frameCount frames, and free of duplicates.
func (s Selection) Validate(frameCount int) error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no frames selected", ErrInvalidSelection)
	}

	seen := make(map[int]struct{}, len(s))
	for pos, idx := range s {
		if idx < 0 || idx >= frameCount {
			return fmt.Errorf("%w: index %d at position %d outside [0, %d)", ErrInvalidSelection, idx, pos, frameCount)
		}
		if _, dup := seen[idx]; dup {
			return fmt.Errorf("%w: duplicate index %d at position %d", ErrInvalidSelection, idx, pos)
		}
		seen[idx] = struct{}{}
	}
	return nil
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	return append(Selection(nil), s...)
}

// String renders the selection as comma separated indices, e.g. "2,3,4".
func (s Selection) String() string {
	parts := make([]string, len(s))
	for i, idx := range s {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}

// ParseSelection parses an operator frame spec such as "2,3,4" or "1-48" or
// "1,4,6-9,12". Commas and whitespace both separate items. Ranges are
// inclusive and expand in ascending order; the order of items is kept.
// Duplicates are rejected.
func ParseSelection(spec string) (Selection, error) {
	fields := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty frame spec", ErrInvalidSelection)
	}

	var sel Selection
	seen := make(map[int]struct{})
	add := func(idx int) error {
		if _, dup := seen[idx]; dup {
			return fmt.Errorf("%w: frame %d listed twice", ErrInvalidSelection, idx)
		}
		seen[idx] = struct{}{}
		sel = append(sel, idx)
		return nil
	}

	for _, field := range fields {
		lo, hi, isRange := strings.Cut(field, "-")
		if !isRange {
			idx, err := parseIndex(field)
			if err != nil {
				return nil, err
			}
			if err := add(idx); err != nil {
				return nil, err
			}
			continue
		}

		a, err := parseIndex(lo)
		if err != nil {
			return nil, err
		}
		b, err := parseIndex(hi)
		if err != nil {
			return nil, err
		}
		if a > b {
			a, b = b, a
		}
		if err := limits.ValidateIndexCount(len(sel) + b - a + 1); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		for idx := a; idx <= b; idx++ {
			if err := add(idx); err != nil {
				return nil, err
			}
		}
	}
	return sel, nil
}

func parseIndex(s string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("%w: %q is not a frame number", ErrInvalidSelection, s)
	}
	return idx, nil
}
