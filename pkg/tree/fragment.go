package tree

// DefaultMinGap is the smallest unchanged stretch ApplyChanges keeps as a
// fragment. Shorter stretches are cheaper to re-parse than to align.
const DefaultMinGap = 128

// Fragment is a piece of an old tree that is still valid for the range
// [From, To) of a new document. Offset maps new positions to old ones:
// old = new + Offset.
type Fragment struct {
	From, To int
	Tree     *Tree
	Offset   int

	// OpenStart and OpenEnd report whether the fragment was cut by an edit
	// at its start or end.
	OpenStart bool
	OpenEnd   bool
}

// AddTree records a freshly parsed tree as a fragment, keeping any earlier
// fragments that lie beyond its end. Partial marks a tree that stopped
// before the end of the document.
func AddTree(t *Tree, fragments []Fragment, partial bool) []Fragment {
	result := []Fragment{{From: 0, To: t.length, Tree: t, OpenEnd: partial}}
	for _, frag := range fragments {
		if frag.From > t.length {
			result = append(result, frag)
		}
	}
	return result
}

// ApplyChanges cuts the fragments around the changed ranges, which must be
// sorted and non-overlapping. Unchanged stretches shorter than minGap are
// dropped.
func ApplyChanges(fragments []Fragment, changes []ChangedRange, minGap int) []Fragment {
	if len(changes) == 0 {
		return fragments
	}
	var result []Fragment
	fragIdx := 0
	pos, off := 0, 0
	for changeIdx := 0; ; changeIdx++ {
		var next *ChangedRange
		nextPos := int(^uint(0) >> 1)
		if changeIdx < len(changes) {
			next = &changes[changeIdx]
			nextPos = next.FromA
		}
		if nextPos-pos >= minGap {
			for fragIdx < len(fragments) && fragments[fragIdx].From < nextPos {
				frag := fragments[fragIdx]
				keep := true
				if pos >= frag.From || nextPos <= frag.To || off != 0 {
					from := max(frag.From, pos) - off
					to := min(frag.To, nextPos) - off
					if from >= to {
						keep = false
					} else {
						frag = Fragment{
							From:      from,
							To:        to,
							Tree:      frag.Tree,
							Offset:    frag.Offset + off,
							OpenStart: changeIdx > 0,
							OpenEnd:   next != nil,
						}
					}
				}
				if keep {
					result = append(result, frag)
				}
				if fragments[fragIdx].To > nextPos {
					break
				}
				fragIdx++
			}
		}
		if next == nil {
			break
		}
		pos = next.ToA
		off = next.ToA - next.ToB
	}
	return result
}
