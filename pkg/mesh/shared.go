package mesh

// SharedSlots returns, for every index slot i, the slots whose referenced
// positions are exactly equal to the one referenced by i (i included).
//
// The comparison is exhaustive, O(n²) in the index count. That is fine for
// a 36-slot box and nothing bigger; use it only at construction time.
func SharedSlots(indices []uint32, positions []float32) [][]int {
	groups := make([][]int, len(indices))
	for i, a := range indices {
		for j, b := range indices {
			if samePosition(positions, a, b) {
				groups[i] = append(groups[i], j)
			}
		}
	}
	return groups
}

func samePosition(positions []float32, a, b uint32) bool {
	return positions[3*a] == positions[3*b] &&
		positions[3*a+1] == positions[3*b+1] &&
		positions[3*a+2] == positions[3*b+2]
}

// AssignCorners gives every vertex a corner id: vertices whose positions
// coincide get the same id. Ids are dense and follow first use in the
// index buffer; vertices no slot references get their own id.
func AssignCorners(indices []uint32, positions []float32, vertexCount int) []int {
	corners := make([]int, vertexCount)
	for v := range corners {
		corners[v] = -1
	}
	next := 0
	for i, group := range SharedSlots(indices, positions) {
		v := indices[i]
		if corners[v] >= 0 {
			continue
		}
		id := -1
		for _, j := range group {
			if c := corners[indices[j]]; c >= 0 {
				id = c
				break
			}
		}
		if id < 0 {
			id = next
			next++
		}
		for _, j := range group {
			corners[indices[j]] = id
		}
	}
	for v := range corners {
		if corners[v] < 0 {
			corners[v] = next
			next++
		}
	}
	return corners
}

// SharedSlots returns the index slots that reference the same geometric
// corner as slot, slot included. It answers from corner ids, so the result
// does not change when vertices are displaced.
func (m *Mesh) SharedSlots(slot int) []int {
	if slot < 0 || slot >= len(m.Indices) {
		return nil
	}
	corner := m.cornerOf(int(m.Indices[slot]))
	var slots []int
	for j, idx := range m.Indices {
		if m.cornerOf(int(idx)) == corner {
			slots = append(slots, j)
		}
	}
	return slots
}
