package cache

// nilSlot marks the absence of a neighbour (or an empty free list).
const nilSlot = -1

// slot is one arena cell. Live slots are linked into the recency list;
// reclaimed slots are chained through next on the free list.
type slot[V any] struct {
	key int
	val V

	prev int
	next int
}

// recency is the arena-backed doubly linked list that orders entries from
// least recently used (head) to most recently used (tail).
// Slot indices are stable for the lifetime of an entry, so the key index
// can store them instead of pointers.
//
// Not safe for concurrent use; the owning Cache guards it.
type recency[V any] struct {
	slots []slot[V]
	head  int // LRU
	tail  int // MRU
	free  int // head of the free list
	n     int // number of linked entries
}

// init prepares an empty list. hint sizes the initial arena allocation.
func (r *recency[V]) init(hint int) {
	r.slots = make([]slot[V], 0, hint)
	r.head, r.tail, r.free = nilSlot, nilSlot, nilSlot
	r.n = 0
}

// len returns the number of linked entries.
func (r *recency[V]) len() int { return r.n }

// front returns the LRU slot index, or nilSlot if empty.
func (r *recency[V]) front() int { return r.head }

// pushBack stores (key, v) in a free or fresh slot, links it at MRU,
// and returns its index in O(1) amortized.
func (r *recency[V]) pushBack(key int, v V) int {
	var i int
	if r.free != nilSlot {
		i = r.free
		r.free = r.slots[i].next
		r.slots[i] = slot[V]{key: key, val: v}
	} else {
		i = len(r.slots)
		r.slots = append(r.slots, slot[V]{key: key, val: v})
	}
	r.linkBack(i)
	r.n++
	return i
}

// moveToBack promotes slot i to MRU in O(1).
func (r *recency[V]) moveToBack(i int) {
	if i == r.tail {
		return
	}
	r.unlink(i)
	r.linkBack(i)
}

// remove unlinks slot i, reclaims it, and returns the entry it held.
func (r *recency[V]) remove(i int) (int, V) {
	r.unlink(i)
	s := &r.slots[i]
	key, v := s.key, s.val

	// Drop the value so the arena does not pin it.
	var zero V
	s.val = zero
	s.prev = nilSlot
	s.next = r.free
	r.free = i
	r.n--
	return key, v
}

// keys appends resident keys to dst in LRU -> MRU order.
func (r *recency[V]) keys(dst []int) []int {
	for i := r.head; i != nilSlot; i = r.slots[i].next {
		dst = append(dst, r.slots[i].key)
	}
	return dst
}

// -------------------- links --------------------

func (r *recency[V]) linkBack(i int) {
	s := &r.slots[i]
	s.prev = r.tail
	s.next = nilSlot
	if r.tail != nilSlot {
		r.slots[r.tail].next = i
	}
	r.tail = i
	if r.head == nilSlot {
		r.head = i
	}
}

func (r *recency[V]) unlink(i int) {
	s := &r.slots[i]
	if s.prev != nilSlot {
		r.slots[s.prev].next = s.next
	} else {
		r.head = s.next
	}
	if s.next != nilSlot {
		r.slots[s.next].prev = s.prev
	} else {
		r.tail = s.prev
	}
	s.prev, s.next = nilSlot, nilSlot
}
