package gate

import (
	"fmt"
	"sort"
)

// Collection is the token id range [Start, End) reserved for a batch.
type Collection struct {
	Start  uint64 `json:"start"`
	End    uint64 `json:"end"`
	Minted uint64 `json:"minted"`
}

func (c Collection) Capacity() uint64 {
	return c.End - c.Start
}

func (c Collection) SoldOut() bool {
	return c.Minted >= c.Capacity()
}

func (c Collection) Contains(tokenId uint64) bool {
	return tokenId >= c.Start && tokenId < c.End
}

// Registry keeps the collections sorted by Start with no overlaps,
// only the top collection may have its End amended.
type Registry struct {
	collections []Collection
}

func NewRegistry() *Registry {
	return &Registry{}
}

// LoadRegistry rebuilds a registry from persisted collections, in index order.
func LoadRegistry(collections []*Collection) (*Registry, error) {
	r := NewRegistry()
	for i, c := range collections {
		if c.End <= c.Start || c.Minted > c.Capacity() {
			return nil, fmt.Errorf("corrupted collection %d %v", i, *c)
		}
		if n := len(r.collections); n > 0 && r.collections[n-1].End > c.Start {
			return nil, fmt.Errorf("corrupted collection %d %v overlaps %v", i, *c, r.collections[n-1])
		}
		r.collections = append(r.collections, *c)
	}
	return r, nil
}

func (r *Registry) Clone() *Registry {
	collections := make([]Collection, len(r.collections))
	copy(collections, r.collections)
	return &Registry{collections: collections}
}

func (r *Registry) Len() int {
	return len(r.collections)
}

// AddCollection appends [start, end) and returns its index. New ranges may
// abut the top collection but never start below its End.
func (r *Registry) AddCollection(start, end uint64) (uint64, error) {
	if end <= start {
		return 0, fmt.Errorf("%w: [%d, %d)", ErrRangeInvalid, start, end)
	}
	if n := len(r.collections); n > 0 {
		top := r.collections[n-1]
		if start < top.End {
			return 0, fmt.Errorf("%w: [%d, %d) with [%d, %d)", ErrRangeOverlap, start, end, top.Start, top.End)
		}
	}
	r.collections = append(r.collections, Collection{Start: start, End: end})
	return uint64(len(r.collections) - 1), nil
}

func (r *Registry) AmendTopCollection(end uint64) (uint64, error) {
	n := len(r.collections)
	if n == 0 {
		return 0, ErrNoCollection
	}
	top := &r.collections[n-1]
	if end <= top.Start {
		return 0, fmt.Errorf("%w: [%d, %d)", ErrRangeInvalid, top.Start, end)
	}
	if end < top.Start+top.Minted {
		return 0, fmt.Errorf("%w: %d below %d", ErrSupplyViolation, end, top.Start+top.Minted)
	}
	top.End = end
	return uint64(n - 1), nil
}

// AllocateSlot assigns the next token id of the collection at index.
func (r *Registry) AllocateSlot(index uint64) (uint64, error) {
	if index >= uint64(len(r.collections)) {
		return 0, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	c := &r.collections[index]
	if c.SoldOut() {
		return 0, ErrSoldOut
	}
	id := c.Start + c.Minted
	c.Minted += 1
	return id, nil
}

func (r *Registry) Collection(index uint64) (Collection, error) {
	if index >= uint64(len(r.collections)) {
		return Collection{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return r.collections[index], nil
}

func (r *Registry) Collections() []Collection {
	collections := make([]Collection, len(r.collections))
	copy(collections, r.collections)
	return collections
}

// CollectionOf finds the collection whose range holds tokenId.
func (r *Registry) CollectionOf(tokenId uint64) (uint64, Collection, bool) {
	i := sort.Search(len(r.collections), func(i int) bool {
		return r.collections[i].Start > tokenId
	})
	if i == 0 {
		return 0, Collection{}, false
	}
	c := r.collections[i-1]
	if !c.Contains(tokenId) {
		return 0, Collection{}, false
	}
	return uint64(i - 1), c, true
}

func (r *Registry) TotalSupply() uint64 {
	var total uint64
	for _, c := range r.collections {
		total += c.Minted
	}
	return total
}
