package dcm

import "github.com/affine/diffspace/bitvec"

// Item is a remembered code and the number of times it was seen again after being stored.
type Item struct {
	Code bitvec.Vector
	Hits uint32
}

// Context is one cell of the map. Memory holds unique codes in insertion order.
type Context struct {
	Memory []Item
}

// Covariance is the hits weighted sum of correlations between code and every remembered code.
// When the sum is zero floor is returned so that every cell keeps a nonzero selection weight.
// Correlations at or below threshold count as zero when threshold is positive.
func (c *Context) Covariance(code bitvec.Vector, threshold, floor float32) float32 {
	var sum float32
	for _, item := range c.Memory {
		corr := bitvec.Correlation(item.Code, code)
		if threshold > 0 && corr <= threshold {
			continue
		}
		sum += float32(item.Hits) * corr
	}
	if sum == 0 {
		return floor
	}
	return sum
}

// Update strengthens code if it is remembered, otherwise stores it with zero hits.
// A full memory first forgets its weakest item; the earliest one wins ties.
func (c *Context) Update(code bitvec.Vector, capacity int) {
	weakest := -1
	for i := range c.Memory {
		if c.Memory[i].Code == code {
			c.Memory[i].Hits++
			return
		}
		if weakest < 0 || c.Memory[i].Hits < c.Memory[weakest].Hits {
			weakest = i
		}
	}

	if len(c.Memory) >= capacity && weakest >= 0 {
		c.Memory = append(c.Memory[:weakest], c.Memory[weakest+1:]...)
	}
	c.Memory = append(c.Memory, Item{Code: code})
}

// Consolidate forgets every item with minHits hits or fewer.
func (c *Context) Consolidate(minHits uint32) {
	kept := c.Memory[:0]
	for _, item := range c.Memory {
		if item.Hits > minHits {
			kept = append(kept, item)
		}
	}
	for i := len(kept); i < len(c.Memory); i++ {
		c.Memory[i] = Item{}
	}
	c.Memory = kept
}

// Strongest returns the item with the most hits, the earliest on ties.
func (c *Context) Strongest() (Item, bool) {
	if len(c.Memory) == 0 {
		return Item{}, false
	}
	best := 0
	for i := 1; i < len(c.Memory); i++ {
		if c.Memory[i].Hits > c.Memory[best].Hits {
			best = i
		}
	}
	return c.Memory[best], true
}

func (c *Context) Len() int { return len(c.Memory) }
