package ctxspace

import (
	"fmt"

	"github.com/affine/diffspace/info"
	"github.com/affine/diffspace/transform"
)

type ruleKey[T info.Word] struct {
	row  int
	mask T
}

// Context is one way of rewriting bits: a transformation and the rules learnt under it.
type Context[T info.Word] struct {
	Tran transform.Transformation

	rules []Rule[T]
	index map[ruleKey[T]]int // position of the rule for a source bit
}

// NewContext returns a context without rules.
func NewContext[T info.Word](t transform.Transformation) *Context[T] {
	return &Context[T]{Tran: t}
}

// Rules returns the learnt rules in the order they were created. The slice belongs to c and must not
// be modified; rules change only through Learn and Decode.
func (c *Context[T]) Rules() []Rule[T] { return c.rules }

// find returns the rule whose source is the given bit. It never writes to c.
func (c *Context[T]) find(row int, mask T) (int, bool) {
	if c.index != nil {
		idx, ok := c.index[ruleKey[T]{row, mask}]
		return idx, ok
	}
	for idx, r := range c.rules {
		if r.I.Data[row] == mask {
			return idx, true
		}
	}
	return -1, false
}

func (c *Context[T]) reindex() {
	c.index = make(map[ruleKey[T]]int, len(c.rules))
	for i, r := range c.rules {
		r.I.EachBit(func(row int, mask T) {
			if _, ok := c.index[ruleKey[T]{row, mask}]; !ok {
				c.index[ruleKey[T]{row, mask}] = i
			}
		})
	}
}

// Learn records that every set bit of i becomes interp. A bit seen before keeps only the
// interpretation bits shared with every earlier sample.
func (c *Context[T]) Learn(i, interp info.Info[T]) {
	if c.index == nil {
		c.reindex()
	}
	i.EachBit(func(row int, mask T) {
		if idx, ok := c.index[ruleKey[T]{row, mask}]; ok {
			c.rules[idx].Int.And(interp)
			c.rules[idx].Int.Name = ""
			return
		}
		c.index[ruleKey[T]{row, mask}] = len(c.rules)
		c.rules = append(c.rules, Rule[T]{
			I:   info.Single(i.Height(), row, mask),
			Int: interp.Clone(),
		})
	})
}

// Interpret unites the rules of every set bit of i. The accuracy is the share of set bits that had a
// rule. It reports false when nothing matched. Interpret does not modify c.
func (c *Context[T]) Interpret(i info.Info[T]) (info.Info[T], float32, bool) {
	if len(c.rules) == 0 {
		return info.Info[T]{}, 0, false
	}

	var bits, matched int
	retVal := info.New[T](i.Height(), "")
	i.EachBit(func(row int, mask T) {
		bits++
		idx, ok := c.find(row, mask)
		if !ok {
			return
		}
		retVal.Or(c.rules[idx].Int)
		matched++
	})
	if bits == 0 || matched == 0 {
		return info.Info[T]{}, 0, false
	}
	return retVal, float32(matched) / float32(bits), true
}

func (c *Context[T]) String() string {
	return fmt.Sprintf("context: r cnt %d, t %v", len(c.rules), c.Tran)
}
