// Package shop lists the items gold can buy.
package shop

import "slices"

// Effect is what buying an item does.
type Effect string

const (
	EffectTitle       Effect = "title"        // grants Item.Title
	EffectStat        Effect = "stat"         // raises Item.Stat by one
	EffectCalmMonster Effect = "calm-monster" // lowers the procrastination meter by Item.Amount
)

// Item is a purchasable good.
type Item struct {
	ID     string
	Name   string
	Price  int
	Effect Effect
	Title  string
	Stat   string
	Amount float64
}

// Catalog is a read-only item lookup.
type Catalog struct {
	items []Item
}

// NewCatalog wraps items.
func NewCatalog(items []Item) *Catalog {
	return &Catalog{items: items}
}

// DefaultCatalog returns the built-in shop.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Item{
		{ID: "herbal-tea", Name: "Herbal Tea", Price: 15, Effect: EffectCalmMonster, Amount: 2},
		{ID: "lullaby", Name: "Monster Lullaby", Price: 40, Effect: EffectCalmMonster, Amount: 6},
		{ID: "logic-tome", Name: "Tome of Logic", Price: 120, Effect: EffectStat, Stat: "intelligence"},
		{ID: "sage-scroll", Name: "Sage's Scroll", Price: 120, Effect: EffectStat, Stat: "wisdom"},
		{ID: "title-night-scholar", Name: "Title: Night Scholar", Price: 60, Effect: EffectTitle, Title: "Night Scholar"},
	})
}

// Get returns the item with the given ID.
func (c *Catalog) Get(id string) (Item, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// All returns every item in catalog order.
func (c *Catalog) All() []Item {
	return slices.Clone(c.items)
}
