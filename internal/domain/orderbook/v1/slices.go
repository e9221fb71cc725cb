package orderbookv1

// Levels represents a slice of Level pointers, one per occupied price.
type Levels []*Level

// ByBestAsk sorts Levels by the best ask price (lowest price first).
type ByBestAsk struct {
	Levels
}

func (a ByBestAsk) Len() int {
	return len(a.Levels)
}

func (a ByBestAsk) Less(i, j int) bool {
	return a.Levels[i].Price < a.Levels[j].Price
}

func (a ByBestAsk) Swap(i, j int) {
	a.Levels[i], a.Levels[j] = a.Levels[j], a.Levels[i]
}

// ByBestBid sorts Levels by the best bid price (highest price first).
type ByBestBid struct {
	Levels
}

func (a ByBestBid) Len() int {
	return len(a.Levels)
}
func (a ByBestBid) Less(i, j int) bool {
	return a.Levels[i].Price > a.Levels[j].Price
}
func (a ByBestBid) Swap(i, j int) {
	a.Levels[i], a.Levels[j] = a.Levels[j], a.Levels[i]
}

// Orders is a slice of Order pointers.
type Orders []*Order

func (o Orders) Len() int           { return len(o) }
func (o Orders) Swap(i, j int)      { o[i], o[j] = o[j], o[i] }
func (o Orders) Less(i, j int) bool { return o[i].Sequence < o[j].Sequence }
