package domain

// Fee is a pair of maker/taker rates in basis points of trade cost. The
// resting side of a match pays the maker rate, the incoming side the
// taker rate.
type Fee struct {
	MakerRate int64
	TakerRate int64
}

// Apply returns the fee owed on a trade of the given cost.
func (f Fee) Apply(cost Amount, maker bool) Amount {
	rate := f.TakerRate
	if maker {
		rate = f.MakerRate
	}
	return Amount(int64(cost) * rate / 10000)
}
