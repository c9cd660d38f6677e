package progress

// Counter names a ledger counter.
type Counter string

const (
	CounterFuturesGenerated Counter = "futuresGenerated"
	CounterSocialShares     Counter = "socialShares"
)

// Mutation is a requested counter change. Core code emits mutations; only
// the storage layer applies them.
type Mutation struct {
	Counter Counter `json:"counter"`
	Delta   int     `json:"delta"`
}

// FutureGenerated is emitted once per successful generate request.
func FutureGenerated() Mutation {
	return Mutation{Counter: CounterFuturesGenerated, Delta: 1}
}

// Shared is emitted once per social share.
func Shared() Mutation {
	return Mutation{Counter: CounterSocialShares, Delta: 1}
}
