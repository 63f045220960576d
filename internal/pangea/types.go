package pangea

import "encoding/json"

// ToBlock selects how far a stream request should read. Exactly one of
// Block or Subscribe is meaningful: Subscribe=true means "never stop,
// push new events as they land" (used by the indexer's listenEvents); otherwise Block
// is the inclusive upper bound of a bounded catch-up batch.
type ToBlock struct {
	Block     int64
	Subscribe bool
}

// Exact builds a bounded ToBlock ending at block.
func Exact(block int64) ToBlock {
	return ToBlock{Block: block}
}

// Subscribe builds an unbounded, live-tailing ToBlock.
func Subscribe() ToBlock {
	return ToBlock{Subscribe: true}
}

// GetSparkOrderRequest is the frame sent to open a Spark order-event
// stream: a block range for one or more markets on one or more chains.
type GetSparkOrderRequest struct {
	FromBlock    int64    `json:"from_block"`
	ToBlock      ToBlock  `json:"to_block"`
	MarketIDIn   []string `json:"market_id__in"`
	Chains       []uint64 `json:"chains"`
	Format       string   `json:"format"`
}

func (r GetSparkOrderRequest) MarshalJSON() ([]byte, error) {
	type toBlockWire struct {
		Exact     *int64 `json:"Exact,omitempty"`
		Subscribe *bool  `json:"Subscribe,omitempty"`
	}
	type wire struct {
		FromBlock  int64       `json:"from_block"`
		ToBlock    toBlockWire `json:"to_block"`
		MarketIDIn []string    `json:"market_id__in"`
		Chains     []uint64    `json:"chains"`
		Format     string      `json:"format"`
	}

	w := wire{
		FromBlock:  r.FromBlock,
		MarketIDIn: r.MarketIDIn,
		Chains:     r.Chains,
		Format:     r.Format,
	}
	if r.ToBlock.Subscribe {
		t := true
		w.ToBlock.Subscribe = &t
	} else {
		b := r.ToBlock.Block
		w.ToBlock.Exact = &b
	}

	return json.Marshal(w)
}
