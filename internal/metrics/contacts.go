package metrics

import "github.com/san-kum/physim/internal/dynamo"

// Contacts counts particle contacts over all observed steps.
type Contacts struct {
	name  string
	total int
}

func NewContacts() *Contacts {
	return &Contacts{name: "contacts"}
}

func (c *Contacts) Name() string           { return c.name }
func (c *Contacts) Observe(f dynamo.Frame) { c.total += f.Stats.Contacts }
func (c *Contacts) Value() float64         { return float64(c.total) }
func (c *Contacts) Reset()                 { c.total = 0 }

// WallHits counts body-wall contacts, borders included.
type WallHits struct {
	name  string
	total int
}

func NewWallHits() *WallHits {
	return &WallHits{name: "wall_hits"}
}

func (w *WallHits) Name() string           { return w.name }
func (w *WallHits) Observe(f dynamo.Frame) { w.total += f.Stats.WallHits }
func (w *WallHits) Value() float64         { return float64(w.total) }
func (w *WallHits) Reset()                 { w.total = 0 }

// PairTests reports the mean number of narrow-phase tests per step, a
// measure of how well the broad phase prunes.
type PairTests struct {
	name    string
	sum     int
	samples int
}

func NewPairTests() *PairTests {
	return &PairTests{name: "pair_tests"}
}

func (p *PairTests) Name() string {
	return p.name
}

func (p *PairTests) Observe(f dynamo.Frame) {
	p.sum += f.Stats.Tested
	p.samples++
}

func (p *PairTests) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return float64(p.sum) / float64(p.samples)
}

func (p *PairTests) Reset() {
	p.sum = 0
	p.samples = 0
}
