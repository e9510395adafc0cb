package wallet

import (
	"slices"
	"sync"

	"github.com/mtlprog/walletpage/internal/domain"
)

// Memo caches pipeline results between renders of the same wallet.
// Prepared balances are keyed by the balances revision; formatted balances by
// both the balances and the prices revision. Callers bump a revision whenever
// the corresponding input changes.
type Memo struct {
	mu sync.Mutex

	balancesRev uint64
	prepared    []domain.AnnotatedBalance
	hasPrepared bool

	pricesRev    uint64
	formatted    []domain.FormattedBalance
	hasFormatted bool

	hits   int
	misses int
}

// NewMemo creates an empty Memo.
func NewMemo() *Memo {
	return &Memo{}
}

// Render returns the pipeline output, recomputing only the stages whose inputs changed.
// The returned slice is a copy the caller may modify without affecting later renders.
func (m *Memo) Render(balancesRev uint64, balances []domain.Balance, pricesRev uint64, prices domain.PriceTable) []domain.FormattedBalance {
	m.mu.Lock()
	defer m.mu.Unlock()

	balancesChanged := !m.hasPrepared || m.balancesRev != balancesRev
	if balancesChanged {
		m.prepared = Prepare(balances)
		m.balancesRev = balancesRev
		m.hasPrepared = true
	}

	if !balancesChanged && m.hasFormatted && m.pricesRev == pricesRev {
		m.hits++
		return slices.Clone(m.formatted)
	}

	m.misses++
	m.formatted = Format(m.prepared, prices)
	m.pricesRev = pricesRev
	m.hasFormatted = true
	return slices.Clone(m.formatted)
}

// Stats returns the number of cached and recomputed renders.
func (m *Memo) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}
