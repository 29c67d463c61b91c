package bank

import "sync"

// Holder is a swap-on-reload handle for the bank, so the admin reload
// endpoint can replace the dataset while requests are in flight.
type Holder struct {
	mu   sync.RWMutex
	bank *Bank
}

func NewHolder(b *Bank) *Holder { return &Holder{bank: b} }

func (h *Holder) Get() *Bank {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bank
}

func (h *Holder) Set(b *Bank) {
	h.mu.Lock()
	h.bank = b
	h.mu.Unlock()
}

// Reload reads the bank file again and swaps it in only if it validates.
func (h *Holder) Reload(path string) (int, error) {
	b, err := Load(path)
	if err != nil {
		return 0, err
	}
	h.Set(b)
	return b.Len(), nil
}
