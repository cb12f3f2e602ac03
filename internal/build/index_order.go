package build

import (
	"sync"

	"git.home.luguber.info/inful/themebridge/internal/translate"
)

// orderedIndexer forwards pages to next in site order, whatever order the render
// workers finish them in. Each page waits in its slot until every earlier page
// has been forwarded; flush releases what is left and skips pages that never arrived.
type orderedIndexer struct {
	mu      sync.Mutex
	next    translate.Indexer
	slots   map[string]int
	pending []*translate.Page
	cursor  int
	// extra holds pages outside the site order, forwarded last.
	extra []*translate.Page
}

func newOrderedIndexer(next translate.Indexer, urls []string) *orderedIndexer {
	slots := make(map[string]int, len(urls))
	for i, u := range urls {
		if _, dup := slots[u]; !dup {
			slots[u] = i
		}
	}
	return &orderedIndexer{next: next, slots: slots, pending: make([]*translate.Page, len(urls))}
}

func (o *orderedIndexer) AddEntry(page *translate.Page) error {
	if page == nil {
		return o.next.AddEntry(page)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	i, ok := o.slots[page.URL]
	if !ok || i < o.cursor || o.pending[i] != nil {
		o.extra = append(o.extra, page)
		return nil
	}
	o.pending[i] = page
	for o.cursor < len(o.pending) && o.pending[o.cursor] != nil {
		if err := o.forward(); err != nil {
			return err
		}
	}
	return nil
}

// flush forwards every parked page in order, then the extras.
func (o *orderedIndexer) flush() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for o.cursor < len(o.pending) {
		if o.pending[o.cursor] == nil {
			o.cursor++
			continue
		}
		if err := o.forward(); err != nil {
			return err
		}
	}
	extra := o.extra
	o.extra = nil
	for _, page := range extra {
		if err := o.next.AddEntry(page); err != nil {
			return err
		}
	}
	return nil
}

func (o *orderedIndexer) forward() error {
	page := o.pending[o.cursor]
	o.pending[o.cursor] = nil
	o.cursor++
	return o.next.AddEntry(page)
}
