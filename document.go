package main

// Page is one generated page: its number on the surface and where its footer
// page label lives, which the finalizer overwrites once the page count is known.
type Page struct {
	Number int
	Footer *Rect
}

// Document is the ordered, index-addressable list of pages produced by the
// first pass. It is the only state the finalizer needs.
type Document struct {
	pages []*Page
}

func (d *Document) add(number int) *Page {
	p := &Page{Number: number}
	d.pages = append(d.pages, p)
	return p
}

// PageCount returns the number of pages laid out so far.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns page n (1-based).
func (d *Document) Page(n int) (*Page, bool) {
	if n < 1 || n > len(d.pages) {
		return nil, false
	}
	return d.pages[n-1], true
}

// last returns the most recently opened page, or nil for an empty document.
func (d *Document) last() *Page {
	if len(d.pages) == 0 {
		return nil
	}
	return d.pages[len(d.pages)-1]
}
