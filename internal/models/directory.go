package models

// Directory is the ticker directory in source order, with lookup by symbol.
type Directory struct {
	companies []CompanyRef
	bySymbol  map[string]int
}

func NewDirectory() *Directory {
	return &Directory{bySymbol: make(map[string]int)}
}

// Add appends ref unless its symbol is already present. Reports whether ref was added.
func (d *Directory) Add(ref CompanyRef) bool {
	if _, ok := d.bySymbol[ref.Symbol]; ok {
		return false
	}
	d.bySymbol[ref.Symbol] = len(d.companies)
	d.companies = append(d.companies, ref)
	return true
}

func (d *Directory) Lookup(symbol string) (CompanyRef, bool) {
	if d == nil {
		return CompanyRef{}, false
	}
	i, ok := d.bySymbol[symbol]
	if !ok {
		return CompanyRef{}, false
	}
	return d.companies[i], true
}

func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.companies)
}

// First returns up to n companies in directory order. n < 0 returns all of them.
func (d *Directory) First(n int) []CompanyRef {
	if d == nil {
		return nil
	}
	if n < 0 || n > len(d.companies) {
		n = len(d.companies)
	}
	out := make([]CompanyRef, n)
	copy(out, d.companies[:n])
	return out
}
