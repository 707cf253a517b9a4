package models

// CompanyRef identifies one filer from the SEC ticker directory.
type CompanyRef struct {
	Symbol string
	CIK    string
	Name   string
}

// FilingEntry is a single entry of a company's event filing feed.
type FilingEntry struct {
	Updated string
	Summary string
}

// ExtractedRecord is the per-entry result of the annotate step.
type ExtractedRecord struct {
	CompanyName        string
	FilingTime         string
	NewProduct         string
	ProductDescription string
}

// Row is an ExtractedRecord tagged with the symbol it was collected for.
// Field order and csv tags define the output header.
type Row struct {
	CompanyName        string `csv:"company_name"`
	FilingTime         string `csv:"filing_time"`
	NewProduct         string `csv:"new_product"`
	ProductDescription string `csv:"product_description"`
	StockName          string `csv:"stock_name"`
}

func NewRow(rec ExtractedRecord, symbol string) Row {
	return Row{
		CompanyName:        rec.CompanyName,
		FilingTime:         rec.FilingTime,
		NewProduct:         rec.NewProduct,
		ProductDescription: rec.ProductDescription,
		StockName:          symbol,
	}
}
