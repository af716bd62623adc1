package core

// ProductTable is an ordered, mutable collection of product records.
//
// Lookups go through a SKU -> position index that keeps the first
// occurrence of each SKU, so duplicate SKUs resolve to the earliest row in
// table order. Uniqueness is not enforced.
type ProductTable struct {
	rows  []ProductRecord
	index map[string]int
}

// NewProductTable builds a table from rows. The slice is copied.
func NewProductTable(rows []ProductRecord) *ProductTable {
	t := &ProductTable{rows: make([]ProductRecord, len(rows))}
	copy(t.rows, rows)
	t.reindex()
	return t
}

func (t *ProductTable) reindex() {
	t.index = make(map[string]int, len(t.rows))
	for i, r := range t.rows {
		if _, exists := t.index[r.SKU]; !exists {
			t.index[r.SKU] = i
		}
	}
}

// Len returns the number of rows.
func (t *ProductTable) Len() int {
	return len(t.rows)
}

// Find returns a copy of the first row whose SKU equals sku.
func (t *ProductTable) Find(sku string) (ProductRecord, error) {
	i, ok := t.index[sku]
	if !ok {
		return ProductRecord{}, &ProductNotFoundError{SKU: sku}
	}
	return t.rows[i], nil
}

// update applies fn to the first row matching sku in place and returns the
// row's Counted value before and after.
func (t *ProductTable) update(sku string, fn func(r *ProductRecord)) (before, after int, err error) {
	i, ok := t.index[sku]
	if !ok {
		return 0, 0, &ProductNotFoundError{SKU: sku}
	}
	before = t.rows[i].Counted
	fn(&t.rows[i])
	return before, t.rows[i].Counted, nil
}

// Remove deletes every row whose SKU equals sku and returns how many were removed.
func (t *ProductTable) Remove(sku string) int {
	kept := t.rows[:0]
	removed := 0
	for _, r := range t.rows {
		if r.SKU == sku {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	t.rows = kept
	if removed > 0 {
		t.reindex()
	}
	return removed
}

// Rows returns a copy of all rows in table order.
func (t *ProductTable) Rows() []ProductRecord {
	out := make([]ProductRecord, len(t.rows))
	copy(out, t.rows)
	return out
}

// DuplicateSKUs returns SKUs that occur more than once, in order of first appearance.
func (t *ProductTable) DuplicateSKUs() []string {
	seen := make(map[string]int, len(t.rows))
	var dups []string
	for _, r := range t.rows {
		seen[r.SKU]++
		if seen[r.SKU] == 2 {
			dups = append(dups, r.SKU)
		}
	}
	return dups
}
