package repository

import (
	"strconv"
	"strings"
)

// Sheet names and header keyword synonyms mirror the spreadsheet the store
// team actually maintains; matching is fuzzy on purpose so renaming or
// reordering columns does not break the service.
const (
	balancesSheet = "Баланси"
	productsSheet = "Товари"
	historySheet  = "Історія покупок"
)

var (
	accountNameKeywords = []string{"ім'я", "имя", "name", "сотрудника"}
	staticIDKeywords    = []string{"static", "статик"}
	handleKeywords      = []string{"telegram", "tg"}
	totalKeywords       = []string{"загальні", "общ", "total"}
	spentKeywords       = []string{"витрачені", "потрачено", "spent"}
	actualKeywords      = []string{"актуальні", "актуальные", "actual"}

	productIDKeywords   = []string{"id", "ід", "номер"}
	productNameKeywords = []string{"назва", "name", "товар"}
	descriptionKeywords = []string{"опис", "description"}
	priceKeywords       = []string{"ціна", "цена", "price", "бал"}
	categoryKeywords    = []string{"категорія", "category"}
	imageKeywords       = []string{"фото", "image", "картинка"}
)

// Column indexes are 0-based into the header row; -1 means the field has no
// column and downstream code substitutes its default.
type accountColumns struct {
	name, staticID, handle, total, spent, actual int
}

type productColumns struct {
	id, name, description, price, category, image int
}

func resolveAccountColumns(headers []string) accountColumns {
	cols := accountColumns{name: -1, staticID: -1, handle: -1, total: -1, spent: -1, actual: -1}
	for i, header := range headers {
		h := strings.ToLower(header)
		switch {
		case containsAny(h, accountNameKeywords):
			if cols.name == -1 {
				cols.name = i
			}
		case containsAny(h, staticIDKeywords):
			if cols.staticID == -1 {
				cols.staticID = i
			}
		case containsAny(h, handleKeywords):
			if cols.handle == -1 {
				cols.handle = i
			}
		case containsAny(h, totalKeywords):
			if cols.total == -1 {
				cols.total = i
			}
		case containsAny(h, spentKeywords):
			if cols.spent == -1 {
				cols.spent = i
			}
		case containsAny(h, actualKeywords):
			if cols.actual == -1 {
				cols.actual = i
			}
		}
	}
	return cols
}

func resolveProductColumns(headers []string) productColumns {
	cols := productColumns{id: -1, name: -1, description: -1, price: -1, category: -1, image: -1}
	for i, header := range headers {
		h := strings.ToLower(header)
		switch {
		case containsAny(h, productIDKeywords):
			if cols.id == -1 {
				cols.id = i
			}
		case containsAny(h, productNameKeywords):
			if cols.name == -1 {
				cols.name = i
			}
		case containsAny(h, descriptionKeywords):
			if cols.description == -1 {
				cols.description = i
			}
		case containsAny(h, priceKeywords):
			if cols.price == -1 {
				cols.price = i
			}
		case containsAny(h, categoryKeywords):
			if cols.category == -1 {
				cols.category = i
			}
		case containsAny(h, imageKeywords):
			if cols.image == -1 {
				cols.image = i
			}
		}
	}
	return cols
}

func containsAny(header string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(header, kw) {
			return true
		}
	}
	return false
}

// cellAt tolerates short rows and the -1 sentinel; a missing cell is "".
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseCellInt accepts pure digit strings only; anything else is 0.
func parseCellInt(s string) int {
	if !isDigits(s) {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
