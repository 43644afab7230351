package services

import (
	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
)

// NewLineIndex is passed as excludingIndex when the key belongs to a line not yet on the order.
const NewLineIndex = -1

// WouldDuplicate reports whether any line other than excludingIndex already
// uses key, and if so which one.
func WouldDuplicate(lines []models.OrderLine, key models.LineKey, excludingIndex int) (int, bool) {
	for i, l := range lines {
		if i == excludingIndex {
			continue
		}
		if l.Key() == key {
			return i, true
		}
	}
	return 0, false
}

// CheckLineChange must run before an article or depot change is applied to
// lines[index] (or before appending a line, with index NewLineIndex).
// It returns a *DuplicateLineItemError naming the existing line on conflict.
func CheckLineChange(lines []models.OrderLine, index int, key models.LineKey) error {
	i, dup := WouldDuplicate(lines, key, index)
	if !dup {
		return nil
	}
	existing := lines[i]
	return &orderdomain.DuplicateLineItemError{
		Existing: orderdomain.ExistingLine{
			Index:       i,
			ArticleID:   existing.ArticleID,
			DepotID:     existing.DepotID,
			ArticleName: existing.ArticleName,
			DepotName:   existing.DepotName,
		},
	}
}

// CheckLines validates a whole line collection in order, as if each line had
// been entered one by one. The first collision is returned.
func CheckLines(lines []models.OrderLine) error {
	for i := range lines {
		if err := CheckLineChange(lines[:i], NewLineIndex, lines[i].Key()); err != nil {
			return err
		}
	}
	return nil
}
