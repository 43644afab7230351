package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
)

func TestValidateReference(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{"valid", "CMD-2024-001", false},
		{"max length", strings.Repeat("a", 64), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"leading space", " CMD", true},
		{"trailing space", "CMD ", true},
		{"control character", "CMD\x00", true},
		{"slash", "CMD/1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReference(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLine(t *testing.T) {
	valid := line(keyAD, "10")
	assert.NoError(t, ValidateLine(valid))

	noDepot := valid
	noDepot.DepotID = ""
	assert.Error(t, ValidateLine(noDepot))

	zeroQty := valid
	zeroQty.OrderedKg = kg("0")
	assert.Error(t, ValidateLine(zeroQty))

	negPrice := valid
	negPrice.UnitPrice = kg("-1")
	assert.Error(t, ValidateLine(negPrice))

	negPacking := valid
	negPacking.KgPerCarton = kg("-20")
	assert.Error(t, ValidateLine(negPacking))

	subGram := valid
	subGram.OrderedKg = kg("20.0004")
	assert.Error(t, ValidateLine(subGram))

	finePacking := valid
	finePacking.KgPerCarton = kg("19.9995")
	assert.Error(t, ValidateLine(finePacking))

	finePrice := valid
	finePrice.UnitPrice = kg("2.51255")
	assert.Error(t, ValidateLine(finePrice))

	atScale := valid
	atScale.OrderedKg = kg("20.125")
	atScale.UnitPrice = kg("2.5125")
	assert.NoError(t, ValidateLine(atScale))
}

func TestValidateOrderForSave(t *testing.T) {
	assert.Error(t, ValidateOrderForSave(nil))
	assert.NoError(t, ValidateOrderForSave(testOrder(line(keyAD, "10"), line(keyBD, "5"))))

	noOrg := testOrder()
	noOrg.OrgID = uuid.Nil
	assert.Error(t, ValidateOrderForSave(noOrg))

	badType := testOrder()
	badType.Type = models.OrderType("BARTER")
	assert.Error(t, ValidateOrderForSave(badType))

	dup := testOrder(line(keyAD, "10"), line(keyAD, "5"))
	assert.ErrorIs(t, ValidateOrderForSave(dup), orderdomain.ErrDuplicateLineItem)
}
