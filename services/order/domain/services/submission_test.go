package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
)

func shortfall() []orderdomain.StockIssue {
	return []orderdomain.StockIssue{{ArticleID: "A", DepotID: "D", MissingKg: kg("20"), Severity: orderdomain.SeverityPartial}}
}

func TestSubmit(t *testing.T) {
	t.Run("no issues submits directly", func(t *testing.T) {
		o := testOrder(line(keyAD, "100"))
		require.NoError(t, Submit(o, nil))
		assert.Equal(t, models.StatusSubmitted, o.Status)
	})

	t.Run("issues wait for confirmation", func(t *testing.T) {
		o := testOrder(line(keyAD, "100"))
		err := Submit(o, shortfall())

		var confirm *orderdomain.ConfirmationRequiredError
		require.ErrorAs(t, err, &confirm)
		assert.Len(t, confirm.Issues, 1)
		assert.Equal(t, models.StatusAwaitingConfirmation, o.Status)
	})

	t.Run("empty order", func(t *testing.T) {
		o := testOrder()
		assert.ErrorIs(t, Submit(o, nil), orderdomain.ErrInvalidOrder)
		assert.Equal(t, models.StatusDraft, o.Status)
	})

	t.Run("only drafts", func(t *testing.T) {
		o := testOrder(line(keyAD, "100"))
		o.Status = models.StatusSubmitted
		assert.ErrorIs(t, Submit(o, nil), orderdomain.ErrInvalidTransition)
	})
}

func TestConfirm(t *testing.T) {
	awaiting := func() *models.Order {
		o := testOrder(line(keyAD, "100"))
		o.Status = models.StatusAwaitingConfirmation
		return o
	}

	t.Run("shortfall acknowledged", func(t *testing.T) {
		o := awaiting()
		require.NoError(t, Confirm(o, shortfall(), "nadia"))
		assert.Equal(t, models.StatusMissingQuantity, o.Status)
		assert.Equal(t, "nadia", o.ConfirmedBy)
	})

	t.Run("shortfall resolved meanwhile", func(t *testing.T) {
		o := awaiting()
		require.NoError(t, Confirm(o, nil, "nadia"))
		assert.Equal(t, models.StatusSubmitted, o.Status)
		assert.Empty(t, o.ConfirmedBy)
	})

	t.Run("nothing to confirm", func(t *testing.T) {
		o := testOrder(line(keyAD, "100"))
		assert.ErrorIs(t, Confirm(o, nil, "nadia"), orderdomain.ErrInvalidTransition)
	})
}

func TestCancelAndExpire(t *testing.T) {
	o := testOrder(line(keyAD, "100"))
	o.Status = models.StatusAwaitingConfirmation
	require.NoError(t, CancelSubmission(o))
	assert.Equal(t, models.StatusDraft, o.Status)
	assert.ErrorIs(t, CancelSubmission(o), orderdomain.ErrInvalidTransition)

	o.Status = models.StatusAwaitingConfirmation
	assert.True(t, ExpireConfirmation(o))
	assert.Equal(t, models.StatusDraft, o.Status)
	assert.False(t, ExpireConfirmation(o))
}

func TestApplyRevision(t *testing.T) {
	o := testOrder(line(keyAD, "100"))
	o.Status = models.StatusSubmitted

	require.NoError(t, ApplyRevision(o, nil, false, "sami"))
	assert.Equal(t, models.StatusSubmitted, o.Status)

	assert.ErrorIs(t, ApplyRevision(o, shortfall(), false, "sami"), orderdomain.ErrConfirmationRequired)
	assert.Equal(t, models.StatusSubmitted, o.Status)

	require.NoError(t, ApplyRevision(o, shortfall(), true, "sami"))
	assert.Equal(t, models.StatusMissingQuantity, o.Status)
	assert.Equal(t, "sami", o.ConfirmedBy)
}

func TestMarkDelivered(t *testing.T) {
	o := testOrder(line(keyAD, "100"))
	assert.ErrorIs(t, MarkDelivered(o), orderdomain.ErrInvalidTransition)

	o.Status = models.StatusMissingQuantity
	require.NoError(t, MarkDelivered(o))
	assert.True(t, o.Locked())
}
