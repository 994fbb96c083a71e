package order

import (
	"errors"
	"testing"
	"time"

	"tienda/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allowedPairs = map[[2]Status]bool{
	{StatusCreated, StatusPaid}:       true,
	{StatusCreated, StatusCancelled}:  true,
	{StatusPaid, StatusShipped}:       true,
	{StatusPaid, StatusCancelled}:     true,
	{StatusPaid, StatusRefunded}:      true,
	{StatusShipped, StatusDelivered}:  true,
	{StatusShipped, StatusReturned}:   true,
	{StatusDelivered, StatusReturned}: true,
}

func orderInStatus(t *testing.T, status Status) *Order {
	t.Helper()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return RebuildFromDTO(ReconstructionDTO{
		ID:        "order-1",
		Code:      "ORD-260102030405-123",
		UserID:    42,
		SubTotal:  shared.NewMoney(2700, "USD"),
		Total:     shared.NewMoney(2700, "USD"),
		Status:    status,
		Version:   3,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func TestChangeStatus_AllPairs(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

	count := 0
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			from, to := from, to
			count++
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				o := orderInStatus(t, from)
				changed, err := o.ChangeStatus(to, 7, "", at)

				switch {
				case from == to:
					require.NoError(t, err)
					assert.False(t, changed)
					assert.Equal(t, from, o.Status())
				case allowedPairs[[2]Status{from, to}]:
					require.NoError(t, err)
					assert.True(t, changed)
					assert.Equal(t, to, o.Status())
				default:
					require.Error(t, err)
					assert.True(t, errors.Is(err, shared.ErrConflict))
					assert.True(t, errors.Is(err, ErrInvalidTransition))
					assert.False(t, changed)
					assert.Equal(t, from, o.Status())
					assert.Empty(t, o.ChangeReason())
				}
			})
		}
	}
	assert.Equal(t, 49, count)
}

func TestChangeStatus_SameStatusIsNoOp(t *testing.T) {
	o := orderInStatus(t, StatusPaid)
	before := o.UpdatedAt()
	changedAt := o.StatusChangedAt()

	changed, err := o.ChangeStatus(StatusPaid, 9, "double click", time.Now())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, o.UpdatedAt())
	assert.Equal(t, changedAt, o.StatusChangedAt())
	assert.Empty(t, o.ChangeReason())
	assert.Empty(t, o.NewStatusChanges())
	assert.Empty(t, o.PullEvents())
}

func TestChangeStatus_ShippedToPaidConflict(t *testing.T) {
	o := orderInStatus(t, StatusShipped)

	_, err := o.ChangeStatus(StatusPaid, 1, "", time.Now())
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Equal(t, StatusShipped, o.Status())
}

func TestChangeStatus_AuditLog(t *testing.T) {
	o := orderInStatus(t, StatusCreated)
	t1 := time.Date(2026, 10, 14, 9, 30, 0, 123456700, time.UTC)
	t2 := t1.Add(time.Hour)

	_, err := o.ChangeStatus(StatusPaid, 7, "", t1)
	require.NoError(t, err)
	_, err = o.ChangeStatus(StatusShipped, 8, "carrier picked up", t2)
	require.NoError(t, err)

	want := "[2026-10-14T09:30:00.1234567Z] Created -> Paid by admin:7\n" +
		"[2026-10-14T10:30:00.1234567Z] Paid -> Shipped by admin:8 reason: carrier picked up"
	assert.Equal(t, want, o.ChangeReason())
	assert.Equal(t, int64(8), o.ChangedByAdminID())
	assert.Equal(t, t2, o.StatusChangedAt())
	assert.Equal(t, t2, o.UpdatedAt())

	changes := o.NewStatusChanges()
	require.Len(t, changes, 2)
	assert.Equal(t, StatusCreated, changes[0].From)
	assert.Equal(t, StatusShipped, changes[1].To)

	events := o.PullEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "order.status_changed", events[0].EventName())
	assert.Empty(t, o.PullEvents())
}

func TestChangeStatus_UsesUTC(t *testing.T) {
	o := orderInStatus(t, StatusCreated)
	loc := time.FixedZone("UTC-5", -5*3600)

	_, err := o.ChangeStatus(StatusCancelled, 3, "   ", time.Date(2026, 3, 1, 20, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, "[2026-03-02T01:00:00.0000000Z] Created -> Cancelled by admin:3", o.ChangeReason())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"Created", StatusCreated, false},
		{"paid", StatusPaid, false},
		{" SHIPPED ", StatusShipped, false},
		{"refunded", StatusRefunded, false},
		{"Lost", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, shared.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusReturned.IsTerminal())
	assert.True(t, StatusRefunded.IsTerminal())
	assert.False(t, StatusDelivered.IsTerminal())
	assert.Equal(t, []Status{StatusShipped, StatusCancelled, StatusRefunded}, StatusPaid.AllowedTargets())
}
