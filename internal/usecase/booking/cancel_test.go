package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

func TestCancelRoundTrip(t *testing.T) {
	f := newFixture(t, PolicyFirstAvailable)
	booked := f.mustBook(t, monday, "10:00", aluizio, "11 98765-4321", "Social")

	out, err := f.cancel(monday, "10:00", aluizio, "1198765-4321")
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	assert.Nil(t, out.Record)
	assert.False(t, out.Unblocked)
	require.Len(t, out.Cancelled, 1)
	assert.Equal(t, booked.SubBooking.ID, out.Cancelled[0].ID)

	assert.Equal(t, domain.StateAvailable, f.state(t, monday, "10:00", aluizio).State)
}

func TestCancelPhoneMismatchKeepsRecord(t *testing.T) {
	f := newFixture(t, PolicyFirstAvailable)
	f.mustBook(t, monday, "10:00", aluizio, "11987654321", "Social")

	_, err := f.cancel(monday, "10:00", aluizio, "11900000000")
	assert.Equal(t, httperr.KindIntegrity, httperr.KindOf(err))
	assert.Equal(t, "phone_mismatch", httperr.CodeOf(err))

	assert.Equal(t, domain.StateBooked, f.state(t, monday, "10:00", aluizio).State)
}

func TestCancelNotFound(t *testing.T) {
	f := newFixture(t, PolicyFirstAvailable)

	_, err := f.cancel(monday, "10:00", aluizio, "11987654321")
	assert.True(t, httperr.IsBusiness(err, "not_found"))
}

func TestCancelRejectsBlockRecords(t *testing.T) {
	f := newFixture(t, PolicyFirstAvailable)
	f.mustBook(t, monday, "15:00", aluizio, "1", "Degradê", "Barba")

	_, err := f.cancel(monday, "15:30", aluizio, "1")
	assert.True(t, httperr.IsBusiness(err, "not_found"))
	assert.Equal(t, domain.StateBlocked, f.state(t, monday, "15:30", aluizio).State)
}

func TestCancelValidation(t *testing.T) {
	f := newFixture(t, PolicyFirstAvailable)

	_, err := f.cancel(monday, "10:00", aluizio, "")
	assert.True(t, httperr.IsBusiness(err, "missing_fields"))

	_, err = f.cancel(monday, "10:00", "Zé", "1")
	assert.True(t, httperr.IsBusiness(err, "unknown_barber"))

	_, err = f.cancel(monday, "10:10", aluizio, "1")
	assert.True(t, httperr.IsBusiness(err, "invalid_time"))
}

func TestCancelOneEntryOfMergedSlot(t *testing.T) {
	f := newFixture(t, PolicyFirstAvailable)
	f.mustBook(t, monday, "15:00", aluizio, "A", "Pezim")
	f.mustBook(t, monday, "15:00", aluizio, "B", "Tradicional")

	out, err := f.cancel(monday, "15:00", aluizio, "B")
	require.NoError(t, err)
	assert.False(t, out.Deleted)
	require.NotNil(t, out.Record)
	require.Len(t, out.Record.Bookings, 1)
	assert.Equal(t, "A", out.Record.Bookings[0].CustomerPhone)
	assert.Equal(t, domain.StatusQuickService, out.Record.Status)

	assert.Equal(t, domain.StateQuickService, f.state(t, monday, "15:00", aluizio).State)

	// the slot takes a new compatible booking again
	f.mustBook(t, monday, "15:00", aluizio, "C", "Barba")
	assert.Equal(t, domain.StateBooked, f.state(t, monday, "15:00", aluizio).State)
}

func TestCancelMergedComboReleasesFollowingSlot(t *testing.T) {
	f := newFixture(t, PolicyFirstAvailable)
	f.mustBook(t, monday, "15:00", aluizio, "A", "Pezim")
	f.mustBook(t, monday, "15:00", aluizio, "B", "Tradicional", "Barba")
	require.Equal(t, domain.StateBlocked, f.state(t, monday, "15:30", aluizio).State)

	out, err := f.cancel(monday, "15:00", aluizio, "B")
	require.NoError(t, err)
	assert.True(t, out.Unblocked)
	assert.Equal(t, domain.StateQuickService, f.state(t, monday, "15:00", aluizio).State)
	assert.Equal(t, domain.StateAvailable, f.state(t, monday, "15:30", aluizio).State)
}

func TestCancelKeepsBlockOwnedByAnotherReservation(t *testing.T) {
	f := newFixture(t, PolicyFirstAvailable)
	out := f.mustBook(t, monday, "15:00", aluizio, "A", "Degradê", "Barba")

	// a stale block that points elsewhere
	blk := domain.NewBlock(out.Key.WithTime("15:30"), "someone-else", clock())
	require.NoError(t, f.store.Set(context.Background(), blk))

	cancelled, err := f.cancel(monday, "15:00", aluizio, "A")
	require.NoError(t, err)
	assert.False(t, cancelled.Unblocked)
	assert.Equal(t, domain.StateBlocked, f.state(t, monday, "15:30", aluizio).State)
}

func TestCancelStorageFailureIsConnectivity(t *testing.T) {
	// 1st transaction is the booking, 2nd its combo block, 3rd the cancellation
	f, _ := newTxFailFixture(t, 3)
	f.mustBook(t, monday, "10:00", aluizio, "11987654321", "Degradê", "Barba")

	_, err := f.cancel(monday, "10:00", aluizio, "11987654321")
	require.Error(t, err)
	assert.True(t, httperr.IsConnectivity(err))
	assert.False(t, httperr.IsBusiness(err, "not_found"))

	res := f.state(t, monday, "10:00", aluizio)
	assert.Equal(t, domain.StateBooked, res.State)
	assert.Equal(t, domain.ReasonCombo, f.state(t, monday, "10:30", aluizio).Reason)
}

func TestCancelUnblockFailureIsWarning(t *testing.T) {
	// booking, combo block, cancellation, then the failing unblock
	f, _ := newTxFailFixture(t, 4)
	f.mustBook(t, monday, "10:00", aluizio, "11987654321", "Degradê", "Barba")

	out, err := f.cancel(monday, "10:00", aluizio, "11987654321")
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	assert.False(t, out.Unblocked)
	assert.Equal(t, []string{"combo_unblock_failed"}, out.Warnings)

	assert.Equal(t, domain.StateAvailable, f.state(t, monday, "10:00", aluizio).State)
}
