package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
	"github.com/Priyanshusingh0818/GORUS/internal/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoMBPNG returns a PNG padded with zero bytes to exactly 2MB.
func twoMBPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 64))))
	data := buf.Bytes()
	return append(data, make([]byte, 2<<20-len(data))...)
}

func proofFiles(t *testing.T, env *testEnv) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(env.uploads.Root(), upload.ProofDir))
	require.NoError(t, err)
	return entries
}

func (e *testEnv) upiOrder(t *testing.T, buyer Actor, method models.PaymentMethod) *models.Order {
	t.Helper()
	p := e.product(t, "Ghee", 1800, 10)
	o, err := e.orders.Create(context.Background(), buyer, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}}, Shipping: shipping(), PaymentMethod: method,
	})
	require.NoError(t, err)
	return o
}

func TestConfirmUPIStoresProof(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.user(t, "a@x.com")
	order := env.upiOrder(t, buyer, models.PaymentUPI)

	updated, err := env.payments.ConfirmUPI(ctx, buyer, order.ID, fileHeader(t, "screenshot.png", "image/png", twoMBPNG(t)))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPendingVerification, updated.PaymentStatus)
	require.NotNil(t, updated.PaymentProof)
	assert.NotEmpty(t, *updated.PaymentProof)
	assert.Regexp(t, `^payment-\d+-[0-9a-f]{8}\.png$`, *updated.PaymentProof)

	info, err := os.Stat(env.uploads.ProofPath(*updated.PaymentProof))
	require.NoError(t, err)
	assert.Equal(t, int64(2<<20), info.Size())

	var upi []notification
	for _, c := range env.notifier.all() {
		if c.kind == "upi_payment" {
			upi = append(upi, c)
		}
	}
	require.Len(t, upi, 1)
	assert.Equal(t, env.uploads.ProofPath(*updated.PaymentProof), upi[0].proofPath)
	assert.Equal(t, "a@x.com", upi[0].customer.Email)
}

func TestConfirmUPIRejectsOversizeBeforeDatabase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.user(t, "a@x.com")
	order := env.upiOrder(t, buyer, models.PaymentUPI)

	_, err := env.payments.ConfirmUPI(ctx, buyer, order.ID, fileHeader(t, "big.png", "image/png", make([]byte, 6<<20)))
	requireKind(t, err, KindValidation)

	// An order id that does not exist still yields the file error: the
	// database is never consulted.
	_, err = env.payments.ConfirmUPI(ctx, buyer, 9999, fileHeader(t, "big.png", "image/png", make([]byte, 6<<20)))
	requireKind(t, err, KindValidation)

	got, err := env.orders.Get(ctx, buyer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, got.PaymentStatus)
	assert.Nil(t, got.PaymentProof)
	assert.Empty(t, proofFiles(t, env))
}

func TestConfirmUPIRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "a@x.com")
	other := env.user(t, "b@x.com")
	upiOrder := env.upiOrder(t, owner, models.PaymentUPI)
	codOrder := env.upiOrder(t, owner, models.PaymentCOD)
	small := func() []byte { return twoMBPNG(t)[:1024] }

	_, err := env.payments.ConfirmUPI(ctx, owner, upiOrder.ID, fileHeader(t, "a.pdf", "application/pdf", small()))
	requireKind(t, err, KindValidation)

	_, err = env.payments.ConfirmUPI(ctx, owner, upiOrder.ID, nil)
	requireKind(t, err, KindValidation)
	assert.Equal(t, "Order ID and payment proof are required", err.Error())

	_, err = env.payments.ConfirmUPI(ctx, owner, 9999, fileHeader(t, "a.png", "image/png", small()))
	requireKind(t, err, KindNotFound)

	_, err = env.payments.ConfirmUPI(ctx, other, upiOrder.ID, fileHeader(t, "a.png", "image/png", small()))
	requireKind(t, err, KindForbidden)

	_, err = env.payments.ConfirmUPI(ctx, owner, codOrder.ID, fileHeader(t, "a.png", "image/png", small()))
	requireKind(t, err, KindValidation)
	assert.Equal(t, "This order is not a UPI payment", err.Error())

	_, err = env.orders.Cancel(ctx, owner, upiOrder.ID)
	require.NoError(t, err)
	_, err = env.payments.ConfirmUPI(ctx, owner, upiOrder.ID, fileHeader(t, "a.png", "image/png", small()))
	requireKind(t, err, KindConflict)

	assert.Empty(t, proofFiles(t, env))
}

func TestPaymentStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "a@x.com")
	other := env.user(t, "b@x.com")
	order := env.upiOrder(t, owner, models.PaymentUPI)

	state, err := env.payments.Status(ctx, owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, &PaymentState{
		OrderID:       order.ID,
		PaymentMethod: models.PaymentUPI,
		PaymentStatus: models.PaymentPending,
		OrderStatus:   models.StatusPending,
	}, state)

	_, err = env.payments.Status(ctx, other, order.ID)
	requireKind(t, err, KindForbidden)

	_, err = env.payments.Status(ctx, owner, 9999)
	requireKind(t, err, KindNotFound)

	_, err = env.payments.Status(ctx, owner, 0)
	requireKind(t, err, KindValidation)
}
