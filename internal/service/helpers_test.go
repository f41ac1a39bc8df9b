package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
	"github.com/Priyanshusingh0818/GORUS/internal/store"
	"github.com/Priyanshusingh0818/GORUS/internal/testutil"
	"github.com/Priyanshusingh0818/GORUS/internal/upload"
	"github.com/Priyanshusingh0818/GORUS/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type notification struct {
	kind      string
	order     models.Order
	customer  *models.User
	proofPath string
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (f *fakeNotifier) OrderCreated(order *models.Order, customer *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notification{kind: "order_created", order: *order, customer: customer})
}

func (f *fakeNotifier) PaymentProofUploaded(order *models.Order, customer *models.User, proofPath string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notification{kind: "upi_payment", order: *order, customer: customer, proofPath: proofPath})
}

func (f *fakeNotifier) all() []notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notification(nil), f.calls...)
}

type testEnv struct {
	store     *store.Store
	uploads   *upload.Storage
	notifier  *fakeNotifier
	auth      *AuthService
	catalog   *CatalogService
	orders    *OrderService
	payments  *PaymentService
	analytics *AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(testutil.NewDB(t))
	uploads, err := upload.NewStorage(t.TempDir())
	require.NoError(t, err)
	n := &fakeNotifier{}
	return &testEnv{
		store:     st,
		uploads:   uploads,
		notifier:  n,
		auth:      NewAuthService(st, utils.NewTokenManager("test-secret", time.Hour), log),
		catalog:   NewCatalogService(st, uploads, log),
		orders:    NewOrderService(st, n, log),
		payments:  NewPaymentService(st, uploads, n, log),
		analytics: NewAnalyticsService(st, log),
	}
}

func (e *testEnv) user(t *testing.T, email string) Actor {
	t.Helper()
	res, err := e.auth.Signup(context.Background(), "", email, "secret1")
	require.NoError(t, err)
	return Actor{UserID: res.User.ID, Email: res.User.Email}
}

func (e *testEnv) product(t *testing.T, name string, price int64, stock int) *models.Product {
	t.Helper()
	p, err := e.catalog.Create(context.Background(), ProductInput{
		Name:  name,
		Price: decimal.NewFromInt(price),
		Unit:  "kg",
		Stock: &stock,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) stock(t *testing.T, id uint) int {
	t.Helper()
	p, err := e.store.ProductByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func shipping() ShippingInput {
	return ShippingInput{Name: "Asha Rao", Address: "12 Dairy Lane", Phone: "9999999999"}
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}

func fileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="paymentProof"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["paymentProof"][0]
}
