package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/codekart/codekart/internal/config"
	"github.com/codekart/codekart/internal/logging"
	"github.com/codekart/codekart/internal/models"
	"github.com/codekart/codekart/internal/notify"
	"github.com/codekart/codekart/internal/payments"
	"github.com/codekart/codekart/internal/upload"
	"github.com/codekart/codekart/internal/validation"
)

type fakeMailer struct {
	mu            sync.Mutex
	Alerts        []uint
	Confirmations []uint
	Receipts      []uint
}

func (m *fakeMailer) SendOrderAlert(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Alerts = append(m.Alerts, o.ID)
	return nil
}

func (m *fakeMailer) SendOrderConfirmation(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Confirmations = append(m.Confirmations, o.ID)
	return nil
}

func (m *fakeMailer) SendPaymentReceipt(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Receipts = append(m.Receipts, o.ID)
	return nil
}

type fakeCheckout struct {
	sessions map[string]*payments.Session
	created  []uint
}

func (f *fakeCheckout) CreateSession(_ context.Context, o *models.Order) (*payments.Session, error) {
	f.created = append(f.created, o.ID)
	return &payments.Session{
		ID:            fmt.Sprintf("cs_test_%d", o.ID),
		URL:           "https://checkout.example/session",
		PaymentStatus: "unpaid",
	}, nil
}

func (f *fakeCheckout) RetrieveSession(_ context.Context, id string) (*payments.Session, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such session: %s", id)
	}
	return sess, nil
}

type testEnv struct {
	T          *testing.T
	E          *echo.Echo
	DB         *gorm.DB
	H          *Handler
	Mailer     *fakeMailer
	Checkout   *fakeCheckout
	Dispatcher *notify.Dispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	e := echo.New()
	e.Validator = validation.New()

	fm := &fakeMailer{}
	fc := &fakeCheckout{sessions: map[string]*payments.Session{}}
	dispatcher := notify.NewDispatcher(fm, nil, logging.New("error"))

	env := &testEnv{
		T:          t,
		E:          e,
		DB:         db,
		Mailer:     fm,
		Checkout:   fc,
		Dispatcher: dispatcher,
		H: &Handler{
			DB:         db,
			Checkout:   fc,
			Dispatcher: dispatcher,
			Uploads:    upload.NewStore(t.TempDir()),
		},
	}
	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) doUploadRequest(path, field, filename string, content []byte) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		header.Set("Content-Type", ct)
	}
	fw, err := w.CreatePart(header)
	require.NoError(env.T, err)
	_, err = fw.Write(content)
	require.NoError(env.T, err)
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser mimics what the auth middleware puts into the request context.
func asUser(c echo.Context, id uint, role string) {
	c.Set("userID", id)
	c.Set("role", role)
}

func (env *testEnv) createProduct(title string, price float64) *models.Product {
	product := &models.Product{
		Title:        title,
		Description:  "test description",
		Price:        price,
		Category:     "web-development",
		Difficulty:   "intermediate",
		TechStack:    []string{"go"},
		Thumbnail:    "https://img.example/thumb.png",
		DeliveryType: "instant",
		InStock:      true,
	}
	require.NoError(env.T, env.DB.Create(product).Error)
	return product
}

func (env *testEnv) createOrder(status string, amount float64, userID *uint) *models.Order {
	order := &models.Order{
		UserID: userID,
		CustomerInfo: models.CustomerInfo{
			Name:  "Test Customer",
			Email: "customer@example.com",
		},
		Items: []models.OrderItem{
			{ProductID: 1, Title: "test", Price: amount, Quantity: 1},
		},
		TotalAmount:   amount,
		Status:        status,
		PaymentStatus: models.PaymentStatusPending,
	}
	require.NoError(env.T, env.DB.Create(order).Error)
	return order
}

func (env *testEnv) reloadOrder(id uint) *models.Order {
	var order models.Order
	require.NoError(env.T, env.DB.Preload("Items").First(&order, id).Error)
	return &order
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
