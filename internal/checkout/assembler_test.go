package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmavida_back_end/internal/gateway"
	"farmavida_back_end/internal/models"
	"farmavida_back_end/internal/repository"
	"farmavida_back_end/internal/store"
)

// fakeGateway - passerelle en mémoire pour les tests d'assemblage. Les
// commandes acceptées restent relisibles via GetOrder, comme chez la vraie
// passerelle (système de référence).
type fakeGateway struct {
	submitted []*models.OrderRequest
	orders    map[string]models.OrderConfirmation
	failWith  error
}

func (g *fakeGateway) SubmitOrder(_ context.Context, req *models.OrderRequest) (*models.OrderConfirmation, error) {
	if g.failWith != nil {
		return nil, g.failWith
	}
	g.submitted = append(g.submitted, req)
	confirmation := models.OrderConfirmation{
		ID:        "pi_test_1",
		Status:    "requires_payment_method",
		Total:     req.Total,
		CreatedAt: time.Now(),
	}
	g.orders[confirmation.ID] = confirmation
	return &confirmation, nil
}

func (g *fakeGateway) GetOrder(_ context.Context, orderID string) (*models.OrderConfirmation, error) {
	if confirmation, ok := g.orders[orderID]; ok {
		return &confirmation, nil
	}
	return nil, &gateway.GatewayError{Status: 404}
}

func (g *fakeGateway) RefundOrder(context.Context, string) error { return nil }

type fixture struct {
	assembler  *Assembler
	gateway    *fakeGateway
	catalog    *repository.CatalogRepository
	promotions *repository.PromotionRepository
	logistics  *repository.LogisticsRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	engine := store.NewMemoryEngine()
	require.NoError(t, engine.Migrate(context.Background()))

	gw := &fakeGateway{orders: map[string]models.OrderConfirmation{}}
	catalog := repository.NewCatalogRepository(engine)
	promotions := repository.NewPromotionRepository(engine)
	logistics := repository.NewLogisticsRepository(engine)

	return &fixture{
		assembler:  NewAssembler(gw, promotions, catalog, logistics),
		gateway:    gw,
		catalog:    catalog,
		promotions: promotions,
		logistics:  logistics,
	}
}

func validSession() *Session {
	return &Session{
		UserID: "u1",
		Items: []models.CartItem{
			{ProductID: "p1", Name: "Viscomove 30 comprimidos", UnitPrice: 139.90, Quantity: 1, Weight: 0.2},
		},
		Customer: models.Customer{UserID: "u1", Name: "Ana Souza", Email: "ana@example.com"},
		Address: models.Address{
			Street: "Av. Paulista", Number: "1000", Neighborhood: "Bela Vista",
			City: "São Paulo", State: "SP", PostalCode: "01310-100",
		},
		Shipping: &models.ShippingOption{
			Carrier: "SEDEX", Price: 19.90, DeliveryDays: 3, Source: models.ShippingSourceTable,
		},
		PaymentMethod: "card",
	}
}

func addTestCoupon(t *testing.T, f *fixture, code, kind string, value float64) {
	t.Helper()
	c := models.Coupon{
		Code: code, Kind: kind, Value: value, MaxUses: 10,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, f.promotions.AddCoupon(context.Background(), &c))
}

func TestBuildOrderRequestValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	cases := []struct {
		name   string
		field  string
		mutate func(*Session)
	}{
		{"panier vide", "items", func(s *Session) { s.Items = nil }},
		{"quantité nulle", "items", func(s *Session) { s.Items[0].Quantity = 0 }},
		{"client sans email", "customer", func(s *Session) { s.Customer.Email = "" }},
		{"adresse sans CEP", "address", func(s *Session) { s.Address.PostalCode = "" }},
		{"adresse sans ville", "address", func(s *Session) { s.Address.City = "" }},
		{"adresse sans numéro", "address", func(s *Session) { s.Address.Number = "" }},
		{"livraison absente", "shipping", func(s *Session) { s.Shipping = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSession()
			tc.mutate(s)

			_, err := f.assembler.BuildOrderRequest(ctx, s)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestBuildOrderRequestTotals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	req, err := f.assembler.BuildOrderRequest(ctx, validSession())
	require.NoError(t, err)

	assert.Equal(t, 139.90, req.Subtotal)
	assert.Equal(t, 0.0, req.Discount)
	assert.Equal(t, 159.80, req.Total)
	assert.Nil(t, req.Coupon)
}

func TestBuildOrderRequestPercentCoupon(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	addTestCoupon(t, f, "DEZ", models.CouponKindPercent, 10)

	s := validSession()
	s.Items = []models.CartItem{{ProductID: "p1", Name: "Kit", UnitPrice: 100, Quantity: 2, Weight: 1}}
	s.Coupon = &models.Coupon{Code: "DEZ"}

	req, err := f.assembler.BuildOrderRequest(ctx, s)
	require.NoError(t, err)

	// 10% de 200 = 20, sur le sous-total seul, jamais sur la livraison
	assert.Equal(t, 200.0, req.Subtotal)
	assert.Equal(t, 20.0, req.Discount)
	assert.Equal(t, 199.90, req.Total)
	require.NotNil(t, req.Coupon)
	assert.Equal(t, 200.0, req.Coupon.Subtotal)
}

func TestBuildOrderRequestFixedCouponClamped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	addTestCoupon(t, f, "QUINZE", models.CouponKindFixed, 15)

	t.Run("réduction normale", func(t *testing.T) {
		s := validSession()
		s.Coupon = &models.Coupon{Code: "QUINZE"}

		req, err := f.assembler.BuildOrderRequest(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, 15.0, req.Discount)
		assert.Equal(t, 144.80, req.Total)
	})

	t.Run("réduction plafonnée au sous-total", func(t *testing.T) {
		s := validSession()
		s.Items = []models.CartItem{{ProductID: "p2", Name: "Brinde", UnitPrice: 5, Quantity: 1, Weight: 0.1}}
		s.Coupon = &models.Coupon{Code: "QUINZE"}

		req, err := f.assembler.BuildOrderRequest(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, 5.0, req.Discount)
		// Le total ne passe jamais sous zéro : reste la livraison
		assert.Equal(t, 19.90, req.Total)
	})
}

func TestBuildOrderRequestStaleCoupon(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	// Coupon appliqué au panier puis expiré avant l'assemblage
	c := models.Coupon{
		Code: "TARDE", Kind: models.CouponKindPercent, Value: 10, MaxUses: 10,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, f.promotions.AddCoupon(ctx, &c))
	c.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, f.promotions.UpdateCoupon(ctx, c))

	s := validSession()
	s.Coupon = &models.Coupon{Code: "TARDE"}

	_, err := f.assembler.BuildOrderRequest(ctx, s)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "coupon", validationErr.Field)

	// Coupon inconnu refusé aussi
	s.Coupon = &models.Coupon{Code: "FANTASMA"}
	_, err = f.assembler.BuildOrderRequest(ctx, s)
	require.ErrorAs(t, err, &validationErr)
}

func TestSubmitOrderEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	product := models.Product{ID: "p1", Name: "Viscomove 30 comprimidos", Price: 139.90, StockQuantity: 10, Weight: 0.2}
	require.NoError(t, f.catalog.AddProduct(ctx, &product))
	addTestCoupon(t, f, "BEMVINDO10", models.CouponKindPercent, 10)

	s := validSession()
	s.Coupon = &models.Coupon{Code: "BEMVINDO10"}

	confirmation, err := f.assembler.SubmitOrder(ctx, s)
	require.NoError(t, err)

	// 139.90 + 19.90 - 13.99 = 145.81
	assert.Equal(t, 145.81, confirmation.Total)
	assert.Equal(t, "pi_test_1", confirmation.ID)
	require.Len(t, f.gateway.submitted, 1)

	// Suites locales : coupon consommé, stock décrémenté, expédition créée
	coupon, err := f.promotions.GetCoupon(ctx, "BEMVINDO10")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.Uses)

	got, err := f.catalog.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 9, got.StockQuantity)

	shipment, err := f.logistics.GetShipment(ctx, "pi_test_1")
	require.NoError(t, err)
	assert.Equal(t, models.ShipmentStatusPosted, shipment.Status)
	assert.Equal(t, "SEDEX", shipment.Carrier)
}

func TestGetOrderReturnsSubmittedTotal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	product := models.Product{ID: "p1", Name: "Viscomove 30 comprimidos", Price: 139.90, StockQuantity: 10, Weight: 0.2}
	require.NoError(t, f.catalog.AddProduct(ctx, &product))
	addTestCoupon(t, f, "BEMVINDO10", models.CouponKindPercent, 10)

	s := validSession()
	s.Coupon = &models.Coupon{Code: "BEMVINDO10"}

	confirmation, err := f.assembler.SubmitOrder(ctx, s)
	require.NoError(t, err)
	require.NotEmpty(t, confirmation.ID)

	// La relecture auprès de la passerelle rend le même total que la
	// soumission (levée d'ambiguïté après timeout)
	got, err := f.assembler.GetOrder(ctx, confirmation.ID)
	require.NoError(t, err)
	assert.Equal(t, confirmation.ID, got.ID)
	assert.Equal(t, 145.81, got.Total)
}

func TestSubmitOrderGatewayFailureHasNoSideEffects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	product := models.Product{ID: "p1", Name: "Viscomove 30 comprimidos", Price: 139.90, StockQuantity: 10, Weight: 0.2}
	require.NoError(t, f.catalog.AddProduct(ctx, &product))
	addTestCoupon(t, f, "BEMVINDO10", models.CouponKindPercent, 10)

	f.gateway.failWith = &gateway.GatewayError{Timeout: true}

	s := validSession()
	s.Coupon = &models.Coupon{Code: "BEMVINDO10"}

	_, err := f.assembler.SubmitOrder(ctx, s)
	assert.True(t, gateway.IsGatewayTimeout(err))

	// Aucune suite locale sans commande acceptée
	coupon, err := f.promotions.GetCoupon(ctx, "BEMVINDO10")
	require.NoError(t, err)
	assert.Equal(t, 0, coupon.Uses)

	got, err := f.catalog.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.StockQuantity)
}

func TestRoundToCentavos(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 145.81, roundToCentavos(145.81000000000002))
	assert.Equal(t, 0.1, roundToCentavos(0.10000000000000003))
	assert.Equal(t, 19.9, roundToCentavos(19.899999999999995))
}
