package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rcastell/dealerhub-backend/pkg/db/models"
	"github.com/rcastell/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/rcastell/dealerhub-backend/pkg/errors"
)

type stubRepo struct {
	product       *models.Product
	customer      *models.Customer
	overrides     []models.PriceOverride
	productRules  []models.PriceRule
	categoryRules []models.PriceRule
	globalRules   []models.PriceRule
}

func (s *stubRepo) FindProduct(_ context.Context, _ uuid.UUID) (*models.Product, error) {
	if s.product == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

func (s *stubRepo) FindCustomer(_ context.Context, _ uuid.UUID) (*models.Customer, error) {
	if s.customer == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.customer, nil
}

func (s *stubRepo) ListOverrides(_ context.Context, _, _ uuid.UUID, _ enums.Channel) ([]models.PriceOverride, error) {
	return s.overrides, nil
}

func (s *stubRepo) ListRulesForProduct(_ context.Context, _ uuid.UUID) ([]models.PriceRule, error) {
	return s.productRules, nil
}

func (s *stubRepo) ListRulesForCategory(_ context.Context, _ uuid.UUID) ([]models.PriceRule, error) {
	return s.categoryRules, nil
}

func (s *stubRepo) ListGlobalRules(_ context.Context) ([]models.PriceRule, error) {
	return s.globalRules, nil
}

var resolveAt = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func testProduct(customerPrice string) *models.Product {
	return &models.Product{
		ID:              uuid.New(),
		CategoryID:      uuid.New(),
		SKU:             "HW-1001",
		Name:            "Workshop lift",
		PriceToCustomer: decimal.RequireFromString(customerPrice),
		PriceToReseller: decimal.RequireFromString("80"),
		PurchaseCost:    decimal.RequireFromString("60"),
		IsActive:        true,
	}
}

func testCustomer() *models.Customer {
	return &models.Customer{ID: uuid.New(), Name: "Garage Muller", Email: "ops@muller.example"}
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func resolveReq(repo *stubRepo, quantity int) ResolveRequest {
	return ResolveRequest{
		ProductID:  repo.product.ID,
		CustomerID: repo.customer.ID,
		Channel:    enums.ChannelCustomer,
		Quantity:   quantity,
		At:         resolveAt,
	}
}

func TestResolveListPriceWithoutAdjustments(t *testing.T) {
	repo := &stubRepo{product: testProduct("100"), customer: testCustomer()}
	svc := newTestService(t, repo)

	quote, err := svc.Resolve(context.Background(), resolveReq(repo, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("100")) {
		t.Errorf("unit price = %s, want 100", quote.UnitPrice)
	}
	if quote.Source != SourceList {
		t.Errorf("source = %s, want list", quote.Source)
	}
}

func TestResolveResellerChannelUsesResellerList(t *testing.T) {
	repo := &stubRepo{product: testProduct("100"), customer: testCustomer()}
	svc := newTestService(t, repo)

	req := resolveReq(repo, 1)
	req.Channel = enums.ChannelReseller
	quote, err := svc.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("80")) {
		t.Errorf("unit price = %s, want reseller list 80", quote.UnitPrice)
	}
}

func TestResolveGlobalRuleDiscount(t *testing.T) {
	repo := &stubRepo{product: testProduct("100"), customer: testCustomer()}
	repo.globalRules = []models.PriceRule{mkRule()}
	svc := newTestService(t, repo)

	quote, err := svc.Resolve(context.Background(), resolveReq(repo, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("90")) {
		t.Errorf("unit price = %s, want 90.00", quote.UnitPrice)
	}
	if quote.Source != SourceRule {
		t.Errorf("source = %s, want rule", quote.Source)
	}
	if quote.RuleID == nil || quote.PercentDelta == nil {
		t.Error("rule quote missing rule id or percent delta")
	}
}

func TestResolveOverrideShortCircuits(t *testing.T) {
	repo := &stubRepo{product: testProduct("100"), customer: testCustomer()}
	repo.globalRules = []models.PriceRule{mkRule()}
	repo.overrides = []models.PriceOverride{{
		ID:        uuid.New(),
		Channel:   enums.ChannelCustomer,
		Price:     decimal.RequireFromString("75"),
		CreatedAt: resolveAt.Add(-time.Hour),
	}}
	svc := newTestService(t, repo)

	quote, err := svc.Resolve(context.Background(), resolveReq(repo, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("75")) {
		t.Errorf("unit price = %s, want override 75.00", quote.UnitPrice)
	}
	if quote.Source != SourceOverride {
		t.Errorf("source = %s, want override", quote.Source)
	}
	if quote.RuleID != nil || quote.SegmentDiscount != nil {
		t.Error("override quote must not carry rule or segment fields")
	}
}

func TestResolveMostRecentValidOverrideWins(t *testing.T) {
	repo := &stubRepo{product: testProduct("100"), customer: testCustomer()}
	// Newest-first ordering, as the repository delivers them.
	repo.overrides = []models.PriceOverride{
		{
			ID:        uuid.New(),
			Channel:   enums.ChannelCustomer,
			Price:     decimal.RequireFromString("70"),
			CreatedAt: resolveAt.Add(-time.Hour),
		},
		{
			ID:        uuid.New(),
			Channel:   enums.ChannelCustomer,
			Price:     decimal.RequireFromString("65"),
			CreatedAt: resolveAt.Add(-48 * time.Hour),
		},
	}
	svc := newTestService(t, repo)

	quote, err := svc.Resolve(context.Background(), resolveReq(repo, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("70")) {
		t.Errorf("unit price = %s, want newest override 70", quote.UnitPrice)
	}
}

func TestResolveExpiredOverrideFallsToRules(t *testing.T) {
	repo := &stubRepo{product: testProduct("100"), customer: testCustomer()}
	expiry := resolveAt.AddDate(0, -1, 0)
	repo.overrides = []models.PriceOverride{{
		ID:      uuid.New(),
		Channel: enums.ChannelCustomer,
		Price:   decimal.RequireFromString("75"),
		ValidTo: &expiry,
	}}
	repo.globalRules = []models.PriceRule{mkRule()}
	svc := newTestService(t, repo)

	quote, err := svc.Resolve(context.Background(), resolveReq(repo, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if quote.Source != SourceRule {
		t.Errorf("source = %s, want rule after override expiry", quote.Source)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("90")) {
		t.Errorf("unit price = %s, want 90.00", quote.UnitPrice)
	}
}

func TestResolveEmptyScopeFallsThrough(t *testing.T) {
	repo := &stubRepo{product: testProduct("100"), customer: testCustomer()}
	repo.categoryRules = []models.PriceRule{mkRule(func(r *models.PriceRule) {
		r.Scope = enums.RuleScopeCategory
		r.PercentDelta = decimal.RequireFromString("-20")
	})}
	repo.globalRules = []models.PriceRule{mkRule()}
	svc := newTestService(t, repo)

	quote, err := svc.Resolve(context.Background(), resolveReq(repo, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Product scope has no rows, so the category rule applies, not the global.
	if !quote.UnitPrice.Equal(decimal.RequireFromString("80")) {
		t.Errorf("unit price = %s, want category-scoped 80.00", quote.UnitPrice)
	}
}

func TestResolveFilteredScopeDoesNotFallThrough(t *testing.T) {
	repo := &stubRepo{product: testProduct("100"), customer: testCustomer()}
	// The category scope has a row, but its quantity floor rejects the
	// request. That must end the walk: the global discount stays out of reach.
	repo.categoryRules = []models.PriceRule{mkRule(func(r *models.PriceRule) {
		r.Scope = enums.RuleScopeCategory
		r.MinQuantity = 50
	})}
	repo.globalRules = []models.PriceRule{mkRule(func(r *models.PriceRule) {
		r.PercentDelta = decimal.RequireFromString("-30")
	})}
	svc := newTestService(t, repo)

	quote, err := svc.Resolve(context.Background(), resolveReq(repo, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if quote.Source != SourceList {
		t.Errorf("source = %s, want list (no fallthrough past a populated scope)", quote.Source)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("100")) {
		t.Errorf("unit price = %s, want list 100", quote.UnitPrice)
	}
}

func withSegment(c *models.Customer, discount string) *models.Customer {
	seg := &models.CustomerSegment{
		ID:              uuid.New(),
		Name:            "gold",
		DiscountPercent: decimal.RequireFromString(discount),
	}
	c.SegmentID = &seg.ID
	c.Segment = seg
	return c
}

func TestResolveSegmentDiscountAlone(t *testing.T) {
	repo := &stubRepo{product: testProduct("100"), customer: withSegment(testCustomer(), "-5")}
	svc := newTestService(t, repo)

	quote, err := svc.Resolve(context.Background(), resolveReq(repo, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("95")) {
		t.Errorf("unit price = %s, want 95.00", quote.UnitPrice)
	}
	if quote.Source != SourceSegment {
		t.Errorf("source = %s, want segment", quote.Source)
	}
}

func TestResolveSegmentStacksOnGeneralRule(t *testing.T) {
	repo := &stubRepo{product: testProduct("100"), customer: withSegment(testCustomer(), "-5")}
	repo.globalRules = []models.PriceRule{mkRule()}
	svc := newTestService(t, repo)

	quote, err := svc.Resolve(context.Background(), resolveReq(repo, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// 100 * 0.90 * 0.95 = 85.50.
	if !quote.UnitPrice.Equal(decimal.RequireFromString("85.5")) {
		t.Errorf("unit price = %s, want 85.50", quote.UnitPrice)
	}
	if quote.SegmentDiscount == nil {
		t.Error("segment discount missing from quote")
	}
}

func TestResolveSegmentDoesNotStackOnSegmentRule(t *testing.T) {
	customer := withSegment(testCustomer(), "-5")
	repo := &stubRepo{product: testProduct("100"), customer: customer}
	repo.globalRules = []models.PriceRule{mkRule(func(r *models.PriceRule) {
		r.SegmentID = customer.SegmentID
	})}
	svc := newTestService(t, repo)

	quote, err := svc.Resolve(context.Background(), resolveReq(repo, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("90")) {
		t.Errorf("unit price = %s, want 90.00 with no stacked segment discount", quote.UnitPrice)
	}
	if quote.SegmentDiscount != nil {
		t.Error("blanket segment discount stacked on a segment-specific rule")
	}
}

func TestResolveRoundsOnceAtTheEnd(t *testing.T) {
	repo := &stubRepo{product: testProduct("19.995"), customer: testCustomer()}
	repo.globalRules = []models.PriceRule{mkRule()}
	svc := newTestService(t, repo)

	quote, err := svc.Resolve(context.Background(), resolveReq(repo, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// 19.995 * 0.9 = 17.9955, rounded half away from zero to 18.00.
	if !quote.UnitPrice.Equal(decimal.RequireFromString("18")) {
		t.Errorf("unit price = %s, want 18.00", quote.UnitPrice)
	}
}

func TestResolveUnknownProduct(t *testing.T) {
	repo := &stubRepo{customer: testCustomer()}
	svc := newTestService(t, repo)

	_, err := svc.Resolve(context.Background(), ResolveRequest{
		ProductID:  uuid.New(),
		CustomerID: repo.customer.ID,
		Channel:    enums.ChannelCustomer,
		Quantity:   1,
		At:         resolveAt,
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestResolveUnknownCustomer(t *testing.T) {
	repo := &stubRepo{product: testProduct("100")}
	svc := newTestService(t, repo)

	_, err := svc.Resolve(context.Background(), ResolveRequest{
		ProductID:  repo.product.ID,
		CustomerID: uuid.New(),
		Channel:    enums.ChannelCustomer,
		Quantity:   1,
		At:         resolveAt,
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	repo := &stubRepo{product: testProduct("100"), customer: testCustomer()}
	svc := newTestService(t, repo)

	_, err := svc.Resolve(context.Background(), resolveReq(repo, 0))
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Errorf("quantity 0: err = %v, want VALIDATION_ERROR", err)
	}

	req := resolveReq(repo, 1)
	req.Channel = enums.Channel("wholesale")
	_, err = svc.Resolve(context.Background(), req)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Errorf("bad channel: err = %v, want VALIDATION_ERROR", err)
	}
}
