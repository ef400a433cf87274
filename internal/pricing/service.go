package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rcastell/dealerhub-backend/pkg/db/models"
	"github.com/rcastell/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/rcastell/dealerhub-backend/pkg/errors"
	"github.com/rcastell/dealerhub-backend/pkg/metrics"
)

// PriceSource names which layer produced the final unit price.
type PriceSource string

const (
	SourceOverride PriceSource = "override"
	SourceRule     PriceSource = "rule"
	SourceSegment  PriceSource = "segment"
	SourceList     PriceSource = "list"
)

// ResolveRequest carries everything a single resolution needs. At is the
// evaluation instant for validity windows; a zero At means time.Now(), and
// tests pass fixed instants.
type ResolveRequest struct {
	ProductID  uuid.UUID
	CustomerID uuid.UUID
	Channel    enums.Channel
	Quantity   int
	At         time.Time
}

// Quote is the outcome of one resolution. UnitPrice is rounded to two
// decimals exactly once, at the end; all intermediate math stays unrounded.
type Quote struct {
	ProductID       uuid.UUID        `json:"product_id"`
	Channel         enums.Channel    `json:"channel"`
	Quantity        int              `json:"quantity"`
	ListPrice       decimal.Decimal  `json:"list_price"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	Source          PriceSource      `json:"source"`
	RuleID          *uuid.UUID       `json:"rule_id,omitempty"`
	PercentDelta    *decimal.Decimal `json:"percent_delta,omitempty"`
	SegmentDiscount *decimal.Decimal `json:"segment_discount,omitempty"`
}

// Service resolves unit prices. Resolution is read-only and idempotent: the
// same request against the same stored rules yields the same quote, and
// nothing is cached between calls, so master-data edits apply immediately.
type Service interface {
	Resolve(ctx context.Context, req ResolveRequest) (*Quote, error)
}

type service struct {
	repo    Repository
	metrics *metrics.PricingMetrics
}

// NewService builds the resolution service. Metrics may be nil.
func NewService(repo Repository, m *metrics.PricingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	return &service{repo: repo, metrics: m}, nil
}

func (s *service) Resolve(ctx context.Context, req ResolveRequest) (*Quote, error) {
	started := time.Now()
	quote, err := s.resolve(ctx, req)
	if err != nil {
		s.metrics.IncFailure(string(pkgerrors.As(err).Code()))
		return nil, err
	}
	s.metrics.IncResolution(string(quote.Source))
	s.metrics.ObserveDuration(string(req.Channel), time.Since(started))
	return quote, nil
}

func (s *service) resolve(ctx context.Context, req ResolveRequest) (*Quote, error) {
	if !req.Channel.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid channel")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	at := req.At
	if at.IsZero() {
		at = time.Now()
	}

	product, err := s.repo.FindProduct(ctx, req.ProductID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	customer, err := s.repo.FindCustomer(ctx, req.CustomerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	base := product.ListPrice(req.Channel == enums.ChannelReseller)
	quote := &Quote{
		ProductID: product.ID,
		Channel:   req.Channel,
		Quantity:  req.Quantity,
		ListPrice: base,
	}

	// Negotiated override wins outright; rules and segment discounts never
	// touch it.
	override, err := s.findOverride(ctx, req, at)
	if err != nil {
		return nil, err
	}
	if override != nil {
		quote.UnitPrice = override.Price.Round(2)
		quote.Source = SourceOverride
		return quote, nil
	}

	rule, err := s.findRule(ctx, product, req, customer.SegmentID, at)
	if err != nil {
		return nil, err
	}

	price := base
	ruleIsSegmentSpecific := false
	if rule != nil {
		price = applyPercent(price, rule.PercentDelta)
		ruleIsSegmentSpecific = rule.IsSegmentSpecific()
		ruleID := rule.ID
		delta := rule.PercentDelta
		quote.RuleID = &ruleID
		quote.PercentDelta = &delta
		quote.Source = SourceRule
	}

	// The blanket segment discount never stacks on a segment-specific rule:
	// two customer-targeted discounts must not combine.
	if !ruleIsSegmentSpecific && customer.Segment != nil && !customer.Segment.DiscountPercent.IsZero() {
		price = applyPercent(price, customer.Segment.DiscountPercent)
		discount := customer.Segment.DiscountPercent
		quote.SegmentDiscount = &discount
		if quote.Source == "" {
			quote.Source = SourceSegment
		}
	}

	if quote.Source == "" {
		quote.Source = SourceList
	}

	quote.UnitPrice = price.Round(2)
	return quote, nil
}

func (s *service) findOverride(ctx context.Context, req ResolveRequest, at time.Time) (*models.PriceOverride, error) {
	overrides, err := s.repo.ListOverrides(ctx, req.ProductID, req.CustomerID, req.Channel)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price overrides")
	}
	// Rows arrive newest-first; the most recently created valid row wins when
	// duplicates exist for the same key.
	for i := range overrides {
		if overrides[i].ActiveAt(at) {
			return &overrides[i], nil
		}
	}
	return nil, nil
}

// findRule walks product, category then global scope. Only a scope with no
// rows at all falls through to the next one; a scope whose rows merely fail
// the quantity/date/channel/segment filter is final and yields no rule. A
// category with rules that happen not to apply should not silently expose the
// product to a broader global rule.
func (s *service) findRule(ctx context.Context, product *models.Product, req ResolveRequest, segmentID *uuid.UUID, at time.Time) (*models.PriceRule, error) {
	fetchers := []func() ([]models.PriceRule, error){
		func() ([]models.PriceRule, error) { return s.repo.ListRulesForProduct(ctx, product.ID) },
		func() ([]models.PriceRule, error) { return s.repo.ListRulesForCategory(ctx, product.CategoryID) },
		func() ([]models.PriceRule, error) { return s.repo.ListGlobalRules(ctx) },
	}

	for _, fetch := range fetchers {
		rules, err := fetch()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price rules")
		}
		if len(rules) == 0 {
			continue
		}
		winner, ok := selectRule(rules, req.Channel, req.Quantity, segmentID, at)
		if !ok {
			return nil, nil
		}
		return winner, nil
	}
	return nil, nil
}

// applyPercent multiplies price by (1 + delta/100) without rounding.
func applyPercent(price, delta decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return price.Mul(hundred.Add(delta)).Div(hundred)
}
