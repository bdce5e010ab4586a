package variant

import (
	"github.com/cgkcommerce/delivery-customizer/pkg/cart"
)

// DefaultAttributeKey is the cart attribute the storefront writes the
// assigned variant token into.
const DefaultAttributeKey = "_ab_shipping_suffix"

// HideDirective instructs the host to remove one delivery option,
// referenced by handle, from the shopper-visible set.
type HideDirective struct {
	Handle string `json:"handle"`
}

// Policy holds the visibility rules for one experiment. The zero value
// is not useful; construct with NewPolicy.
//
// ResolveVariant and Exempt are hooks: when set they replace the default
// attribute lookup and subscription check, so a storefront with a
// different assignment mechanism can reuse the matching algorithm
// unchanged.
type Policy struct {
	// AttributeKey names the cart attribute carrying the assigned token.
	AttributeKey string

	// AllowedTokens, when non-empty, restricts valid tokens to a closed
	// set (e.g. A–D). Empty accepts any single alphanumeric token.
	AllowedTokens []string

	// SubscriptionExemption disables filtering for carts containing a
	// recurring line item.
	SubscriptionExemption bool

	// ResolveVariant overrides the attribute lookup when non-nil.
	ResolveVariant func(cart.Cart) string

	// Exempt overrides the subscription check when non-nil.
	Exempt func(cart.Cart) bool
}

// NewPolicy builds a Policy from a loaded config. A nil config yields
// the defaults: attribute key DefaultAttributeKey, any single
// alphanumeric token, subscription exemption on.
func NewPolicy(cfg *Config) Policy {
	if cfg == nil {
		cfg = &Config{}
		applyDefaults(cfg)
	}
	return Policy{
		AttributeKey:          cfg.AttributeKey,
		AllowedTokens:         cfg.AllowedTokens,
		SubscriptionExemption: cfg.SubscriptionExemption == nil || *cfg.SubscriptionExemption,
	}
}

// Decision is the full outcome of one evaluation, for hosts that record
// or trace more than the directive list.
type Decision struct {
	Variant string          // assigned token, "" for control
	Exempt  bool            // true when an exemption suppressed filtering
	Hidden  []HideDirective // directives in traversal order
}

// Decide returns the hide directives for a cart: every option whose
// title carries a valid variant token different from the cart's assigned
// variant. Directives appear in traversal order (groups, then options
// within each group). The cart is never mutated; the same snapshot
// always yields the same list.
func (p Policy) Decide(c cart.Cart) []HideDirective {
	return p.Evaluate(c).Hidden
}

// Evaluate runs the policy and reports the assigned variant and
// exemption status alongside the directives.
func (p Policy) Evaluate(c cart.Cart) Decision {
	d := Decision{Variant: p.resolveVariant(c)}

	// Control group: no assignment means the shopper sees everything.
	if d.Variant == "" {
		return d
	}

	if p.exempt(c) {
		d.Exempt = true
		return d
	}

	for _, g := range c.DeliveryGroups {
		for _, opt := range g.DeliveryOptions {
			token, ok := ExtractSuffix(opt.Title)
			if !ok || !p.tokenAllowed(token) {
				// Untagged options are visible to every variant.
				continue
			}
			if token != d.Variant {
				d.Hidden = append(d.Hidden, HideDirective{Handle: opt.Handle})
			}
		}
	}
	return d
}

func (p Policy) resolveVariant(c cart.Cart) string {
	if p.ResolveVariant != nil {
		return p.ResolveVariant(c)
	}
	key := p.AttributeKey
	if key == "" {
		key = DefaultAttributeKey
	}
	return c.Attribute(key)
}

func (p Policy) exempt(c cart.Cart) bool {
	if p.Exempt != nil {
		return p.Exempt(c)
	}
	return p.SubscriptionExemption && c.HasSubscription()
}

// tokenAllowed checks an extracted token against the allow-list. With no
// list configured, anything the extractor accepted is valid.
func (p Policy) tokenAllowed(token string) bool {
	if len(p.AllowedTokens) == 0 {
		return true
	}
	for _, t := range p.AllowedTokens {
		if t == token {
			return true
		}
	}
	return false
}
